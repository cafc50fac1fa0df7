package models

// JobResult summarizes one scheduled run for the job wrapper to report.
type JobResult struct {
	Success         bool     `json:"success"`
	Timeframe       string   `json:"timeframe"`
	TotalCoins      int      `json:"totalCoins"`
	SuccessfulCoins int      `json:"successfulCoins"`
	FailedCoins     int      `json:"failedCoins"`
	Errors          []string `json:"errors"`
	ExecutionTimeMs int64    `json:"executionTime"`
}
