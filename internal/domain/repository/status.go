package repository

// Kind identifies the alert variant.
type Kind string

const (
	KindLine Kind = "line"
	KindVwap Kind = "vwap"
)

// Status identifies the lifecycle partition an alert record lives in.
// A record belongs to exactly one partition at a time; movement between
// partitions is an atomic relocation in the store, never a field flip.
type Status string

const (
	StatusWorking   Status = "working"
	StatusTriggered Status = "triggered"
	StatusArchived  Status = "archived"
)

// ParseKind converts a raw string (e.g. a URL path segment) to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindLine, KindVwap:
		return Kind(s), true
	default:
		return "", false
	}
}

// IsValidStatus returns true if s is a known partition.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusWorking, StatusTriggered, StatusArchived:
		return true
	default:
		return false
	}
}

// Kinds lists both alert kinds, in the order jobs process them.
func Kinds() []Kind { return []Kind{KindLine, KindVwap} }
