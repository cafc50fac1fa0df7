package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"AlertHub/internal/domain/models"
	domainrepo "AlertHub/internal/domain/repository"
	applogger "AlertHub/pkg/logger"

	"github.com/labstack/echo/v4"
)

// memStore is an in-memory AlertStore for handler tests.
type memStore struct {
	partitions map[string]map[string]models.Alert
	pingErr    error
}

func newMemStore() *memStore {
	return &memStore{partitions: make(map[string]map[string]models.Alert)}
}

func (s *memStore) part(kind domainrepo.Kind, status domainrepo.Status) map[string]models.Alert {
	key := string(kind) + ":" + string(status)
	if s.partitions[key] == nil {
		s.partitions[key] = make(map[string]models.Alert)
	}
	return s.partitions[key]
}

func (s *memStore) GetAlerts(_ context.Context, kind domainrepo.Kind, status domainrepo.Status, activeOnly bool) ([]models.Alert, error) {
	out := make([]models.Alert, 0)
	for _, a := range s.part(kind, status) {
		if activeOnly && !a.IsActive {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *memStore) AddAlert(_ context.Context, kind domainrepo.Kind, status domainrepo.Status, alert models.Alert) (bool, error) {
	p := s.part(kind, status)
	if _, exists := p[alert.ID]; exists {
		return false, nil
	}
	p[alert.ID] = alert
	return true, nil
}

func (s *memStore) AddAlerts(ctx context.Context, kind domainrepo.Kind, status domainrepo.Status, alerts []models.Alert) error {
	for _, a := range alerts {
		if _, err := s.AddAlert(ctx, kind, status, a); err != nil {
			return err
		}
	}
	return nil
}

func (s *memStore) RemoveAlert(_ context.Context, kind domainrepo.Kind, status domainrepo.Status, id string) (bool, error) {
	p := s.part(kind, status)
	if _, exists := p[id]; !exists {
		return false, nil
	}
	delete(p, id)
	return true, nil
}

func (s *memStore) RemoveAlerts(ctx context.Context, kind domainrepo.Kind, status domainrepo.Status, ids []string) (int, error) {
	n := 0
	for _, id := range ids {
		removed, _ := s.RemoveAlert(ctx, kind, status, id)
		if removed {
			n++
		}
	}
	return n, nil
}

func (s *memStore) RemoveAll(_ context.Context, kind domainrepo.Kind, status domainrepo.Status) (int, error) {
	p := s.part(kind, status)
	n := len(p)
	for id := range p {
		delete(p, id)
	}
	return n, nil
}

func (s *memStore) MoveAlert(_ context.Context, kind domainrepo.Kind, from, to domainrepo.Status, id string) (bool, error) {
	src := s.part(kind, from)
	a, exists := src[id]
	if !exists {
		return false, nil
	}
	s.part(kind, to)[id] = a
	delete(src, id)
	return true, nil
}

func (s *memStore) PurgeTriggeredBefore(context.Context, domainrepo.Kind, time.Time) (int, error) {
	return 0, nil
}

func (s *memStore) Ping(context.Context) error { return s.pingErr }
func (s *memStore) Close() error               { return nil }

func setup() (*echo.Echo, *memStore) {
	store := newMemStore()
	h := NewAlertsEchoHandler(applogger.Nop(), store)
	e := echo.New()
	h.RegisterRoutes(e)
	return e, store
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndListAlert(t *testing.T) {
	e, store := setup()

	rec := doJSON(e, http.MethodPost, "/api/alerts/line",
		`{"symbol":"BTCUSDT","alertName":"BTC level","price":50000}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	alerts, _ := store.GetAlerts(context.Background(), domainrepo.KindLine, domainrepo.StatusWorking, false)
	if len(alerts) != 1 {
		t.Fatalf("stored %d alerts, want 1", len(alerts))
	}
	if alerts[0].ID == "" {
		t.Fatal("id must be generated when absent")
	}
	if !alerts[0].IsActive {
		t.Fatal("created alert must be active")
	}
	if alerts[0].Action != "cross" {
		t.Fatalf("default action = %q, want cross", alerts[0].Action)
	}

	rec = doJSON(e, http.MethodGet, "/api/alerts/line", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var resp struct {
		Success bool            `json:"success"`
		Count   int             `json:"count"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Count != 1 {
		t.Fatalf("list response: %s", rec.Body.String())
	}
}

func TestCreateValidation(t *testing.T) {
	e, _ := setup()

	rec := doJSON(e, http.MethodPost, "/api/alerts/line", `{"price":100}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing symbol should be 400, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPost, "/api/alerts/sideways",
		`{"symbol":"BTCUSDT","alertName":"x","price":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown kind should be 400, got %d", rec.Code)
	}
}

func TestCreateDuplicateConflicts(t *testing.T) {
	e, _ := setup()

	body := `{"id":"fixed","symbol":"BTCUSDT","alertName":"x","price":1}`
	if rec := doJSON(e, http.MethodPost, "/api/alerts/line", body); rec.Code != http.StatusCreated {
		t.Fatalf("first insert status = %d", rec.Code)
	}
	if rec := doJSON(e, http.MethodPost, "/api/alerts/line", body); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate insert status = %d, want 409", rec.Code)
	}
}

func TestDeleteAlert(t *testing.T) {
	e, store := setup()
	store.part(domainrepo.KindLine, domainrepo.StatusWorking)["a1"] = models.Alert{ID: "a1"}

	if rec := doJSON(e, http.MethodDelete, "/api/alerts/line/a1", ""); rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := doJSON(e, http.MethodDelete, "/api/alerts/line/a1", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestDeleteBatchAndAll(t *testing.T) {
	e, store := setup()
	p := store.part(domainrepo.KindVwap, domainrepo.StatusWorking)
	p["a"] = models.Alert{ID: "a"}
	p["b"] = models.Alert{ID: "b"}
	p["c"] = models.Alert{ID: "c"}

	rec := doJSON(e, http.MethodPost, "/api/alerts/vwap/delete-batch", `{"ids":["a","b","zzz"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete-batch status = %d", rec.Code)
	}
	var resp struct {
		Count int `json:"count"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Count != 2 {
		t.Fatalf("deleted count = %d, want 2", resp.Count)
	}

	if rec := doJSON(e, http.MethodDelete, "/api/alerts/vwap/all", ""); rec.Code != http.StatusOK {
		t.Fatalf("delete-all status = %d", rec.Code)
	}
	if len(p) != 0 {
		t.Fatalf("partition not emptied, %d left", len(p))
	}
}

func TestArchiveMovesFromTriggered(t *testing.T) {
	e, store := setup()
	store.part(domainrepo.KindLine, domainrepo.StatusTriggered)["t1"] = models.Alert{ID: "t1"}

	if rec := doJSON(e, http.MethodPost, "/api/alerts/line/t1/archive", ""); rec.Code != http.StatusOK {
		t.Fatalf("archive status = %d", rec.Code)
	}
	if len(store.part(domainrepo.KindLine, domainrepo.StatusTriggered)) != 0 {
		t.Fatal("record still in triggered partition")
	}
	if len(store.part(domainrepo.KindLine, domainrepo.StatusArchived)) != 1 {
		t.Fatal("record missing from archived partition")
	}

	if rec := doJSON(e, http.MethodPost, "/api/alerts/line/zzz/archive", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("archiving a missing record should be 404, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	e, _ := setup()
	if rec := doJSON(e, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
}
