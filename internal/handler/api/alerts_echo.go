package api

import (
	"time"

	"AlertHub/internal/domain/models"
	domainrepo "AlertHub/internal/domain/repository"
	xhttp "AlertHub/pkg/http"
	xlogger "AlertHub/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AlertsEchoHandler exposes the alert CRUD API over Echo.
type AlertsEchoHandler struct {
	logger *xlogger.Logger
	store  domainrepo.AlertStore
	now    func() time.Time
}

func NewAlertsEchoHandler(logger *xlogger.Logger, store domainrepo.AlertStore) *AlertsEchoHandler {
	return &AlertsEchoHandler{logger: logger, store: store, now: time.Now}
}

func (h *AlertsEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api/alerts/:kind")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.POST("/batch", h.CreateBatch)
	g.GET("/triggered", h.ListTriggered)
	// static routes must be registered before the :id parameter routes
	g.DELETE("/all", h.DeleteAll)
	g.POST("/delete-batch", h.DeleteBatch)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/archive", h.Archive)
}

func (h *AlertsEchoHandler) kind(c echo.Context) (domainrepo.Kind, bool) {
	kind, ok := domainrepo.ParseKind(c.Param("kind"))
	return kind, ok
}

// Health reports storage reachability.
func (h *AlertsEchoHandler) Health(c echo.Context) error {
	if err := h.store.Ping(c.Request().Context()); err != nil {
		return xhttp.WriteError(c, xhttp.NewUnavailable("storage unreachable"))
	}
	return xhttp.OK(c, map[string]string{"status": "ok"})
}

// List returns all working alerts of one kind.
func (h *AlertsEchoHandler) List(c echo.Context) error {
	kind, ok := h.kind(c)
	if !ok {
		return xhttp.WriteError(c, xhttp.NewBadRequest("unknown alert kind"))
	}

	alerts, err := h.store.GetAlerts(c.Request().Context(), kind, domainrepo.StatusWorking, false)
	if err != nil {
		h.logger.Error("list alerts failed", xlogger.String("kind", string(kind)), xlogger.Error(err))
		return xhttp.WriteError(c, xhttp.NewInternal("failed to read alerts", err))
	}
	return xhttp.OKCount(c, len(alerts), alerts)
}

// ListTriggered returns the triggered partition of one kind.
func (h *AlertsEchoHandler) ListTriggered(c echo.Context) error {
	kind, ok := h.kind(c)
	if !ok {
		return xhttp.WriteError(c, xhttp.NewBadRequest("unknown alert kind"))
	}

	alerts, err := h.store.GetAlerts(c.Request().Context(), kind, domainrepo.StatusTriggered, false)
	if err != nil {
		h.logger.Error("list triggered failed", xlogger.String("kind", string(kind)), xlogger.Error(err))
		return xhttp.WriteError(c, xhttp.NewInternal("failed to read alerts", err))
	}
	return xhttp.OKCount(c, len(alerts), alerts)
}

// Create registers one working alert.
func (h *AlertsEchoHandler) Create(c echo.Context) error {
	kind, ok := h.kind(c)
	if !ok {
		return xhttp.WriteError(c, xhttp.NewBadRequest("unknown alert kind"))
	}

	req := &models.AlertRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.WriteError(c, xhttp.NewBadRequest(verr.Error()))
	}

	alert := req.ToAlert(h.now().UnixMilli())
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}

	added, err := h.store.AddAlert(c.Request().Context(), kind, domainrepo.StatusWorking, alert)
	if err != nil {
		h.logger.Error("create alert failed", xlogger.String("kind", string(kind)), xlogger.Error(err))
		return xhttp.WriteError(c, xhttp.NewInternal("failed to store alert", err))
	}
	if !added {
		return xhttp.WriteError(c, xhttp.NewConflict("alert already exists"))
	}
	return xhttp.Created(c, alert)
}

// CreateBatch registers several working alerts, skipping duplicates.
func (h *AlertsEchoHandler) CreateBatch(c echo.Context) error {
	kind, ok := h.kind(c)
	if !ok {
		return xhttp.WriteError(c, xhttp.NewBadRequest("unknown alert kind"))
	}

	var reqs []models.AlertRequest
	if err := c.Bind(&reqs); err != nil {
		return xhttp.WriteError(c, xhttp.NewBadRequest("invalid request body"))
	}
	if len(reqs) == 0 {
		return xhttp.WriteError(c, xhttp.NewBadRequest("empty batch"))
	}

	now := h.now().UnixMilli()
	alerts := make([]models.Alert, 0, len(reqs))
	for _, r := range reqs {
		if r.Symbol == "" || r.Name == "" {
			return xhttp.WriteError(c, xhttp.NewBadRequest("symbol and alertName are required"))
		}
		alert := r.ToAlert(now)
		if alert.ID == "" {
			alert.ID = uuid.NewString()
		}
		alerts = append(alerts, alert)
	}

	if err := h.store.AddAlerts(c.Request().Context(), kind, domainrepo.StatusWorking, alerts); err != nil {
		h.logger.Error("create batch failed", xlogger.String("kind", string(kind)), xlogger.Error(err))
		return xhttp.WriteError(c, xhttp.NewInternal("failed to store alerts", err))
	}
	return xhttp.OKCount(c, len(alerts), alerts)
}

// Delete removes one working alert by id.
func (h *AlertsEchoHandler) Delete(c echo.Context) error {
	kind, ok := h.kind(c)
	if !ok {
		return xhttp.WriteError(c, xhttp.NewBadRequest("unknown alert kind"))
	}
	id := c.Param("id")
	if id == "" {
		return xhttp.WriteError(c, xhttp.NewBadRequest("id is required"))
	}

	removed, err := h.store.RemoveAlert(c.Request().Context(), kind, domainrepo.StatusWorking, id)
	if err != nil {
		h.logger.Error("delete alert failed", xlogger.String("kind", string(kind)), xlogger.Error(err))
		return xhttp.WriteError(c, xhttp.NewInternal("failed to delete alert", err))
	}
	if !removed {
		return xhttp.WriteError(c, xhttp.NewNotFound("alert not found"))
	}
	return xhttp.OK(c, map[string]string{"id": id})
}

// DeleteBatch removes several working alerts by id.
func (h *AlertsEchoHandler) DeleteBatch(c echo.Context) error {
	kind, ok := h.kind(c)
	if !ok {
		return xhttp.WriteError(c, xhttp.NewBadRequest("unknown alert kind"))
	}

	req := &models.DeleteBatchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.WriteError(c, xhttp.NewBadRequest(verr.Error()))
	}

	n, err := h.store.RemoveAlerts(c.Request().Context(), kind, domainrepo.StatusWorking, req.IDs)
	if err != nil {
		h.logger.Error("delete batch failed", xlogger.String("kind", string(kind)), xlogger.Error(err))
		return xhttp.WriteError(c, xhttp.NewInternal("failed to delete alerts", err))
	}
	return xhttp.OKCount(c, n, nil)
}

// DeleteAll drops the whole working partition of one kind.
func (h *AlertsEchoHandler) DeleteAll(c echo.Context) error {
	kind, ok := h.kind(c)
	if !ok {
		return xhttp.WriteError(c, xhttp.NewBadRequest("unknown alert kind"))
	}

	n, err := h.store.RemoveAll(c.Request().Context(), kind, domainrepo.StatusWorking)
	if err != nil {
		h.logger.Error("delete all failed", xlogger.String("kind", string(kind)), xlogger.Error(err))
		return xhttp.WriteError(c, xhttp.NewInternal("failed to delete alerts", err))
	}
	return xhttp.OKCount(c, n, nil)
}

// Archive atomically relocates a triggered alert into the archived
// partition, retiring it from the triggered log.
func (h *AlertsEchoHandler) Archive(c echo.Context) error {
	kind, ok := h.kind(c)
	if !ok {
		return xhttp.WriteError(c, xhttp.NewBadRequest("unknown alert kind"))
	}
	id := c.Param("id")
	if id == "" {
		return xhttp.WriteError(c, xhttp.NewBadRequest("id is required"))
	}

	moved, err := h.store.MoveAlert(c.Request().Context(), kind,
		domainrepo.StatusTriggered, domainrepo.StatusArchived, id)
	if err != nil {
		h.logger.Error("archive alert failed", xlogger.String("kind", string(kind)), xlogger.Error(err))
		return xhttp.WriteError(c, xhttp.NewInternal("failed to archive alert", err))
	}
	if !moved {
		return xhttp.WriteError(c, xhttp.NewNotFound("alert not found in triggered"))
	}
	return xhttp.OK(c, map[string]string{"id": id})
}
