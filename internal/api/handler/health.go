package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/replyforge/replyforge/internal/api/response"
)

// DBPinger checks database connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	db      DBPinger
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db DBPinger, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

type healthData struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data := healthData{Status: "healthy", Version: h.version, Database: "connected"}

	if h.db == nil {
		data.Status = "degraded"
		data.Database = "unconfigured"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			slog.Warn("health check database ping failed", "error", err)
			data.Status = "degraded"
			data.Database = "disconnected"
		}
	}

	response.JSON(w, http.StatusOK, data)
}
