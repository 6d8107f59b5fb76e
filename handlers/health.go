package handlers

import (
	"context"
	"net/http"
	"time"

	"erms/database"
	"erms/respond"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Message  string `json:"message,omitempty"`
}

type HealthHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewHealthHandler(db *gorm.DB, log *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, log: log}
}

// Root handles GET /.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	respond.Message(w, http.StatusOK, "Engineering Resource Management System API")
}

// Health handles GET /health: 200 when the database answers a ping, 503 otherwise.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := database.Ping(ctx, h.db); err != nil {
		h.log.Warn("health check: database ping failed", zap.Error(err))
		respond.JSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:   "error",
			Database: "unavailable",
			Message:  "Database unavailable",
		})
		return
	}
	respond.JSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "connected"})
}
