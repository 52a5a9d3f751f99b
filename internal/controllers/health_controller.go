package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/kabadi/intake-service/internal/dtos"
	"github.com/kabadi/intake-service/internal/utils"
)

// Pinger reports whether the durable store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	db Pinger
}

func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// LiveHandler answers as long as the process is serving.
func (c *HealthController) LiveHandler(w http.ResponseWriter, _ *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthResponse{OK: true})
}

// ReadyHandler also backs the legacy /api/health route.
func (c *HealthController) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.Ping(ctx); err != nil {
		utils.Logger.WithError(err).Warn("Readiness check failed")
		utils.RespondWithJSON(w, http.StatusServiceUnavailable, dtos.HealthResponse{OK: false})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthResponse{OK: true})
}
