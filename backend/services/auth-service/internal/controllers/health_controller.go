package controllers

import (
	"context"
	"net/http"

	"github.com/pomy-dev/ebh-repo/backend/services/auth-service/internal/dtos"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function, e.g. a redis ping, to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthController struct {
	deps map[string]Pinger
}

func NewHealthController(deps map[string]Pinger) *HealthController {
	return &HealthController{deps: deps}
}

func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	for name, dep := range c.deps {
		if err := dep.Ping(r.Context()); err != nil {
			utils.RespondErrorWithCode(
				w, http.StatusServiceUnavailable, utils.ErrCodeInternal,
				name+" unreachable", nil, err,
			)
			return
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthCheckResponse{Status: "OK"})
}
