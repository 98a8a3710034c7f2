package health

import (
	"context"
	"net/http"
	"time"

	"github.com/noah-isme/backend-loja/internal/common"
)

// Checker verifies a dependency is reachable.
type Checker interface {
	Check(ctx context.Context) error
	Name() string
}

// Handler exposes liveness and readiness probes.
type Handler struct {
	Checkers []Checker
	Timeout  time.Duration
}

// Live reports process liveness.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	common.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports readiness of downstream dependencies. Optional
// dependencies report degraded without failing the probe.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.Checkers))
	for _, c := range h.Checkers {
		if c == nil {
			continue
		}
		if err := c.Check(ctx); err != nil {
			deps[c.Name()] = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			deps[c.Name()] = "ok"
		}
	}
	body := map[string]any{"status": "ok", "dependencies": deps}
	if status != http.StatusOK {
		body["status"] = "unavailable"
	}
	common.JSON(w, status, body)
}

// CheckFunc adapts a function into a named Checker.
type CheckFunc struct {
	Probe func(ctx context.Context) error
	Label string
}

func (c CheckFunc) Check(ctx context.Context) error { return c.Probe(ctx) }
func (c CheckFunc) Name() string                    { return c.Label }
