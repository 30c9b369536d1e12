package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/pkg/log"
)

const healthcheckTimeout = 2 * time.Second

// HealthCheck verifica uma dependência externa (banco, cache)
type HealthCheck func(ctx context.Context) error

type healthcheckResponse struct {
	Status string            `json:"status"`
	Time   string            `json:"time"`
	Checks map[string]string `json:"checks,omitempty"`
}

func HealthcheckHandler(checks map[string]HealthCheck) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthcheckTimeout)
		defer cancel()

		names := make([]string, 0, len(checks))
		for name := range checks {
			names = append(names, name)
		}
		sort.Strings(names)

		response := healthcheckResponse{
			Status: "ok",
			Time:   time.Now().Format(time.RFC3339),
			Checks: make(map[string]string, len(checks)),
		}
		status := http.StatusOK

		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				log.ForContext(r.Context()).WithError(err).WithField("dependency", name).Warn("healthcheck: dependência indisponível")
				response.Checks[name] = err.Error()
				response.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			response.Checks[name] = "ok"
		}

		writeJSON(w, r, status, response)
	})
}
