package httpx

import (
	"math"
	"net/http"
	"time"
)

type HealthResponse struct {
	Status        string  `json:"status"`
	Service       string  `json:"service"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Health answers the liveness probe used by the gateway and the registry.
func Health(service string, started time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:        "ok",
			Service:       service,
			UptimeSeconds: math.Round(time.Since(started).Seconds()*1000) / 1000,
		})
	}
}
