package httpx

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string  `json:"status"`
	Registry      string  `json:"registry"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Gateway  GatewayStatus   `json:"gateway"`
	Services []ServiceStatus `json:"services"`
}

type GatewayStatus struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Registry      string  `json:"registry"`
}

// ServiceStatus reports one backend: online (2xx health), error (any other
// answer) or offline (unreachable).
type ServiceStatus struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Details any    `json:"details"`
}

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
	StatusError   = "error"
)
