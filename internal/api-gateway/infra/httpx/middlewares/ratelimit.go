package middlewares

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/httpx"
)

// LoopbackIP keys requests whose transport did not supply an address.
const LoopbackIP = "127.0.0.1"

type RateLimitConfig struct {
	Max    int
	Window time.Duration
	// Disabled skips limiting entirely (development).
	Disabled bool
}

// RateLimit caps requests per client IP per fixed window, counting in store.
// Counter failures let the request through.
func RateLimit(store cache.Cache, cfg RateLimitConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cfg.Disabled || cfg.Max <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := store.GenerateKey("ratelimit", ClientIP(r))
			count, remaining, err := store.Increment(r.Context(), key, cfg.Window)
			if err != nil {
				logger.WarnContext(r.Context(), "rate limit counter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			left := int64(cfg.Max) - count
			if left < 0 {
				left = 0
			}
			reset := strconv.Itoa(int(math.Ceil(remaining.Seconds())))
			h := w.Header()
			h.Set("RateLimit-Limit", strconv.Itoa(cfg.Max))
			h.Set("RateLimit-Remaining", strconv.FormatInt(left, 10))
			h.Set("RateLimit-Reset", reset)

			if count > int64(cfg.Max) {
				h.Set("Retry-After", reset)
				httpx.WriteError(w, http.StatusTooManyRequests, "too_many_requests",
					"Too many requests from this IP, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP is the host part of RemoteAddr, or LoopbackIP when absent.
func ClientIP(r *http.Request) string {
	if r.RemoteAddr == "" {
		return LoopbackIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		return LoopbackIP
	}
	return host
}
