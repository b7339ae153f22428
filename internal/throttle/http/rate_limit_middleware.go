// Package http provides gin middleware that admits requests through the rate limiter.
package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	throttleDomain "github.com/allisson/certify/internal/throttle/domain"
	throttleService "github.com/allisson/certify/internal/throttle/service"
)

// ClientKey identifies the caller for rate limiting purposes.
//
// Precedence: first entry of X-Forwarded-For, then X-Real-IP, then "unknown".
// Headers are trusted as sent; deployments must put a proxy in front that overwrites them.
// Requests with neither header share the "unknown" window.
func ClientKey(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		return realIP
	}
	return throttleDomain.UnknownClientKey
}

// RateLimitMiddleware enforces a fixed-window policy per client within scope.
//
// Every response carries X-RateLimit-Limit, X-RateLimit-Remaining and X-RateLimit-Reset
// (Unix seconds). Rejected requests get 429 Too Many Requests with a Retry-After header.
func RateLimitMiddleware(
	limiter throttleService.Limiter,
	scope string,
	policy throttleDomain.Policy,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientKey := ClientKey(c)

		decision := limiter.Check(c.Request.Context(), scope+":"+clientKey, policy)

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			retryAfter := decision.RetryAfter(time.Now())

			logger.Debug("rate limit exceeded",
				slog.String("scope", scope),
				slog.String("client_key", clientKey),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":    "rate_limit_exceeded",
				"message":  "Too many requests. Please retry after the specified delay.",
				"reset_at": decision.ResetAt.UTC(),
			})
			return
		}

		c.Next()
	}
}
