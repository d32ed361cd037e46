package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"nagarik-sewa/internal/common/auth"
	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/common/logger"
	"nagarik-sewa/internal/common/metrics"
	"nagarik-sewa/internal/common/observability"
	"nagarik-sewa/internal/models"
)

const (
	identityKey = "identity"
	claimsKey   = "claims"
)

// accessLog logs one line per request through the service logger.
func accessLog(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latencyMs": time.Since(start).Milliseconds(),
			"clientIp":  c.ClientIP(),
		}
		switch {
		case c.Writer.Status() >= 500:
			log.Error("request", fields)
		case c.Writer.Status() >= 400:
			log.Warn("request", fields)
		default:
			log.Info("request", fields)
		}
	}
}

// instrument records Prometheus and otel request metrics and opens a span per request.
func instrument(obs *observability.Observability) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		if obs != nil {
			ctx, span := obs.StartSpan(c.Request.Context(), c.Request.Method+" "+route,
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route),
			)
			defer span.End()
			c.Request = c.Request.WithContext(ctx)
			defer func() {
				span.SetAttributes(attribute.Int("http.status_code", c.Writer.Status()))
			}()
		}

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())
		if obs != nil {
			obs.RecordRequest(c.Request.Context(), c.Request.Method, route, status, elapsed)
		}
	}
}

// authenticate verifies the bearer token and stores the caller identity.
func authenticate(jwt *auth.JWTManager, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			renderError(c, log, errors.NewUnauthorizedError("missing bearer token"))
			return
		}
		claims, err := jwt.Verify(token)
		if err != nil {
			renderError(c, log, err)
			return
		}
		c.Set(claimsKey, claims)
		c.Set(identityKey, claims.Identity())
		c.Next()
	}
}

// requireRole admits only the listed role kinds.
func requireRole(log logger.Logger, kinds ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := identity(c).Role
		for _, k := range kinds {
			if role != nil && role.Kind() == k {
				c.Next()
				return
			}
		}
		renderError(c, log, errors.NewForbiddenError("this endpoint is not available to your account type"))
	}
}

func identity(c *gin.Context) models.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(models.Identity); ok {
			return id
		}
	}
	return models.Identity{}
}

func claims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if cl, ok := v.(*auth.Claims); ok {
			return cl
		}
	}
	return nil
}
