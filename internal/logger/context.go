package logger

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// ContextKey is the type used for context value keys.
type ContextKey string

const (
	// RequestIDKey is the context key holding the request ID.
	RequestIDKey ContextKey = "requestID"
	// UserIDKey is the context key holding the user ID.
	UserIDKey ContextKey = "userID"
)

// WithContext returns a logger entry enriched with known context values.
func WithContext(ctx context.Context) *logrus.Entry {
	entry := GetAppLogger().WithContext(ctx)

	if requestID := ctx.Value(RequestIDKey); requestID != nil {
		entry = entry.WithField("request_id", requestID)
	}
	if userID := ctx.Value(UserIDKey); userID != nil {
		entry = entry.WithField("user_id", userID)
	}

	return entry
}

// WithRequest returns a logger entry carrying request context from Fiber.
func WithRequest(c fiber.Ctx) *logrus.Entry {
	entry := GetAppLogger().WithContext(context.Background())

	// The request ID middleware stores the ID in Locals; fall back to headers.
	var requestID string
	if rid := c.Locals("requestid"); rid != nil {
		if ridStr, ok := rid.(string); ok {
			requestID = ridStr
		}
	}
	if requestID == "" {
		requestID = c.Get("X-Request-ID")
	}
	if requestID == "" {
		requestID = c.GetRespHeader("X-Request-ID")
	}
	if requestID != "" {
		entry = entry.WithField("request_id", requestID)
	}

	return entry.WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	})
}

// WithFields returns a logger entry with the given fields.
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return GetAppLogger().WithFields(logrus.Fields(fields))
}

// WithError returns a logger entry with the given error attached.
func WithError(err error) *logrus.Entry {
	return GetAppLogger().WithError(err)
}

// WithModule returns a logger entry tagged with a module name.
func WithModule(module string) *logrus.Entry {
	return GetAppLogger().WithField("module", module)
}
