package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docprocessor/internal/logger"
)

const (
	// RequestIDHeader is the standard header name used to propagate request IDs.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is the key used to store the request ID in Fiber's context locals.
	RequestIDLocalKey = "request_id"
)

// RequestID ensures every request carries an ID.
//
// An incoming X-Request-ID is reused, otherwise a UUID is generated. The value is stored in locals under
// RequestIDLocalKey, echoed in the response header, and attached to a zerolog logger placed in the user
// context so zerolog.Ctx in services logs it too.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)

		l := logger.Logger().With().Str("request_id", id).Logger()
		c.SetUserContext(l.WithContext(c.UserContext()))

		return c.Next()
	}
}
