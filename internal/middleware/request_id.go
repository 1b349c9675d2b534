package middleware

import (
	"EmotionGolang/pkg/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"
)

const (
	RequestIDKey = "X-Request-ID"

	maxClientRequestIDLength = 64
)

// NewRequestIDMiddleware echoes a well-formed client X-Request-ID and mints a
// ULID otherwise. The id ends up in Locals, the response header and every log line.
func NewRequestIDMiddleware() fiber.Handler {
	idGenerator := utils.New()

	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDKey)

		if !validClientRequestID(requestID) {
			id, err := idGenerator.NewULIDFromTimestamp(time.Now())
			if err != nil {
				id = ulid.Make().String()
			}
			requestID = id
		}

		c.Locals(RequestIDKey, requestID)
		c.Set(RequestIDKey, requestID)

		return c.Next()
	}
}

// validClientRequestID keeps header values that are safe to log verbatim.
func validClientRequestID(id string) bool {
	if id == "" || len(id) > maxClientRequestIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == ':':
		default:
			return false
		}
	}
	return true
}
