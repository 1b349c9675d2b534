package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// RequestIDKey is shared with pkg/log so loggers built from a context pick up the same id.
const RequestIDKey = "request_id"

const fiberRequestIDLocal = "X-Request-ID"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	requestID, ok := ctx.Value(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

// FromFiberCtx detaches from the fasthttp request context, which is recycled
// once the handler returns; only the request id is carried over.
func FromFiberCtx(c *fiber.Ctx) context.Context {
	return WithRequestID(context.Background(), RequestIDFromFiber(c))
}

func RequestIDFromFiber(c *fiber.Ctx) string {
	requestID, ok := c.Locals(fiberRequestIDLocal).(string)
	if !ok || requestID == "" {
		requestID = c.Get(fiberRequestIDLocal)
	}
	if requestID == "" {
		return "unknown"
	}
	return requestID
}
