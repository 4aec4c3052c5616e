package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"docprocessor/internal/logger"
)

// Logger logs one structured event per HTTP request through the global logger.
// Fields: request_id, method, path, status, latency (ms) and trace_id when a span is recording.
func Logger() fiber.Handler {
	return requestLogger(logger.Component("http"))
}

// LoggerWithWriter is Logger writing plain JSON lines to w.
func LoggerWithWriter(w io.Writer) fiber.Handler {
	return requestLogger(zerolog.New(w))
}

func requestLogger(l zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		var ev *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = l.Error()
		case status >= fiber.StatusBadRequest:
			ev = l.Warn()
		default:
			ev = l.Info()
		}

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		ev = ev.Time("ts", start.UTC()).
			Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency", float64(time.Since(start).Microseconds())/1000)

		if sc := trace.SpanContextFromContext(c.UserContext()); sc.HasTraceID() {
			ev = ev.Str("trace_id", sc.TraceID().String())
		}
		if err != nil {
			ev = ev.Err(err)
		}
		ev.Msg("request")

		return err
	}
}
