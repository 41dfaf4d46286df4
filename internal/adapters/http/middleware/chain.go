package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jsamuelsen11/todo-service/internal/platform/telemetry"
)

// Chain composes middleware so the first argument runs outermost:
// Chain(a, b)(h) is a(b(h)).
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(handler http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}
}

// Stack is the middleware the todo API runs in front of every route.
//
// Recovery sits outermost so a panic anywhere below still yields a problem
// response. The request and correlation IDs are set before tracing and
// logging read them, and the timeout wraps only the handler.
func Stack(logger *slog.Logger, metrics *telemetry.Metrics, timeout time.Duration) func(http.Handler) http.Handler {
	return Chain(
		Recovery(logger),
		RequestID(),
		CorrelationID(),
		OpenTelemetry(metrics),
		Logging(logger),
		Timeout(timeout),
	)
}
