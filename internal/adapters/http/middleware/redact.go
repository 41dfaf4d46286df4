package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jsamuelsen11/todo-service/internal/platform/logging"
)

const redacted = "[REDACTED]"

// RedactHeaders converts request headers into slog attributes for the debug
// header dump. A header is masked when its name is in
// logging.SensitiveHeaders or its value looks like a credential, such as a
// Cosmos connection string pasted into a custom header. Multi-value headers
// are joined with a comma.
func RedactHeaders(headers http.Header) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(headers))
	for key, vals := range headers {
		v := strings.Join(vals, ",")
		if logging.SensitiveHeaders[strings.ToLower(key)] || logging.ContainsSecret(v) {
			v = redacted
		}
		attrs = append(attrs, slog.String(key, v))
	}
	return attrs
}
