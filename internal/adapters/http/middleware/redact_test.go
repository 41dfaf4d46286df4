package middleware_test

import (
	"net/http"
	"testing"

	"github.com/jsamuelsen11/todo-service/internal/adapters/http/middleware"
)

const redactedValue = "[REDACTED]"

func TestRedactHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		values []string
		want   string
	}{
		{name: "authorization", header: "Authorization", values: []string{"Bearer secret-token"}, want: redactedValue},
		{name: "proxy authorization", header: "Proxy-Authorization", values: []string{"Basic dXNlcjpwYXNz"}, want: redactedValue},
		{name: "api key", header: "X-Api-Key", values: []string{"k-123"}, want: redactedValue},
		{name: "cookie", header: "Cookie", values: []string{"session=abc123"}, want: redactedValue},
		{
			name:   "cosmos connection string in custom header",
			header: "X-Debug-Store",
			values: []string{"AccountEndpoint=https://acct.documents.azure.com:443/;AccountKey=c2VjcmV0a2V5PT0=;"},
			want:   redactedValue,
		},
		{name: "bearer token in custom header", header: "X-Forwarded-Auth", values: []string{"bearer abc.def"}, want: redactedValue},
		{name: "content type", header: "Content-Type", values: []string{"application/json"}, want: "application/json"},
		{name: "request id", header: "X-Request-Id", values: []string{"req-1"}, want: "req-1"},
		{name: "multi-value accept", header: "Accept", values: []string{"application/problem+json", "application/json"}, want: "application/problem+json,application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			attrs := middleware.RedactHeaders(http.Header{tt.header: tt.values})
			if len(attrs) != 1 {
				t.Fatalf("len(attrs) = %d, want 1", len(attrs))
			}
			if attrs[0].Key != tt.header {
				t.Errorf("key = %q, want %q", attrs[0].Key, tt.header)
			}
			if got := attrs[0].Value.String(); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestRedactHeaders_TodoRequest(t *testing.T) {
	t.Parallel()

	headers := http.Header{
		"Authorization":    {"Bearer secret"},
		"Content-Type":     {"application/json"},
		"X-Correlation-Id": {"corr-7"},
	}
	attrs := middleware.RedactHeaders(headers)

	if len(attrs) != 3 {
		t.Fatalf("len(attrs) = %d, want 3", len(attrs))
	}
	values := map[string]string{}
	for _, a := range attrs {
		values[a.Key] = a.Value.String()
	}
	want := map[string]string{
		"Authorization":    redactedValue,
		"Content-Type":     "application/json",
		"X-Correlation-Id": "corr-7",
	}
	for k, v := range want {
		if values[k] != v {
			t.Errorf("%s = %q, want %q", k, values[k], v)
		}
	}
}

func TestRedactHeaders_EmptyHeaders(t *testing.T) {
	t.Parallel()

	if attrs := middleware.RedactHeaders(http.Header{}); len(attrs) != 0 {
		t.Errorf("len(attrs) = %d, want 0", len(attrs))
	}
}
