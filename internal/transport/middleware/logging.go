package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/hr-assistant/internal"
)

const (
	redacted      = "[FILTERED]"
	maxLoggedBody = 4 << 10
)

// redactedKeys are JSON keys and header names (lower case) whose values never
// reach the log. Session tokens identify an employee's chat.
var redactedKeys = map[string]bool{
	"session_token":   true,
	"client_secret":   true,
	"access_token":    true,
	"secret_hash":     true,
	"authorization":   true,
	"x-session-token": true,
	"cookie":          true,
}

// LoggingMiddleware logs each request and its outcome. Successful response
// bodies carry salaries and balances, so only error bodies are inspected, and
// only for their error code.
func LoggingMiddleware(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			log := base.With("trace_id", internal.TraceIDFromContext(r.Context()))

			logRequest(log, r)

			ww := &responseWriter{ResponseWriter: w}
			next.ServeHTTP(ww, r)

			logResponse(r.Context(), log, ww, time.Since(start))
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
	errBody    bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.statusCode == 0 {
		rw.statusCode = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	if rw.statusCode >= http.StatusBadRequest && rw.errBody.Len() < maxLoggedBody {
		rw.errBody.Write(b)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func logRequest(log *slog.Logger, r *http.Request) {
	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"query", r.URL.RawQuery,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
		"headers", filterSensitiveHeaders(r.Header),
	}

	if r.Body != nil && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		body, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody+1))
		r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))
		if len(body) <= maxLoggedBody {
			attrs = append(attrs, "body", filterSensitiveBody(body))
		} else {
			attrs = append(attrs, "body", "[TRUNCATED]")
		}
	}

	log.Info("incoming request", attrs...)
}

func logResponse(ctx context.Context, log *slog.Logger, rw *responseWriter, duration time.Duration) {
	status := rw.statusCode
	if status == 0 {
		status = http.StatusOK
	}

	attrs := []any{
		"status_code", status,
		"duration_ms", duration.Milliseconds(),
		"response_size", rw.size,
	}

	level := slog.LevelInfo
	switch {
	case status >= http.StatusInternalServerError:
		level = slog.LevelError
	case status >= http.StatusBadRequest:
		level = slog.LevelWarn
	}
	if level != slog.LevelInfo {
		var envelope struct {
			Error struct {
				Type string `json:"type"`
				Code string `json:"code"`
			} `json:"error"`
		}
		if json.Unmarshal(rw.errBody.Bytes(), &envelope) == nil && envelope.Error.Code != "" {
			attrs = append(attrs, "error_type", envelope.Error.Type, "error_code", envelope.Error.Code)
		}
	}

	log.Log(ctx, level, "response", attrs...)
}

func filterSensitiveHeaders(headers http.Header) map[string]string {
	filtered := make(map[string]string, len(headers))
	for name, values := range headers {
		if redactedKeys[strings.ToLower(name)] {
			filtered[name] = redacted
			continue
		}
		filtered[name] = strings.Join(values, ", ")
	}
	return filtered
}

// filterSensitiveBody re-encodes a JSON body with redacted values. A body that
// does not parse is replaced by a marker.
func filterSensitiveBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return "[UNPARSEABLE]"
	}
	out, err := json.Marshal(redactJSON(data))
	if err != nil {
		return "[UNPARSEABLE]"
	}
	return string(out)
}

func redactJSON(data any) any {
	switch v := data.(type) {
	case map[string]any:
		for key, value := range v {
			if redactedKeys[strings.ToLower(key)] {
				v[key] = redacted
			} else {
				v[key] = redactJSON(value)
			}
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = redactJSON(item)
		}
		return v
	default:
		return v
	}
}
