package middleware

import (
	"context"
	"net/http"
	"runtime/debug"

	"github.com/heartmarshall/bugtracker/internal/faults"
	"github.com/heartmarshall/bugtracker/internal/transport/rest"
)

type faultReporter interface {
	Report(ctx context.Context, env *faults.Envelope, intent faults.Intent)
}

// OpHTTPPanic names recovered handler panics in failure reports.
const OpHTTPPanic = "http.panic"

// Recovery returns middleware that recovers from handler panics, reports
// them with a stack trace and answers with a JSON 500 body. The stack is
// part of the body only when diagnostic is set. A panic after the response
// has started is reported but the partial response is left as is.
func Recovery(reporter faultReporter, diagnostic bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				env := faults.Panic(rec, debug.Stack())
				reporter.Report(r.Context(), env, faults.Intent{
					Operation: OpHTTPPanic,
					Fields: map[string]any{
						"method": r.Method,
						"path":   r.URL.Path,
					},
				})
				if sw.wroteHeader {
					return
				}
				rest.WriteError(w, env, diagnostic)
			}()
			next.ServeHTTP(sw, r)
		})
	}
}
