package httpmiddleware

import (
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// Recovery converts panics escaping a handler into 500 responses, logging
// the panic value and stack through the request-scoped logger.
func Recovery() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					// net/http aborts the connection on this sentinel.
					panic(p)
				}
				zctx.From(r.Context()).Error("panic recovered",
					zap.Any("panic", p),
					zap.Stack("stack"),
				)
				// The response may be half-written; make sure the
				// connection is not reused.
				w.Header().Set("Connection", "close")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
