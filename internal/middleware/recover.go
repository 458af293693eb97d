package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"rafikipets-api/internal/platform/httpx"
	"rafikipets-api/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Recover convierte un panic en 500 {"detail":"internal error"} y lo loguea con stack.
func Recover(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Error("panic recovered", map[string]any{
					"panic":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
					"method":     r.Method,
					"path":       r.URL.Path,
					"request_id": chimw.GetReqID(r.Context()),
				})
				httpx.WriteJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal error"})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
