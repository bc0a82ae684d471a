package router

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gnelabs/authgate/internal/pkg/stacktrace"
)

//nolint:errcheck,contextcheck // best effort response after panic
func middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				//nolint:err113,errorlint // this must compare directly
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				w.Header().Set("Content-Type", "application/json")

				if r.Header.Get("Connection") != "Upgrade" {
					w.WriteHeader(http.StatusInternalServerError)
				}

				frames := stacktrace.InternalFrames(debug.Stack())
				if len(frames) == 0 {
					slog.ErrorContext(r.Context(), "panic on the server", "because", rvr, "stack", string(debug.Stack()))
				} else {
					slog.ErrorContext(r.Context(), "panic on the server", "because", rvr, "stack", frames)
				}

				json.NewEncoder(w).Encode(map[string]string{
					"message": "Something went wrong server-side.",
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
