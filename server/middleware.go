package server

import (
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
)

const REQUEST_ID_HEADER = "X-Request-ID"

// withRequestID keeps an incoming request ID or assigns a new one, and echoes
// it on the response.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(REQUEST_ID_HEADER)
		if id == "" {
			id = uuid.New().String()
			r.Header.Set(REQUEST_ID_HEADER, id)
		}
		w.Header().Set(REQUEST_ID_HEADER, id)
		next.ServeHTTP(w, r)
	})
}

// wrapMiddleware applies access logging and panic recovery around h.
func wrapMiddleware(h http.Handler) http.Handler {
	recovered := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	return withRequestID(handlers.LoggingHandler(os.Stdout, recovered))
}
