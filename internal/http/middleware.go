package http

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/cppfool/jigoshop/internal/users"
)

// SessionMiddleware resolves the shopper identity for the request. The
// host system normally authenticates; here a X-User-ID header stands in
// for that. Requests without it proceed as guests.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("X-User-ID")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := strconv.ParseInt(header, 10, 64)
		if err != nil || id < 0 {
			respondError(w, http.StatusBadRequest, "invalid_user", "X-User-ID must be a non-negative integer")
			return
		}
		next.ServeHTTP(w, r.WithContext(users.WithID(r.Context(), id)))
	})
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}
