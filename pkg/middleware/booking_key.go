package middleware

import (
	"crypto/subtle"
	"net/http"

	"urbarber/pkg/logger"
)

const BookingKeyHeader = "X-Booking-Key"

// BookingKeyVerification rejects requests whose X-Booking-Key header does not
// match the configured shared secret. It runs before any booking logic, so a
// rejected request causes zero store reads or writes. The comparison is
// constant time.
func BookingKeyVerification(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(BookingKeyHeader)

			if key == "" {
				rejectUnauthorized(w, log, r, "Missing X-Booking-Key header")
				return
			}

			if subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
				rejectUnauthorized(w, log, r, "Invalid booking key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rejectUnauthorized(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Booking key verification failed",
		"request_id", RequestID(r.Context()),
		"reason", reason,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"ok":false,"message":"Unauthorized"}`))
}
