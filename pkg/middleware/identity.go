package middleware

import (
	"net/http"
	"strings"

	"car-rental/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Identity trusts the authenticated identity forwarded by the gateway.
// The engine does not re-verify authentication; it only requires that the
// gateway put a well-formed user id on the request.
func Identity(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userIDHeader := r.Header.Get("X-User-Id")
			if userIDHeader == "" {
				utils.ResponseUnauthorized(w, "Missing identity")
				return
			}

			userID, err := uuid.Parse(userIDHeader)
			if err != nil {
				logger.Warn("Malformed identity header",
					zap.String("user_id", userIDHeader),
					zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid identity")
				return
			}

			role := r.Header.Get("X-User-Role")
			if role == "" {
				role = "renter"
			}

			ctx := utils.SetUserContext(r.Context(), userID, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Operator gates staff endpoints behind the operator API key. The key is
// compared against a bcrypt hash from config so the plaintext never sits in
// the environment of the engine itself.
func Operator(operatorKeyHash string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			if operatorKeyHash == "" {
				logger.Error("Operator key hash not configured")
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(operatorKeyHash), []byte(parts[1])); err != nil {
				logger.Warn("Operator key rejected", zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Operator access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
