package auth

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/TaskForge-io/taskforge/internal/models"
)

type contextKey string

const userContextKey contextKey = "user"

// UserLookup loads a user by email. Satisfied by store.UserStore.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"detail":"` + detail + `"}`))
}

// RequireUser validates the bearer token on the request, resolves it to a
// user record, and stores the user in the request context. A missing header
// is reported as "Not authenticated"; every other failure (malformed header,
// bad signature, expired token, empty subject, unknown email) collapses to
// "Could not validate credentials" so the response does not reveal which
// check failed. The real cause is logged.
func RequireUser(tm *TokenManager, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "Not authenticated")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				log.Printf("auth: malformed authorization header")
				unauthorized(w, "Could not validate credentials")
				return
			}

			claims, err := tm.ValidateToken(parts[1])
			if err != nil {
				log.Printf("auth: token rejected: %v", err)
				unauthorized(w, "Could not validate credentials")
				return
			}

			if claims.Subject == "" {
				log.Printf("auth: token has no subject")
				unauthorized(w, "Could not validate credentials")
				return
			}

			user, err := users.GetByEmail(r.Context(), claims.Subject)
			if err != nil {
				log.Printf("auth: user lookup failed: %v", err)
				unauthorized(w, "Could not validate credentials")
				return
			}
			if user == nil {
				log.Printf("auth: token subject matches no user")
				unauthorized(w, "Could not validate credentials")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser retrieves the authenticated user from the context
func CurrentUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}
