package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"

	"newstyping/internal/errresponse"
	"newstyping/internal/ports"
	"newstyping/pkg/logger"
)

type contextKey string

const UserIDKey contextKey = "userID"

var errTokenExpired = errors.New("token expired")

// UserIDFrom returns the authenticated user id stored by Auth.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}

// Auth requires a bearer token and resolves it to a user through identity.
// Malformed or already expired tokens are turned away before the network call.
func Auth(identity ports.IdentityProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				render.Render(w, r, errresponse.ErrUnauthorized("Missing bearer token"))
				return
			}

			if err := precheck(tokenString, time.Now()); err != nil {
				logger.Sugar.Debugf("Rejected token before identity lookup: %v", err)
				render.Render(w, r, errresponse.ErrUnauthorized("Invalid or expired token"))
				return
			}

			user, err := identity.CurrentUser(r.Context(), tokenString)
			if err != nil {
				logger.Sugar.Infof("Identity lookup failed: %v", err)
				render.Render(w, r, errresponse.ErrUnauthorized("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// precheck parses the token without verifying its signature; the identity
// provider stays the authority on validity.
func precheck(tokenString string, now time.Time) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return err
	}
	if exp != nil && !now.Before(exp.Time) {
		return errTokenExpired
	}
	return nil
}
