package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/go-chi/render"

	"newstyping/internal/errresponse"
)

// RateLimit allows limit requests per rolling window for each caller. It
// keys on the user id set by Auth and falls back to the client IP.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(keyByUser),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			render.Render(w, r, errresponse.ErrTooManyRequests("Rate limit exceeded, try again later"))
		}),
	)
}

func keyByUser(r *http.Request) (string, error) {
	if id, ok := UserIDFrom(r.Context()); ok {
		return "user:" + id, nil
	}
	return httprate.KeyByIP(r)
}
