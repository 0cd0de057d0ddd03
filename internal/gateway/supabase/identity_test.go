package supabase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newstyping/config"
)

func identityServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "service-key", r.Header.Get("apikey"))

		switch r.Header.Get("Authorization") {
		case "Bearer good":
			w.Write([]byte(`{"id":"7d3f0f5e-1111-4c2b-9a8e-222233334444","email":"reader@example.org","aud":"authenticated"}`))
		case "Bearer anonymous":
			w.Write([]byte(`{"email":"nobody@example.org"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"msg":"invalid JWT"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newIdentity(url string) *Identity {
	return NewIdentity(config.SupabaseConfig{URL: url + "/", ServiceRoleKey: "service-key"}, time.Second)
}

func TestCurrentUser(t *testing.T) {
	srv := identityServer(t)

	u, err := newIdentity(srv.URL).CurrentUser(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "7d3f0f5e-1111-4c2b-9a8e-222233334444", u.ID)
	assert.Equal(t, "reader@example.org", u.Email)
}

func TestCurrentUserRejected(t *testing.T) {
	srv := identityServer(t)

	_, err := newIdentity(srv.URL).CurrentUser(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = newIdentity(srv.URL).CurrentUser(context.Background(), "anonymous")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCurrentUserUnreachable(t *testing.T) {
	srv := identityServer(t)
	url := srv.URL
	srv.Close()

	_, err := newIdentity(url).CurrentUser(context.Background(), "good")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}
