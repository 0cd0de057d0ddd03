// Package supabase resolves bearer tokens through the Supabase auth API.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"newstyping/config"
	"newstyping/internal/ports"
)

// ErrInvalidToken means the identity provider did not accept the token.
var ErrInvalidToken = errors.New("invalid or expired token")

type Identity struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ ports.IdentityProvider = (*Identity)(nil)

func NewIdentity(cfg config.SupabaseConfig, timeout time.Duration) *Identity {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Identity{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.ServiceRoleKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CurrentUser forwards token to /auth/v1/user. Any non-200 answer is ErrInvalidToken.
func (i *Identity) CurrentUser(ctx context.Context, token string) (ports.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return ports.User{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", i.apiKey)

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return ports.User{}, fmt.Errorf("identity request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.User{}, fmt.Errorf("%w: identity provider returned %s", ErrInvalidToken, resp.Status)
	}

	var u ports.User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return ports.User{}, fmt.Errorf("decode user: %w", err)
	}
	if u.ID == "" {
		return ports.User{}, fmt.Errorf("%w: user has no id", ErrInvalidToken)
	}
	return u, nil
}
