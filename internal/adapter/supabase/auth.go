package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/podscout/podscout/internal/domain"
)

// SignIn exchanges email/password for a session via the password grant.
func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	query := url.Values{}
	query.Set("grant_type", "password")

	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/auth/v1/token", query, payload, false)
	if err != nil {
		return nil, err
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("%w: token response missing access_token", domain.ErrDecode)
	}

	c.logger.Info("signed in", "user", resp.User.ID)

	return &domain.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		UserID:       resp.User.ID,
		Email:        resp.User.Email,
		DisplayName:  resp.User.UserMetadata.DisplayName,
	}, nil
}

// SignUp registers a new account. The backend may require email confirmation
// before the first sign-in succeeds.
func (c *Client) SignUp(ctx context.Context, email, password, displayName string) error {
	payload := map[string]any{
		"email":    email,
		"password": password,
		"data": map[string]string{
			"display_name": displayName,
		},
	}

	_, err := c.doRequest(ctx, http.MethodPost, "/auth/v1/signup", nil, payload, false)
	return err
}
