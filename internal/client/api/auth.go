package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/guildadmin/internal/client/models"
)

// AuthClient wraps the /auth endpoints of the backend.
type AuthClient struct {
	p *Pipeline
}

func NewAuthClient(p *Pipeline) *AuthClient {
	return &AuthClient{p: p}
}

// AuthorizeURL is where the user agent goes to start the Discord OAuth flow.
func (c *AuthClient) AuthorizeURL() string {
	return c.p.BaseURL() + "/auth/discord"
}

// ExchangeCode trades an OAuth authorization code for a credential pair.
func (c *AuthClient) ExchangeCode(ctx context.Context, code string) (models.Pair, error) {
	var pair models.Pair
	err := c.p.JSON(ctx, &Call{
		Method: http.MethodGet,
		Path:   "/auth/discord/redirect",
		Query:  url.Values{"code": {code}},
	}, &pair)
	if err != nil {
		return models.Pair{}, err
	}
	if pair.AccessToken == "" {
		return models.Pair{}, fmt.Errorf("%w: no access token in code exchange", ErrMalformedResponse)
	}
	return pair, nil
}

type statusResponse struct {
	IsAuthenticated bool `json:"isAuthenticated"`
}

// Status asks the backend whether the current credentials form a valid session.
func (c *AuthClient) Status(ctx context.Context) (bool, error) {
	var st statusResponse
	if err := c.p.JSON(ctx, &Call{Method: http.MethodGet, Path: "/auth/status"}, &st); err != nil {
		return false, err
	}
	return st.IsAuthenticated, nil
}

// Guilds lists the guilds the session may administer.
func (c *AuthClient) Guilds(ctx context.Context) ([]models.Guild, error) {
	var guilds []models.Guild
	if err := c.p.JSON(ctx, &Call{Method: http.MethodGet, Path: "/auth/guilds"}, &guilds); err != nil {
		return nil, err
	}
	if guilds == nil {
		return nil, fmt.Errorf("%w: guild list missing", ErrMalformedResponse)
	}
	return guilds, nil
}

// Logout asks the backend to invalidate the session server-side.
func (c *AuthClient) Logout(ctx context.Context) error {
	return c.p.JSON(ctx, &Call{Method: http.MethodPost, Path: "/auth/logout"}, nil)
}
