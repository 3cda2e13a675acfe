// Package amiiboapi exposes the named AmiiboAPI endpoints on top of the request builder.
package amiiboapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/samvad-hq/amiibo-connect/internal/domain"
	"github.com/samvad-hq/amiibo-connect/pkg/request"
)

const (
	TokenPath = "/v2/oauth2/token"
	ListPath  = "api/amiibo/"
)

// Credentials are the form values posted to the token endpoint.
type Credentials struct {
	GrantType    string
	ClientID     string
	ClientSecret string
}

// PlaceholderCredentials are the values the upstream sample ships with.
var PlaceholderCredentials = Credentials{
	GrantType:    "test1",
	ClientID:     "test2",
	ClientSecret: "test2",
}

// ListFilter narrows the listing. Empty fields are not sent.
type ListFilter struct {
	Name         string
	Character    string
	GameSeries   string
	AmiiboSeries string
	Type         string
}

// TokenEndpoint returns the POST endpoint that issues an access token.
func TokenEndpoint(creds Credentials) request.Endpoint {
	return request.Post(TokenPath, map[string]any{
		"grant_type":    creds.GrantType,
		"client_id":     creds.ClientID,
		"client_secret": creds.ClientSecret,
	})
}

// ListEndpoint returns the GET endpoint for the amiibo listing.
func ListEndpoint(filter ListFilter) request.Endpoint {
	ep := request.Get(ListPath)
	for _, kv := range [][2]string{
		{"name", filter.Name},
		{"character", filter.Character},
		{"gameseries", filter.GameSeries},
		{"amiiboSeries", filter.AmiiboSeries},
		{"type", filter.Type},
	} {
		if v := strings.TrimSpace(kv[1]); v != "" {
			ep = ep.WithQuery(kv[0], v)
		}
	}
	return ep
}

// Client issues the named endpoints. It keeps no state between calls.
type Client struct {
	builder  *request.Builder
	executor *request.Executor
	creds    Credentials
}

// New returns a client. Zero credentials fall back to PlaceholderCredentials.
func New(builder *request.Builder, executor *request.Executor, creds Credentials) *Client {
	if creds == (Credentials{}) {
		creds = PlaceholderCredentials
	}
	return &Client{builder: builder, executor: executor, creds: creds}
}

// RequestAccessToken fetches a token and returns its bearer string. The
// token is not cached.
func (c *Client) RequestAccessToken(ctx context.Context) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	token, err := request.Fetch[domain.APIToken](ctx, c.builder, c.executor, TokenEndpoint(c.creds), "")
	if err != nil {
		return "", fmt.Errorf("request access token: %w", err)
	}
	return token.BearerAccessToken, nil
}

// AmiiboList fetches the full listing.
func (c *Client) AmiiboList(ctx context.Context) (domain.AmiiboListResponse, error) {
	return c.AmiiboListFiltered(ctx, ListFilter{})
}

// AmiiboListFiltered fetches the listing narrowed by filter.
func (c *Client) AmiiboListFiltered(ctx context.Context, filter ListFilter) (domain.AmiiboListResponse, error) {
	if err := c.ready(); err != nil {
		return domain.AmiiboListResponse{}, err
	}
	list, err := request.Fetch[domain.AmiiboListResponse](ctx, c.builder, c.executor, ListEndpoint(filter), "")
	if err != nil {
		return domain.AmiiboListResponse{}, fmt.Errorf("request amiibo list: %w", err)
	}
	return list, nil
}

func (c *Client) ready() error {
	if c == nil || c.builder == nil || c.executor == nil {
		return fmt.Errorf("amiibo api client is not initialized")
	}
	return nil
}
