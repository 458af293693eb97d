// Package emergent implementa identity.Provider contra el servicio OAuth de Emergent.
package emergent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"rafikipets-api/internal/platform/httpclient"
	"rafikipets-api/internal/ports/identity"
)

const sessionDataPath = "/auth/v1/env/oauth/session-data"

var (
	ErrNotConfigured   = errors.New("emergent: client not configured")
	ErrInvalidResponse = errors.New("emergent: invalid response")
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	http *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}
	hc, err := httpclient.New(cfg.BaseURL, cfg.Timeout, nil)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

var _ identity.Provider = (*Client)(nil)

// Exchange manda el session id en X-Session-ID. Cualquier respuesta no-2xx es un rechazo.
func (c *Client) Exchange(ctx context.Context, sessionID string) (identity.Identity, error) {
	if c == nil || c.http == nil {
		return identity.Identity{}, ErrNotConfigured
	}

	raw, err := c.http.DoRaw(ctx, httpclient.Request{
		Path:    sessionDataPath,
		Headers: map[string]string{"X-Session-ID": sessionID},
	})
	if err != nil {
		var he *httpclient.HTTPError
		if errors.As(err, &he) {
			return identity.Identity{}, fmt.Errorf("%w: status=%d", identity.ErrInvalidSession, he.StatusCode)
		}
		return identity.Identity{}, err
	}

	if !gjson.ValidBytes(raw) {
		return identity.Identity{}, fmt.Errorf("%w: body is not json", ErrInvalidResponse)
	}
	res := gjson.GetManyBytes(raw, "email", "name", "picture", "session_token")

	id := identity.Identity{
		Email:        strings.TrimSpace(res[0].String()),
		Name:         strings.TrimSpace(res[1].String()),
		Picture:      strings.TrimSpace(res[2].String()),
		SessionToken: strings.TrimSpace(res[3].String()),
	}
	if id.Email == "" || id.SessionToken == "" {
		return identity.Identity{}, fmt.Errorf("%w: missing email or session_token", ErrInvalidResponse)
	}
	return id, nil
}
