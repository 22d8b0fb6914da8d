package gateway

import (
	"context"
	"net/http"

	"gestiogastos/internal/config"
)

// SiteConfig fetches the remote key/value site configuration and overlays
// it on the built-in defaults.
func (c *Client) SiteConfig(ctx context.Context) (config.SiteConfig, error) {
	var remote map[string]string
	if err := c.do(ctx, http.MethodGet, "/config", nil, nil, &remote); err != nil {
		return nil, err
	}
	return config.DefaultSiteConfig().Merge(remote), nil
}

// UpdateSiteConfig pushes changed keys to PUT /config. Admin-only
// server-side.
func (c *Client) UpdateSiteConfig(ctx context.Context, values map[string]string) error {
	return c.do(ctx, http.MethodPut, "/config", nil, values, nil)
}
