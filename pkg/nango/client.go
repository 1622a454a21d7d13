// pkg/nango/client.go

// Package nango talks to the Nango OAuth proxy. The proxy holds tokens on
// behalf of the gateway, so revoking a connection here is the only way the
// broker can cut off an OAuth grant; it never sees the token itself.
package nango

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/venom444556/openclaw-secure-deploy/pkg/httpclient"
	cerr "github.com/cockroachdb/errors"
)

// Connection is one user-authorized OAuth grant held by the proxy.
type Connection struct {
	ConnectionID      string `json:"connection_id"`
	ProviderConfigKey string `json:"provider_config_key"`
}

type connectionList struct {
	Connections []Connection `json:"connections"`
}

// Client is a thin Nango API client.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

// NewClient builds a client for the proxy at baseURL. secretKey may be empty
// for local deployments without auth.
func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		http:      httpclient.DefaultClient(),
	}
}

// SetHTTPClient replaces the transport, for tests.
func (c *Client) SetHTTPClient(h *http.Client) {
	c.http = h
}

// ListConnections enumerates all OAuth connections held by the proxy.
func (c *Client) ListConnections(ctx context.Context) ([]Connection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/connections", nil)
	if err != nil {
		return nil, cerr.Wrap(err, "build connections request")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, cerr.Wrap(err, "list connections")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, cerr.Newf("list connections: proxy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var list connectionList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, cerr.Wrap(err, "decode connections response")
	}
	return list.Connections, nil
}

// RevokeConnection deletes one connection, destroying the grant the proxy
// holds for it.
func (c *Client) RevokeConnection(ctx context.Context, connectionID, providerKey string) error {
	endpoint := fmt.Sprintf("%s/connection/%s?provider_config_key=%s",
		c.baseURL, url.PathEscape(connectionID), url.QueryEscape(providerKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return cerr.Wrap(err, "build revoke request")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return cerr.Wrapf(err, "revoke connection %s", connectionID)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		// Already gone is the state we wanted.
		return nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return cerr.Newf("revoke connection %s: proxy returned %d: %s",
			connectionID, resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

func (c *Client) authorize(req *http.Request) {
	if c.secretKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.secretKey)
	}
}
