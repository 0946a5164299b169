// Package content provides the client for the remote content repository:
// fetching the resolved playlist for a device, the change-notification
// streams that trigger re-fetches, and the built-in default content set.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/Am0lShah/Display-Output/api/types/v1alpha1"
	"github.com/Am0lShah/Display-Output/internal/piboardd/errors"
)

// Client provides methods for interacting with the content repository API
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	now        func() time.Time
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithToken sets the authentication token
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewClient creates a new content repository client
func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL scheme %q", u.Scheme)
	}

	c := &Client{
		baseURL: u.String(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		now: time.Now,
	}

	for _, opt := range options {
		opt(c)
	}

	return c, nil
}

// ListBindings retrieves all bindings targeting the given device
func (c *Client) ListBindings(ctx context.Context, deviceID string) ([]v1alpha1.Binding, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1alpha1/devices/"+deviceID+"/bindings", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var list v1alpha1.BindingList
	if err := c.decodeResponse(resp, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// ListContent retrieves the full content item directory. The repository
// cannot filter items by device binding, so the join happens client-side.
func (c *Client) ListContent(ctx context.Context) ([]v1alpha1.ContentItem, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1alpha1/content", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var list v1alpha1.ContentItemList
	if err := c.decodeResponse(resp, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// ListActiveContent resolves the ordered active playlist for the device:
// active bindings inside their schedule window, ascending by order, joined
// to active content items.
func (c *Client) ListActiveContent(ctx context.Context, deviceID string) ([]v1alpha1.ContentItem, error) {
	bindings, err := c.ListBindings(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	items, err := c.ListContent(ctx)
	if err != nil {
		return nil, err
	}

	return ResolvePlaylist(bindings, items, c.now()), nil
}

func (c *Client) doRequest(ctx context.Context, method, pathStr string, body interface{}) (*http.Response, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = path.Join(u.Path, pathStr)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewError("REQUEST_FAILED", fmt.Sprintf("%s %s failed", method, pathStr), "content.doRequest", errors.ErrTransport)
	}
	return resp, nil
}

func (c *Client) decodeResponse(resp *http.Response, target interface{}) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr v1alpha1.Error
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Message == "" {
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, apiErr.Message)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}
