package content

import (
	"context"
	"net/url"
	"path"

	"github.com/Am0lShah/Display-Output/internal/piboardd/stream"
)

// WatchBindings subscribes to binding changes filtered to the given device
func (c *Client) WatchBindings(ctx context.Context, deviceID string) (*stream.Stream, error) {
	wsURL, err := c.websocketURL("/api/v1alpha1/devices/" + deviceID + "/bindings/watch")
	if err != nil {
		return nil, err
	}
	return stream.Dial(ctx, wsURL, nil)
}

// WatchContent subscribes to content item changes. The repository cannot
// filter this stream by device, so every content change is delivered and
// the listener decides whether to re-pull.
func (c *Client) WatchContent(ctx context.Context) (*stream.Stream, error) {
	wsURL, err := c.websocketURL("/api/v1alpha1/content/watch")
	if err != nil {
		return nil, err
	}
	return stream.Dial(ctx, wsURL, nil)
}

func (c *Client) websocketURL(pathStr string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = path.Join(u.Path, pathStr)
	if c.token != "" {
		q := u.Query()
		q.Set("token", c.token)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
