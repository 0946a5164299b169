package directory

import (
	"context"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/Am0lShah/Display-Output/api/types/v1alpha1"
	"github.com/Am0lShah/Display-Output/internal/piboardd/stream"
)

// DeviceWatch is a live subscription to updates of one device record
type DeviceWatch struct {
	stream    *stream.Stream
	updates   chan v1alpha1.DeviceRecord
	done      chan struct{}
	closeOnce sync.Once
}

// WatchDevice subscribes to record updates for the given device. The watch
// terminates on the first transport error; callers re-subscribe by calling
// WatchDevice again.
func (c *Client) WatchDevice(ctx context.Context, deviceID string) (*DeviceWatch, error) {
	wsURL, err := c.websocketURL("/api/v1alpha1/devices/" + deviceID + "/watch")
	if err != nil {
		return nil, err
	}

	s, err := stream.Dial(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}

	w := &DeviceWatch{
		stream:  s,
		updates: make(chan v1alpha1.DeviceRecord, 1),
		done:    make(chan struct{}),
	}
	go w.pump()
	return w, nil
}

// Updates returns the channel of device record updates
func (w *DeviceWatch) Updates() <-chan v1alpha1.DeviceRecord {
	return w.updates
}

// Errs returns the channel reporting transport failure
func (w *DeviceWatch) Errs() <-chan error {
	return w.stream.Errs()
}

// Close terminates the watch. Safe to call more than once.
func (w *DeviceWatch) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.stream.Close()
	})
	return err
}

func (w *DeviceWatch) pump() {
	for {
		select {
		case <-w.done:
			return
		case msg, ok := <-w.stream.Messages():
			if !ok {
				return
			}
			if msg.Type != v1alpha1.ChangeMessageDeviceUpdate || msg.Device == nil {
				continue
			}
			select {
			case w.updates <- *msg.Device:
			case <-w.done:
				return
			}
		}
	}
}

// websocketURL rewrites the client's base URL to the ws scheme for pathStr
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
	return strings.TrimSuffix(u.String(), "/"), nil
}
