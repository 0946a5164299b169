// Package directory provides the client for the remote device directory
// service, which stores device records and validates pairing codes.
package directory

import (
	"bytes"
	"context"
	"crypto/tls"
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

// Client provides methods for interacting with the directory API
type Client struct {
	// baseURL is the root URL for all API requests
	baseURL string
	// httpClient is the underlying HTTP client
	httpClient *http.Client
	// token is the device authentication token, if any
	token string
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithToken sets the authentication token
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithTLSConfig sets custom TLS configuration
func WithTLSConfig(config *tls.Config) ClientOption {
	return func(c *Client) {
		tr := &http.Transport{
			TLSClientConfig: config,
		}
		c.httpClient = &http.Client{
			Transport: tr,
			Timeout:   30 * time.Second,
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewClient creates a new directory API client
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
	}

	for _, opt := range options {
		opt(c)
	}

	return c, nil
}

// UpsertDevice registers the device or refreshes its record. The directory
// preserves the display name of an already paired device; only network
// metadata and the code are updated in that case.
func (c *Client) UpsertDevice(ctx context.Context, req v1alpha1.UpsertDeviceRequest) (*v1alpha1.DeviceRecord, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, "/api/v1alpha1/devices/"+req.DeviceID, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var record v1alpha1.DeviceRecord
	if err := decodeResponse(resp, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// GetDevice retrieves the device record, returning errors.ErrDataAbsent
// when no record exists
func (c *Client) GetDevice(ctx context.Context, deviceID string) (*v1alpha1.DeviceRecord, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1alpha1/devices/"+deviceID, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.NewError("DEVICE_NOT_FOUND", "no record for device "+deviceID, "directory.GetDevice", errors.ErrDataAbsent)
	}

	var record v1alpha1.DeviceRecord
	if err := decodeResponse(resp, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// SetCode replaces the pairing code stored for the device
func (c *Client) SetCode(ctx context.Context, deviceID, code string) error {
	resp, err := c.doRequest(ctx, http.MethodPut, "/api/v1alpha1/devices/"+deviceID+"/code", v1alpha1.SetCodeRequest{Code: code})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return handleResponse(resp)
}

// ValidateCode asks the directory whether code matches a current device record
func (c *Client) ValidateCode(ctx context.Context, code string) (bool, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1alpha1/devices/validate-code", v1alpha1.ValidateCodeRequest{Code: code})
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var result v1alpha1.ValidateCodeResponse
	if err := decodeResponse(resp, &result); err != nil {
		return false, err
	}
	return result.Valid, nil
}

// SetOnline updates the device's presence flag, used for a best-effort
// offline mark during shutdown
func (c *Client) SetOnline(ctx context.Context, deviceID string, online bool) error {
	resp, err := c.doRequest(ctx, http.MethodPut, "/api/v1alpha1/devices/"+deviceID+"/presence", v1alpha1.PresenceRequest{Online: online})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return handleResponse(resp)
}

// doRequest performs an HTTP request with automatic error handling
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
		return nil, errors.NewError("REQUEST_FAILED", fmt.Sprintf("%s %s failed", method, pathStr), "directory.doRequest", errors.ErrTransport)
	}
	return resp, nil
}
