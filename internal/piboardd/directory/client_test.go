package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Am0lShah/Display-Output/api/types/v1alpha1"
	"github.com/Am0lShah/Display-Output/internal/piboardd/errors"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "valid http", baseURL: "http://localhost:8080", wantErr: false},
		{name: "valid https", baseURL: "https://directory.example.com", wantErr: false},
		{name: "bad scheme", baseURL: "ftp://localhost", wantErr: true},
		{name: "garbage", baseURL: "://nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.baseURL)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpsertDevice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1alpha1/devices/dev-1", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req v1alpha1.UpsertDeviceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "dev-1", req.DeviceID)
		assert.Equal(t, "123456", req.Code)
		assert.True(t, req.Online)

		json.NewEncoder(w).Encode(v1alpha1.DeviceRecord{
			DeviceID:    req.DeviceID,
			Code:        req.Code,
			DisplayName: "Lobby Screen",
		})
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, WithToken("secret"))
	require.NoError(t, err)

	rec, err := client.UpsertDevice(context.Background(), v1alpha1.UpsertDeviceRequest{
		DeviceID: "dev-1",
		Code:     "123456",
		Online:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "dev-1", rec.DeviceID)
	assert.Equal(t, "Lobby Screen", rec.DisplayName)
	assert.False(t, rec.Paired())
}

func TestGetDeviceNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.GetDevice(context.Background(), "dev-1")
	require.Error(t, err)
	assert.True(t, errors.IsDataAbsent(err))
}

func TestGetDevicePaired(t *testing.T) {
	owner := "acct-1"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1alpha1/devices/dev-1", r.URL.Path)
		json.NewEncoder(w).Encode(v1alpha1.DeviceRecord{
			DeviceID: "dev-1",
			OwnerID:  &owner,
		})
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	rec, err := client.GetDevice(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.True(t, rec.Paired())
}

func TestSetCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1alpha1/devices/dev-1/code", r.URL.Path)

		var req v1alpha1.SetCodeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "654321", req.Code)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	require.NoError(t, client.SetCode(context.Background(), "dev-1", "654321"))
}

func TestValidateCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1alpha1/devices/validate-code", r.URL.Path)

		var req v1alpha1.ValidateCodeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(v1alpha1.ValidateCodeResponse{Valid: req.Code == "123456"})
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	valid, err := client.ValidateCode(context.Background(), "123456")
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = client.ValidateCode(context.Background(), "000000")
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestSetOnline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1alpha1/devices/dev-1/presence", r.URL.Path)

		var req v1alpha1.PresenceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Online)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	require.NoError(t, client.SetOnline(context.Background(), "dev-1", false))
}

func TestTransportErrorTaxonomy(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:1")
	require.NoError(t, err)

	_, err = client.GetDevice(context.Background(), "dev-1")
	require.Error(t, err)
	assert.True(t, errors.IsTransport(err))
}
