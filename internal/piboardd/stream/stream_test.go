package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Am0lShah/Display-Output/api/types/v1alpha1"
	"github.com/Am0lShah/Display-Output/internal/piboardd/errors"
)

// changeServer upgrades connections and runs fn over each one
func changeServer(t *testing.T, fn func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		fn(conn)
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestMessagesDeliveredAndPingSkipped(t *testing.T) {
	srv := changeServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteJSON(v1alpha1.ChangeMessage{Type: v1alpha1.ChangeMessagePing})
		_ = conn.WriteJSON(v1alpha1.ChangeMessage{Type: v1alpha1.ChangeMessageContentChange})
		// Keep the connection up until the client hangs up.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer srv.Close()

	s, err := Dial(context.Background(), wsURL(srv), nil)
	require.NoError(t, err)
	defer s.Close()

	select {
	case msg := <-s.Messages():
		assert.Equal(t, v1alpha1.ChangeMessageContentChange, msg.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no change message arrived")
	}
}

func TestRemoteDropReportsTransportError(t *testing.T) {
	srv := changeServer(t, func(conn *websocket.Conn) {
		// Drop immediately.
	})
	defer srv.Close()

	s, err := Dial(context.Background(), wsURL(srv), nil)
	require.NoError(t, err)
	defer s.Close()

	select {
	case err := <-s.Errs():
		assert.True(t, errors.IsTransport(err))
	case <-time.After(2 * time.Second):
		t.Fatal("no transport error reported")
	}
}

func TestCloseIsIdempotentAndConcurrent(t *testing.T) {
	srv := changeServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer srv.Close()

	s, err := Dial(context.Background(), wsURL(srv), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Close()
		}()
	}
	wg.Wait()

	assert.NoError(t, s.Close())
}

func TestDialFailure(t *testing.T) {
	_, err := Dial(context.Background(), "ws://127.0.0.1:1", nil)
	require.Error(t, err)
	assert.True(t, errors.IsTransport(err))
}
