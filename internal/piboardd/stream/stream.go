// Package stream provides a cancellable WebSocket subscription handle used
// by the directory and content change streams.
package stream

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Am0lShah/Display-Output/api/types/v1alpha1"
	"github.com/Am0lShah/Display-Output/internal/piboardd/errors"
)

// Stream is a live subscription to one change feed. Messages arrive on
// Messages until the transport fails, at which point a single error is
// delivered on Errs and the stream is dead. Consumers re-subscribe by
// dialing a new stream; a Stream is never reused after an error.
type Stream struct {
	conn      *websocket.Conn
	messages  chan v1alpha1.ChangeMessage
	errs      chan error
	done      chan struct{}
	closeOnce sync.Once
}

// Dial opens a subscription to the given WebSocket URL
func Dial(ctx context.Context, url string, header http.Header) (*Stream, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, errors.NewError("SUBSCRIBE_FAILED", "failed to open change stream "+url, "stream.Dial", errors.ErrTransport)
	}

	s := &Stream{
		conn:     conn,
		messages: make(chan v1alpha1.ChangeMessage, 8),
		errs:     make(chan error, 1),
		done:     make(chan struct{}),
	}
	go s.readMessages()
	return s, nil
}

// Messages returns the channel of change messages
func (s *Stream) Messages() <-chan v1alpha1.ChangeMessage {
	return s.messages
}

// Errs returns the channel reporting transport failure
func (s *Stream) Errs() <-chan error {
	return s.errs
}

// Close terminates the subscription. Safe to call more than once.
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

func (s *Stream) readMessages() {
	defer s.conn.Close()
	defer close(s.messages)

	for {
		var msg v1alpha1.ChangeMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			select {
			case <-s.done:
				// Closed locally; not a transport failure.
			default:
				s.errs <- errors.NewError("STREAM_READ_FAILED", "change stream dropped", "stream.readMessages", errors.ErrTransport)
			}
			return
		}

		if msg.Type == v1alpha1.ChangeMessagePing {
			continue
		}

		select {
		case s.messages <- msg:
		case <-s.done:
			return
		}
	}
}
