package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"havencli/internal/common"
	"havencli/internal/models"
)

// NotificationEvent is one message from the notification stream: either a
// new notification or an unread-count update.
type NotificationEvent struct {
	Notification *models.Notification
	UnreadCount  *int
}

// NotificationSocket streams live notifications over a websocket at
// /notifications/ws. Events are delivered on Events(); the stream ends when
// the context is cancelled, Close is called, or the connection drops, after
// which Err() reports the cause (nil on clean shutdown).
type NotificationSocket struct {
	conn   *websocket.Conn
	events chan NotificationEvent
	err    error
	done   chan struct{}
}

// wireNotificationEvent is the stream frame: a type discriminator plus the
// payload for that type.
type wireNotificationEvent struct {
	Event        string           `json:"event"`
	Notification wireNotification `json:"notification"`
	UnreadCount  int              `json:"unreadCount"`
}

// DialNotifications opens the notification stream. The bearer token is sent
// in the handshake headers, mirroring the REST calls.
func DialNotifications(ctx context.Context, baseURL string, tokens TokenSource) (*NotificationSocket, error) {
	u := strings.TrimRight(baseURL, "/") + "/notifications/ws"
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}

	header := http.Header{}
	if tokens != nil {
		if token := tokens.Token(); token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u, header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("dial notifications: %w", common.ErrUnavailable)
	}

	s := &NotificationSocket{
		conn:   conn,
		events: make(chan NotificationEvent, 16),
		done:   make(chan struct{}),
	}
	go s.readLoop(ctx)
	return s, nil
}

// Events returns the channel of stream events. It is closed when the
// stream ends.
func (s *NotificationSocket) Events() <-chan NotificationEvent {
	return s.events
}

// Err reports why the stream ended. Valid after Events() is closed.
func (s *NotificationSocket) Err() error {
	<-s.done
	return s.err
}

// Close tears the connection down. Safe to call concurrently with reads.
func (s *NotificationSocket) Close() error {
	return s.conn.Close()
}

func (s *NotificationSocket) readLoop(ctx context.Context) {
	defer close(s.events)
	defer close(s.done)

	go func() {
		select {
		case <-ctx.Done():
			s.conn.Close()
		case <-s.done:
		}
	}()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.err = fmt.Errorf("notification stream: %w", common.ErrUnavailable)
			}
			return
		}

		var frame wireNotificationEvent
		if err := json.Unmarshal(data, &frame); err != nil {
			// skip malformed frames, the stream itself is still healthy
			continue
		}

		var ev NotificationEvent
		switch frame.Event {
		case "notification":
			n := frame.Notification.normalize()
			ev.Notification = &n
		case "unreadCount":
			count := frame.UnreadCount
			ev.UnreadCount = &count
		default:
			continue
		}

		select {
		case s.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}
