package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"kanban-board-api/internal/realtime"

	"github.com/gorilla/websocket"
)

// wsURL maps the API base onto the websocket endpoint.
func (c *Client) wsURL() (string, error) {
	u, err := url.Parse(c.url("ws"))
	if err != nil {
		return "", err
	}
	switch strings.ToLower(u.Scheme) {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return u.String(), nil
}

// Subscribe streams board change events to fn until ctx is cancelled or the
// connection drops. It returns nil when ctx ends the stream.
func (c *Client) Subscribe(ctx context.Context, fn func(realtime.Event)) error {
	target, err := c.wsURL()
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.http.Timeout}
	header := http.Header{}
	header.Set("X-Requested-With", "XMLHttpRequest")
	conn, resp, err := dialer.DialContext(ctx, target, header)
	if err != nil {
		if resp != nil {
			return &APIError{Status: resp.StatusCode, Message: "Failed to subscribe"}
		}
		return fmt.Errorf("subscribe: %w", err)
	}
	defer conn.Close()
	c.debugf("subscribed to %s", target)

	// unblock ReadJSON when the caller is done
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		var evt realtime.Event
		if err := conn.ReadJSON(&evt); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
				return nil
			}
			return fmt.Errorf("subscribe: %w", err)
		}
		fn(evt)
	}
}
