package client

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// SyncListener keeps the cache honest across devices: it dials the
// server's invalidation socket and drops cached resources other clients
// have changed.
type SyncListener struct {
	client *Client
	done   chan struct{}
}

type invalidateMessage struct {
	Type     string `json:"type"`
	Resource string `json:"resource"`
}

// Listen connects to the sync socket and runs until ctx is cancelled,
// redialing with backoff on connection loss.
func (c *Client) Listen(ctx context.Context) *SyncListener {
	l := &SyncListener{client: c, done: make(chan struct{})}
	go l.run(ctx)
	return l
}

// Done closes when the listener has stopped.
func (l *SyncListener) Done() <-chan struct{} {
	return l.done
}

func (l *SyncListener) run(ctx context.Context) {
	defer close(l.done)

	backoff := time.Second
	for {
		if err := l.listenOnce(ctx); err != nil {
			log.Printf("⚠️ Sync connection lost: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (l *SyncListener) listenOnce(ctx context.Context) error {
	wsURL, err := syncURL(l.client.baseURL)
	if err != nil {
		return err
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second, Jar: l.client.http.Jar}
	conn, resp, err := dialer.DialContext(ctx, wsURL, http.Header{})
	if err != nil {
		return err
	}
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	// Close the socket when ctx ends so ReadMessage unblocks. The
	// watcher is released when this connection attempt returns, not at
	// the end of the listener's life.
	watcherDone := make(chan struct{})
	defer close(watcherDone)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-watcherDone:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		var msg invalidateMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type == "invalidate" && msg.Resource != "" {
			l.client.markStale(msg.Resource)
		}
	}
}

func syncURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/v1/ws"
	return u.String(), nil
}
