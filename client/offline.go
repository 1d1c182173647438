package client

import (
	"context"
	"errors"
	"net"
	"net/url"
	"time"
)

// ErrOffline is returned for operations that need the network while the
// client is offline. Reads fall back to cached data first and only
// surface it with nothing cached; writes return it before any I/O.
var ErrOffline = errors.New("client is offline")

// SetOffline forces offline mode regardless of actual connectivity.
func (c *Client) SetOffline(offline bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forcedOffline = offline
}

// Offline reports whether the client currently treats itself as offline:
// either forced, or the server is unreachable.
func (c *Client) Offline() bool {
	c.mu.Lock()
	forced := c.forcedOffline
	c.mu.Unlock()
	if forced {
		return true
	}
	return !c.probe()
}

// probe checks TCP reachability of the API host. Cheap enough to run
// before each mutation.
func (c *Client) probe() bool {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return false
	}
	host := u.Host
	if u.Port() == "" {
		switch u.Scheme {
		case "https":
			host = net.JoinHostPort(u.Hostname(), "443")
		default:
			host = net.JoinHostPort(u.Hostname(), "80")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", host)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
