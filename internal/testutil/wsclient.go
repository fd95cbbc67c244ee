package testutil

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// WSClient is a websocket test client for calculator session tests.
type WSClient struct {
	conn *websocket.Conn
	t    *testing.T
}

// NewWSClient dials path on srv over websocket and returns a test client.
//
// Precondition: srv must be running and serve a websocket upgrade at path.
// Postcondition: Returns a connected WSClient or fails the test.
func NewWSClient(t *testing.T, srv *httptest.Server, path string) *WSClient {
	t.Helper()
	start := time.Now()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("connecting to %s: %v [%s]", url, err, time.Since(start))
	}
	t.Cleanup(func() {
		conn.Close()
	})

	t.Logf("websocket client connected to %s [%s]", url, time.Since(start))
	return &WSClient{conn: conn, t: t}
}

// Send writes v as a JSON text frame.
//
// Postcondition: v is written to the connection or the test fails.
func (c *WSClient) Send(v any) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := c.conn.WriteJSON(v); err != nil {
		c.t.Fatalf("sending %v: %v", v, err)
	}
}

// Receive reads the next JSON frame into dst, failing the test on timeout.
func (c *WSClient) Receive(dst any, timeout time.Duration) {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))
	if err := c.conn.ReadJSON(dst); err != nil {
		c.t.Fatalf("receiving: %v", err)
	}
}

// Close closes the underlying connection.
func (c *WSClient) Close() {
	c.conn.Close()
}
