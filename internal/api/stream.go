package api

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// VerifyEvent describes websocket payloads emitted as documents are scored.
type VerifyEvent struct {
	Type         string           `json:"type"`
	JobID        string           `json:"job_id,omitempty"`
	Total        int              `json:"total,omitempty"`
	Processed    int              `json:"processed,omitempty"`
	Verification *VerificationDTO `json:"verification,omitempty"`
	Message      string           `json:"message,omitempty"`
	Timestamp    time.Time        `json:"timestamp"`
}

// wsClient wraps a websocket connection with write locking.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// VerifyNotifier tracks connected websocket clients and broadcasts scoring
// events to them.
type VerifyNotifier struct {
	mu         sync.Mutex
	clients    map[*wsClient]struct{}
	lastStatus *VerifyEvent
}

// NewVerifyNotifier constructs a notifier instance.
func NewVerifyNotifier() *VerifyNotifier {
	return &VerifyNotifier{clients: make(map[*wsClient]struct{})}
}

// Register attaches a websocket connection and returns a client handle. New
// subscribers immediately receive the last known status.
func (n *VerifyNotifier) Register(conn *websocket.Conn) *wsClient {
	client := &wsClient{conn: conn}
	n.mu.Lock()
	n.clients[client] = struct{}{}
	status := n.lastStatus
	n.mu.Unlock()

	if status != nil {
		_ = client.writeJSON(*status)
	}
	return client
}

// Unregister removes the websocket client and closes the socket.
func (n *VerifyNotifier) Unregister(client *wsClient) {
	if client == nil {
		return
	}
	n.mu.Lock()
	delete(n.clients, client)
	n.mu.Unlock()
	_ = client.conn.Close()
}

// Broadcast sends the supplied event to all registered websocket clients.
func (n *VerifyNotifier) Broadcast(event VerifyEvent) {
	event.Timestamp = time.Now().UTC()

	n.mu.Lock()
	if event.Type == "progress" || event.Type == "started" {
		snapshot := event
		snapshot.Verification = nil
		n.lastStatus = &snapshot
	}

	for client := range n.clients {
		if err := client.writeJSON(event); err != nil {
			delete(n.clients, client)
			_ = client.conn.Close()
		}
	}
	n.mu.Unlock()
}

func (c *wsClient) writeJSON(payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(payload)
}
