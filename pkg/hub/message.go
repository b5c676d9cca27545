// Package hub provides a thread-safe websocket broadcast hub
// using the channel-based fan-out pattern.
package hub

// Message is one text frame to be broadcast to clients.
type Message struct {
	Data []byte
}

// NewMessage wraps pre-encoded bytes.
func NewMessage(data []byte) Message {
	return Message{Data: data}
}
