// Package notify delivers status digests to chat platforms (Slack, Discord).
package notify

import "context"

// Color constants for message sidebars.
const (
	ColorSuccess = "#36a64f"
	ColorInfo    = "#2196f3"
	ColorWarning = "#ff9800"
)

// Adapter is the interface that platform-specific implementations must
// satisfy. Adapters are outbound-only: they connect, deliver messages,
// and close.
type Adapter interface {
	// Connect establishes a connection to the chat platform.
	Connect(ctx context.Context) error

	// Send delivers a message to the platform.
	Send(ctx context.Context, msg Message) error

	// Close gracefully shuts down the adapter connection.
	Close() error
}

// Message is a structured outbound message.
type Message struct {
	ChannelID string  // target channel (empty uses the adapter default)
	Title     string  // message headline
	Body      string  // detail text
	Color     string  // sidebar color hint (e.g. "#36a64f")
	Fields    []Field // key-value metadata pairs
}

// Field is a key-value pair displayed alongside a message.
type Field struct {
	Name  string
	Value string
	Short bool // hint: render side-by-side with another field
}
