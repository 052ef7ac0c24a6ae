package transport

//go:generate mockgen -package=mocks -destination=mocks/mock_adapter.go github.com/KirkDiggler/foresight/internal/transport Adapter

import (
	"context"
	"time"
)

// TransportError is a custom error type for transport failures
type TransportError string

// Error implements the error interface
func (e TransportError) Error() string {
	return string(e)
}

const (
	ErrMessageNotFound TransportError = "message not found"
	ErrEmptyText       TransportError = "message text cannot be empty"
	ErrNilConfig       TransportError = "config cannot be nil"
	ErrScanLimit       TransportError = "reply scan stopped at the page limit"
)

// Author identifies who posted a message
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Message is a post on the channel
type Message struct {
	ID        string    `json:"id"`
	Author    Author    `json:"author"`
	Text      string    `json:"text"`
	ReplyTo   string    `json:"reply_to,omitempty"`
	ImagePath string    `json:"image_path,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Adapter is an append-only public channel. Nothing posted can be edited
// and nothing guarantees that a reply will ever be seen.
type Adapter interface {
	// Post publishes text and returns the new message ID
	Post(ctx context.Context, text string) (string, error)

	// PostWithImage publishes text with an attached image
	PostWithImage(ctx context.Context, text, imagePath string) (string, error)

	// Reply publishes text as a reply to parentID
	Reply(ctx context.Context, parentID, text string) (string, error)

	// SearchReplies returns every reply to parentID, oldest first
	SearchReplies(ctx context.Context, parentID string) ([]Message, error)

	// LatestMessage returns the newest message by authorID
	LatestMessage(ctx context.Context, authorID string) (*Message, error)
}
