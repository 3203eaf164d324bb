package notification

import (
	"context"
)

type Sender interface {
	CanSend() bool
	Send(ctx context.Context, msg Message) error
	Name() string
}

// Message is one outgoing webhook message. The display username and avatar
// come from the resolved settings, not from the message itself.
type Message struct {
	Content     string
	Attachments []Attachment
}

// Attachment is a file payload read from disk before any network call is made.
type Attachment struct {
	Name string
	Path string
	Data []byte
}
