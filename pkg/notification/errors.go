package notification

import (
	"errors"
	"fmt"
)

// ErrEmptyMessage is returned when a message has neither content nor
// attachments. Content alone may be empty as long as at least one attachment
// is present (Discord accepts attachment-only messages).
var ErrEmptyMessage = errors.New("message content is empty and no attachments were given")

// AttachmentError reports a local attachment path that could not be used.
// No request is sent when any attachment fails to resolve.
type AttachmentError struct {
	Path string
	Err  error
}

func (e *AttachmentError) Error() string {
	return fmt.Sprintf("attachment %q: %v", e.Path, e.Err)
}

func (e *AttachmentError) Unwrap() error {
	return e.Err
}

// TransportError reports a network-level failure: connection refused, DNS
// failure or timeout. The request never produced an HTTP response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DeliveryError reports a non-2xx HTTP response from the webhook endpoint.
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("webhook delivery failed with status %d: %s", e.StatusCode, e.Body)
}
