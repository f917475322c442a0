package bridge

import "errors"

// Standard errors for channel operations.
var (
	// ErrChannelNotFound indicates the requested channel does not exist.
	ErrChannelNotFound = errors.New("bridge: channel not found")

	// ErrMethodNotFound indicates the method is not implemented on the
	// native side.
	ErrMethodNotFound = errors.New("bridge: method not implemented")

	// ErrUnavailable indicates no native bridge is connected, or the
	// platform feature is not present.
	ErrUnavailable = errors.New("bridge: not available")

	// ErrClosed is returned when operating on a closed channel or stream.
	ErrClosed = errors.New("bridge: channel closed")
)

// ChannelError represents an error returned from native code.
type ChannelError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *ChannelError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

// NewChannelError creates a new ChannelError with the given code and message.
func NewChannelError(code, message string) *ChannelError {
	return &ChannelError{Code: code, Message: message}
}
