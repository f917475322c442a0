// Package bridge provides the channel layer between Go and native code.
// Containers in this library (preferences, cursors, intents, dialogs) talk
// to their native counterparts through method and event channels carried by
// a NativeBridge implementation.
package bridge

import "encoding/json"

// MessageCodec encodes and decodes messages for channel communication.
type MessageCodec interface {
	// Encode converts a Go value to bytes for transmission to native code.
	Encode(value any) ([]byte, error)

	// Decode converts bytes received from native code to a Go value.
	Decode(data []byte) (any, error)
}

// JSONCodec implements MessageCodec using JSON encoding.
// JSON prioritizes interoperability and minimal native dependencies.
type JSONCodec struct{}

// Encode serializes the value to JSON bytes.
func (c JSONCodec) Encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

// Decode deserializes JSON bytes to a Go value.
func (c JSONCodec) Decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DecodeInto deserializes JSON bytes into a specific type.
func (c JSONCodec) DecodeInto(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// DefaultCodec is the codec used by channels.
var DefaultCodec MessageCodec = JSONCodec{}
