// Package errors provides structured error handling for the keyed library.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindType indicates a type-dispatch failure.
	KindType
	// KindNotFound indicates a required key was absent from its container.
	KindNotFound
	// KindBridge indicates a platform channel or native bridge error.
	KindBridge
	// KindParsing indicates a failure to parse data received from native code.
	KindParsing
	// KindSchema indicates a key-manifest error.
	KindSchema
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindNotFound:
		return "not_found"
	case KindBridge:
		return "bridge"
	case KindParsing:
		return "parsing"
	case KindSchema:
		return "schema"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Error represents a structured error in the keyed library.
type Error struct {
	// Op is the operation that failed (e.g., "prefs.Commit").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Key is the container key or column name, if applicable.
	Key string
	// Channel is the platform channel name, if applicable.
	Channel string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	switch {
	case e.Key != "":
		return fmt.Sprintf("%s [%s] key=%s: %v", e.Op, e.Kind, e.Key, e.Err)
	case e.Channel != "":
		return fmt.Sprintf("%s [%s] channel=%s: %v", e.Op, e.Kind, e.Channel, e.Err)
	default:
		return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UnsupportedTypeError indicates a requested type has no dispatch entry.
// This is distinct from NotFoundError: the container's contents are
// irrelevant, the type itself cannot be dispatched.
type UnsupportedTypeError struct {
	// Type is the type descriptor that failed to dispatch.
	Type string
	// Reason carries extra context, such as the element-type erasure
	// explanation for empty lists. Empty for the plain unregistered case.
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported type %s: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("unsupported type %s", e.Type)
}

// NotFoundError indicates a key required to be present was absent from the
// container entirely. A present key with a null value does not produce this
// error.
type NotFoundError struct {
	// Key is the name that was looked up.
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("key %q not found", e.Key)
}

// InvalidTypeError indicates a runtime value whose dynamic type does not
// structurally match any supported category, or a container slot holding a
// value of a different type than the one requested.
type InvalidTypeError struct {
	// Key is the container key involved, if known.
	Key string
	// Want is the expected type descriptor, if known.
	Want string
	// Got is the offending value.
	Got any
}

func (e *InvalidTypeError) Error() string {
	switch {
	case e.Key != "" && e.Want != "":
		return fmt.Sprintf("invalid type for key %q: want %s, got %T", e.Key, e.Want, e.Got)
	case e.Key != "":
		return fmt.Sprintf("invalid type for key %q: got %T", e.Key, e.Got)
	default:
		return fmt.Sprintf("invalid type: got %T", e.Got)
	}
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "exec.Submit").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the keyed library.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
