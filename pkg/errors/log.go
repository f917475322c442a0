package errors

import (
	"os"

	"github.com/charmbracelet/log"
)

// LogHandler is an ErrorHandler that logs errors through charmbracelet/log.
type LogHandler struct {
	// Logger is the destination logger. Nil means the package-level default
	// (stderr, "keyed" prefix).
	Logger *log.Logger

	// Verbose enables detailed output including stack traces.
	Verbose bool
}

var defaultLogger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix:          "keyed",
	ReportTimestamp: true,
})

func (h *LogHandler) logger() *log.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return defaultLogger
}

// HandleError logs a structured Error.
func (h *LogHandler) HandleError(err *Error) {
	if err == nil {
		return
	}
	kv := []any{"kind", err.Kind.String()}
	if err.Key != "" {
		kv = append(kv, "key", err.Key)
	}
	if err.Channel != "" {
		kv = append(kv, "channel", err.Channel)
	}
	kv = append(kv, "err", err.Err)
	h.logger().Error(err.Op, kv...)
}

// HandlePanic logs a recovered panic.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Op != "" {
		h.logger().Error("recovered panic", "op", err.Op, "value", err.Value)
	} else {
		h.logger().Error("recovered panic", "value", err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		h.logger().Error("stack trace", "stack", err.StackTrace)
	}
}
