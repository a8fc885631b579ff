package errors

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogHandler is an ErrorHandler that writes errors to a zerolog logger.
type LogHandler struct {
	// Logger receives the entries. A nil Logger uses the global zerolog logger.
	Logger *zerolog.Logger
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

func (h *LogHandler) logger() *zerolog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return &log.Logger
}

// HandleError logs a RavelError.
func (h *LogHandler) HandleError(err *RavelError) {
	if err == nil {
		return
	}
	ev := h.logger().Error().
		Str("op", err.Op).
		Stringer("kind", err.Kind).
		Err(err.Err)
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("ravel error")
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	ev := h.logger().Error().Interface("value", err.Value)
	if err.Op != "" {
		ev = ev.Str("op", err.Op)
	}
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("ravel panic")
}
