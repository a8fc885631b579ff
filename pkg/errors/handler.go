package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

type handlerBox struct{ h ErrorHandler }

var current atomic.Pointer[handlerBox]

// SetHandler installs the process-wide error handler. nil restores a
// LogHandler on the global zerolog logger.
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	current.Store(&handlerBox{h})
}

// Handler returns the installed error handler.
func Handler() ErrorHandler {
	if b := current.Load(); b != nil {
		return b.h
	}
	return &LogHandler{}
}

// Report hands err to the installed handler, stamping it with the current
// time if it has none.
func Report(err *RavelError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportPanic hands a recovered panic to the installed handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	Handler().HandlePanic(err)
}

// RecoverInto turns a panic in the calling function into a reported
// *PanicError stored in *dst. It must be deferred directly:
//
//	func step() (err error) {
//	    defer errors.RecoverInto("run.step", &err)
//	    ...
//	}
func RecoverInto(op string, dst *error) {
	r := recover()
	if r == nil {
		return
	}
	pe := &PanicError{
		Op:         op,
		Value:      r,
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	}
	ReportPanic(pe)
	if dst != nil {
		*dst = pe
	}
}

// CaptureStack formats the caller's stack, innermost frame first, up to 32
// frames.
func CaptureStack() string {
	var pcs [32]uintptr
	n := runtime.Callers(2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for n > 0 {
		f, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
	return sb.String()
}
