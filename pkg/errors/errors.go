// Package errors provides structured error handling for the chartview bridge.
//
// Nothing that happens inside the embedded script context is allowed to crash
// the host process. Faults crossing the bridge are reported here and downgraded
// to logged diagnostics.
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
	// KindBridge indicates a channel or host bridge error.
	KindBridge
	// KindScript indicates an exception raised inside the embedded script context.
	KindScript
	// KindDecode indicates a failure decoding a message from the embedded context.
	KindDecode
	// KindLoad indicates a document or resource load failure.
	KindLoad
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindBridge:
		return "bridge"
	case KindScript:
		return "script"
	case KindDecode:
		return "decode"
	case KindLoad:
		return "load"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// BridgeError represents a structured error in the chartview bridge.
type BridgeError struct {
	// Op is the operation that failed (e.g., "chart.handleScriptMessage").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Channel is the bridge channel name, if applicable.
	Channel string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *BridgeError) Error() string {
	if e.Channel != "" {
		return fmt.Sprintf("%s [%s] channel=%s: %v", e.Op, e.Kind, e.Channel, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *BridgeError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "chart.handleScriptMessage").
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

// DecodeError represents a failure to decode a payload from the embedded context.
type DecodeError struct {
	// Channel is the bridge channel that carried the payload.
	Channel string
	// DataType is the expected type name.
	DataType string
	// Got is the actual data received.
	Got any
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s from channel %s: got %T", e.DataType, e.Channel, e.Got)
}

// ErrorHandler receives errors reported by the bridge.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *BridgeError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
