package frame

import (
	"context"
	"errors"
)

// Token is a device completion token. Tokens handed out by a Device increase strictly
// with every submission; the zero token is complete by definition.
type Token uint64

var (
	// ErrDeviceFatal marks an unrecoverable device failure. Every error that should end the
	// frame loop wraps it.
	ErrDeviceFatal = errors.New("frame: device fatal")
	// ErrWaitTimeout is wrapped when a slot wait exceeds the diagnostic timeout.
	ErrWaitTimeout = errors.New("frame: wait for completion timed out")
	// ErrDeviceLost is returned by devices that can no longer make progress.
	ErrDeviceLost = errors.New("frame: device lost")
	// ErrTokenRegression is returned by Ring.Stamp for a token not newer than the slot's last.
	ErrTokenRegression = errors.New("frame: completion token did not increase")
	// ErrRegionOverflow is returned when writing past an upload region's capacity.
	ErrRegionOverflow = errors.New("frame: upload region overflow")
)

// Device is the command submission side of the compute device.
//
// Submit hands a recorded command list to the device timeline and returns the token that
// completes once the device has executed it. HasCompleted polls without blocking; WaitFor
// blocks until the token completes, the device fails or ctx ends.
type Device interface {
	Submit(cmd *CommandList) (Token, error)
	HasCompleted(t Token) bool
	WaitFor(ctx context.Context, t Token) error
}

// IsDeviceFatal reports whether err ends the frame loop.
func IsDeviceFatal(err error) bool {
	return errors.Is(err, ErrDeviceFatal)
}

// fatal wraps cause so that it matches both ErrDeviceFatal and cause.
type fatal struct {
	op    string
	cause error
}

func (e *fatal) Error() string {
	return "frame: device fatal: " + e.op + ": " + e.cause.Error()
}

func (e *fatal) Unwrap() []error {
	return []error{ErrDeviceFatal, e.cause}
}

// Fatal wraps cause as a device-fatal error raised by op.
//
// Parameters:
//   - op: the operation that failed, e.g. "submit"
//   - cause: the underlying error
//
// Returns:
//   - error: an error matching ErrDeviceFatal and cause with errors.Is
func Fatal(op string, cause error) error {
	if cause == nil {
		return nil
	}
	if IsDeviceFatal(cause) {
		return cause
	}
	return &fatal{op: op, cause: cause}
}
