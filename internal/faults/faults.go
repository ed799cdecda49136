// Package faults provides tagged error classification for the OCR pipeline.
// Every fallible operation reports its class explicitly instead of relying on
// the dynamic type of whatever error bubbled up.
package faults

import (
	"errors"
	"fmt"
)

// Kind classifies a fault for the invocation boundary.
type Kind int

const (
	// KindInternal marks unexpected failures inside the pipeline
	// (HTTP-500 equivalent).
	KindInternal Kind = iota
	// KindUserInput marks faults caused by the request itself
	// (HTTP-400 equivalent).
	KindUserInput
)

// Fault wraps an error with its classification and the operation that
// produced it.
type Fault struct {
	Kind Kind
	Op   string
	Err  error
}

func (f *Fault) Error() string {
	if f.Err == nil {
		return f.Op
	}
	return fmt.Sprintf("%s: %v", f.Op, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }

// User builds a user-input fault.
func User(op string, err error) *Fault {
	return &Fault{Kind: KindUserInput, Op: op, Err: err}
}

// Userf builds a user-input fault from a format string.
func Userf(op, format string, args ...interface{}) *Fault {
	return &Fault{Kind: KindUserInput, Op: op, Err: fmt.Errorf(format, args...)}
}

// Internal builds an internal fault.
func Internal(op string, err error) *Fault {
	return &Fault{Kind: KindInternal, Op: op, Err: err}
}

// IsUserInput reports whether err carries a user-input classification
// anywhere in its chain.
func IsUserInput(err error) bool {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind == KindUserInput
	}
	return false
}
