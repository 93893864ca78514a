package assistant

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by the stage that produced it.
type Kind string

const (
	// StartupFailure aborts the run: menu or model could not be loaded.
	StartupFailure Kind = "startup"
	// RetrievalFailure affects one query: it proceeds with no matches.
	RetrievalFailure Kind = "retrieval"
	// GenerationFailure affects one query: its reply is empty.
	GenerationFailure Kind = "generation"
)

// Error is a failure tagged with its Kind.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failure: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("%s failure: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so errors.Is(err, ErrRetrieval)
// works through wrapping and errors.Join.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrStartup    = &Error{Kind: StartupFailure}
	ErrRetrieval  = &Error{Kind: RetrievalFailure}
	ErrGeneration = &Error{Kind: GenerationFailure}
)

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind of the first *Error in err's tree, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// NewStartupError tags err as a StartupFailure for failures raised before New
// runs, such as an unreadable menu file or an unavailable model backend.
func NewStartupError(op string, err error) *Error {
	return newError(StartupFailure, op, err)
}
