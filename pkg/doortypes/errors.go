package doortypes

import (
	"errors"
	"fmt"
)

// Error kinds. Typed errors below unwrap to one of these so callers can use errors.Is.
var (
	ErrNotAModule           = errors.New("not a module")
	ErrNoConstructor        = errors.New("module has no usable constructor")
	ErrModuleLoaded         = errors.New("module already loaded")
	ErrBadSignature         = errors.New("bad handler signature")
	ErrNoInterpreter        = errors.New("no interpreter registered")
	ErrDuplicateInterpreter = errors.New("interpreter already registered")
	ErrHandlerInvocation    = errors.New("handler invocation failed")
	ErrAlreadyRegistered    = errors.New("command already registered")
	ErrBadInterpretation    = errors.New("bad interpretation")
	ErrBadCast              = errors.New("bad invoker cast")
)

// SignatureError reports a handler that cannot be turned into a command.
type SignatureError struct {
	Command string
	Reason  string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("command %s: ill-formatted handler: %s", e.Command, e.Reason)
}

func (e *SignatureError) Unwrap() error { return ErrBadSignature }

// InterpretationError is returned by interpreters for malformed input.
type InterpretationError struct {
	Input   string
	Message string
	Err     error
}

// NewInterpretationError builds an InterpretationError whose message is format
// applied to the input, e.g. `Non-numeric input: "%s"`.
func NewInterpretationError(input, format string, cause error) *InterpretationError {
	return &InterpretationError{Input: input, Message: fmt.Sprintf(format, input), Err: cause}
}

func (e *InterpretationError) Error() string { return e.Message }

// Is matches ErrBadInterpretation.
func (e *InterpretationError) Is(target error) bool { return target == ErrBadInterpretation }

func (e *InterpretationError) Unwrap() error { return e.Err }

// HandlerError wraps a failure raised inside a handler body.
type HandlerError struct {
	Command string
	Err     error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("command %s: %v: %v", e.Command, ErrHandlerInvocation, e.Err)
}

// Is matches ErrHandlerInvocation.
func (e *HandlerError) Is(target error) bool { return target == ErrHandlerInvocation }

func (e *HandlerError) Unwrap() error { return e.Err }

// CastError is returned by As when the invoker is not of the requested type.
type CastError struct {
	Expected string
	Actual   string
}

func (e *CastError) Error() string {
	return fmt.Sprintf("%v: expected %s, got %s", ErrBadCast, e.Expected, e.Actual)
}

func (e *CastError) Unwrap() error { return ErrBadCast }
