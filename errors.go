package spectra

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/hupe1980/spectra/array"
	"github.com/hupe1980/spectra/graph"
	"github.com/hupe1980/spectra/internal/dispatch"
	"github.com/hupe1980/spectra/internal/spectral"
)

// ErrorCode is the closed set of result codes returned by entry points.
type ErrorCode int

const (
	// Success means the call produced its result.
	Success ErrorCode = iota
	// UnknownError covers resource exhaustion, layout adaptation and kernel failures.
	UnknownError
	// InvalidInput means an argument was rejected.
	InvalidInput
	// UnsupportedTypeCombination means no instantiation matches the graph's tags.
	UnsupportedTypeCombination
	// UnsupportedMultiGPU means the algorithm has no distributed implementation.
	UnsupportedMultiGPU
)

// String implements fmt.Stringer.
func (c ErrorCode) String() string {
	switch c {
	case Success:
		return "SUCCESS"
	case UnknownError:
		return "UNKNOWN_ERROR"
	case InvalidInput:
		return "INVALID_INPUT"
	case UnsupportedTypeCombination:
		return "UNSUPPORTED_TYPE_COMBINATION"
	case UnsupportedMultiGPU:
		return "UNSUPPORTED_MULTI_GPU"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

var (
	// ErrNilHandle is returned when a required handle is nil.
	ErrNilHandle = errors.New("nil handle")

	// ErrResultFreed is returned when a freed result is accessed.
	ErrResultFreed = errors.New("result has been freed")

	// ErrHandleClosed is returned when a closed resource handle is used.
	ErrHandleClosed = errors.New("resource handle is closed")

	// ErrInvalidParams is returned when parameter validation fails.
	ErrInvalidParams = errors.New("invalid parameters")

	// ErrLiveBuffers is returned by Close when device buffers are still allocated.
	ErrLiveBuffers = errors.New("device buffers still allocated")
)

// Error is the error object returned by every entry point.
//
// The original underlying error can be accessed via errors.Unwrap.
type Error struct {
	Code  ErrorCode
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.cause)
}

// Message returns the human-readable message without the code prefix.
func (e *Error) Message() string {
	if e.cause == nil {
		return e.Code.String()
	}
	return e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// CodeOf returns the result code carried by err. A nil error is Success and
// errors that did not cross an entry point are UnknownError.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return UnknownError
}

func translateError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Code: classify(err), cause: err}
}

func classify(err error) ErrorCode {
	switch {
	case errors.Is(err, dispatch.ErrUnsupportedMultiGPU):
		return UnsupportedMultiGPU
	case errors.Is(err, dispatch.ErrUnsupportedTypeCombination),
		errors.Is(err, graph.ErrUnsupportedTypeCombination):
		return UnsupportedTypeCombination
	case errors.Is(err, ErrNilHandle),
		errors.Is(err, ErrResultFreed),
		errors.Is(err, ErrHandleClosed),
		errors.Is(err, ErrInvalidParams),
		errors.Is(err, graph.ErrInvalidInput),
		errors.Is(err, graph.ErrFreed),
		errors.Is(err, array.ErrTypeMismatch),
		errors.Is(err, array.ErrNilView),
		errors.Is(err, array.ErrFreed),
		errors.Is(err, spectral.ErrInvalidParams),
		errors.Is(err, spectral.ErrInvalidPartition):
		return InvalidInput
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return InvalidInput
	}
	return UnknownError
}
