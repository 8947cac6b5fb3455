// Package apperr carries the error kinds that cross service boundaries.
//
// A Kind is machine-checkable and survives the trip through gRPC (via status
// codes) and HTTP (via status codes plus a JSON body). Messages are meant for
// humans; wrapped causes are for logs only and never leave the process.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind classifies a failure.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindInsufficientStock Kind = "insufficient_stock"
	KindInvalidArgument   Kind = "invalid_argument"
	KindConflict          Kind = "conflict"
	KindConfiguration     Kind = "configuration"
	KindUnavailable       Kind = "unavailable"
	KindInternal          Kind = "internal"
)

// Error is a classified failure with a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err. The cause is kept for logging only.
func Wrap(err error, kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func NotFound(format string, args ...any) *Error { return New(KindNotFound, format, args...) }

func InvalidArgument(format string, args ...any) *Error {
	return New(KindInvalidArgument, format, args...)
}

func Internal(err error) *Error { return Wrap(err, KindInternal, "internal error") }

// KindOf reports the kind of err. Unclassified errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// PublicMessage is the text that may be shown to a caller.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal error"
}

var grpcCodes = map[Kind]codes.Code{
	KindNotFound:          codes.NotFound,
	KindInsufficientStock: codes.FailedPrecondition,
	KindInvalidArgument:   codes.InvalidArgument,
	KindConflict:          codes.AlreadyExists,
	KindConfiguration:     codes.FailedPrecondition,
	KindUnavailable:       codes.Unavailable,
	KindInternal:          codes.Internal,
}

// ToStatus converts err into a gRPC status error. The kind travels in the
// message prefix so FromStatus can restore kinds that share a code.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		var e *Error
		if !errors.As(err, &e) {
			return err
		}
	}
	kind := KindOf(err)
	return status.Error(grpcCodes[kind], string(kind)+": "+PublicMessage(err))
}

// FromStatus converts a gRPC error returned by a client call back into an
// *Error. Transport failures become KindUnavailable.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return Wrap(err, KindUnavailable, "remote call failed")
	}
	kind, msg := splitKind(st.Message())
	if kind == "" {
		kind = kindForCode(st.Code())
	}
	if kind == KindInternal || kind == KindUnavailable {
		return Wrap(err, kind, "remote call failed")
	}
	return &Error{Kind: kind, Message: msg}
}

func splitKind(msg string) (Kind, string) {
	for kind := range grpcCodes {
		prefix := string(kind) + ": "
		if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return kind, msg[len(prefix):]
		}
	}
	return "", msg
}

func kindForCode(c codes.Code) Kind {
	switch c {
	case codes.NotFound:
		return KindNotFound
	case codes.InvalidArgument:
		return KindInvalidArgument
	case codes.AlreadyExists:
		return KindConflict
	case codes.FailedPrecondition:
		return KindInsufficientStock
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return KindUnavailable
	default:
		return KindInternal
	}
}

// HTTPStatus maps a kind to the status code used by the REST surfaces.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindInsufficientStock:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
