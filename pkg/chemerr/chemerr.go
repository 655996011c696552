// Package chemerr defines the error taxonomy ChemistFlow reports to clients
// and the mapping from each kind to an HTTP status and JSON envelope.
package chemerr

import "fmt"

// Kind enumerates the error categories ChemistFlow can surface.
type Kind string

const (
	KindNotFound      Kind = "NotFound"
	KindCreationError Kind = "CreationError"
	KindDeletionError Kind = "DeletionError"
	KindDecodingError Kind = "DecodingError"
	KindHttpError     Kind = "HttpError"
	KindNetworkError  Kind = "NetworkError"
	KindBadRequest    Kind = "BadRequest"
	KindEngineError   Kind = "EngineError"
)

// Error is the concrete type every ChemistFlow error surfaces as. It carries
// enough context to render the uniform {"error","message"} envelope and
// still participate in errors.Is/errors.As chains via Unwrap.
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

func new_(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error               { return new_(KindNotFound, message, nil) }
func CreationError(message string, err error) *Error { return new_(KindCreationError, message, err) }
func DeletionError(message string, err error) *Error { return new_(KindDeletionError, message, err) }
func DecodingError(message string, err error) *Error { return new_(KindDecodingError, message, err) }
func HttpError(message string, err error) *Error     { return new_(KindHttpError, message, err) }
func NetworkError(message string, err error) *Error  { return new_(KindNetworkError, message, err) }
func BadRequest(message string) *Error              { return new_(KindBadRequest, message, nil) }
func EngineError(message string, err error) *Error   { return new_(KindEngineError, message, err) }

// Wrap preserves an existing Kind while prefixing the message, mirroring
// the teacher's Wrap helper. A non-*Error is folded into an EngineError,
// since that is ChemistFlow's catch-all for failures that originate
// outside its own request validation.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*Error); ok {
		return &Error{Kind: ce.Kind, Message: fmt.Sprintf("%s: %s", message, ce.Message), Err: ce.Err}
	}
	return new_(KindEngineError, message, err)
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	ce, ok := err.(*Error)
	return ok && ce.Kind == kind
}

// StatusCode maps a Kind to the HTTP status ChemistFlow's router writes,
// per spec.md §6's route table and §7's propagation policy: a
// Preprocessor-side create/delete rejection is a client-facing 400, while
// transport/decoding failures against either upstream are an opaque 500
// (the diagnostic detail travels in the message, not the status).
func (k Kind) StatusCode() int {
	switch k {
	case KindNotFound:
		return 404
	case KindBadRequest, KindCreationError, KindDeletionError:
		return 400
	default:
		return 500
	}
}
