package client

import "fmt"

type Kind int

const (
	// KindLoad: network or HTTP failure fetching data; prior state is left
	// untouched by the caller.
	KindLoad Kind = iota
	// KindValidation: form rejected locally before any request is sent.
	KindValidation
	// KindServerRejection: the server answered a write with success=false or
	// a non-2xx status; Message carries the server's text verbatim.
	KindServerRejection
	// KindNotFound: the exam or question id does not exist.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindLoad:
		return "load error"
	case KindValidation:
		return "validation error"
	case KindServerRejection:
		return "server rejection"
	case KindNotFound:
		return "not found"
	}
	return "unknown"
}

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

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the error kind; anything that is not a client error counts
// as a load failure.
func KindOf(err error) Kind {
	if ce, ok := err.(*Error); ok {
		return ce.Kind
	}
	return KindLoad
}

func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsValidation(err error) bool { return KindOf(err) == KindValidation }
