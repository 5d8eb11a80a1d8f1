package domain

import (
	"errors"
	"fmt"
)

// Kind clasifica los errores del core segun la taxonomia expuesta por la API.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotAuthenticated
	KindForbidden
	KindValidation
	KindNotFound
	KindStorage
	KindUpstream
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindNotAuthenticated:
		return "not_authenticated"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage"
	case KindUpstream:
		return "upstream"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// Error lleva el tipo de fallo, la operacion y, para fallos de colaboradores, la causa.
// Message es seguro para mostrar al cliente; Err nunca se expone.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf devuelve el Kind del primer *Error en la cadena, o KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// PublicMessage devuelve el mensaje mostrable al cliente.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "internal error"
}

func NotAuthenticated(op string) error {
	return &Error{Kind: KindNotAuthenticated, Op: op, Message: "not authenticated"}
}

func Forbidden(op string) error {
	return &Error{Kind: KindForbidden, Op: op, Message: "forbidden"}
}

func Validation(op, msg string) error {
	return &Error{Kind: KindValidation, Op: op, Message: msg}
}

func NotFound(op, msg string) error {
	return &Error{Kind: KindNotFound, Op: op, Message: msg}
}

func RateLimited(op string) error {
	return &Error{Kind: KindRateLimited, Op: op, Message: "too many requests"}
}

func Storage(op string, err error) error {
	return &Error{Kind: KindStorage, Op: op, Err: err}
}

func Upstream(op string, err error) error {
	return &Error{Kind: KindUpstream, Op: op, Err: err}
}
