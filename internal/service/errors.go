package service

import (
	"errors"
)

// ErrorKind classifies service failures for the transport layer.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindBadRequest
	KindNotFound
	KindNoChatsFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	case KindNoChatsFound:
		return "no_chats_found"
	default:
		return "internal"
	}
}

// Error is returned by every ChatService operation that fails.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

func notFound() *Error {
	return &Error{Kind: KindNotFound, Message: "Chat not found"}
}

func noChatsFound() *Error {
	return &Error{Kind: KindNoChatsFound, Message: "No chats found"}
}

// badRequest covers malformed IDs and store failures on existing chats alike.
func badRequest(err error) *Error {
	return &Error{Kind: KindBadRequest, Message: err.Error(), Err: err}
}

func internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}
