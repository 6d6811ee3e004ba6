package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the transport layer can map it to a status
// code without knowing which component produced it.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is a typed business failure.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

var (
	ErrUnauthorized       = &Error{Kind: KindUnauthorized, Msg: "unauthorized"}
	ErrNotOwner           = &Error{Kind: KindUnauthorized, Msg: "you are not the owner of this listing"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Msg: "invalid username/password"}
	ErrMessageForbidden   = &Error{Kind: KindUnauthorized, Msg: "cannot read this message"}

	ErrUserNotFound    = &Error{Kind: KindNotFound, Msg: "user not found"}
	ErrListingNotFound = &Error{Kind: KindNotFound, Msg: "listing not found"}
	ErrBookingNotFound = &Error{Kind: KindNotFound, Msg: "booking not found"}
	ErrMessageNotFound = &Error{Kind: KindNotFound, Msg: "message not found"}
	ErrPhotoNotFound   = &Error{Kind: KindNotFound, Msg: "photo not found"}

	ErrSelfBooking      = &Error{Kind: KindBadRequest, Msg: "cannot book own listing"}
	ErrAlreadyBooked    = &Error{Kind: KindBadRequest, Msg: "already booked"}
	ErrUsernameTaken    = &Error{Kind: KindBadRequest, Msg: "username already taken"}
	ErrUnknownRecipient = &Error{Kind: KindBadRequest, Msg: "cannot send to unknown recipient"}
	ErrPhotoRequired    = &Error{Kind: KindBadRequest, Msg: "photo is required for a listing"}
	ErrInvalidID        = &Error{Kind: KindBadRequest, Msg: "invalid id"}
)

// BadRequest builds an ad-hoc client error, e.g. for rejected field values.
func BadRequest(format string, args ...any) error {
	return &Error{Kind: KindBadRequest, Msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of err. Anything that is not a *Error is internal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
