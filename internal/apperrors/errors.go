package apperrors

import (
	"errors"
)

// Kind classifies failures so the HTTP edge can map them to a status code
type Kind int

const (
	KindUpstreamFailure Kind = iota
	KindValidationFailed
	KindInvalidOperation
	KindNotFound
	KindInvalidCredential
	KindTokenInvalid
	KindTokenExpired
	KindSessionRevoked
	KindForbidden
	KindConflict
)

var kindNames = map[Kind]string{
	KindUpstreamFailure:   "UpstreamFailure",
	KindValidationFailed:  "ValidationFailed",
	KindInvalidOperation:  "InvalidOperation",
	KindNotFound:          "NotFound",
	KindInvalidCredential: "InvalidCredential",
	KindTokenInvalid:      "TokenInvalid",
	KindTokenExpired:      "TokenExpired",
	KindSessionRevoked:    "SessionRevoked",
	KindForbidden:         "Forbidden",
	KindConflict:          "Conflict",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Error is a failure known to the application
// Message is safe to show to the client
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

var (
	ErrAccountAlreadyExists = &Error{KindConflict, "user with email or username already exists"}
	ErrAccountNotFound      = &Error{KindNotFound, "user not found"}

	ErrInvalidCredential = &Error{KindInvalidCredential, "invalid user credentials"}
	ErrTokenInvalid      = &Error{KindTokenInvalid, "invalid token"}
	ErrTokenExpired      = &Error{KindTokenExpired, "token is expired"}
	ErrSessionRevoked    = &Error{KindSessionRevoked, "refresh token is expired or used"}

	ErrForbidden = &Error{KindForbidden, "you are not allowed to modify this resource"}

	ErrTargetNotFound   = &Error{KindNotFound, "target not found"}
	ErrVideoNotFound    = &Error{KindNotFound, "video not found"}
	ErrCommentNotFound  = &Error{KindNotFound, "comment not found"}
	ErrPostNotFound     = &Error{KindNotFound, "post not found"}
	ErrPlaylistNotFound = &Error{KindNotFound, "playlist not found"}
	ErrChannelNotFound  = &Error{KindNotFound, "channel does not exists"}

	ErrSelfSubscription      = &Error{KindInvalidOperation, "you cannot subscribe to your own channel"}
	ErrVideoNotInPlaylist    = &Error{KindNotFound, "video not found in playlist"}
	ErrPasswordReuse         = &Error{KindInvalidOperation, "new password must differ from the old one"}
	ErrToggleRetriesExceeded = errors.New("relation toggle retries exceeded")
)

// Validation returns an error of kind ValidationFailed with a custom message
func Validation(msg string) error {
	return &Error{Kind: KindValidationFailed, Msg: msg}
}

// NotFound returns an error of kind NotFound with a custom message
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// KindOf returns the kind of the first *Error in the chain
// Unknown errors are upstream failures
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstreamFailure
}

// Message returns client-safe message for the error
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "something went wrong"
}
