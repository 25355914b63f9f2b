// Package playlist provides the use cases for resolving playlist references,
// walking a playlist page by page and resuming paged runs from a cursor.
package playlist

import (
	"errors"
	"fmt"
)

// Kind classifies the failures produced by this package.
type Kind int

const (
	// KindInvalidInput is an unusable reference or option.
	KindInvalidInput Kind = iota + 1
	// KindReference is a reference that cannot be mapped to a playlist ID.
	KindReference
	// KindAPI is an error page reported by the remote service.
	KindAPI
	// KindContinuation is a malformed or disallowed continuation cursor.
	KindContinuation
)

// String returns the kind name used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindReference:
		return "reference"
	case KindAPI:
		return "api"
	case KindContinuation:
		return "continuation"
	default:
		return "unknown"
	}
}

// Sentinel errors. Messages are part of the public contract.
var (
	ErrInvalidInput = errors.New("The linkOrId has to be a string")

	ErrUnknownLink           = errors.New("not a known youtube link")
	ErrMissingID             = errors.New("Unable to find a id")
	ErrInvalidListQuery      = errors.New("invalid or unknown list query in url")
	ErrMixesNotSupported     = errors.New("Mixes not supported")
	ErrUnresolvableReference = errors.New("unable to resolve the ref")

	ErrPlaylistNotFound = errors.New("The playlist does not exist.")
	ErrPlaylistPrivate  = errors.New("This playlist is private.")
	ErrRemote           = errors.New("remote reported an error")

	ErrInvalidContinuation = errors.New("invalid continuation array")
	ErrInvalidAPIKey       = errors.New("invalid apiKey")
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidContext      = errors.New("invalid context")
	ErrInvalidOptions      = errors.New("invalid opts")
	ErrPagedOnly           = errors.New("continueReq only allowed for paged requests")
)

// apiErrorPrefix is prepended to every remote error message.
const apiErrorPrefix = "API-Error: "

// Error is a classified failure. Unwrap yields the matching sentinel so
// callers can use errors.Is on any of the values above.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, sentinel error) *Error {
	return &Error{Kind: kind, Msg: sentinel.Error(), Err: sentinel}
}

func invalidInput(cause error) *Error {
	if cause == nil {
		return newError(KindInvalidInput, ErrInvalidInput)
	}
	return &Error{Kind: KindInvalidInput, Msg: cause.Error(), Err: cause}
}

func referenceError(sentinel error) *Error {
	return newError(KindReference, sentinel)
}

func missingIDError(ref string) *Error {
	return &Error{
		Kind: KindReference,
		Msg:  fmt.Sprintf("%s in %q", ErrMissingID.Error(), ref),
		Err:  ErrMissingID,
	}
}

func unresolvableError(ref string) *Error {
	return &Error{
		Kind: KindReference,
		Msg:  fmt.Sprintf("%s: %s", ErrUnresolvableReference.Error(), ref),
		Err:  ErrUnresolvableReference,
	}
}

func continuationError(sentinel error) *Error {
	return newError(KindContinuation, sentinel)
}

// NewAPIError builds the error for a remote error page. Known alert texts map
// onto their sentinels; anything else wraps ErrRemote.
func NewAPIError(text string) *Error {
	sentinel := ErrRemote
	switch text {
	case ErrPlaylistNotFound.Error():
		sentinel = ErrPlaylistNotFound
	case ErrPlaylistPrivate.Error():
		sentinel = ErrPlaylistPrivate
	}
	return &Error{Kind: KindAPI, Msg: apiErrorPrefix + text, Err: sentinel}
}

// KindOf returns the classification of err, or 0 for unclassified errors
// such as transport failures.
func KindOf(err error) Kind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return 0
}
