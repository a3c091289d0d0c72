package domain

import "errors"

var (
	// ErrDataUnavailable covers every way a question fetch can come back empty-handed:
	// not found, non-success response, transport failure.
	ErrDataUnavailable = errors.New("quiz data unavailable")
	// ErrMalformedQuestion is returned when a question's answer is not among its options.
	ErrMalformedQuestion = errors.New("malformed quiz question")
	// ErrCountryNotFound indicates the requested country is not in the catalog.
	ErrCountryNotFound = errors.New("country not found")
	// ErrSessionNotFound is returned when a quiz session id is not registered.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionStarted is returned when Start is called on a session that already left AwaitingData.
	ErrSessionStarted = errors.New("quiz session already started")
	// ErrSessionClosed is returned for operations on a session after Exit.
	ErrSessionClosed = errors.New("quiz session closed")
)
