package domain

import "github.com/pkg/errors"

var (
	ErrValidation      = errors.New("missing required fields")
	ErrItemNotFound    = errors.New("item not found")
	ErrAlreadyReserved = errors.New("item already reserved")
	ErrRelayRejected   = errors.New("reservation relay did not confirm the request")

	// ErrRead means no storage backend produced a parseable item list.
	ErrRead = errors.New("item list could not be read")
	// ErrWrite means every storage backend, the local file included, failed.
	ErrWrite = errors.New("item list could not be persisted")
)
