package port

import (
	"context"

	"github.com/pkg/errors"
)

// ErrUnsupported is returned by a backend that does not implement an
// operation, e.g. reading from a write-only relay. Callers skip such tiers.
var ErrUnsupported = errors.New("operation not supported by storage backend")

// StorageBackend is one tier of the persistence fallback chain. It deals in
// the encoded document only; parsing stays with the repository.
type StorageBackend interface {
	// Name identifies the tier in logs and metrics.
	Name() string

	// Read returns the stored document.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored document with content.
	Write(ctx context.Context, content []byte) error
}
