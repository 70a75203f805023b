// internal/service/registry/domain/repository.go
package domain

import "context"

// ItemRepository persists the whole item list. There is no partial update:
// every mutation reads the full list and writes the full list back.
type ItemRepository interface {
	// ReadAll loads the current list. Fails with ErrRead.
	ReadAll(ctx context.Context) ([]Item, error)

	// WriteAll replaces the stored list. Fails with ErrWrite.
	WriteAll(ctx context.Context, items []Item) error
}
