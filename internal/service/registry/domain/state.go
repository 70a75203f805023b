// internal/service/registry/domain/state.go
package domain

// State is the reservation lifecycle of a single item.
type State string

const (
	StateAvailable State = "AVAILABLE" // can still be chosen by a guest
	StateReserved  State = "RESERVED"  // terminal
)

// State derives the lifecycle state from the stored flag.
func (i Item) State() State {
	if i.Reservado {
		return StateReserved
	}
	return StateAvailable
}

// MarkReserved moves the item from Available to Reserved. There is no way
// back: a reserved item always answers ErrAlreadyReserved.
func (i *Item) MarkReserved() error {
	if i.State() == StateReserved {
		return ErrAlreadyReserved
	}
	i.Reservado = true
	return nil
}

// Reserve applies the transition to the first item matching id and returns
// the updated list for persistence. The input slice is left untouched.
func Reserve(items []Item, id ItemID) ([]Item, error) {
	idx := FindItem(items, id)
	if idx < 0 {
		return nil, ErrItemNotFound
	}

	updated := make([]Item, len(items))
	copy(updated, items)
	if err := updated[idx].MarkReserved(); err != nil {
		return nil, err
	}
	return updated, nil
}

// FindItem returns the index of the first item whose id matches, or -1.
func FindItem(items []Item, id ItemID) int {
	for i := range items {
		if items[i].ID.Matches(id) {
			return i
		}
	}
	return -1
}

// Available filters the list down to items that can still be reserved,
// keeping their order.
func Available(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.State() == StateAvailable {
			out = append(out, item)
		}
	}
	return out
}
