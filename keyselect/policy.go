package keyselect

import (
	"context"
	"slices"
)

// Policy decides the key columns of each statement in one conversion run.
// A selection marked ApplyToAll is remembered and reused for later
// statements whose columns contain every shared key; other statements go
// back to the selector.
type Policy struct {
	selector Selector
	shared   *Selection
}

// NewPolicy creates a policy asking selector when no shared selection fits.
func NewPolicy(selector Selector) *Policy {
	return &Policy{selector: selector}
}

// Select returns the key columns for a statement on table with columns.
func (p *Policy) Select(ctx context.Context, table string, columns []string) (Selection, error) {
	if p.shared != nil {
		keys, err := resolveKeys(p.shared.Keys, columns)
		if err == nil {
			return Selection{Keys: keys, ApplyToAll: true}, nil
		}
	}

	if p.selector == nil {
		return Selection{}, ErrNoSelection
	}

	selection, err := p.selector.SelectKeys(ctx, table, columns)
	if err != nil {
		return Selection{}, err
	}

	if len(selection.Keys) == 0 {
		return Selection{}, ErrNoSelection
	}

	keys, err := resolveKeys(selection.Keys, columns)
	if err != nil {
		return Selection{}, err
	}

	selection.Keys = keys

	if selection.ApplyToAll {
		p.shared = &Selection{Keys: slices.Clone(keys), ApplyToAll: true}
	}

	return selection, nil
}

// Shared returns the selection remembered by "apply to all", if any.
func (p *Policy) Shared() (Selection, bool) {
	if p.shared == nil {
		return Selection{}, false
	}

	return Selection{Keys: slices.Clone(p.shared.Keys), ApplyToAll: true}, true
}

// Reset forgets the shared selection.
func (p *Policy) Reset() {
	p.shared = nil
}
