package banks

import (
	"sort"

	"github.com/pkg/errors"
)

// nonExistentBank is the arena index of a parent that is either absent
// from the snapshot or not yet materialized.
const nonExistentBank = -1

// Forks is an arena of banks indexed by slot. Parent links are stored
// as arena indices and every walk over them is an iterative loop, so a
// deep chain never recurses and shared ancestry never cycles.
type Forks struct {
	banks   []*Bank
	indices map[Slot]int
	parents []int
}

// NewForks returns an empty arena.
func NewForks() *Forks {
	return &Forks{
		indices: make(map[Slot]int),
	}
}

// Add inserts a bank into the arena. The bank's parent does not need to
// be materialized yet; the link is resolved on first lookup.
func (f *Forks) Add(b *Bank) error {
	if b == nil {
		return errNilBank
	}
	if _, ok := f.indices[b.Slot]; ok {
		return errors.Wrapf(errDuplicateSlot, "slot %d", b.Slot)
	}
	if b.ParentSlot != nil && *b.ParentSlot >= b.Slot {
		return errors.Wrapf(errInvalidParentSlot, "slot %d, parent %d", b.Slot, *b.ParentSlot)
	}
	f.indices[b.Slot] = len(f.banks)
	f.banks = append(f.banks, b)
	f.parents = append(f.parents, nonExistentBank)
	return nil
}

// Len returns the number of banks in the arena.
func (f *Forks) Len() int {
	return len(f.banks)
}

// Get returns the bank at the given slot.
func (f *Forks) Get(slot Slot) (*Bank, bool) {
	i, ok := f.indices[slot]
	if !ok {
		return nil, false
	}
	return f.banks[i], true
}

// Parent resolves a bank's parent link. It reports false when the bank
// has no parent reference (genesis) or when the referenced slot is not
// retained by the snapshot.
func (f *Forks) Parent(b *Bank) (*Bank, bool) {
	i, ok := f.indices[b.Slot]
	if !ok || f.banks[i] != b {
		// Unknown bank, nothing to resolve against.
		return nil, false
	}
	if f.parents[i] == nonExistentBank {
		if b.ParentSlot == nil {
			return nil, false
		}
		j, ok := f.indices[*b.ParentSlot]
		if !ok {
			return nil, false
		}
		f.parents[i] = j
	}
	return f.banks[f.parents[i]], true
}

// All returns every bank ordered by ascending slot, independent of
// insertion order.
func (f *Forks) All() []*Bank {
	out := make([]*Bank, len(f.banks))
	copy(out, f.banks)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Slot < out[j].Slot
	})
	return out
}
