// Package banks holds the point-in-time snapshot of a validator set's
// competing chain forks: one Bank per known chain state, linked to its
// parent by slot, with the vote accounts observed at that state.
package banks

import (
	"bytes"
	"sort"

	"github.com/gagliardetto/solana-go"
)

// Slot is a monotonically increasing logical time unit identifying a
// position in the ledger.
type Slot uint64

// Epoch groups a fixed span of slots under one leader schedule.
type Epoch uint64

// Lockout is a single cast vote together with its confirmation count.
type Lockout struct {
	Slot              Slot
	ConfirmationCount uint32
}

// VoteState is the vote history of one validator as observed in a
// particular bank. Votes are chronological, oldest first; the final
// element is the most recent vote known in that bank.
type VoteState struct {
	NodePubkey solana.PublicKey
	Votes      []Lockout
	RootSlot   *Slot
}

// LastLockout returns the most recent vote in the history, if any.
func (v *VoteState) LastLockout() (Lockout, bool) {
	if len(v.Votes) == 0 {
		return Lockout{}, false
	}
	return v.Votes[len(v.Votes)-1], true
}

// VoteAccount pairs a stake amount with the vote state it backs. State
// may be nil when the account's state could not be deserialized.
type VoteAccount struct {
	Stake uint64
	State *VoteState
}

// Bank is a snapshot of ledger state at a specific slot. ParentSlot is
// nil only at genesis; a non-nil ParentSlot may still reference a bank
// that the snapshot no longer retains.
type Bank struct {
	Slot             Slot
	Epoch            Epoch
	ParentSlot       *Slot
	Leader           solana.PublicKey
	TransactionCount uint64
	VoteAccounts     map[solana.PublicKey]VoteAccount
}

// TotalStake sums the stake across every vote account in the bank.
func (b *Bank) TotalStake() uint64 {
	var total uint64
	for _, va := range b.VoteAccounts {
		total += va.Stake
	}
	return total
}

// VoteAccountAddresses returns the vote account addresses in a fixed
// order so that iteration over the accounts map is deterministic.
func (b *Bank) VoteAccountAddresses() []solana.PublicKey {
	addrs := make([]solana.PublicKey, 0, len(b.VoteAccounts))
	for addr := range b.VoteAccounts {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i][:], addrs[j][:]) < 0
	})
	return addrs
}
