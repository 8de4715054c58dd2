package graph

import (
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/legioNpk/forkgraph/banks"
	"github.com/legioNpk/forkgraph/testing/require"
)

// Fixture: two competing forks sharing a common sub-chain,
//
//	0 -> 5 -> 10 -> 12   (tip A)
//	0 -> 5 -> 8          (tip B)
//
// with three validators voting at slots 10, 8 and 20. Slot 20 is not
// part of either chain, so validator3's last vote is absent.
var (
	testLeader = solana.PublicKey{0xaa}

	voteAcct1 = solana.PublicKey{0x10}
	voteAcct2 = solana.PublicKey{0x20}
	voteAcct3 = solana.PublicKey{0x30}

	validator1 = solana.PublicKey{0x01}
	validator2 = solana.PublicKey{0x02}
	validator3 = solana.PublicKey{0x03}
)

func slotRef(s banks.Slot) *banks.Slot {
	return &s
}

func scenarioVoteAccounts() map[solana.PublicKey]banks.VoteAccount {
	return map[solana.PublicKey]banks.VoteAccount{
		voteAcct1: {
			Stake: 100 * lamportsPerSol,
			State: &banks.VoteState{
				NodePubkey: validator1,
				Votes: []banks.Lockout{
					{Slot: 5, ConfirmationCount: 2},
					{Slot: 10, ConfirmationCount: 1},
				},
			},
		},
		voteAcct2: {
			Stake: 150 * lamportsPerSol,
			State: &banks.VoteState{
				NodePubkey: validator2,
				Votes:      []banks.Lockout{{Slot: 8, ConfirmationCount: 1}},
			},
		},
		voteAcct3: {
			Stake: 50 * lamportsPerSol,
			State: &banks.VoteState{
				NodePubkey: validator3,
				Votes:      []banks.Lockout{{Slot: 20, ConfirmationCount: 1}},
			},
		},
	}
}

func scenarioBank(slot banks.Slot, parent *banks.Slot, txCount uint64) *banks.Bank {
	return &banks.Bank{
		Slot:             slot,
		ParentSlot:       parent,
		Leader:           testLeader,
		TransactionCount: txCount,
		VoteAccounts:     scenarioVoteAccounts(),
	}
}

func scenarioBanks() []*banks.Bank {
	return []*banks.Bank{
		scenarioBank(0, nil, 0),
		scenarioBank(5, slotRef(0), 50),
		scenarioBank(8, slotRef(5), 80),
		scenarioBank(10, slotRef(5), 100),
		scenarioBank(12, slotRef(10), 120),
	}
}

func scenarioForks(t *testing.T) *banks.Forks {
	forks := banks.NewForks()
	for _, bank := range scenarioBanks() {
		require.NoError(t, forks.Add(bank))
	}
	return forks
}
