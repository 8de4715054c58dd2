package graph

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/legioNpk/forkgraph/banks"
	"github.com/legioNpk/forkgraph/testing/assert"
	"github.com/legioNpk/forkgraph/testing/require"
)

func TestAggregateLastVotes_Scenario(t *testing.T) {
	lastVotes, err := aggregateLastVotes(context.Background(), scenarioForks(t), &banks.VoteState{})
	require.NoError(t, err)
	require.Equal(t, 3, len(lastVotes))

	assert.Equal(t, banks.Slot(10), lastVotes[validator1].Slot)
	assert.Equal(t, uint64(100*lamportsPerSol), lastVotes[validator1].Stake)
	assert.Equal(t, uint64(300*lamportsPerSol), lastVotes[validator1].TotalStake)

	assert.Equal(t, banks.Slot(8), lastVotes[validator2].Slot)
	assert.Equal(t, banks.Slot(20), lastVotes[validator3].Slot)
}

func TestAggregateLastVotes_HighestSlotWins(t *testing.T) {
	forks := banks.NewForks()
	// The freshest vote lives on a pruned branch, not on the tip chain.
	require.NoError(t, forks.Add(&banks.Bank{
		Slot: 0,
		VoteAccounts: map[solana.PublicKey]banks.VoteAccount{
			voteAcct1: {Stake: 10, State: &banks.VoteState{
				NodePubkey: validator1,
				Votes:      []banks.Lockout{{Slot: 9, ConfirmationCount: 1}},
			}},
		},
	}))
	require.NoError(t, forks.Add(&banks.Bank{
		Slot:       4,
		ParentSlot: slotRef(0),
		VoteAccounts: map[solana.PublicKey]banks.VoteAccount{
			voteAcct1: {Stake: 10, State: &banks.VoteState{
				NodePubkey: validator1,
				Votes:      []banks.Lockout{{Slot: 2, ConfirmationCount: 1}},
			}},
		},
	}))

	lastVotes, err := aggregateLastVotes(context.Background(), forks, &banks.VoteState{})
	require.NoError(t, err)
	require.Equal(t, 1, len(lastVotes))
	assert.Equal(t, banks.Slot(9), lastVotes[validator1].Slot)
}

func TestAggregateLastVotes_TieKeepsFirstSeen(t *testing.T) {
	first := &banks.VoteState{
		NodePubkey: validator1,
		Votes:      []banks.Lockout{{Slot: 7, ConfirmationCount: 3}},
	}
	second := &banks.VoteState{
		NodePubkey: validator1,
		Votes:      []banks.Lockout{{Slot: 7, ConfirmationCount: 1}},
	}
	forks := banks.NewForks()
	require.NoError(t, forks.Add(&banks.Bank{
		Slot:         0,
		VoteAccounts: map[solana.PublicKey]banks.VoteAccount{voteAcct1: {Stake: 10, State: first}},
	}))
	require.NoError(t, forks.Add(&banks.Bank{
		Slot:         1,
		ParentSlot:   slotRef(0),
		VoteAccounts: map[solana.PublicKey]banks.VoteAccount{voteAcct1: {Stake: 10, State: second}},
	}))

	lastVotes, err := aggregateLastVotes(context.Background(), forks, &banks.VoteState{})
	require.NoError(t, err)
	assert.Equal(t, first, lastVotes[validator1].State)
}

func TestAggregateLastVotes_SkipsEmptyHistories(t *testing.T) {
	forks := banks.NewForks()
	require.NoError(t, forks.Add(&banks.Bank{
		Slot: 0,
		VoteAccounts: map[solana.PublicKey]banks.VoteAccount{
			// Deserialization failure, no state at all.
			voteAcct1: {Stake: 10},
			// State with no recorded votes.
			voteAcct2: {Stake: 20, State: &banks.VoteState{NodePubkey: validator2}},
			voteAcct3: {Stake: 30, State: &banks.VoteState{
				NodePubkey: validator3,
				Votes:      []banks.Lockout{{Slot: 0, ConfirmationCount: 1}},
			}},
		},
	}))

	lastVotes, err := aggregateLastVotes(context.Background(), forks, &banks.VoteState{})
	require.NoError(t, err)
	require.Equal(t, 1, len(lastVotes))
	_, ok := lastVotes[validator3]
	assert.Equal(t, true, ok)
	// Total stake still counts the voteless accounts.
	assert.Equal(t, uint64(60), lastVotes[validator3].TotalStake)
}

func TestAggregateLastVotes_InconsistentTotalStake(t *testing.T) {
	state := func() *banks.VoteState {
		return &banks.VoteState{
			NodePubkey: validator1,
			Votes:      []banks.Lockout{{Slot: 3, ConfirmationCount: 1}},
		}
	}
	forks := banks.NewForks()
	require.NoError(t, forks.Add(&banks.Bank{
		Slot:         0,
		VoteAccounts: map[solana.PublicKey]banks.VoteAccount{voteAcct1: {Stake: 10, State: state()}},
	}))
	require.NoError(t, forks.Add(&banks.Bank{
		Slot:       6,
		ParentSlot: slotRef(0),
		VoteAccounts: map[solana.PublicKey]banks.VoteAccount{
			voteAcct1: {Stake: 10, State: state()},
			voteAcct2: {Stake: 99, State: &banks.VoteState{NodePubkey: validator2}},
		},
	}))

	_, err := aggregateLastVotes(context.Background(), forks, &banks.VoteState{})
	require.ErrorContains(t, "total stake mismatch between forks", err)
	require.ErrorContains(t, validator1.String(), err)
}
