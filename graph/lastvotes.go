package graph

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"

	"github.com/legioNpk/forkgraph/banks"
)

// LastVote is a validator's highest-slot recorded vote across every
// known fork, together with the stake backing it and the total network
// stake observed in the same snapshot.
type LastVote struct {
	Slot       banks.Slot
	State      *banks.VoteState
	Stake      uint64
	TotalStake uint64
}

// aggregateLastVotes scans every bank, not just the tips, so that a
// vote on a pruned branch still counts as a validator's latest. Per
// validator the candidate with the strictly greatest slot wins; the
// first-seen candidate keeps a tie. Every candidate for one validator
// must carry the same total stake snapshot.
func aggregateLastVotes(ctx context.Context, forks *banks.Forks, defaultVoteState *banks.VoteState) (map[solana.PublicKey]*LastVote, error) {
	_, span := trace.StartSpan(ctx, "forkgraph.aggregateLastVotes")
	defer span.End()

	lastVotes := make(map[solana.PublicKey]*LastVote)
	for _, bank := range forks.All() {
		totalStake := bank.TotalStake()
		for _, addr := range bank.VoteAccountAddresses() {
			account := bank.VoteAccounts[addr]
			voteState := voteStateOf(account, defaultVoteState)
			last, ok := voteState.LastLockout()
			if !ok {
				continue
			}
			entry, ok := lastVotes[voteState.NodePubkey]
			if !ok {
				lastVotes[voteState.NodePubkey] = &LastVote{
					Slot:       last.Slot,
					State:      voteState,
					Stake:      account.Stake,
					TotalStake: totalStake,
				}
				continue
			}
			if entry.TotalStake != totalStake {
				return nil, errors.Wrapf(errInconsistentTotalStake,
					"validator %s: %d != %d", voteState.NodePubkey, totalStake, entry.TotalStake)
			}
			if entry.Slot < last.Slot {
				*entry = LastVote{
					Slot:       last.Slot,
					State:      voteState,
					Stake:      account.Stake,
					TotalStake: totalStake,
				}
			}
		}
	}
	return lastVotes, nil
}

// voteStateOf substitutes the invocation-scoped default for accounts
// whose vote state could not be deserialized.
func voteStateOf(account banks.VoteAccount, defaultVoteState *banks.VoteState) *banks.VoteState {
	if account.State == nil {
		return defaultVoteState
	}
	return account.State
}
