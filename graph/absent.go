package graph

import (
	"math"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/legioNpk/forkgraph/banks"
)

// AbsentBucket summarizes the validators whose last vote points outside
// the rendered topology. TotalStake is the snapshot taken from the
// lowest-slot absent vote; percentages use the snapshot nearest the
// point of divergence, not a global figure.
type AbsentBucket struct {
	Votes      int
	Stake      uint64
	TotalStake uint64
}

// reconcile checks every last vote against the rendered node set. A
// visited vote attributes its stake to the node's summary; an absent
// one lands in the bucket. Every vote landing on one node must carry
// the same total stake snapshot. Each validator's latest vote slot is
// also removed from the all-votes index so the dotted all-votes
// annotations only carry historical votes.
func reconcile(g *FoldedGraph, lastVotes map[solana.PublicKey]*LastVote) (AbsentBucket, error) {
	bucket := AbsentBucket{}
	lowestAbsentSlot := banks.Slot(math.MaxUint64)
	for _, validator := range sortedValidators(lastVotes) {
		lastVote := lastVotes[validator]
		if validatorVotes, ok := g.allVotes[validator]; ok {
			delete(validatorVotes, lastVote.Slot)
		}
		if node, ok := g.nodes[lastVote.Slot]; ok {
			if node.Votes > 0 && node.TotalStake != lastVote.TotalStake {
				return AbsentBucket{}, errors.Wrapf(errInconsistentTotalStake,
					"slot %d: %d != %d", lastVote.Slot, lastVote.TotalStake, node.TotalStake)
			}
			node.Votes++
			node.Stake += lastVote.Stake
			node.TotalStake = lastVote.TotalStake
			continue
		}
		if lastVote.Slot < lowestAbsentSlot {
			lowestAbsentSlot = lastVote.Slot
			bucket.TotalStake = lastVote.TotalStake
		}
		bucket.Votes++
		bucket.Stake += lastVote.Stake
	}
	return bucket, nil
}

// sortedValidators orders validator identities by their rendered base58
// form, the same order the assembler emits annotations in.
func sortedValidators(lastVotes map[solana.PublicKey]*LastVote) []solana.PublicKey {
	validators := make([]solana.PublicKey, 0, len(lastVotes))
	for v := range lastVotes {
		validators = append(validators, v)
	}
	sort.Slice(validators, func(i, j int) bool {
		return validators[i].String() < validators[j].String()
	})
	return validators
}
