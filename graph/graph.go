// Package graph reconstructs a validator set's fork topology from a
// bank snapshot and serializes it, with stake-weighted vote summaries,
// into a dot document for an external renderer.
package graph

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"

	"github.com/legioNpk/forkgraph/banks"
)

// Build runs the full pipeline over an immutable snapshot: resolve the
// fork tips, aggregate each validator's last vote, walk every tip back
// to its root, reconcile votes against the rendered topology, and
// assemble the dot document. The computation is a single synchronous
// pass; a total stake disagreement between forks aborts it.
func Build(ctx context.Context, forks *banks.Forks, config *Config) (string, error) {
	ctx, span := trace.StartSpan(ctx, "forkgraph.Build")
	defer span.End()

	defaultVoteState := &banks.VoteState{}

	tips := Tips(ctx, forks)
	lastVotes, err := aggregateLastVotes(ctx, forks, defaultVoteState)
	if err != nil {
		return "", err
	}
	folded := walkForks(ctx, forks, tips, defaultVoteState)
	bucket, err := reconcile(folded, lastVotes)
	if err != nil {
		return "", err
	}

	log.WithFields(logrus.Fields{
		"banks":       forks.Len(),
		"tips":        len(tips),
		"nodes":       len(folded.nodes),
		"edges":       len(folded.edges),
		"absentVotes": bucket.Votes,
	}).Debug("Assembling fork graph")

	return assemble(folded, lastVotes, bucket, config), nil
}
