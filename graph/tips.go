package graph

import (
	"context"

	"go.opencensus.io/trace"

	"github.com/legioNpk/forkgraph/banks"
)

// Tips returns the subset of banks that are not a strict ancestor of
// any other known bank, ordered by ascending slot. An empty snapshot
// yields an empty tip set.
func Tips(ctx context.Context, forks *banks.Forks) []*banks.Bank {
	_, span := trace.StartSpan(ctx, "forkgraph.Tips")
	defer span.End()

	all := forks.All()
	ancestors := make(map[banks.Slot]bool, len(all))
	for _, bank := range all {
		b := bank
		for {
			parent, ok := forks.Parent(b)
			if !ok {
				break
			}
			if ancestors[parent.Slot] {
				// Everything below was already marked by an earlier walk.
				break
			}
			ancestors[parent.Slot] = true
			b = parent
		}
	}

	tips := make([]*banks.Bank, 0, len(all))
	for _, bank := range all {
		if !ancestors[bank.Slot] {
			tips = append(tips, bank)
		}
	}
	return tips
}
