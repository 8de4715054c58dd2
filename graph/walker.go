package graph

import (
	"context"
	"sort"

	"github.com/gagliardetto/solana-go"
	"go.opencensus.io/trace"

	"github.com/legioNpk/forkgraph/banks"
)

// Node is one rendered slot of the folded fork topology.
type Node struct {
	Slot   banks.Slot
	Epoch  banks.Epoch
	Leader solana.PublicKey
	// TxDelta is the transaction count relative to the parent bank,
	// present only when the parent is materialized.
	TxDelta    uint64
	HasTxDelta bool
	// Filled marks a tip, the first node of its walk.
	Filled bool
	// Vote summary, populated by the reconcile pass.
	Votes      int
	Stake      uint64
	TotalStake uint64
}

// Edge links a child slot back to its parent slot.
type Edge struct {
	Child    banks.Slot
	Parent   banks.Slot
	Distance uint64
	// EpochCrossing is set when the child belongs to a strictly later
	// epoch than the parent.
	EpochCrossing bool
}

type edgeKey struct {
	child  banks.Slot
	parent banks.Slot
}

// FoldedGraph is the deduplicated node/edge set produced by walking
// every tip back to its root, plus the all-votes index feeding the
// include-all-votes rendering mode.
type FoldedGraph struct {
	nodes map[banks.Slot]*Node
	edges map[edgeKey]*Edge
	// dangling lists slots whose history extends past the snapshot;
	// each is linked to the "..." placeholder.
	dangling []banks.Slot
	allVotes map[solana.PublicKey]map[banks.Slot]*banks.VoteState
}

// Node returns the rendered node at the given slot.
func (g *FoldedGraph) Node(slot banks.Slot) (*Node, bool) {
	n, ok := g.nodes[slot]
	return n, ok
}

// Nodes returns every rendered node ordered by ascending slot.
func (g *FoldedGraph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Slot < out[j].Slot
	})
	return out
}

// Edges returns every edge ordered by (child, parent) slot.
func (g *FoldedGraph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Child != out[j].Child {
			return out[i].Child < out[j].Child
		}
		return out[i].Parent < out[j].Parent
	})
	return out
}

// walkForks walks each tip backward to its root. Nodes are folded by
// slot across overlapping tip chains, and a walk stops once it links
// into a slot an earlier walk already visited. While walking, every
// vote slot in every visible vote history is recorded into the
// all-votes index, first snapshot seen per (validator, slot) pair.
func walkForks(ctx context.Context, forks *banks.Forks, tips []*banks.Bank, defaultVoteState *banks.VoteState) *FoldedGraph {
	_, span := trace.StartSpan(ctx, "forkgraph.walkForks")
	defer span.End()

	g := &FoldedGraph{
		nodes:    make(map[banks.Slot]*Node),
		edges:    make(map[edgeKey]*Edge),
		allVotes: make(map[solana.PublicKey]map[banks.Slot]*banks.VoteState),
	}
	for _, tip := range tips {
		bank := tip
		first := true
		for {
			if _, visited := g.nodes[bank.Slot]; visited {
				// An earlier walk folded this slot and everything below it.
				break
			}
			g.collectVotes(bank, defaultVoteState)

			parent, ok := forks.Parent(bank)
			node := &Node{
				Slot:   bank.Slot,
				Epoch:  bank.Epoch,
				Leader: bank.Leader,
				Filled: first,
			}
			if ok {
				node.TxDelta = bank.TransactionCount - parent.TransactionCount
				node.HasTxDelta = true
			}
			g.nodes[bank.Slot] = node
			first = false

			if !ok {
				if bank.Slot > 0 {
					g.dangling = append(g.dangling, bank.Slot)
				}
				break
			}
			key := edgeKey{child: bank.Slot, parent: parent.Slot}
			if _, dup := g.edges[key]; !dup {
				g.edges[key] = &Edge{
					Child:         bank.Slot,
					Parent:        parent.Slot,
					Distance:      uint64(bank.Slot - parent.Slot),
					EpochCrossing: bank.Epoch > parent.Epoch,
				}
			}
			bank = parent
		}
	}
	sort.Slice(g.dangling, func(i, j int) bool {
		return g.dangling[i] < g.dangling[j]
	})
	return g
}

func (g *FoldedGraph) collectVotes(bank *banks.Bank, defaultVoteState *banks.VoteState) {
	for _, addr := range bank.VoteAccountAddresses() {
		voteState := voteStateOf(bank.VoteAccounts[addr], defaultVoteState)
		if len(voteState.Votes) == 0 {
			continue
		}
		validatorVotes, ok := g.allVotes[voteState.NodePubkey]
		if !ok {
			validatorVotes = make(map[banks.Slot]*banks.VoteState)
			g.allVotes[voteState.NodePubkey] = validatorVotes
		}
		for _, lockout := range voteState.Votes {
			if _, seen := validatorVotes[lockout.Slot]; !seen {
				validatorVotes[lockout.Slot] = voteState
			}
		}
	}
}
