package graph

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/legioNpk/forkgraph/banks"
)

const lamportsPerSol = 1_000_000_000

func lamportsToSol(lamports uint64) float64 {
	return float64(lamports) / lamportsPerSol
}

// assemble serializes the folded graph into a dot document. Statement
// order is fixed (nodes by slot, edges by child then parent, validator
// annotations by identity) so identical snapshots always produce byte
// identical output regardless of input iteration order.
func assemble(g *FoldedGraph, lastVotes map[solana.PublicKey]*LastVote, bucket AbsentBucket, config *Config) string {
	dot := []string{"digraph {"}

	dot = append(dot, "  subgraph cluster_banks {")
	dot = append(dot, "    style=invis")
	for _, node := range g.Nodes() {
		dot = append(dot, nodeStatement(node))
	}
	for _, edge := range g.Edges() {
		dot = append(dot, edgeStatement(edge))
	}
	for _, slot := range g.dangling {
		dot = append(dot, fmt.Sprintf(`    "%d" -> "..." [dir=back]`, slot))
	}
	dot = append(dot, "  }")

	if config.VoteAccountMode.Enabled() {
		for _, validator := range sortedValidators(lastVotes) {
			dot = append(dot, lastVoteStatements(g, validator, lastVotes[validator], config.VoteAccountMode)...)
		}
	}

	if bucket.Votes > 0 {
		dot = append(dot, fmt.Sprintf(`    "..."[label="...\nvotes: %d, stake: %.1f SOL %.1f%%"];`,
			bucket.Votes,
			lamportsToSol(bucket.Stake),
			float64(bucket.Stake)/float64(bucket.TotalStake)*100,
		))
	}

	if config.IncludeAllVotes {
		dot = append(dot, allVoteStatements(g)...)
	}

	dot = append(dot, "}")
	return strings.Join(dot, "\n")
}

func nodeStatement(node *Node) string {
	var txField string
	if node.HasTxDelta {
		txField = fmt.Sprintf(`\ntransactions: %d`, node.TxDelta)
	}
	var voteField string
	if node.Votes > 0 {
		voteField = fmt.Sprintf(`\nvotes: %d, stake: %.1f SOL (%.1f%%)`,
			node.Votes,
			lamportsToSol(node.Stake),
			float64(node.Stake)/float64(node.TotalStake)*100,
		)
	}
	var style string
	if node.Filled {
		style = "filled,"
	}
	return fmt.Sprintf(`    "%d"[label="%d (epoch %d)\nleader: %s%s%s",style="%s"];`,
		node.Slot, node.Slot, node.Epoch, node.Leader, txField, voteField, style)
}

func edgeStatement(edge *Edge) string {
	penwidth := 1
	if edge.EpochCrossing {
		penwidth = 5
	}
	linkLabel := "color=blue"
	if edge.Distance > 1 {
		linkLabel = fmt.Sprintf(`label="%d slots",color=red`, edge.Distance-1)
	}
	return fmt.Sprintf(`    "%d" -> "%d"[%s,dir=back,penwidth=%d];`,
		edge.Child, edge.Parent, linkLabel, penwidth)
}

func lastVoteStatements(g *FoldedGraph, validator solana.PublicKey, lastVote *LastVote, mode VoteAccountMode) []string {
	var voteHistory string
	if mode == VoteAccountsWithHistory {
		voteHistory = "vote history:\n" + strings.Join(lockoutLines(lastVote.State.Votes), "\n")
	} else {
		lastSlot := "none"
		if lockout, ok := lastVote.State.LastLockout(); ok {
			lastSlot = strconv.FormatUint(uint64(lockout.Slot), 10)
		}
		voteHistory = "last vote slot: " + lastSlot
	}

	target := "..."
	if _, ok := g.nodes[lastVote.Slot]; ok {
		target = strconv.FormatUint(uint64(lastVote.Slot), 10)
	}

	return []string{
		fmt.Sprintf(`  "last vote %s"[shape=box,label="Latest validator vote: %s\nstake: %s SOL\nroot slot: %d\n%s"];`,
			validator,
			validator,
			strconv.FormatFloat(lamportsToSol(lastVote.Stake), 'f', -1, 64),
			rootSlotOrZero(lastVote.State),
			voteHistory,
		),
		fmt.Sprintf(`  "last vote %s" -> "%s" [style=dashed,label="latest vote"];`, validator, target),
	}
}

func allVoteStatements(g *FoldedGraph) []string {
	validators := make([]solana.PublicKey, 0, len(g.allVotes))
	for v := range g.allVotes {
		validators = append(validators, v)
	}
	sort.Slice(validators, func(i, j int) bool {
		return validators[i].String() < validators[j].String()
	})

	var dot []string
	for _, validator := range validators {
		validatorVotes := g.allVotes[validator]
		voteSlots := make([]banks.Slot, 0, len(validatorVotes))
		for slot := range validatorVotes {
			voteSlots = append(voteSlots, slot)
		}
		sort.Slice(voteSlots, func(i, j int) bool { return voteSlots[i] < voteSlots[j] })

		for _, voteSlot := range voteSlots {
			voteState := validatorVotes[voteSlot]
			target := "..."
			if _, ok := g.nodes[voteSlot]; ok {
				target = strconv.FormatUint(uint64(voteSlot), 10)
			}
			dot = append(dot,
				fmt.Sprintf(`  "%s vote %d"[shape=box,style=dotted,label="validator vote: %s\nroot slot: %d\nvote history:\n%s"];`,
					validator,
					voteSlot,
					validator,
					rootSlotOrZero(voteState),
					strings.Join(lockoutLines(voteState.Votes), "\n"),
				),
				fmt.Sprintf(`  "%s vote %d" -> "%s" [style=dotted,label="vote"];`, validator, voteSlot, target),
			)
		}
	}
	return dot
}

func lockoutLines(lockouts []banks.Lockout) []string {
	lines := make([]string, 0, len(lockouts))
	for _, lockout := range lockouts {
		lines = append(lines, fmt.Sprintf("slot %d (conf=%d)", lockout.Slot, lockout.ConfirmationCount))
	}
	return lines
}

func rootSlotOrZero(state *banks.VoteState) banks.Slot {
	if state.RootSlot == nil {
		return 0
	}
	return *state.RootSlot
}
