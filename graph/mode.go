package graph

import "github.com/pkg/errors"

// VoteAccountMode selects whether, and how, per-validator annotation
// nodes are added to the rendered graph.
type VoteAccountMode uint8

const (
	// VoteAccountsDisabled renders no per-validator annotations.
	VoteAccountsDisabled VoteAccountMode = iota
	// VoteAccountsLastOnly annotates each validator with its latest vote slot.
	VoteAccountsLastOnly
	// VoteAccountsWithHistory annotates each validator with its full vote history.
	VoteAccountsWithHistory
)

const (
	voteAccountModeDisabled    = "disabled"
	voteAccountModeLastOnly    = "last-only"
	voteAccountModeWithHistory = "with-history"
)

// VoteAccountModeStrings lists every accepted --vote-account-mode value.
var VoteAccountModeStrings = []string{
	voteAccountModeDisabled,
	voteAccountModeLastOnly,
	voteAccountModeWithHistory,
}

// ParseVoteAccountMode converts a mode string into its enum value.
func ParseVoteAccountMode(s string) (VoteAccountMode, error) {
	switch s {
	case voteAccountModeDisabled:
		return VoteAccountsDisabled, nil
	case voteAccountModeLastOnly:
		return VoteAccountsLastOnly, nil
	case voteAccountModeWithHistory:
		return VoteAccountsWithHistory, nil
	default:
		return VoteAccountsDisabled, errors.Errorf("unknown vote account mode %q", s)
	}
}

func (m VoteAccountMode) String() string {
	switch m {
	case VoteAccountsDisabled:
		return voteAccountModeDisabled
	case VoteAccountsLastOnly:
		return voteAccountModeLastOnly
	case VoteAccountsWithHistory:
		return voteAccountModeWithHistory
	default:
		return "unknown mode"
	}
}

// Enabled reports whether any per-validator annotations are rendered.
func (m VoteAccountMode) Enabled() bool {
	return m != VoteAccountsDisabled
}

// Config is the rendering configuration supplied by the CLI layer.
type Config struct {
	// IncludeAllVotes renders every historical vote, not just the last.
	IncludeAllVotes bool
	// VoteAccountMode controls per-validator annotation nodes.
	VoteAccountMode VoteAccountMode
}
