package graph

import (
	"testing"

	"github.com/legioNpk/forkgraph/testing/assert"
	"github.com/legioNpk/forkgraph/testing/require"
)

func TestParseVoteAccountMode_RoundTrip(t *testing.T) {
	for _, s := range VoteAccountModeStrings {
		mode, err := ParseVoteAccountMode(s)
		require.NoError(t, err)
		assert.Equal(t, s, mode.String())
	}
}

func TestParseVoteAccountMode_Unknown(t *testing.T) {
	_, err := ParseVoteAccountMode("sometimes")
	require.ErrorContains(t, `unknown vote account mode "sometimes"`, err)
}

func TestVoteAccountMode_Enabled(t *testing.T) {
	assert.Equal(t, false, VoteAccountsDisabled.Enabled())
	assert.Equal(t, true, VoteAccountsLastOnly.Enabled())
	assert.Equal(t, true, VoteAccountsWithHistory.Enabled())
}

func TestVoteAccountMode_UnknownString(t *testing.T) {
	assert.Equal(t, "unknown mode", VoteAccountMode(42).String())
}
