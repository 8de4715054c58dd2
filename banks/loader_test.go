package banks

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/legioNpk/forkgraph/testing/assert"
	"github.com/legioNpk/forkgraph/testing/require"
)

var (
	testLeader    = solana.PublicKey{0xaa}
	testVoteAcct  = solana.PublicKey{0x10}
	testValidator = solana.PublicKey{0x01}
)

func testSnapshotJSON() string {
	return fmt.Sprintf(`{
  "banks": [
    {
      "slot": 0,
      "epoch": 0,
      "leader": "%[1]s",
      "transactionCount": 0,
      "voteAccounts": {}
    },
    {
      "slot": 5,
      "epoch": 0,
      "parentSlot": 0,
      "leader": "%[1]s",
      "transactionCount": 50,
      "voteAccounts": {
        "%[2]s": {
          "stake": 100,
          "voteState": {
            "nodePubkey": "%[3]s",
            "rootSlot": 2,
            "votes": [
              {"slot": 3, "confirmationCount": 2},
              {"slot": 5, "confirmationCount": 1}
            ]
          }
        }
      }
    }
  ]
}`, testLeader, testVoteAcct, testValidator)
}

func TestParse_Snapshot(t *testing.T) {
	forks, err := Parse([]byte(testSnapshotJSON()))
	require.NoError(t, err)
	require.Equal(t, 2, forks.Len())

	genesis, ok := forks.Get(0)
	require.Equal(t, true, ok)
	assert.Equal(t, true, genesis.ParentSlot == nil)
	assert.Equal(t, testLeader, genesis.Leader)

	bank, ok := forks.Get(5)
	require.Equal(t, true, ok)
	require.Equal(t, true, bank.ParentSlot != nil)
	assert.Equal(t, Slot(0), *bank.ParentSlot)
	assert.Equal(t, uint64(50), bank.TransactionCount)

	account, ok := bank.VoteAccounts[testVoteAcct]
	require.Equal(t, true, ok)
	assert.Equal(t, uint64(100), account.Stake)
	require.NotNil(t, account.State)
	assert.Equal(t, testValidator, account.State.NodePubkey)
	require.Equal(t, true, account.State.RootSlot != nil)
	assert.Equal(t, Slot(2), *account.State.RootSlot)
	require.Equal(t, 2, len(account.State.Votes))
	assert.DeepEqual(t, Lockout{Slot: 3, ConfirmationCount: 2}, account.State.Votes[0])
	assert.DeepEqual(t, Lockout{Slot: 5, ConfirmationCount: 1}, account.State.Votes[1])
}

func TestParse_MalformedDocument(t *testing.T) {
	_, err := Parse([]byte(`{"banks": [`))
	require.ErrorContains(t, "could not decode snapshot", err)
}

func TestParse_InvalidLeader(t *testing.T) {
	doc := `{"banks": [{"slot": 0, "epoch": 0, "leader": "not-a-pubkey", "voteAccounts": {}}]}`
	_, err := Parse([]byte(doc))
	require.ErrorContains(t, "invalid leader", err)
}

func TestParse_InvalidVoteAccountAddress(t *testing.T) {
	doc := fmt.Sprintf(
		`{"banks": [{"slot": 0, "epoch": 0, "leader": "%s", "voteAccounts": {"bogus": {"stake": 1}}}]}`,
		testLeader,
	)
	_, err := Parse([]byte(doc))
	require.ErrorContains(t, "invalid vote account address", err)
}

func TestParse_DuplicateSlot(t *testing.T) {
	doc := fmt.Sprintf(
		`{"banks": [{"slot": 4, "epoch": 0, "parentSlot": 0, "leader": "%[1]s", "voteAccounts": {}}, {"slot": 4, "epoch": 0, "parentSlot": 0, "leader": "%[1]s", "voteAccounts": {}}]}`,
		testLeader,
	)
	_, err := Parse([]byte(doc))
	require.ErrorContains(t, "duplicate bank slot", err)
}

func TestLoad_YAML(t *testing.T) {
	doc := fmt.Sprintf(`banks:
  - slot: 0
    epoch: 0
    leader: %[1]s
    transactionCount: 0
  - slot: 3
    epoch: 0
    parentSlot: 0
    leader: %[1]s
    transactionCount: 30
    voteAccounts:
      %[2]s:
        stake: 42
        voteState:
          nodePubkey: %[3]s
          votes:
            - slot: 3
              confirmationCount: 1
`, testLeader, testVoteAcct, testValidator)

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	forks, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, forks.Len())

	bank, ok := forks.Get(3)
	require.Equal(t, true, ok)
	account, ok := bank.VoteAccounts[testVoteAcct]
	require.Equal(t, true, ok)
	assert.Equal(t, uint64(42), account.Stake)
	require.NotNil(t, account.State)
	assert.Equal(t, testValidator, account.State.NodePubkey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.ErrorContains(t, "could not read snapshot", err)
}
