package banks

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/ghodss/yaml"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type snapshotJSON struct {
	Banks []bankJSON `json:"banks"`
}

type bankJSON struct {
	Slot             uint64                     `json:"slot"`
	Epoch            uint64                     `json:"epoch"`
	ParentSlot       *uint64                    `json:"parentSlot"`
	Leader           string                     `json:"leader"`
	TransactionCount uint64                     `json:"transactionCount"`
	VoteAccounts     map[string]voteAccountJSON `json:"voteAccounts"`
}

type voteAccountJSON struct {
	Stake     uint64         `json:"stake"`
	VoteState *voteStateJSON `json:"voteState"`
}

type voteStateJSON struct {
	NodePubkey string        `json:"nodePubkey"`
	RootSlot   *uint64       `json:"rootSlot"`
	Votes      []lockoutJSON `json:"votes"`
}

type lockoutJSON struct {
	Slot              uint64 `json:"slot"`
	ConfirmationCount uint32 `json:"confirmationCount"`
}

// Load reads a fork snapshot from a JSON file, or a YAML file when the
// path ends in .yaml or .yml.
func Load(path string) (*Forks, error) {
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.Wrapf(err, "could not read snapshot %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		raw, err = yaml.YAMLToJSON(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "could not convert snapshot %s", path)
		}
	}
	return Parse(raw)
}

// Parse decodes a JSON fork snapshot into an arena.
func Parse(raw []byte) (*Forks, error) {
	var snap snapshotJSON
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, errors.Wrap(err, "could not decode snapshot")
	}
	forks := NewForks()
	for _, bj := range snap.Banks {
		bank, err := bj.toBank()
		if err != nil {
			return nil, errors.Wrapf(err, "bank at slot %d", bj.Slot)
		}
		if err := forks.Add(bank); err != nil {
			return nil, err
		}
	}
	return forks, nil
}

func (bj *bankJSON) toBank() (*Bank, error) {
	leader, err := solana.PublicKeyFromBase58(bj.Leader)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid leader %q", bj.Leader)
	}
	bank := &Bank{
		Slot:             Slot(bj.Slot),
		Epoch:            Epoch(bj.Epoch),
		Leader:           leader,
		TransactionCount: bj.TransactionCount,
		VoteAccounts:     make(map[solana.PublicKey]VoteAccount, len(bj.VoteAccounts)),
	}
	if bj.ParentSlot != nil {
		parent := Slot(*bj.ParentSlot)
		bank.ParentSlot = &parent
	}
	for addr, vj := range bj.VoteAccounts {
		pubkey, err := solana.PublicKeyFromBase58(addr)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid vote account address %q", addr)
		}
		va := VoteAccount{Stake: vj.Stake}
		if vj.VoteState != nil {
			state, err := vj.VoteState.toVoteState()
			if err != nil {
				return nil, errors.Wrapf(err, "vote account %s", addr)
			}
			va.State = state
		}
		bank.VoteAccounts[pubkey] = va
	}
	return bank, nil
}

func (vj *voteStateJSON) toVoteState() (*VoteState, error) {
	node, err := solana.PublicKeyFromBase58(vj.NodePubkey)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid node pubkey %q", vj.NodePubkey)
	}
	state := &VoteState{NodePubkey: node}
	if vj.RootSlot != nil {
		root := Slot(*vj.RootSlot)
		state.RootSlot = &root
	}
	for _, lj := range vj.Votes {
		state.Votes = append(state.Votes, Lockout{
			Slot:              Slot(lj.Slot),
			ConfirmationCount: lj.ConfirmationCount,
		})
	}
	return state, nil
}
