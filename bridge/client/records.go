package client

import (
	"github.com/gagliardetto/solana-go"

	"github.com/ssvlabs/ssv-bridge/bridge"
	"github.com/ssvlabs/ssv-bridge/bridge/address"
	"github.com/ssvlabs/ssv-bridge/bridge/state"
	"github.com/ssvlabs/ssv-bridge/ledger"
)

// QuorumRecord is a decoded quorum config with its address and the custody
// authority it implies.
type QuorumRecord struct {
	Address      solana.PublicKey
	Custody      solana.PublicKey
	Config       *state.QuorumConfig
	Lamports     uint64
	ProgramOwned bool
}

// LoadQuorum reads the quorum config of programID from store.
func LoadQuorum(store *ledger.Store, programID solana.PublicKey) (*QuorumRecord, error) {
	derived, err := address.QuorumConfig(programID)
	if err != nil {
		return nil, err
	}
	acc, err := store.Load(nil, derived.Key)
	if err != nil {
		return nil, err
	}
	cfg := &state.QuorumConfig{}
	if err := cfg.UnmarshalBinary(acc.Data); err != nil {
		return nil, err
	}
	if !cfg.IsInitialized() {
		return nil, bridge.ErrBeaconsUninitialized
	}
	custody, err := address.CustodyAuthority(derived.Key, cfg.BumpSeed, programID)
	if err != nil {
		return nil, err
	}
	return &QuorumRecord{
		Address:      derived.Key,
		Custody:      custody,
		Config:       cfg,
		Lamports:     acc.Lamports,
		ProgramOwned: acc.Owner.Equals(programID),
	}, nil
}

// LoadCounter reads the replay counter of programID from store. Its value is
// the nonce the next withdrawal must be signed for.
func LoadCounter(store *ledger.Store, programID solana.PublicKey) (*state.ReplayCounter, solana.PublicKey, error) {
	derived, err := address.ReplayCounter(programID)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	acc, err := store.Load(nil, derived.Key)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	counter := &state.ReplayCounter{}
	if err := counter.UnmarshalBinary(acc.Data); err != nil {
		return nil, solana.PublicKey{}, err
	}
	if !counter.IsInitialized() {
		return nil, solana.PublicKey{}, bridge.ErrCounterUninitialized
	}
	return counter, derived.Key, nil
}
