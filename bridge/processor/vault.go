package processor

import (
	"github.com/gagliardetto/solana-go"

	"github.com/ssvlabs/ssv-bridge/bridge"
	"github.com/ssvlabs/ssv-bridge/bridge/address"
	"github.com/ssvlabs/ssv-bridge/bridge/state"
	"github.com/ssvlabs/ssv-bridge/ledger"
)

// loadQuorum decodes the quorum config record. Records that were never
// created or never initialized are rejected.
func loadQuorum(acc *ledger.AccountInfo) (*state.QuorumConfig, error) {
	if len(acc.Data) == 0 {
		return nil, bridge.ErrBeaconsUninitialized
	}
	cfg := &state.QuorumConfig{}
	if err := cfg.UnmarshalBinary(acc.Data); err != nil {
		return nil, err
	}
	if !cfg.IsInitialized() {
		return nil, bridge.ErrBeaconsUninitialized
	}
	return cfg, nil
}

func checkProgramOwned(acc *ledger.AccountInfo, programID solana.PublicKey) error {
	if !acc.Owner.Equals(programID) {
		return bridge.ErrIncorrectProgramID.Wrapf("%s is owned by %s, not %s", acc.Key, acc.Owner, programID)
	}
	return nil
}

// verifyVault checks that vault is the custody token account of quorum for
// the mint it holds, and returns that mint.
func verifyVault(programID solana.PublicKey, quorum *ledger.AccountInfo, cfg *state.QuorumConfig, vault *ledger.AccountInfo) (solana.PublicKey, error) {
	tok, err := ledger.DecodeTokenAccount(vault.Data)
	if err != nil {
		return solana.PublicKey{}, bridge.ErrInvalidAccountData.Wrapf("vault %s: %w", vault.Key, err)
	}
	want, err := address.Vault(quorum.Key, cfg.BumpSeed, tok.Mint, programID)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if !want.Equals(vault.Key) {
		return solana.PublicKey{}, bridge.ErrIncorrectProgramID.Wrapf("vault %s is not the custody account %s", vault.Key, want)
	}
	return tok.Mint, nil
}
