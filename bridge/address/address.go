// Package address derives the bridge's deterministic account addresses: the
// quorum config and replay counter records, the custody authority and the
// vault token accounts it owns.
package address

import (
	"github.com/gagliardetto/solana-go"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ssvlabs/ssv-bridge/bridge"
)

var (
	// QuorumConfigSeed and ReplayCounterSeed are the single byte seeds of the
	// two persisted records.
	QuorumConfigSeed  = []byte{0}
	ReplayCounterSeed = []byte{1}
)

// Derived is a program address together with its bump seed.
type Derived struct {
	Key  solana.PublicKey
	Bump uint8
}

type derivationKey struct {
	programID solana.PublicKey
	seed      byte
}

// derivedCache memoises FindProgramAddress results per program and seed.
var derivedCache *lru.Cache[derivationKey, Derived]

func init() {
	var err error
	derivedCache, err = lru.New[derivationKey, Derived](1024)
	if err != nil {
		panic(err)
	}
}

func findCached(seed []byte, programID solana.PublicKey) (Derived, error) {
	k := derivationKey{programID: programID, seed: seed[0]}
	if d, ok := derivedCache.Get(k); ok {
		return d, nil
	}

	key, bump, err := solana.FindProgramAddress([][]byte{seed}, programID)
	if err != nil {
		return Derived{}, bridge.ErrInvalidPDAAccount.Wrap(err)
	}
	d := Derived{Key: key, Bump: bump}
	derivedCache.Add(k, d)
	return d, nil
}

// QuorumConfig returns the address of the program's quorum config record.
func QuorumConfig(programID solana.PublicKey) (Derived, error) {
	return findCached(QuorumConfigSeed, programID)
}

// ReplayCounter returns the address of the program's replay counter record.
func ReplayCounter(programID solana.PublicKey) (Derived, error) {
	return findCached(ReplayCounterSeed, programID)
}

// CustodySeeds are the signer seeds of the custody authority.
func CustodySeeds(quorumConfig solana.PublicKey, bump uint8) [][]byte {
	return [][]byte{quorumConfig.Bytes(), {bump}}
}

// FindCustodyBump returns the canonical bump for the custody authority of
// quorumConfig. Bootstrap persists it so later derivations never search.
func FindCustodyBump(quorumConfig, programID solana.PublicKey) (uint8, error) {
	_, bump, err := solana.FindProgramAddress([][]byte{quorumConfig.Bytes()}, programID)
	if err != nil {
		return 0, bridge.ErrInvalidPDAAccount.Wrap(err)
	}
	return bump, nil
}

// CustodyAuthority is the program derived account that owns every vault.
func CustodyAuthority(quorumConfig solana.PublicKey, bump uint8, programID solana.PublicKey) (solana.PublicKey, error) {
	key, err := solana.CreateProgramAddress(CustodySeeds(quorumConfig, bump), programID)
	if err != nil {
		return solana.PublicKey{}, bridge.ErrInvalidPDAAccount.Wrapf("custody authority: %w", err)
	}
	return key, nil
}

// Vault returns the only token account accepted as custody for mint: the
// associated token account of the custody authority.
func Vault(quorumConfig solana.PublicKey, bump uint8, mint, programID solana.PublicKey) (solana.PublicKey, error) {
	authority, err := CustodyAuthority(quorumConfig, bump, programID)
	if err != nil {
		return solana.PublicKey{}, err
	}
	vault, _, err := solana.FindAssociatedTokenAddress(authority, mint)
	if err != nil {
		return solana.PublicKey{}, bridge.ErrInvalidPDAAccount.Wrapf("vault: %w", err)
	}
	return vault, nil
}
