package ledger

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ssvlabs/ssv-bridge/logging/fields"
	"github.com/ssvlabs/ssv-bridge/storage/basedb"
)

// Genesis seeds the ledger with plain accounts and token accounts.
type Genesis struct {
	Accounts []GenesisAccount `yaml:"accounts"`
	Tokens   []GenesisToken   `yaml:"tokens"`
}

// GenesisAccount is a raw account. Owner defaults to the system program and
// Data is hex encoded.
type GenesisAccount struct {
	PubKey     string `yaml:"pubkey"`
	Owner      string `yaml:"owner,omitempty"`
	Lamports   uint64 `yaml:"lamports"`
	Data       string `yaml:"data,omitempty"`
	Executable bool   `yaml:"executable,omitempty"`
}

// GenesisToken is an initialized token account. When PubKey is empty the
// associated token address of (Owner, Mint) is used. Token accounts are funded
// with the rent-exempt minimum; native ones additionally hold Amount lamports.
type GenesisToken struct {
	PubKey string `yaml:"pubkey,omitempty"`
	Mint   string `yaml:"mint"`
	Owner  string `yaml:"owner"`
	Amount uint64 `yaml:"amount"`
}

// LoadGenesis reads a genesis file.
func LoadGenesis(path string) (*Genesis, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read genesis file")
	}
	var g Genesis
	if err := yaml.Unmarshal(raw, &g); err != nil {
		return nil, errors.Wrap(err, "could not parse genesis file")
	}
	return &g, nil
}

// Resolve turns the genesis entries into accounts.
func (g *Genesis) Resolve(rent Rent) ([]*AccountInfo, error) {
	out := make([]*AccountInfo, 0, len(g.Accounts)+len(g.Tokens))
	for i, entry := range g.Accounts {
		acc, err := entry.resolve()
		if err != nil {
			return nil, fmt.Errorf("genesis account %d: %w", i, err)
		}
		out = append(out, acc)
	}
	for i, entry := range g.Tokens {
		acc, err := entry.resolve(rent)
		if err != nil {
			return nil, fmt.Errorf("genesis token %d: %w", i, err)
		}
		out = append(out, acc)
	}
	return out, nil
}

func (e GenesisAccount) resolve() (*AccountInfo, error) {
	key, err := solana.PublicKeyFromBase58(e.PubKey)
	if err != nil {
		return nil, errors.Wrap(err, "invalid pubkey")
	}
	owner := solana.SystemProgramID
	if e.Owner != "" {
		if owner, err = solana.PublicKeyFromBase58(e.Owner); err != nil {
			return nil, errors.Wrap(err, "invalid owner")
		}
	}
	data, err := hex.DecodeString(e.Data)
	if err != nil {
		return nil, errors.Wrap(err, "invalid data")
	}
	return &AccountInfo{
		Key:        key,
		Owner:      owner,
		Lamports:   e.Lamports,
		Data:       data,
		Executable: e.Executable,
	}, nil
}

func (e GenesisToken) resolve(rent Rent) (*AccountInfo, error) {
	mint, err := solana.PublicKeyFromBase58(e.Mint)
	if err != nil {
		return nil, errors.Wrap(err, "invalid mint")
	}
	owner, err := solana.PublicKeyFromBase58(e.Owner)
	if err != nil {
		return nil, errors.Wrap(err, "invalid owner")
	}

	var key solana.PublicKey
	if e.PubKey != "" {
		if key, err = solana.PublicKeyFromBase58(e.PubKey); err != nil {
			return nil, errors.Wrap(err, "invalid pubkey")
		}
	} else if key, _, err = solana.FindAssociatedTokenAddress(owner, mint); err != nil {
		return nil, errors.Wrap(err, "could not derive associated token address")
	}

	reserve := rent.MinimumBalance(TokenAccountLength)
	lamports := reserve
	if mint.Equals(solana.SolMint) {
		lamports += e.Amount
	}
	data, err := EncodeTokenAccount(NewTokenAccount(mint, owner, e.Amount, reserve))
	if err != nil {
		return nil, err
	}
	return &AccountInfo{
		Key:      key,
		Owner:    solana.TokenProgramID,
		Lamports: lamports,
		Data:     data,
	}, nil
}

// ApplyGenesis writes the genesis accounts in one transaction, overwriting
// existing accounts with the same keys.
func ApplyGenesis(logger *zap.Logger, store *Store, g *Genesis, rent Rent) error {
	accounts, err := g.Resolve(rent)
	if err != nil {
		return err
	}
	err = store.DB().Update(func(txn basedb.Txn) error {
		for _, acc := range accounts {
			if err := store.Save(txn, acc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "could not apply genesis")
	}
	logger.Info("applied genesis", fields.Count(len(accounts)))
	return nil
}
