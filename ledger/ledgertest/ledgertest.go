// Package ledgertest provides in-memory ledgers and account fixtures for tests.
package ledgertest

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/stretchr/testify/require"

	"github.com/ssvlabs/ssv-bridge/ledger"
	"github.com/ssvlabs/ssv-bridge/logging"
	"github.com/ssvlabs/ssv-bridge/storage/basedb"
	"github.com/ssvlabs/ssv-bridge/storage/kv"
)

// NewStore returns a store over an in-memory badger database that is closed
// when the test ends.
func NewStore(t testing.TB) *ledger.Store {
	t.Helper()

	logger := logging.TestLogger(t)
	db, err := kv.NewInMemory(logger, basedb.Options{Ctx: context.Background()})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return ledger.NewStore(logger, db)
}

// NewRuntime returns a runtime over a fresh in-memory store.
func NewRuntime(t testing.TB, opts ...ledger.RuntimeOption) *ledger.Runtime {
	t.Helper()
	return ledger.NewRuntime(logging.TestLogger(t), NewStore(t), opts...)
}

// Put writes accounts directly, bypassing the runtime.
func Put(t testing.TB, store *ledger.Store, accounts ...*ledger.AccountInfo) {
	t.Helper()
	err := store.DB().Update(func(txn basedb.Txn) error {
		for _, acc := range accounts {
			if err := store.Save(txn, acc); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

// Get loads the committed state of key.
func Get(t testing.TB, store *ledger.Store, key solana.PublicKey) *ledger.AccountInfo {
	t.Helper()
	acc, err := store.Load(nil, key)
	require.NoError(t, err)
	return acc
}

// SystemAccount returns a system owned account holding lamports.
func SystemAccount(key solana.PublicKey, lamports uint64) *ledger.AccountInfo {
	return &ledger.AccountInfo{Key: key, Owner: solana.SystemProgramID, Lamports: lamports}
}

// TokenAccount returns a rent-exempt initialized token account at key. Native
// accounts also hold amount lamports.
func TokenAccount(t testing.TB, key, mint, owner solana.PublicKey, amount uint64) *ledger.AccountInfo {
	t.Helper()

	reserve := ledger.DefaultRent.MinimumBalance(ledger.TokenAccountLength)
	lamports := reserve
	if mint.Equals(solana.SolMint) {
		lamports += amount
	}
	data, err := ledger.EncodeTokenAccount(ledger.NewTokenAccount(mint, owner, amount, reserve))
	require.NoError(t, err)
	return &ledger.AccountInfo{
		Key:      key,
		Owner:    solana.TokenProgramID,
		Lamports: lamports,
		Data:     data,
	}
}

// Token decodes the committed token account at key.
func Token(t testing.TB, store *ledger.Store, key solana.PublicKey) *token.Account {
	t.Helper()
	acc := Get(t, store, key)
	require.Equal(t, solana.TokenProgramID, acc.Owner, "account %s is not a token account", key)
	tok, err := ledger.DecodeTokenAccount(acc.Data)
	require.NoError(t, err)
	return tok
}

// NewKey returns a random key pair.
func NewKey(t testing.TB) solana.PrivateKey {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key
}
