package processor_test

import (
	"context"
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/ssvlabs/ssv-bridge/bridge"
	"github.com/ssvlabs/ssv-bridge/bridge/address"
	"github.com/ssvlabs/ssv-bridge/bridge/client"
	"github.com/ssvlabs/ssv-bridge/bridge/message"
	"github.com/ssvlabs/ssv-bridge/bridge/processor"
	"github.com/ssvlabs/ssv-bridge/ledger"
	"github.com/ssvlabs/ssv-bridge/ledger/ledgertest"
	"github.com/ssvlabs/ssv-bridge/logging"
)

var testProgramID = solana.MustPublicKeyFromBase58("BKGhwbiTHdUxcuWzZtDWyioRBieDEXTtgEk8u1zskZnk")

const payerLamports = 10 * solana.LAMPORTS_PER_SOL

type testEnv struct {
	t          *testing.T
	rt         *ledger.Runtime
	payer      solana.PrivateKey
	beaconKeys []*ecdsa.PrivateKey
	beacons    []bridge.Beacon
}

func generateBeacons(t *testing.T, n int) ([]*ecdsa.PrivateKey, []bridge.Beacon) {
	t.Helper()
	keys := make([]*ecdsa.PrivateKey, 0, n)
	beacons := make([]bridge.Beacon, 0, n)
	for range n {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		keys = append(keys, key)
		beacons = append(beacons, message.BeaconFromKey(&key.PublicKey))
	}
	return keys, beacons
}

// newRawEnv returns a ledger with the bridge program and a funded payer, but
// no quorum.
func newRawEnv(t *testing.T, beaconCount int) *testEnv {
	t.Helper()
	rt := ledgertest.NewRuntime(t, ledger.WithProgram(testProgramID, processor.New(logging.TestLogger(t))))
	payer := ledgertest.NewKey(t)
	ledgertest.Put(t, rt.Store(), ledgertest.SystemAccount(payer.PublicKey(), payerLamports))

	keys, beacons := generateBeacons(t, beaconCount)
	return &testEnv{t: t, rt: rt, payer: payer, beaconKeys: keys, beacons: beacons}
}

// newTestEnv returns a ledger with an initialized quorum of beaconCount beacons.
func newTestEnv(t *testing.T, beaconCount int) *testEnv {
	t.Helper()
	env := newRawEnv(t, beaconCount)

	ix, err := client.InitQuorum(testProgramID, env.payer.PublicKey(), env.beacons)
	require.NoError(t, err)
	_, err = env.execute(ix)
	require.NoError(t, err)
	return env
}

func (e *testEnv) store() *ledger.Store {
	return e.rt.Store()
}

// execute runs ixs in one transaction signed by the payer.
func (e *testEnv) execute(ixs ...solana.Instruction) (*ledger.Receipt, error) {
	e.t.Helper()
	tx, err := ledger.NewTransaction(ixs, e.payer)
	require.NoError(e.t, err)
	return e.rt.Execute(context.Background(), tx)
}

func (e *testEnv) quorum() *client.QuorumRecord {
	e.t.Helper()
	q, err := client.LoadQuorum(e.store(), testProgramID)
	require.NoError(e.t, err)
	return q
}

func (e *testEnv) counter() uint64 {
	e.t.Helper()
	c, _, err := client.LoadCounter(e.store(), testProgramID)
	require.NoError(e.t, err)
	return c.Counter
}

// fundVault creates the custody vault of mint holding amount.
func (e *testEnv) fundVault(mint solana.PublicKey, amount uint64) solana.PublicKey {
	e.t.Helper()
	q := e.quorum()
	vault, err := address.Vault(q.Address, q.Config.BumpSeed, mint, testProgramID)
	require.NoError(e.t, err)
	ledgertest.Put(e.t, e.store(), ledgertest.TokenAccount(e.t, vault, mint, q.Custody, amount))
	return vault
}

// tokenAccount creates a token account of mint owned by owner.
func (e *testEnv) tokenAccount(mint, owner solana.PublicKey, amount uint64) solana.PublicKey {
	e.t.Helper()
	key := solana.NewWallet().PublicKey()
	ledgertest.Put(e.t, e.store(), ledgertest.TokenAccount(e.t, key, mint, owner, amount))
	return key
}

func (e *testEnv) balance(key solana.PublicKey) uint64 {
	e.t.Helper()
	return ledgertest.Token(e.t, e.store(), key).Amount
}

type withdrawal struct {
	mint         solana.PublicKey
	amounts      []uint64
	destinations []solana.PublicKey
	refunds      []solana.PublicKey
	signers      []*ecdsa.PrivateKey
	nonce        uint64
}

func (e *testEnv) withdrawIx(w withdrawal) solana.Instruction {
	e.t.Helper()
	sigs, err := client.SignWithdrawal(w.amounts, w.destinations, w.nonce, w.signers)
	require.NoError(e.t, err)

	ix, err := client.Withdraw(client.WithdrawParams{
		ProgramID:    testProgramID,
		CustodyBump:  e.quorum().Config.BumpSeed,
		Mint:         w.mint,
		Authority:    e.payer.PublicKey(),
		Amounts:      w.amounts,
		Destinations: w.destinations,
		Signatures:   sigs,
		Refunds:      w.refunds,
	})
	require.NoError(e.t, err)
	return ix
}

// setMeta rewrites the flags of the account at index i of ix.
func setMeta(ix solana.Instruction, i int, writable, signer bool) {
	meta := ix.Accounts()[i]
	meta.IsWritable = writable
	meta.IsSigner = signer
}
