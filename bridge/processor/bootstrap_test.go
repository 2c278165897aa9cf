package processor_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/ssvlabs/ssv-bridge/bridge"
	"github.com/ssvlabs/ssv-bridge/bridge/address"
	"github.com/ssvlabs/ssv-bridge/bridge/client"
	"github.com/ssvlabs/ssv-bridge/bridge/state"
	"github.com/ssvlabs/ssv-bridge/ledger"
	"github.com/ssvlabs/ssv-bridge/ledger/ledgertest"
)

func TestInitQuorum(t *testing.T) {
	env := newTestEnv(t, 3)

	q := env.quorum()
	require.True(t, q.ProgramOwned)
	require.Equal(t, env.beacons, q.Config.Beacons)
	require.Equal(t, ledger.DefaultRent.MinimumBalance(state.QuorumConfigLength), q.Lamports)

	bump, err := address.FindCustodyBump(q.Address, testProgramID)
	require.NoError(t, err)
	require.Equal(t, bump, q.Config.BumpSeed)

	require.Equal(t, uint64(0), env.counter())

	counterKey, err := address.ReplayCounter(testProgramID)
	require.NoError(t, err)
	counterAcc := ledgertest.Get(t, env.store(), counterKey.Key)
	require.Len(t, counterAcc.Data, state.ReplayCounterLength)
	require.Equal(t, testProgramID, counterAcc.Owner)

	spent := ledger.DefaultRent.MinimumBalance(state.QuorumConfigLength) + ledger.DefaultRent.MinimumBalance(state.ReplayCounterLength)
	require.Equal(t, payerLamports-spent, ledgertest.Get(t, env.store(), env.payer.PublicKey()).Lamports)
}

func TestInitQuorumTwice(t *testing.T) {
	env := newTestEnv(t, 3)

	ix, err := client.InitQuorum(testProgramID, env.payer.PublicKey(), env.beacons[:1])
	require.NoError(t, err)
	_, err = env.execute(ix)
	require.ErrorIs(t, err, bridge.ErrPDAAccountCreated)
	require.Equal(t, env.beacons, env.quorum().Config.Beacons)
}

func TestInitQuorumRejects(t *testing.T) {
	tt := []struct {
		name    string
		beacons int
		mutate  func(ix solana.Instruction)
		wantErr error
	}{
		{
			name:    "authority did not sign",
			beacons: 3,
			mutate:  func(ix solana.Instruction) { setMeta(ix, 2, true, false) },
			wantErr: bridge.ErrInvalidAuthorityAccount,
		},
		{
			name:    "quorum target is not the derived address",
			beacons: 3,
			mutate:  func(ix solana.Instruction) { ix.Accounts()[0].PublicKey = solana.NewWallet().PublicKey() },
			wantErr: bridge.ErrPDAAccountCreated,
		},
		{
			name:    "counter target is not the derived address",
			beacons: 3,
			mutate:  func(ix solana.Instruction) { ix.Accounts()[1].PublicKey = solana.NewWallet().PublicKey() },
			wantErr: bridge.ErrPDAAccountCreated,
		},
		{
			name:    "too many beacons",
			beacons: bridge.MaxBeacons + 1,
			mutate:  func(ix solana.Instruction) {},
			wantErr: bridge.ErrTooManyBeacons,
		},
		{
			name:    "missing system program",
			beacons: 3,
			mutate: func(ix solana.Instruction) {
				ix.(*solana.GenericInstruction).AccountValues = ix.Accounts()[:3]
			},
			wantErr: bridge.ErrNotEnoughAccountKeys,
		},
		{
			name:    "wrong system program",
			beacons: 3,
			mutate:  func(ix solana.Instruction) { ix.Accounts()[3].PublicKey = solana.TokenProgramID },
			wantErr: bridge.ErrAccountCreationFailed,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			env := newRawEnv(t, tc.beacons)
			ix, err := client.InitQuorum(testProgramID, env.payer.PublicKey(), env.beacons)
			require.NoError(t, err)
			tc.mutate(ix)

			_, err = env.execute(ix)
			require.ErrorIs(t, err, tc.wantErr)

			_, err = client.LoadQuorum(env.store(), testProgramID)
			require.ErrorIs(t, err, bridge.ErrInvalidAccountData)
			require.Equal(t, payerLamports, ledgertest.Get(t, env.store(), env.payer.PublicKey()).Lamports)
		})
	}
}
