package ledger

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testProgramID = solana.MustPublicKeyFromBase58("BKGhwbiTHdUxcuWzZtDWyioRBieDEXTtgEk8u1zskZnk")

func newTestInvokeContext() (*invokeContext, *[]string) {
	logs := make([]string, 0)
	return &invokeContext{
		logger:    zap.NewNop(),
		programID: testProgramID,
		rent:      DefaultRent,
		logs:      &logs,
	}, &logs
}

func tokenInfo(t *testing.T, mint, owner solana.PublicKey, amount uint64) *AccountInfo {
	t.Helper()
	reserve := DefaultRent.MinimumBalance(TokenAccountLength)
	lamports := reserve
	if mint.Equals(solana.SolMint) {
		lamports += amount
	}
	data, err := EncodeTokenAccount(NewTokenAccount(mint, owner, amount, reserve))
	require.NoError(t, err)
	return &AccountInfo{
		Key:        solana.NewWallet().PublicKey(),
		Owner:      solana.TokenProgramID,
		Lamports:   lamports,
		Data:       data,
		IsWritable: true,
	}
}

func tokenAmount(t *testing.T, acc *AccountInfo) uint64 {
	t.Helper()
	tok, err := DecodeTokenAccount(acc.Data)
	require.NoError(t, err)
	return tok.Amount
}

func TestTransfer(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	otherMint := solana.NewWallet().PublicKey()
	tokenProgram := &AccountInfo{Key: solana.TokenProgramID}

	tt := []struct {
		name    string
		setup   func(p *TransferParams)
		wantErr error
	}{
		{name: "ok", setup: func(p *TransferParams) {}},
		{
			name:    "wrong token program",
			setup:   func(p *TransferParams) { p.TokenProgram = &AccountInfo{Key: solana.SystemProgramID} },
			wantErr: ErrIncorrectProgramID,
		},
		{
			name:    "authority did not sign",
			setup:   func(p *TransferParams) { p.Authority.IsSigner = false },
			wantErr: ErrMissingSignature,
		},
		{
			name:    "read-only destination",
			setup:   func(p *TransferParams) { p.Destination.IsWritable = false },
			wantErr: ErrAccountNotWritable,
		},
		{
			name: "mint mismatch",
			setup: func(p *TransferParams) {
				*p.Destination = *tokenInfo(t, otherMint, p.Destination.Key, 0)
			},
			wantErr: ErrMintMismatch,
		},
		{
			name: "authority does not own source",
			setup: func(p *TransferParams) {
				p.Authority = &AccountInfo{Key: solana.NewWallet().PublicKey(), IsSigner: true}
			},
			wantErr: ErrOwnerMismatch,
		},
		{
			name:    "insufficient funds",
			setup:   func(p *TransferParams) { p.Amount = 101 },
			wantErr: ErrInsufficientFunds,
		},
		{
			name:    "source not a token account",
			setup:   func(p *TransferParams) { p.Source.Owner = solana.SystemProgramID },
			wantErr: ErrInvalidAccountOwner,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			ic, _ := newTestInvokeContext()
			authority := &AccountInfo{Key: solana.NewWallet().PublicKey(), IsSigner: true}
			p := TransferParams{
				Source:       tokenInfo(t, mint, authority.Key, 100),
				Destination:  tokenInfo(t, mint, solana.NewWallet().PublicKey(), 5),
				Authority:    authority,
				TokenProgram: tokenProgram,
				Amount:       60,
			}
			tc.setup(&p)

			err := ic.Transfer(p)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, uint64(40), tokenAmount(t, p.Source))
			require.Equal(t, uint64(65), tokenAmount(t, p.Destination))
		})
	}
}

func TestTransferWithSignerSeeds(t *testing.T) {
	ic, _ := newTestInvokeContext()
	mint := solana.NewWallet().PublicKey()

	seed := []byte("custody")
	pda, bump, err := solana.FindProgramAddress([][]byte{seed}, testProgramID)
	require.NoError(t, err)
	authority := &AccountInfo{Key: pda}

	p := TransferParams{
		Source:       tokenInfo(t, mint, pda, 10),
		Destination:  tokenInfo(t, mint, solana.NewWallet().PublicKey(), 0),
		Authority:    authority,
		TokenProgram: &AccountInfo{Key: solana.TokenProgramID},
		Amount:       10,
	}

	p.AuthoritySignerSeeds = [][]byte{seed, {bump + 1}}
	require.ErrorIs(t, ic.Transfer(p), ErrInvalidSeeds)

	p.AuthoritySignerSeeds = [][]byte{seed, {bump}}
	require.NoError(t, ic.Transfer(p))
	require.Equal(t, uint64(0), tokenAmount(t, p.Source))
	require.Equal(t, uint64(10), tokenAmount(t, p.Destination))
}

func TestNativeTransferMovesLamports(t *testing.T) {
	ic, _ := newTestInvokeContext()
	authority := &AccountInfo{Key: solana.NewWallet().PublicKey(), IsSigner: true}
	src := tokenInfo(t, solana.SolMint, authority.Key, 1000)
	dst := tokenInfo(t, solana.SolMint, solana.NewWallet().PublicKey(), 0)
	srcLamports, dstLamports := src.Lamports, dst.Lamports

	require.NoError(t, ic.Transfer(TransferParams{
		Source:       src,
		Destination:  dst,
		Authority:    authority,
		TokenProgram: &AccountInfo{Key: solana.TokenProgramID},
		Amount:       400,
	}))
	require.Equal(t, srcLamports-400, src.Lamports)
	require.Equal(t, dstLamports+400, dst.Lamports)
	require.Equal(t, uint64(600), tokenAmount(t, src))
	require.Equal(t, uint64(400), tokenAmount(t, dst))
}

func TestCloseAccount(t *testing.T) {
	tokenProgram := &AccountInfo{Key: solana.TokenProgramID}

	t.Run("native", func(t *testing.T) {
		ic, _ := newTestInvokeContext()
		owner := &AccountInfo{Key: solana.NewWallet().PublicKey(), IsSigner: true}
		acc := tokenInfo(t, solana.SolMint, owner.Key, 500)
		dest := &AccountInfo{Key: solana.NewWallet().PublicKey(), Owner: solana.SystemProgramID, Lamports: 1, IsWritable: true}
		total := acc.Lamports

		require.NoError(t, ic.CloseAccount(CloseParams{
			Account:      acc,
			Destination:  dest,
			Authority:    owner,
			TokenProgram: tokenProgram,
		}))
		require.Equal(t, total+1, dest.Lamports)
		require.Zero(t, acc.Lamports)
		require.True(t, acc.DataIsEmpty())
		require.Equal(t, solana.SystemProgramID, acc.Owner)
	})

	t.Run("non-native with balance", func(t *testing.T) {
		ic, _ := newTestInvokeContext()
		owner := &AccountInfo{Key: solana.NewWallet().PublicKey(), IsSigner: true}
		acc := tokenInfo(t, solana.NewWallet().PublicKey(), owner.Key, 1)

		err := ic.CloseAccount(CloseParams{
			Account:      acc,
			Destination:  &AccountInfo{Key: solana.NewWallet().PublicKey(), IsWritable: true},
			Authority:    owner,
			TokenProgram: tokenProgram,
		})
		require.ErrorIs(t, err, ErrNonNativeHasBalance)
	})

	t.Run("not the owner", func(t *testing.T) {
		ic, _ := newTestInvokeContext()
		acc := tokenInfo(t, solana.SolMint, solana.NewWallet().PublicKey(), 0)

		err := ic.CloseAccount(CloseParams{
			Account:      acc,
			Destination:  &AccountInfo{Key: solana.NewWallet().PublicKey(), IsWritable: true},
			Authority:    &AccountInfo{Key: solana.NewWallet().PublicKey(), IsSigner: true},
			TokenProgram: tokenProgram,
		})
		require.ErrorIs(t, err, ErrOwnerMismatch)
	})

	t.Run("into itself", func(t *testing.T) {
		ic, _ := newTestInvokeContext()
		owner := &AccountInfo{Key: solana.NewWallet().PublicKey(), IsSigner: true}
		acc := tokenInfo(t, solana.SolMint, owner.Key, 0)

		err := ic.CloseAccount(CloseParams{
			Account:      acc,
			Destination:  acc,
			Authority:    owner,
			TokenProgram: tokenProgram,
		})
		require.ErrorIs(t, err, ErrInvalidAccountData)
	})
}

func TestCreateAccount(t *testing.T) {
	seed := []byte{0}
	pda, bump, err := solana.FindProgramAddress([][]byte{seed}, testProgramID)
	require.NoError(t, err)
	systemProgram := &AccountInfo{Key: solana.SystemProgramID}

	newParams := func() CreateAccountParams {
		return CreateAccountParams{
			Payer:         &AccountInfo{Key: solana.NewWallet().PublicKey(), Lamports: 10_000_000, IsSigner: true, IsWritable: true},
			NewAccount:    &AccountInfo{Key: pda, Owner: solana.SystemProgramID, IsWritable: true},
			SystemProgram: systemProgram,
			Lamports:      DefaultRent.MinimumBalance(9),
			Space:         9,
			Owner:         testProgramID,
			SignerSeeds:   [][]byte{seed, {bump}},
		}
	}

	tt := []struct {
		name    string
		setup   func(p *CreateAccountParams)
		wantErr error
	}{
		{name: "ok", setup: func(p *CreateAccountParams) {}},
		{name: "payer did not sign", setup: func(p *CreateAccountParams) { p.Payer.IsSigner = false }, wantErr: ErrMissingSignature},
		{name: "missing seeds", setup: func(p *CreateAccountParams) { p.SignerSeeds = nil }, wantErr: ErrMissingSignature},
		{name: "already in use", setup: func(p *CreateAccountParams) { p.NewAccount.Lamports = 1 }, wantErr: ErrAccountInUse},
		{name: "payer too poor", setup: func(p *CreateAccountParams) { p.Payer.Lamports = 1 }, wantErr: ErrInsufficientFunds},
		{name: "wrong system program", setup: func(p *CreateAccountParams) { p.SystemProgram = &AccountInfo{Key: solana.TokenProgramID} }, wantErr: ErrIncorrectProgramID},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			ic, _ := newTestInvokeContext()
			p := newParams()
			tc.setup(&p)

			err := ic.CreateAccount(p)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, testProgramID, p.NewAccount.Owner)
			require.Len(t, p.NewAccount.Data, 9)
			require.Equal(t, p.Lamports, p.NewAccount.Lamports)
			require.Equal(t, 10_000_000-p.Lamports, p.Payer.Lamports)
		})
	}
}

func TestInvokeContextLog(t *testing.T) {
	ic, logs := newTestInvokeContext()
	ic.Log("hello")
	require.Equal(t, []string{"Program log: hello"}, *logs)
}
