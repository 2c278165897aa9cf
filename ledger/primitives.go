package ledger

import (
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"go.uber.org/zap"
)

// invokeContext serves one program invocation inside a transaction.
type invokeContext struct {
	logger    *zap.Logger
	programID solana.PublicKey
	rent      Rent
	logs      *[]string
}

var _ InvokeContext = (*invokeContext)(nil)

func (ic *invokeContext) ProgramID() solana.PublicKey {
	return ic.programID
}

func (ic *invokeContext) MinimumBalance(dataLen int) uint64 {
	return ic.rent.MinimumBalance(dataLen)
}

func (ic *invokeContext) Log(msg string) {
	ic.logger.Debug("program log", zap.String("msg", msg))
	*ic.logs = append(*ic.logs, "Program log: "+msg)
}

// authorize accepts an authority that signed the transaction, or one the
// invoking program derives from seeds.
func (ic *invokeContext) authorize(authority *AccountInfo, seeds [][]byte) error {
	if authority == nil {
		return fmt.Errorf("%w: no authority", ErrMissingSignature)
	}
	if authority.IsSigner {
		return nil
	}
	if len(seeds) == 0 {
		return fmt.Errorf("%w: %s", ErrMissingSignature, authority.Key)
	}
	derived, err := solana.CreateProgramAddress(seeds, ic.programID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSeeds, err)
	}
	if !derived.Equals(authority.Key) {
		return fmt.Errorf("%w: derived %s, authority %s", ErrInvalidSeeds, derived, authority.Key)
	}
	return nil
}

func checkProgram(acc *AccountInfo, want solana.PublicKey) error {
	if acc == nil || !acc.Key.Equals(want) {
		return fmt.Errorf("%w: want %s", ErrIncorrectProgramID, want)
	}
	return nil
}

func checkWritable(accounts ...*AccountInfo) error {
	for _, acc := range accounts {
		if !acc.IsWritable {
			return fmt.Errorf("%w: %s", ErrAccountNotWritable, acc.Key)
		}
	}
	return nil
}

func loadToken(acc *AccountInfo) (*token.Account, error) {
	if !acc.Owner.Equals(solana.TokenProgramID) {
		return nil, fmt.Errorf("%w: %s is owned by %s", ErrInvalidAccountOwner, acc.Key, acc.Owner)
	}
	t, err := DecodeTokenAccount(acc.Data)
	if err != nil {
		return nil, err
	}
	switch t.State {
	case token.Uninitialized:
		return nil, fmt.Errorf("%w: %s", ErrUninitializedAccount, acc.Key)
	case token.Frozen:
		return nil, fmt.Errorf("%w: %s", ErrAccountFrozen, acc.Key)
	}
	return t, nil
}

func storeToken(acc *AccountInfo, t *token.Account) error {
	data, err := EncodeTokenAccount(t)
	if err != nil {
		return err
	}
	acc.Data = data
	return nil
}

func addLamports(acc *AccountInfo, amount uint64) error {
	if acc.Lamports > math.MaxUint64-amount {
		return fmt.Errorf("lamport overflow on %s", acc.Key)
	}
	acc.Lamports += amount
	return nil
}

func (ic *invokeContext) Transfer(p TransferParams) error {
	if err := checkProgram(p.TokenProgram, solana.TokenProgramID); err != nil {
		return err
	}
	if err := ic.authorize(p.Authority, p.AuthoritySignerSeeds); err != nil {
		return err
	}
	if err := checkWritable(p.Source, p.Destination); err != nil {
		return err
	}

	src, err := loadToken(p.Source)
	if err != nil {
		return err
	}
	dst, err := loadToken(p.Destination)
	if err != nil {
		return err
	}
	if !src.Mint.Equals(dst.Mint) {
		return fmt.Errorf("%w: %s and %s", ErrMintMismatch, src.Mint, dst.Mint)
	}
	if !src.Owner.Equals(p.Authority.Key) {
		return fmt.Errorf("%w: %s owns %s", ErrOwnerMismatch, src.Owner, p.Source.Key)
	}
	if src.Amount < p.Amount {
		return fmt.Errorf("%w: balance %d, amount %d", ErrInsufficientFunds, src.Amount, p.Amount)
	}
	if p.Source.Key.Equals(p.Destination.Key) {
		return nil
	}
	if dst.Amount > math.MaxUint64-p.Amount {
		return fmt.Errorf("token amount overflow on %s", p.Destination.Key)
	}

	src.Amount -= p.Amount
	dst.Amount += p.Amount
	if src.IsNative != nil {
		if p.Source.Lamports < p.Amount {
			return fmt.Errorf("%w: native lamports %d", ErrInsufficientFunds, p.Source.Lamports)
		}
		p.Source.Lamports -= p.Amount
		if err := addLamports(p.Destination, p.Amount); err != nil {
			return err
		}
	}

	if err := storeToken(p.Source, src); err != nil {
		return err
	}
	return storeToken(p.Destination, dst)
}

func (ic *invokeContext) CloseAccount(p CloseParams) error {
	if err := checkProgram(p.TokenProgram, solana.TokenProgramID); err != nil {
		return err
	}
	if err := ic.authorize(p.Authority, p.AuthoritySignerSeeds); err != nil {
		return err
	}
	if err := checkWritable(p.Account, p.Destination); err != nil {
		return err
	}
	if p.Account.Key.Equals(p.Destination.Key) {
		return fmt.Errorf("%w: account closed into itself", ErrInvalidAccountData)
	}

	t, err := loadToken(p.Account)
	if err != nil {
		return err
	}
	if t.IsNative == nil && t.Amount != 0 {
		return fmt.Errorf("%w: balance %d", ErrNonNativeHasBalance, t.Amount)
	}
	closeAuthority := t.Owner
	if t.CloseAuthority != nil {
		closeAuthority = *t.CloseAuthority
	}
	if !closeAuthority.Equals(p.Authority.Key) {
		return fmt.Errorf("%w: %s may not close %s", ErrOwnerMismatch, p.Authority.Key, p.Account.Key)
	}

	if err := addLamports(p.Destination, p.Account.Lamports); err != nil {
		return err
	}
	p.Account.Lamports = 0
	p.Account.Data = nil
	p.Account.Owner = solana.SystemProgramID
	return nil
}

func (ic *invokeContext) CreateAccount(p CreateAccountParams) error {
	if err := checkProgram(p.SystemProgram, solana.SystemProgramID); err != nil {
		return err
	}
	if !p.Payer.IsSigner {
		return fmt.Errorf("%w: payer %s", ErrMissingSignature, p.Payer.Key)
	}
	if err := ic.authorize(p.NewAccount, p.SignerSeeds); err != nil {
		return err
	}
	if err := checkWritable(p.Payer, p.NewAccount); err != nil {
		return err
	}
	if p.NewAccount.Lamports > 0 || !p.NewAccount.DataIsEmpty() || !p.NewAccount.Owner.Equals(solana.SystemProgramID) {
		return fmt.Errorf("%w: %s", ErrAccountInUse, p.NewAccount.Key)
	}
	if p.Payer.Lamports < p.Lamports {
		return fmt.Errorf("%w: payer has %d, needs %d", ErrInsufficientFunds, p.Payer.Lamports, p.Lamports)
	}

	p.Payer.Lamports -= p.Lamports
	p.NewAccount.Lamports = p.Lamports
	p.NewAccount.Data = make([]byte, p.Space)
	p.NewAccount.Owner = p.Owner
	return nil
}
