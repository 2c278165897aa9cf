package ledger

import "errors"

var (
	ErrMissingSignature      = errors.New("missing required signature")
	ErrInvalidSignature      = errors.New("transaction signature verification failed")
	ErrAccountNotWritable    = errors.New("account is not writable")
	ErrReadOnlyModified      = errors.New("read-only account modified")
	ErrUnbalancedTransaction = errors.New("sum of account balances changed")
	ErrProgramNotFound       = errors.New("program not found")
	ErrIncorrectProgramID    = errors.New("incorrect program id")
	ErrInvalidAccountOwner   = errors.New("account is not owned by the expected program")
	ErrInvalidAccountData    = errors.New("invalid account data")
	ErrUninitializedAccount  = errors.New("account is not initialized")
	ErrAccountFrozen         = errors.New("account is frozen")
	ErrMintMismatch          = errors.New("account mints do not match")
	ErrOwnerMismatch         = errors.New("authority does not own the account")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrNonNativeHasBalance   = errors.New("non-native account can only be closed with a zero balance")
	ErrAccountInUse          = errors.New("account already in use")
	ErrInvalidSeeds          = errors.New("signer seeds do not derive the authority")
	ErrEmptyTransaction      = errors.New("transaction has no instructions")
)
