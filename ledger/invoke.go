package ledger

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

//go:generate mockgen -package=mocks -destination=./mocks/invoke.go -source=./invoke.go

// Program is an on-ledger program. Process receives the accounts of one
// instruction in the order the caller listed them.
type Program interface {
	Process(ctx context.Context, ic InvokeContext, accounts []*AccountInfo, data []byte) error
}

// InvokeContext is what a running program may ask of the ledger: the token
// and system primitives, storage pricing and the program log.
type InvokeContext interface {
	// ProgramID is the id of the program being executed.
	ProgramID() solana.PublicKey
	// Transfer moves tokens between two token accounts of the same mint.
	Transfer(params TransferParams) error
	// CloseAccount closes a token account, moving all its lamports to the destination.
	CloseAccount(params CloseParams) error
	// CreateAccount allocates a new account funded by the payer.
	CreateAccount(params CreateAccountParams) error
	// MinimumBalance is the lamport balance exempting dataLen bytes from rent.
	MinimumBalance(dataLen int) uint64
	// Log appends a line to the transaction's program log.
	Log(msg string)
}

// TransferParams describes a token transfer. When AuthoritySignerSeeds is set
// the authority need not have signed the transaction; the seeds must derive it
// from the invoking program instead.
type TransferParams struct {
	Source               *AccountInfo
	Destination          *AccountInfo
	Authority            *AccountInfo
	TokenProgram         *AccountInfo
	Amount               uint64
	AuthoritySignerSeeds [][]byte
}

// CloseParams describes closing a token account into Destination.
type CloseParams struct {
	Account              *AccountInfo
	Destination          *AccountInfo
	Authority            *AccountInfo
	TokenProgram         *AccountInfo
	AuthoritySignerSeeds [][]byte
}

// CreateAccountParams describes allocating NewAccount with Space bytes owned
// by Owner. SignerSeeds authorize a program derived NewAccount.
type CreateAccountParams struct {
	Payer         *AccountInfo
	NewAccount    *AccountInfo
	SystemProgram *AccountInfo
	Lamports      uint64
	Space         uint64
	Owner         solana.PublicKey
	SignerSeeds   [][]byte
}
