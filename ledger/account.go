package ledger

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// AccountInfo is a loaded account as seen by a program during one transaction.
// Programs mutate Lamports, Data and Owner in place; the runtime persists the
// result when the transaction commits.
type AccountInfo struct {
	Key        solana.PublicKey
	Owner      solana.PublicKey
	Lamports   uint64
	Data       []byte
	Executable bool

	IsSigner   bool
	IsWritable bool
}

// DataIsEmpty reports whether the account holds no data.
func (a *AccountInfo) DataIsEmpty() bool {
	return len(a.Data) == 0
}

func (a *AccountInfo) clone() *AccountInfo {
	c := *a
	c.Data = bytes.Clone(a.Data)
	return &c
}

func (a *AccountInfo) equalState(other *AccountInfo) bool {
	return a.Owner == other.Owner &&
		a.Lamports == other.Lamports &&
		a.Executable == other.Executable &&
		bytes.Equal(a.Data, other.Data)
}

// isDead accounts are removed from storage on commit.
func (a *AccountInfo) isDead() bool {
	return a.Lamports == 0 && len(a.Data) == 0
}

// storedAccount is the persisted form of an account, borsh encoded.
type storedAccount struct {
	Owner      [32]byte
	Lamports   uint64
	Executable bool
	Data       []byte
}

func encodeAccount(a *AccountInfo) ([]byte, error) {
	buf := new(bytes.Buffer)
	rec := storedAccount{
		Owner:      a.Owner,
		Lamports:   a.Lamports,
		Executable: a.Executable,
		Data:       a.Data,
	}
	if err := bin.NewBorshEncoder(buf).Encode(&rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeAccount(key solana.PublicKey, data []byte) (*AccountInfo, error) {
	var rec storedAccount
	if err := bin.NewBorshDecoder(data).Decode(&rec); err != nil {
		return nil, err
	}
	return &AccountInfo{
		Key:        key,
		Owner:      rec.Owner,
		Lamports:   rec.Lamports,
		Executable: rec.Executable,
		Data:       rec.Data,
	}, nil
}
