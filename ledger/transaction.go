package ledger

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Transaction is a list of instructions executed atomically, together with
// the ed25519 signatures of every account the instructions mark as signer.
type Transaction struct {
	Instructions []solana.Instruction
	Signatures   map[solana.PublicKey]solana.Signature
}

// NewTransaction builds and signs a transaction.
func NewTransaction(instructions []solana.Instruction, signers ...solana.PrivateKey) (*Transaction, error) {
	tx := &Transaction{
		Instructions: instructions,
		Signatures:   make(map[solana.PublicKey]solana.Signature, len(signers)),
	}
	if err := tx.Sign(signers...); err != nil {
		return nil, err
	}
	return tx, nil
}

// Sign adds signatures by signers over the transaction message.
func (tx *Transaction) Sign(signers ...solana.PrivateKey) error {
	msg, err := tx.Message()
	if err != nil {
		return err
	}
	if tx.Signatures == nil {
		tx.Signatures = make(map[solana.PublicKey]solana.Signature, len(signers))
	}
	for _, signer := range signers {
		sig, err := signer.Sign(msg)
		if err != nil {
			return fmt.Errorf("sign transaction: %w", err)
		}
		tx.Signatures[signer.PublicKey()] = sig
	}
	return nil
}

// Message is the signed payload: for every instruction its program id, the
// account metas and the data, in order.
func (tx *Transaction) Message() ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)

	if err := enc.WriteUint32(uint32(len(tx.Instructions)), le); err != nil {
		return nil, err
	}
	for i, ix := range tx.Instructions {
		data, err := ix.Data()
		if err != nil {
			return nil, fmt.Errorf("instruction %d data: %w", i, err)
		}
		programID := ix.ProgramID()
		if err := enc.WriteBytes(programID[:], false); err != nil {
			return nil, err
		}
		metas := ix.Accounts()
		if err := enc.WriteUint32(uint32(len(metas)), le); err != nil {
			return nil, err
		}
		for _, meta := range metas {
			if err := enc.WriteBytes(meta.PublicKey[:], false); err != nil {
				return nil, err
			}
			if err := enc.WriteBool(meta.IsSigner); err != nil {
				return nil, err
			}
			if err := enc.WriteBool(meta.IsWritable); err != nil {
				return nil, err
			}
		}
		if err := enc.WriteBytes(data, true); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// verify checks every signature and returns the set of verified signers.
func (tx *Transaction) verify() (map[solana.PublicKey]struct{}, error) {
	msg, err := tx.Message()
	if err != nil {
		return nil, err
	}
	signers := make(map[solana.PublicKey]struct{}, len(tx.Signatures))
	for key, sig := range tx.Signatures {
		if !sig.Verify(key, msg) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSignature, key)
		}
		signers[key] = struct{}{}
	}
	return signers, nil
}
