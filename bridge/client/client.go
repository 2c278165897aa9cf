// Package client builds bridge instructions together with the account lists
// the processor expects, and reads the bridge records back from a ledger.
package client

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/ssvlabs/ssv-bridge/bridge"
	"github.com/ssvlabs/ssv-bridge/bridge/address"
	"github.com/ssvlabs/ssv-bridge/bridge/instruction"
	"github.com/ssvlabs/ssv-bridge/bridge/message"
)

// InitQuorum builds the bootstrap instruction, paid for by payer.
func InitQuorum(programID, payer solana.PublicKey, beacons []bridge.Beacon) (solana.Instruction, error) {
	quorum, err := address.QuorumConfig(programID)
	if err != nil {
		return nil, err
	}
	counter, err := address.ReplayCounter(programID)
	if err != nil {
		return nil, err
	}
	data, err := (&instruction.InitQuorum{Beacons: beacons}).MarshalBinary()
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(programID, solana.AccountMetaSlice{
		solana.NewAccountMeta(quorum.Key, true, false),
		solana.NewAccountMeta(counter.Key, true, false),
		solana.NewAccountMeta(payer, true, true),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}, data), nil
}

type DepositParams struct {
	ProgramID   solana.PublicKey
	CustodyBump uint8
	Mint        solana.PublicKey
	// Source is the depositor's token account, owned by Depositor.
	Source      solana.PublicKey
	Depositor   solana.PublicKey
	Amount      uint64
	Destination bridge.DestinationAddress
}

// Deposit builds a deposit into the custody vault of p.Mint.
func Deposit(p DepositParams) (solana.Instruction, error) {
	quorum, err := address.QuorumConfig(p.ProgramID)
	if err != nil {
		return nil, err
	}
	vault, err := address.Vault(quorum.Key, p.CustodyBump, p.Mint, p.ProgramID)
	if err != nil {
		return nil, err
	}
	data, err := (&instruction.Deposit{Amount: p.Amount, Destination: p.Destination}).MarshalBinary()
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(p.ProgramID, solana.AccountMetaSlice{
		solana.NewAccountMeta(p.Source, true, false),
		solana.NewAccountMeta(vault, true, false),
		solana.NewAccountMeta(quorum.Key, false, false),
		solana.NewAccountMeta(p.Depositor, false, true),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
	}, data), nil
}

type WithdrawParams struct {
	ProgramID   solana.PublicKey
	CustodyBump uint8
	Mint        solana.PublicKey
	// Authority signs the submission; it need not be a beacon.
	Authority    solana.PublicKey
	Amounts      []uint64
	Destinations []solana.PublicKey
	Signatures   []bridge.Signature
	// Refunds receive the lamports of closed native destinations, one per
	// destination. Leave empty for other mints.
	Refunds []solana.PublicKey
}

// Withdraw builds a withdrawal from the custody vault of p.Mint.
func Withdraw(p WithdrawParams) (solana.Instruction, error) {
	if len(p.Amounts) != len(p.Destinations) {
		return nil, fmt.Errorf("%d amounts for %d destinations", len(p.Amounts), len(p.Destinations))
	}
	quorum, err := address.QuorumConfig(p.ProgramID)
	if err != nil {
		return nil, err
	}
	counter, err := address.ReplayCounter(p.ProgramID)
	if err != nil {
		return nil, err
	}
	custody, err := address.CustodyAuthority(quorum.Key, p.CustodyBump, p.ProgramID)
	if err != nil {
		return nil, err
	}
	vault, err := address.Vault(quorum.Key, p.CustodyBump, p.Mint, p.ProgramID)
	if err != nil {
		return nil, err
	}
	data, err := (&instruction.Withdraw{Amounts: p.Amounts, Signatures: p.Signatures}).MarshalBinary()
	if err != nil {
		return nil, err
	}

	metas := solana.AccountMetaSlice{
		solana.NewAccountMeta(vault, true, false),
		solana.NewAccountMeta(custody, false, false),
		solana.NewAccountMeta(counter.Key, true, false),
		solana.NewAccountMeta(quorum.Key, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(p.Authority, false, true),
	}
	for _, dest := range p.Destinations {
		metas = append(metas, solana.NewAccountMeta(dest, true, false))
	}
	for _, refund := range p.Refunds {
		metas = append(metas, solana.NewAccountMeta(refund, true, false))
	}
	return solana.NewInstruction(p.ProgramID, metas, data), nil
}

// SignWithdrawal returns the signatures of keys, in order, over the canonical
// withdrawal message for nonce.
func SignWithdrawal(amounts []uint64, destinations []solana.PublicKey, nonce uint64, keys []*ecdsa.PrivateKey) ([]bridge.Signature, error) {
	hash, err := message.New(amounts, destinations, nonce).Hash()
	if err != nil {
		return nil, err
	}
	sigs := make([]bridge.Signature, 0, len(keys))
	for i, key := range keys {
		sig, err := message.Sign(hash, key)
		if err != nil {
			return nil, fmt.Errorf("beacon %d: %w", i, err)
		}
		sigs = append(sigs, sig)
	}
	return sigs, nil
}
