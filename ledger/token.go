package ledger

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
)

// TokenAccountLength is the size of an SPL token account.
const TokenAccountLength = 165

var le = binary.LittleEndian

// DecodeTokenAccount parses an SPL token account record.
//
//	mint 32 | owner 32 | amount u64 | delegate COption<Pubkey> | state u8 |
//	is_native COption<u64> | delegated_amount u64 | close_authority COption<Pubkey>
func DecodeTokenAccount(data []byte) (*token.Account, error) {
	if len(data) != TokenAccountLength {
		return nil, fmt.Errorf("%w: token account is %d bytes", ErrInvalidAccountData, len(data))
	}

	dec := bin.NewBinDecoder(data)
	acc := &token.Account{}
	var err error

	if acc.Mint, err = readKey(dec); err != nil {
		return nil, err
	}
	if acc.Owner, err = readKey(dec); err != nil {
		return nil, err
	}
	if acc.Amount, err = dec.ReadUint64(le); err != nil {
		return nil, err
	}
	if acc.Delegate, err = readOptionalKey(dec); err != nil {
		return nil, err
	}
	state, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	if state > uint8(token.Frozen) {
		return nil, fmt.Errorf("%w: account state %d", ErrInvalidAccountData, state)
	}
	acc.State = token.AccountState(state)

	tag, err := readOptionTag(dec)
	if err != nil {
		return nil, err
	}
	reserve, err := dec.ReadUint64(le)
	if err != nil {
		return nil, err
	}
	if tag {
		acc.IsNative = &reserve
	}

	if acc.DelegatedAmount, err = dec.ReadUint64(le); err != nil {
		return nil, err
	}
	if acc.CloseAuthority, err = readOptionalKey(dec); err != nil {
		return nil, err
	}
	return acc, nil
}

// EncodeTokenAccount is the inverse of DecodeTokenAccount.
func EncodeTokenAccount(acc *token.Account) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, TokenAccountLength))
	enc := bin.NewBinEncoder(buf)

	if err := enc.WriteBytes(acc.Mint[:], false); err != nil {
		return nil, err
	}
	if err := enc.WriteBytes(acc.Owner[:], false); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(acc.Amount, le); err != nil {
		return nil, err
	}
	if err := writeOptionalKey(enc, acc.Delegate); err != nil {
		return nil, err
	}
	if err := enc.WriteUint8(uint8(acc.State)); err != nil {
		return nil, err
	}

	var reserve uint64
	if acc.IsNative != nil {
		reserve = *acc.IsNative
	}
	if err := writeOptionTag(enc, acc.IsNative != nil); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(reserve, le); err != nil {
		return nil, err
	}

	if err := enc.WriteUint64(acc.DelegatedAmount, le); err != nil {
		return nil, err
	}
	if err := writeOptionalKey(enc, acc.CloseAuthority); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewTokenAccount returns an initialized token account holding amount of mint.
// Native accounts record rentReserve and must be funded with
// rentReserve+amount lamports.
func NewTokenAccount(mint, owner solana.PublicKey, amount uint64, rentReserve uint64) *token.Account {
	acc := &token.Account{
		Mint:   mint,
		Owner:  owner,
		Amount: amount,
		State:  token.Initialized,
	}
	if mint.Equals(solana.SolMint) {
		reserve := rentReserve
		acc.IsNative = &reserve
	}
	return acc
}

func readKey(dec *bin.Decoder) (solana.PublicKey, error) {
	raw, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(raw), nil
}

func readOptionTag(dec *bin.Decoder) (bool, error) {
	tag, err := dec.ReadUint32(le)
	if err != nil {
		return false, err
	}
	switch tag {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: option tag %d", ErrInvalidAccountData, tag)
	}
}

func readOptionalKey(dec *bin.Decoder) (*solana.PublicKey, error) {
	some, err := readOptionTag(dec)
	if err != nil {
		return nil, err
	}
	key, err := readKey(dec)
	if err != nil {
		return nil, err
	}
	if !some {
		return nil, nil
	}
	return &key, nil
}

func writeOptionTag(enc *bin.Encoder, some bool) error {
	if some {
		return enc.WriteUint32(1, le)
	}
	return enc.WriteUint32(0, le)
}

func writeOptionalKey(enc *bin.Encoder, key *solana.PublicKey) error {
	if err := writeOptionTag(enc, key != nil); err != nil {
		return err
	}
	var raw solana.PublicKey
	if key != nil {
		raw = *key
	}
	return enc.WriteBytes(raw[:], false)
}
