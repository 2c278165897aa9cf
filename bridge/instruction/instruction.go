// Package instruction decodes and encodes the tagged byte buffers submitted to
// the bridge program.
//
// Every buffer starts with a one byte Tag followed by the tag's fields in
// order, without padding. Variable length fields carry a single byte count
// immediately followed by that many fixed size elements. Bytes left over after
// the last field are ignored.
package instruction

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/ssvlabs/ssv-bridge/bridge"
)

// Tag is the leading discriminant byte of an instruction buffer.
type Tag uint8

const (
	TagDeposit Tag = iota
	TagWithdraw
	TagInitQuorum
)

func (t Tag) String() string {
	switch t {
	case TagDeposit:
		return "Deposit"
	case TagWithdraw:
		return "Withdraw"
	case TagInitQuorum:
		return "InitQuorum"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// maxCount is the largest element count a single length byte can carry.
const maxCount = 255

var byteOrder = binary.LittleEndian

// Instruction is one of *Deposit, *Withdraw or *InitQuorum.
type Instruction interface {
	Tag() Tag
	MarshalBinary() ([]byte, error)

	isInstruction()
}

// Deposit moves Amount from the depositor into the vault and credits
// Destination on the other chain.
type Deposit struct {
	Amount      uint64
	Destination bridge.DestinationAddress
}

// Withdraw releases Amounts[i] from the vault to the i-th destination account
// once Signatures satisfy the quorum.
type Withdraw struct {
	Amounts    []uint64
	Signatures []bridge.Signature
}

// InitQuorum creates the quorum config and replay counter records.
type InitQuorum struct {
	Beacons []bridge.Beacon
}

func (*Deposit) Tag() Tag    { return TagDeposit }
func (*Withdraw) Tag() Tag   { return TagWithdraw }
func (*InitQuorum) Tag() Tag { return TagInitQuorum }

func (*Deposit) isInstruction()    {}
func (*Withdraw) isInstruction()   {}
func (*InitQuorum) isInstruction() {}

// Decode parses data into a typed instruction. A missing or unknown tag yields
// bridge.ErrInvalidInstruction; running out of bytes for any field yields
// bridge.ErrInstructionUnpack.
func Decode(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, bridge.ErrInvalidInstruction.Wrapf("empty instruction")
	}

	var (
		ix  Instruction
		err error
		dec = bin.NewBinDecoder(data[1:])
	)
	switch tag := Tag(data[0]); tag {
	case TagDeposit:
		ix, err = decodeDeposit(dec)
	case TagWithdraw:
		ix, err = decodeWithdraw(dec)
	case TagInitQuorum:
		ix, err = decodeInitQuorum(dec)
	default:
		return nil, bridge.ErrInvalidInstruction.Wrapf("unknown tag %d", uint8(tag))
	}
	if err != nil {
		return nil, err
	}
	return ix, nil
}

func decodeDeposit(dec *bin.Decoder) (*Deposit, error) {
	amount, err := readUint64(dec, "amount")
	if err != nil {
		return nil, err
	}
	raw, err := readBytes(dec, bridge.DestinationAddressLength, "destination address")
	if err != nil {
		return nil, err
	}

	d := &Deposit{Amount: amount}
	copy(d.Destination[:], raw)
	return d, nil
}

func decodeWithdraw(dec *bin.Decoder) (*Withdraw, error) {
	n, err := readCount(dec, "amount count")
	if err != nil {
		return nil, err
	}
	amounts := make([]uint64, n)
	for i := range amounts {
		if amounts[i], err = readUint64(dec, "amount"); err != nil {
			return nil, err
		}
	}

	m, err := readCount(dec, "signature count")
	if err != nil {
		return nil, err
	}
	signatures := make([]bridge.Signature, m)
	for i := range signatures {
		raw, err := readBytes(dec, bridge.SignatureLength, "signature")
		if err != nil {
			return nil, err
		}
		copy(signatures[i][:], raw)
	}

	return &Withdraw{Amounts: amounts, Signatures: signatures}, nil
}

func decodeInitQuorum(dec *bin.Decoder) (*InitQuorum, error) {
	k, err := readCount(dec, "beacon count")
	if err != nil {
		return nil, err
	}
	beacons := make([]bridge.Beacon, k)
	for i := range beacons {
		raw, err := readBytes(dec, bridge.BeaconLength, "beacon")
		if err != nil {
			return nil, err
		}
		copy(beacons[i][:], raw)
	}
	return &InitQuorum{Beacons: beacons}, nil
}

func readCount(dec *bin.Decoder, field string) (int, error) {
	if dec.Remaining() < 1 {
		return 0, bridge.ErrInstructionUnpack.Wrapf("%s: u8 cannot be unpacked", field)
	}
	v, err := dec.ReadUint8()
	if err != nil {
		return 0, bridge.ErrInstructionUnpack.Wrapf("%s: %w", field, err)
	}
	return int(v), nil
}

func readUint64(dec *bin.Decoder, field string) (uint64, error) {
	if dec.Remaining() < 8 {
		return 0, bridge.ErrInstructionUnpack.Wrapf("%s: u64 cannot be unpacked", field)
	}
	v, err := dec.ReadUint64(byteOrder)
	if err != nil {
		return 0, bridge.ErrInstructionUnpack.Wrapf("%s: %w", field, err)
	}
	return v, nil
}

func readBytes(dec *bin.Decoder, n int, field string) ([]byte, error) {
	if dec.Remaining() < n {
		return nil, bridge.ErrInstructionUnpack.Wrapf("%s: %d bytes cannot be unpacked", field, n)
	}
	v, err := dec.ReadNBytes(n)
	if err != nil {
		return nil, bridge.ErrInstructionUnpack.Wrapf("%s: %w", field, err)
	}
	return v, nil
}

func (d *Deposit) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	if err := enc.WriteUint8(uint8(TagDeposit)); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(d.Amount, byteOrder); err != nil {
		return nil, err
	}
	if err := enc.WriteBytes(d.Destination[:], false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (w *Withdraw) MarshalBinary() ([]byte, error) {
	if len(w.Amounts) > maxCount {
		return nil, bridge.ErrInstructionUnpack.Wrapf("%d amounts do not fit a u8 count", len(w.Amounts))
	}
	if len(w.Signatures) > maxCount {
		return nil, bridge.ErrInstructionUnpack.Wrapf("%d signatures do not fit a u8 count", len(w.Signatures))
	}

	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	if err := enc.WriteUint8(uint8(TagWithdraw)); err != nil {
		return nil, err
	}
	if err := enc.WriteUint8(uint8(len(w.Amounts))); err != nil {
		return nil, err
	}
	for _, amount := range w.Amounts {
		if err := enc.WriteUint64(amount, byteOrder); err != nil {
			return nil, err
		}
	}
	if err := enc.WriteUint8(uint8(len(w.Signatures))); err != nil {
		return nil, err
	}
	for i := range w.Signatures {
		if err := enc.WriteBytes(w.Signatures[i][:], false); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (q *InitQuorum) MarshalBinary() ([]byte, error) {
	if len(q.Beacons) > maxCount {
		return nil, bridge.ErrInstructionUnpack.Wrapf("%d beacons do not fit a u8 count", len(q.Beacons))
	}

	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	if err := enc.WriteUint8(uint8(TagInitQuorum)); err != nil {
		return nil, err
	}
	if err := enc.WriteUint8(uint8(len(q.Beacons))); err != nil {
		return nil, err
	}
	for i := range q.Beacons {
		if err := enc.WriteBytes(q.Beacons[i][:], false); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
