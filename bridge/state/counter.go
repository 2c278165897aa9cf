package state

import (
	"bytes"
	"math"

	bin "github.com/gagliardetto/binary"

	"github.com/ssvlabs/ssv-bridge/bridge"
)

// ReplayCounterLength is the persisted size of a ReplayCounter.
const ReplayCounterLength = 1 + 8

// ReplayCounter is the withdrawal nonce. Every committed withdrawal consumes
// exactly one value.
type ReplayCounter struct {
	Initialized bool
	Counter     uint64
}

func (c *ReplayCounter) IsInitialized() bool {
	return c.Initialized
}

// ConsumeAndIncrement returns the current value and advances the counter by
// one. The caller is responsible for persisting the record afterwards.
func (c *ReplayCounter) ConsumeAndIncrement() (uint64, error) {
	if c.Counter == math.MaxUint64 {
		return 0, bridge.ErrCounterOverflow
	}
	n := c.Counter
	c.Counter++
	return n, nil
}

func (c *ReplayCounter) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, ReplayCounterLength))
	enc := bin.NewBinEncoder(buf)
	if err := enc.WriteUint8(boolByte(c.Initialized)); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(c.Counter, byteOrder); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *ReplayCounter) UnmarshalBinary(data []byte) error {
	if len(data) != ReplayCounterLength {
		return bridge.ErrInvalidAccountData.Wrapf("replay counter is %d bytes, want %d", len(data), ReplayCounterLength)
	}

	dec := bin.NewBinDecoder(data)
	initialized, err := readBool(dec)
	if err != nil {
		return err
	}
	counter, err := dec.ReadUint64(byteOrder)
	if err != nil {
		return bridge.ErrInvalidAccountData.Wrap(err)
	}

	c.Initialized = initialized
	c.Counter = counter
	return nil
}
