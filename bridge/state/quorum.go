package state

import (
	"bytes"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"

	"github.com/ssvlabs/ssv-bridge/bridge"
)

// QuorumConfigLength is the persisted size of a QuorumConfig: the initialized
// flag, the custody bump seed, the beacon count and 20 fixed beacon slots.
const QuorumConfigLength = 1 + 1 + 1 + bridge.BeaconLength*bridge.MaxBeacons

// QuorumConfig is the deployment's beacon list plus the bump seed of the
// custody authority that owns every vault.
type QuorumConfig struct {
	Initialized bool
	BumpSeed    uint8
	Beacons     []bridge.Beacon
}

// IsInitialized reports whether the record has been written by bootstrap.
func (q *QuorumConfig) IsInitialized() bool {
	return q.Initialized
}

// MarshalBinary encodes q into exactly QuorumConfigLength bytes, zero filling
// unused beacon slots. Lists longer than MaxBeacons are rejected.
func (q *QuorumConfig) MarshalBinary() ([]byte, error) {
	if len(q.Beacons) > bridge.MaxBeacons {
		return nil, bridge.ErrTooManyBeacons.Wrapf("%d beacons exceed capacity %d", len(q.Beacons), bridge.MaxBeacons)
	}

	buf := bytes.NewBuffer(make([]byte, 0, QuorumConfigLength))
	enc := bin.NewBinEncoder(buf)
	if err := enc.WriteUint8(boolByte(q.Initialized)); err != nil {
		return nil, err
	}
	if err := enc.WriteUint8(q.BumpSeed); err != nil {
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
	padding := make([]byte, bridge.BeaconLength*(bridge.MaxBeacons-len(q.Beacons)))
	if err := enc.WriteBytes(padding, false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a QuorumConfigLength buffer. Only the first count
// slots are read; whatever the tail holds is ignored.
func (q *QuorumConfig) UnmarshalBinary(data []byte) error {
	if len(data) != QuorumConfigLength {
		return bridge.ErrInvalidAccountData.Wrapf("quorum config is %d bytes, want %d", len(data), QuorumConfigLength)
	}

	dec := bin.NewBinDecoder(data)
	initialized, err := readBool(dec)
	if err != nil {
		return err
	}
	bump, err := dec.ReadUint8()
	if err != nil {
		return bridge.ErrInvalidAccountData.Wrap(err)
	}
	count, err := dec.ReadUint8()
	if err != nil {
		return bridge.ErrInvalidAccountData.Wrap(err)
	}
	if int(count) > bridge.MaxBeacons {
		return bridge.ErrTooManyBeacons.Wrapf("stored beacon count %d exceeds capacity %d", count, bridge.MaxBeacons)
	}

	beacons := make([]bridge.Beacon, count)
	for i := range beacons {
		raw, err := dec.ReadNBytes(bridge.BeaconLength)
		if err != nil {
			return bridge.ErrInvalidAccountData.Wrap(err)
		}
		copy(beacons[i][:], raw)
	}

	q.Initialized = initialized
	q.BumpSeed = bump
	q.Beacons = beacons
	return nil
}

func boolByte(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}

func readBool(dec *bin.Decoder) (bool, error) {
	b, err := dec.ReadUint8()
	if err != nil {
		return false, bridge.ErrInvalidAccountData.Wrap(err)
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, bridge.ErrInvalidBoolValue.Wrapf("byte %#x", b)
	}
}

var byteOrder = binary.LittleEndian
