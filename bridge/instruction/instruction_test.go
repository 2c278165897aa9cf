package instruction

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssvlabs/ssv-bridge/bridge"
)

func TestDecodeDeposit(t *testing.T) {
	data := append([]byte{0x00, 0xe8, 0x03, 0, 0, 0, 0, 0, 0}, make([]byte, 20)...)

	ix, err := Decode(data)
	require.NoError(t, err)

	deposit, ok := ix.(*Deposit)
	require.True(t, ok)
	require.EqualValues(t, 1000, deposit.Amount)
	require.Equal(t, bridge.DestinationAddress{}, deposit.Destination)
	require.Equal(t, TagDeposit, deposit.Tag())
}

func TestDecodeWithdraw(t *testing.T) {
	sigs := make([]bridge.Signature, 3)
	for i := range sigs {
		sigs[i][0] = byte(i + 1)
		sigs[i][bridge.RecoveryIDOffset] = byte(i % 2)
	}

	data := []byte{0x01, 0x02}
	data = binary.LittleEndian.AppendUint64(data, 500)
	data = binary.LittleEndian.AppendUint64(data, 700)
	data = append(data, 0x03)
	for i := range sigs {
		data = append(data, sigs[i][:]...)
	}

	ix, err := Decode(data)
	require.NoError(t, err)

	withdraw, ok := ix.(*Withdraw)
	require.True(t, ok)
	require.Equal(t, []uint64{500, 700}, withdraw.Amounts)
	require.Equal(t, sigs, withdraw.Signatures)

	encoded, err := withdraw.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, data, encoded)
}

func TestDecodeInitQuorum(t *testing.T) {
	beacons := make([]bridge.Beacon, 2)
	beacons[0][0], beacons[1][63] = 0xaa, 0xbb

	in := &InitQuorum{Beacons: beacons}
	data, err := in.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, 2+2*bridge.BeaconLength)

	ix, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, in, ix)
}

func TestDecodeErrors(t *testing.T) {
	tt := []struct {
		name string
		data []byte
		err  error
	}{
		{name: "empty", data: nil, err: bridge.ErrInvalidInstruction},
		{name: "unknown tag", data: []byte{0x03}, err: bridge.ErrInvalidInstruction},
		{name: "unknown tag with payload", data: bytes.Repeat([]byte{0xff}, 40), err: bridge.ErrInvalidInstruction},
		{name: "deposit without amount", data: []byte{0x00, 0x01, 0x02}, err: bridge.ErrInstructionUnpack},
		{name: "deposit short address", data: append([]byte{0x00}, make([]byte, 8+19)...), err: bridge.ErrInstructionUnpack},
		{name: "withdraw without count", data: []byte{0x01}, err: bridge.ErrInstructionUnpack},
		{name: "withdraw short amounts", data: append([]byte{0x01, 0x02}, make([]byte, 15)...), err: bridge.ErrInstructionUnpack},
		{name: "withdraw without signature count", data: append([]byte{0x01, 0x01}, make([]byte, 8)...), err: bridge.ErrInstructionUnpack},
		{name: "withdraw short signature", data: append([]byte{0x01, 0x00, 0x01}, make([]byte, 64)...), err: bridge.ErrInstructionUnpack},
		{name: "init quorum without count", data: []byte{0x02}, err: bridge.ErrInstructionUnpack},
		{name: "init quorum short beacon", data: append([]byte{0x02, 0x02}, make([]byte, 64+63)...), err: bridge.ErrInstructionUnpack},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			ix, err := Decode(tc.data)
			require.ErrorIs(t, err, tc.err)
			require.Nil(t, ix)
		})
	}
}

func TestDecodeIgnoresTrailingBytes(t *testing.T) {
	data, err := (&Deposit{Amount: 42, Destination: bridge.DestinationAddress{'a', 'b'}}).MarshalBinary()
	require.NoError(t, err)

	ix, err := Decode(append(data, 0xde, 0xad, 0xbe, 0xef))
	require.NoError(t, err)
	require.EqualValues(t, 42, ix.(*Deposit).Amount)

	ix, err = Decode([]byte{0x01, 0x00, 0x00, 0x99})
	require.NoError(t, err)
	require.Empty(t, ix.(*Withdraw).Amounts)
	require.Empty(t, ix.(*Withdraw).Signatures)
}

func TestEncodeRejectsOversizedCounts(t *testing.T) {
	_, err := (&Withdraw{Amounts: make([]uint64, 256)}).MarshalBinary()
	require.ErrorIs(t, err, bridge.ErrInstructionUnpack)

	_, err = (&Withdraw{Signatures: make([]bridge.Signature, 256)}).MarshalBinary()
	require.ErrorIs(t, err, bridge.ErrInstructionUnpack)

	_, err = (&InitQuorum{Beacons: make([]bridge.Beacon, 256)}).MarshalBinary()
	require.ErrorIs(t, err, bridge.ErrInstructionUnpack)
}
