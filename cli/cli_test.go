package cli

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/ssvlabs/ssv-bridge/bridge"
	"github.com/ssvlabs/ssv-bridge/bridge/instruction"
	"github.com/ssvlabs/ssv-bridge/bridge/message"
)

func generateKeys(t *testing.T, count int) ([]string, []bridge.Beacon) {
	var out bytes.Buffer
	require.NoError(t, writeBeaconKeys(&out, count))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, count)

	keys := make([]string, 0, count)
	beacons := make([]bridge.Beacon, 0, count)
	for i, line := range lines {
		parts := strings.Fields(line)
		require.Len(t, parts, 3)
		require.Equal(t, strconv.Itoa(i), parts[0])

		raw, err := hex.DecodeString(parts[2])
		require.NoError(t, err)
		beacon, err := message.ParseBeacon(raw)
		require.NoError(t, err)

		keys = append(keys, parts[1])
		beacons = append(beacons, beacon)
	}
	return keys, beacons
}

func TestSignWithdrawal(t *testing.T) {
	keys, beacons := generateKeys(t, 4)
	dests := []solana.PublicKey{solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()}
	amounts := []uint64{500, 7}

	var out bytes.Buffer
	err := signWithdrawal(&out, keys[:3], amounts, []string{dests[0].String(), dests[1].String()}, 9)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	require.True(t, strings.HasPrefix(lines[0], "signature 0 "))

	raw, err := hex.DecodeString(strings.TrimPrefix(lines[3], "instruction "))
	require.NoError(t, err)
	decoded, err := instruction.Decode(raw)
	require.NoError(t, err)
	withdraw, ok := decoded.(*instruction.Withdraw)
	require.True(t, ok)
	require.Equal(t, amounts, withdraw.Amounts)
	require.Len(t, withdraw.Signatures, 3)

	hash, err := message.New(amounts, dests, 9).Hash()
	require.NoError(t, err)
	require.NoError(t, message.VerifyPositional(hash, withdraw.Signatures, beacons))

	// the same signatures do not cover another nonce
	other, err := message.New(amounts, dests, 10).Hash()
	require.NoError(t, err)
	require.ErrorIs(t, message.VerifyPositional(other, withdraw.Signatures, beacons), bridge.ErrInvalidBeaconSignature)
}

func TestSignWithdrawalRejects(t *testing.T) {
	keys, _ := generateKeys(t, 1)
	dest := solana.NewWallet().PublicKey().String()

	tt := []struct {
		name  string
		keys  []string
		dests []string
	}{
		{name: "count mismatch", keys: keys, dests: []string{dest, dest}},
		{name: "bad destination", keys: keys, dests: []string{"not-base58-0OIl"}},
		{name: "bad key", keys: []string{"zz"}, dests: []string{dest}},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			require.Error(t, signWithdrawal(&out, tc.keys, []uint64{1}, tc.dests, 0))
			require.Empty(t, out.String())
		})
	}
}
