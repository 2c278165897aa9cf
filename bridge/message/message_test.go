package message

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/ssvlabs/ssv-bridge/bridge"
)

var (
	accountA = solana.PublicKey{130, 130, 145, 153, 93, 114, 117, 199, 108, 190, 233, 244, 53, 240, 247, 48, 207, 19, 94, 245, 14, 171, 207, 124, 157, 177, 173, 139, 253, 237, 36, 168}
	accountB = solana.PublicKey{123, 130, 145, 153, 93, 114, 117, 199, 108, 190, 233, 244, 53, 240, 247, 48, 207, 19, 94, 245, 14, 171, 207, 124, 157, 177, 173, 139, 253, 237, 36, 168}
)

func TestEncodeCanonical(t *testing.T) {
	encoded, err := New([]uint64{1, 2}, []solana.PublicKey{accountA, accountB}, 1).Encode()
	require.NoError(t, err)
	require.Equal(t,
		`{"amounts":[1,2],"accounts":[[130,130,145,153,93,114,117,199,108,190,233,244,53,240,247,48,207,19,94,245,14,171,207,124,157,177,173,139,253,237,36,168],[123,130,145,153,93,114,117,199,108,190,233,244,53,240,247,48,207,19,94,245,14,171,207,124,157,177,173,139,253,237,36,168]],"nonce":1}`,
		string(encoded))
}

func TestEncodeEmpty(t *testing.T) {
	encoded, err := New(nil, nil, 0).Encode()
	require.NoError(t, err)
	require.Equal(t, `{"amounts":[],"accounts":[],"nonce":0}`, string(encoded))
}

func TestHashBindsNonce(t *testing.T) {
	h0, err := New([]uint64{500}, []solana.PublicKey{accountA}, 0).Hash()
	require.NoError(t, err)
	h0again, err := New([]uint64{500}, []solana.PublicKey{accountA}, 0).Hash()
	require.NoError(t, err)
	h1, err := New([]uint64{500}, []solana.PublicKey{accountA}, 1).Hash()
	require.NoError(t, err)

	require.Len(t, h0, 32)
	require.Equal(t, h0, h0again)
	require.NotEqual(t, h0, h1)
}

func generateBeacons(t *testing.T, n int) ([]bridge.Beacon, [][]byte) {
	beacons := make([]bridge.Beacon, n)
	keys := make([][]byte, n)
	for i := range beacons {
		sk, err := crypto.GenerateKey()
		require.NoError(t, err)
		beacons[i] = BeaconFromKey(&sk.PublicKey)
		keys[i] = crypto.FromECDSA(sk)
	}
	return beacons, keys
}

func signAll(t *testing.T, hash []byte, keys [][]byte) []bridge.Signature {
	sigs := make([]bridge.Signature, len(keys))
	for i, raw := range keys {
		sk, err := crypto.ToECDSA(raw)
		require.NoError(t, err)
		sigs[i], err = Sign(hash, sk)
		require.NoError(t, err)
		require.LessOrEqual(t, sigs[i].RecoveryID(), byte(1))
	}
	return sigs
}

func TestRecoverBeacon(t *testing.T) {
	beacons, keys := generateBeacons(t, 1)
	hash, err := New([]uint64{500}, []solana.PublicKey{accountA}, 0).Hash()
	require.NoError(t, err)

	sig := signAll(t, hash, keys)[0]
	recovered, err := RecoverBeacon(hash, sig)
	require.NoError(t, err)
	require.Equal(t, beacons[0], recovered)

	sig[bridge.RecoveryIDOffset] = 4
	_, err = RecoverBeacon(hash, sig)
	require.ErrorIs(t, err, bridge.ErrInvalidBeaconSignature)

	_, err = RecoverBeacon(hash, bridge.Signature{})
	require.ErrorIs(t, err, bridge.ErrInvalidBeaconSignature)
}

func TestVerifyPositional(t *testing.T) {
	beacons, keys := generateBeacons(t, 3)
	hash, err := New([]uint64{500}, []solana.PublicKey{accountA}, 7).Hash()
	require.NoError(t, err)
	sigs := signAll(t, hash, keys)

	require.NoError(t, VerifyPositional(hash, sigs, beacons))
	require.NoError(t, VerifyPositional(hash, sigs[:2], beacons))

	t.Run("member in wrong slot", func(t *testing.T) {
		swapped := []bridge.Signature{sigs[1], sigs[0], sigs[2]}
		require.ErrorIs(t, VerifyPositional(hash, swapped, beacons), bridge.ErrInvalidBeaconSignature)
	})

	t.Run("signature over other nonce", func(t *testing.T) {
		other, err := New([]uint64{500}, []solana.PublicKey{accountA}, 8).Hash()
		require.NoError(t, err)
		require.ErrorIs(t, VerifyPositional(other, sigs, beacons), bridge.ErrInvalidBeaconSignature)
	})

	t.Run("more signatures than beacons", func(t *testing.T) {
		extra := append(append([]bridge.Signature{}, sigs...), sigs[0])
		require.ErrorIs(t, VerifyPositional(hash, extra, beacons), bridge.ErrInvalidNumberOfSignature)
	})
}

func TestParseBeacon(t *testing.T) {
	beacons, _ := generateBeacons(t, 1)

	parsed, err := ParseBeacon(beacons[0][:])
	require.NoError(t, err)
	require.Equal(t, beacons[0], parsed)

	parsed, err = ParseBeacon(append([]byte{0x04}, beacons[0][:]...))
	require.NoError(t, err)
	require.Equal(t, beacons[0], parsed)

	_, err = ParseBeacon(make([]byte, bridge.BeaconLength))
	require.Error(t, err)

	_, err = ParseBeacon(beacons[0][:10])
	require.Error(t, err)

	_, err = ParseBeacon(append([]byte{0x02}, beacons[0][:]...))
	require.Error(t, err)
}
