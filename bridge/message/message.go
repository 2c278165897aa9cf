// Package message builds the canonical withdrawal message the beacons sign and
// recovers beacon keys from their signatures.
package message

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"

	"github.com/ssvlabs/ssv-bridge/bridge"
)

// maxRecoveryID is the largest recovery id secp256k1 recovery accepts.
const maxRecoveryID = 3

// SignData is the canonical withdrawal message. Its JSON form is what the
// beacons hash and sign, so field order and tags are fixed:
//
//	{"amounts":[500],"accounts":[[130,130,...]],"nonce":0}
//
// Accounts are fixed size arrays and therefore encode as arrays of numbers,
// never as base64 strings.
type SignData struct {
	Amounts  []uint64   `json:"amounts"`
	Accounts [][32]byte `json:"accounts"`
	Nonce    uint64     `json:"nonce"`
}

// New builds the message for the given amounts, destination accounts and
// replay counter value.
func New(amounts []uint64, destinations []solana.PublicKey, nonce uint64) *SignData {
	accounts := make([][32]byte, len(destinations))
	for i, d := range destinations {
		accounts[i] = d
	}
	if amounts == nil {
		amounts = []uint64{}
	}
	return &SignData{Amounts: amounts, Accounts: accounts, Nonce: nonce}
}

// Encode returns the canonical JSON bytes.
func (d *SignData) Encode() ([]byte, error) {
	return json.Marshal(d)
}

// Hash returns keccak256 of the canonical encoding.
func (d *SignData) Hash() ([]byte, error) {
	encoded, err := d.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode sign data: %w", err)
	}
	return crypto.Keccak256(encoded), nil
}

// Sign produces a beacon signature over hash: 64 bytes of (r,s) followed by a
// recovery id in 0..3.
func Sign(hash []byte, key *ecdsa.PrivateKey) (bridge.Signature, error) {
	var sig bridge.Signature
	raw, err := crypto.Sign(hash, key)
	if err != nil {
		return sig, err
	}
	copy(sig[:], raw)
	return sig, nil
}

// RecoverBeacon returns the public key that produced sig over hash.
func RecoverBeacon(hash []byte, sig bridge.Signature) (bridge.Beacon, error) {
	var beacon bridge.Beacon
	if sig.RecoveryID() > maxRecoveryID {
		return beacon, bridge.ErrInvalidBeaconSignature.Wrapf("recovery id %d out of range", sig.RecoveryID())
	}
	pub, err := crypto.Ecrecover(hash, sig[:])
	if err != nil {
		return beacon, bridge.ErrInvalidBeaconSignature.Wrap(err)
	}
	// uncompressed keys carry a 0x04 prefix
	if len(pub) != bridge.BeaconLength+1 {
		return beacon, bridge.ErrInvalidBeaconSignature.Wrapf("recovered key has %d bytes", len(pub))
	}
	copy(beacon[:], pub[1:])
	return beacon, nil
}

// VerifyPositional checks that signatures[i] was produced by beacons[i] for
// every i. A valid signature from a quorum member in the wrong slot fails.
func VerifyPositional(hash []byte, signatures []bridge.Signature, beacons []bridge.Beacon) error {
	if len(signatures) > len(beacons) {
		return bridge.ErrInvalidNumberOfSignature.Wrapf("%d signatures for %d beacons", len(signatures), len(beacons))
	}
	for i := range signatures {
		recovered, err := RecoverBeacon(hash, signatures[i])
		if err != nil {
			return fmt.Errorf("signature %d: %w", i, err)
		}
		if recovered != beacons[i] {
			return bridge.ErrInvalidBeaconSignature.Wrapf("signature %d recovered %s, want beacon %s", i, recovered, beacons[i])
		}
	}
	return nil
}

// ParseBeacon validates that raw is a 64-byte uncompressed secp256k1 point.
// A leading 0x04 prefix is accepted and stripped.
func ParseBeacon(raw []byte) (bridge.Beacon, error) {
	var beacon bridge.Beacon
	switch len(raw) {
	case bridge.BeaconLength:
	case bridge.BeaconLength + 1:
		if raw[0] != 0x04 {
			return beacon, fmt.Errorf("unexpected key prefix %#x", raw[0])
		}
		raw = raw[1:]
	default:
		return beacon, fmt.Errorf("beacon key must be %d bytes, got %d", bridge.BeaconLength, len(raw))
	}

	if _, err := btcec.ParsePubKey(append([]byte{0x04}, raw...)); err != nil {
		return beacon, fmt.Errorf("parse beacon key: %w", err)
	}
	copy(beacon[:], raw)
	return beacon, nil
}

// BeaconFromKey returns the beacon identity of pub.
func BeaconFromKey(pub *ecdsa.PublicKey) bridge.Beacon {
	var beacon bridge.Beacon
	copy(beacon[:], crypto.FromECDSAPub(pub)[1:])
	return beacon
}
