package bridge

import (
	"encoding/hex"
	"unicode/utf8"
)

const (
	// MaxBeacons is the fixed capacity of the on-chain beacon list.
	MaxBeacons = 20

	BeaconLength             = 64
	SignatureLength          = 65
	DestinationAddressLength = 20
	// RecoveryIDOffset is the position of the recovery id inside a Signature.
	RecoveryIDOffset = 64
)

// Beacon is an uncompressed secp256k1 public key without the 0x04 prefix.
type Beacon [BeaconLength]byte

func (b Beacon) String() string {
	return hex.EncodeToString(b[:])
}

// Signature is a 64-byte (r,s) pair followed by a one byte recovery id.
type Signature [SignatureLength]byte

// RecoveryID returns the trailing recovery byte.
func (s Signature) RecoveryID() byte {
	return s[RecoveryIDOffset]
}

// DestinationAddress is the address on the destination chain a deposit is credited to.
type DestinationAddress [DestinationAddressLength]byte

// Text renders the address the way the beacon network reads it off the deposit log.
func (a DestinationAddress) Text() (string, bool) {
	if !utf8.Valid(a[:]) {
		return "", false
	}
	return string(a[:]), true
}

// QuorumThreshold returns the number of signatures that must be exceeded for a
// withdrawal over beaconCount beacons. The division truncates.
func QuorumThreshold(beaconCount int) int {
	return beaconCount * 2 / 3
}

// HasQuorum reports whether signatureCount strictly exceeds QuorumThreshold.
func HasQuorum(signatureCount, beaconCount int) bool {
	return signatureCount > QuorumThreshold(beaconCount)
}
