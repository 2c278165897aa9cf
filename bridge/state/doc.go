// Package state implements the fixed-layout records the bridge persists.
//
// Storage for both records is allocated once at bootstrap with exactly
// QuorumConfigLength and ReplayCounterLength bytes, so the layouts below must
// never change shape:
//
//	QuorumConfig  | initialized u8 | bump u8 | count u8 | 20 x 64-byte beacon slots |
//	ReplayCounter | initialized u8 | counter u64 LE |
package state
