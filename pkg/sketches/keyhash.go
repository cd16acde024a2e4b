package sketches

import (
	"encoding/binary"

	metro "github.com/dgryski/go-metro"
)

// Seeds for the double mix below. Two passes with different seeds, XORed
// with the second shifted right one bit, reduce the chance that a
// degenerate key defeats a single hash pass.
const (
	mixSeed1 = 0x123456789
	mixSeed2 = 0x987654321
)

// CombineFields packs a two-field record into one 64-bit key: field0 in
// the high 32 bits, field1 in the low 32 bits, both as two's-complement
// bit patterns. The packing is injective, so (3, 7) and (7, 3) yield
// distinct keys. Fields wider than 32 bits have no representation here;
// that is a precondition of the int32 signature, not a truncation rule.
func CombineFields(field0, field1 int32) uint64 {
	return uint64(uint32(field0))<<32 | uint64(uint32(field1))
}

// Mix64 turns a combined key into a well-distributed 64-bit hash with two
// seeded MetroHash passes. Seeds are fixed so estimates are reproducible
// for a fixed data set; there is no cryptographic requirement.
func Mix64(key uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	return metro.Hash64(buf[:], mixSeed1) ^ (metro.Hash64(buf[:], mixSeed2) >> 1)
}
