package userop

import (
	"golang.org/x/crypto/sha3"
)

// keccak256 computes the legacy Keccak-256 (Ethereum-compatible) digest of the
// concatenation of the given byte slices.
func keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}
