// Package signer provides the owner-key signing capability the smart-account
// adapter consumes. The adapter only ever needs an address and a raw-hash
// signature; anything that can produce those (a local key, an HSM, an MPC
// quorum) can stand behind the Signer interface.
package signer

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer signs raw 32-byte digests with an owner key.
type Signer interface {
	// Address returns the Ethereum address of the owner key.
	Address() common.Address
	// SignHash signs the raw digest and returns a 65-byte r||s||v signature
	// with v normalized to 27/28.
	SignHash(ctx context.Context, hash common.Hash) ([]byte, error)
}

// ErrSigningUnavailable is returned by watch-only signers.
var ErrSigningUnavailable = fmt.Errorf("signer: signing unavailable for watch-only owner")

// LocalSigner signs with an in-memory secp256k1 private key.
type LocalSigner struct {
	priv *secp256k1.PrivateKey
	addr common.Address
}

// NewLocalSigner wraps an existing private key.
func NewLocalSigner(priv *secp256k1.PrivateKey) *LocalSigner {
	return &LocalSigner{
		priv: priv,
		addr: crypto.PubkeyToAddress(priv.ToECDSA().PublicKey),
	}
}

// FromHex parses a 32-byte hex private key (0x prefix optional).
func FromHex(s string) (*LocalSigner, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("signer: invalid private key hex: %w", err)
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("signer: private key must be 32 bytes, got %d", len(b))
	}
	return NewLocalSigner(secp256k1.PrivKeyFromBytes(b)), nil
}

// Address implements Signer.
func (s *LocalSigner) Address() common.Address {
	return s.addr
}

// SignHash implements Signer.
func (s *LocalSigner) SignHash(_ context.Context, hash common.Hash) ([]byte, error) {
	sig, err := crypto.Sign(hash[:], s.priv.ToECDSA())
	if err != nil {
		return nil, fmt.Errorf("signer: sign hash: %w", err)
	}
	// crypto.Sign returns the recovery id as 0/1; wallets and the EntryPoint
	// expect the legacy 27/28 encoding.
	sig[64] += 27
	return sig, nil
}

// ReadOnly is a watch-only signer for operations that need the owner address
// but never a signature (address derivation, init-code inspection).
type ReadOnly common.Address

// Address implements Signer.
func (r ReadOnly) Address() common.Address {
	return common.Address(r)
}

// SignHash implements Signer and always fails.
func (r ReadOnly) SignHash(context.Context, common.Hash) ([]byte, error) {
	return nil, ErrSigningUnavailable
}
