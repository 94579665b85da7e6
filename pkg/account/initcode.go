package account

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/luxfi/smartaccount/pkg/entrypoint"
)

// SaltLength is the size of a deployment salt in bytes.
const SaltLength = 32

var zeroAddress common.Address

// DefaultSalt derives the deployment salt used when none is supplied: the
// owner address followed by a 12-byte zero suffix. Tying the default salt to
// the owner keeps one deterministic account per owner key.
func DefaultSalt(owner common.Address) [SaltLength]byte {
	var salt [SaltLength]byte
	copy(salt[:common.AddressLength], owner.Bytes())
	return salt
}

// ValidateSalt enforces the salt policy: the upper 20 bytes must equal either
// the zero address or the owner address. Anything else is a configuration
// error, caught before any encoding or chain I/O.
func ValidateSalt(salt []byte, owner common.Address) ([SaltLength]byte, error) {
	var out [SaltLength]byte
	if len(salt) == 0 {
		return DefaultSalt(owner), nil
	}
	if len(salt) != SaltLength {
		return out, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidSalt, SaltLength, len(salt))
	}
	upper := salt[:common.AddressLength]
	if !bytes.Equal(upper, zeroAddress.Bytes()) && !bytes.Equal(upper, owner.Bytes()) {
		return out, fmt.Errorf("%w: upper 20 bytes must be the zero address or the owner address", ErrInvalidSalt)
	}
	copy(out[:], salt)
	return out, nil
}

// FactoryData encodes the factory's createAccount(owner, salt) call.
func FactoryData(owner common.Address, salt [SaltLength]byte) ([]byte, error) {
	data, err := entrypoint.PackCreateAccount(owner, new(big.Int).SetBytes(salt[:]))
	if err != nil {
		return nil, fmt.Errorf("account: encode createAccount: %w", err)
	}
	return data, nil
}

// InitCode builds the counterfactual init code: the factory address followed
// by the encoded creation call.
func InitCode(factory, owner common.Address, salt [SaltLength]byte) ([]byte, error) {
	data, err := FactoryData(owner, salt)
	if err != nil {
		return nil, err
	}
	initCode := make([]byte, 0, common.AddressLength+len(data))
	initCode = append(initCode, factory.Bytes()...)
	initCode = append(initCode, data...)
	return initCode, nil
}
