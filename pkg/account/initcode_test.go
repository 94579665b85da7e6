package account

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/smartaccount/pkg/entrypoint"
)

var testOwner = common.HexToAddress("0xEAbCC110fAcBfebabC66Ad6f9E7B67288e720B59")

func TestDefaultSalt(t *testing.T) {
	salt := DefaultSalt(testOwner)
	assert.Equal(t, testOwner.Bytes(), salt[:20])
	assert.Equal(t, make([]byte, 12), salt[20:])
}

func TestValidateSalt(t *testing.T) {
	ownerSalt := DefaultSalt(testOwner)
	zeroSalt := [SaltLength]byte{}
	zeroSalt[31] = 0x07

	foreign := [SaltLength]byte{}
	copy(foreign[:20], common.HexToAddress("0x1111111111111111111111111111111111111111").Bytes())

	tests := []struct {
		name    string
		salt    []byte
		wantErr bool
	}{
		{"empty defaults to owner salt", nil, false},
		{"owner-prefixed", ownerSalt[:], false},
		{"zero-prefixed", zeroSalt[:], false},
		{"foreign upper bytes", foreign[:], true},
		{"wrong length", []byte{0x01, 0x02}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateSalt(tc.salt, testOwner)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSalt)
				return
			}
			require.NoError(t, err)
			if tc.salt == nil {
				assert.Equal(t, DefaultSalt(testOwner), got)
			} else {
				assert.Equal(t, tc.salt, got[:])
			}
		})
	}
}

func TestFactoryData(t *testing.T) {
	salt := DefaultSalt(testOwner)
	data, err := FactoryData(testOwner, salt)
	require.NoError(t, err)

	method := entrypoint.FactoryABI.Methods["createAccount"]
	require.Equal(t, method.ID, data[:4])

	args, err := method.Inputs.Unpack(data[4:])
	require.NoError(t, err)
	assert.Equal(t, testOwner, args[0].(common.Address))
	assert.Zero(t, new(big.Int).SetBytes(salt[:]).Cmp(args[1].(*big.Int)))
}

func TestInitCodeLayout(t *testing.T) {
	factory := entrypoint.SimpleAccountFactoryV06
	salt := DefaultSalt(testOwner)

	initCode, err := InitCode(factory, testOwner, salt)
	require.NoError(t, err)

	assert.Equal(t, factory.Bytes(), initCode[:20])
	data, err := FactoryData(testOwner, salt)
	require.NoError(t, err)
	assert.Equal(t, data, initCode[20:])
}
