package signer

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Private key 0x...01 maps to a well-known address.
const (
	keyOne     = "0x0000000000000000000000000000000000000000000000000000000000000001"
	keyOneAddr = "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"
)

func TestFromHex(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"with 0x prefix", keyOne, false},
		{"without prefix", keyOne[2:], false},
		{"surrounding whitespace", "  " + keyOne + "\n", false},
		{"not hex", "0xzz", true},
		{"too short", "0x01", true},
		{"empty", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := FromHex(tc.key)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, common.HexToAddress(keyOneAddr), s.Address())
		})
	}
}

func TestSignHashRecoversOwner(t *testing.T) {
	s, err := FromHex(keyOne)
	require.NoError(t, err)

	hash := crypto.Keccak256Hash([]byte("user operation"))
	sig, err := s.SignHash(context.Background(), hash)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64])

	recovery := make([]byte, 65)
	copy(recovery, sig)
	recovery[64] -= 27
	pub, err := crypto.SigToPub(hash[:], recovery)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), crypto.PubkeyToAddress(*pub))
}

func TestReadOnlySigner(t *testing.T) {
	addr := common.HexToAddress("0xEAbCC110fAcBfebabC66Ad6f9E7B67288e720B59")
	r := ReadOnly(addr)
	assert.Equal(t, addr, r.Address())

	_, err := r.SignHash(context.Background(), common.Hash{})
	assert.ErrorIs(t, err, ErrSigningUnavailable)
}
