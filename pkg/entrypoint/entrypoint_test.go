package entrypoint

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackGetNonceRoundTrip(t *testing.T) {
	sender := common.HexToAddress("0xEAbCC110fAcBfebabC66Ad6f9E7B67288e720B59")

	data, err := PackGetNonce(sender, big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, EntryPointABI.Methods["getNonce"].ID, data[:4])

	args, err := EntryPointABI.Methods["getNonce"].Inputs.Unpack(data[4:])
	require.NoError(t, err)
	assert.Equal(t, sender, args[0].(common.Address))
	assert.Zero(t, big.NewInt(7).Cmp(args[1].(*big.Int)))

	// nil key defaults to the sequential nonce space
	data, err = PackGetNonce(sender, nil)
	require.NoError(t, err)
	args, err = EntryPointABI.Methods["getNonce"].Inputs.Unpack(data[4:])
	require.NoError(t, err)
	assert.Zero(t, args[1].(*big.Int).Sign())
}

func TestUnpackNonce(t *testing.T) {
	want := big.NewInt(42)
	ret, err := EntryPointABI.Methods["getNonce"].Outputs.Pack(want)
	require.NoError(t, err)

	got, err := UnpackNonce(ret)
	require.NoError(t, err)
	assert.Zero(t, want.Cmp(got))

	_, err = UnpackNonce([]byte{0x01})
	assert.Error(t, err)
}

func TestDecodeSenderAddressResult(t *testing.T) {
	sender := common.HexToAddress("0xd9Db270c1B5E3Bd161E8c8503c55cEABeE709552")
	e := EntryPointABI.Errors["SenderAddressResult"]
	payload, err := e.Inputs.Pack(sender)
	require.NoError(t, err)
	revert := append(e.ID[:4], payload...)

	got, err := DecodeSenderAddressResult(revert)
	require.NoError(t, err)
	assert.Equal(t, sender, got)
}

func TestDecodeSenderAddressResultRejectsForeignRevert(t *testing.T) {
	_, err := DecodeSenderAddressResult(nil)
	assert.Error(t, err)

	// Error(string) selector, not SenderAddressResult
	_, err = DecodeSenderAddressResult([]byte{0x08, 0xc3, 0x79, 0xa0})
	assert.Error(t, err)
}

func TestPackExecuteBatchLengthMismatch(t *testing.T) {
	_, err := PackExecuteBatch(
		[]common.Address{{}},
		nil,
		nil,
	)
	assert.ErrorContains(t, err, "batch length mismatch")
}
