package chain

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/smartaccount/pkg/entrypoint"
)

// jsonRPCError mimics the error shape go-ethereum returns for reverting calls.
type jsonRPCError struct {
	msg  string
	data interface{}
}

func (e *jsonRPCError) Error() string          { return e.msg }
func (e *jsonRPCError) ErrorData() interface{} { return e.data }

func TestRevertData(t *testing.T) {
	payload := hexutil.Encode([]byte{0xde, 0xad, 0xbe, 0xef})

	data, ok := revertData(&jsonRPCError{msg: "execution reverted", data: payload})
	require.True(t, ok)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, data)

	// wrapped errors unwrap to the data-carrying one
	wrapped := fmt.Errorf("call failed: %w", &jsonRPCError{msg: "execution reverted", data: payload})
	data, ok = revertData(wrapped)
	require.True(t, ok)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, data)

	_, ok = revertData(fmt.Errorf("connection refused"))
	assert.False(t, ok)

	_, ok = revertData(&jsonRPCError{msg: "reverted", data: 42})
	assert.False(t, ok)

	_, ok = revertData(&jsonRPCError{msg: "reverted", data: "not hex"})
	assert.False(t, ok)
}

func TestRevertDataCarriesSenderAddressResult(t *testing.T) {
	sender := common.HexToAddress("0xEAbCC110fAcBfebabC66Ad6f9E7B67288e720B59")
	e := entrypoint.EntryPointABI.Errors["SenderAddressResult"]
	packed, err := e.Inputs.Pack(sender)
	require.NoError(t, err)
	revert := append(e.ID[:4], packed...)

	data, ok := revertData(&jsonRPCError{msg: "execution reverted", data: hexutil.Encode(revert)})
	require.True(t, ok)

	got, err := entrypoint.DecodeSenderAddressResult(data)
	require.NoError(t, err)
	assert.Equal(t, sender, got)
}
