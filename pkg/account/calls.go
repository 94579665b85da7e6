package account

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"github.com/luxfi/smartaccount/pkg/entrypoint"
)

// EncodeExecute encodes one call into execute(dest, value, func) calldata.
// Call contents are passed through untouched; zero value and empty data are
// both legal.
func EncodeExecute(call Call) ([]byte, error) {
	data, err := entrypoint.PackExecute(call.To, call.Value, call.Data)
	if err != nil {
		return nil, fmt.Errorf("account: encode execute: %w", err)
	}
	return data, nil
}

// EncodeExecuteBatch encodes an ordered list of calls into
// executeBatch(dest[], value[], func[]) calldata. An empty batch encodes to
// three empty arrays.
func EncodeExecuteBatch(calls []Call) ([]byte, error) {
	dest := lo.Map(calls, func(c Call, _ int) common.Address { return c.To })
	value := lo.Map(calls, func(c Call, _ int) *big.Int {
		if c.Value == nil {
			return new(big.Int)
		}
		return c.Value
	})
	data := lo.Map(calls, func(c Call, _ int) []byte {
		if c.Data == nil {
			return []byte{}
		}
		return c.Data
	})
	packed, err := entrypoint.PackExecuteBatch(dest, value, data)
	if err != nil {
		return nil, fmt.Errorf("account: encode executeBatch: %w", err)
	}
	return packed, nil
}
