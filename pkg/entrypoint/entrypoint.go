// Package entrypoint holds the on-chain contract surface the adapter talks to:
// the ERC-4337 EntryPoint v0.6, the SimpleAccount factory and the account
// contract itself. Calldata building and result decoding go through the
// go-ethereum ABI codec; nothing here performs I/O.
package entrypoint

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Well-known contract addresses (same across all EVM chains for v0.6).
var (
	EntryPointV06           = common.HexToAddress("0x5FF137D4b0FDCD49DcA30c7CF57E578a026d2789")
	SimpleAccountFactoryV06 = common.HexToAddress("0x9406Cc6185a346906296840746125a0E44976454")
)

const entryPointJSON = `[
{"type":"function","name":"getNonce","stateMutability":"view","inputs":[{"name":"sender","type":"address"},{"name":"key","type":"uint192"}],"outputs":[{"name":"nonce","type":"uint256"}]},
{"type":"function","name":"getSenderAddress","stateMutability":"nonpayable","inputs":[{"name":"initCode","type":"bytes"}],"outputs":[]},
{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"error","name":"SenderAddressResult","inputs":[{"name":"sender","type":"address"}]}
]`

const factoryJSON = `[
{"type":"function","name":"createAccount","stateMutability":"nonpayable","inputs":[{"name":"owner","type":"address"},{"name":"salt","type":"uint256"}],"outputs":[{"name":"ret","type":"address"}]},
{"type":"function","name":"getAddress","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"salt","type":"uint256"}],"outputs":[{"name":"","type":"address"}]}
]`

const accountJSON = `[
{"type":"function","name":"execute","stateMutability":"nonpayable","inputs":[{"name":"dest","type":"address"},{"name":"value","type":"uint256"},{"name":"func","type":"bytes"}],"outputs":[]},
{"type":"function","name":"executeBatch","stateMutability":"nonpayable","inputs":[{"name":"dest","type":"address[]"},{"name":"value","type":"uint256[]"},{"name":"func","type":"bytes[]"}],"outputs":[]}
]`

// Parsed ABIs, exported so callers (and tests) can unpack what they packed.
var (
	EntryPointABI = mustParse(entryPointJSON)
	FactoryABI    = mustParse(factoryJSON)
	AccountABI    = mustParse(accountJSON)
)

func mustParse(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}

// PackGetNonce builds getNonce(sender, key) calldata. The zero key is the
// default sequential nonce space.
func PackGetNonce(sender common.Address, key *big.Int) ([]byte, error) {
	if key == nil {
		key = new(big.Int)
	}
	return EntryPointABI.Pack("getNonce", sender, key)
}

// UnpackNonce decodes the getNonce return value.
func UnpackNonce(ret []byte) (*big.Int, error) {
	out, err := EntryPointABI.Unpack("getNonce", ret)
	if err != nil {
		return nil, fmt.Errorf("entrypoint: decode getNonce result: %w", err)
	}
	return out[0].(*big.Int), nil
}

// PackGetSenderAddress builds getSenderAddress(initCode) calldata. The call
// always reverts; the counterfactual sender comes back in the revert data.
func PackGetSenderAddress(initCode []byte) ([]byte, error) {
	return EntryPointABI.Pack("getSenderAddress", initCode)
}

// DecodeSenderAddressResult extracts the sender address from the
// SenderAddressResult(address) revert payload of getSenderAddress.
func DecodeSenderAddressResult(revert []byte) (common.Address, error) {
	e := EntryPointABI.Errors["SenderAddressResult"]
	if len(revert) < 4 || string(revert[:4]) != string(e.ID[:4]) {
		return common.Address{}, fmt.Errorf("entrypoint: unexpected revert data %#x", revert)
	}
	out, err := e.Inputs.Unpack(revert[4:])
	if err != nil {
		return common.Address{}, fmt.Errorf("entrypoint: decode SenderAddressResult: %w", err)
	}
	return out[0].(common.Address), nil
}

// PackCreateAccount builds the factory's createAccount(owner, salt) calldata.
func PackCreateAccount(owner common.Address, salt *big.Int) ([]byte, error) {
	if salt == nil {
		salt = new(big.Int)
	}
	return FactoryABI.Pack("createAccount", owner, salt)
}

// PackExecute builds execute(dest, value, func) calldata for the account.
func PackExecute(dest common.Address, value *big.Int, data []byte) ([]byte, error) {
	if value == nil {
		value = new(big.Int)
	}
	return AccountABI.Pack("execute", dest, value, data)
}

// PackExecuteBatch builds executeBatch(dest[], value[], func[]) calldata.
// The three slices must have equal length; an empty batch is legal.
func PackExecuteBatch(dest []common.Address, value []*big.Int, data [][]byte) ([]byte, error) {
	if len(dest) != len(value) || len(dest) != len(data) {
		return nil, fmt.Errorf("entrypoint: batch length mismatch: %d dest, %d value, %d data",
			len(dest), len(value), len(data))
	}
	return AccountABI.Pack("executeBatch", dest, value, data)
}
