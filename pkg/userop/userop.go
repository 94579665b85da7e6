// Package userop models ERC-4337 user operations (EntryPoint v0.6 field set)
// and computes the canonical hash an account owner signs. The JSON encoding
// uses hexutil quantities so operations round-trip through bundler RPC
// payloads unchanged.
package userop

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// UserOperation is an ERC-4337 meta-transaction. It is built by a higher-level
// caller; this package only hashes it. The signature field is the single field
// the smart-account adapter fills in.
type UserOperation struct {
	Sender               common.Address `json:"sender"`
	Nonce                *hexutil.Big   `json:"nonce"`
	InitCode             hexutil.Bytes  `json:"initCode"`
	CallData             hexutil.Bytes  `json:"callData"`
	CallGasLimit         *hexutil.Big   `json:"callGasLimit"`
	VerificationGasLimit *hexutil.Big   `json:"verificationGasLimit"`
	PreVerificationGas   *hexutil.Big   `json:"preVerificationGas"`
	MaxFeePerGas         *hexutil.Big   `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big   `json:"maxPriorityFeePerGas"`
	PaymasterAndData     hexutil.Bytes  `json:"paymasterAndData"`
	Signature            hexutil.Bytes  `json:"signature"`
}

var (
	typAddress = mustType("address")
	typUint256 = mustType("uint256")
	typBytes32 = mustType("bytes32")
)

func mustType(s string) abi.Type {
	t, err := abi.NewType(s, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

var packArgs = abi.Arguments{
	{Name: "sender", Type: typAddress},
	{Name: "nonce", Type: typUint256},
	{Name: "hashInitCode", Type: typBytes32},
	{Name: "hashCallData", Type: typBytes32},
	{Name: "callGasLimit", Type: typUint256},
	{Name: "verificationGasLimit", Type: typUint256},
	{Name: "preVerificationGas", Type: typUint256},
	{Name: "maxFeePerGas", Type: typUint256},
	{Name: "maxPriorityFeePerGas", Type: typUint256},
	{Name: "hashPaymasterAndData", Type: typBytes32},
}

var hashArgs = abi.Arguments{
	{Name: "userOpHash", Type: typBytes32},
	{Name: "entryPoint", Type: typAddress},
	{Name: "chainId", Type: typUint256},
}

// Pack ABI-encodes the operation the way EntryPoint v0.6 does before hashing:
// dynamic byte fields are replaced by their keccak256 digests, everything else
// occupies a 32-byte slot. The signature is deliberately excluded.
func (op *UserOperation) Pack() ([]byte, error) {
	packed, err := packArgs.Pack(
		op.Sender,
		bigOrZero(op.Nonce),
		common.BytesToHash(keccak256(op.InitCode)),
		common.BytesToHash(keccak256(op.CallData)),
		bigOrZero(op.CallGasLimit),
		bigOrZero(op.VerificationGasLimit),
		bigOrZero(op.PreVerificationGas),
		bigOrZero(op.MaxFeePerGas),
		bigOrZero(op.MaxPriorityFeePerGas),
		common.BytesToHash(keccak256(op.PaymasterAndData)),
	)
	if err != nil {
		return nil, fmt.Errorf("userop: pack: %w", err)
	}
	return packed, nil
}

// Hash computes the canonical user-operation hash:
// keccak256(abi.encode(keccak256(pack(op)), entryPoint, chainID)).
// Binding the entry point and chain id makes signatures non-replayable across
// chains and entry-point deployments.
func (op *UserOperation) Hash(entryPoint common.Address, chainID *big.Int) (common.Hash, error) {
	if chainID == nil {
		return common.Hash{}, fmt.Errorf("userop: chain id is required")
	}
	packed, err := op.Pack()
	if err != nil {
		return common.Hash{}, err
	}
	outer, err := hashArgs.Pack(common.BytesToHash(keccak256(packed)), entryPoint, chainID)
	if err != nil {
		return common.Hash{}, fmt.Errorf("userop: pack hash envelope: %w", err)
	}
	return common.BytesToHash(keccak256(outer)), nil
}

func bigOrZero(b *hexutil.Big) *big.Int {
	if b == nil {
		return new(big.Int)
	}
	return b.ToInt()
}
