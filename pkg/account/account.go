// Package account implements the ERC-4337 smart-account adapter: deterministic
// counterfactual address derivation, factory init code, execute/executeBatch
// call encoding, lazy deployment tracking and user-operation signing, composed
// behind the SmartAccount interface. One concrete variant exists today, the
// canonical SimpleAccount; sibling variants implement the same interface.
package account

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/luxfi/smartaccount/pkg/userop"
)

// Call is a single invocation the account should perform: a target, an ETH
// value and calldata. Zero values and empty data are legal.
type Call struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}

// SmartAccount is the uniform contract every account variant exposes to the
// smart-account client orchestration above it.
type SmartAccount interface {
	// Address returns the account's (possibly counterfactual) address.
	Address() common.Address
	// EntryPoint returns the entry-point contract this account validates
	// user operations against.
	EntryPoint() common.Address
	// GetNonce reads the current EntryPoint nonce for the account.
	GetNonce(ctx context.Context) (*big.Int, error)
	// GetInitCode returns factory address ++ creation calldata while the
	// account is undeployed, and empty bytes once it is deployed.
	GetInitCode(ctx context.Context) ([]byte, error)
	// GetFactory returns the factory address while the account is
	// undeployed, and nil once it is deployed.
	GetFactory(ctx context.Context) (*common.Address, error)
	// GetFactoryData returns the creation calldata while the account is
	// undeployed, and nil once it is deployed.
	GetFactoryData(ctx context.Context) ([]byte, error)
	// EncodeCallData encodes a single call into the account's execute entry.
	EncodeCallData(call Call) ([]byte, error)
	// EncodeBatchCallData encodes an ordered batch, empty batches included,
	// into the account's executeBatch entry.
	EncodeBatchCallData(calls []Call) ([]byte, error)
	// EncodeDeployCallData fails for variants that deploy implicitly via
	// init code.
	EncodeDeployCallData() ([]byte, error)
	// SignUserOperation computes the canonical user-operation hash, signs it
	// with the owner key, stores the signature on the operation and returns
	// the raw signature bytes.
	SignUserOperation(ctx context.Context, op *userop.UserOperation) ([]byte, error)
	// SignMessage fails for variants without ERC-1271 support.
	SignMessage(ctx context.Context, msg []byte) ([]byte, error)
	// SignTypedData fails for variants without ERC-1271 support.
	SignTypedData(ctx context.Context, td apitypes.TypedData) ([]byte, error)
	// SignTransaction always fails: smart accounts do not sign legacy
	// transactions.
	SignTransaction(ctx context.Context, tx *types.Transaction) ([]byte, error)
	// DummySignature returns a fixed placeholder of the correct byte length
	// for gas estimation before a real signature exists.
	DummySignature() []byte
}
