package account

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/luxfi/smartaccount/pkg/chain"
	"github.com/luxfi/smartaccount/pkg/entrypoint"
	"github.com/luxfi/smartaccount/pkg/signer"
	"github.com/luxfi/smartaccount/pkg/userop"
)

// deployState tracks whether the account contract exists on-chain. The state
// starts unknown, may be re-checked while not deployed (someone else can
// deploy at any time) and is final once deployed: contract deployment never
// rolls back, so a positive answer is cached forever.
type deployState uint8

const (
	deployUnknown deployState = iota
	deployNotDeployed
	deployDeployed
)

// dummySignature is a 65-byte placeholder with the shape of a real secp256k1
// signature, used by callers for gas estimation before signing.
var dummySignature = append(bytes.Repeat([]byte{0xff}, 64), 0x1c)

// Config carries the collaborators and parameters for a SimpleAccount.
type Config struct {
	// Chain is the chain-query capability. Required.
	Chain chain.Reader
	// Owner signs user-operation hashes and anchors address derivation. Required.
	Owner signer.Signer
	// EntryPoint defaults to the canonical v0.6 deployment.
	EntryPoint common.Address
	// Factory defaults to the canonical v0.6 SimpleAccount factory.
	Factory common.Address
	// Address pins the account address, skipping on-chain derivation.
	Address *common.Address
	// Salt is an optional 32-byte deployment salt; its upper 20 bytes must be
	// the zero address or the owner address. Defaults to owner ++ 12 zero bytes.
	Salt []byte
}

// SimpleAccount is the SimpleAccount.sol variant of SmartAccount: owned by a
// single key, deployed lazily through factory init code, signing nothing but
// user operations.
type SimpleAccount struct {
	chain      chain.Reader
	owner      signer.Signer
	entryPoint common.Address
	factory    common.Address
	address    common.Address
	salt       [SaltLength]byte
	state      deployState
}

var _ SmartAccount = (*SimpleAccount)(nil)

// New validates the configuration, derives the counterfactual address unless
// one was supplied and resolves the initial deployment status. Configuration
// errors surface before any chain I/O.
func New(ctx context.Context, cfg Config) (*SimpleAccount, error) {
	if cfg.Owner == nil {
		return nil, ErrMissingOwner
	}
	if cfg.Chain == nil {
		return nil, ErrMissingChain
	}
	salt, err := ValidateSalt(cfg.Salt, cfg.Owner.Address())
	if err != nil {
		return nil, err
	}

	a := &SimpleAccount{
		chain:      cfg.Chain,
		owner:      cfg.Owner,
		entryPoint: cfg.EntryPoint,
		factory:    cfg.Factory,
		salt:       salt,
	}
	if a.entryPoint == (common.Address{}) {
		a.entryPoint = entrypoint.EntryPointV06
	}
	if a.factory == (common.Address{}) {
		a.factory = entrypoint.SimpleAccountFactoryV06
	}

	if cfg.Address != nil {
		a.address = *cfg.Address
	} else {
		initCode, err := InitCode(a.factory, a.owner.Address(), a.salt)
		if err != nil {
			return nil, err
		}
		addr, err := a.chain.SenderAddress(ctx, initCode)
		if err != nil {
			return nil, err
		}
		if addr == (common.Address{}) {
			return nil, fmt.Errorf("account: derived empty account address")
		}
		a.address = addr
	}

	if err := a.refreshDeployment(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// refreshDeployment re-checks deployment unless it is already known to be
// deployed. False negatives heal on the next check; false positives cannot
// happen because deployment is irreversible.
func (a *SimpleAccount) refreshDeployment(ctx context.Context) error {
	if a.state == deployDeployed {
		return nil
	}
	deployed, err := a.chain.HasCode(ctx, a.address)
	if err != nil {
		return err
	}
	if deployed {
		a.state = deployDeployed
	} else {
		a.state = deployNotDeployed
	}
	return nil
}

// Address implements SmartAccount.
func (a *SimpleAccount) Address() common.Address {
	return a.address
}

// EntryPoint implements SmartAccount.
func (a *SimpleAccount) EntryPoint() common.Address {
	return a.entryPoint
}

// Owner returns the owner signer's address.
func (a *SimpleAccount) Owner() common.Address {
	return a.owner.Address()
}

// GetNonce implements SmartAccount, reading the default (key 0) nonce space.
func (a *SimpleAccount) GetNonce(ctx context.Context) (*big.Int, error) {
	return a.chain.Nonce(ctx, a.address, new(big.Int))
}

// GetInitCode implements SmartAccount.
func (a *SimpleAccount) GetInitCode(ctx context.Context) ([]byte, error) {
	if err := a.refreshDeployment(ctx); err != nil {
		return nil, err
	}
	if a.state == deployDeployed {
		return []byte{}, nil
	}
	return InitCode(a.factory, a.owner.Address(), a.salt)
}

// GetFactory implements SmartAccount.
func (a *SimpleAccount) GetFactory(ctx context.Context) (*common.Address, error) {
	if err := a.refreshDeployment(ctx); err != nil {
		return nil, err
	}
	if a.state == deployDeployed {
		return nil, nil
	}
	factory := a.factory
	return &factory, nil
}

// GetFactoryData implements SmartAccount.
func (a *SimpleAccount) GetFactoryData(ctx context.Context) ([]byte, error) {
	if err := a.refreshDeployment(ctx); err != nil {
		return nil, err
	}
	if a.state == deployDeployed {
		return nil, nil
	}
	return FactoryData(a.owner.Address(), a.salt)
}

// EncodeCallData implements SmartAccount.
func (a *SimpleAccount) EncodeCallData(call Call) ([]byte, error) {
	return EncodeExecute(call)
}

// EncodeBatchCallData implements SmartAccount.
func (a *SimpleAccount) EncodeBatchCallData(calls []Call) ([]byte, error) {
	return EncodeExecuteBatch(calls)
}

// EncodeDeployCallData implements SmartAccount. SimpleAccount deploys
// implicitly through init code on its first user operation.
func (a *SimpleAccount) EncodeDeployCallData() ([]byte, error) {
	return nil, ErrDeployNotSupported
}

// SignUserOperation implements SmartAccount. The canonical hash binds the
// entry point and chain id; the raw digest is signed without any message
// prefix. Only the signature field of op is mutated.
func (a *SimpleAccount) SignUserOperation(ctx context.Context, op *userop.UserOperation) ([]byte, error) {
	chainID, err := a.chain.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	hash, err := op.Hash(a.entryPoint, chainID)
	if err != nil {
		return nil, err
	}
	sig, err := a.owner.SignHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("account: sign user operation: %w", err)
	}
	op.Signature = sig
	return sig, nil
}

// SignMessage implements SmartAccount and always fails.
func (a *SimpleAccount) SignMessage(context.Context, []byte) ([]byte, error) {
	return nil, ErrSignMessageNotSupported
}

// SignTypedData implements SmartAccount and always fails.
func (a *SimpleAccount) SignTypedData(context.Context, apitypes.TypedData) ([]byte, error) {
	return nil, ErrSignTypedDataNotSupported
}

// SignTransaction implements SmartAccount and always fails.
func (a *SimpleAccount) SignTransaction(context.Context, *types.Transaction) ([]byte, error) {
	return nil, ErrSignTransactionNotSupported
}

// DummySignature implements SmartAccount.
func (a *SimpleAccount) DummySignature() []byte {
	out := make([]byte, len(dummySignature))
	copy(out, dummySignature)
	return out
}
