package account

import "errors"

// Configuration errors, raised before any chain I/O.
var (
	ErrMissingOwner = errors.New("account: owner signer is required")
	ErrMissingChain = errors.New("account: chain reader is required")
	ErrInvalidSalt  = errors.New("account: invalid salt")
)

// Capability errors. The simple account variant only signs user operations;
// every other signing path fails permanently, independent of account state.
var (
	ErrSignMessageNotSupported     = errors.New("account: simple account does not support ERC-1271 message signing")
	ErrSignTypedDataNotSupported   = errors.New("account: simple account does not support ERC-1271 typed data signing")
	ErrSignTransactionNotSupported = errors.New("account: transaction signing is not supported by smart accounts")
	ErrDeployNotSupported          = errors.New("account: simple account deploys through its init code, not a deploy call")
)
