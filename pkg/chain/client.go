// Package chain implements the chain-query capability behind the smart-account
// adapter: counterfactual sender lookup, EntryPoint nonce reads and contract
// code-existence checks over Ethereum JSON-RPC. Failures surface to the caller
// unchanged; retry and timeout policy belong to whoever dials.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/avast/retry-go"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/luxfi/smartaccount/pkg/entrypoint"
)

// Reader is the narrow view of a chain node the account facade needs.
type Reader interface {
	// SenderAddress resolves the counterfactual account address for the given
	// init code via the EntryPoint's getSenderAddress query.
	SenderAddress(ctx context.Context, initCode []byte) (common.Address, error)
	// Nonce reads the EntryPoint nonce for (sender, key).
	Nonce(ctx context.Context, sender common.Address, key *big.Int) (*big.Int, error)
	// HasCode reports whether contract code exists at addr in the latest state.
	HasCode(ctx context.Context, addr common.Address) (bool, error)
	// ChainID returns the chain id of the connected node.
	ChainID(ctx context.Context) (*big.Int, error)
}

// Client implements Reader over a go-ethereum RPC connection.
type Client struct {
	eth        *ethclient.Client
	entryPoint common.Address
	chainID    *big.Int
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger attaches a logger for debug-level RPC tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithEntryPoint overrides the default EntryPoint v0.6 address.
func WithEntryPoint(addr common.Address) Option {
	return func(c *Client) { c.entryPoint = addr }
}

// Dial connects to an Ethereum JSON-RPC endpoint, retrying transient dial
// failures, and caches the node's chain id.
func Dial(ctx context.Context, url string, opts ...Option) (*Client, error) {
	c := &Client{
		entryPoint: entrypoint.EntryPointV06,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	err := retry.Do(
		func() error {
			eth, err := ethclient.DialContext(ctx, url)
			if err != nil {
				return err
			}
			chainID, err := eth.ChainID(ctx)
			if err != nil {
				eth.Close()
				return err
			}
			c.eth = eth
			c.chainID = chainID
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("chain: dial %s: %w", url, err)
	}
	c.log.Debug().Str("url", url).Str("chain_id", c.chainID.String()).Msg("connected to chain node")
	return c, nil
}

// NewClient wraps an already-dialed ethclient connection.
func NewClient(eth *ethclient.Client, opts ...Option) *Client {
	c := &Client{
		eth:        eth,
		entryPoint: entrypoint.EntryPointV06,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// EntryPoint returns the EntryPoint address this client queries.
func (c *Client) EntryPoint() common.Address {
	return c.entryPoint
}

// SenderAddress implements Reader. getSenderAddress always reverts with
// SenderAddressResult(address); the address lives in the revert data.
func (c *Client) SenderAddress(ctx context.Context, initCode []byte) (common.Address, error) {
	data, err := entrypoint.PackGetSenderAddress(initCode)
	if err != nil {
		return common.Address{}, err
	}
	reqID := uuid.NewString()
	c.log.Debug().Str("req", reqID).Int("init_code_len", len(initCode)).Msg("querying counterfactual sender")

	_, callErr := c.eth.CallContract(ctx, ethereum.CallMsg{To: &c.entryPoint, Data: data}, nil)
	if callErr == nil {
		return common.Address{}, fmt.Errorf("chain: getSenderAddress did not revert")
	}
	revert, ok := revertData(callErr)
	if !ok {
		return common.Address{}, fmt.Errorf("chain: getSenderAddress: %w", callErr)
	}
	sender, err := entrypoint.DecodeSenderAddressResult(revert)
	if err != nil {
		return common.Address{}, err
	}
	c.log.Debug().Str("req", reqID).Str("sender", sender.Hex()).Msg("resolved counterfactual sender")
	return sender, nil
}

// Nonce implements Reader.
func (c *Client) Nonce(ctx context.Context, sender common.Address, key *big.Int) (*big.Int, error) {
	data, err := entrypoint.PackGetNonce(sender, key)
	if err != nil {
		return nil, err
	}
	ret, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &c.entryPoint, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("chain: getNonce: %w", err)
	}
	return entrypoint.UnpackNonce(ret)
}

// HasCode implements Reader.
func (c *Client) HasCode(ctx context.Context, addr common.Address) (bool, error) {
	code, err := c.eth.CodeAt(ctx, addr, nil)
	if err != nil {
		return false, fmt.Errorf("chain: code at %s: %w", addr.Hex(), err)
	}
	return len(code) > 0, nil
}

// ChainID implements Reader. The id is cached at dial time; chains do not
// change identity mid-connection.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	if c.chainID != nil {
		return c.chainID, nil
	}
	chainID, err := c.eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain: chain id: %w", err)
	}
	c.chainID = chainID
	return chainID, nil
}

// revertData pulls the ABI-encoded revert payload out of a JSON-RPC error.
func revertData(err error) ([]byte, bool) {
	var de rpc.DataError
	if !errors.As(err, &de) {
		return nil, false
	}
	hexData, ok := de.ErrorData().(string)
	if !ok {
		return nil, false
	}
	data, decErr := hexutil.Decode(hexData)
	if decErr != nil {
		return nil, false
	}
	return data, true
}
