// aactl is an operator CLI around the smart-account adapter: derive the
// counterfactual account address, inspect init code and deployment status,
// encode calls, read nonces and sign user operations.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/luxfi/smartaccount/pkg/account"
	"github.com/luxfi/smartaccount/pkg/chain"
	"github.com/luxfi/smartaccount/pkg/config"
	"github.com/luxfi/smartaccount/pkg/signer"
	"github.com/luxfi/smartaccount/pkg/userop"
)

const Version = "0.1.0"

const ownerKeyEnv = "AACTL_OWNER_KEY"

func main() {
	app := &cli.Command{
		Name:    "aactl",
		Usage:   "ERC-4337 smart account utility (counterfactual addresses, init code, user-op signing)",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
			},
			&cli.StringFlag{
				Name:  "rpc",
				Usage: "Ethereum JSON-RPC endpoint (overrides config)",
			},
			&cli.StringFlag{
				Name:  "entry-point",
				Usage: "EntryPoint contract address (overrides config)",
			},
			&cli.StringFlag{
				Name:  "factory",
				Usage: "Account factory address (overrides config)",
			},
			&cli.StringFlag{
				Name:  "salt",
				Usage: "32-byte deployment salt as 0x-hex (overrides config)",
			},
			&cli.StringFlag{
				Name:  "address",
				Usage: "Pin the account address instead of deriving it",
			},
			&cli.StringFlag{
				Name:  "owner",
				Usage: "Owner address for read-only operations (no key needed)",
			},
			&cli.StringFlag{
				Name:  "key",
				Usage: "Owner private key as hex (prefer " + ownerKeyEnv + " or --prompt-key)",
			},
			&cli.BoolFlag{
				Name:    "prompt-key",
				Aliases: []string{"p"},
				Usage:   "Prompt for the owner private key without echo",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "address",
				Usage: "Print the counterfactual account address",
				Action: func(ctx context.Context, c *cli.Command) error {
					acct, closeFn, err := buildAccount(ctx, c, false)
					if err != nil {
						return err
					}
					defer closeFn()
					fmt.Println(acct.Address().Hex())
					return nil
				},
			},
			{
				Name:  "initcode",
				Usage: "Print init code, factory and factory data for the account",
				Action: func(ctx context.Context, c *cli.Command) error {
					acct, closeFn, err := buildAccount(ctx, c, false)
					if err != nil {
						return err
					}
					defer closeFn()
					initCode, err := acct.GetInitCode(ctx)
					if err != nil {
						return err
					}
					factory, err := acct.GetFactory(ctx)
					if err != nil {
						return err
					}
					factoryData, err := acct.GetFactoryData(ctx)
					if err != nil {
						return err
					}
					fmt.Printf("address:     %s\n", acct.Address().Hex())
					fmt.Printf("deployed:    %v\n", len(initCode) == 0)
					fmt.Printf("initCode:    %s\n", hexutil.Encode(initCode))
					if factory != nil {
						fmt.Printf("factory:     %s\n", factory.Hex())
						fmt.Printf("factoryData: %s\n", hexutil.Encode(factoryData))
					}
					return nil
				},
			},
			{
				Name:  "calldata",
				Usage: "Encode execute/executeBatch calldata from to:value:data triples",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "call",
						Usage: "Call as to:value_wei:0xdata (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "batch",
						Usage: "Force executeBatch encoding even for a single call",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					calls, err := parseCalls(c.StringSlice("call"))
					if err != nil {
						return err
					}
					var data []byte
					if len(calls) == 1 && !c.Bool("batch") {
						data, err = account.EncodeExecute(calls[0])
					} else {
						data, err = account.EncodeExecuteBatch(calls)
					}
					if err != nil {
						return err
					}
					fmt.Println(hexutil.Encode(data))
					return nil
				},
			},
			{
				Name:  "nonce",
				Usage: "Read the account's EntryPoint nonce",
				Action: func(ctx context.Context, c *cli.Command) error {
					acct, closeFn, err := buildAccount(ctx, c, false)
					if err != nil {
						return err
					}
					defer closeFn()
					nonce, err := acct.GetNonce(ctx)
					if err != nil {
						return err
					}
					fmt.Println(nonce.String())
					return nil
				},
			},
			{
				Name:      "sign",
				Usage:     "Sign a user operation read from a JSON file (or - for stdin)",
				ArgsUsage: "<userop.json|->",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("expected exactly one user-operation file argument")
					}
					raw, err := readAll(c.Args().First())
					if err != nil {
						return err
					}
					var op userop.UserOperation
					if err := json.Unmarshal(raw, &op); err != nil {
						return fmt.Errorf("parse user operation: %w", err)
					}
					acct, closeFn, err := buildAccount(ctx, c, true)
					if err != nil {
						return err
					}
					defer closeFn()
					if _, err := acct.SignUserOperation(ctx, &op); err != nil {
						return err
					}
					out, err := json.MarshalIndent(&op, "", "  ")
					if err != nil {
						return err
					}
					fmt.Println(string(out))
					return nil
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// loadConfig merges the config file, environment and command-line overrides.
func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if rpc := c.String("rpc"); rpc != "" {
		cfg.RPCURL = rpc
	}
	if ep := c.String("entry-point"); ep != "" {
		if !common.IsHexAddress(ep) {
			return nil, fmt.Errorf("invalid entry-point address %q", ep)
		}
		cfg.EntryPoint = common.HexToAddress(ep)
	}
	if f := c.String("factory"); f != "" {
		if !common.IsHexAddress(f) {
			return nil, fmt.Errorf("invalid factory address %q", f)
		}
		cfg.Factory = common.HexToAddress(f)
	}
	if s := c.String("salt"); s != "" {
		salt, err := hexutil.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("invalid salt %q: %w", s, err)
		}
		cfg.Salt = salt
	}
	if a := c.String("address"); a != "" {
		if !common.IsHexAddress(a) {
			return nil, fmt.Errorf("invalid account address %q", a)
		}
		cfg.AccountAddress = common.HexToAddress(a)
	}
	return cfg, nil
}

// ownerSigner resolves the owner capability: a private key from flag,
// environment or prompt, or a watch-only owner address for read paths.
func ownerSigner(c *cli.Command, needKey bool) (signer.Signer, error) {
	keyHex := c.String("key")
	if keyHex == "" {
		keyHex = os.Getenv(ownerKeyEnv)
	}
	if keyHex == "" && c.Bool("prompt-key") {
		fmt.Fprint(os.Stderr, "Owner private key (hex): ")
		b, err := term.ReadPassword(syscall.Stdin)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("read key: %w", err)
		}
		keyHex = string(b)
	}
	if keyHex != "" {
		return signer.FromHex(keyHex)
	}
	if owner := c.String("owner"); owner != "" {
		if needKey {
			return nil, fmt.Errorf("--owner is watch-only; signing needs --key, --prompt-key or %s", ownerKeyEnv)
		}
		if !common.IsHexAddress(owner) {
			return nil, fmt.Errorf("invalid owner address %q", owner)
		}
		return signer.ReadOnly(common.HexToAddress(owner)), nil
	}
	return nil, fmt.Errorf("owner required: pass --owner, --key, --prompt-key or set %s", ownerKeyEnv)
}

// buildAccount wires config, chain client, signer and account together.
func buildAccount(ctx context.Context, c *cli.Command, needKey bool) (*account.SimpleAccount, func(), error) {
	log := newLogger(c.Bool("debug"))
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	owner, err := ownerSigner(c, needKey)
	if err != nil {
		return nil, nil, err
	}
	client, err := chain.Dial(ctx, cfg.RPCURL,
		chain.WithEntryPoint(cfg.EntryPoint),
		chain.WithLogger(log),
	)
	if err != nil {
		return nil, nil, err
	}
	acctCfg := account.Config{
		Chain:      client,
		Owner:      owner,
		EntryPoint: cfg.EntryPoint,
		Factory:    cfg.Factory,
		Salt:       cfg.Salt,
	}
	if cfg.AccountAddress != (common.Address{}) {
		addr := cfg.AccountAddress
		acctCfg.Address = &addr
	}
	acct, err := account.New(ctx, acctCfg)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return acct, client.Close, nil
}

// parseCalls parses to:value:data triples. Value and data may be empty.
func parseCalls(raw []string) ([]account.Call, error) {
	calls := make([]account.Call, 0, len(raw))
	for _, s := range raw {
		parts := strings.SplitN(s, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("call %q: want to:value:data", s)
		}
		if !common.IsHexAddress(parts[0]) {
			return nil, fmt.Errorf("call %q: invalid target address", s)
		}
		call := account.Call{To: common.HexToAddress(parts[0]), Value: new(big.Int)}
		if parts[1] != "" {
			if _, ok := call.Value.SetString(parts[1], 10); !ok {
				return nil, fmt.Errorf("call %q: invalid decimal value", s)
			}
		}
		if parts[2] != "" && parts[2] != "0x" {
			data, err := hexutil.Decode(parts[2])
			if err != nil {
				return nil, fmt.Errorf("call %q: invalid data hex: %w", s, err)
			}
			call.Data = data
		}
		calls = append(calls, call)
	}
	return calls, nil
}

// readAll reads a file or stdin when path is "-".
func readAll(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
