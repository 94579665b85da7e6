// Package config loads adapter configuration from a YAML file and AACTL_*
// environment variables. Owner private keys never pass through here; they are
// provided by flag, environment or terminal prompt.
package config

import (
	"fmt"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/luxfi/smartaccount/pkg/entrypoint"
)

// Config holds everything needed to construct a smart account against a node.
type Config struct {
	// RPCURL is the Ethereum JSON-RPC endpoint.
	RPCURL string `mapstructure:"rpc_url"`
	// EntryPoint is the entry-point contract address.
	EntryPoint common.Address `mapstructure:"entry_point"`
	// Factory is the account factory address.
	Factory common.Address `mapstructure:"factory"`
	// AccountAddress optionally pins the account address (zero = derive).
	AccountAddress common.Address `mapstructure:"account_address"`
	// Salt is an optional 32-byte deployment salt as 0x-hex.
	Salt hexutil.Bytes `mapstructure:"salt"`
}

// Load reads configuration from the optional file at path, merged with
// AACTL_-prefixed environment variables and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("AACTL")
	v.AutomaticEnv()

	v.SetDefault("rpc_url", "http://127.0.0.1:8545")
	v.SetDefault("entry_point", entrypoint.EntryPointV06.Hex())
	v.SetDefault("factory", entrypoint.SimpleAccountFactoryV06.Hex())
	v.SetDefault("account_address", "")
	v.SetDefault("salt", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToAddressHook,
			stringToHexBytesHook,
		),
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("config: build decoder: %w", err)
	}
	if err := dec.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}

// stringToAddressHook decodes 0x-hex strings into common.Address fields.
// Empty strings decode to the zero address.
func stringToAddressHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(common.Address{}) {
		return data, nil
	}
	s := data.(string)
	if s == "" {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(s) {
		return nil, fmt.Errorf("config: %q is not a hex address", s)
	}
	return common.HexToAddress(s), nil
}

// stringToHexBytesHook decodes 0x-hex strings into hexutil.Bytes fields.
func stringToHexBytesHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(hexutil.Bytes{}) {
		return data, nil
	}
	s := data.(string)
	if s == "" {
		return hexutil.Bytes(nil), nil
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("config: %q is not 0x-hex: %w", s, err)
	}
	return hexutil.Bytes(b), nil
}
