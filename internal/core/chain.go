package core

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultRPC is the public Ethereum node used when ETH_RPC is unset.
const DefaultRPC = "https://rpc.ankr.com/eth"

// Chain describes the network balances are looked up on and how its
// smallest unit is scaled for display.
type Chain struct {
	Name            string `yaml:"name"`
	Symbol          string `yaml:"symbol"`
	Decimals        int    `yaml:"decimals"`
	RPCURL          string `yaml:"rpc_url"`
	ExplorerURL     string `yaml:"explorer_url"`
	ExplorerChainID string `yaml:"explorer_chain_id"`
}

// DefaultChain is Ethereum mainnet: ETH with 18 decimals.
func DefaultChain() Chain {
	return Chain{
		Name:            "ethereum",
		Symbol:          "ETH",
		Decimals:        18,
		RPCURL:          DefaultRPC,
		ExplorerURL:     "https://api.etherscan.io/v2/api",
		ExplorerChainID: "1",
	}
}

func (c Chain) Validate() error {
	if strings.TrimSpace(c.Symbol) == "" {
		return fmt.Errorf("chain %q: symbol is required", c.Name)
	}
	if c.Decimals < 0 || c.Decimals > 36 {
		return fmt.Errorf("chain %q: decimals %d out of range 0..36", c.Name, c.Decimals)
	}
	return nil
}

// LoadChain reads a YAML chain profile. Fields left out of the file keep
// the values of base.
func LoadChain(path string, base Chain) (Chain, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read chain file: %w", err)
	}

	var file struct {
		Name            string `yaml:"name"`
		Symbol          string `yaml:"symbol"`
		Decimals        *int   `yaml:"decimals"`
		RPCURL          string `yaml:"rpc_url"`
		ExplorerURL     string `yaml:"explorer_url"`
		ExplorerChainID string `yaml:"explorer_chain_id"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return base, fmt.Errorf("parse chain file: %w", err)
	}

	out := base
	setString(&out.Name, file.Name)
	setString(&out.Symbol, file.Symbol)
	setString(&out.RPCURL, file.RPCURL)
	setString(&out.ExplorerURL, file.ExplorerURL)
	setString(&out.ExplorerChainID, file.ExplorerChainID)
	if file.Decimals != nil {
		out.Decimals = *file.Decimals
	}
	if err := out.Validate(); err != nil {
		return base, err
	}
	return out, nil
}
