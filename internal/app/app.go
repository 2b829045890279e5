// Package app wires configuration, derivers, balance oracle, ledger and
// runner into one command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/piyushdaiya/seed-checker/internal/balance"
	"github.com/piyushdaiya/seed-checker/internal/batch"
	"github.com/piyushdaiya/seed-checker/internal/classifier"
	"github.com/piyushdaiya/seed-checker/internal/core"
	"github.com/piyushdaiya/seed-checker/internal/deriver"
	"github.com/piyushdaiya/seed-checker/internal/ledger"
)

// Run executes one batch and returns the process exit code.
func Run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	cfg, err := parseConfig(args, getenv, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 2
	}

	oracle, closeOracle, err := newOracle(ctx, cfg)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	defer closeOracle()

	opts := []batch.Option{batch.WithOutput(stdout)}
	if cfg.LedgerDB != "" {
		store, err := ledger.Open(ctx, cfg.LedgerDB)
		if err != nil {
			fmt.Fprintln(stderr, err.Error())
			return 1
		}
		defer store.Close()
		opts = append(opts, batch.WithRecorder(store))
	}

	runner := batch.New(cfg,
		classifier.New(deriver.NewMnemonicDeriver(cfg.AccountIndex), oracle, cfg.Chain.Symbol),
		classifier.New(deriver.NewPrivateKeyDeriver(), oracle, cfg.Chain.Symbol),
		opts...)

	sum, err := runner.Run(ctx)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	if sum.RunID != "" {
		log.Printf("[RUN] %s finished: %d seeds, %d keys, %d hits, %d errors", sum.RunID, sum.Seeds, sum.Keys, sum.Hits, sum.Errors)
	}
	return 0
}

// parseConfig layers defaults, environment, the optional chain file and
// flags, in that order.
func parseConfig(args []string, getenv func(string) string, stderr io.Writer) (core.Config, error) {
	cfg, err := core.FromEnv(getenv)
	if err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet("seed-checker", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var rpcURL string
	var index uint64 = uint64(cfg.AccountIndex)
	fs.StringVar(&cfg.SeedsFile, "seeds", cfg.SeedsFile, "Seed phrases file, one per line")
	fs.StringVar(&cfg.KeysFile, "keys", cfg.KeysFile, "Private keys file, one per line")
	fs.StringVar(&cfg.HitsFile, "hits", cfg.HitsFile, "Output file for funded accounts")
	fs.StringVar(&cfg.AllResultsFile, "all", cfg.AllResultsFile, "Output file for every result")
	fs.StringVar(&rpcURL, "rpc", "", "JSON-RPC endpoint (overrides ETH_RPC and the chain file)")
	fs.StringVar(&cfg.ChainFile, "chain", cfg.ChainFile, "YAML chain profile")
	fs.StringVar(&cfg.BalanceSource, "source", cfg.BalanceSource, "Balance source: rpc or etherscan")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "Per-request timeout")
	fs.DurationVar(&cfg.Throttle, "throttle", cfg.Throttle, "Pause between items")
	fs.Uint64Var(&index, "index", index, "Address index on m/44'/60'/0'/0/i")
	fs.StringVar(&cfg.LedgerDB, "ledger", cfg.LedgerDB, "SQLite ledger path (empty disables)")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if index >= 1<<31 {
		return cfg, fmt.Errorf("index %d out of range", index)
	}
	cfg.AccountIndex = uint32(index)
	cfg.BalanceSource = strings.ToLower(strings.TrimSpace(cfg.BalanceSource))

	if cfg.ChainFile != "" {
		if cfg.Chain, err = core.LoadChain(cfg.ChainFile, cfg.Chain); err != nil {
			return cfg, err
		}
	}
	if rpcURL = strings.TrimSpace(rpcURL); rpcURL != "" {
		cfg.Chain.RPCURL = rpcURL
	}

	return cfg, cfg.Validate()
}

func newOracle(ctx context.Context, cfg core.Config) (balance.Oracle, func(), error) {
	switch cfg.BalanceSource {
	case core.SourceEtherscan:
		log.Printf("[RUN] balances via explorer (chain %s)", cfg.Chain.Name)
		return balance.NewEtherscanOracle(cfg.Chain, cfg.EtherscanKey, cfg.RequestTimeout), func() {}, nil
	default:
		o, err := balance.DialRPC(ctx, cfg.Chain.RPCURL, &http.Client{Timeout: cfg.RequestTimeout}, cfg.Chain.Decimals, cfg.RequestTimeout)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[RUN] balances via json-rpc (chain %s)", cfg.Chain.Name)
		return o, o.Close, nil
	}
}
