package core

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	SourceRPC       = "rpc"
	SourceEtherscan = "etherscan"
)

// Config holds everything a batch run needs. Paths are relative to the
// working directory unless absolute.
type Config struct {
	PhrasesDir     string
	ResultsDir     string
	SeedsFile      string
	KeysFile       string
	HitsFile       string
	AllResultsFile string

	Chain     Chain
	ChainFile string

	BalanceSource  string // "rpc" or "etherscan"
	EtherscanKey   string
	RequestTimeout time.Duration
	Throttle       time.Duration
	AccountIndex   uint32

	LedgerDB string // empty disables the ledger
}

// DefaultConfig returns the layout used when nothing is configured:
// phrases/seeds.txt, phrases/private_keys.txt, results/hits.txt and
// results/all_results.txt against a public Ethereum node.
func DefaultConfig() Config {
	phrases, results := "phrases", "results"
	return Config{
		PhrasesDir:     phrases,
		ResultsDir:     results,
		SeedsFile:      filepath.Join(phrases, "seeds.txt"),
		KeysFile:       filepath.Join(phrases, "private_keys.txt"),
		HitsFile:       filepath.Join(results, "hits.txt"),
		AllResultsFile: filepath.Join(results, "all_results.txt"),
		Chain:          DefaultChain(),
		BalanceSource:  SourceRPC,
		RequestTimeout: 10 * time.Second,
		Throttle:       time.Second,
	}
}

// FromEnv overlays environment values on DefaultConfig. File paths that are
// not set explicitly follow PHRASES_DIR and RESULTS_DIR.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	if v := getenv("PHRASES_DIR"); v != "" {
		cfg.PhrasesDir = v
		cfg.SeedsFile = filepath.Join(v, "seeds.txt")
		cfg.KeysFile = filepath.Join(v, "private_keys.txt")
	}
	if v := getenv("RESULTS_DIR"); v != "" {
		cfg.ResultsDir = v
		cfg.HitsFile = filepath.Join(v, "hits.txt")
		cfg.AllResultsFile = filepath.Join(v, "all_results.txt")
	}
	setString(&cfg.SeedsFile, getenv("SEEDS_FILE"))
	setString(&cfg.KeysFile, getenv("KEYS_FILE"))
	setString(&cfg.HitsFile, getenv("HITS_FILE"))
	setString(&cfg.AllResultsFile, getenv("ALL_RESULTS_FILE"))
	setString(&cfg.Chain.RPCURL, getenv("ETH_RPC"))
	setString(&cfg.ChainFile, getenv("CHAIN_FILE"))
	setString(&cfg.LedgerDB, getenv("LEDGER_DB"))
	setString(&cfg.EtherscanKey, getenv("ETHERSCAN_API_KEY"))
	if v := getenv("BALANCE_SOURCE"); v != "" {
		cfg.BalanceSource = strings.ToLower(strings.TrimSpace(v))
	}

	var err error
	if cfg.RequestTimeout, err = durationEnv(getenv, "REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return cfg, err
	}
	if cfg.Throttle, err = durationEnv(getenv, "THROTTLE", cfg.Throttle); err != nil {
		return cfg, err
	}
	if v := getenv("ACCOUNT_INDEX"); v != "" {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 31)
		if err != nil {
			return cfg, fmt.Errorf("ACCOUNT_INDEX: %w", err)
		}
		cfg.AccountIndex = uint32(n)
	}
	return cfg, nil
}

// Validate rejects configurations a run cannot start with.
func (c Config) Validate() error {
	for name, p := range map[string]string{
		"seeds file":       c.SeedsFile,
		"keys file":        c.KeysFile,
		"hits file":        c.HitsFile,
		"all results file": c.AllResultsFile,
	} {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%s path is required", name)
		}
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.Throttle < 0 {
		return fmt.Errorf("throttle must not be negative, got %s", c.Throttle)
	}
	if c.AccountIndex >= 1<<31 {
		return fmt.Errorf("account index %d is out of range", c.AccountIndex)
	}
	switch c.BalanceSource {
	case SourceRPC:
		if strings.TrimSpace(c.Chain.RPCURL) == "" {
			return fmt.Errorf("rpc url is required")
		}
	case SourceEtherscan:
		if strings.TrimSpace(c.EtherscanKey) == "" {
			return fmt.Errorf("ETHERSCAN_API_KEY is required for the etherscan balance source")
		}
	default:
		return fmt.Errorf("unknown balance source %q", c.BalanceSource)
	}
	return c.Chain.Validate()
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func durationEnv(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
