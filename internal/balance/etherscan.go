package balance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/piyushdaiya/seed-checker/internal/core"
)

// EtherscanOracle reads balances from an Etherscan-compatible explorer
// (module=account, action=balance).
type EtherscanOracle struct {
	BaseURL  string
	ChainID  string
	APIKey   string
	Decimals int

	HTTPClient *http.Client
}

func NewEtherscanOracle(chain core.Chain, apiKey string, timeout time.Duration) *EtherscanOracle {
	return &EtherscanOracle{
		BaseURL:    strings.TrimSpace(chain.ExplorerURL),
		ChainID:    strings.TrimSpace(chain.ExplorerChainID),
		APIKey:     apiKey,
		Decimals:   chain.Decimals,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (e *EtherscanOracle) FetchBalance(ctx context.Context, address common.Address) (core.Balance, error) {
	c := e.HTTPClient
	if c == nil {
		c = &http.Client{Timeout: 10 * time.Second}
	}

	q := url.Values{}
	if e.ChainID != "" {
		q.Set("chainid", e.ChainID)
	}
	q.Set("module", "account")
	q.Set("action", "balance")
	q.Set("address", address.Hex())
	q.Set("tag", "latest")
	q.Set("apikey", e.APIKey)

	var balResp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Result  string `json:"result"`
	}
	if err := getJSON(ctx, c, e.BaseURL+"?"+q.Encode(), &balResp); err != nil {
		return core.Balance{}, networkErr("explorer balance", err)
	}

	if balResp.Status == "0" {
		return core.Balance{}, networkErr("explorer balance", fmt.Errorf("api error: %s: %s", balResp.Message, balResp.Result))
	}

	wei, ok := new(big.Int).SetString(strings.TrimSpace(balResp.Result), 10)
	if !ok || wei.Sign() < 0 {
		return core.Balance{}, networkErr("explorer balance", errors.New("malformed balance "+balResp.Result))
	}
	return core.Balance{Raw: wei, Decimals: e.Decimals}, nil
}

// getJSON issues a GET request and decodes a 200 response into target.
func getJSON(ctx context.Context, client *http.Client, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(target)
}
