package balance

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/piyushdaiya/seed-checker/internal/core"
)

// BalanceReader is the slice of ethclient.Client the oracle needs.
type BalanceReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// RPCOracle queries eth_getBalance at the latest block over one
// long-lived JSON-RPC client.
type RPCOracle struct {
	client   BalanceReader
	decimals int
	timeout  time.Duration
	close    func()
}

func NewRPCOracle(client BalanceReader, decimals int, timeout time.Duration) *RPCOracle {
	return &RPCOracle{client: client, decimals: decimals, timeout: timeout}
}

// DialRPC connects to rpcURL. A nil hc uses http.DefaultClient. For HTTP
// endpoints no request is sent until the first lookup.
func DialRPC(ctx context.Context, rpcURL string, hc *http.Client, decimals int, timeout time.Duration) (*RPCOracle, error) {
	rpcURL = strings.TrimSpace(rpcURL)
	if rpcURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	if hc == nil {
		hc = http.DefaultClient
	}

	rc, err := rpc.DialOptions(ctx, rpcURL, rpc.WithHTTPClient(hc))
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	ec := ethclient.NewClient(rc)

	o := NewRPCOracle(ec, decimals, timeout)
	o.close = ec.Close
	return o, nil
}

func (o *RPCOracle) FetchBalance(ctx context.Context, address common.Address) (core.Balance, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	wei, err := o.client.BalanceAt(ctx, address, nil)
	if err != nil {
		return core.Balance{}, networkErr("eth_getBalance", err)
	}
	if wei == nil || wei.Sign() < 0 {
		return core.Balance{}, networkErr("eth_getBalance", errors.New("malformed balance"))
	}
	return core.Balance{Raw: wei, Decimals: o.decimals}, nil
}

// Close releases the underlying client if DialRPC created it.
func (o *RPCOracle) Close() {
	if o.close != nil {
		o.close()
	}
}
