// Package classifier turns one input line into a tagged Outcome.
package classifier

import (
	"context"
	"errors"
	"strings"

	"github.com/piyushdaiya/seed-checker/internal/balance"
	"github.com/piyushdaiya/seed-checker/internal/core"
	"github.com/piyushdaiya/seed-checker/internal/deriver"
)

// Checker classifies lines of one source kind. It holds no state between
// items.
type Checker struct {
	deriver deriver.Deriver
	oracle  balance.Oracle
	symbol  string
}

func New(d deriver.Deriver, o balance.Oracle, symbol string) *Checker {
	return &Checker{deriver: d, oracle: o, symbol: symbol}
}

func (c *Checker) Source() core.SourceKind {
	return c.deriver.Source()
}

// Check classifies one raw line. ok is false for blank and comment lines.
// A non-nil error means a failure outside the invalid-secret and network
// kinds; the caller decides how to record it.
func (c *Checker) Check(ctx context.Context, line string) (out core.Outcome, ok bool, err error) {
	secret := strings.TrimSpace(line)
	if !core.IsEntry(secret) {
		return core.Outcome{}, false, nil
	}

	out = core.Outcome{Source: c.deriver.Source(), Secret: secret, Symbol: c.symbol}

	// 1. Derive
	addr, err := c.deriver.Derive(secret)
	if err != nil {
		if !errors.Is(err, core.ErrInvalidSecret) {
			return core.Outcome{}, true, err
		}
		out.Kind = core.KindInvalid
		out.Failure = core.FailureInvalidSecret
		out.Detail = secret
		return out, true, nil
	}
	out.Address = addr.Hex()

	// 2. Balance
	bal, err := c.oracle.FetchBalance(ctx, addr)
	if err != nil {
		if !errors.Is(err, core.ErrNetwork) {
			return core.Outcome{}, true, err
		}
		out.Kind = core.KindError
		out.Failure = core.FailureNetwork
		out.Detail = "unable to get balance"
		return out, true, nil
	}

	// 3. Classify
	out.Balance = &bal
	if bal.IsPositive() {
		out.Kind = core.KindHit
	} else {
		out.Kind = core.KindEmpty
	}
	return out, true, nil
}
