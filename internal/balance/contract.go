package balance

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/piyushdaiya/seed-checker/internal/core"
)

// Oracle looks up the native balance of one address. Every failure,
// whatever its cause, wraps core.ErrNetwork. Oracles never retry.
type Oracle interface {
	FetchBalance(ctx context.Context, address common.Address) (core.Balance, error)
}

func networkErr(op string, err error) error {
	return &lookupError{op: op, err: err}
}

type lookupError struct {
	op  string
	err error
}

func (e *lookupError) Error() string {
	return core.ErrNetwork.Error() + ": " + e.op + ": " + e.err.Error()
}

func (e *lookupError) Unwrap() []error {
	return []error{core.ErrNetwork, e.err}
}
