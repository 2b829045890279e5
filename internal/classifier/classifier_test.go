package classifier

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/piyushdaiya/seed-checker/internal/core"
	"github.com/piyushdaiya/seed-checker/internal/deriver"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testAddr     = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"
)

// mapOracle returns a fixed balance per address; missing addresses fail.
type mapOracle struct {
	balances map[common.Address]*big.Int
	err      error
	calls    int
}

func (m *mapOracle) FetchBalance(_ context.Context, addr common.Address) (core.Balance, error) {
	m.calls++
	if m.err != nil {
		return core.Balance{}, m.err
	}
	wei, ok := m.balances[addr]
	if !ok {
		return core.Balance{}, fmt.Errorf("no such account: %w", core.ErrNetwork)
	}
	return core.Balance{Raw: wei, Decimals: 18}, nil
}

func TestCheck_SkipsBlankAndComments(t *testing.T) {
	t.Parallel()

	o := &mapOracle{}
	c := New(deriver.NewMnemonicDeriver(0), o, "ETH")
	for _, line := range []string{"", "   ", "# comment", "  #indented"} {
		_, ok, err := c.Check(context.Background(), line)
		if ok || err != nil {
			t.Fatalf("Check(%q): want skip, got ok=%v err=%v", line, ok, err)
		}
	}
	if o.calls != 0 {
		t.Fatalf("oracle called %d times for skipped lines", o.calls)
	}
}

func TestCheck_Kinds(t *testing.T) {
	t.Parallel()

	addr := common.HexToAddress(testAddr)
	cases := []struct {
		name     string
		line     string
		oracle   *mapOracle
		kind     core.Kind
		failure  core.Failure
		wantLine string
	}{
		{
			name:     "hit",
			line:     "  " + testMnemonic + "  ",
			oracle:   &mapOracle{balances: map[common.Address]*big.Int{addr: big.NewInt(1)}},
			kind:     core.KindHit,
			wantLine: "[HIT] SEED: " + testMnemonic + " | " + testAddr + " | Balance: 0.000000000000000001 ETH",
		},
		{
			name:     "empty",
			line:     testMnemonic,
			oracle:   &mapOracle{balances: map[common.Address]*big.Int{addr: big.NewInt(0)}},
			kind:     core.KindEmpty,
			wantLine: "[EMPTY] SEED: " + testMnemonic + " | " + testAddr + " | Balance: 0 ETH",
		},
		{
			name:     "network error keeps the address",
			line:     testMnemonic,
			oracle:   &mapOracle{},
			kind:     core.KindError,
			failure:  core.FailureNetwork,
			wantLine: "[ERROR] SEED: " + testMnemonic + " | " + testAddr + " | Unable to get balance",
		},
		{
			name:     "invalid phrase",
			line:     "abandon abandon",
			oracle:   &mapOracle{},
			kind:     core.KindInvalid,
			failure:  core.FailureInvalidSecret,
			wantLine: "[INVALID] SEED: abandon abandon",
		},
	}
	for _, tc := range cases {
		c := New(deriver.NewMnemonicDeriver(0), tc.oracle, "ETH")
		out, ok, err := c.Check(context.Background(), tc.line)
		if !ok || err != nil {
			t.Fatalf("%s: want outcome, got ok=%v err=%v", tc.name, ok, err)
		}
		if out.Kind != tc.kind || out.Failure != tc.failure {
			t.Fatalf("%s: want %s/%s, got %s/%s", tc.name, tc.kind, tc.failure, out.Kind, out.Failure)
		}
		if out.Source != core.SourceSeed {
			t.Fatalf("%s: want SEED source, got %s", tc.name, out.Source)
		}
		if got := out.String(); got != tc.wantLine {
			t.Fatalf("%s: line\nwant %q\ngot  %q", tc.name, tc.wantLine, got)
		}
	}
}

func TestCheck_InvalidNeverQueriesOracle(t *testing.T) {
	t.Parallel()

	o := &mapOracle{}
	c := New(deriver.NewPrivateKeyDeriver(), o, "ETH")
	out, ok, err := c.Check(context.Background(), "0xnothex")
	if !ok || err != nil {
		t.Fatalf("want outcome, got ok=%v err=%v", ok, err)
	}
	if out.Kind != core.KindInvalid || out.Address != "" || out.Balance != nil {
		t.Fatalf("want bare INVALID, got %+v", out)
	}
	if out.Source != core.SourceKey {
		t.Fatalf("want KEY source, got %s", out.Source)
	}
	if o.calls != 0 {
		t.Fatalf("oracle called for invalid secret")
	}
}

type brokenDeriver struct{}

func (brokenDeriver) Source() core.SourceKind { return core.SourceKey }

func (brokenDeriver) Derive(string) (common.Address, error) {
	return common.Address{}, errors.New("disk on fire")
}

func TestCheck_UnexpectedErrorsAreReturned(t *testing.T) {
	t.Parallel()

	c := New(brokenDeriver{}, &mapOracle{}, "ETH")
	if _, ok, err := c.Check(context.Background(), "deadbeef"); !ok || err == nil {
		t.Fatalf("deriver: want unexpected error, got ok=%v err=%v", ok, err)
	}

	c = New(deriver.NewMnemonicDeriver(0), &mapOracle{err: errors.New("weird")}, "ETH")
	if _, ok, err := c.Check(context.Background(), testMnemonic); !ok || err == nil {
		t.Fatalf("oracle: want unexpected error, got ok=%v err=%v", ok, err)
	}
}
