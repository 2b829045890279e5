package ledger

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/piyushdaiya/seed-checker/internal/core"
)

const addr = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"

func openTemp(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RunLifecycle(t *testing.T) {
	t.Parallel()

	s := openTemp(t)
	ctx := context.Background()

	if err := s.BeginRun(ctx, "run-1", time.Now()); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	outcomes := []core.Outcome{
		{Kind: core.KindEmpty, Source: core.SourceSeed, Secret: "phrase one", Address: addr,
			Balance: &core.Balance{Raw: big.NewInt(0), Decimals: 18}, Symbol: "ETH"},
		{Kind: core.KindInvalid, Source: core.SourceKey, Secret: "zz", Failure: core.FailureInvalidSecret},
		{Kind: core.KindHit, Source: core.SourceKey, Secret: "k", Address: addr,
			Balance: &core.Balance{Raw: big.NewInt(2500), Decimals: 3}, Symbol: "ETH"},
	}
	var totals core.Totals
	for i, o := range outcomes {
		if err := s.Record(ctx, "run-1", i, o); err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
		totals.Add(o)
	}
	if err := s.FinishRun(ctx, "run-1", totals, time.Now()); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	got, ok, err := s.RunTotals(ctx, "run-1")
	if err != nil || !ok {
		t.Fatalf("RunTotals: ok=%v err=%v", ok, err)
	}
	want := core.Totals{Seeds: 1, Keys: 2, Hits: 1, Empty: 1, Invalid: 1}
	if got != want {
		t.Fatalf("totals: want %+v, got %+v", want, got)
	}

	if _, ok, err := s.RunTotals(ctx, "nope"); ok || err != nil {
		t.Fatalf("unknown run: ok=%v err=%v", ok, err)
	}
}

func TestStore_LatestAndHits(t *testing.T) {
	t.Parallel()

	s := openTemp(t)
	ctx := context.Background()

	hit := core.Outcome{Kind: core.KindHit, Source: core.SourceSeed, Secret: "secret words", Address: addr,
		Balance: &core.Balance{Raw: big.NewInt(1500), Decimals: 3}, Symbol: "ETH"}
	if err := s.Record(ctx, "run-a", 0, hit); err != nil {
		t.Fatalf("Record: %v", err)
	}

	rec, err := s.Latest(ctx, "0x9858effd232b4033e47d90003d41ec34ecaeda94")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if rec == nil {
		t.Fatalf("Latest: want record for lowercased address")
	}
	if rec.Kind != "HIT" || rec.Balance != "1.5" || rec.BalanceRaw != "1500" || rec.Symbol != "ETH" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Fingerprint != Fingerprint("secret words") || rec.Fingerprint == "secret words" {
		t.Fatalf("fingerprint: got %q", rec.Fingerprint)
	}

	missing, err := s.Latest(ctx, "0x0000000000000000000000000000000000000001")
	if err != nil || missing != nil {
		t.Fatalf("Latest unknown: want nil, got %+v err=%v", missing, err)
	}

	hits, err := s.Hits(ctx, 0)
	if err != nil {
		t.Fatalf("Hits: %v", err)
	}
	if len(hits) != 1 || hits[0].Address != addr {
		t.Fatalf("Hits: got %+v", hits)
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	if Fingerprint(" abc ") != Fingerprint("abc") {
		t.Fatalf("fingerprint should ignore surrounding space")
	}
	// sha256("abc")
	if got := Fingerprint("abc"); got != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Fatalf("Fingerprint(abc): got %s", got)
	}
}
