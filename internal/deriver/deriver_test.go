package deriver

import (
	"errors"
	"strings"
	"testing"

	"github.com/piyushdaiya/seed-checker/internal/core"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestMnemonicDeriver_KnownVector(t *testing.T) {
	t.Parallel()

	d := NewMnemonicDeriver(0)
	if d.Source() != core.SourceSeed {
		t.Fatalf("Source: want SEED, got %s", d.Source())
	}

	addr, err := d.Derive(testMnemonic)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if want := "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"; addr.Hex() != want {
		t.Fatalf("address: want %s, got %s", want, addr.Hex())
	}

	// Extra whitespace between words does not change the phrase.
	spaced, err := d.Derive("  " + strings.ReplaceAll(testMnemonic, " ", "   ") + "\t")
	if err != nil {
		t.Fatalf("Derive spaced: %v", err)
	}
	if spaced != addr {
		t.Fatalf("spaced phrase: want %s, got %s", addr.Hex(), spaced.Hex())
	}
}

func TestMnemonicDeriver_Index(t *testing.T) {
	t.Parallel()

	first, err := NewMnemonicDeriver(0).Derive(testMnemonic)
	if err != nil {
		t.Fatalf("index 0: %v", err)
	}
	second, err := NewMnemonicDeriver(1).Derive(testMnemonic)
	if err != nil {
		t.Fatalf("index 1: %v", err)
	}
	if first == second {
		t.Fatalf("index 0 and 1 derived the same address %s", first.Hex())
	}
	again, _ := NewMnemonicDeriver(1).Derive(testMnemonic)
	if again != second {
		t.Fatalf("derivation is not deterministic")
	}
}

func TestMnemonicDeriver_Invalid(t *testing.T) {
	t.Parallel()

	d := NewMnemonicDeriver(0)
	for _, phrase := range []string{
		"",
		"abandon abandon",
		strings.Repeat("abandon ", 12), // bad checksum
		"hello world this is not a seed phrase at all okay friend",
		strings.Replace(testMnemonic, "about", "aboutt", 1),
	} {
		_, err := d.Derive(phrase)
		if !errors.Is(err, core.ErrInvalidSecret) {
			t.Fatalf("Derive(%q): want ErrInvalidSecret, got %v", phrase, err)
		}
	}
}

func TestPrivateKeyDeriver(t *testing.T) {
	t.Parallel()

	const key = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	const want = "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"

	d := NewPrivateKeyDeriver()
	if d.Source() != core.SourceKey {
		t.Fatalf("Source: want KEY, got %s", d.Source())
	}
	for _, in := range []string{key, "0x" + key, "0X" + key, "  " + key + " "} {
		addr, err := d.Derive(in)
		if err != nil {
			t.Fatalf("Derive(%q): %v", in, err)
		}
		if addr.Hex() != want {
			t.Fatalf("Derive(%q): want %s, got %s", in, want, addr.Hex())
		}
	}
}

func TestPrivateKeyDeriver_Invalid(t *testing.T) {
	t.Parallel()

	d := NewPrivateKeyDeriver()
	for _, in := range []string{
		"",
		"0x",
		"abc123",
		strings.Repeat("z", 64),
		strings.Repeat("0", 64), // zero scalar
		strings.Repeat("f", 64), // above the curve order
		testMnemonic,
	} {
		_, err := d.Derive(in)
		if !errors.Is(err, core.ErrInvalidSecret) {
			t.Fatalf("Derive(%q): want ErrInvalidSecret, got %v", in, err)
		}
	}
}
