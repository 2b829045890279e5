package core

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Kind is the classification of one checked secret.
type Kind string

const (
	KindHit     Kind = "HIT"
	KindEmpty   Kind = "EMPTY"
	KindInvalid Kind = "INVALID"
	KindError   Kind = "ERROR"
)

// SourceKind tells which input list a secret came from.
type SourceKind string

const (
	SourceSeed SourceKind = "SEED"
	SourceKey  SourceKind = "KEY"
)

// Failure distinguishes the reason behind INVALID and ERROR outcomes.
type Failure int

const (
	FailureNone Failure = iota
	FailureInvalidSecret
	FailureNetwork
	FailureUnexpected
)

func (f Failure) String() string {
	switch f {
	case FailureInvalidSecret:
		return "invalid_secret"
	case FailureNetwork:
		return "network"
	case FailureUnexpected:
		return "unexpected"
	default:
		return "none"
	}
}

var (
	// ErrInvalidSecret is returned when a phrase or key does not parse.
	ErrInvalidSecret = errors.New("invalid secret")
	// ErrNetwork covers every failure of a balance lookup.
	ErrNetwork = errors.New("unable to get balance")
)

// CommentMarker starts a line that is ignored in the input files.
const CommentMarker = "#"

// IsEntry reports whether a raw input line holds a secret to check.
func IsEntry(line string) bool {
	line = strings.TrimSpace(line)
	return line != "" && !strings.HasPrefix(line, CommentMarker)
}

// Balance is a native-currency amount in the chain's smallest unit.
type Balance struct {
	Raw      *big.Int `json:"raw"`
	Decimals int      `json:"decimals"`
}

// IsPositive is true when the balance is strictly above zero.
func (b Balance) IsPositive() bool {
	return b.Raw != nil && b.Raw.Sign() > 0
}

// String renders the balance in display units, e.g. "1.5" for 1.5e18 wei.
func (b Balance) String() string {
	return FormatUnits(b.Raw, b.Decimals)
}

// FormatUnits scales an integer amount down by 10^decimals without
// rounding. Trailing fractional zeros are dropped and zero renders as "0".
func FormatUnits(amount *big.Int, decimals int) string {
	if amount == nil || amount.Sign() == 0 {
		return "0"
	}

	sign := ""
	v := new(big.Int).Set(amount)
	if v.Sign() < 0 {
		sign = "-"
		v.Abs(v)
	}
	if decimals <= 0 {
		return sign + v.String()
	}

	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	intPart, frac := new(big.Int).QuoRem(v, denom, new(big.Int))
	if frac.Sign() == 0 {
		return sign + intPart.String()
	}

	fracStr := frac.Text(10)
	if len(fracStr) < decimals {
		fracStr = strings.Repeat("0", decimals-len(fracStr)) + fracStr
	}
	fracStr = strings.TrimRight(fracStr, "0")
	return sign + intPart.String() + "." + fracStr
}

// Outcome is the result of checking one input line.
type Outcome struct {
	Kind    Kind       `json:"kind"`
	Source  SourceKind `json:"source"`
	Secret  string     `json:"-"`
	Address string     `json:"address,omitempty"`
	Balance *Balance   `json:"balance,omitempty"`
	Symbol  string     `json:"symbol,omitempty"`
	Failure Failure    `json:"failure"`
	Detail  string     `json:"detail,omitempty"`
}

// IsHit reports whether the outcome goes to the hits file.
func (o Outcome) IsHit() bool {
	return o.Kind == KindHit
}

// String renders the outcome as one result line.
func (o Outcome) String() string {
	prefix := fmt.Sprintf("[%s] %s: %s", o.Kind, o.Source, o.Secret)

	switch o.Kind {
	case KindHit, KindEmpty:
		bal := "0"
		if o.Balance != nil {
			bal = o.Balance.String()
		}
		return fmt.Sprintf("%s | %s | Balance: %s %s", prefix, o.Address, bal, o.Symbol)
	case KindInvalid:
		return prefix
	default:
		if o.Failure == FailureNetwork {
			return fmt.Sprintf("%s | %s | Unable to get balance", prefix, o.Address)
		}
		return fmt.Sprintf("%s | Exception: %s", prefix, o.Detail)
	}
}

// Unexpected builds the ERROR outcome for a failure outside the two
// recoverable kinds.
func Unexpected(source SourceKind, secret string, detail string) Outcome {
	return Outcome{
		Kind:    KindError,
		Source:  source,
		Secret:  strings.TrimSpace(secret),
		Failure: FailureUnexpected,
		Detail:  detail,
	}
}

// Totals counts the outcomes of one run.
type Totals struct {
	Seeds   int `json:"seeds"`
	Keys    int `json:"keys"`
	Hits    int `json:"hits"`
	Empty   int `json:"empty"`
	Invalid int `json:"invalid"`
	Errors  int `json:"errors"`
}

func (t *Totals) Add(o Outcome) {
	switch o.Source {
	case SourceSeed:
		t.Seeds++
	case SourceKey:
		t.Keys++
	}
	switch o.Kind {
	case KindHit:
		t.Hits++
	case KindEmpty:
		t.Empty++
	case KindInvalid:
		t.Invalid++
	case KindError:
		t.Errors++
	}
}
