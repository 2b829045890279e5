package deriver

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/piyushdaiya/seed-checker/internal/core"
)

// PrivateKeyDeriver computes the address of a hex-encoded secp256k1 key.
// The 0x prefix is optional.
type PrivateKeyDeriver struct{}

func NewPrivateKeyDeriver() *PrivateKeyDeriver {
	return &PrivateKeyDeriver{}
}

func (d *PrivateKeyDeriver) Source() core.SourceKind {
	return core.SourceKey
}

func (d *PrivateKeyDeriver) Derive(secret string) (common.Address, error) {
	raw := strings.TrimSpace(secret)
	if len(raw) >= 2 && (raw[:2] == "0x" || raw[:2] == "0X") {
		raw = raw[2:]
	}

	priv, err := crypto.HexToECDSA(raw)
	if err != nil {
		return common.Address{}, fmt.Errorf("private key: %w", core.ErrInvalidSecret)
	}
	return crypto.PubkeyToAddress(priv.PublicKey), nil
}
