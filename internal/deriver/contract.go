package deriver

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/piyushdaiya/seed-checker/internal/core"
)

// Deriver turns one secret into an account address. Implementations are
// pure and safe for concurrent use. Every parse failure is reported as
// core.ErrInvalidSecret.
type Deriver interface {
	Source() core.SourceKind
	Derive(secret string) (common.Address, error)
}
