package deriver

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"

	"github.com/piyushdaiya/seed-checker/internal/core"
)

// Only used to build the master key; Ethereum ignores the version bytes.
var masterParams = chaincfg.MainNetParams

// MnemonicDeriver derives the address at m/44'/60'/0'/0/Index from a
// BIP-39 phrase with an empty passphrase.
type MnemonicDeriver struct {
	Index uint32
}

func NewMnemonicDeriver(index uint32) *MnemonicDeriver {
	return &MnemonicDeriver{Index: index}
}

func (d *MnemonicDeriver) Source() core.SourceKind {
	return core.SourceSeed
}

func (d *MnemonicDeriver) Derive(secret string) (common.Address, error) {
	phrase := strings.Join(strings.Fields(secret), " ")
	if phrase == "" {
		return common.Address{}, fmt.Errorf("empty phrase: %w", core.ErrInvalidSecret)
	}

	// 1. Checksum + wordlist validation
	seed, err := bip39.NewSeedWithErrorChecking(phrase, "")
	if err != nil {
		return common.Address{}, fmt.Errorf("mnemonic: %w", core.ErrInvalidSecret)
	}

	// 2. Master key
	master, err := hdkeychain.NewMaster(seed, &masterParams)
	if err != nil {
		return common.Address{}, fmt.Errorf("master key: %w", core.ErrInvalidSecret)
	}

	// 3. m/44'/60'/0'/0/index
	key := master
	for _, step := range []uint32{harden(44), harden(60), harden(0), 0, d.Index} {
		key, err = key.Derive(step)
		if err != nil {
			return common.Address{}, fmt.Errorf("derive child %d: %w", step, core.ErrInvalidSecret)
		}
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return common.Address{}, fmt.Errorf("child private key: %w", core.ErrInvalidSecret)
	}
	return crypto.PubkeyToAddress(priv.ToECDSA().PublicKey), nil
}

func harden(i uint32) uint32 {
	return i + hdkeychain.HardenedKeyStart
}
