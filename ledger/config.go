package ledger

import (
	"fmt"

	"github.com/medledger/provenance/types"
)

// Config holds ledger configuration.
type Config struct {
	// Difficulty is the number of leading zero hex characters a mined block
	// hash must carry. Fixed for the ledger's lifetime; there is no
	// retargeting.
	Difficulty int
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		Difficulty: 2,
	}
}

// ValidateBasic performs basic validation of the config.
func (cfg *Config) ValidateBasic() error {
	if cfg.Difficulty < 0 {
		return fmt.Errorf("%w: negative difficulty %d", ErrInvalidConfig, cfg.Difficulty)
	}
	if cfg.Difficulty > types.HashHexLen {
		return fmt.Errorf("%w: difficulty %d exceeds hash length %d", ErrInvalidConfig, cfg.Difficulty, types.HashHexLen)
	}
	return nil
}
