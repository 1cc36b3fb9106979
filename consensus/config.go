package consensus

import "fmt"

// Config holds configuration for the consensus coordinator.
type Config struct {
	// QuorumThreshold is the fraction of all registered nodes whose yes
	// votes are required to accept a proposal. The comparison is
	// yes/total >= QuorumThreshold, so with the 0.67 default two of three
	// nodes (0.666...) do not reach quorum.
	QuorumThreshold float64
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		QuorumThreshold: 0.67,
	}
}

// ValidateBasic performs basic validation of the config.
func (cfg *Config) ValidateBasic() error {
	if cfg.QuorumThreshold <= 0 || cfg.QuorumThreshold > 1 {
		return fmt.Errorf("%w: quorum threshold %v out of (0,1]", ErrInvalidConfig, cfg.QuorumThreshold)
	}
	return nil
}
