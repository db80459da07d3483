package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"sparsempt/internal/log"
)

// validator validates a raw oracle config.
type validator struct {
	log log.Logger
}

// newValidator creates a new validator with the specified logger.
func newValidator(log log.Logger) *validator {
	return &validator{
		log: log.With("component", "config-validator"),
	}
}

// validate validates the raw config.
func (v *validator) validate(raw *config) error {
	if raw.Network == "" {
		return fmt.Errorf("network is required")
	}
	if _, ok := chainConfigs[raw.Network]; !ok {
		return fmt.Errorf("unknown network: %s", raw.Network)
	}
	if raw.RPCURL == "" {
		return fmt.Errorf("rpc_url is required")
	}
	if len(raw.Targets) == 0 {
		return fmt.Errorf("at least one target is required")
	}

	for idx, t := range raw.Targets {
		v.log.Debug("validate target", "address", t.Address, "index", idx)
		if err := v.validateTarget(t); err != nil {
			return fmt.Errorf("failed to validate target at index %d: %w", idx, err)
		}
	}
	return nil
}

// validateTarget validates a single target entry.
func (v *validator) validateTarget(t *target) error {
	if t.Address == "" {
		return fmt.Errorf("address is empty")
	}
	if !common.IsHexAddress(t.Address) {
		return fmt.Errorf("invalid address: %s", t.Address)
	}
	if t.Slot != "" {
		hex := strings.TrimPrefix(t.Slot, "0x")
		if len(hex) == 0 || len(hex) > 64 {
			return fmt.Errorf("invalid slot: %s", t.Slot)
		}
	}
	return nil
}
