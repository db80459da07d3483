package config

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"sparsempt/internal/log"
)

// parser handles the conversion of raw config data into a structured
// OracleConfig.
type parser struct {
	log log.Logger
}

// newParser creates a new parser with the specified logger.
func newParser(log log.Logger) *parser {
	return &parser{
		log: log.With("component", "config-parser"),
	}
}

// parse parses the raw config data into an OracleConfig.
func (p *parser) parse(raw *config) (*OracleConfig, error) {
	var targets []*TargetConfig
	for _, unparsed := range raw.Targets {
		parsed, err := p.parseTarget(unparsed)
		if err != nil {
			return nil, fmt.Errorf("failed to parse target: %w", err)
		}
		targets = append(targets, parsed)
	}

	return &OracleConfig{
		Network: raw.Network,
		RPCURL:  raw.RPCURL,
		Targets: targets,
	}, nil
}

// parseTarget parses a single target account entry.
func (p *parser) parseTarget(t *target) (*TargetConfig, error) {
	p.log.Debug("parse target", "address", t.Address)

	addr := common.HexToAddress(t.Address)

	if t.Slot == "" {
		return &TargetConfig{Addr: addr}, nil
	}

	return &TargetConfig{
		Addr:    addr,
		Slot:    common.HexToHash(t.Slot),
		HasSlot: true,
	}, nil
}
