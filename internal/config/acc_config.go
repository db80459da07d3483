package config

import "github.com/ethereum/go-ethereum/common"

// TargetConfig names a single (account, slot) the oracle reads and
// verifies. Slot is only meaningful when HasSlot is true; an account
// with no slot configured is read as a plain account proof.
type TargetConfig struct {
	Addr    common.Address
	Slot    common.Hash
	HasSlot bool
}

// OracleConfig is the top-level config structure for the oracle
// collaborator: which network and RPC endpoint to talk to, and which
// accounts/slots to read and verify.
type OracleConfig struct {
	Network string
	RPCURL  string
	Targets []*TargetConfig
}

// Contains reports whether addr is among the configured targets.
func (c *OracleConfig) Contains(addr common.Address) bool {
	for _, t := range c.Targets {
		if t.Addr == addr {
			return true
		}
	}
	return false
}
