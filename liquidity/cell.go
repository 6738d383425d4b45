package liquidity

import "sync"

// Cell is a single-writer/many-reader holder for the live Policy, grounded
// on the balanceValidationLock pattern used for exclusive balance checks
// elsewhere in this codebase's lineage. Readers (the peer supervisor
// deciding a quote) take the cheap RLock path; Set, the writer path (no
// HTTP route calls it), swaps the whole value so no reader ever observes a
// half-updated Policy.
type Cell struct {
	mu     sync.RWMutex
	policy Policy
}

// NewCell returns a Cell seeded with the given Policy.
func NewCell(p Policy) *Cell {
	return &Cell{policy: p}
}

// Get returns the currently active Policy.
func (c *Cell) Get() Policy {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.policy
}

// Set replaces the active Policy wholesale.
func (c *Cell) Set(p Policy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policy = p
}

// Decide reads the active Policy and evaluates it against the given quote,
// under a single RLock for a consistent view of Bounds.
func (c *Cell) Decide(amountSat, feeSat, creditAvailableSat uint64, channelsEmpty bool) Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.policy.Decide(amountSat, feeSat, creditAvailableSat, channelsEmpty)
}
