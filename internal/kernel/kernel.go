// Package kernel wires the simulation's global mutable state into one
// explicit, injectable Context rather than leaving it as package-level
// state (spec §9). Grounded on the teacher's cmd/worldsim/main.go, which
// constructs its store/bus/rng at startup and threads them through by
// hand; Context gathers the same pieces into one struct so cmd/kernel can
// hand a single value to every tool handler.
package kernel

import (
	"fmt"
	"sync"

	"github.com/tobyjaguar/rpgkernel/internal/audit"
	"github.com/tobyjaguar/rpgkernel/internal/combat"
	"github.com/tobyjaguar/rpgkernel/internal/config"
	"github.com/tobyjaguar/rpgkernel/internal/dice"
	"github.com/tobyjaguar/rpgkernel/internal/events"
	"github.com/tobyjaguar/rpgkernel/internal/persistence"
)

// Clock is a monotonic tick counter satisfying audit.Clock. It never
// reads wall-clock time, so two kernels started from the same seed and
// fed the same calls produce byte-identical audit timestamps (§8
// invariant 6, replay equivalence).
type Clock struct {
	mu   sync.Mutex
	tick int64
}

// Now advances and returns the tick counter.
func (c *Clock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick++
	return c.tick
}

// Context holds every piece of global mutable state the tool handlers
// need, namespaced and seeded so the whole simulation can be reconstructed
// from (seed, audit log) alone.
type Context struct {
	mu         sync.RWMutex
	encounters map[string]*combat.Encounter

	Bus    *events.Bus
	Store  *persistence.DB
	Clock  *Clock
	Dice   *dice.Stream
	Audit  *audit.Log
	Config *config.Config
}

// New builds a Context from configuration: opens the store at cfg's DSN,
// seeds the root dice stream from rootSeed, and wires the audit log to
// the kernel's own Clock rather than wall time.
func New(cfg *config.Config, rootSeed string) (*Context, error) {
	store, err := persistence.Open(cfg.StoreDSN())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	bus := events.New(nil)
	clock := &Clock{}

	ctx := &Context{
		encounters: make(map[string]*combat.Encounter),
		Bus:        bus,
		Store:      store,
		Clock:      clock,
		Dice:       dice.New(rootSeed),
		Config:     cfg,
	}
	ctx.Audit = audit.NewLog(clock, nil)
	return ctx, nil
}

// encounterKey namespaces an encounter by session so two sessions may
// reuse the same encounter ID without colliding (§4.B "encounters are
// scoped to a session").
func encounterKey(sessionID, encounterID string) string {
	return sessionID + ":" + encounterID
}

// PutEncounter registers an in-memory encounter under its session.
func (c *Context) PutEncounter(sessionID string, e *combat.Encounter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.encounters[encounterKey(sessionID, e.ID)] = e
}

// GetEncounter looks up a live encounter by session and encounter ID.
func (c *Context) GetEncounter(sessionID, encounterID string) (*combat.Encounter, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.encounters[encounterKey(sessionID, encounterID)]
	return e, ok
}

// RemoveEncounter evicts an encounter from the live registry, typically
// once combat.EndEncounter has run and the result is persisted.
func (c *Context) RemoveEncounter(sessionID, encounterID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.encounters, encounterKey(sessionID, encounterID))
}

// Close releases the Context's store handle.
func (c *Context) Close() error {
	return c.Store.Close()
}
