package fleet

import (
	"fmt"
	"sync"

	"github.com/signalsfoundry/orbital-compute-sim/model"
)

// EventType indicates what kind of change happened in the fleet.
type EventType int

const (
	EventDeployed EventType = iota
	EventFailed
	EventRetired
)

// Event is emitted to subscribers when the fleet changes.
type Event struct {
	Type      EventType
	Satellite model.Satellite
}

// Store is the canonical, engine-owned fleet list plus per-shell
// occupancy counters. It is thread-safe so consumers (metrics, CLI
// printers) can snapshot between ticks, but only the engine's stepping
// and deployment operations mutate it.
type Store struct {
	mu sync.RWMutex

	sats map[string]*model.Satellite
	// order preserves deployment order so iteration (and therefore the
	// per-satellite survival rolls) is deterministic for a given seed.
	order     []string
	occupancy map[model.ShellID]int

	// nextSeq is the run-owned satellite ID counter; it deliberately
	// lives here rather than in package state so concurrent or
	// repeated runs cannot collide.
	nextSeq uint64

	subs []func(Event)
}

// NewStore constructs an empty fleet store.
func NewStore() *Store {
	return &Store{
		sats:      make(map[string]*model.Satellite),
		occupancy: make(map[model.ShellID]int),
	}
}

// AllocateID returns the next sequential satellite identifier.
func (s *Store) AllocateID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	return fmt.Sprintf("sat-%06d", s.nextSeq)
}

// Add inserts a newly deployed satellite and bumps its shell's
// occupancy. It returns an error if the ID already exists.
func (s *Store) Add(sat model.Satellite) error {
	if sat.ID == "" {
		return fmt.Errorf("satellite with empty ID")
	}

	s.mu.Lock()
	if _, exists := s.sats[sat.ID]; exists {
		s.mu.Unlock()
		return fmt.Errorf("satellite with ID %q already exists", sat.ID)
	}
	stored := sat
	s.sats[sat.ID] = &stored
	s.order = append(s.order, sat.ID)
	s.occupancy[sat.Shell]++
	subs := append([]func(Event){}, s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub(Event{Type: EventDeployed, Satellite: sat})
	}
	return nil
}

// Remove deletes a satellite (failure or retirement), decrements its
// shell occupancy, and returns a copy of what was removed.
func (s *Store) Remove(id string, reason EventType) (model.Satellite, error) {
	s.mu.Lock()
	sat, ok := s.sats[id]
	if !ok {
		s.mu.Unlock()
		return model.Satellite{}, fmt.Errorf("satellite with ID %q not found", id)
	}
	removed := *sat
	delete(s.sats, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.occupancy[removed.Shell] > 0 {
		s.occupancy[removed.Shell]--
	}
	subs := append([]func(Event){}, s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub(Event{Type: reason, Satellite: removed})
	}
	return removed, nil
}

// Get returns a copy of the satellite with the given ID.
func (s *Store) Get(id string) (model.Satellite, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sat, ok := s.sats[id]
	if !ok {
		return model.Satellite{}, false
	}
	return *sat, true
}

// List returns value copies of every satellite in deployment order.
func (s *Store) List() []model.Satellite {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Satellite, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.sats[id])
	}
	return out
}

// IDs returns the satellite IDs in deployment order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Count returns the current fleet size.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sats)
}

// Occupancy returns the number of satellites in one shell.
func (s *Store) Occupancy(id model.ShellID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.occupancy[id]
}

// OccupancyByShell returns a copy of the per-shell occupancy counters.
func (s *Store) OccupancyByShell() map[model.ShellID]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[model.ShellID]int, len(s.occupancy))
	for k, v := range s.occupancy {
		out[k] = v
	}
	return out
}

// PositionsInShell returns the geodetic positions of every satellite
// currently in the shell, for separation checks during placement.
func (s *Store) PositionsInShell(id model.ShellID) []model.GeodeticPosition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.GeodeticPosition
	for _, oid := range s.order {
		if sat := s.sats[oid]; sat.Shell == id {
			out = append(out, sat.Geodetic)
		}
	}
	return out
}

// UpdateOrbit stores a satellite's propagated phase angle and position.
func (s *Store) UpdateOrbit(id string, phaseRad float64, geo model.GeodeticPosition, cart model.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sat, ok := s.sats[id]
	if !ok {
		return fmt.Errorf("satellite with ID %q not found", id)
	}
	sat.Orbit.PhaseRad = phaseRad
	sat.Geodetic = geo
	sat.Cartesian = cart
	return nil
}

// Subscribe registers a callback for fleet events and returns an
// unsubscribe function.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
	idx := len(s.subs) - 1

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < 0 || idx >= len(s.subs) {
			return
		}
		s.subs = append(s.subs[:idx], s.subs[idx+1:]...)
		idx = -1
	}
}
