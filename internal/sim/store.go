package sim

import "sort"

// EntityID identifies an entity for its whole life. IDs are never reused.
type EntityID uint64

// Position is a world-space point. The origin is the field centre, y grows upward.
type Position struct {
	X float64
	Y float64
}

// Store owns every live entity. Components live in one map per kind, keyed
// by entity; an entity exists while it has at least one component.
//
// Systems may mutate the values behind the pointers concurrently as long as
// no two goroutines touch the same entity; the maps themselves are only
// written from the tick goroutine.
type Store struct {
	nextID    EntityID
	positions map[EntityID]*Position
	fighters  map[EntityID]*Fighter
	effects   map[EntityID]*Effect
	timeouts  map[EntityID]*Timeout
}

func NewStore() *Store {
	return &Store{
		nextID:    1,
		positions: make(map[EntityID]*Position),
		fighters:  make(map[EntityID]*Fighter),
		effects:   make(map[EntityID]*Effect),
		timeouts:  make(map[EntityID]*Timeout),
	}
}

func (s *Store) newEntity() EntityID {
	id := s.nextID
	s.nextID++
	return id
}

// AddFighter creates a fighter entity at pos.
func (s *Store) AddFighter(pos Position, f *Fighter) EntityID {
	id := s.newEntity()
	p := pos
	s.positions[id] = &p
	s.fighters[id] = f
	return id
}

// AddEffect creates an ephemeral visual entity at pos.
func (s *Store) AddEffect(pos Position, e *Effect) EntityID {
	id := s.newEntity()
	p := pos
	s.positions[id] = &p
	s.effects[id] = e
	return id
}

// SetTimeout attaches a countdown to an existing entity. It is a no-op for
// an entity that no longer exists.
func (s *Store) SetTimeout(id EntityID, t *Timeout) {
	if !s.Exists(id) {
		return
	}
	s.timeouts[id] = t
}

// Remove deletes every component of id and reports whether it existed.
func (s *Store) Remove(id EntityID) bool {
	existed := s.Exists(id)
	delete(s.positions, id)
	delete(s.fighters, id)
	delete(s.effects, id)
	delete(s.timeouts, id)
	return existed
}

// Exists reports whether id is live.
func (s *Store) Exists(id EntityID) bool {
	if _, ok := s.positions[id]; ok {
		return true
	}
	if _, ok := s.fighters[id]; ok {
		return true
	}
	if _, ok := s.effects[id]; ok {
		return true
	}
	_, ok := s.timeouts[id]
	return ok
}

// Fighter returns the fighter component of id.
func (s *Store) Fighter(id EntityID) (*Fighter, bool) {
	f, ok := s.fighters[id]
	return f, ok
}

// Position returns the position component of id.
func (s *Store) Position(id EntityID) (*Position, bool) {
	p, ok := s.positions[id]
	return p, ok
}

// Effect returns the effect component of id.
func (s *Store) Effect(id EntityID) (*Effect, bool) {
	e, ok := s.effects[id]
	return e, ok
}

// Timeout returns the countdown attached to id.
func (s *Store) Timeout(id EntityID) (*Timeout, bool) {
	t, ok := s.timeouts[id]
	return t, ok
}

// FighterIDs returns the live fighters in ascending ID (spawn) order.
func (s *Store) FighterIDs() []EntityID {
	return sortedKeys(s.fighters)
}

// EffectIDs returns the live effects in ascending ID order.
func (s *Store) EffectIDs() []EntityID {
	return sortedKeys(s.effects)
}

// TimeoutIDs returns the entities with a countdown in ascending ID order.
func (s *Store) TimeoutIDs() []EntityID {
	return sortedKeys(s.timeouts)
}

// FighterCount returns the number of live fighters.
func (s *Store) FighterCount() int {
	return len(s.fighters)
}

// Len returns the number of live entities.
func (s *Store) Len() int {
	seen := make(map[EntityID]struct{}, len(s.positions))
	for id := range s.positions {
		seen[id] = struct{}{}
	}
	for id := range s.fighters {
		seen[id] = struct{}{}
	}
	for id := range s.effects {
		seen[id] = struct{}{}
	}
	for id := range s.timeouts {
		seen[id] = struct{}{}
	}
	return len(seen)
}

func sortedKeys[V any](m map[EntityID]V) []EntityID {
	ids := make([]EntityID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
