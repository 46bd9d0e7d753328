package sim

import (
	"math"
	"sort"
)

// DefaultExtent is the side length of a fighter's square collision box.
const DefaultExtent = 32.0

// FighterPair is one unordered pair visited by the collision sweep.
type FighterPair struct {
	A, B EntityID
}

// Engagement is a pair of opposing fighters locked in melee.
type Engagement struct {
	A, B EntityID
}

// overlaps is an axis-aligned box test for two equal square boxes centred on
// a and b. Touching edges do not count.
func overlaps(a, b Position, extent float64) bool {
	return math.Abs(a.X-b.X) < extent && math.Abs(a.Y-b.Y) < extent
}

// fighterPairs lists every unordered pair of ids exactly once.
func fighterPairs(ids []EntityID) []FighterPair {
	if len(ids) < 2 {
		return nil
	}
	pairs := make([]FighterPair, 0, len(ids)*(len(ids)-1)/2)
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			pairs = append(pairs, FighterPair{A: ids[i], B: ids[j]})
		}
	}
	return pairs
}

// rearOf returns which of two same-side fighters is behind the other and has
// to wait. Progress is x along the walking direction; the fighter with less
// progress waits. On an exact tie the later spawn (higher ID) waits.
func rearOf(a, b EntityID, pa, pb Position, side Side) EntityID {
	progA := pa.X * side.Sign()
	progB := pb.X * side.Sign()
	switch {
	case progA < progB:
		return a
	case progB < progA:
		return b
	case a > b:
		return a
	default:
		return b
	}
}

type engagementCandidate struct {
	lo, hi   EntityID
	existing bool // already mutually engaged before this tick
	dx, dy   float64
}

// ResolveEngagements runs the pairwise sweep over all live fighters.
// It returns the engagements that were not in place before this tick.
func ResolveEngagements(store *Store, extent float64) []Engagement {
	return resolvePairs(store, fighterPairs(store.FighterIDs()), extent)
}

// resolvePairs is the sweep over an explicit pair list. The outcome does not
// depend on the order of pairs: waiting is accumulated with OR semantics and
// engagements are matched after the scan on a fully ordered key.
func resolvePairs(store *Store, pairs []FighterPair, extent float64) []Engagement {
	waiting := make(map[EntityID]bool)
	var candidates []engagementCandidate

	for _, pr := range pairs {
		fa, okA := store.fighters[pr.A]
		fb, okB := store.fighters[pr.B]
		if !okA || !okB {
			continue
		}
		pa, pb := *store.positions[pr.A], *store.positions[pr.B]
		if !overlaps(pa, pb, extent) {
			continue
		}
		if fa.Side == fb.Side {
			waiting[rearOf(pr.A, pr.B, pa, pb, fa.Side)] = true
			continue
		}
		lo, hi := pr.A, pr.B
		if hi < lo {
			lo, hi = hi, lo
		}
		candidates = append(candidates, engagementCandidate{
			lo:       lo,
			hi:       hi,
			existing: engagedWith(fa, pr.B) && engagedWith(fb, pr.A),
			dx:       math.Abs(pa.X - pb.X),
			dy:       math.Abs(pa.Y - pb.Y),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		if ci.existing != cj.existing {
			return ci.existing
		}
		if ci.dx != cj.dx {
			return ci.dx < cj.dx
		}
		if ci.dy != cj.dy {
			return ci.dy < cj.dy
		}
		if ci.lo != cj.lo {
			return ci.lo < cj.lo
		}
		return ci.hi < cj.hi
	})

	engaged := make(map[EntityID]bool)
	var fresh []Engagement
	for _, c := range candidates {
		if engaged[c.lo] || engaged[c.hi] {
			continue
		}
		engaged[c.lo] = true
		engaged[c.hi] = true
		store.fighters[c.lo].engage(c.hi)
		store.fighters[c.hi].engage(c.lo)
		if !c.existing {
			fresh = append(fresh, Engagement{A: c.lo, B: c.hi})
		}
	}
	// A fighter pressed against an enemy that is busy with someone else
	// holds its ground behind the melee.
	for _, c := range candidates {
		if !engaged[c.lo] {
			waiting[c.lo] = true
		}
		if !engaged[c.hi] {
			waiting[c.hi] = true
		}
	}

	for id, f := range store.fighters {
		f.Waiting = waiting[id] && !engaged[id]
		if f.Fighting != nil && !engaged[id] {
			if _, alive := store.fighters[*f.Fighting]; !alive {
				f.disengage()
			}
		}
	}
	return fresh
}

func engagedWith(f *Fighter, id EntityID) bool {
	return f.Fighting != nil && *f.Fighting == id
}
