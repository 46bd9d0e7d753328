package sim

import (
	"math/rand"
	"testing"
)

// place adds a bare fighter at (x, y) and returns its ID.
func place(s *Store, side Side, x, y float64) EntityID {
	return s.AddFighter(Position{X: x, Y: y}, NewFighter(Presets[PresetFighter], side))
}

func TestOverlapsIsStrict(t *testing.T) {
	a := Position{X: 0, Y: 0}
	if overlaps(a, Position{X: 32, Y: 0}, 32) {
		t.Error("boxes touching at the edge must not overlap")
	}
	if !overlaps(a, Position{X: 31.9, Y: -31.9}, 32) {
		t.Error("boxes just inside the extent must overlap")
	}
	if overlaps(a, Position{X: 0, Y: 40}, 32) {
		t.Error("vertically separated boxes must not overlap")
	}
}

func TestRearWaits(t *testing.T) {
	cases := []struct {
		name      string
		side      Side
		xa, xb    float64
		wantWaitA bool
		wantWaitB bool
	}{
		{"left, a behind", SideLeft, 0, 10, true, false},
		{"left, b behind", SideLeft, 10, 0, false, true},
		{"right, a behind", SideRight, 10, 0, true, false},
		{"right, b behind", SideRight, 0, 10, false, true},
		{"left, tie", SideLeft, 5, 5, false, true},
		{"right, tie", SideRight, 5, 5, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStore()
			a := place(s, tc.side, tc.xa, 0)
			b := place(s, tc.side, tc.xb, 0)
			if fresh := ResolveEngagements(s, DefaultExtent); len(fresh) != 0 {
				t.Fatalf("same-side fighters engaged: %v", fresh)
			}
			fa, _ := s.Fighter(a)
			fb, _ := s.Fighter(b)
			if fa.Waiting != tc.wantWaitA || fb.Waiting != tc.wantWaitB {
				t.Errorf("waiting a=%v b=%v, want a=%v b=%v", fa.Waiting, fb.Waiting, tc.wantWaitA, tc.wantWaitB)
			}
			if fa.Fighting != nil || fb.Fighting != nil {
				t.Error("same-side fighters must never fight")
			}
		})
	}
}

func TestOpponentsEngageMutually(t *testing.T) {
	s := NewStore()
	l := place(s, SideLeft, 0, 0)
	r := place(s, SideRight, 20, 5)

	fresh := ResolveEngagements(s, DefaultExtent)
	if len(fresh) != 1 || fresh[0] != (Engagement{A: l, B: r}) {
		t.Fatalf("fresh engagements = %v, want [{%d %d}]", fresh, l, r)
	}
	fl, _ := s.Fighter(l)
	fr, _ := s.Fighter(r)
	if !engagedWith(fl, r) || !engagedWith(fr, l) {
		t.Fatal("engagement is not mutual")
	}
	if fl.Waiting || fr.Waiting {
		t.Error("engaged fighters must not wait")
	}

	// Second pass keeps the pair and reports nothing new.
	if fresh := ResolveEngagements(s, DefaultExtent); len(fresh) != 0 {
		t.Errorf("existing engagement reported again: %v", fresh)
	}
	if !engagedWith(fl, r) || !engagedWith(fr, l) {
		t.Error("existing engagement was broken")
	}
}

func TestEngagedFighterIsNotForcedToWait(t *testing.T) {
	// L3 is ahead of L1 and both touch R2; L3 is closer to R2 so it gets the
	// fight, and L1 must still wait behind it.
	s := NewStore()
	l1 := place(s, SideLeft, 0, 0)
	r2 := place(s, SideRight, 10, 0)
	l3 := place(s, SideLeft, 5, 0)

	ResolveEngagements(s, DefaultExtent)

	f1, _ := s.Fighter(l1)
	f2, _ := s.Fighter(r2)
	f3, _ := s.Fighter(l3)
	if !engagedWith(f3, r2) || !engagedWith(f2, l3) {
		t.Fatalf("want L3 ⚔ R2, got L3=%v R2=%v", f3.Fighting, f2.Fighting)
	}
	if f3.Waiting {
		t.Error("L3 is engaged and must not wait")
	}
	if !f1.Waiting || f1.Fighting != nil {
		t.Errorf("L1 should wait behind the melee, waiting=%v fighting=%v", f1.Waiting, f1.Fighting)
	}
	if f1.Moving() {
		t.Error("L1 should not move")
	}
}

func TestWaitingClearsWhenAlone(t *testing.T) {
	s := NewStore()
	a := place(s, SideLeft, 0, 0)
	b := place(s, SideLeft, 10, 0)
	ResolveEngagements(s, DefaultExtent)
	fa, _ := s.Fighter(a)
	if !fa.Waiting {
		t.Fatal("rear fighter should wait")
	}

	s.Remove(b)
	ResolveEngagements(s, DefaultExtent)
	if fa.Waiting {
		t.Error("waiting must clear once nothing overlaps")
	}
}

func TestStaleOpponentIsCleared(t *testing.T) {
	s := NewStore()
	l := place(s, SideLeft, 0, 0)
	r := place(s, SideRight, 10, 0)
	ResolveEngagements(s, DefaultExtent)

	s.Remove(r)
	ResolveEngagements(s, DefaultExtent)
	fl, _ := s.Fighter(l)
	if fl.Fighting != nil {
		t.Errorf("reference to removed opponent survived: %v", *fl.Fighting)
	}
	if !fl.Moving() {
		t.Error("fighter should walk again once its opponent is gone")
	}
}

// crowd builds the same cluster of fighters into a fresh store every time.
func crowd() *Store {
	s := NewStore()
	rng := rand.New(rand.NewSource(7)) // #nosec G404 -- test layout
	for i := 0; i < 40; i++ {
		side := SideLeft
		if i%2 == 1 {
			side = SideRight
		}
		x := float64(rng.Intn(120)) - 60
		y := float64(rng.Intn(80)) - 40
		place(s, side, x, y)
	}
	return s
}

type resolvedState struct {
	waiting  bool
	fighting EntityID
}

func snapshotResolved(s *Store) map[EntityID]resolvedState {
	out := make(map[EntityID]resolvedState)
	for _, id := range s.FighterIDs() {
		f, _ := s.Fighter(id)
		st := resolvedState{waiting: f.Waiting}
		if f.Fighting != nil {
			st.fighting = *f.Fighting
		}
		out[id] = st
	}
	return out
}

func TestResolveIsIndependentOfPairOrder(t *testing.T) {
	base := crowd()
	pairs := fighterPairs(base.FighterIDs())
	resolvePairs(base, pairs, DefaultExtent)
	want := snapshotResolved(base)

	rng := rand.New(rand.NewSource(99)) // #nosec G404 -- permutations
	for run := 0; run < 25; run++ {
		s := crowd()
		perm := make([]FighterPair, len(pairs))
		copy(perm, pairs)
		rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
		for i := range perm {
			if rng.Intn(2) == 0 {
				perm[i].A, perm[i].B = perm[i].B, perm[i].A
			}
		}
		resolvePairs(s, perm, DefaultExtent)
		got := snapshotResolved(s)
		for id, w := range want {
			if got[id] != w {
				t.Fatalf("run %d: fighter %d resolved to %+v, want %+v", run, id, got[id], w)
			}
		}
	}
}

func TestEngagementSymmetryAfterResolve(t *testing.T) {
	s := crowd()
	ResolveEngagements(s, DefaultExtent)
	checkSymmetry(t, s)
}

// checkSymmetry verifies that every live opponent reference points back.
func checkSymmetry(t *testing.T, s *Store) {
	t.Helper()
	for _, id := range s.FighterIDs() {
		f, _ := s.Fighter(id)
		if f.Fighting == nil {
			continue
		}
		other, ok := s.Fighter(*f.Fighting)
		if !ok {
			continue
		}
		if !engagedWith(other, id) {
			t.Errorf("fighter %d fights %d but %d fights %v", id, *f.Fighting, *f.Fighting, other.Fighting)
		}
		if other.Side == f.Side {
			t.Errorf("fighter %d engaged with same-side %d", id, *f.Fighting)
		}
		if f.Waiting {
			t.Errorf("fighter %d is both fighting and waiting", id)
		}
	}
}
