package sim

import "testing"

func TestChunkBounds(t *testing.T) {
	cases := []struct {
		n, workers int
		want       int // number of chunks
	}{
		{0, 4, 0},
		{10, 4, 1},
		{minChunk, 8, 1},
		{minChunk * 4, 4, 4},
		{minChunk*4 + 1, 4, 4},
		{1000, 0, 1},
	}
	for _, tc := range cases {
		b := chunkBounds(tc.n, tc.workers)
		if len(b) != tc.want {
			t.Errorf("chunkBounds(%d, %d) = %d chunks, want %d", tc.n, tc.workers, len(b), tc.want)
			continue
		}
		next := 0
		for _, r := range b {
			if r[0] != next || r[1] <= r[0] {
				t.Errorf("chunkBounds(%d, %d) has a gap or empty range at %v", tc.n, tc.workers, r)
			}
			next = r[1]
		}
		if tc.n > 0 && next != tc.n {
			t.Errorf("chunkBounds(%d, %d) covers %d items", tc.n, tc.workers, next)
		}
	}
}

func TestParallelChunksKeepsOrder(t *testing.T) {
	ids := make([]EntityID, 1000)
	for i := range ids {
		ids[i] = EntityID(i + 1)
	}
	got := parallelChunks(ids, 8, func(chunk []EntityID) []EntityID {
		out := make([]EntityID, 0, len(chunk))
		for _, id := range chunk {
			if id%3 == 0 {
				out = append(out, id)
			}
		}
		return out
	})
	if len(got) != 333 {
		t.Fatalf("got %d results, want 333", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("results out of order at %d: %d after %d", i, got[i], got[i-1])
		}
	}
}

func TestCollectAttacksTicksEveryCooldown(t *testing.T) {
	s := NewStore()
	ready := place(s, SideLeft, 0, 0)
	foe := place(s, SideRight, 10, 0)
	idle := place(s, SideLeft, 500, 0)
	ResolveEngagements(s, DefaultExtent)

	fi, _ := s.Fighter(idle)
	fi.AttackCooldown = 0.5
	ff, _ := s.Fighter(foe)
	ff.AttackCooldown = 0.5

	orders := collectAttacks(s, 0.1, 4)
	if len(orders) != 1 || orders[0].attacker != ready || orders[0].defender != foe {
		t.Fatalf("orders = %+v, want one from %d on %d", orders, ready, foe)
	}
	if ff.AttackCooldown < 0.39 || ff.AttackCooldown > 0.41 {
		t.Errorf("foe cooldown = %v, want 0.4", ff.AttackCooldown)
	}
	if fi.AttackCooldown < 0.39 || fi.AttackCooldown > 0.41 {
		t.Errorf("idle cooldown = %v, want 0.4", fi.AttackCooldown)
	}
	fr, _ := s.Fighter(ready)
	if fr.AttackCooldown != 0 {
		t.Errorf("ready cooldown = %v, want clamped to 0", fr.AttackCooldown)
	}
}

func TestScenario_MutualKill(t *testing.T) {
	// The first order kills the second fighter, whose own order is still
	// resolved from its captured skills, so both fall on the same tick.
	killer := Skills{Attack: 255, Strength: 255, HP: 1, Speed: 1}
	both := 0
	for seed := int64(1); seed <= 20; seed++ {
		ts := NewTestSim(
			WorldOpt(WithSeed(seed)),
			WithFighter(SideLeft, killer, 0, 0, 0),
			WithFighter(SideRight, killer, 0, 10, 0),
		)
		ts.RunTicks(1)
		if ts.SimLog.CountCategory("combat", "hit") != 2 {
			continue
		}
		both++
		if n := ts.World.Store().FighterCount(); n != 0 {
			t.Fatalf("seed %d: %d fighters survived a double hit", seed, n)
		}
		st := ts.World.Stats()
		if st.Side(SideLeft).Kills != 1 || st.Side(SideRight).Kills != 1 {
			t.Errorf("seed %d: kills left=%d right=%d, want 1 each", seed, st.Side(SideLeft).Kills, st.Side(SideRight).Kills)
		}
		if ts.World.Money(SideLeft) != DefaultStartingMoney+KillBounty {
			t.Errorf("seed %d: left money %d, want bounty paid", seed, ts.World.Money(SideLeft))
		}
	}
	if both == 0 {
		t.Fatal("no seed produced a double hit")
	}
}

func TestResolveAttacksOpponentGone(t *testing.T) {
	cases := []struct {
		name     string
		cooldown float64 // left on the attacker when its order drains
	}{
		{"ready", 0},
		{"carries prior cooldown", 0.25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := NewTestSim(WithPreset(SideLeft, PresetFighter, 0, 0))
			a := EntityID(1)
			gone := EntityID(999)
			f, ok := ts.World.store.Fighter(a)
			if !ok {
				t.Fatal("attacker missing")
			}
			f.engage(gone)
			f.AttackCooldown = tc.cooldown

			ts.World.resolveAttacks([]attackOrder{{attacker: a, defender: gone, skills: f.Skills, side: SideLeft}})

			if f.Fighting != nil {
				t.Errorf("Fighting = %d, want cleared", *f.Fighting)
			}
			if want := tc.cooldown + AttackCooldown; f.AttackCooldown != want {
				t.Errorf("cooldown = %v, want %v", f.AttackCooldown, want)
			}
			if f.HP != f.Skills.HP {
				t.Errorf("attacker hp changed to %d", f.HP)
			}
			if n := ts.SimLog.CountCategory("combat", "hit"); n != 0 {
				t.Errorf("%d hits logged against a missing defender", n)
			}
			if !ts.SimLog.HasEntry("combat", "disengage", "999") {
				t.Errorf("no disengage entry:\n%s", ts.SimLog.Format())
			}
			if len(ts.World.store.EffectIDs()) != 0 {
				t.Error("impact effects spawned without a hit")
			}
		})
	}
}
