package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreIDsAreMonotonic(t *testing.T) {
	s := NewStore()
	a := s.AddFighter(Position{}, NewFighter(Presets[PresetPrivate], SideLeft))
	b := s.AddEffect(Position{}, &Effect{Kind: EffectHitMarker})
	require.True(t, s.Remove(a))
	c := s.AddFighter(Position{}, NewFighter(Presets[PresetPrivate], SideRight))

	assert.Less(t, uint64(a), uint64(b))
	assert.Less(t, uint64(b), uint64(c), "IDs must never be reused")
	assert.Equal(t, []EntityID{c}, s.FighterIDs())
	assert.Equal(t, []EntityID{b}, s.EffectIDs())
	assert.Equal(t, 2, s.Len())
}

func TestStoreRemoveDropsEveryComponent(t *testing.T) {
	s := NewStore()
	id := s.AddEffect(Position{X: 1, Y: 2}, &Effect{Kind: EffectDamageText, Text: "3"})
	s.SetTimeout(id, &Timeout{TimeLeft: 1})

	require.True(t, s.Exists(id))
	require.True(t, s.Remove(id))
	assert.False(t, s.Exists(id))
	assert.False(t, s.Remove(id), "second remove reports a missing entity")

	_, ok := s.Position(id)
	assert.False(t, ok)
	_, ok = s.Timeout(id)
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestSetTimeoutOnMissingEntityIsNoop(t *testing.T) {
	s := NewStore()
	s.SetTimeout(42, &Timeout{TimeLeft: 1})
	assert.Empty(t, s.TimeoutIDs())
	assert.False(t, s.Exists(42))
}

func TestTimeoutExpiresAtBoundary(t *testing.T) {
	s := NewStore()
	tied := s.AddEffect(Position{}, &Effect{Kind: EffectDamageText, Text: "7"})
	owner := s.AddEffect(Position{}, &Effect{Kind: EffectHitMarker})
	s.SetTimeout(owner, &Timeout{TimeLeft: 1.0, TiedTo: []EntityID{tied}})

	assert.Empty(t, ExpireTimeouts(s, 0.5))
	assert.Empty(t, ExpireTimeouts(s, 0.49))
	assert.True(t, s.Exists(owner))
	assert.True(t, s.Exists(tied))

	removed := ExpireTimeouts(s, 0.02)
	assert.Equal(t, []EntityID{owner, tied}, removed)
	assert.False(t, s.Exists(owner))
	assert.False(t, s.Exists(tied))
}

func TestTimeoutRemovesTiedFighter(t *testing.T) {
	s := NewStore()
	f := s.AddFighter(Position{}, NewFighter(Presets[PresetFighter], SideLeft))
	gone := EntityID(999)
	owner := s.AddEffect(Position{}, &Effect{Kind: EffectHitMarker})
	s.SetTimeout(owner, &Timeout{TimeLeft: 0.1, TiedTo: []EntityID{gone, f}})

	removed := ExpireTimeouts(s, 0.2)
	assert.Equal(t, []EntityID{owner, f}, removed, "missing tied entities are skipped")
	assert.Zero(t, s.FighterCount())
}

func TestSpawnImpactPairsMarkerAndText(t *testing.T) {
	s := NewStore()
	marker := spawnImpact(s, Position{X: 10, Y: 20}, 6)

	e, ok := s.Effect(marker)
	require.True(t, ok)
	assert.Equal(t, EffectHitMarker, e.Kind)

	to, ok := s.Timeout(marker)
	require.True(t, ok)
	assert.InDelta(t, impactLifetime, to.TimeLeft, 1e-9)
	require.Len(t, to.TiedTo, 1)

	text, ok := s.Effect(to.TiedTo[0])
	require.True(t, ok)
	assert.Equal(t, "6", text.Text)
	p, _ := s.Position(to.TiedTo[0])
	assert.Equal(t, Position{X: 10, Y: 20 + impactRise}, *p)
}

func TestEconomy(t *testing.T) {
	e := NewEconomy(10, 0)

	assert.False(t, e.Debit(SideRight, 1), "empty purse cannot pay")
	assert.Zero(t, e.Balance(SideRight))

	assert.True(t, e.Debit(SideLeft, 10))
	assert.Zero(t, e.Balance(SideLeft))
	assert.False(t, e.Debit(SideLeft, 1))

	e.Credit(SideRight, math.MaxUint32-1)
	e.Credit(SideRight, 5)
	assert.Equal(t, uint32(math.MaxUint32), e.Balance(SideRight), "credit saturates")
	assert.True(t, e.CanAfford(SideRight, math.MaxUint32))
}

func TestSatSub(t *testing.T) {
	assert.Equal(t, uint8(3), satSub(5, 2))
	assert.Equal(t, uint8(0), satSub(2, 5))
	assert.Equal(t, uint8(0), satSub(0, 0))
	assert.Equal(t, uint8(255), satSub(255, 0))
}

func TestCadenceInterval(t *testing.T) {
	c := SpawnCadence{Base: 4, Min: 0.6, FundsScale: 20}
	assert.InDelta(t, 4.0, c.Interval(0), 1e-9)
	assert.InDelta(t, 2.0, c.Interval(20), 1e-9)
	assert.InDelta(t, 0.6, c.Interval(10000), 1e-9, "interval has a floor")
	assert.Less(t, c.Interval(40), c.Interval(10), "more money spawns faster")

	require.Error(t, SpawnCadence{Base: 0, Min: 1, FundsScale: 1}.validate())
	require.NoError(t, DefaultCadence.validate())
}

func TestPresets(t *testing.T) {
	for p := PresetID(0); p < presetCount; p++ {
		sk := p.Skills()
		assert.NotZero(t, sk.Price, p.String())
		assert.NotZero(t, sk.HP, p.String())
		assert.NotZero(t, sk.Strength, p.String())
	}
	assert.False(t, PresetID(-1).Valid())
	assert.False(t, presetCount.Valid())
	assert.Equal(t, uint8(5), cheapestPrice())
}

func TestWrapLane(t *testing.T) {
	assert.InDelta(t, -50.0, wrapLane(150, 200), 1e-9)
	assert.InDelta(t, 50.0, wrapLane(-150, 200), 1e-9)
	assert.InDelta(t, -100.0, wrapLane(100, 200), 1e-9)
	assert.InDelta(t, 10.0, wrapLane(10, 200), 1e-9)
}
