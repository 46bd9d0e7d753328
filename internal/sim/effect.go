package sim

import "strconv"

// EffectKind distinguishes the ephemeral visuals the presentation layer draws.
type EffectKind int

const (
	EffectHitMarker  EffectKind = iota // small red square at the point of impact
	EffectDamageText                   // floating damage number
)

func (k EffectKind) String() string {
	if k == EffectDamageText {
		return "damage_text"
	}
	return "hit_marker"
}

// Effect is a non-interactive visual entity. It has no behaviour of its own;
// a Timeout removes it.
type Effect struct {
	Kind EffectKind
	Text string
}

// Timeout counts down and, at zero, removes its own entity and every entity
// in TiedTo. TiedTo is weak: tied entities may already be gone.
type Timeout struct {
	TimeLeft float64
	TiedTo   []EntityID
}

const (
	// impactLifetime is how long a hit marker and its damage number stay up.
	impactLifetime = 1.15
	// impactRise lifts the marker above the defender's sprite.
	impactRise = 45.0
)

// spawnImpact places a hit marker and a damage number above pos. The marker
// carries the timeout so both disappear together.
func spawnImpact(store *Store, pos Position, damage uint8) EntityID {
	at := Position{X: pos.X, Y: pos.Y + impactRise}
	text := store.AddEffect(at, &Effect{Kind: EffectDamageText, Text: strconv.Itoa(int(damage))})
	marker := store.AddEffect(at, &Effect{Kind: EffectHitMarker})
	store.SetTimeout(marker, &Timeout{TimeLeft: impactLifetime, TiedTo: []EntityID{text}})
	return marker
}
