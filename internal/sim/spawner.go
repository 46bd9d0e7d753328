package sim

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
)

// PlayerSide is the side driven by clicks; AutoSide is computer controlled.
const (
	PlayerSide = SideLeft
	AutoSide   = SideRight
)

// SpawnZone is the strip along each edge where fighters enter the field.
type SpawnZone struct {
	Width  float64 // how far in from the edge clicks are accepted
	Offset float64 // how far in from the edge fighters appear
}

// SpawnCadence shapes the computer side's spawn timer. The interval after a
// spawn is Base * FundsScale / (FundsScale + money), never below Min, so a
// richer purse spawns faster.
type SpawnCadence struct {
	Base       float64
	Min        float64
	FundsScale float64
}

var (
	DefaultSpawnZone = SpawnZone{Width: 96, Offset: 16}
	DefaultCadence   = SpawnCadence{Base: 4, Min: 0.6, FundsScale: 20}
)

func (c SpawnCadence) validate() error {
	if c.Base <= 0 || c.Min <= 0 || c.FundsScale <= 0 {
		return eris.Errorf("spawn cadence must be positive, got base=%v min=%v scale=%v", c.Base, c.Min, c.FundsScale)
	}
	return nil
}

// Interval returns the delay before the next spawn given the purse after
// paying for the current one.
func (c SpawnCadence) Interval(money uint32) float64 {
	iv := c.Base * c.FundsScale / (c.FundsScale + float64(money))
	return math.Max(iv, c.Min)
}

// Spawner holds the zone geometry and the computer side's timer.
type Spawner struct {
	zone    SpawnZone
	cadence SpawnCadence
	timer   float64
	auto    bool
}

func NewSpawner(zone SpawnZone, cadence SpawnCadence) *Spawner {
	return &Spawner{
		zone:    zone,
		cadence: cadence,
		timer:   cadence.Base,
		auto:    true,
	}
}

// zoneRange returns the x extent of side's spawn zone.
func (s *Spawner) zoneRange(side Side, width float64) (lo, hi float64) {
	half := width / 2
	if side == SideLeft {
		return -half, -half + s.zone.Width
	}
	return half - s.zone.Width, half
}

// entryX is where side's fighters appear.
func (s *Spawner) entryX(side Side, width float64) float64 {
	return -side.Sign() * (width/2 - s.zone.Offset)
}

// ZoneRange returns the x extent of side's spawn zone on the current field.
func (w *World) ZoneRange(side Side) (lo, hi float64) {
	return w.spawner.zoneRange(side, w.width)
}

// Spawn buys a fighter of preset for side at lane y. It fails without side
// effects when side cannot pay.
func (w *World) Spawn(side Side, preset PresetID, y float64) (EntityID, bool) {
	if !preset.Valid() {
		return 0, false
	}
	skills := preset.Skills()
	if !w.economy.Debit(side, uint32(skills.Price)) {
		return 0, false
	}
	pos := Position{X: w.spawner.entryX(side, w.width), Y: wrapLane(y, w.height)}
	id := w.store.AddFighter(pos, NewFighter(skills, side))

	st := &w.stats.Sides[side]
	st.Spawned++
	st.Spent += uint32(skills.Price)
	w.log.Add(w.tick, entityLabel(side, id), side.String(), "spawn", "fighter",
		fmt.Sprintf("%s at (%.0f,%.0f)", preset, pos.X, pos.Y), float64(skills.Price))
	w.logger.Debug().
		Int("tick", w.tick).
		Uint64("id", uint64(id)).
		Str("side", side.String()).
		Str("preset", preset.String()).
		Msg("fighter spawned")
	return id, true
}

// handleClicks turns this tick's clicks into player spawns. Clicks outside
// the player's zone or beyond the purse are dropped.
func (w *World) handleClicks(clicks []Click) {
	lo, hi := w.spawner.zoneRange(PlayerSide, w.width)
	for _, c := range clicks {
		reason := ""
		switch {
		case !c.Preset.Valid():
			reason = "preset"
		case c.X < lo || c.X > hi:
			reason = "outside_zone"
		case !w.economy.CanAfford(PlayerSide, uint32(c.Preset.Skills().Price)):
			reason = "funds"
		}
		if reason != "" {
			w.log.Add(w.tick, "--", PlayerSide.String(), "spawn", "rejected",
				fmt.Sprintf("%s at (%.0f,%.0f): %s", c.Preset, c.X, c.Y, reason), 0)
			continue
		}
		w.Spawn(PlayerSide, c.Preset, c.Y)
	}
}

// updateAutoSpawn runs the computer side's timer. When it runs out the side
// buys a random affordable preset in a random lane; if nothing is
// affordable the timer stays at zero and the purchase is retried next tick.
func (w *World) updateAutoSpawn(dt float64) {
	sp := w.spawner
	if !sp.auto {
		return
	}
	sp.timer -= dt
	if sp.timer > 0 {
		return
	}
	sp.timer = 0

	var affordable []PresetID
	for p := PresetID(0); p < presetCount; p++ {
		if w.economy.CanAfford(AutoSide, uint32(p.Skills().Price)) {
			affordable = append(affordable, p)
		}
	}
	if len(affordable) == 0 {
		return
	}
	preset := affordable[w.rng.Intn(len(affordable))]
	y := w.rng.Float64()*w.height - w.height/2
	if _, ok := w.Spawn(AutoSide, preset, y); ok {
		sp.timer = sp.cadence.Interval(w.economy.Balance(AutoSide))
	}
}
