package sim

import "fmt"

// crossedField reports whether a fighter at x has walked past the far edge
// for its side.
func crossedField(side Side, x, width float64) bool {
	half := width / 2
	if side == SideLeft {
		return x > half
	}
	return x < -half
}

// resolveSieges removes fighters that reached the enemy edge and pays their
// siege value to their own side. Any opponent still pointing at a removed
// fighter drops the reference on its next swing.
func (w *World) resolveSieges() {
	for _, id := range w.store.FighterIDs() {
		f := w.store.fighters[id]
		p := w.store.positions[id]
		if !crossedField(f.Side, p.X, w.width) {
			continue
		}
		w.store.Remove(id)
		w.economy.Credit(f.Side, uint32(f.Skills.Siege))
		st := &w.stats.Sides[f.Side]
		st.Sieges++
		st.SiegeCoins += uint32(f.Skills.Siege)
		w.log.Add(w.tick, entityLabel(f.Side, id), f.Side.String(), "siege", "cross",
			fmt.Sprintf("+%d coins at x=%.0f", f.Skills.Siege, p.X), float64(f.Skills.Siege))
		w.logger.Debug().
			Int("tick", w.tick).
			Uint64("id", uint64(id)).
			Str("side", f.Side.String()).
			Uint8("siege", f.Skills.Siege).
			Msg("fighter crossed the field")
	}
}
