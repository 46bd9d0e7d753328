package sim

import "math"

// baseRate converts the Speed skill into world units per second.
const baseRate = 3.0

// wrapLane folds y into [-height/2, height/2) so fighters walking off the top
// of the field reappear at the bottom.
func wrapLane(y, height float64) float64 {
	if height <= 0 {
		return y
	}
	w := math.Mod(y+height/2, height)
	if w < 0 {
		w += height
	}
	return w - height/2
}

// MoveFighters advances every free fighter horizontally and wraps its lane.
// Chunks of fighters are updated concurrently.
func MoveFighters(store *Store, dt, height float64, workers int) {
	ids := store.FighterIDs()
	parallelChunks(ids, workers, func(chunk []EntityID) []struct{} {
		for _, id := range chunk {
			f := store.fighters[id]
			if !f.Moving() {
				continue
			}
			p := store.positions[id]
			p.X += f.Side.Sign() * baseRate * float64(f.Skills.Speed) * dt
			p.Y = wrapLane(p.Y, height)
		}
		return nil
	})
}
