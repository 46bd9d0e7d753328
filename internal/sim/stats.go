package sim

// SideStats tallies what one side did over a battle.
type SideStats struct {
	Spawned     int
	Kills       int
	Losses      int
	Sieges      int
	Hits        int
	Misses      int
	DamageDealt int
	SiegeCoins  uint32
	BountyCoins uint32
	Spent       uint32
}

// Stats is the running record for both sides.
type Stats struct {
	Sides [sideCount]SideStats
}

// Side returns the tally for side.
func (s Stats) Side(side Side) SideStats {
	return s.Sides[side]
}

// Score is the classic scoreboard: siege coins taken by the left side minus
// those taken by the right side.
func (s Stats) Score() int {
	return int(s.Sides[SideLeft].SiegeCoins) - int(s.Sides[SideRight].SiegeCoins)
}

// Accuracy is hits over swings, 0 before the first swing.
func (s SideStats) Accuracy() float64 {
	swings := s.Hits + s.Misses
	if swings == 0 {
		return 0
	}
	return float64(s.Hits) / float64(swings)
}
