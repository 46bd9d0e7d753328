package sim

type BattleOutcome int

const (
	OutcomeInconclusive BattleOutcome = iota
	OutcomeLeftVictory
	OutcomeRightVictory
	OutcomeDraw
)

func (o BattleOutcome) String() string {
	switch o {
	case OutcomeLeftVictory:
		return "left_victory"
	case OutcomeRightVictory:
		return "right_victory"
	case OutcomeDraw:
		return "draw"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

// decisiveScore is the siege score margin that settles a battle on its own.
const decisiveScore = 25

type BattleOutcomeReason struct {
	Outcome      BattleOutcome
	Score        int
	LeftSpawned  int
	LeftLosses   int
	RightSpawned int
	RightLosses  int
	LeftSieges   int
	RightSieges  int
	LeftMoney    uint32
	RightMoney   uint32
	Description  string
}

// DetermineOutcome judges a battle from its statistics and final purses.
func DetermineOutcome(stats Stats, leftMoney, rightMoney uint32) BattleOutcomeReason {
	l, r := stats.Side(SideLeft), stats.Side(SideRight)
	reason := func(o BattleOutcome, desc string) BattleOutcomeReason {
		return BattleOutcomeReason{
			Outcome:      o,
			Score:        stats.Score(),
			LeftSpawned:  l.Spawned,
			LeftLosses:   l.Losses,
			RightSpawned: r.Spawned,
			RightLosses:  r.Losses,
			LeftSieges:   l.Sieges,
			RightSieges:  r.Sieges,
			LeftMoney:    leftMoney,
			RightMoney:   rightMoney,
			Description:  desc,
		}
	}

	if l.Spawned == 0 && r.Spawned == 0 {
		return reason(OutcomeInconclusive, "inconclusive_no_fighters")
	}

	score := stats.Score()
	if score >= decisiveScore {
		return reason(OutcomeLeftVictory, "decisive_left_victory_siege")
	}
	if score <= -decisiveScore {
		return reason(OutcomeRightVictory, "decisive_right_victory_siege")
	}

	leftRate := casualtyRate(l)
	rightRate := casualtyRate(r)
	diff := rightRate - leftRate
	if diff > 0.30 && leftRate < 0.50 {
		return reason(OutcomeLeftVictory, "marginal_left_victory_casualty_advantage")
	}
	if diff < -0.30 && rightRate < 0.50 {
		return reason(OutcomeRightVictory, "marginal_right_victory_casualty_advantage")
	}
	if score > 0 && diff >= 0 {
		return reason(OutcomeLeftVictory, "marginal_left_victory_siege")
	}
	if score < 0 && diff <= 0 {
		return reason(OutcomeRightVictory, "marginal_right_victory_siege")
	}
	if diff >= -0.20 && diff <= 0.20 && (leftRate > 0.30 || rightRate > 0.30) {
		return reason(OutcomeDraw, "draw_similar_casualties")
	}
	return reason(OutcomeInconclusive, "inconclusive_insufficient_resolution")
}

func casualtyRate(s SideStats) float64 {
	if s.Spawned == 0 {
		return 0
	}
	return float64(s.Losses) / float64(s.Spawned)
}
