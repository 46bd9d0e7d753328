package game

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/Garsondee/Sidewars/internal/sim"
)

const (
	// reportLogLines caps the selected fighter's event list.
	reportLogLines = 20
	// reportRecentTicks is how far back the event section reaches.
	reportRecentTicks = 300
)

// battleReport is the plain-text report copied to the clipboard with C.
func (g *Game) battleReport() string {
	w := g.world
	st := w.Stats()
	left, right := w.Money(sim.SideLeft), w.Money(sim.SideRight)
	oc := sim.DetermineOutcome(st, left, right)

	var b strings.Builder
	fmt.Fprintf(&b, "--- Sidewars battle report ---\n")
	fmt.Fprintf(&b, "seed=%d tick=%d elapsed=%.1fs field=%dx%d\n", g.seed, w.CurrentTick(), w.Elapsed(), g.fieldW, g.fieldH)
	fmt.Fprintf(&b, "outcome=%s (%s) score=%+d\n\n", oc.Outcome, oc.Description, oc.Score)

	for _, side := range []sim.Side{sim.SideLeft, sim.SideRight} {
		s := st.Side(side)
		fmt.Fprintf(&b, "%-5s money=%d spawned=%d kills=%d losses=%d sieges=%d siege_coins=%d bounty=%d spent=%d acc=%.0f%%\n",
			side, w.Money(side), s.Spawned, s.Kills, s.Losses, s.Sieges, s.SiegeCoins, s.BountyCoins, s.Spent, s.Accuracy()*100)
	}
	b.WriteByte('\n')

	b.WriteString(g.reporter.WindowSummary().Format())

	v := w.View()
	if lines := g.inspectorLines(v); len(lines) > 0 {
		b.WriteString("\n== selected ==\n")
		for _, l := range lines {
			b.WriteString("  ")
			b.WriteString(l)
			b.WriteByte('\n')
		}
		if f, ok := g.selectedView(v); ok {
			events := g.simLog.FilterEntity(fmt.Sprintf("%s%d", f.Side.Label(), f.ID))
			if n := len(events); n > reportLogLines {
				events = events[n-reportLogLines:]
			}
			for _, e := range events {
				b.WriteString("  ")
				b.WriteString(e.String())
				b.WriteByte('\n')
			}
		}
	}

	tick := w.CurrentTick()
	recent := g.simLog.FormatRange(tick-reportRecentTicks+1, tick)
	fmt.Fprintf(&b, "\n== events T=%d..%d ==\n", max(tick-reportRecentTicks+1, 0), tick)
	if recent == "" {
		b.WriteString("(nothing yet)\n")
	}
	b.WriteString(recent)
	return b.String()
}

// copyReport puts battleReport on the system clipboard.
func (g *Game) copyReport() {
	if err := clipboard.WriteAll(g.battleReport()); err != nil {
		g.logger.Warn().Err(err).Msg("clipboard copy failed")
		return
	}
	g.battleLog.Add(g.world.CurrentTick(), "--", "--", "report copied")
}
