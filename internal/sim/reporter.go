package sim

import (
	"fmt"
	"strings"
)

// reportWindowTicks is the default sliding window for recent-behaviour reports (~10s at 60TPS).
const reportWindowTicks = 600

// SideReport captures one side's state at one point in time.
type SideReport struct {
	Alive    int
	Fighting int
	Waiting  int
	Injured  int // hp below max but above zero
	AvgHP    float64
	Money    uint32
	Kills    int
	Losses   int
	Sieges   int
}

// SimReport is a snapshot of the battle at one tick.
type SimReport struct {
	Tick    int
	Sides   [sideCount]SideReport
	Effects int
	Score   int
}

// SimReporter collects periodic reports from a World and can produce
// summaries over sliding time windows.
type SimReporter struct {
	history     []SimReport
	windowTicks int
}

// NewSimReporter creates a reporter with the given window size.
func NewSimReporter(windowTicks int) *SimReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &SimReporter{windowTicks: windowTicks}
}

// Collect gathers a snapshot from the current world state.
// Call this periodically (e.g. every 60 ticks / 1s).
func (r *SimReporter) Collect(w *World) {
	rpt := SimReport{
		Tick:    w.CurrentTick(),
		Effects: len(w.store.EffectIDs()),
		Score:   w.stats.Score(),
	}
	for _, id := range w.store.FighterIDs() {
		f := w.store.fighters[id]
		sr := &rpt.Sides[f.Side]
		sr.Alive++
		sr.AvgHP += f.HPRatio()
		if f.Fighting != nil {
			sr.Fighting++
		}
		if f.Waiting {
			sr.Waiting++
		}
		if f.HP > 0 && f.HP < f.Skills.HP {
			sr.Injured++
		}
	}
	for side := Side(0); side < sideCount; side++ {
		sr := &rpt.Sides[side]
		if sr.Alive > 0 {
			sr.AvgHP /= float64(sr.Alive)
		}
		st := w.stats.Side(side)
		sr.Money = w.Money(side)
		sr.Kills = st.Kills
		sr.Losses = st.Losses
		sr.Sieges = st.Sieges
	}
	r.history = append(r.history, rpt)
}

// Latest returns the most recent report, or nil before the first Collect.
func (r *SimReporter) Latest() *SimReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns all collected reports.
func (r *SimReporter) History() []SimReport {
	return r.history
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	// Averages over the window.
	AvgAlive    [sideCount]float64
	AvgFighting [sideCount]float64
	AvgWaiting  [sideCount]float64
	AvgHP       [sideCount]float64
	AvgEffects  float64

	// Change across the window.
	Kills     [sideCount]int
	Losses    [sideCount]int
	Sieges    [sideCount]int
	MoneyFrom [sideCount]uint32
	MoneyTo   [sideCount]uint32
	ScoreTo   int
}

// WindowSummary averages the reports collected within the recent window.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}

	latest := r.history[len(r.history)-1]
	cutoff := latest.Tick - r.windowTicks
	start := len(r.history) - 1
	for start > 0 && r.history[start-1].Tick >= cutoff {
		start--
	}
	window := r.history[start:]
	first := window[0]

	n := float64(len(window))
	wr := &WindowReport{
		FromTick:    first.Tick,
		ToTick:      latest.Tick,
		SampleCount: len(window),
		ScoreTo:     latest.Score,
	}
	for _, rpt := range window {
		for side := range rpt.Sides {
			wr.AvgAlive[side] += float64(rpt.Sides[side].Alive)
			wr.AvgFighting[side] += float64(rpt.Sides[side].Fighting)
			wr.AvgWaiting[side] += float64(rpt.Sides[side].Waiting)
			wr.AvgHP[side] += rpt.Sides[side].AvgHP
		}
		wr.AvgEffects += float64(rpt.Effects)
	}
	for side := range wr.AvgAlive {
		wr.AvgAlive[side] /= n
		wr.AvgFighting[side] /= n
		wr.AvgWaiting[side] /= n
		wr.AvgHP[side] /= n
		wr.Kills[side] = latest.Sides[side].Kills - first.Sides[side].Kills
		wr.Losses[side] = latest.Sides[side].Losses - first.Sides[side].Losses
		wr.Sieges[side] = latest.Sides[side].Sieges - first.Sides[side].Sieges
		wr.MoneyFrom[side] = first.Sides[side].Money
		wr.MoneyTo[side] = latest.Sides[side].Money
	}
	wr.AvgEffects /= n
	return wr
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Battle Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)

	sb.WriteString("\n--- Lines ---\n")
	for _, side := range []Side{SideLeft, SideRight} {
		fmt.Fprintf(&sb, "  %-5s alive=%.1f  fighting=%.1f  waiting=%.1f  hp=%.0f%%  (%s)\n",
			side, wr.AvgAlive[side], wr.AvgFighting[side], wr.AvgWaiting[side],
			wr.AvgHP[side]*100, pressureLabel(wr.AvgFighting[side], wr.AvgWaiting[side], wr.AvgAlive[side]))
	}

	sb.WriteString("\n--- Exchange ---\n")
	for _, side := range []Side{SideLeft, SideRight} {
		fmt.Fprintf(&sb, "  %-5s kills=%d  losses=%d  sieges=%d  money %d → %d\n",
			side, wr.Kills[side], wr.Losses[side], wr.Sieges[side], wr.MoneyFrom[side], wr.MoneyTo[side])
	}
	fmt.Fprintf(&sb, "\nScore: %+d  avg effects=%.1f\n", wr.ScoreTo, wr.AvgEffects)
	return sb.String()
}

// pressureLabel describes how a side's fighters spend their time.
func pressureLabel(fighting, waiting, alive float64) string {
	if alive == 0 {
		return "empty"
	}
	switch {
	case fighting/alive > 0.6:
		return "locked in melee"
	case waiting/alive > 0.5:
		return "jammed"
	case fighting+waiting == 0:
		return "marching"
	default:
		return "mixed"
	}
}

// FormatLatest returns a concise snapshot of the most recent collected report.
func (r *SimReporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Snapshot T=%d ---\n", rpt.Tick)
	for _, side := range []Side{SideLeft, SideRight} {
		s := rpt.Sides[side]
		fmt.Fprintf(&sb, "%-5s alive=%d fighting=%d waiting=%d injured=%d money=%d\n",
			side, s.Alive, s.Fighting, s.Waiting, s.Injured, s.Money)
	}
	fmt.Fprintf(&sb, "Score: %+d  effects=%d\n", rpt.Score, rpt.Effects)
	return sb.String()
}
