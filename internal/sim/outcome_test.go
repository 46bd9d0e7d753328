package sim

import (
	"strings"
	"testing"
)

func statsWith(left, right SideStats) Stats {
	return Stats{Sides: [sideCount]SideStats{left, right}}
}

func TestDetermineOutcome(t *testing.T) {
	cases := []struct {
		name  string
		stats Stats
		want  BattleOutcome
		desc  string
	}{
		{"empty field", Stats{}, OutcomeInconclusive, "inconclusive_no_fighters"},
		{
			"left sieges",
			statsWith(SideStats{Spawned: 10, SiegeCoins: 30}, SideStats{Spawned: 10}),
			OutcomeLeftVictory, "decisive_left_victory_siege",
		},
		{
			"right sieges",
			statsWith(SideStats{Spawned: 10}, SideStats{Spawned: 10, SiegeCoins: 40}),
			OutcomeRightVictory, "decisive_right_victory_siege",
		},
		{
			"left trades better",
			statsWith(SideStats{Spawned: 10, Losses: 2}, SideStats{Spawned: 10, Losses: 8}),
			OutcomeLeftVictory, "marginal_left_victory_casualty_advantage",
		},
		{
			"small siege lead",
			statsWith(SideStats{Spawned: 10, Losses: 4, SiegeCoins: 6}, SideStats{Spawned: 10, Losses: 5}),
			OutcomeLeftVictory, "marginal_left_victory_siege",
		},
		{
			"bloody stalemate",
			statsWith(SideStats{Spawned: 10, Losses: 6}, SideStats{Spawned: 10, Losses: 6}),
			OutcomeDraw, "draw_similar_casualties",
		},
		{
			"skirmish",
			statsWith(SideStats{Spawned: 10, Losses: 1}, SideStats{Spawned: 10, Losses: 1}),
			OutcomeInconclusive, "inconclusive_insufficient_resolution",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetermineOutcome(tc.stats, 7, 9)
			if got.Outcome != tc.want || got.Description != tc.desc {
				t.Errorf("outcome = %s (%s), want %s (%s)", got.Outcome, got.Description, tc.want, tc.desc)
			}
			if got.LeftMoney != 7 || got.RightMoney != 9 {
				t.Errorf("money not carried: %d/%d", got.LeftMoney, got.RightMoney)
			}
			if got.Score != tc.stats.Score() {
				t.Errorf("score = %d, want %d", got.Score, tc.stats.Score())
			}
		})
	}
}

func TestOutcomeString(t *testing.T) {
	for o, want := range map[BattleOutcome]string{
		OutcomeInconclusive: "inconclusive",
		OutcomeLeftVictory:  "left_victory",
		OutcomeRightVictory: "right_victory",
		OutcomeDraw:         "draw",
		BattleOutcome(42):   "unknown",
	} {
		if o.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(o), o.String(), want)
		}
	}
}

func TestSimLogFilters(t *testing.T) {
	sl := NewSimLog(false)
	sl.Add(1, "L1", "left", "spawn", "fighter", "private at (-624,0)", 5)
	sl.Add(3, "L1", "left", "combat", "hit", "R2 for 4 (hp 36)", 4)
	sl.AddVerbose(3, "R2", "right", "combat", "miss", "3 <= 9", 0)
	sl.Add(5, "R2", "right", "combat", "hit", "L1 for 2 (hp 18)", 2)

	if sl.Len() != 3 {
		t.Fatalf("len = %d, want 3 (verbose entry dropped)", sl.Len())
	}
	if n := sl.CountCategory("combat", ""); n != 2 {
		t.Errorf("combat entries = %d, want 2", n)
	}
	if n := len(sl.FilterEntity("L1")); n != 2 {
		t.Errorf("L1 entries = %d, want 2", n)
	}
	if n := len(sl.FilterTickRange(2, 4)); n != 1 {
		t.Errorf("entries in T=2..4 = %d, want 1", n)
	}
	last, ok := sl.LastOf("combat", "hit")
	if !ok || last.Entity != "R2" || last.NumVal != 2 {
		t.Errorf("LastOf = %+v, %v", last, ok)
	}
	if !sl.HasEntry("spawn", "", "private") || sl.HasEntry("siege", "", "") {
		t.Error("HasEntry mismatch")
	}
	if !strings.Contains(sl.Format(), "[T=003] L1   combat    hit") {
		t.Errorf("unexpected format:\n%s", sl.Format())
	}
	if strings.Contains(sl.FormatRange(4, 9), "[T=003]") {
		t.Errorf("FormatRange leaked earlier ticks:\n%s", sl.FormatRange(4, 9))
	}
}

func TestReporterWindow(t *testing.T) {
	ts := NewTestSim(
		WithFieldSize(600, 300),
		WithReporter(10, 60),
		WithPreset(SideLeft, PresetFighter, -100, 0),
		WithPreset(SideRight, PresetFighter, 100, 0),
		WithPreset(SideRight, PresetPrivate, 200, 100),
	)
	ts.RunTicks(120)

	if n := len(ts.Reporter.History()); n != 12 {
		t.Fatalf("history = %d samples, want 12", n)
	}
	latest := ts.Reporter.Latest()
	if latest.Tick != 120 {
		t.Errorf("latest tick = %d", latest.Tick)
	}
	wr := ts.Reporter.WindowSummary()
	if wr == nil {
		t.Fatal("no window summary")
	}
	if wr.FromTick != 60 || wr.ToTick != 120 || wr.SampleCount != 7 {
		t.Errorf("window T=%d..%d (%d samples), want T=60..120 (7)", wr.FromTick, wr.ToTick, wr.SampleCount)
	}
	if wr.AvgAlive[SideRight] < 1 {
		t.Errorf("right side avg alive = %v", wr.AvgAlive[SideRight])
	}
	out := wr.Format()
	for _, want := range []string{"Battle Report", "left", "right", "Score:"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(ts.Reporter.FormatLatest(), "T=120") {
		t.Error("FormatLatest missing tick")
	}
	if (&SimReporter{}).WindowSummary() != nil {
		t.Error("empty reporter produced a window")
	}
	var empty *WindowReport
	if empty.Format() != "No data collected yet.\n" {
		t.Error("nil window format")
	}
}
