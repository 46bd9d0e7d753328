package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Sidewars/internal/sim"
)

const (
	fieldW = 1280
	fieldH = 720

	// stalemateScore is the siege lead below which a battle can still be a stalemate.
	stalemateScore = 10
	// stalemateContacts is the engagement count a stalemate needs.
	stalemateContacts = 10

	standoffMoney = 100
)

var standoffLineup = []sim.PresetID{sim.PresetShieldsman, sim.PresetFighter, sim.PresetPrivate, sim.PresetFighter, sim.PresetShieldsman}

type runStats struct {
	runIndex int
	runID    string
	seed     int64
	scenario string

	firstSpawnTick  int
	firstEngageTick int
	firstHitTick    int
	firstKillTick   int
	firstSiegeTick  int

	spawns      int
	rejected    int
	engagements int
	hits        int
	kills       int
	sieges      int

	leftSpawned  int
	rightSpawned int
	leftAlive    int
	rightAlive   int
	score        int

	stats         sim.Stats
	outcome       sim.BattleOutcomeReason
	windowSummary *sim.WindowReport
}

// runJSON is the -json line written per run.
type runJSON struct {
	RunID           string   `json:"run_id"`
	Run             int      `json:"run"`
	Seed            int64    `json:"seed"`
	Scenario        string   `json:"scenario"`
	Outcome         string   `json:"outcome"`
	Description     string   `json:"description"`
	Score           int      `json:"score"`
	Left            sideJSON `json:"left"`
	Right           sideJSON `json:"right"`
	FirstEngageTick int      `json:"first_engage_tick"`
	FirstKillTick   int      `json:"first_kill_tick"`
	FirstSiegeTick  int      `json:"first_siege_tick"`
	Engagements     int      `json:"engagements"`
	Stalemate       bool     `json:"stalemate"`
	StalemateReason string   `json:"stalemate_reason"`
}

type sideJSON struct {
	Spawned int    `json:"spawned"`
	Alive   int    `json:"alive"`
	Kills   int    `json:"kills"`
	Losses  int    `json:"losses"`
	Sieges  int    `json:"sieges"`
	Money   uint32 `json:"money"`
}

var scenarios = map[string]func(seed int64, ticks, clickEvery int, logger zerolog.Logger) *sim.TestSim{
	"skirmish": runSkirmish,
	"standoff": runStandoff,
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenario string
	var clickEvery int
	var asJSON bool
	var logLevel string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "skirmish", "scenario name (skirmish, standoff)")
	flag.IntVar(&clickEvery, "click-every", 90, "ticks between scripted player clicks")
	flag.BoolVar(&asJSON, "json", false, "print one JSON object per run instead of text")
	flag.StringVar(&logLevel, "log-level", "warn", "simulation log level")
	flag.Parse()

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Str("log_level", logLevel).Msg("bad -log-level")
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	if err := checkFlags(runs, ticks, clickEvery, scenario); err != nil {
		logger.Fatal().Err(err).Msg("bad flags")
	}
	run := scenarios[scenario]

	if !asJSON {
		fmt.Printf("=== Headless Battle Report ===\n")
		fmt.Printf("scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", scenario, runs, ticks, seedBase, seedStep)
	}

	all := make([]runStats, 0, runs)
	failed := 0
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		id := uuid.NewString()
		runLog := logger.With().Str("run_id", id).Int64("seed", seed).Logger()

		ts := run(seed, ticks, clickEvery, runLog)
		if err := ts.Err(); err != nil {
			runLog.Error().Err(err).Msg("run failed")
			failed++
			continue
		}
		rs := collectRun(i+1, seed, scenario, ts)
		rs.runID = id
		all = append(all, rs)
		runLog.Info().Str("outcome", rs.outcome.Description).Int("score", rs.score).Msg("run complete")

		if asJSON {
			if err := writeJSON(os.Stdout, rs); err != nil {
				runLog.Error().Err(err).Msg("encode run")
			}
			continue
		}
		printRun(os.Stdout, rs)
	}

	if !asJSON {
		printAggregate(os.Stdout, all)
	}
	if failed > 0 {
		logger.Fatal().Int("failed", failed).Int("runs", runs).Msg("runs failed")
	}
}

// errBadFlag is wrapped by every flag validation failure.
var errBadFlag = eris.New("bad flag")

func checkFlags(runs, ticks, clickEvery int, scenario string) error {
	switch {
	case runs <= 0:
		return eris.Wrapf(errBadFlag, "-runs must be > 0, got %d", runs)
	case ticks <= 0:
		return eris.Wrapf(errBadFlag, "-ticks must be > 0, got %d", ticks)
	case clickEvery <= 0:
		return eris.Wrapf(errBadFlag, "-click-every must be > 0, got %d", clickEvery)
	}
	if _, ok := scenarios[scenario]; !ok {
		return eris.Wrapf(errBadFlag, "unsupported scenario %q (supported: %s)", scenario, scenarioNames())
	}
	return nil
}

func scenarioNames() string {
	names := make([]string, 0, len(scenarios))
	for k := range scenarios {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// runSkirmish plays the normal game: the computer side spawns on its own
// timer and a scripted player clicks a random lane every clickEvery ticks.
func runSkirmish(seed int64, ticks, clickEvery int, logger zerolog.Logger) *sim.TestSim {
	ts := sim.NewTestSim(
		sim.WithFieldSize(fieldW, fieldH),
		sim.WithReporter(60, 600),
		sim.WorldOpt(sim.WithSeed(seed)),
		sim.WorldOpt(sim.WithLogger(logger)),
		sim.WorldOpt(sim.WithAutoSpawn(true)),
	)
	if ts.Err() != nil {
		return ts
	}
	player := rand.New(rand.NewSource(seed ^ 0x5eed)) // #nosec G404 -- scripted clicks
	lo, hi := ts.World.ZoneRange(sim.PlayerSide)
	for t := 0; t < ticks && ts.Err() == nil; t++ {
		if t%clickEvery == 0 {
			y := (player.Float64() - 0.5) * fieldH
			preset := sim.PresetID(player.Intn(len(sim.Presets)))
			ts.Click((lo+hi)/2, y, preset)
		}
		ts.RunTicks(1)
	}
	return ts
}

// runStandoff has both sides buy the same lineup on the first tick, with
// no further spawning, and lets the lines meet.
func runStandoff(seed int64, ticks, _ int, logger zerolog.Logger) *sim.TestSim {
	ts := sim.NewTestSim(
		sim.WithFieldSize(fieldW, fieldH),
		sim.WithReporter(60, 600),
		sim.WorldOpt(sim.WithSeed(seed)),
		sim.WorldOpt(sim.WithLogger(logger)),
		sim.WorldOpt(sim.WithStartingMoney(standoffMoney, standoffMoney)),
	)
	if ts.Err() != nil {
		return ts
	}
	for i, p := range standoffLineup {
		y := float64(i-len(standoffLineup)/2) * 60
		ts.World.Spawn(sim.SideLeft, p, y)
		ts.World.Spawn(sim.SideRight, p, y)
	}
	ts.RunTicks(ticks)
	return ts
}

func collectRun(runIndex int, seed int64, scenario string, ts *sim.TestSim) runStats {
	entries := ts.SimLog.Entries()
	st := ts.World.Stats()
	left, right := ts.World.Money(sim.SideLeft), ts.World.Money(sim.SideRight)
	return runStats{
		runIndex:        runIndex,
		seed:            seed,
		scenario:        scenario,
		firstSpawnTick:  firstTick(entries, "spawn", "fighter", ""),
		firstEngageTick: firstTick(entries, "engage", "start", ""),
		firstHitTick:    firstTick(entries, "combat", "hit", ""),
		firstKillTick:   firstTick(entries, "combat", "kill", ""),
		firstSiegeTick:  firstTick(entries, "siege", "cross", ""),
		spawns:          ts.SimLog.CountCategory("spawn", "fighter"),
		rejected:        ts.SimLog.CountCategory("spawn", "rejected"),
		engagements:     ts.SimLog.CountCategory("engage", "start"),
		hits:            ts.SimLog.CountCategory("combat", "hit"),
		kills:           ts.SimLog.CountCategory("combat", "kill"),
		sieges:          ts.SimLog.CountCategory("siege", "cross"),
		leftSpawned:     st.Side(sim.SideLeft).Spawned,
		rightSpawned:    st.Side(sim.SideRight).Spawned,
		leftAlive:       ts.Alive(sim.SideLeft),
		rightAlive:      ts.Alive(sim.SideRight),
		score:           st.Score(),
		stats:           st,
		outcome:         sim.DetermineOutcome(st, left, right),
		windowSummary:   ts.Reporter.WindowSummary(),
	}
}

func firstTick(entries []sim.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

// detectStalemate flags runs where both sides keep most of their fighters,
// neither holds a siege lead and the lines are still grinding.
func detectStalemate(rs runStats) (bool, string) {
	if rs.leftSpawned == 0 || rs.rightSpawned == 0 {
		return false, "one_side_absent"
	}
	if rs.score >= stalemateScore || rs.score <= -stalemateScore {
		return false, fmt.Sprintf("siege_lead score=%+d", rs.score)
	}
	leftSurv := float64(rs.leftAlive) / float64(rs.leftSpawned)
	rightSurv := float64(rs.rightAlive) / float64(rs.rightSpawned)
	if math.Abs(leftSurv-rightSurv) > 0.3 {
		return false, fmt.Sprintf("decisive_attrition left=%.2f right=%.2f", leftSurv, rightSurv)
	}
	if rs.engagements < stalemateContacts {
		return false, fmt.Sprintf("low_contact engagements=%d", rs.engagements)
	}
	if leftSurv >= 0.5 && rightSurv >= 0.5 {
		return true, fmt.Sprintf("high_mutual_survival left=%.2f right=%.2f engagements=%d", leftSurv, rightSurv, rs.engagements)
	}
	return false, "attrition_ongoing"
}

func toJSON(rs runStats) runJSON {
	stalemate, reason := detectStalemate(rs)
	side := func(s sim.SideStats, alive int, money uint32) sideJSON {
		return sideJSON{Spawned: s.Spawned, Alive: alive, Kills: s.Kills, Losses: s.Losses, Sieges: s.Sieges, Money: money}
	}
	return runJSON{
		RunID:           rs.runID,
		Run:             rs.runIndex,
		Seed:            rs.seed,
		Scenario:        rs.scenario,
		Outcome:         rs.outcome.Outcome.String(),
		Description:     rs.outcome.Description,
		Score:           rs.score,
		Left:            side(rs.stats.Side(sim.SideLeft), rs.leftAlive, rs.outcome.LeftMoney),
		Right:           side(rs.stats.Side(sim.SideRight), rs.rightAlive, rs.outcome.RightMoney),
		FirstEngageTick: rs.firstEngageTick,
		FirstKillTick:   rs.firstKillTick,
		FirstSiegeTick:  rs.firstSiegeTick,
		Engagements:     rs.engagements,
		Stalemate:       stalemate,
		StalemateReason: reason,
	}
}

func writeJSON(w io.Writer, rs runStats) error {
	b, err := json.Marshal(toJSON(rs))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d id=%s) ---\n", rs.runIndex, rs.seed, rs.runID)
	fmt.Fprintf(w, "phase_markers: first_spawn=%d first_engage=%d first_hit=%d first_kill=%d first_siege=%d\n",
		rs.firstSpawnTick, rs.firstEngageTick, rs.firstHitTick, rs.firstKillTick, rs.firstSiegeTick)
	fmt.Fprintf(w, "event_totals: spawn=%d rejected=%d engage=%d hit=%d kill=%d siege=%d\n",
		rs.spawns, rs.rejected, rs.engagements, rs.hits, rs.kills, rs.sieges)
	for _, side := range []sim.Side{sim.SideLeft, sim.SideRight} {
		s := rs.stats.Side(side)
		alive := rs.leftAlive
		if side == sim.SideRight {
			alive = rs.rightAlive
		}
		fmt.Fprintf(w, "%s: spawned=%d alive=%d kills=%d losses=%d sieges=%d siege_coins=%d accuracy=%.2f\n",
			side, s.Spawned, alive, s.Kills, s.Losses, s.Sieges, s.SiegeCoins, s.Accuracy())
	}
	fmt.Fprintf(w, "outcome: %s (%s) score=%+d\n", rs.outcome.Outcome, rs.outcome.Description, rs.score)
	if stalemate, reason := detectStalemate(rs); stalemate {
		fmt.Fprintf(w, "stalemate: %s\n", reason)
	}
	if rs.windowSummary != nil {
		fmt.Fprintf(w, "window_samples=%d window_tick_range=%d..%d\n",
			rs.windowSummary.SampleCount, rs.windowSummary.FromTick, rs.windowSummary.ToTick)
		fmt.Fprintf(w, "window_avg: left_alive=%.1f left_fighting=%.1f right_alive=%.1f right_fighting=%.1f effects=%.1f\n",
			rs.windowSummary.AvgAlive[sim.SideLeft],
			rs.windowSummary.AvgFighting[sim.SideLeft],
			rs.windowSummary.AvgAlive[sim.SideRight],
			rs.windowSummary.AvgFighting[sim.SideRight],
			rs.windowSummary.AvgEffects,
		)
	}
	fmt.Fprintln(w)
}

func printAggregate(w io.Writer, all []runStats) {
	totalKills := [2]int{}
	totalSieges := [2]int{}
	totalEngage := 0
	totalRejected := 0
	stalemates := 0
	outcomes := map[string]int{}

	engageTicks := make([]int, 0, len(all))
	killTicks := make([]int, 0, len(all))
	siegeTicks := make([]int, 0, len(all))

	for _, rs := range all {
		for _, side := range []sim.Side{sim.SideLeft, sim.SideRight} {
			totalKills[side] += rs.stats.Side(side).Kills
			totalSieges[side] += rs.stats.Side(side).Sieges
		}
		totalEngage += rs.engagements
		totalRejected += rs.rejected
		outcomes[rs.outcome.Outcome.String()]++
		if ok, _ := detectStalemate(rs); ok {
			stalemates++
		}
		if rs.firstEngageTick >= 0 {
			engageTicks = append(engageTicks, rs.firstEngageTick)
		}
		if rs.firstKillTick >= 0 {
			killTicks = append(killTicks, rs.firstKillTick)
		}
		if rs.firstSiegeTick >= 0 {
			siegeTicks = append(siegeTicks, rs.firstSiegeTick)
		}
	}

	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d stalemates=%d\n", len(all), stalemates)
	fmt.Fprintf(w, "avg_per_run: engage=%.1f rejected=%.1f left_kills=%.1f right_kills=%.1f left_sieges=%.1f right_sieges=%.1f\n",
		avg(totalEngage, len(all)), avg(totalRejected, len(all)),
		avg(totalKills[sim.SideLeft], len(all)), avg(totalKills[sim.SideRight], len(all)),
		avg(totalSieges[sim.SideLeft], len(all)), avg(totalSieges[sim.SideRight], len(all)))
	fmt.Fprintf(w, "phase_marker_avg_ticks: first_engage=%s first_kill=%s first_siege=%s\n",
		avgTickString(engageTicks), avgTickString(killTicks), avgTickString(siegeTicks))
	fmt.Fprintf(w, "outcomes: %s\n", joinCounts(outcomes))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}
