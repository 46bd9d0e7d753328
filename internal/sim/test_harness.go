package sim

// DefaultDT is the fixed step used by headless runs (60 ticks per second).
const DefaultDT = 1.0 / 60.0

// TestSim is a headless harness around World used by tests and the
// headless report. It mirrors what the game shim does each frame but
// with a fixed step, queued clicks and a fixed field size.
type TestSim struct {
	World    *World
	SimLog   *SimLog
	Reporter *SimReporter
	Width    float64
	Height   float64
	DT       float64

	reportEvery int

	worldOpts []Option
	pending   []Click
	err       error
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra   simOptionKind = iota // field size, dt, verbose; applied first
	simOptWorld                        // World options
	simOptFighter                      // seeded fighters; applied after the world exists
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithFieldSize sets the field dimensions.
func WithFieldSize(w, h float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Width = w
		ts.Height = h
	}}
}

// WithStep sets the tick length in seconds.
func WithStep(dt float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.DT = dt
	}}
}

// WithVerbose enables high-volume logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithReporter collects a SimReport every `every` ticks into a reporter
// summarising the last windowTicks ticks.
func WithReporter(every, windowTicks int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Reporter = NewSimReporter(windowTicks)
		ts.reportEvery = every
	}}
}

// WorldOpt passes a World option through to the harness.
func WorldOpt(o Option) SimOption {
	return SimOption{simOptWorld, func(ts *TestSim) {
		ts.worldOpts = append(ts.worldOpts, o)
	}}
}

// WithFighter places a fighter with the given skills and protection at
// (x, y). Fighters get IDs in the order they are listed, starting at 1.
func WithFighter(side Side, skills Skills, protection uint8, x, y float64) SimOption {
	return SimOption{simOptFighter, func(ts *TestSim) {
		ts.AddFighter(side, skills, protection, x, y)
	}}
}

// WithPreset places a preset fighter without protection at (x, y).
func WithPreset(side Side, preset PresetID, x, y float64) SimOption {
	return WithFighter(side, preset.Skills(), 0, x, y)
}

// NewTestSim constructs a TestSim in ordered passes: infrastructure, then
// the world, then fighters. The computer side is off unless turned on with
// WorldOpt(WithAutoSpawn(true)).
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		Width:  1280,
		Height: 720,
		DT:     DefaultDT,
		SimLog: NewSimLog(false),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	wopts := []Option{WithAutoSpawn(false)}
	for _, o := range opts {
		if o.kind == simOptWorld {
			o.fn(ts)
		}
	}
	wopts = append(wopts, ts.worldOpts...)
	wopts = append(wopts, WithSimLog(ts.SimLog))

	w, err := New(ts.Width, ts.Height, wopts...)
	if err != nil {
		ts.err = err
		return ts
	}
	ts.World = w
	for _, o := range opts {
		if o.kind == simOptFighter {
			o.fn(ts)
		}
	}
	return ts
}

// Err returns the first error raised by construction or a tick.
func (ts *TestSim) Err() error {
	return ts.err
}

// AddFighter puts a fighter straight into the store, bypassing the economy.
func (ts *TestSim) AddFighter(side Side, skills Skills, protection uint8, x, y float64) EntityID {
	return ts.World.store.AddFighter(Position{X: x, Y: y}, NewFighterWithProtection(skills, side, protection))
}

// Click queues a player click for the next tick.
func (ts *TestSim) Click(x, y float64, preset PresetID) {
	ts.pending = append(ts.pending, Click{X: x, Y: y, Preset: preset})
}

// RunTicks advances the simulation n ticks. It stops at the first error.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n && ts.err == nil; i++ {
		ts.runOneTick()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks && ts.err == nil; i++ {
		ts.runOneTick()
		if predicate(ts) {
			return ts.CurrentTick()
		}
	}
	return -1
}

func (ts *TestSim) runOneTick() {
	if ts.World == nil {
		return
	}
	clicks := ts.pending
	ts.pending = nil
	ts.err = ts.World.Tick(TickInput{DT: ts.DT, Width: ts.Width, Height: ts.Height, Clicks: clicks})
	if ts.err == nil && ts.Reporter != nil && ts.reportEvery > 0 && ts.World.CurrentTick()%ts.reportEvery == 0 {
		ts.Reporter.Collect(ts.World)
	}
}

// CurrentTick returns the current simulation tick.
func (ts *TestSim) CurrentTick() int {
	if ts.World == nil {
		return 0
	}
	return ts.World.CurrentTick()
}

// Fighter returns a copy of the fighter with id.
func (ts *TestSim) Fighter(id EntityID) (Fighter, bool) {
	f, ok := ts.World.store.Fighter(id)
	if !ok {
		return Fighter{}, false
	}
	return *f, true
}

// Alive returns how many fighters side has on the field.
func (ts *TestSim) Alive(side Side) int {
	n := 0
	for _, id := range ts.World.store.FighterIDs() {
		if ts.World.store.fighters[id].Side == side {
			n++
		}
	}
	return n
}

// SimSnapshot is a lightweight copy of the drawable state at a tick.
type SimSnapshot struct {
	Tick     int
	Fighters []FighterView
	Effects  []EffectView
}

// Snapshot returns the current state of all fighters and effects.
func (ts *TestSim) Snapshot() SimSnapshot {
	v := ts.World.View()
	return SimSnapshot{Tick: v.Tick, Fighters: v.Fighters, Effects: v.Effects}
}
