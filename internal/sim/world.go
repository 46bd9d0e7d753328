package sim

import (
	"fmt"
	"math/rand"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

var (
	// ErrInvalidViewport means the host reported a field with no area.
	ErrInvalidViewport = eris.New("invalid viewport")
	// ErrInvalidTick means the tick input itself is malformed.
	ErrInvalidTick = eris.New("invalid tick input")
)

// Click is a "button just pressed" event in world coordinates together with
// the preset the player has selected.
type Click struct {
	X, Y   float64
	Preset PresetID
}

// TickInput is everything the host hands the simulation for one step.
type TickInput struct {
	DT     float64 // seconds since the previous tick
	Width  float64 // current field width
	Height float64 // current field height
	Clicks []Click
}

// World is the whole simulation context: entities, both purses, the spawn
// timer and the RNG. Nothing in the package keeps global mutable state.
type World struct {
	store   *Store
	economy *Economy
	spawner *Spawner
	rng     *rand.Rand
	log     *SimLog
	logger  zerolog.Logger
	stats   Stats

	extent  float64
	workers int

	tick    int
	elapsed float64
	width   float64
	height  float64
}

// Option configures a World at construction.
type Option func(*World)

// WithSeed makes every random roll reproducible.
func WithSeed(seed int64) Option {
	return func(w *World) {
		w.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- game rolls
	}
}

// WithLogger routes diagnostic output to l.
func WithLogger(l zerolog.Logger) Option {
	return func(w *World) {
		w.logger = l
	}
}

// WithSimLog records tick events into l instead of a private log.
func WithSimLog(l *SimLog) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// WithWorkers caps the goroutines used by the parallel systems.
func WithWorkers(n int) Option {
	return func(w *World) {
		if n > 0 {
			w.workers = n
		}
	}
}

// WithExtent sets the side length of the collision box.
func WithExtent(extent float64) Option {
	return func(w *World) {
		if extent > 0 {
			w.extent = extent
		}
	}
}

// WithStartingMoney sets both opening balances.
func WithStartingMoney(left, right uint32) Option {
	return func(w *World) {
		w.economy = NewEconomy(left, right)
	}
}

// WithSpawnZone sets the spawn zone geometry.
func WithSpawnZone(z SpawnZone) Option {
	return func(w *World) {
		w.spawner.zone = z
	}
}

// WithSpawnCadence sets how quickly the computer side re-arms its timer.
func WithSpawnCadence(c SpawnCadence) Option {
	return func(w *World) {
		w.spawner.cadence = c
		w.spawner.timer = c.Base
	}
}

// WithAutoSpawn turns the computer-controlled side on or off.
func WithAutoSpawn(on bool) Option {
	return func(w *World) {
		w.spawner.auto = on
	}
}

// New builds a World for a width x height field.
func New(width, height float64, opts ...Option) (*World, error) {
	if width <= 0 || height <= 0 {
		return nil, eris.Wrapf(ErrInvalidViewport, "field %.0fx%.0f", width, height)
	}
	w := &World{
		store:   NewStore(),
		economy: NewEconomy(DefaultStartingMoney, DefaultStartingMoney),
		spawner: NewSpawner(DefaultSpawnZone, DefaultCadence),
		rng:     rand.New(rand.NewSource(1)), // #nosec G404 -- game rolls
		log:     NewSimLog(false),
		logger:  zerolog.Nop(),
		extent:  DefaultExtent,
		workers: defaultWorkers(),
		width:   width,
		height:  height,
	}
	for _, o := range opts {
		o(w)
	}
	if w.spawner.zone.Width <= 0 || w.spawner.zone.Width > width/2 {
		return nil, eris.Wrapf(ErrInvalidViewport, "spawn zone %.0f does not fit field width %.0f", w.spawner.zone.Width, width)
	}
	if err := w.spawner.cadence.validate(); err != nil {
		return nil, err
	}
	w.logger.Debug().
		Float64("width", width).
		Float64("height", height).
		Int("workers", w.workers).
		Msg("simulation created")
	return w, nil
}

// Tick advances the simulation by one step. Systems run in a fixed order
// over the same store; only Movement and the cooldown phase of combat fan
// out across goroutines.
func (w *World) Tick(in TickInput) error {
	if in.Width <= 0 || in.Height <= 0 {
		return eris.Wrapf(ErrInvalidViewport, "tick %d: field %.0fx%.0f", w.tick+1, in.Width, in.Height)
	}
	if w.spawner.zone.Width > in.Width/2 {
		return eris.Wrapf(ErrInvalidViewport, "tick %d: spawn zone %.0f does not fit field width %.0f",
			w.tick+1, w.spawner.zone.Width, in.Width)
	}
	if in.DT < 0 {
		return eris.Wrapf(ErrInvalidTick, "tick %d: negative dt %f", w.tick+1, in.DT)
	}
	w.tick++
	w.elapsed += in.DT
	w.width, w.height = in.Width, in.Height

	MoveFighters(w.store, in.DT, w.height, w.workers)

	for _, e := range ResolveEngagements(w.store, w.extent) {
		w.logEngagement(e)
	}

	orders := collectAttacks(w.store, in.DT, w.workers)
	w.resolveAttacks(orders)

	w.resolveSieges()

	w.handleClicks(in.Clicks)
	w.updateAutoSpawn(in.DT)

	ExpireTimeouts(w.store, in.DT)
	return nil
}

// Store exposes the entity store. Callers outside a tick may read and seed it.
func (w *World) Store() *Store { return w.store }

// Economy exposes both purses.
func (w *World) Economy() *Economy { return w.economy }

// Money returns the balance of side.
func (w *World) Money(side Side) uint32 { return w.economy.Balance(side) }

// Stats returns a copy of the running battle statistics.
func (w *World) Stats() Stats { return w.stats }

// Log returns the tick event record.
func (w *World) Log() *SimLog { return w.log }

// CurrentTick returns the number of completed ticks.
func (w *World) CurrentTick() int { return w.tick }

// Elapsed returns the simulated seconds so far.
func (w *World) Elapsed() float64 { return w.elapsed }

// Field returns the field size seen on the latest tick.
func (w *World) Field() (width, height float64) { return w.width, w.height }

// Extent returns the side length of a fighter's collision box.
func (w *World) Extent() float64 { return w.extent }

// SpawnTimer returns the seconds left until the computer side tries to spawn.
func (w *World) SpawnTimer() float64 { return w.spawner.timer }

// FighterView is the read-only projection of a fighter for drawing.
type FighterView struct {
	ID         EntityID
	X, Y       float64
	Side       Side
	HP         uint8
	MaxHP      uint8
	HPRatio    float64
	Skills     Skills
	Protection uint8
	Cooldown   float64
	Fighting   bool
	Waiting    bool
}

// EffectView is the read-only projection of an effect for drawing.
type EffectView struct {
	ID   EntityID
	Kind EffectKind
	Text string
	X, Y float64
}

// View is a snapshot of everything the presentation layer may show.
type View struct {
	Tick     int
	Fighters []FighterView
	Effects  []EffectView
	Money    [sideCount]uint32
	Score    int
}

// View copies the drawable state of the world.
func (w *World) View() View {
	v := View{
		Tick:  w.tick,
		Money: [sideCount]uint32{w.economy.Balance(SideLeft), w.economy.Balance(SideRight)},
		Score: w.stats.Score(),
	}
	for _, id := range w.store.FighterIDs() {
		f := w.store.fighters[id]
		p := w.store.positions[id]
		v.Fighters = append(v.Fighters, FighterView{
			ID:         id,
			X:          p.X,
			Y:          p.Y,
			Side:       f.Side,
			HP:         f.HP,
			MaxHP:      f.Skills.HP,
			HPRatio:    f.HPRatio(),
			Skills:     f.Skills,
			Protection: f.Protection,
			Cooldown:   f.AttackCooldown,
			Fighting:   f.Fighting != nil,
			Waiting:    f.Waiting,
		})
	}
	for _, id := range w.store.EffectIDs() {
		e := w.store.effects[id]
		p := w.store.positions[id]
		v.Effects = append(v.Effects, EffectView{ID: id, Kind: e.Kind, Text: e.Text, X: p.X, Y: p.Y})
	}
	return v
}

// FighterAt returns the fighter whose box contains (x, y), if any.
func (w *World) FighterAt(x, y float64) (FighterView, bool) {
	for _, fv := range w.View().Fighters {
		if overlaps(Position{X: x, Y: y}, Position{X: fv.X, Y: fv.Y}, w.extent/2) {
			return fv, true
		}
	}
	return FighterView{}, false
}

func entityLabel(side Side, id EntityID) string {
	return fmt.Sprintf("%s%d", side.Label(), id)
}

func (w *World) logEngagement(e Engagement) {
	fa := w.store.fighters[e.A]
	fb := w.store.fighters[e.B]
	w.log.Add(w.tick, entityLabel(fa.Side, e.A), fa.Side.String(), "engage", "start",
		fmt.Sprintf("%s ⚔ %s", entityLabel(fa.Side, e.A), entityLabel(fb.Side, e.B)), 0)
	w.logger.Debug().Uint64("a", uint64(e.A)).Uint64("b", uint64(e.B)).Int("tick", w.tick).Msg("engagement")
}
