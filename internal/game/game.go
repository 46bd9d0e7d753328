package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Sidewars/internal/config"
	"github.com/Garsondee/Sidewars/internal/sim"
)

// reportEvery is how often (in ticks) the reporter samples the battle.
const reportEvery = 60

// speeds are the selectable simulation rates; 0 is paused.
var speeds = []float64{0, 0.5, 1, 2, 4}

// Game is the ebiten shim around a sim.World. It turns input into clicks,
// steps the world at a fixed rate and draws its View.
type Game struct {
	cfg    config.Config
	logger zerolog.Logger
	seed   int64

	world     *sim.World
	simLog    *sim.SimLog
	logCursor int
	battleLog *BattleLog
	reporter  *sim.SimReporter
	face      *text.GoXFace

	width  int // window
	height int
	fieldW int // playfield width (log panel takes the rest)
	fieldH int

	preset   sim.PresetID
	pending  []sim.Click
	prevKeys map[ebiten.Key]bool
	showHUD  bool

	simSpeed  float64
	tickAccum float64

	inspector Inspector
}

// New builds the game and its world from cfg.
func New(cfg config.Config, logger zerolog.Logger) (*Game, error) {
	cfg.Seed = cfg.ResolvedSeed()
	simLog := sim.NewSimLog(false)
	opts := append(cfg.SimOptions(logger), sim.WithSimLog(simLog))
	world, err := sim.New(cfg.FieldWidth, cfg.FieldHeight, opts...)
	if err != nil {
		return nil, err
	}
	g := &Game{
		cfg:       cfg,
		logger:    logger,
		seed:      cfg.Seed,
		world:     world,
		simLog:    simLog,
		battleLog: NewBattleLog(),
		reporter:  sim.NewSimReporter(0),
		face:      text.NewGoXFace(basicfont.Face7x13),
		fieldW:    int(cfg.FieldWidth),
		fieldH:    int(cfg.FieldHeight),
		width:     int(cfg.FieldWidth) + logPanelWidth,
		height:    int(cfg.FieldHeight),
		preset:    sim.PresetFighter,
		prevKeys:  make(map[ebiten.Key]bool),
		showHUD:   true,
		simSpeed:  1,
	}
	logger.Info().
		Int64("seed", g.seed).
		Int("width", g.fieldW).
		Int("height", g.fieldH).
		Msg("battle ready")
	return g, nil
}

// WindowSize is the window size matching the configured field.
func (g *Game) WindowSize() (int, int) {
	return g.width, g.height
}

func (g *Game) Update() error {
	// Input runs every frame regardless of sim speed.
	if err := g.handleInput(); err != nil {
		return err
	}
	return g.simTickAccum()
}

// simTickAccum runs as many sim ticks as the current speed owes this frame.
func (g *Game) simTickAccum() error {
	if g.simSpeed <= 0 {
		return nil
	}

	// For speeds > 1 run multiple sim ticks per frame.
	// For speeds < 1 accumulate fractions.
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		if err := g.simTick(); err != nil {
			g.logger.Error().Err(err).Int("tick", g.world.CurrentTick()).Msg("simulation stopped")
			return err
		}
	}
	return nil
}

// simTick runs one simulation tick with the clicks gathered since the last one.
func (g *Game) simTick() error {
	clicks := g.pending
	g.pending = nil
	err := g.world.Tick(sim.TickInput{
		DT:     1 / float64(g.cfg.TPS),
		Width:  float64(g.fieldW),
		Height: float64(g.fieldH),
		Clicks: clicks,
	})
	if err != nil {
		return err
	}

	entries := g.simLog.Entries()
	for _, e := range entries[g.logCursor:] {
		g.battleLog.AddSimEntry(e)
	}
	g.logCursor = len(entries)

	if g.world.CurrentTick()%reportEvery == 0 {
		g.reporter.Collect(g.world)
	}
	return nil
}

// keyEdge records k in cur and reports a fresh press.
func (g *Game) keyEdge(cur map[ebiten.Key]bool, k ebiten.Key) bool {
	cur[k] = ebiten.IsKeyPressed(k)
	return cur[k] && !g.prevKeys[k]
}

// handleInput processes keys (edge-triggered) and mouse buttons.
func (g *Game) handleInput() error {
	cur := map[ebiten.Key]bool{}
	defer func() { g.prevKeys = cur }()

	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	if g.keyEdge(cur, ebiten.KeyEscape) && shift {
		g.logger.Info().Int("tick", g.world.CurrentTick()).Msg("exit requested")
		return ebiten.Termination
	}

	// Preset selection: 1-3.
	presetKeys := []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3}
	for i, k := range presetKeys {
		if g.keyEdge(cur, k) {
			g.preset = sim.PresetID(i)
		}
	}

	if g.keyEdge(cur, ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}

	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	if g.keyEdge(cur, ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if g.keyEdge(cur, ebiten.KeyComma) {
		g.simSpeed = slower(g.simSpeed)
	}
	if g.keyEdge(cur, ebiten.KeyPeriod) {
		g.simSpeed = faster(g.simSpeed)
	}

	if g.keyEdge(cur, ebiten.KeyC) {
		g.copyReport()
	}

	mx, my := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && g.inField(mx, my) {
		x, y := g.toWorld(mx, my)
		g.pending = append(g.pending, sim.Click{X: x, Y: y, Preset: g.preset})
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) && g.inField(mx, my) {
		g.handleInspectorClick(mx, my)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) {
		x, y := g.toWorld(mx, my)
		g.logger.Info().
			Int("screen_x", mx).
			Int("screen_y", my).
			Float64("world_x", x).
			Float64("world_y", y).
			Msg("cursor")
	}
	return nil
}

// slower returns the next lower speed step.
func slower(cur float64) float64 {
	for i := len(speeds) - 1; i > 0; i-- {
		if speeds[i] < cur {
			return speeds[i]
		}
	}
	return speeds[0]
}

// faster returns the next higher speed step.
func faster(cur float64) float64 {
	for _, s := range speeds {
		if s > cur {
			return s
		}
	}
	return speeds[len(speeds)-1]
}

// toWorld maps a screen pixel to world coordinates: origin at the field
// centre, y up.
func (g *Game) toWorld(sx, sy int) (float64, float64) {
	return float64(sx) - float64(g.fieldW)/2, float64(g.fieldH)/2 - float64(sy)
}

// toScreen is the inverse of toWorld.
func (g *Game) toScreen(x, y float64) (float32, float32) {
	return float32(x + float64(g.fieldW)/2), float32(float64(g.fieldH)/2 - y)
}

func (g *Game) inField(sx, sy int) bool {
	return sx >= 0 && sx < g.fieldW && sy >= 0 && sy < g.fieldH
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 24, G: 30, B: 22, A: 255})

	v := g.world.View()
	g.drawZones(screen)
	g.drawFighters(screen, v.Fighters)
	g.drawEffects(screen, v.Effects)

	g.battleLog.Draw(screen, g.fieldW, g.height)
	if g.showHUD {
		g.drawHUD(screen, v)
	}
	g.drawInspector(screen, v)
}

// drawZones shades both spawn strips and marks the centre line.
func (g *Game) drawZones(screen *ebiten.Image) {
	fh := float32(g.fieldH)
	for _, side := range []sim.Side{sim.SideLeft, sim.SideRight} {
		lo, hi := g.world.ZoneRange(side)
		x0, _ := g.toScreen(lo, 0)
		x1, _ := g.toScreen(hi, 0)
		c := sideColor(side.String())
		c.A = 28
		vector.FillRect(screen, x0, 0, x1-x0, fh, c, false)
	}
	cx, _ := g.toScreen(0, 0)
	vector.StrokeLine(screen, cx, 0, cx, fh, 1, color.RGBA{R: 60, G: 70, B: 55, A: 255}, false)
}

// drawFighters draws each fighter as its collision box with a health bar.
func (g *Game) drawFighters(screen *ebiten.Image, fighters []sim.FighterView) {
	ext := float32(g.world.Extent())
	for _, f := range fighters {
		sx, sy := g.toScreen(f.X, f.Y)
		x, y := sx-ext/2, sy-ext/2
		c := sideColor(f.Side.String())
		if f.Waiting {
			c.R, c.G, c.B = c.R/2, c.G/2, c.B/2
		}
		vector.FillRect(screen, x, y, ext, ext, c, false)
		if f.Fighting {
			vector.StrokeRect(screen, x, y, ext, ext, 1.5, color.RGBA{R: 240, G: 230, B: 200, A: 255}, false)
		}
		if g.inspector.active && g.inspector.selected == f.ID {
			vector.StrokeRect(screen, x-3, y-3, ext+6, ext+6, 1, color.RGBA{R: 255, G: 255, B: 120, A: 255}, false)
		}

		// Health bar.
		vector.FillRect(screen, x, y-7, ext, 4, color.RGBA{R: 90, G: 20, B: 20, A: 255}, false)
		vector.FillRect(screen, x, y-7, ext*float32(f.HPRatio), 4, color.RGBA{R: 80, G: 200, B: 80, A: 255}, false)
	}
}

// drawEffects draws hit markers and floating damage numbers.
func (g *Game) drawEffects(screen *ebiten.Image, effects []sim.EffectView) {
	for _, e := range effects {
		sx, sy := g.toScreen(e.X, e.Y)
		switch e.Kind {
		case sim.EffectHitMarker:
			vector.FillRect(screen, sx-3, sy-3, 6, 6, color.RGBA{R: 230, G: 40, B: 40, A: 255}, false)
		case sim.EffectDamageText:
			w, _ := text.Measure(e.Text, g.face, 0)
			op := &text.DrawOptions{}
			op.GeoM.Translate(float64(sx)-w/2, float64(sy)-18)
			op.ColorScale.ScaleWithColor(color.RGBA{R: 255, G: 240, B: 220, A: 255})
			text.Draw(screen, e.Text, g.face, op)
		}
	}
}

func (g *Game) drawHUD(screen *ebiten.Image, v sim.View) {
	speedStr := "PAUSED"
	if g.simSpeed > 0 {
		speedStr = fmt.Sprintf("%gx", g.simSpeed)
	}
	sk := g.preset.Skills()
	lines := []string{
		fmt.Sprintf("SCORE %+d   LEFT $%d   RIGHT $%d", v.Score, v.Money[sim.SideLeft], v.Money[sim.SideRight]),
		fmt.Sprintf("preset [%d] %s $%d  (1-3 to change)", int(g.preset)+1, g.preset, sk.Price),
		fmt.Sprintf("T=%d  sim %s  P=pause  ,/. speed", v.Tick, speedStr),
		"L-click=spawn  R-click=inspect  C=copy report",
		"H=hide HUD  Shift+Esc=quit",
	}

	const lineH = 14
	const padX, padY = 6, 4
	boxW := float32(0)
	for _, l := range lines {
		if w := float32(len(l)*6 + padX*2); w > boxW {
			boxW = w
		}
	}
	boxH := float32(len(lines)*lineH + padY*2)
	bx, by := float32(6), float32(6)

	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 10, G: 10, B: 8, A: 200}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, color.RGBA{R: 100, G: 90, B: 60, A: 180}, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, int(bx)+padX, int(by)+padY+i*lineH)
	}
}

// Layout hands the whole window to the game. The playfield is the window
// minus the log panel; a window too small for a playfield makes the next
// tick fail with an invalid viewport.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	g.fieldW = outsideWidth - logPanelWidth
	g.fieldH = outsideHeight
	return outsideWidth, outsideHeight
}
