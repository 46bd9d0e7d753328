package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Sidewars/internal/sim"
)

const (
	inspW     = 220
	inspLineH = 13
	inspPadX  = 8
	inspPadY  = 6
	inspBarW  = 100
)

// Inspector tracks the fighter selected with a right click.
type Inspector struct {
	selected sim.EntityID
	active   bool
}

// handleInspectorClick selects the fighter under the cursor, or clears the
// selection when there is none.
func (g *Game) handleInspectorClick(mx, my int) {
	x, y := g.toWorld(mx, my)
	fv, ok := g.world.FighterAt(x, y)
	if !ok {
		g.inspector = Inspector{}
		return
	}
	g.inspector = Inspector{selected: fv.ID, active: true}
	g.logger.Debug().Uint64("id", uint64(fv.ID)).Str("side", fv.Side.String()).Msg("inspect")
}

// selectedView finds the inspected fighter in v.
func (g *Game) selectedView(v sim.View) (sim.FighterView, bool) {
	if !g.inspector.active {
		return sim.FighterView{}, false
	}
	for _, f := range v.Fighters {
		if f.ID == g.inspector.selected {
			return f, true
		}
	}
	return sim.FighterView{}, false
}

// inspectorLines builds the panel text for the selection.
func (g *Game) inspectorLines(v sim.View) []string {
	if !g.inspector.active {
		return nil
	}
	f, ok := g.selectedView(v)
	if !ok {
		return []string{
			fmt.Sprintf("[ #%d ]", g.inspector.selected),
			"gone from the field",
		}
	}
	state := "marching"
	switch {
	case f.Fighting:
		state = "fighting"
	case f.Waiting:
		state = "waiting"
	}
	sk := f.Skills
	return []string{
		fmt.Sprintf("[ %s%d ] %s", f.Side.Label(), f.ID, f.Side),
		fmt.Sprintf("state: %s", state),
		fmt.Sprintf("hp %d/%d", f.HP, f.MaxHP),
		fmt.Sprintf("atk %d  def %d  str %d", sk.Attack, sk.Defence, sk.Strength),
		fmt.Sprintf("speed %d  siege %d  prot %d", sk.Speed, sk.Siege, f.Protection),
		fmt.Sprintf("cooldown %.2fs", f.Cooldown),
		fmt.Sprintf("pos (%.0f, %.0f)", f.X, f.Y),
	}
}

func (g *Game) drawInspector(screen *ebiten.Image, v sim.View) {
	lines := g.inspectorLines(v)
	if len(lines) == 0 {
		return
	}
	h := float32(len(lines)*inspLineH + inspPadY*2 + 10)
	x := float32(6)
	y := float32(g.fieldH) - h - 6

	vector.FillRect(screen, x, y, inspW, h, color.RGBA{R: 10, G: 12, B: 10, A: 220}, false)
	vector.StrokeRect(screen, x, y, inspW, h, 1.0, color.RGBA{R: 120, G: 110, B: 70, A: 200}, false)
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, int(x)+inspPadX, int(y)+inspPadY+i*inspLineH)
	}

	if f, ok := g.selectedView(v); ok {
		by := y + h - 10
		vector.FillRect(screen, x+inspPadX, by, inspBarW, 4, color.RGBA{R: 60, G: 20, B: 20, A: 255}, false)
		vector.FillRect(screen, x+inspPadX, by, inspBarW*float32(f.HPRatio), 4, color.RGBA{R: 80, G: 200, B: 80, A: 255}, false)
	}
}
