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
	logPanelWidth = 300
	logMaxEntries = 60
	logLineHeight = 11
)

// BattleEntry is a single line in the battle log.
type BattleEntry struct {
	Tick    int
	Label   string // e.g. "L4", "R17", "--"
	Side    string // "left", "right" or "--"
	Message string
}

// BattleLog is a ring buffer of battle events rendered on-screen.
type BattleLog struct {
	entries []BattleEntry
	head    int
	count   int
}

// NewBattleLog creates a battle log with a fixed capacity.
func NewBattleLog() *BattleLog {
	return &BattleLog{
		entries: make([]BattleEntry, logMaxEntries),
	}
}

// Add appends an entry to the log.
func (bl *BattleLog) Add(tick int, label, side, msg string) {
	bl.entries[bl.head] = BattleEntry{
		Tick:    tick,
		Label:   label,
		Side:    side,
		Message: msg,
	}
	bl.head = (bl.head + 1) % logMaxEntries
	if bl.count < logMaxEntries {
		bl.count++
	}
}

// AddSimEntry copies one simulation event into the panel.
func (bl *BattleLog) AddSimEntry(e sim.SimLogEntry) {
	bl.Add(e.Tick, e.Entity, e.Side, fmt.Sprintf("%s/%s %s", e.Category, e.Key, e.Value))
}

// Recent returns entries in chronological order (oldest first).
func (bl *BattleLog) Recent() []BattleEntry {
	result := make([]BattleEntry, bl.count)
	for i := 0; i < bl.count; i++ {
		idx := (bl.head - bl.count + i + logMaxEntries) % logMaxEntries
		result[i] = bl.entries[idx]
	}
	return result
}

// Draw renders the battle log panel at panelX, full height.
func (bl *BattleLog) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 12, G: 10, B: 10, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 70, G: 55, B: 50, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 30, G: 22, B: 20, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "BATTLE LOG", panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+logPanelWidth), 16, 1.0, color.RGBA{R: 80, G: 60, B: 50, A: 200}, false)

	entries := bl.Recent()

	// Newest at the bottom.
	maxVisible := (panelH - 24) / logLineHeight
	if maxVisible < 0 {
		maxVisible = 0
	}
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}

	visible := entries[startIdx:]
	recent := 3

	y := 20
	for i, e := range visible {
		if i >= len(visible)-recent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 40, G: 30, B: 28, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, sideColor(e.Side), false)

		line := fmt.Sprintf("%4d [%s] %s", e.Tick, e.Label, e.Message)
		ebitenutil.DebugPrintAt(screen, line, panelX+12, y)
		y += logLineHeight
	}
}

// sideColor is the fill used for a side's fighters and log dots.
func sideColor(side string) color.RGBA {
	switch side {
	case sim.SideLeft.String():
		return color.RGBA{R: 70, G: 110, B: 210, A: 255}
	case sim.SideRight.String():
		return color.RGBA{R: 210, G: 70, B: 70, A: 255}
	default:
		return color.RGBA{R: 150, G: 150, B: 150, A: 255}
	}
}
