package sim

// Side is both the owning player of a fighter and the direction it walks.
type Side int

const (
	SideLeft  Side = iota // spawns on the left edge, walks toward +x
	SideRight             // spawns on the right edge, walks toward -x
)

// sideCount sizes per-side arrays.
const sideCount = 2

// Sign returns +1 for the left side and -1 for the right side.
func (s Side) Sign() float64 {
	if s == SideRight {
		return -1
	}
	return 1
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideRight {
		return SideLeft
	}
	return SideRight
}

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// Label is the one-letter tag used in log lines.
func (s Side) Label() string {
	if s == SideRight {
		return "R"
	}
	return "L"
}

// Skills is the immutable stat template a fighter is created from.
// Attack, Defence, Strength and Protection are upper bounds of uniform rolls.
type Skills struct {
	Price    uint8
	Attack   uint8
	Defence  uint8
	Strength uint8
	HP       uint8
	Speed    uint8 // horizontal velocity scale
	Siege    uint8 // coins paid out when the fighter crosses the field
}

// PresetID names one of the buyable fighter templates.
type PresetID int

const (
	PresetPrivate PresetID = iota
	PresetFighter
	PresetShieldsman
	presetCount
)

func (p PresetID) String() string {
	switch p {
	case PresetPrivate:
		return "private"
	case PresetFighter:
		return "fighter"
	case PresetShieldsman:
		return "shieldsman"
	default:
		return "unknown"
	}
}

// Presets holds the stats of every buyable template, indexed by PresetID.
var Presets = [presetCount]Skills{
	PresetPrivate:    {Price: 5, Attack: 30, Defence: 1, Strength: 5, HP: 20, Speed: 35, Siege: 5},
	PresetFighter:    {Price: 10, Attack: 55, Defence: 12, Strength: 9, HP: 26, Speed: 28, Siege: 8},
	PresetShieldsman: {Price: 12, Attack: 20, Defence: 50, Strength: 4, HP: 40, Speed: 18, Siege: 6},
}

// Valid reports whether p indexes Presets.
func (p PresetID) Valid() bool {
	return p >= 0 && p < presetCount
}

// Skills returns the template for p.
func (p PresetID) Skills() Skills {
	return Presets[p]
}

// cheapestPrice is the lowest price among all presets.
func cheapestPrice() uint8 {
	min := Presets[0].Price
	for _, s := range Presets[1:] {
		if s.Price < min {
			min = s.Price
		}
	}
	return min
}

// Fighter is the mutable combat state of a unit.
//
// Fighting and Waiting are derived every tick by the collision resolver.
// Fighting is a weak reference: the entity it names may already be gone.
type Fighter struct {
	Skills         Skills
	HP             uint8
	Protection     uint8
	Side           Side
	Fighting       *EntityID
	AttackCooldown float64
	Waiting        bool
}

// NewFighter returns a full-health fighter with no protection.
func NewFighter(skills Skills, side Side) *Fighter {
	return &Fighter{
		Skills: skills,
		HP:     skills.HP,
		Side:   side,
	}
}

// NewFighterWithProtection is NewFighter plus a flat damage reduction roll bound.
func NewFighterWithProtection(skills Skills, side Side, protection uint8) *Fighter {
	f := NewFighter(skills, side)
	f.Protection = protection
	return f
}

// Moving reports whether the fighter advances this tick.
func (f *Fighter) Moving() bool {
	return !f.Waiting && f.Fighting == nil
}

// HPRatio is current over maximum health, 0 for a zero-hp template.
func (f *Fighter) HPRatio() float64 {
	if f.Skills.HP == 0 {
		return 0
	}
	return float64(f.HP) / float64(f.Skills.HP)
}

func (f *Fighter) engage(opponent EntityID) {
	id := opponent
	f.Fighting = &id
}

func (f *Fighter) disengage() {
	f.Fighting = nil
}

// satSub is a - b clamped at zero.
func satSub(a, b uint8) uint8 {
	if b >= a {
		return 0
	}
	return a - b
}
