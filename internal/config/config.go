// Package config loads run settings from an optional key=value file and the
// environment. Environment variables win over the file; both win over
// Default.
package config

import (
	"io"
	"os"
	"strings"
	"time"

	jlconfig "github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Sidewars/internal/sim"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = eris.New("invalid config")

// Config holds everything a binary needs to set up a battle. Field tags are
// the environment variable (and file key) names.
type Config struct {
	FieldWidth  float64 `config:"SIDEWARS_FIELD_WIDTH"`
	FieldHeight float64 `config:"SIDEWARS_FIELD_HEIGHT"`
	TPS         int     `config:"SIDEWARS_TPS"`

	Seed    int64 `config:"SIDEWARS_SEED"` // 0 picks one from the clock
	Workers int   `config:"SIDEWARS_WORKERS"`

	StartingMoney uint32  `config:"SIDEWARS_STARTING_MONEY"`
	Extent        float64 `config:"SIDEWARS_EXTENT"`
	ZoneWidth     float64 `config:"SIDEWARS_ZONE_WIDTH"`
	ZoneOffset    float64 `config:"SIDEWARS_ZONE_OFFSET"`
	CadenceBase   float64 `config:"SIDEWARS_CADENCE_BASE"`
	CadenceMin    float64 `config:"SIDEWARS_CADENCE_MIN"`
	CadenceFunds  float64 `config:"SIDEWARS_CADENCE_FUNDS"`
	AutoSpawn     bool    `config:"SIDEWARS_AUTO_SPAWN"`

	LogLevel string `config:"SIDEWARS_LOG_LEVEL"`
	LogJSON  bool   `config:"SIDEWARS_LOG_JSON"`
}

// Default returns the stock settings.
func Default() Config {
	return Config{
		FieldWidth:    1280,
		FieldHeight:   720,
		TPS:           60,
		StartingMoney: sim.DefaultStartingMoney,
		Extent:        sim.DefaultExtent,
		ZoneWidth:     sim.DefaultSpawnZone.Width,
		ZoneOffset:    sim.DefaultSpawnZone.Offset,
		CadenceBase:   sim.DefaultCadence.Base,
		CadenceMin:    sim.DefaultCadence.Min,
		CadenceFunds:  sim.DefaultCadence.FundsScale,
		AutoSpawn:     true,
		LogLevel:      "info",
	}
}

// Load starts from Default, applies path (if not empty) and then the
// environment, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	b := jlconfig.FromEnv()
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return cfg, eris.Wrapf(err, "config file %s", path)
		}
		b = jlconfig.From(path).FromEnv()
	}
	if err := b.To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot produce a working battle.
func (c Config) Validate() error {
	switch {
	case c.FieldWidth <= 0 || c.FieldHeight <= 0:
		return eris.Wrapf(ErrInvalidConfig, "field %.0fx%.0f has no area", c.FieldWidth, c.FieldHeight)
	case c.TPS <= 0:
		return eris.Wrapf(ErrInvalidConfig, "tps must be positive, got %d", c.TPS)
	case c.Workers < 0:
		return eris.Wrapf(ErrInvalidConfig, "workers must not be negative, got %d", c.Workers)
	case c.Extent <= 0:
		return eris.Wrapf(ErrInvalidConfig, "extent must be positive, got %v", c.Extent)
	case c.ZoneWidth <= 0 || c.ZoneWidth > c.FieldWidth/2:
		return eris.Wrapf(ErrInvalidConfig, "zone width %v does not fit field width %v", c.ZoneWidth, c.FieldWidth)
	case c.ZoneOffset < 0 || c.ZoneOffset > c.ZoneWidth:
		return eris.Wrapf(ErrInvalidConfig, "zone offset %v outside zone width %v", c.ZoneOffset, c.ZoneWidth)
	case c.CadenceBase <= 0 || c.CadenceMin <= 0 || c.CadenceFunds <= 0:
		return eris.Wrapf(ErrInvalidConfig, "spawn cadence must be positive")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return eris.Wrapf(ErrInvalidConfig, "log level %q", c.LogLevel)
	}
	return nil
}

// ResolvedSeed returns Seed, or a clock-derived seed when Seed is 0.
func (c Config) ResolvedSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}

// SimOptions translates the settings into World options. The logger is
// attached to the world as is.
func (c Config) SimOptions(logger zerolog.Logger) []sim.Option {
	return []sim.Option{
		sim.WithSeed(c.ResolvedSeed()),
		sim.WithLogger(logger),
		sim.WithWorkers(c.Workers),
		sim.WithExtent(c.Extent),
		sim.WithStartingMoney(c.StartingMoney, c.StartingMoney),
		sim.WithSpawnZone(sim.SpawnZone{Width: c.ZoneWidth, Offset: c.ZoneOffset}),
		sim.WithSpawnCadence(sim.SpawnCadence{Base: c.CadenceBase, Min: c.CadenceMin, FundsScale: c.CadenceFunds}),
		sim.WithAutoSpawn(c.AutoSpawn),
	}
}

// NewLogger builds the process logger: JSON lines when LogJSON is set,
// otherwise a console writer.
func (c Config) NewLogger(out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if !c.LogJSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
