package main

import (
	"errors"
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Sidewars/internal/config"
	"github.com/Garsondee/Sidewars/internal/game"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "optional KEY=value settings file")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("load config")
	}
	logger := cfg.NewLogger(os.Stderr)

	g, err := game.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("create game")
	}

	ebiten.SetWindowTitle("Sidewars")
	ebiten.SetWindowSize(g.WindowSize())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TPS)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal().Err(err).Msg("game stopped")
	}
}
