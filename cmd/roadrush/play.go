package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/roadrush/internal/config"
	"github.com/vovakirdan/roadrush/internal/games/roadrush"
	"github.com/vovakirdan/roadrush/internal/platform/tui"
	"github.com/vovakirdan/roadrush/internal/registry"
	"github.com/vovakirdan/roadrush/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play a game",
	Long: `Start playing. Without an argument Road Rush is started.

Controls:
  A/D, Left/Right  - Steer
  Space/W/Up       - Shoot
  P                - Pause
  R                - Restart (after game over)
  Q/Ctrl+C         - Quit
  Ctrl+S           - Save a screenshot

Difficulty options:
  normal - Traffic speeds up over two minutes (default)
  easy   - Lower top speed
  hard   - Starts twenty seconds into the ramp
  fixed  - No progression

Examples:
  roadrush play
  roadrush play --difficulty hard
  roadrush play --config ./my-roadrush.yaml
  roadrush play --seed 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	menuCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

// applyGameFlags checks --config and --difficulty and hands them to the game
// package before an instance is created. The game falls back to defaults
// on a bad file, so a broken --config is caught here instead.
func applyGameFlags() error {
	if flagDifficulty != "" && config.ParsePreset(flagDifficulty) == "" {
		return fmt.Errorf("unknown difficulty %q (run 'roadrush list' to see presets)", flagDifficulty)
	}
	if flagConfig != "" {
		if _, err := config.LoadRoadRush(flagConfig); err != nil {
			return fmt.Errorf("--config %s: %w", flagConfig, err)
		}
	}

	roadrush.SetConfigPath(flagConfig)
	roadrush.SetDifficultyPreset(flagDifficulty)
	return nil
}

// openStore opens the score database, logging and continuing without
// persistence on failure.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database, scores will not be saved", "error", err)
		return nil
	}
	return store
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := roadrush.GameID
	if len(args) > 0 {
		gameID = args[0]
	}

	if err := applyGameFlags(); err != nil {
		return err
	}
	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("%w (run 'roadrush list' to see available games)", err)
	}

	logger := newLogger("roadrush")
	store := openStore(logger) // nil keeps the game playable without persistence
	if store != nil {
		defer store.Close()
	}

	return tui.Run(game, store, logger, runtimeConfig())
}
