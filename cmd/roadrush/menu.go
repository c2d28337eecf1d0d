package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/roadrush/internal/platform/tui"
	"github.com/vovakirdan/roadrush/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a game picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a game.
After a game ends, press Esc to return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Left/Right   - Change difficulty
  Enter/Space  - Select game
  Tab          - Scoreboard
  Q            - Quit

Examples:
  roadrush menu
  roadrush menu --fps 30
  roadrush menu --db ./scores.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	if err := applyGameFlags(); err != nil {
		return err
	}

	logger := newLogger("roadrush")
	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}
	cfg := runtimeConfig()
	difficulty := flagDifficulty

	for {
		menuResult, err := tui.RunMenu(store, cfg, difficulty)
		if err != nil {
			return err
		}

		// Keep size changes and the last chosen preset
		cfg = menuResult.Config
		difficulty = menuResult.Difficulty

		if menuResult.Quit || (menuResult.GameID == "" && !menuResult.WantsScoreboard) {
			return nil
		}

		if menuResult.WantsScoreboard {
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil || !goBack {
				return err
			}
			continue
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			logger.Error("cannot create game", "game", menuResult.GameID, "error", err)
			continue
		}
		if ds, ok := game.(registry.DifficultySetter); ok {
			ds.SetDifficulty(difficulty)
		}

		// Fresh seed for each run unless one was pinned
		runCfg := cfg
		if runCfg.Seed == 0 {
			runCfg.Seed = time.Now().UnixNano()
		}

		if err := tui.Run(game, store, logger, runCfg); err != nil {
			logger.Error("game exited with error", "game", game.ID(), "error", err)
		}
	}
}
