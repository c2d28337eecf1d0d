// roadrush is a top-down highway shooter for the terminal.
//
// Usage:
//
//	roadrush list              - List available games
//	roadrush play [game]       - Play a game (default: roadrush)
//	roadrush menu              - Start menu to pick games interactively
//	roadrush serve             - Start SSH and HTTP servers for remote play
//	roadrush scores [game]      - Show high scores and run history
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.roadrush/scores.db)
//	--verbose       - Enable debug logging
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/roadrush/internal/core"

	// Import games to register them
	_ "github.com/vovakirdan/roadrush/internal/games/roadrush"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "roadrush",
	SilenceUsage:  true,
	SilenceErrors: true,
	Short:         "Road Rush - dodge and shoot your way down the highway",
	Long: `Road Rush is a top-down highway game played in the terminal.
Steer between lanes, dodge traffic, shoot cars for points and grab
power-ups to refill ammo or slow the road down.

Available commands:
  list     - Show all available games
  play     - Play directly
  menu     - Interactive game picker menu
  serve    - Start SSH server (and optional HTTP API) for remote play
  scores   - View high scores

Examples:
  roadrush play
  roadrush play --difficulty hard
  roadrush menu
  roadrush serve --ssh :2222 --http :8080
  roadrush scores --runs`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.roadrush/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(defaultsCmd)
}

// newLogger builds the process logger. Interactive commands log to stderr,
// which is hidden behind the alt screen while a game is running.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// runtimeConfig reads the terminal size and applies the global flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
