package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/roadrush/internal/games/roadrush"
	"github.com/vovakirdan/roadrush/internal/registry"
	"github.com/vovakirdan/roadrush/internal/storage"
)

var (
	flagClear      bool
	flagShowRuns   bool
	flagScoreLimit int
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores and run history",
	Long: `Prints the best scores and run totals for a game (default: roadrush).

Examples:
  roadrush scores
  roadrush scores --runs --limit 20
  roadrush scores --db ./scores.db
  roadrush scores --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded scores and runs for the game")
	scoresCmd.Flags().BoolVar(&flagShowRuns, "runs", false, "List the most recent runs instead of the best scores")
	scoresCmd.Flags().IntVarP(&flagScoreLimit, "limit", "n", 10, "Number of rows to show")
}

func runScores(cmd *cobra.Command, args []string) error {
	gameID := roadrush.GameID
	if len(args) > 0 {
		gameID = args[0]
	}
	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("%w (run 'roadrush list' to see available games)", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("open scores database: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if flagClear {
		if err := store.ClearScores(gameID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Cleared all scores for %s.\n", game.Title())
		return nil
	}

	if flagShowRuns {
		fmt.Fprintf(out, "Recent runs - %s\n\n", game.Title())
		err = printRuns(out, store, gameID, flagScoreLimit)
	} else {
		fmt.Fprintf(out, "High scores - %s\n\n", game.Title())
		err = printTopScores(out, store, gameID, flagScoreLimit)
	}
	if err != nil {
		return err
	}

	stats, err := store.GetGameStats(gameID)
	if err != nil {
		return err
	}
	if stats.RunsCount > 0 {
		fmt.Fprintf(out, "\n%d runs, best %d, average %.0f\n", stats.RunsCount, stats.HighScore, stats.AvgScore)
		fmt.Fprintf(out, "%d cars destroyed, %d dodged, longest run %s\n",
			stats.TotalKills, stats.TotalDodged, msDuration(stats.LongestMS))
	}
	return nil
}

func printTopScores(out io.Writer, store *storage.Store, gameID string, limit int) error {
	scores, err := store.TopScores(gameID, limit)
	if err != nil {
		return err
	}
	if len(scores) == 0 {
		fmt.Fprintf(out, "No scores recorded yet. Play 'roadrush play %s' to set one.\n", gameID)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  RANK\tSCORE\tDATE")
	for i, s := range scores {
		fmt.Fprintf(w, "  %d\t%d\t%s\n", i+1, s.Score, s.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func printRuns(out io.Writer, store *storage.Store, gameID string, limit int) error {
	runs, err := store.RecentRuns(gameID, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  SCORE\tKILLS\tDODGED\tSHOTS\tPICKUPS\tTIME\tSEED\tDATE")
	for _, r := range runs {
		s := r.Stats
		fmt.Fprintf(w, "  %d\t%d\t%d\t%d\t%d\t%s\t%d\t%s\n",
			s.Score, s.Kills, s.Dodged, s.Shots, s.Pickups,
			msDuration(s.DurationMS), s.Seed,
			r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func msDuration(ms int64) time.Duration {
	return (time.Duration(ms) * time.Millisecond).Round(time.Second)
}
