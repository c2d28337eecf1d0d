package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/roadrush/internal/config"
	"github.com/vovakirdan/roadrush/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List games and difficulty presets",
	Long:  `Prints the registered games and the presets accepted by --difficulty.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(_ *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "GAME\tTITLE")
	for _, g := range registry.List() {
		fmt.Fprintf(w, "%s\t%s\n", g.ID, g.Title)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "DIFFICULTY\tDESCRIPTION")
	for _, p := range config.Presets() {
		fmt.Fprintf(w, "%s\t%s\n", p, p.Description())
	}

	return w.Flush()
}
