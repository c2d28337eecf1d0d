package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/roadrush/internal/config"
	"github.com/vovakirdan/roadrush/internal/games/roadrush"
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the built-in game config",
	Long: `Prints the built-in Road Rush settings as YAML.
Save the output, edit it and pass the file with --config.`,
	Args: cobra.NoArgs,
	RunE: runDefaults,
}

func runDefaults(cmd *cobra.Command, _ []string) error {
	data := config.GetDefaultYAML(roadrush.GameID)
	if data == nil {
		return fmt.Errorf("no built-in config for %s", roadrush.GameID)
	}
	_, err := cmd.OutOrStdout().Write(data)
	return err
}
