package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Environment variables read by serve. Flags given on the command line win.
var envFlags = map[string]string{
	"ssh":          "ROADRUSH_SSH_ADDR",
	"http":         "ROADRUSH_HTTP_ADDR",
	"host-key":     "ROADRUSH_HOST_KEY",
	"db":           "ROADRUSH_DB",
	"idle-timeout": "ROADRUSH_IDLE_TIMEOUT",
	"rate":         "ROADRUSH_RATE",
	"burst":        "ROADRUSH_BURST",
	"fps":          "ROADRUSH_FPS",
}

// loadEnv reads an optional .env file and copies matching environment
// variables into flags the user did not set explicitly.
func loadEnv(cmd *cobra.Command) error {
	if err := godotenv.Load(".env"); err == nil {
		newLogger("roadrush").Debug("loaded environment from .env")
	}

	for name, env := range envFlags {
		value, ok := os.LookupEnv(env)
		if !ok || value == "" {
			continue
		}
		flag := cmd.Flags().Lookup(name)
		if flag == nil || flag.Changed {
			continue
		}
		if err := cmd.Flags().Set(name, value); err != nil {
			return fmt.Errorf("invalid %s=%q: %w", env, value, err)
		}
	}
	return nil
}
