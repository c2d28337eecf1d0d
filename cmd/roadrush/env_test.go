package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func newEnvTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "serve"}
	cmd.Flags().String("ssh", ":23234", "")
	cmd.Flags().String("http", "", "")
	cmd.Flags().Float64("rate", 2, "")
	cmd.Flags().Int("burst", 5, "")
	return cmd
}

func TestLoadEnvFillsUnsetFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ROADRUSH_SSH_ADDR", ":2222")
	t.Setenv("ROADRUSH_BURST", "9")

	cmd := newEnvTestCmd()
	if err := cmd.Flags().Set("burst", "3"); err != nil {
		t.Fatal(err)
	}

	if err := loadEnv(cmd); err != nil {
		t.Fatalf("loadEnv() failed: %v", err)
	}

	if got, _ := cmd.Flags().GetString("ssh"); got != ":2222" {
		t.Errorf("ssh = %q, expected value from environment", got)
	}
	if got, _ := cmd.Flags().GetInt("burst"); got != 3 {
		t.Errorf("burst = %d, explicit flag should win", got)
	}
}

func TestLoadEnvReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("ROADRUSH_HTTP_ADDR=:9090\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("ROADRUSH_HTTP_ADDR") })

	cmd := newEnvTestCmd()
	if err := loadEnv(cmd); err != nil {
		t.Fatalf("loadEnv() failed: %v", err)
	}
	if got, _ := cmd.Flags().GetString("http"); got != ":9090" {
		t.Errorf("http = %q, expected value from .env", got)
	}
}

func TestLoadEnvRejectsBadValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ROADRUSH_RATE", "fast")

	if err := loadEnv(newEnvTestCmd()); err == nil {
		t.Error("non-numeric rate should be an error")
	}
}
