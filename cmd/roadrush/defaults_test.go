package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/roadrush/internal/config"
)

func TestDefaultsRoundTripThroughConfigFlag(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	if err := runDefaults(cmd, nil); err != nil {
		t.Fatalf("runDefaults() failed: %v", err)
	}
	if out.Len() == 0 {
		t.Fatal("defaults printed nothing")
	}

	path := filepath.Join(t.TempDir(), "roadrush.yaml")
	if err := os.WriteFile(path, out.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.LoadRoadRush(path)
	if err != nil {
		t.Fatalf("printed defaults do not load: %v", err)
	}
	if !reflect.DeepEqual(cfg, config.DefaultRoadRushConfig()) {
		t.Errorf("printed defaults differ from built-in config:\n%+v", cfg)
	}
}
