package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/uomaps/internal/config"
	"github.com/Faultbox/uomaps/internal/maps"
	"github.com/Faultbox/uomaps/pkg/formats"
)

// testConfig points at a folder holding one land block of map 4.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "map4.mul"), make([]byte, formats.LandBlockSize), 0644); err != nil {
		t.Fatalf("failed to write land file: %v", err)
	}

	cfg := config.Default()
	cfg.Data.UOPath = dir
	return cfg
}

func TestOpenRegistry_MissingMap(t *testing.T) {
	cfg := testConfig(t)

	reg, err := openRegistry(cfg, 0)
	if !errors.Is(err, maps.ErrMapNotAvailable) {
		t.Fatalf("expected ErrMapNotAvailable, got %v", err)
	}
	if reg != nil {
		t.Error("registry should not be returned on error")
	}
}

func TestOpenRegistry_BadVersion(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.ClientVersion = "four"

	if _, err := openRegistry(cfg, 4); !errors.Is(err, maps.ErrInvalidClientVersion) {
		t.Errorf("expected ErrInvalidClientVersion, got %v", err)
	}
}

func TestParseInts(t *testing.T) {
	v, err := parseInts([]string{"map", "x"}, []string{"4", "12"})
	if err != nil {
		t.Fatalf("parseInts failed: %v", err)
	}
	if v[0] != 4 || v[1] != 12 {
		t.Errorf("unexpected values %v", v)
	}

	if _, err := parseInts([]string{"map"}, []string{"four"}); err == nil {
		t.Error("expected error for non-numeric argument")
	}
}

func TestCmdBlock_NoData(t *testing.T) {
	cfg := testConfig(t)

	if err := cmdBlock(cfg, []string{"4", "1", "0"}); err == nil {
		t.Error("expected error for a block past the land file")
	}
}

func TestCmdRadar(t *testing.T) {
	cfg := testConfig(t)
	out := filepath.Join(t.TempDir(), "radar.bmp")

	if err := cmdRadar(cfg, []string{"4", "0", "0", "2", "1", out}); err != nil {
		t.Fatalf("cmdRadar failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if len(data) < 2 || string(data[:2]) != "BM" {
		t.Error("expected a BMP file")
	}
}
