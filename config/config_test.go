package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.FenceRadius != 500 || cfg.World.Extent != 550 {
		t.Errorf("world = %+v", cfg.World)
	}
	if cfg.Charge.Tau != 2 {
		t.Errorf("tau = %v", cfg.Charge.Tau)
	}
	if cfg.AI.RadarMultiplier != 10 || cfg.AI.PowerBoost != 100 {
		t.Errorf("ai = %+v", cfg.AI)
	}
	if cfg.Minion.Density != 0.2 || cfg.Resource.Density != 1 {
		t.Errorf("densities %v %v", cfg.Minion.Density, cfg.Resource.Density)
	}
	if !cfg.Physics.Drift || cfg.Physics.Friction != 0.98 || cfg.Physics.MaxSpeed != 120 {
		t.Errorf("physics = %+v", cfg.Physics)
	}
	if cfg.Derived.TicksPerSecond != 60 {
		t.Errorf("ticks per second = %d", cfg.Derived.TicksPerSecond)
	}
	if cfg.Derived.StatsWindowTicks != 600 {
		t.Errorf("stats window ticks = %d", cfg.Derived.StatsWindowTicks)
	}
	if r := cfg.Personality.Traits.Prudence; r.Min != 0.6 || r.Max != 0.95 {
		t.Errorf("prudence range = %+v", r)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	data := "ai:\n  radar_multiplier: 4\npersonality:\n  kind: reflex\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.RadarMultiplier != 4 {
		t.Errorf("radar multiplier = %v, want 4", cfg.AI.RadarMultiplier)
	}
	if cfg.AI.PowerBoost != 100 {
		t.Errorf("power boost lost its default: %v", cfg.AI.PowerBoost)
	}
	if cfg.Personality.Kind != "reflex" {
		t.Errorf("kind = %q", cfg.Personality.Kind)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad yaml", "physics: [", "parsing config file"},
		{"zero dt", "physics:\n  dt: 0\n", "physics.dt"},
		{"friction above one", "physics:\n  friction: 1.5\n", "physics.friction"},
		{"bad kind", "personality:\n  kind: oracle\n", "personality.kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file loaded")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Population.Minions = 7
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Population.Minions != 7 || back.Population.Noise.Octaves != cfg.Population.Noise.Octaves {
		t.Errorf("round trip lost values: %+v", back.Population)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Cfg()
}
