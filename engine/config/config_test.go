package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[frame]
ring_depth = 2
wait_timeout = "250ms"

[ssao]
enabled = false
blur_count = 5
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Frame.RingDepth != 2 {
		t.Errorf("RingDepth = %d, want 2", cfg.Frame.RingDepth)
	}
	if time.Duration(cfg.Frame.WaitTimeout) != 250*time.Millisecond {
		t.Errorf("WaitTimeout = %v, want 250ms", time.Duration(cfg.Frame.WaitTimeout))
	}
	if cfg.Ssao.Enabled || cfg.Ssao.BlurCount != 5 {
		t.Errorf("Ssao = %+v, want disabled with 5 blurs", cfg.Ssao)
	}
	if cfg.Frame.MaxInstances != Default().Frame.MaxInstances {
		t.Errorf("MaxInstances = %d, want default", cfg.Frame.MaxInstances)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero ring", func(c *Config) { c.Frame.RingDepth = 0 }},
		{"zero timeout", func(c *Config) { c.Frame.WaitTimeout = 0 }},
		{"no instances", func(c *Config) { c.Frame.MaxInstances = 0 }},
		{"far before near", func(c *Config) { c.Scene.FarZ = 0.5 }},
		{"negative blur", func(c *Config) { c.Ssao.BlurCount = -1 }},
		{"inverted fade", func(c *Config) { c.Ssao.FadeEnd = 0.1 }},
		{"empty frame", func(c *Config) { c.Frame.Width = 0 }},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: Validate() = %v, want ErrInvalidConfig", tt.name, err)
		}
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	want := Default()
	want.Ssao.BlurCount = 7
	data, err := want.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestWatcherPublishesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.toml")
	if err := os.WriteFile(path, []byte("[ssao]\nblur_count = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[ssao]\nblur_count = 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-w.Updates():
			if cfg.Ssao.BlurCount == 4 {
				return
			}
		case err := <-w.Errors():
			// a write may be observed before the content lands; keep waiting
			t.Logf("reload error: %v", err)
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}

func TestHotReloadable(t *testing.T) {
	cur := Default()
	next := Default()
	next.Ssao.Enabled = false
	next.Ssao.BlurCount = 9
	next.Log.Level = "debug"
	next.Frame.RingDepth = 7

	cur.HotReloadable(next)
	if cur.Ssao.Enabled || cur.Ssao.BlurCount != 9 || cur.Log.Level != "debug" {
		t.Errorf("hot fields not copied: %+v", cur)
	}
	if cur.Frame.RingDepth != 3 {
		t.Errorf("RingDepth changed to %d", cur.Frame.RingDepth)
	}
}
