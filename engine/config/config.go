// package config loads the engine settings from TOML and validates them.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrInvalidConfig is returned by Validate, wrapped with the offending field.
	ErrInvalidConfig = errors.New("config: invalid")
)

// Duration is a time.Duration that reads and writes as a Go duration string ("5s", "250ms").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config is the full engine configuration.
type Config struct {
	Frame FrameConfig `toml:"frame"`
	Scene SceneConfig `toml:"scene"`
	Ssao  SsaoConfig  `toml:"ssao"`
	Log   LogConfig   `toml:"log"`
}

// FrameConfig sizes the frame ring and its upload regions.
type FrameConfig struct {
	RingDepth    int      `toml:"ring_depth"`
	WaitTimeout  Duration `toml:"wait_timeout"`
	MaxInstances int      `toml:"max_instances"`
	MaxMaterials int      `toml:"max_materials"`
	MaxSkinned   int      `toml:"max_skinned"`
	TickRate     int      `toml:"tick_rate"`
	Width        int      `toml:"width"`
	Height       int      `toml:"height"`
}

// SceneConfig holds the camera and off-screen target parameters.
type SceneConfig struct {
	BoundCenter   [3]float32 `toml:"bound_center"`
	BoundRadius   float32    `toml:"bound_radius"`
	CubeCenter    [3]float32 `toml:"cube_center"`
	CubeMapSize   int        `toml:"cube_map_size"`
	ShadowMapSize int        `toml:"shadow_map_size"`
	NearZ         float32    `toml:"near_z"`
	FarZ          float32    `toml:"far_z"`
	LightSpin     float32    `toml:"light_spin"`
}

// SsaoConfig controls the optional ambient occlusion passes. Enabled and BlurCount can be
// changed while running.
type SsaoConfig struct {
	Enabled         bool    `toml:"enabled"`
	BlurCount       int     `toml:"blur_count"`
	OcclusionRadius float32 `toml:"occlusion_radius"`
	FadeStart       float32 `toml:"fade_start"`
	FadeEnd         float32 `toml:"fade_end"`
	SurfaceEpsilon  float32 `toml:"surface_epsilon"`
}

// LogConfig sets the logger level. Can be changed while running.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Frame: FrameConfig{
			RingDepth:    3,
			WaitTimeout:  Duration(5 * time.Second),
			MaxInstances: 1024,
			MaxMaterials: 64,
			MaxSkinned:   16,
			TickRate:     60,
			Width:        1280,
			Height:       720,
		},
		Scene: SceneConfig{
			BoundRadius:   14.142136,
			CubeCenter:    [3]float32{0, 2, 0},
			CubeMapSize:   512,
			ShadowMapSize: 2048,
			NearZ:         1,
			FarZ:          1000,
			LightSpin:     0.1,
		},
		Ssao: SsaoConfig{
			Enabled:         true,
			BlurCount:       3,
			OcclusionRadius: 0.5,
			FadeStart:       0.2,
			FadeEnd:         1.0,
			SurfaceEpsilon:  0.05,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Parse decodes TOML over the defaults, so omitted keys keep their default values.
//
// Parameters:
//   - data: TOML document
//
// Returns:
//   - Config: the decoded and validated configuration
//   - error: a decode error or ErrInvalidConfig
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the TOML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Marshal encodes cfg as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate checks ranges that the frame loop depends on.
func (c Config) Validate() error {
	switch {
	case c.Frame.RingDepth < 1:
		return fmt.Errorf("%w: frame.ring_depth must be at least 1, got %d", ErrInvalidConfig, c.Frame.RingDepth)
	case c.Frame.WaitTimeout <= 0:
		return fmt.Errorf("%w: frame.wait_timeout must be positive", ErrInvalidConfig)
	case c.Frame.MaxInstances < 1:
		return fmt.Errorf("%w: frame.max_instances must be positive", ErrInvalidConfig)
	case c.Frame.MaxMaterials < 1:
		return fmt.Errorf("%w: frame.max_materials must be positive", ErrInvalidConfig)
	case c.Frame.MaxSkinned < 0:
		return fmt.Errorf("%w: frame.max_skinned must not be negative", ErrInvalidConfig)
	case c.Frame.Width < 1 || c.Frame.Height < 1:
		return fmt.Errorf("%w: frame size %dx%d", ErrInvalidConfig, c.Frame.Width, c.Frame.Height)
	case c.Scene.BoundRadius <= 0:
		return fmt.Errorf("%w: scene.bound_radius must be positive", ErrInvalidConfig)
	case c.Scene.NearZ <= 0 || c.Scene.FarZ <= c.Scene.NearZ:
		return fmt.Errorf("%w: scene near/far %v/%v", ErrInvalidConfig, c.Scene.NearZ, c.Scene.FarZ)
	case c.Scene.CubeMapSize < 1 || c.Scene.ShadowMapSize < 1:
		return fmt.Errorf("%w: off-screen target sizes must be positive", ErrInvalidConfig)
	case c.Ssao.BlurCount < 0:
		return fmt.Errorf("%w: ssao.blur_count must not be negative", ErrInvalidConfig)
	case c.Ssao.FadeEnd <= c.Ssao.FadeStart:
		return fmt.Errorf("%w: ssao fade range %v..%v", ErrInvalidConfig, c.Ssao.FadeStart, c.Ssao.FadeEnd)
	}
	return nil
}

// HotReloadable copies the fields that may change while running from next into c.
func (c *Config) HotReloadable(next Config) {
	c.Ssao.Enabled = next.Ssao.Enabled
	c.Ssao.BlurCount = next.Ssao.BlurCount
	c.Log.Level = next.Log.Level
}
