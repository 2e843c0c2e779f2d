// Package config loads runtime configuration from a YAML file with
// sensible defaults, so a bare binary runs without any file present.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/classify"
)

// Server holds the HTTP listener settings.
type Server struct {
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
}

// Camera holds the capture device settings.
type Camera struct {
	DeviceID int `yaml:"device_id"`
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	FPS      int `yaml:"fps"`
}

// Detection holds classifier and pipeline tuning.
type Detection struct {
	Threshold       float64                 `yaml:"threshold"`
	Smoothing       classify.SmootherConfig `yaml:"smoothing"`
	IdleFPS         int                     `yaml:"idle_fps"`
	ActiveFPS       int                     `yaml:"active_fps"`
	MotionThreshold float64                 `yaml:"motion_threshold"`
	IdleTimeoutMs   int                     `yaml:"idle_timeout_ms"`
}

// IdleTimeout is how long without motion before the pipeline drops back to
// the idle frame rate.
func (d Detection) IdleTimeout() time.Duration {
	if d.IdleTimeoutMs <= 0 {
		return 2 * time.Second
	}
	return time.Duration(d.IdleTimeoutMs) * time.Millisecond
}

// Models holds paths to the classifier artifacts. Absent files are normal;
// the classifier chain falls through to the next backend.
type Models struct {
	GeometricPath string `yaml:"geometric"`
	SequencePath  string `yaml:"sequence"`
	LabelsPath    string `yaml:"labels"`
}

// Store holds the SQLite database location.
type Store struct {
	Path string `yaml:"path"`
}

// Translator holds the optional translation service settings. An empty URL
// disables the service.
type Translator struct {
	URL       string `yaml:"url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// Timeout bounds one translation request.
func (t Translator) Timeout() time.Duration {
	if t.TimeoutMs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(t.TimeoutMs) * time.Millisecond
}

// Speech holds the ElevenLabs credentials. An empty API key disables speech.
type Speech struct {
	APIKey  string `yaml:"api_key"`
	VoiceID string `yaml:"voice_id"`
	AgentID string `yaml:"agent_id"`
}

// Hooks holds the detection hook discovery directory.
type Hooks struct {
	Dir string `yaml:"dir"`
}

// Config is the root of the configuration tree.
type Config struct {
	Server     Server     `yaml:"server"`
	Camera     Camera     `yaml:"camera"`
	Detection  Detection  `yaml:"detection"`
	Models     Models     `yaml:"models"`
	Store      Store      `yaml:"store"`
	Translator Translator `yaml:"translator"`
	Speech     Speech     `yaml:"speech"`
	Hooks      Hooks      `yaml:"hooks"`
}

// DataDir is where the application keeps its database, models, and hooks.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mudra"
	}
	return filepath.Join(home, ".mudra")
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	dataDir := DataDir()
	return &Config{
		Server: Server{Port: 5001},
		Camera: Camera{DeviceID: 0, Width: 640, Height: 480, FPS: 30},
		Detection: Detection{
			Threshold:       classify.DefaultThreshold,
			IdleFPS:         5,
			ActiveFPS:       15,
			MotionThreshold: 2.0,
			IdleTimeoutMs:   2000,
		},
		Models: Models{
			GeometricPath: filepath.Join(dataDir, "models", "gesture_model.json"),
			SequencePath:  filepath.Join(dataDir, "models", "gesture_lstm.tflite"),
			LabelsPath:    filepath.Join(dataDir, "models", "labels.txt"),
		},
		Store:      Store{Path: filepath.Join(dataDir, "mudra.db")},
		Translator: Translator{TimeoutMs: 10000},
		Speech:     Speech{VoiceID: "21m00Tcm4TlvDq8ikWAM"},
		Hooks:      Hooks{Dir: filepath.Join(dataDir, "hooks")},
	}
}

// Load reads configuration, starting from Default and layering a YAML file
// and environment overrides on top.
//
// When path is non-empty that exact file must exist. Otherwise the file is
// optional and the first existing candidate wins: $MUDRA_CONFIG,
// ./mudra.yaml, ./config/mudra.yaml, ~/.config/mudra/config.yaml.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("MUDRA_CONFIG")
	}
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	} else {
		for _, candidate := range candidatePaths() {
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			if err := decodeFile(candidate, cfg); err != nil {
				return nil, err
			}
			break
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func candidatePaths() []string {
	paths := []string{
		"mudra.yaml",
		filepath.Join("config", "mudra.yaml"),
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "mudra", "config.yaml"))
	}
	return paths
}

func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// applyEnv layers process environment overrides on top of the file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("ELEVENLABS_API_KEY"); v != "" {
		cfg.Speech.APIKey = v
	}
	if v := os.Getenv("ELEVENLABS_AGENT_ID"); v != "" {
		cfg.Speech.AgentID = v
	}
}

// Addr is the listen address derived from the configured port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
