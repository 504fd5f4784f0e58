// Package config holds the player's calibration constants and the few
// display and logging settings that may be overridden from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/ayusman/boardpose/internal/detector"
	"github.com/ayusman/boardpose/internal/pose"
)

// Defaults for the reference recording.
const (
	DefaultInput      = "20240331_185616.mp4"
	DefaultWindow     = "Pose Estimation (Chessboard)"
	DefaultKeyDelayMs = 10
	DefaultLogLevel   = "info"
)

// DefaultEnvFile is read by Load when no env file is named. It is optional.
const DefaultEnvFile = ".env"

// Environment variables read by Load.
const (
	EnvWindow     = "BOARDPOSE_WINDOW"
	EnvKeyDelayMs = "BOARDPOSE_KEY_DELAY_MS"
	EnvLogLevel   = "BOARDPOSE_LOG_LEVEL"
	EnvLogFile    = "BOARDPOSE_LOG_FILE"
	EnvRefine     = "BOARDPOSE_REFINE_CORNERS"
)

// Config is the complete player configuration.
type Config struct {
	Input string `validate:"required"`

	Intrinsics pose.Intrinsics
	Distortion pose.Distortion
	Board      detector.Board

	// RefineCorners enables sub-pixel corner refinement.
	RefineCorners bool

	Window     string `validate:"required"`
	KeyDelayMs int    `validate:"min=1,max=1000"`

	LogLevel string `validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFile  string
}

// Default returns the hard-coded calibration of the reference camera and
// board together with the default display settings.
func Default() Config {
	return Config{
		Input: DefaultInput,
		Intrinsics: pose.Intrinsics{
			Fx: 967.46860897,
			Fy: 982.20345148,
			Cx: 939.92739218,
			Cy: 535.37527144,
		},
		Distortion: pose.Distortion{
			K1: -0.00356998,
			K2: 0.01703314,
			P1: 0.00016152,
			P2: -0.00203757,
			K3: -0.01620528,
		},
		Board:         detector.DefaultBoard(),
		RefineCorners: true,
		Window:        DefaultWindow,
		KeyDelayMs:    DefaultKeyDelayMs,
		LogLevel:      DefaultLogLevel,
	}
}

// Load returns Default with overrides from env files and the process
// environment. Without arguments it reads DefaultEnvFile if it exists;
// files named explicitly must exist. Calibration values are never
// overridden.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", DefaultEnvFile, err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := Default()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvWindow); ok && v != "" {
		c.Window = v
	}
	if v, ok := lookup(EnvKeyDelayMs); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvKeyDelayMs, err)
		}
		c.KeyDelayMs = n
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvLogFile); ok {
		c.LogFile = v
	}
	if v, ok := lookup(EnvRefine); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRefine, err)
		}
		c.RefineCorners = b
	}
	return nil
}

var validate = validator.New()

// Validate checks the configuration, including the nested calibration and
// board values.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DetectorConfig returns the chessboard detector settings.
func (c Config) DetectorConfig() detector.Config {
	cfg := detector.DefaultConfig()
	cfg.Board = c.Board
	cfg.Refine = c.RefineCorners
	return cfg
}
