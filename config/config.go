package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/esimov/ascii-fountain/fountain"
)

// Config holds the process settings.
type Config struct {
	// Server
	Serve   bool
	Address string
	Prefix  string
	Root    string

	// Front-ends
	Headless bool
	LogFile  string
	Cascade  string
	Frames   int
	Tick     time.Duration

	// Simulation
	Seed      int64
	Particles int
	EmitterX  float64
	EmitterZ  float64
	Mirror    bool
	MirrorX   float64
	MirrorZ   float64
	Gravity   float64
	Power     float64
	Spread    float64
	FadeSpeed float64
	Size      float64
}

// Load reads an optional .env file, the FOUNTAIN_* environment variables and
// finally the command line flags in args, each overriding the previous one.
func Load(args []string) (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: reading .env: %w", err)
	}

	def := fountain.DefaultParams()
	mirror := fountain.DefaultMirror()
	cfg := &Config{
		Serve:   getEnvBool("FOUNTAIN_SERVE", false),
		Address: getEnv("FOUNTAIN_ADDRESS", "localhost:5000"),
		Prefix:  getEnv("FOUNTAIN_PREFIX", "/"),
		Root:    getEnv("FOUNTAIN_ROOT", "web"),

		Headless: getEnvBool("FOUNTAIN_HEADLESS", false),
		LogFile:  getEnv("FOUNTAIN_LOG", "debug.log"),
		Cascade:  getEnv("FOUNTAIN_CASCADE", ""),
		Frames:   getEnvInt("FOUNTAIN_FRAMES", 0),
		Tick:     getEnvDuration("FOUNTAIN_TICK", fountain.DefaultInterval),

		Seed:      int64(getEnvInt("FOUNTAIN_SEED", 0)),
		Particles: getEnvInt("FOUNTAIN_PARTICLES", fountain.DefaultCapacity),
		EmitterX:  getEnvFloat("FOUNTAIN_EMITTER_X", 0),
		EmitterZ:  getEnvFloat("FOUNTAIN_EMITTER_Z", 0),
		Mirror:    getEnvBool("FOUNTAIN_MIRROR", mirror.Enabled),
		MirrorX:   getEnvFloat("FOUNTAIN_MIRROR_X", float64(mirror.Offset.X())),
		MirrorZ:   getEnvFloat("FOUNTAIN_MIRROR_Z", float64(mirror.Offset.Z())),
		Gravity:   getEnvFloat("FOUNTAIN_GRAVITY", float64(def.Gravity)),
		Power:     getEnvFloat("FOUNTAIN_POWER", float64(def.Power)),
		Spread:    getEnvFloat("FOUNTAIN_SPREAD", float64(def.Spread)),
		FadeSpeed: getEnvFloat("FOUNTAIN_FADE", float64(def.FadeSpeed)),
		Size:      getEnvFloat("FOUNTAIN_SIZE", float64(def.ParticleSize)),
	}

	fs := flag.NewFlagSet("fountain", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.BoolVar(&cfg.Serve, "serve", cfg.Serve, "stream frames over websocket")
	fs.StringVar(&cfg.Address, "a", cfg.Address, "address to serve (host:port)")
	fs.StringVar(&cfg.Prefix, "p", cfg.Prefix, "prefix path under")
	fs.StringVar(&cfg.Root, "r", cfg.Root, "root path to serve")
	fs.BoolVar(&cfg.Headless, "headless", cfg.Headless, "run without the terminal front-end")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "log file used while the terminal is active")
	fs.StringVar(&cfg.Cascade, "cascade", cfg.Cascade, "pigo facefinder cascade steering the emitter")
	fs.IntVar(&cfg.Frames, "frames", cfg.Frames, "stop after that many frames (0 runs forever)")
	fs.DurationVar(&cfg.Tick, "tick", cfg.Tick, "frame interval")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 seeds from the clock)")
	fs.IntVar(&cfg.Particles, "particles", cfg.Particles, "number of particles")
	fs.Float64Var(&cfg.EmitterX, "x", cfg.EmitterX, "emitter x")
	fs.Float64Var(&cfg.EmitterZ, "z", cfg.EmitterZ, "emitter z")
	fs.BoolVar(&cfg.Mirror, "mirror", cfg.Mirror, "draw the mirrored fountain")
	fs.Float64Var(&cfg.MirrorX, "mirror-x", cfg.MirrorX, "mirror offset x")
	fs.Float64Var(&cfg.MirrorZ, "mirror-z", cfg.MirrorZ, "mirror offset z")
	fs.Float64Var(&cfg.Gravity, "gravity", cfg.Gravity, "gravity acceleration")
	fs.Float64Var(&cfg.Power, "power", cfg.Power, "fountain power")
	fs.Float64Var(&cfg.Spread, "spread", cfg.Spread, "horizontal spread")
	fs.Float64Var(&cfg.FadeSpeed, "fade", cfg.FadeSpeed, "fade speed")
	fs.Float64Var(&cfg.Size, "size", cfg.Size, "particle size")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("config: particles must be positive, got %d", c.Particles)
	}
	if c.Tick <= 0 {
		return fmt.Errorf("config: tick must be positive, got %s", c.Tick)
	}
	if c.Frames < 0 {
		return fmt.Errorf("config: frames must not be negative, got %d", c.Frames)
	}
	if c.Headless && !c.Serve && c.Frames == 0 {
		return errors.New("config: headless mode needs -serve or -frames")
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Params returns the simulation parameters.
func (c *Config) Params() fountain.Params {
	return fountain.Params{
		Gravity:      float32(c.Gravity),
		Power:        float32(c.Power),
		Spread:       float32(c.Spread),
		FadeSpeed:    float32(c.FadeSpeed),
		ParticleSize: float32(c.Size),
	}
}

// Options returns the simulation options; src may be nil.
func (c *Config) Options(src fountain.Source) fountain.Options {
	opts := fountain.Options{
		Capacity: c.Particles,
		Params:   c.Params(),
		Source:   src,
	}
	opts.Emitter[0], opts.Emitter[2] = float32(c.EmitterX), float32(c.EmitterZ)
	opts.Mirror.Enabled = c.Mirror
	opts.Mirror.Offset[0], opts.Mirror.Offset[2] = float32(c.MirrorX), float32(c.MirrorZ)
	return opts
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
