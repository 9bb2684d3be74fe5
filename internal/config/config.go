package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"atc-ground/internal/game/ground"

	"github.com/joho/godotenv"
)

// Config is the runtime configuration of the ground simulation. Values come
// from the defaults, then a .env file, then the process environment.
type Config struct {
	LogLevel    string
	LogFile     string
	MetricsAddr string

	TickRate      float64 // ticks per simulated second
	SpawnInterval time.Duration
	MaxAircraft   int // per airport
	Seed          int64

	Ground ground.Config
}

func Default() Config {
	return Config{
		LogLevel:      "info",
		TickRate:      1,
		SpawnInterval: 90 * time.Second,
		MaxAircraft:   6,
		Seed:          1,
		Ground:        ground.DefaultConfig(),
	}
}

// Load reads the given .env files (".env" when none are named) and applies the
// ATC_GROUND_* environment variables on top of the defaults. A missing .env
// file is not an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading env file: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a configuration from the variables returned by lookup.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	p := parser{lookup: lookup}

	p.str("ATC_GROUND_LOG_LEVEL", &c.LogLevel)
	p.str("ATC_GROUND_LOG_FILE", &c.LogFile)
	p.str("ATC_GROUND_METRICS_ADDR", &c.MetricsAddr)
	p.float("ATC_GROUND_TICK_RATE", &c.TickRate)
	p.duration("ATC_GROUND_SPAWN_INTERVAL", &c.SpawnInterval)
	p.int("ATC_GROUND_MAX_AIRCRAFT", &c.MaxAircraft)
	p.int64("ATC_GROUND_SEED", &c.Seed)

	p.duration("ATC_GROUND_HOLD_COOLDOWN", &c.Ground.HoldCooldown)
	p.duration("ATC_GROUND_TAXI_CLEARANCE_COOLDOWN", &c.Ground.TaxiClearanceCooldown)
	p.duration("ATC_GROUND_JUNCTION_LEAD", &c.Ground.JunctionLead)
	p.float("ATC_GROUND_HOLD_DISTANCE_FACTOR", &c.Ground.HoldDistanceFactor)
	p.bool("ATC_GROUND_FLAG_CIRCULAR_WAITS", &c.Ground.FlagCircularWaits)

	if p.err != nil {
		return Config{}, p.err
	}
	if c.TickRate <= 0 {
		return Config{}, fmt.Errorf("ATC_GROUND_TICK_RATE: %w", ErrNotPositive)
	}
	return c, nil
}

var ErrNotPositive = errors.New("value must be positive")

// parser keeps the first error so that the caller can check once.
type parser struct {
	lookup func(string) (string, bool)
	err    error
}

func (p *parser) get(key string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	v, ok := p.lookup(key)
	return v, ok && v != ""
}

func (p *parser) fail(key string, err error) {
	p.err = fmt.Errorf("%s: %w", key, err)
}

func (p *parser) str(key string, dst *string) {
	if v, ok := p.get(key); ok {
		*dst = v
	}
}

func (p *parser) float(key string, dst *float64) {
	if v, ok := p.get(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = f
	}
}

func (p *parser) int(key string, dst *int) {
	if v, ok := p.get(key); ok {
		i, err := strconv.Atoi(v)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = i
	}
}

func (p *parser) int64(key string, dst *int64) {
	if v, ok := p.get(key); ok {
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = i
	}
}

func (p *parser) bool(key string, dst *bool) {
	if v, ok := p.get(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = b
	}
}

func (p *parser) duration(key string, dst *time.Duration) {
	if v, ok := p.get(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = d
	}
}
