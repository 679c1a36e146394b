package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vancomm/crystal-levels/internal/level"
)

// Profile holds the tunable generator settings.
type Profile struct {
	Passes      int           `yaml:"passes"`
	MaxAttempts int           `yaml:"max_attempts"`
	Timeout     time.Duration `yaml:"timeout"`
	Depot       DepotProfile  `yaml:"depot"`
}

type DepotProfile struct {
	// BlockChance is the odds of a depot cell becoming a movable block.
	BlockChance float64 `yaml:"block_chance"`
	// WallChance applies to cells that did not become a block.
	WallChance float64 `yaml:"wall_chance"`
}

func DefaultProfile() *Profile {
	opts := level.DefaultOptions()
	return &Profile{
		Passes:      opts.Passes,
		MaxAttempts: opts.MaxAttempts,
		Timeout:     10 * time.Second,
		Depot: DepotProfile{
			BlockChance: opts.DepotBlockChance,
			WallChance:  opts.DepotWallChance,
		},
	}
}

// LoadProfile reads a YAML profile over the defaults. A missing file is not
// an error.
func LoadProfile(path string) (*Profile, error) {
	profile := DefaultProfile()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return profile, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("unable to parse profile %s: %w", path, err)
	}

	return profile, profile.Validate()
}

func (p *Profile) Validate() error {
	if p.Passes < 0 {
		return fmt.Errorf("passes must not be negative")
	}
	for name, v := range map[string]float64{
		"depot.block_chance": p.Depot.BlockChance,
		"depot.wall_chance":  p.Depot.WallChance,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %v", name, v)
		}
	}
	return nil
}

func (p *Profile) Options() level.Options {
	return level.Options{
		Passes:           p.Passes,
		MaxAttempts:      p.MaxAttempts,
		Timeout:          p.Timeout,
		DepotBlockChance: p.Depot.BlockChance,
		DepotWallChance:  p.Depot.WallChance,
	}
}

// NewGenerator loads LEVELGEN_PROFILE if set and applies the
// LEVELGEN_MAX_ATTEMPTS and LEVELGEN_TIMEOUT overrides.
func NewGenerator() (*Profile, error) {
	profile := DefaultProfile()
	if path, ok := os.LookupEnv("LEVELGEN_PROFILE"); ok {
		var err error
		if profile, err = LoadProfile(path); err != nil {
			return nil, err
		}
	}

	maxAttempts, err := lookupInt("LEVELGEN_MAX_ATTEMPTS", profile.MaxAttempts)
	if err != nil {
		return nil, fmt.Errorf("unable to parse LEVELGEN_MAX_ATTEMPTS: %w", err)
	}
	profile.MaxAttempts = maxAttempts

	timeout, err := lookupDuration("LEVELGEN_TIMEOUT", profile.Timeout)
	if err != nil {
		return nil, fmt.Errorf("unable to parse LEVELGEN_TIMEOUT: %w", err)
	}
	profile.Timeout = timeout

	return profile, nil
}
