package config

import (
	"fmt"
	"os"
	"time"

	"github.com/san-kum/dynscene/internal/clock"
	"github.com/san-kum/dynscene/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultScenario   = "squares"
	DefaultStep       = 0.1
	DefaultMultiplier = 1.0
	DefaultRange      = "clamped"
	DefaultLogLevel   = "info"
	DefaultTheme      = "default"
	DefaultDataDir    = ".dynscene"
)

type Config struct {
	Scenario string `yaml:"scenario"`
	// Step and Duration are in seconds. A zero duration defers to the
	// scenario's own length.
	Step       float64      `yaml:"step"`
	Duration   float64      `yaml:"duration"`
	Multiplier float64      `yaml:"multiplier"`
	Range      string       `yaml:"range"`
	LogLevel   string       `yaml:"log_level"`
	DataDir    string       `yaml:"data_dir"`
	Theme      string       `yaml:"theme"`
	Random     RandomConfig `yaml:"random"`
}

// RandomConfig is used when Scenario is "random".
type RandomConfig struct {
	Objects int     `yaml:"objects"`
	Moving  float64 `yaml:"moving"`
	Churn   int     `yaml:"churn"`
	Seed    int64   `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:   DefaultScenario,
		Step:       DefaultStep,
		Multiplier: DefaultMultiplier,
		Range:      DefaultRange,
		LogLevel:   DefaultLogLevel,
		DataDir:    DefaultDataDir,
		Theme:      DefaultTheme,
		Random: RandomConfig{
			Objects: 100,
			Moving:  0.25,
			Churn:   20,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Scenario == "" {
		return fmt.Errorf("scenario is required")
	}
	if c.Step <= 0 {
		return fmt.Errorf("step must be positive, got %v", c.Step)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %v", c.Duration)
	}
	if c.Multiplier <= 0 {
		return fmt.Errorf("multiplier must be positive, got %v", c.Multiplier)
	}
	if _, err := clock.ParseRange(c.Range); err != nil {
		return err
	}
	return nil
}

// SimConfig converts the run settings. scenarioDuration is used when no
// duration is configured.
func (c *Config) SimConfig(scenarioDuration time.Duration) (sim.Config, error) {
	if err := c.Validate(); err != nil {
		return sim.Config{}, err
	}
	rng, _ := clock.ParseRange(c.Range)
	d := seconds(c.Duration)
	if d == 0 {
		d = scenarioDuration
	}
	cfg := sim.Config{
		Step:       seconds(c.Step),
		Duration:   d,
		Multiplier: c.Multiplier,
		Range:      rng,
	}
	return cfg, cfg.Validate()
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
