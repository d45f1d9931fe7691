package config

import "sort"

// Presets holds tuned run settings per bundled scenario.
var Presets = map[string]map[string]*Config{
	"squares": {
		"quick": {Scenario: "squares", Step: 1.0, Duration: 5.0, Multiplier: 1, Range: "clamped"},
	},
	"pulse": {
		"smooth": {Scenario: "pulse", Step: 0.05, Duration: 20.0, Multiplier: 1, Range: "clamped"},
		"loop":   {Scenario: "pulse", Step: 0.1, Duration: 60.0, Multiplier: 1, Range: "loop"},
	},
	"churn": {
		"coarse": {Scenario: "churn", Step: 1.0, Duration: 30.0, Multiplier: 1, Range: "clamped"},
		"slow":   {Scenario: "churn", Step: 0.1, Duration: 30.0, Multiplier: 0.5, Range: "clamped"},
	},
	"ellipses": {
		"drift": {Scenario: "ellipses", Step: 0.25, Duration: 20.0, Multiplier: 1, Range: "clamped"},
	},
	"random": {
		"small": {
			Scenario: "random", Step: 0.5, Duration: 30.0, Multiplier: 1, Range: "clamped",
			Random: RandomConfig{Objects: 25, Moving: 0.2, Churn: 10, Seed: 1},
		},
		"stress": {
			Scenario: "random", Step: 0.1, Duration: 60.0, Multiplier: 1, Range: "clamped",
			Random: RandomConfig{Objects: 2000, Moving: 0.3, Churn: 500, Seed: 42},
		},
	},
}

func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
