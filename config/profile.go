package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoopProfile mirrors loopgen.Config for YAML round-tripping, independent
// of the generator package so config has no dependency on internal/.
type LoopProfile struct {
	MinStart     int  `yaml:"min_start"`
	MaxStart     int  `yaml:"max_start"`
	MinIter      int  `yaml:"min_iter"`
	MaxIter      int  `yaml:"max_iter"`
	RandomUpdate bool `yaml:"random_update"`
	Depth        int  `yaml:"depth"`
}

// HierProfile mirrors hiergen.Config for YAML round-tripping.
type HierProfile struct {
	Depth        int     `yaml:"depth"`
	MinChild     int     `yaml:"min_child"`
	MaxChild     int     `yaml:"max_child"`
	RootPrefix   bool    `yaml:"root_prefix"`
	RelativeUp   bool    `yaml:"relative_up"`
	Defparam     bool    `yaml:"defparam"`
	Alias        bool    `yaml:"alias"`
	EnableBigGen bool    `yaml:"enable_big_gen"`
	BigGenProb   float64 `yaml:"big_gen_prob"`
}

// RunProfile is a YAML-checked-in bundle of generator and tool-selection
// configuration, letting a fixed fuzzing campaign be replayed with
// `vdiff --config campaign.yaml`.
type RunProfile struct {
	Seed       int64       `yaml:"seed"`
	Iterations int         `yaml:"iterations"`
	UseHier    bool        `yaml:"hier"`
	Loop       LoopProfile `yaml:"loop"`
	Hier       HierProfile `yaml:"hier_config"`
	Tools      []string    `yaml:"tools"`
	Chat       bool        `yaml:"chat"`
}

// LoadRunProfile reads and parses a YAML run profile from path.
func LoadRunProfile(path string) (*RunProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read run profile %s: %w", path, err)
	}
	var p RunProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config: parse run profile %s: %w", path, err)
	}
	return &p, nil
}
