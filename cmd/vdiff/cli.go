package main

import (
	"github.com/spf13/cobra"

	"vdiff/config"
)

// Options holds every CLI-configurable per-run knob from the flag table,
// bound directly by cobra. ParseArgs starts from defaultOptions(), so the
// defaults are in place before Execute() overwrites anything the user
// passed.
type Options struct {
	Iterations int
	Seed       int64
	SeedSet    bool
	Tool       int
	Chat       bool
	UseHier    bool

	MinStart int
	MaxStart int
	MinIter  int
	MaxIter  int

	RandomUpdate bool

	Depth    int
	MinChild int
	MaxChild int

	RootPrefix bool
	RelativeUp bool
	Alias      bool
	Defparam   bool

	IncludeGen bool
	GenProb    float64

	EmitFile   string
	ConfigPath string
}

func defaultOptions() *Options {
	return &Options{
		Iterations:   1,
		MinIter:      2,
		MaxIter:      16,
		RandomUpdate: true,
		Depth:        2,
		MinChild:     2,
		MaxChild:     4,
		GenProb:      0.5,
	}
}

// ParseArgs parses args into Options. A nil Options and nil error means
// cobra already fully handled the invocation itself (e.g. --help) and
// the process should exit 0 without running anything.
func ParseArgs(args []string) (*Options, error) {
	opts := defaultOptions()
	var noRandUpdate bool
	ran := false

	cmd := &cobra.Command{
		Use:           "vdiff",
		Short:         "differential fuzzer for Verilog EDA toolchains",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ran = true
			opts.SeedSet = cmd.Flags().Changed("seed")
			if noRandUpdate {
				opts.RandomUpdate = false
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Iterations, "iter", "n", opts.Iterations, "iteration count")
	cmd.Flags().Int64VarP(&opts.Seed, "seed", "s", 0, "RNG seed (else OS entropy)")
	cmd.Flags().IntVarP(&opts.Tool, "tool", "t", 0, "backend selector 1..6 (Quartus, QuartusPro, Vivado, Icarus, ModelSim, CompareSim)")
	cmd.Flags().BoolVarP(&opts.Chat, "chat", "c", false, "echo subprocess stdout")
	cmd.Flags().BoolVar(&opts.UseHier, "hier", false, "select hierarchy generator instead of loop generator")

	cmd.Flags().IntVar(&opts.MinStart, "min-start", opts.MinStart, "loop generator minimum induction-variable start value")
	cmd.Flags().IntVar(&opts.MaxStart, "max-start", opts.MaxStart, "loop generator maximum induction-variable start value")
	cmd.Flags().IntVar(&opts.MinIter, "min-iter", opts.MinIter, "loop generator minimum per-level iteration count")
	cmd.Flags().IntVar(&opts.MaxIter, "max-iter", opts.MaxIter, "loop generator maximum per-level iteration count")
	cmd.Flags().BoolVar(&noRandUpdate, "no-rand-update", false, "disable randomized loop direction")

	cmd.Flags().IntVar(&opts.Depth, "depth", opts.Depth, "hierarchy depth")
	cmd.Flags().IntVar(&opts.MinChild, "min-child", opts.MinChild, "hierarchy minimum fanout")
	cmd.Flags().IntVar(&opts.MaxChild, "max-child", opts.MaxChild, "hierarchy maximum fanout")

	cmd.Flags().BoolVar(&opts.RootPrefix, "root-prefix", false, "use $root-absolute hierarchical names")
	cmd.Flags().BoolVar(&opts.RelativeUp, "relative-up", false, "use relative-up (..) hierarchical names")
	cmd.Flags().BoolVar(&opts.Alias, "alias", false, "emit alias escape-hatch statements")
	cmd.Flags().BoolVar(&opts.Defparam, "defparam", false, "override leaf values via defparam")

	cmd.Flags().BoolVar(&opts.IncludeGen, "include-gen", false, "embed a loop generator at hierarchy leaves")
	cmd.Flags().Float64Var(&opts.GenProb, "gen-prob", opts.GenProb, "probability of embedding a loop generator at a leaf")

	cmd.Flags().StringVar(&opts.EmitFile, "emit-file", "", "emit Verilog only, to this path (numbered when -n>1)")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "load a YAML RunProfile instead of flags")

	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return nil, err
	}
	if !ran {
		return nil, nil
	}
	return opts, nil
}

// toolSelectorByName maps a RunProfile's tool names to the same 1..6
// selector the -t/--tool flag uses, so a campaign file and a one-off
// flag invocation dispatch identically.
var toolSelectorByName = map[string]int{
	"quartus":    1,
	"quartuspro": 2,
	"vivado":     3,
	"icarus":     4,
	"modelsim":   5,
	"comparesim": 6,
}

// applyProfile overrides opts with everything a loaded RunProfile
// specifies, used when --config points at a campaign file.
func (o *Options) applyProfile(p *config.RunProfile) {
	o.Seed = p.Seed
	o.SeedSet = true
	o.Iterations = p.Iterations
	o.UseHier = p.UseHier
	o.Chat = p.Chat

	o.MinStart = p.Loop.MinStart
	o.MaxStart = p.Loop.MaxStart
	o.MinIter = p.Loop.MinIter
	o.MaxIter = p.Loop.MaxIter
	o.RandomUpdate = p.Loop.RandomUpdate

	if p.UseHier {
		o.Depth = p.Hier.Depth
	} else {
		o.Depth = p.Loop.Depth
	}
	o.MinChild = p.Hier.MinChild
	o.MaxChild = p.Hier.MaxChild
	o.RootPrefix = p.Hier.RootPrefix
	o.RelativeUp = p.Hier.RelativeUp
	o.Defparam = p.Hier.Defparam
	o.Alias = p.Hier.Alias
	o.IncludeGen = p.Hier.EnableBigGen
	o.GenProb = p.Hier.BigGenProb

	if len(p.Tools) > 0 {
		if sel, ok := toolSelectorByName[p.Tools[0]]; ok {
			o.Tool = sel
		}
	}
}
