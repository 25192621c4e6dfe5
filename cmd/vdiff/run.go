package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"vdiff/config"
	"vdiff/internal/ast"
	"vdiff/internal/hiergen"
	"vdiff/internal/loopgen"
	"vdiff/internal/session"
	"vdiff/internal/store"
	"vdiff/internal/tool"
	"vdiff/internal/types"
)

// RunParams is the object graph Execute needs, assembled by fx at
// startup the way cmd/b3fuzz wires its scheduler's dependencies.
type RunParams struct {
	fx.In

	Opts   *Options
	Config *config.AppConfig
	Logger *zap.Logger
	Store  *store.OutcomeStore
}

// generated is one iteration's design: its Verilog text, the oracle's
// expected value, and the top module name the testbench must bind.
type generated struct {
	Verilog string
	Oracle  uint32
	TopName string
}

func generate(p RunParams, seed int64) (*generated, error) {
	o := p.Opts
	if o.UseHier {
		r, err := hiergen.Generate(hiergen.Config{
			Seed:         seed,
			Depth:        o.Depth,
			MinChild:     o.MinChild,
			MaxChild:     o.MaxChild,
			RootPrefix:   o.RootPrefix,
			RelativeUp:   o.RelativeUp,
			Defparam:     o.Defparam,
			Alias:        o.Alias,
			EnableBigGen: o.IncludeGen,
			BigGenProb:   o.GenProb,
		})
		if err != nil {
			return nil, err
		}
		return &generated{Verilog: r.Verilog, Oracle: r.Oracle, TopName: r.TopName}, nil
	}

	r, err := loopgen.Generate(loopgen.Config{
		Seed:         seed,
		MinStart:     o.MinStart,
		MaxStart:     o.MaxStart,
		MinIter:      o.MinIter,
		MaxIter:      o.MaxIter,
		RandomUpdate: o.RandomUpdate,
		Depth:        o.Depth,
	})
	if err != nil {
		return nil, err
	}
	return &generated{Verilog: r.Verilog, Oracle: r.Oracle, TopName: r.TopName}, nil
}

// backendsFor returns the tools dispatched for selector (spec.md's
// -t/--tool 1..6). 0 means unset: Icarus is the cheapest backend to have
// installed, so it is the fallback rather than one fixed universal
// default.
func backendsFor(selector int, cfg *config.AppConfig, chat bool) []tool.Tool {
	switch selector {
	case 1:
		return []tool.Tool{&tool.QuartusTool{Chat: chat, Root: cfg.QuartusRoot}}
	case 2:
		return []tool.Tool{&tool.QuartusProTool{Chat: chat, Root: cfg.QuartusProRoot, QuestaBin: cfg.QuestaBin}}
	case 3:
		return []tool.Tool{&tool.VivadoTool{Chat: chat, Bin: cfg.VivadoBin}}
	case 5:
		return []tool.Tool{&tool.ModelSimTool{Chat: chat, VsimBin: cfg.QuestaBin}}
	case 6:
		return []tool.Tool{tool.NewCompareSimTool(chat)}
	default:
		return []tool.Tool{&tool.IcarusTool{Chat: chat}}
	}
}

// Execute drives the single-threaded generate/dispatch/classify loop and
// returns the process exit code spec.md §6 defines.
func Execute(p RunParams) int {
	o := p.Opts
	log := p.Logger

	if o.ConfigPath != "" {
		profile, err := config.LoadRunProfile(o.ConfigPath)
		if err != nil {
			log.Error("failed to load run profile", zap.Error(err))
			return 3
		}
		o.applyProfile(profile)
	}

	if !o.SeedSet {
		o.Seed = time.Now().UnixNano()
	}
	log.Info("starting run", zap.Int64("seed", o.Seed), zap.Int("iterations", o.Iterations), zap.Bool("hier", o.UseHier))

	if o.EmitFile != "" {
		return executeEmitOnly(p)
	}

	sess, err := session.New("build")
	if err != nil {
		log.Error("failed to create session", zap.Error(err))
		return 3
	}

	backends := backendsFor(o.Tool, p.Config, o.Chat)
	rng := rand.New(rand.NewSource(o.Seed))

	overall := tool.Pass
	for i := 0; i < o.Iterations; i++ {
		iterSeed := rng.Int63()
		iterDir, err := sess.Next()
		if err != nil {
			log.Error("failed to create iteration dir", zap.Error(err))
			return 3
		}

		gen, err := generate(p, iterSeed)
		if err != nil {
			var cfgErr *ast.ConfigError
			if errors.As(err, &cfgErr) {
				log.Error("generator precondition violated, aborting run", zap.Error(err), zap.Int("iteration", i))
			} else {
				log.Error("generator failed", zap.Error(err), zap.Int("iteration", i))
			}
			return 3
		}

		rtlPath := filepath.Join(iterDir, "original.v")
		if err := os.WriteFile(rtlPath, []byte(gen.Verilog), 0o644); err != nil {
			log.Error("failed to write generated RTL", zap.Error(err))
			return 3
		}

		outcome := types.NewIterationOutcome(i, iterDir, gen.Oracle)
		ctx := context.Background()
		for _, t := range backends {
			toolDir, err := session.ToolDir(iterDir, t.Name())
			if err != nil {
				log.Error("failed to create tool dir", zap.Error(err), zap.String("tool", t.Name()))
				return 3
			}
			watchCtx, cancelWatch := context.WithCancel(ctx)
			if aw, err := session.NewArtifactWatcher(watchCtx, log, toolDir, ""); err == nil {
				go func(toolName string) {
					if path, ok := <-aw.Found(); ok {
						log.Debug("backend produced first artifact", zap.String("tool", toolName), zap.String("path", path))
					}
				}(t.Name())
			}

			result, timedOut := tool.RunWithTimeout(ctx, p.Config.DefaultTimeout, t, rtlPath, gen.TopName, toolDir)
			cancelWatch()
			outcome.RecordTool(t.Name(), result, timedOut)
		}

		log.Info("iteration complete",
			zap.Int("iteration", i),
			zap.String("classification", outcome.Classification.String()),
			zap.Uint32("oracle", outcome.Oracle),
		)

		if p.Store != nil && outcome.Classification != tool.Pass {
			if err := p.Store.Persist(outcome, gen.Verilog); err != nil {
				log.Warn("failed to persist outcome", zap.Error(err))
			}
		}

		overall = tool.Dominant([]tool.Status{overall, outcome.Classification})
	}

	fmt.Fprintf(os.Stdout, "[done] %d iterations, worst outcome: %s (artifacts in %s)\n", o.Iterations, overall, sess.Dir())
	return tool.ExitCode(overall)
}

// executeEmitOnly honors --emit-file: generate designs and write them,
// without dispatching any backend. When more than one iteration is
// requested, every file (the first included) is numbered <stem>_NN<ext>,
// zero-padded to the session directory's width.
func executeEmitOnly(p RunParams) int {
	o := p.Opts
	rng := rand.New(rand.NewSource(o.Seed))

	ext := filepath.Ext(o.EmitFile)
	stem := o.EmitFile[:len(o.EmitFile)-len(ext)]

	for i := 0; i < o.Iterations; i++ {
		gen, err := generate(p, rng.Int63())
		if err != nil {
			var cfgErr *ast.ConfigError
			if errors.As(err, &cfgErr) {
				p.Logger.Error("generator precondition violated, aborting run", zap.Error(err))
			} else {
				p.Logger.Error("generator failed", zap.Error(err))
			}
			return 3
		}

		path := o.EmitFile
		if o.Iterations > 1 {
			path = fmt.Sprintf("%s_%05d%s", stem, i, ext)
		}
		if err := os.WriteFile(path, []byte(gen.Verilog), 0o644); err != nil {
			p.Logger.Error("failed to write emitted Verilog", zap.Error(err))
			return 3
		}
	}
	return 0
}
