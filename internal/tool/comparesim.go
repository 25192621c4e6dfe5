package tool

import (
	"context"
	"fmt"
	"path/filepath"
)

// CompareSimTool composes IcarusTool and ModelSimTool, running both
// against the same RTL and requiring their observed values to agree. It
// never consults an external oracle; its own success/failure already
// encodes that agreement, which is why the orchestrator special-cases its
// name to skip oracle comparison.
type CompareSimTool struct {
	Icarus   IcarusTool
	ModelSim ModelSimTool
}

func NewCompareSimTool(chat bool) *CompareSimTool {
	return &CompareSimTool{
		Icarus:   IcarusTool{Chat: chat},
		ModelSim: ModelSimTool{Chat: chat},
	}
}

func (t *CompareSimTool) Name() string { return CompareSimName }

func (t *CompareSimTool) Run(ctx context.Context, rtlPath, topName, workdir string) (ToolResult, error) {
	icarusDir := filepath.Join(workdir, "icarus")
	rI, _ := t.Icarus.Run(ctx, rtlPath, topName, icarusDir)

	modelsimDir := filepath.Join(workdir, "modelsim")
	rM, _ := t.ModelSim.Run(ctx, rtlPath, topName, modelsimDir)

	if !rI.Success || !rM.Success {
		v := rI.Value
		if !rI.Success {
			v = rM.Value
		}
		return ToolResult{
			Success: false,
			Value:   v,
			Log:     fmt.Sprintf("icarus=%s modelsim=%s", rI.Log, rM.Log),
		}, nil
	}

	if rI.Value != rM.Value {
		return ToolResult{
			Success: false,
			Value:   rI.Value,
			Log:     fmt.Sprintf("mismatch: icarus=0x%08x modelsim=0x%08x", rI.Value, rM.Value),
		}, nil
	}

	return ToolResult{Success: true, Value: rI.Value}, nil
}

var _ Tool = (*CompareSimTool)(nil)
