package tool

import (
	"context"
	"path/filepath"
)

// IcarusTool compiles the DUT and a minimal testbench with iverilog and
// runs the result with vvp.
type IcarusTool struct {
	Chat bool
}

func (t *IcarusTool) Name() string { return "icarus" }

func (t *IcarusTool) Run(ctx context.Context, rtlPath, topName, workdir string) (ToolResult, error) {
	tbPath, err := writeTextFile(workdir, "tb.v", resultTestbench(topName, "result"))
	if err != nil {
		return ToolResult{Success: false}, nil
	}

	ivlLog := filepath.Join(workdir, "iverilog.log")
	vvpBin := filepath.Join(workdir, "sim.vvp")
	if err := runCommand(ctx, workdir, ivlLog, t.Chat, "iverilog",
		"-g2012", "-o", vvpBin, "-s", "tb", rtlPath, tbPath); err != nil {
		return ToolResult{Success: false, Log: ivlLog}, nil
	}

	vvpOut := filepath.Join(workdir, "vvp_out.txt")
	if err := runCommand(ctx, workdir, vvpOut, t.Chat, "vvp", vvpBin); err != nil {
		return ToolResult{Success: false, Log: vvpOut}, nil
	}

	v, err := scanForResult(vvpOut)
	if err != nil {
		return ToolResult{Success: false, Log: vvpOut}, nil
	}
	return ToolResult{Success: true, Value: v, Log: vvpOut}, nil
}

var _ Tool = (*IcarusTool)(nil)
