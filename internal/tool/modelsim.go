package tool

import (
	"context"
	"fmt"
	"path/filepath"
)

// ModelSimTool is an RTL-only simulation flow: no synthesis, just vlog +
// vsim against the DUT and a minimal testbench binding its result port.
type ModelSimTool struct {
	Chat    bool
	VsimBin string // defaults to "vsim" when empty
}

func (t *ModelSimTool) Name() string { return "modelsim" }

func (t *ModelSimTool) vsimBin() string {
	if t.VsimBin != "" {
		return t.VsimBin
	}
	return "vsim"
}

func (t *ModelSimTool) Run(ctx context.Context, rtlPath, topName, workdir string) (ToolResult, error) {
	if _, err := writeTextFile(workdir, "tb.v", resultTestbench(topName, "result")); err != nil {
		return ToolResult{Success: false}, nil
	}

	runDo := fmt.Sprintf(
		"if { ![file exists work] } { vlib work }\n"+
			"vlog -sv -reportprogress 300 \"%s\"\n"+
			"vlog -sv tb.v\n"+
			"vsim -t 1ps work.tb\n"+
			"run -all\n"+
			"quit -f\n",
		rtlPath,
	)
	if _, err := writeTextFile(workdir, "run.do", runDo); err != nil {
		return ToolResult{Success: false}, nil
	}

	logPath := filepath.Join(workdir, "vsim_log.txt")
	args := []string{"-c", "-l", "vsim_log.txt", "-do", "do run.do"}
	if err := runCommand(ctx, workdir, logPath, t.Chat, t.vsimBin(), args...); err != nil {
		return ToolResult{Success: false, Log: logPath}, nil
	}

	v, err := scanForResult(logPath)
	if err != nil {
		return ToolResult{Success: false, Log: logPath}, nil
	}
	return ToolResult{Success: true, Value: v, Log: logPath}, nil
}

var _ Tool = (*ModelSimTool)(nil)
