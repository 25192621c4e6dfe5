package tool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"vdiff/internal/utils"
)

// defaultVivadoBin is used when the VIVADO_BIN environment variable is
// unset, mirroring the compiled-in fallback the original tool used.
const defaultVivadoBin = "/opt/Xilinx/Vivado/2024.2/bin/vivado"

const vivadoPart = "xc7k70t"

// VivadoTool drives an out-of-context synthesis run followed by an
// xvlog/xelab/xsim elaborate-and-simulate flow.
type VivadoTool struct {
	Chat bool
	// Bin overrides the vivado executable path. Empty means fall back to
	// the VIVADO_BIN environment variable, then the compiled-in default.
	Bin string
}

func (t *VivadoTool) Name() string { return "vivado" }

func (t *VivadoTool) vivadoBin() string {
	if t.Bin != "" {
		return t.Bin
	}
	if v := os.Getenv("VIVADO_BIN"); v != "" {
		return v
	}
	return defaultVivadoBin
}

func (t *VivadoTool) Run(ctx context.Context, rtlPath, topName, workdir string) (ToolResult, error) {
	rtlCopy := filepath.Join(workdir, "dut.v")
	if err := utils.CopyFile(rtlPath, rtlCopy); err != nil {
		return ToolResult{Success: false}, nil
	}

	tbPath, err := writeTextFile(workdir, "tb.v", resultTestbench(topName, "result"))
	if err != nil {
		return ToolResult{Success: false}, nil
	}

	tcl := fmt.Sprintf(
		"set_param messaging.defaultLimit 0\n"+
			"create_project -in_memory -part %s\n"+
			"read_verilog {%s}\n"+
			"read_verilog {%s}\n"+
			"synth_design -mode out_of_context -top tb -part %s\n"+
			"write_checkpoint %s\n"+
			"quit\n",
		vivadoPart, rtlCopy, tbPath, vivadoPart, filepath.Join(workdir, "post_synth.dcp"),
	)
	tclPath, err := writeTextFile(workdir, "run.tcl", tcl)
	if err != nil {
		return ToolResult{Success: false}, nil
	}

	synthLog := filepath.Join(workdir, "vivado.log")
	_ = runCommand(ctx, workdir, synthLog, t.Chat, t.vivadoBin(), "-mode", "batch", "-nolog", "-nojournal", "-source", tclPath)

	xvlogLog := filepath.Join(workdir, "xvlog.log")
	if err := runCommand(ctx, workdir, xvlogLog, t.Chat, "xvlog", "dut.v", "tb.v"); err != nil {
		return ToolResult{Success: false, Log: xvlogLog}, nil
	}
	xelabLog := filepath.Join(workdir, "xelab.log")
	if err := runCommand(ctx, workdir, xelabLog, t.Chat, "xelab", "tb", "-s", "tb_sim"); err != nil {
		return ToolResult{Success: false, Log: xelabLog}, nil
	}
	simLog := filepath.Join(workdir, "xsim.log")
	if err := runCommand(ctx, workdir, simLog, t.Chat, "xsim", "tb_sim", "-runall"); err != nil {
		return ToolResult{Success: false, Log: simLog}, nil
	}

	v, err := scanForResult(simLog)
	if err != nil {
		return ToolResult{Success: false, Log: simLog}, nil
	}
	return ToolResult{Success: true, Value: v, Log: simLog}, nil
}

var _ Tool = (*VivadoTool)(nil)
