package tool

import (
	"context"
	"fmt"
	"path/filepath"
)

const quartusProject = "veri_synth_proj"

// quartusSynthesiser drives the low-level Quartus Prime (Cyclone V) flow:
// project creation, fit, EDA netlist export, then a ModelSim run against
// the exported gate-level netlist.
type quartusSynthesiser struct {
	dir  string
	chat bool
	root string
}

func (q *quartusSynthesiser) quartusRoot() string {
	if q.root != "" {
		return q.root
	}
	return quartusRoot
}

func (q *quartusSynthesiser) writeTcl(rtlPath, topName string) (string, error) {
	tcl := fmt.Sprintf(
		"project_new %s -overwrite\n"+
			"set_global_assignment -name FAMILY \"Cyclone V\"\n"+
			"set_global_assignment -name TOP_LEVEL_ENTITY %s\n"+
			"set_global_assignment -name VERILOG_FILE \"%s\"\n"+
			"load_package flow\nexecute_module -tool map\nproject_close\n",
		quartusProject, topName, rtlPath,
	)
	return writeTextFile(q.dir, "synth.tcl", tcl)
}

func (q *quartusSynthesiser) runQuartus(ctx context.Context) error {
	if err := runCommand(ctx, q.dir, filepath.Join(q.dir, "quartus_sh.log"), q.chat, "quartus_sh", "-t", "synth.tcl"); err != nil {
		return err
	}
	return runCommand(ctx, q.dir, filepath.Join(q.dir, "quartus_fit.log"), q.chat, "quartus_fit", quartusProject)
}

func (q *quartusSynthesiser) exportVo(ctx context.Context) error {
	return runCommand(ctx, q.dir, filepath.Join(q.dir, "quartus_eda.log"), q.chat, "quartus_eda",
		"--simulation=on", "--tool=modelsim", "--format=verilog", quartusProject)
}

func (q *quartusSynthesiser) writeTB(topName string) (string, error) {
	return writeTextFile(q.dir, "tb.v", resultTestbench(topName, "result"))
}

func (q *quartusSynthesiser) writeDo() (string, error) {
	do := fmt.Sprintf(
		"set QUARTUS \"%s\"\n"+
			"if { ![file exists work] } { vlib work }\n"+
			"vmap altera work\n"+
			"vlog -reportprogress 300 \\\n"+
			"  $QUARTUS/eda/sim_lib/altera_primitives.v \\\n"+
			"  $QUARTUS/eda/sim_lib/altera_mf.v \\\n"+
			"  $QUARTUS/eda/sim_lib/220model.v \\\n"+
			"  $QUARTUS/eda/sim_lib/sgate.v \\\n"+
			"  $QUARTUS/eda/sim_lib/cyclonev_atoms.v\n"+
			"vlog \"simulation/modelsim/%s.vo\"\n"+
			"vlog tb.v\nvsim -t 1ps work.tb\nrun -all\nquit -f\n",
		q.quartusRoot(), quartusProject,
	)
	return writeTextFile(q.dir, "run.do", do)
}

func (q *quartusSynthesiser) runModelSim(ctx context.Context) (uint32, string, error) {
	logPath := filepath.Join(q.dir, "vsim_log.txt")
	if err := runCommand(ctx, q.dir, logPath, q.chat, "vsim", "-c", "-l", "vsim_log.txt", "-do", "do run.do"); err != nil {
		return 0, logPath, err
	}
	v, err := scanForResult(logPath)
	return v, logPath, err
}

const quartusRoot = "/opt/intelFPGA/18.1/quartus"

// QuartusTool runs the standard Cyclone V synthesis + gate-level
// ModelSim simulation flow.
type QuartusTool struct {
	Chat bool
	Root string
}

func (t *QuartusTool) Name() string { return "quartus" }

func (t *QuartusTool) Run(ctx context.Context, rtlPath, topName, workdir string) (ToolResult, error) {
	q := &quartusSynthesiser{dir: workdir, chat: t.Chat, root: t.Root}

	if _, err := q.writeTcl(rtlPath, topName); err != nil {
		return ToolResult{Success: false}, nil
	}
	if err := q.runQuartus(ctx); err != nil {
		return ToolResult{Success: false, Log: filepath.Join(workdir, "quartus_fit.log")}, nil
	}
	if err := q.exportVo(ctx); err != nil {
		return ToolResult{Success: false, Log: filepath.Join(workdir, "quartus_eda.log")}, nil
	}
	if _, err := q.writeTB(topName); err != nil {
		return ToolResult{Success: false}, nil
	}
	if _, err := q.writeDo(); err != nil {
		return ToolResult{Success: false}, nil
	}

	v, logPath, err := q.runModelSim(ctx)
	if err != nil {
		return ToolResult{Success: false, Log: logPath}, nil
	}
	return ToolResult{Success: true, Value: v, Log: logPath}, nil
}

var _ Tool = (*QuartusTool)(nil)
