package tool

import (
	"context"
	"fmt"
	"path/filepath"
)

const quartusProRoot = "/opt/altera/18.1/quartus"

// defaultQuestaBin is the Questa vsim binary the Pro flow uses in place
// of plain ModelSim, since Arria 10 simulation libraries require it.
const defaultQuestaBin = "vsim"

// quartusProSynthesiser mirrors quartusSynthesiser for the Arria
// 10-class Quartus Prime Pro flow, which targets Questa instead of
// ModelSim.
type quartusProSynthesiser struct {
	dir       string
	chat      bool
	questaBin string
	root      string
}

func (q *quartusProSynthesiser) quartusProRoot() string {
	if q.root != "" {
		return q.root
	}
	return quartusProRoot
}

func (q *quartusProSynthesiser) writeTcl(rtlPath, topName string) (string, error) {
	tcl := fmt.Sprintf(
		"project_new %s -overwrite\n"+
			"set_global_assignment -name FAMILY \"Arria 10\"\n"+
			"set_global_assignment -name TOP_LEVEL_ENTITY %s\n"+
			"set_global_assignment -name VERILOG_FILE \"%s\"\n"+
			"load_package flow\nexecute_module -tool map\nproject_close\n",
		quartusProject, topName, rtlPath,
	)
	return writeTextFile(q.dir, "synth.tcl", tcl)
}

func (q *quartusProSynthesiser) runQuartus(ctx context.Context) error {
	bin := filepath.Join(q.quartusProRoot(), "bin", "quartus_sh")
	return runCommand(ctx, q.dir, filepath.Join(q.dir, "quartus_sh.log"), q.chat, bin, "-t", "synth.tcl")
}

func (q *quartusProSynthesiser) exportVo(ctx context.Context) error {
	bin := filepath.Join(q.quartusProRoot(), "bin", "quartus_eda")
	return runCommand(ctx, q.dir, filepath.Join(q.dir, "quartus_eda.log"), q.chat, bin,
		"--simulation", "--tool=modelsim", "--format=verilog", quartusProject)
}

func (q *quartusProSynthesiser) writeTB(topName string) (string, error) {
	return writeTextFile(q.dir, "tb.v", resultTestbench(topName, "result"))
}

func (q *quartusProSynthesiser) writeDo() (string, error) {
	bin := q.questaBin
	if bin == "" {
		bin = defaultQuestaBin
	}
	do := fmt.Sprintf(
		"set QUARTUS \"%s\"\n"+
			"if { ![file exists work] } { vlib work }\n"+
			"vmap altera work\n"+
			"vlog -reportprogress 300 \\\n"+
			"  $QUARTUS/eda/sim_lib/altera_primitives.v \\\n"+
			"  $QUARTUS/eda/sim_lib/altera_mf.v \\\n"+
			"  $QUARTUS/eda/sim_lib/220model.v \\\n"+
			"  $QUARTUS/eda/sim_lib/sgate.v \\\n"+
			"  $QUARTUS/eda/sim_lib/twentynm_atoms.v\n"+
			"vlog \"simulation/modelsim/%s.vo\"\n"+
			"vlog tb.v\n%s -c -t 1ps work.tb\nrun -all\nquit -f\n",
		q.quartusProRoot(), quartusProject, bin,
	)
	return writeTextFile(q.dir, "run.do", do)
}

func (q *quartusProSynthesiser) runModelSim(ctx context.Context) (uint32, string, error) {
	bin := q.questaBin
	if bin == "" {
		bin = defaultQuestaBin
	}
	logPath := filepath.Join(q.dir, "vsim_log.txt")
	if err := runCommand(ctx, q.dir, logPath, q.chat, bin, "-c", "-l", "vsim_log.txt", "-do", "do run.do"); err != nil {
		return 0, logPath, err
	}
	v, err := scanForResult(logPath)
	return v, logPath, err
}

// QuartusProTool runs the Arria 10-class synthesis flow simulated with
// Questa rather than plain ModelSim.
type QuartusProTool struct {
	Chat      bool
	QuestaBin string
	Root      string
}

func (t *QuartusProTool) Name() string { return "quartuspro" }

func (t *QuartusProTool) Run(ctx context.Context, rtlPath, topName, workdir string) (ToolResult, error) {
	q := &quartusProSynthesiser{dir: workdir, chat: t.Chat, questaBin: t.QuestaBin, root: t.Root}

	if _, err := q.writeTcl(rtlPath, topName); err != nil {
		return ToolResult{Success: false}, nil
	}
	if err := q.runQuartus(ctx); err != nil {
		return ToolResult{Success: false, Log: filepath.Join(workdir, "quartus_sh.log")}, nil
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

var _ Tool = (*QuartusProTool)(nil)
