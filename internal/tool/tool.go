// Package tool defines the polymorphic EDA backend contract, the
// per-backend watchdog, and the outcome classifier. Each backend prepares
// a per-iteration working directory, drives vendor executables as
// subprocesses, and parses their transcripts for a 32-bit result.
package tool

import "context"

// ToolResult is the one-shot outcome of a single Tool.Run call.
// Success=false denotes tool failure (non-zero exit, missing result line,
// parse error); Value is meaningful only when Success is true.
type ToolResult struct {
	Success bool
	Value   uint32
	Log     string
}

// Tool is the common backend contract every EDA flow implements.
type Tool interface {
	// Run drives rtlPath (a self-contained Verilog file whose DUT is
	// named topName) through this backend inside workdir, which is
	// dedicated to this tool for this iteration.
	Run(ctx context.Context, rtlPath, topName, workdir string) (ToolResult, error)
	// Name is the short identifier used to build per-tool subdirectories
	// and to detect the CompareSim special case by identity.
	Name() string
}

// CompareSimName is the identity the orchestrator checks for to skip
// external-oracle comparison: CompareSim is a pure cross-simulator check.
const CompareSimName = "CompareSim"
