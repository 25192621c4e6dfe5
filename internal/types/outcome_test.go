package types

import (
	"testing"

	"vdiff/internal/tool"
)

func TestIterationOutcomePass(t *testing.T) {
	o := NewIterationOutcome(0, "session/00000", 0x42)
	o.RecordTool("icarus", tool.ToolResult{Success: true, Value: 0x42}, false)
	if o.Classification != tool.Pass {
		t.Fatalf("got %v, want Pass", o.Classification)
	}
}

func TestIterationOutcomeMismatchThenCrashEscalates(t *testing.T) {
	o := NewIterationOutcome(1, "session/00001", 0x42)
	o.RecordTool("icarus", tool.ToolResult{Success: true, Value: 0x41}, false)
	if o.Classification != tool.Mismatch {
		t.Fatalf("got %v, want Mismatch", o.Classification)
	}
	o.RecordTool("vivado", tool.ToolResult{Success: false}, false)
	if o.Classification != tool.Crash {
		t.Fatalf("got %v, want Crash after a crashing tool is recorded", o.Classification)
	}
}

func TestIterationOutcomeCompareSimIgnoresOracle(t *testing.T) {
	o := NewIterationOutcome(2, "session/00002", 0x42)
	o.RecordTool(tool.CompareSimName, tool.ToolResult{Success: true, Value: 0x99}, false)
	if o.Classification != tool.Pass {
		t.Fatalf("CompareSim success must not be compared to oracle, got %v", o.Classification)
	}
}
