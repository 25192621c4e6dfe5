package tool

import "testing"

func TestClassifyToolPass(t *testing.T) {
	s := ClassifyTool("icarus", ToolResult{Success: true, Value: 0x42}, false, 0x42)
	if s != Pass {
		t.Fatalf("got %v, want Pass", s)
	}
}

func TestClassifyToolMismatch(t *testing.T) {
	s := ClassifyTool("icarus", ToolResult{Success: true, Value: 0x41}, false, 0x42)
	if s != Mismatch {
		t.Fatalf("got %v, want Mismatch", s)
	}
}

func TestClassifyToolCrash(t *testing.T) {
	s := ClassifyTool("icarus", ToolResult{Success: false}, false, 0x42)
	if s != Crash {
		t.Fatalf("got %v, want Crash", s)
	}
}

func TestClassifyToolTimeout(t *testing.T) {
	s := ClassifyTool("icarus", ToolResult{}, true, 0x42)
	if s != Timeout {
		t.Fatalf("got %v, want Timeout", s)
	}
}

func TestClassifyToolCompareSimSkipsOracle(t *testing.T) {
	s := ClassifyTool(CompareSimName, ToolResult{Success: true, Value: 0x41}, false, 0x42)
	if s != Pass {
		t.Fatalf("CompareSim success must not be compared against oracle, got %v", s)
	}
}

func TestDominantCrashBeatsTimeoutBeatsMismatch(t *testing.T) {
	if Dominant([]Status{Mismatch, Timeout}) != Timeout {
		t.Fatalf("timeout must dominate mismatch")
	}
	if Dominant([]Status{Timeout, Crash, Mismatch}) != Crash {
		t.Fatalf("crash must dominate timeout and mismatch")
	}
	if Dominant(nil) != Pass {
		t.Fatalf("empty status list must be Pass")
	}
}

func TestExitCodeMapping(t *testing.T) {
	cases := map[Status]int{Pass: 0, Mismatch: 1, Timeout: 2, Crash: 3}
	for s, want := range cases {
		if got := ExitCode(s); got != want {
			t.Fatalf("ExitCode(%v) = %d, want %d", s, got, want)
		}
	}
}
