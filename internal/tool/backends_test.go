package tool

import "testing"

func TestResultTestbenchUsesResultPort(t *testing.T) {
	tb := resultTestbench("gen_loop", "result")
	if !contains(tb, "gen_loop top(.result(res))") {
		t.Fatalf("testbench did not bind result port: %s", tb)
	}
	if !contains(tb, "RES=%08h") {
		t.Fatalf("testbench missing RES= display: %s", tb)
	}
}

// The DUT instantiated by any backend's testbench is always the top of a
// generated design: the loop generator's top and a hierarchy generator's
// root both expose result, never out (out is only a non-root leaf's port).
// Every backend must bind result, not out, when building its testbench.
func TestResultTestbenchBindsResultNotOut(t *testing.T) {
	tb := resultTestbench("hier_root", "result")
	if contains(tb, ".out(res)") {
		t.Fatalf("testbench unexpectedly bound an out port: %s", tb)
	}
	if !contains(tb, "hier_root top(.result(res))") {
		t.Fatalf("testbench did not bind result port: %s", tb)
	}
}

// A hierarchy-generator design built with root_prefix emits leaf
// references as $root.tb.top.<path>; the testbench's DUT instance must
// literally be named top inside module tb for those paths to resolve.
func TestResultTestbenchNamesInstanceTop(t *testing.T) {
	tb := resultTestbench("hier_root", "result")
	if !contains(tb, "module tb;") {
		t.Fatalf("testbench module is not named tb: %s", tb)
	}
	if !contains(tb, "hier_root top(") {
		t.Fatalf("DUT instance is not named top: %s", tb)
	}
}

func TestScanForResultParsesHex(t *testing.T) {
	dir := t.TempDir()
	path, err := writeTextFile(dir, "log.txt", "some preamble\nRES=0000002a\ntrailer\n")
	if err != nil {
		t.Fatalf("writeTextFile: %v", err)
	}
	v, err := scanForResult(path)
	if err != nil {
		t.Fatalf("scanForResult: %v", err)
	}
	if v != 0x2a {
		t.Fatalf("got 0x%x, want 0x2a", v)
	}
}

func TestScanForResultMissingLine(t *testing.T) {
	dir := t.TempDir()
	path, _ := writeTextFile(dir, "log.txt", "no result here\n")
	if _, err := scanForResult(path); err == nil {
		t.Fatalf("expected error for missing RES= line")
	}
}

func TestCompareSimName(t *testing.T) {
	cs := NewCompareSimTool(false)
	if cs.Name() != CompareSimName {
		t.Fatalf("got %q, want %q", cs.Name(), CompareSimName)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
