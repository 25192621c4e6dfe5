package hiergen

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"
)

func TestGenerateBasic(t *testing.T) {
	cfg := Config{Seed: 1, Depth: 2, MinChild: 2, MaxChild: 2}
	res, err := Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Verilog == "" {
		t.Fatalf("expected non-empty Verilog")
	}
	if res.TopName != rootModuleName {
		t.Fatalf("got top name %q", res.TopName)
	}
}

func TestGenerateReproducible(t *testing.T) {
	cfg := Config{Seed: 7, Depth: 3, MinChild: 2, MaxChild: 3, RootPrefix: true, RelativeUp: true}
	a, err := Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Verilog != b.Verilog || a.Oracle != b.Oracle {
		t.Fatalf("same (seed, config) produced different output")
	}
}

func TestGenerateWithDefparam(t *testing.T) {
	cfg := Config{Seed: 1, Depth: 1, MinChild: 2, MaxChild: 2, Defparam: true}
	res, err := Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Verilog == "" {
		t.Fatalf("expected output")
	}
}

// defparam exists to override a leaf's default at elaboration time, which
// only means something if the leaf still declares its original default;
// the defparam statement's value must differ from what the leaf itself
// declares, or the override is a no-op restating the same value.
func TestDefparamOverridesLeafDefaultNotReemitsIt(t *testing.T) {
	cfg := Config{Seed: 1, Depth: 1, MinChild: 2, MaxChild: 2, Defparam: true}
	res, err := Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defparamRe := regexp.MustCompile(`defparam [^\s]+\.VALUE = 32'h([0-9a-fA-F]{8});`)
	dm := defparamRe.FindStringSubmatch(res.Verilog)
	if dm == nil {
		t.Fatalf("expected a defparam override line:\n%s", res.Verilog)
	}

	paramRe := regexp.MustCompile(`parameter \[31:0\] VALUE = 32'h([0-9a-fA-F]{8});`)
	params := paramRe.FindAllStringSubmatch(res.Verilog, -1)
	if len(params) == 0 {
		t.Fatalf("expected at least one leaf parameter declaration:\n%s", res.Verilog)
	}
	for _, p := range params {
		if p[1] == dm[1] {
			t.Fatalf("leaf's own parameter declaration already carries the override value 32'h%s; defparam overrides nothing:\n%s", p[1], res.Verilog)
		}
	}
}

// relative-up must drop exactly one leading path segment, producing a
// two-dot prefix ("..c6.out"), never three dots.
func TestQualifyRelativeUpSingleDotPrefix(t *testing.T) {
	cfg := Config{RelativeUp: true}
	rng := rand.New(rand.NewSource(1))
	transformed := false
	for i := 0; i < 50; i++ {
		q := qualify(rng, cfg, "c3.c6.out", false)
		if strings.HasPrefix(q, "..") {
			transformed = true
			if strings.HasPrefix(q, "...") {
				t.Fatalf("relative-up produced a malformed path with an extra dot: %q", q)
			}
			if q != "..c6.out" {
				t.Fatalf("got %q, want %q", q, "..c6.out")
			}
		}
	}
	if !transformed {
		t.Fatalf("expected at least one relative-up rewrite across 50 draws")
	}
}

// $root.tb.top.<path> is only a valid absolute path when path is already
// relative to the true root; qualify must restrict it to the root's own
// reduction, never apply it on behalf of an internal node below the root.
func TestQualifyRootPrefixRestrictedToRoot(t *testing.T) {
	cfg := Config{RootPrefix: true}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		q := qualify(rng, cfg, "c3.out", false)
		if strings.Contains(q, "$root") {
			t.Fatalf("root-prefix styling applied to a non-root referencing node: %q", q)
		}
	}
	applied := false
	for i := 0; i < 50; i++ {
		q := qualify(rng, cfg, "c3.out", true)
		if strings.HasPrefix(q, "$root.tb.top.") {
			applied = true
		}
	}
	if !applied {
		t.Fatalf("expected at least one root-prefix rewrite at the root across 50 draws")
	}
}

func TestNodeResolvedValueUsesOverride(t *testing.T) {
	n := &Node{Value: 1}
	if n.resolvedValue() != 1 {
		t.Fatalf("got %d, want 1 with no override", n.resolvedValue())
	}
	override := uint32(2)
	n.overrideValue = &override
	if n.resolvedValue() != 2 {
		t.Fatalf("got %d, want 2 with override set", n.resolvedValue())
	}
}

func TestGenerateWithBigGen(t *testing.T) {
	cfg := Config{Seed: 3, Depth: 2, MinChild: 2, MaxChild: 2, EnableBigGen: true, BigGenProb: 1.0}
	res, err := Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Verilog == "" {
		t.Fatalf("expected output")
	}
}

func TestLeafReachabilityCount(t *testing.T) {
	cfg := Config{Seed: 5, Depth: 2, MinChild: 2, MaxChild: 2}
	rng := rand.New(rand.NewSource(cfg.Seed))
	counter := 0
	root := buildTree(rng, cfg, cfg.Depth, &counter)
	leaves := collectLeafPaths(root, "")
	if len(leaves) != 4 {
		t.Fatalf("got %d leaves, want 4 (2*2)", len(leaves))
	}
}

func TestNormaliseIdempotent(t *testing.T) {
	paths := []string{
		"c1.c2.out",
		"$root.tb.top.c1.c2.out",
		"...c2.out",
		"out",
	}
	for _, p := range paths {
		once := Normalise(p)
		twice := Normalise(once)
		if once != twice {
			t.Fatalf("Normalise not idempotent for %q: once=%q twice=%q", p, once, twice)
		}
	}
}
