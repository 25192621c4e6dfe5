// Package hiergen builds a tree of Verilog modules instantiated
// hierarchically, with a single root-level reduction expression whose
// operands are cross-hierarchy references, exercising elaboration-time
// name resolution (plain, root-absolute, relative-up) and, optionally,
// defparam overrides and embedded loop-generator leaves.
package hiergen

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"vdiff/internal/ast"
	"vdiff/internal/loopgen"
)

// Config mirrors the hierarchy generator's GeneratorConfig.
type Config struct {
	Seed         int64
	Depth        int
	MinChild     int
	MaxChild     int
	RootPrefix   bool
	RelativeUp   bool
	Defparam     bool
	Alias        bool
	EnableBigGen bool
	BigGenProb   float64
}

// Result is the generated file together with the oracle's expected value
// for the root module's `result` output.
type Result struct {
	Verilog string
	Oracle  uint32
	TopName string
}

const rootModuleName = "hier_root"

// Node is the in-memory hierarchy tree. A node is either a leaf (no
// children, Value defined) or an internal node (minChild..maxChild
// children).
type Node struct {
	id            int
	InstanceName  string
	ModuleName    string
	Children      []*Node
	Value         uint32
	overrideValue *uint32
	IsBigGen      bool
	bigGenMods    []*ast.Module
}

// resolvedValue is what a hierarchical reader of this leaf observes: the
// defparam override when one applies to it, otherwise its own default.
func (n *Node) resolvedValue() uint32 {
	if n.overrideValue != nil {
		return *n.overrideValue
	}
	return n.Value
}

func (n *Node) isLeaf() bool { return len(n.Children) == 0 }

// Generate builds one hierarchy-generator design from cfg.
func Generate(cfg Config) (*Result, error) {
	if cfg.Depth < 0 {
		return nil, &ast.ConfigError{Msg: "hiergen: depth must be >= 0"}
	}
	if cfg.MinChild < 1 || cfg.MaxChild < cfg.MinChild {
		return nil, &ast.ConfigError{Msg: "hiergen: min_child/max_child out of range"}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	counter := 0
	root := buildTree(rng, cfg, cfg.Depth, &counter)
	root.ModuleName = rootModuleName

	// Defparam is applied globally, before any module's reduction
	// expression is built, so every reader of the overridden leaf
	// (root or otherwise) observes the same post-override value — the
	// same consistency real elaboration would give a hierarchical reader.
	// The leaf itself keeps its original default (resolvedValue falls back
	// to node.Value when overrideValue is nil); only readers going through
	// resolvedValue see the override, so the emitted defparam statement
	// genuinely overrides something instead of restating the leaf's own
	// default back at it.
	var defparamPath string
	var defparamValue uint32
	if cfg.Defparam {
		leaves := collectLeafPaths(root, "")
		if len(leaves) > 0 {
			pick := leaves[rng.Intn(len(leaves))]
			defparamValue = rng.Uint32()
			pick.node.overrideValue = &defparamValue
			defparamPath = strings.TrimSuffix(pick.path, ".out")
		}
	}

	seenConstBlock := false
	var modules []*ast.Module

	emit := func(node *Node, depth int, isRoot bool) *ast.Module {
		var body []ast.Stmt

		if node.isLeaf() {
			if node.IsBigGen {
				for _, m := range node.bigGenMods {
					if m.Name == "const_block" {
						if seenConstBlock {
							continue
						}
						seenConstBlock = true
					}
					modules = append(modules, m)
				}
				body = append(body, &ast.Raw{Fn: func(indent string) string {
					return indent + node.bigGenMods[len(node.bigGenMods)-1].Name + " the_gen();"
				}})
				body = append(body, &ast.Assign{LHS: "out", RHS: &ast.Literal{Symbol: "the_gen.result"}})
				return &ast.Module{Name: node.ModuleName, Ports: []string{"output [31:0] out"}, Body: body}
			}
			if cfg.Defparam {
				body = append(body, &ast.Raw{Fn: func(indent string) string {
					return indent + fmt.Sprintf("parameter [31:0] VALUE = 32'h%08x;", node.Value)
				}})
				body = append(body, &ast.Assign{LHS: "out", RHS: &ast.Literal{Symbol: "VALUE"}})
			} else {
				body = append(body, &ast.Assign{LHS: "out", RHS: &ast.Literal{Value: node.Value}})
			}
			port := "out"
			return &ast.Module{Name: node.ModuleName, Ports: []string{"output [31:0] " + port}, Body: body}
		}

		for _, c := range node.Children {
			body = append(body, &ast.ModuleInstance{ModuleName: c.ModuleName, InstanceName: c.InstanceName})
		}

		leaves := collectLeafPaths(node, "")
		sort.Slice(leaves, func(i, j int) bool { return leaves[i].path < leaves[j].path })
		k := 2
		if len(leaves) > 2 {
			k = 2 + rng.Intn(len(leaves)-1)
		}
		if k > len(leaves) {
			k = len(leaves)
		}
		perm := rng.Perm(len(leaves))[:k]
		operands := make([]ast.Expr, 0, k+1)
		for _, idx := range perm {
			lp := leaves[idx]
			qualified := qualify(rng, cfg, lp.path, isRoot)
			operands = append(operands, &leafRef{node: lp.node, path: qualified})
		}
		if rng.Intn(2) == 0 {
			operands = append(operands, &ast.Literal{Value: rng.Uint32()})
		}
		op := pickCombineOp(rng)
		expr := &ast.BinaryExpr{Op: op, Operands: operands}

		if isRoot && cfg.Defparam && defparamPath != "" {
			body = append(body, &ast.Raw{Fn: func(indent string) string {
				return indent + fmt.Sprintf("defparam %s.VALUE = 32'h%08x;", defparamPath, defparamValue)
			}})
		}
		if isRoot && cfg.Alias && len(operands) > 0 {
			if lr, ok := operands[0].(*leafRef); ok {
				body = append(body, &ast.Raw{Fn: func(indent string) string {
					return indent + fmt.Sprintf("alias %s = hier_alias_0;", lr.path)
				}})
			}
		}

		outPort := "out"
		if isRoot {
			outPort = "result"
		}
		body = append(body, &ast.Assign{LHS: outPort, RHS: expr})

		v, err := expr.Eval(nil)
		if err == nil {
			node.Value = v
		}

		return &ast.Module{Name: node.ModuleName, Ports: []string{"output [31:0] " + outPort}, Body: body}
	}

	var postOrder func(node *Node, depth int, isRoot bool)
	postOrder = func(node *Node, depth int, isRoot bool) {
		for _, c := range node.Children {
			postOrder(c, depth+1, false)
		}
		modules = append(modules, emit(node, depth, isRoot))
	}
	postOrder(root, 0, true)

	file := ast.EmitFile(modules)
	return &Result{Verilog: file, Oracle: root.Value, TopName: rootModuleName}, nil
}

// buildTree constructs the node tree recursively, leaves first by nature of
// recursion order (a leaf's value, including a possible embedded
// loop-generator module, is fully known before its parent is constructed).
func buildTree(rng *rand.Rand, cfg Config, depth int, counter *int) *Node {
	*counter++
	id := *counter
	node := &Node{id: id, InstanceName: fmt.Sprintf("c%d", id), ModuleName: fmt.Sprintf("node_%d", id)}

	if depth == 0 {
		if cfg.EnableBigGen && rng.Float64() < cfg.BigGenProb {
			subSeed := rng.Int63()
			subCfg := loopgen.Config{
				Seed: subSeed, MinStart: 0, MaxStart: 2,
				MinIter: 2, MaxIter: 4, RandomUpdate: true, Depth: 1,
			}
			topName := fmt.Sprintf("gen_loop_%d", id)
			mods, oracle, err := loopgen.GenerateModules(subCfg, topName)
			if err == nil {
				node.IsBigGen = true
				node.bigGenMods = mods
				node.Value = oracle
				return node
			}
		}
		node.Value = rng.Uint32()
		return node
	}

	u := cfg.MinChild
	if cfg.MaxChild > cfg.MinChild {
		u = cfg.MinChild + rng.Intn(cfg.MaxChild-cfg.MinChild+1)
	}
	node.Children = make([]*Node, u)
	for i := 0; i < u; i++ {
		node.Children[i] = buildTree(rng, cfg, depth-1, counter)
	}
	return node
}

type leafPath struct {
	node *Node
	path string
}

// collectLeafPaths enumerates every leaf reachable below node, as a dotted
// path through instance names ending in ".out", relative to node itself.
func collectLeafPaths(node *Node, prefix string) []leafPath {
	if node.isLeaf() {
		p := "out"
		if prefix != "" {
			p = prefix + ".out"
		}
		return []leafPath{{node: node, path: p}}
	}
	var out []leafPath
	for _, c := range node.Children {
		childPrefix := c.InstanceName
		if prefix != "" {
			childPrefix = prefix + "." + c.InstanceName
		}
		out = append(out, collectLeafPaths(c, childPrefix)...)
	}
	return out
}

// qualify rewrites a subtree-relative leaf path into one of the three
// reference styles. The rewrite is cosmetic only: the oracle always
// resolves the operand through the Node pointer captured alongside the
// path (see leafRef), not by re-parsing the qualified text, mirroring the
// fuzzer's own assumption that a correct elaborator resolves the text to
// the same leaf regardless of styling.
//
// path is relative to the referencing node, not the true top, so the
// $root.tb.top. form is only valid when the referencing node is the root
// itself (root-relative and top-relative coincide there); an internal
// node below the root would need its own full top-relative instance
// chain, which this generator's instance names (c<id>, not
// top-qualified) don't carry, so root-prefix styling is restricted to the
// root's own reduction.
func qualify(rng *rand.Rand, cfg Config, path string, isRoot bool) string {
	if cfg.RootPrefix && isRoot && rng.Float64() < 0.33 {
		return "$root.tb.top." + path
	}
	if cfg.RelativeUp && !isRoot && rng.Float64() < 0.5 {
		segs := strings.SplitN(path, ".", 2)
		if len(segs) == 2 {
			return ".." + segs[1]
		}
	}
	return path
}

// Normalise strips hierarchical-reference qualifiers so two differently
// qualified spellings of the same underlying path compare equal. It is
// idempotent: Normalise(Normalise(p)) == Normalise(p).
func Normalise(path string) string {
	p := path
	p = strings.TrimPrefix(p, "$root.")
	p = strings.TrimPrefix(p, "tb.")
	p = strings.TrimPrefix(p, "top.")
	for strings.HasPrefix(p, "..") {
		p = strings.TrimPrefix(p, "..")
		p = strings.TrimPrefix(p, ".")
	}
	return p
}

// leafRef is an Expr whose evaluation reads a specific Node's resolved
// value directly rather than walking env by index; Emit renders whatever
// qualified path text was chosen for it.
type leafRef struct {
	node *Node
	path string
}

func (l *leafRef) Emit() string { return l.path }

func (l *leafRef) Eval([]uint32) (uint32, error) { return l.node.resolvedValue(), nil }

func pickCombineOp(rng *rand.Rand) ast.BinOp {
	switch rng.Intn(4) {
	case 0:
		return ast.Add
	case 1:
		return ast.Or
	case 2:
		return ast.And
	default:
		return ast.Xor
	}
}
