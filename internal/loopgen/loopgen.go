// Package loopgen builds a single Verilog module whose body is a chain of
// for-generate loops bottomed out on a pool of random constants, together
// with an oracle that computes the module's expected 32-bit
// result by pure evaluation of the same reduction tree the Verilog emits.
package loopgen

import (
	"fmt"
	"math/rand"

	"vdiff/internal/ast"
)

// Config mirrors the loop generator's GeneratorConfig: a seed, the
// induction-variable start range, the per-level iteration-count range,
// whether loop direction is randomized, and the nesting depth.
type Config struct {
	Seed         int64
	MinStart     int
	MaxStart     int
	MinIter      int
	MaxIter      int
	RandomUpdate bool
	Depth        int
}

// Result is the generated file together with the oracle's expected value
// for the top module's `result` output.
type Result struct {
	Verilog string
	Oracle  uint32
	TopName string
}

const topModuleName = "gen_loop"
const constBlockModuleName = "const_block"

// Generate builds one loop-generator design from cfg, as a standalone file.
func Generate(cfg Config) (*Result, error) {
	modules, oracle, err := GenerateModules(cfg, topModuleName)
	if err != nil {
		return nil, err
	}
	return &Result{Verilog: ast.EmitFile(modules), Oracle: oracle, TopName: topModuleName}, nil
}

// GenerateModules builds the loop-generator design from cfg under the
// given top-level module name, without joining it into file text. This is
// the form the hierarchy generator uses to embed a loop-generator module
// at a leaf: it lets the caller assemble one file out of several
// generators' modules and de-duplicate the shared const_block helper.
//
// depth is the number of for-generate loops, not the number of
// wire-array levels: a depth-D design has exactly D loops (the innermost
// level's one instantiating const_block from CONSTS0) feeding a final,
// non-looped reduction that drives result. The loops are emitted one
// after another at module scope, each reducing the previous level's wire
// array; they are not nested inside one another. depth=0 has no loop at
// all: CONSTS0 is reduced directly.
func GenerateModules(cfg Config, topName string) ([]*ast.Module, uint32, error) {
	if cfg.Depth < 0 {
		return nil, 0, &ast.ConfigError{Msg: "loopgen: depth must be >= 0"}
	}
	if cfg.MinIter < 1 {
		return nil, 0, &ast.ConfigError{Msg: "loopgen: min_iter must be >= 1"}
	}
	minStart, maxStart := cfg.MinStart, cfg.MaxStart
	if minStart > maxStart {
		minStart, maxStart = maxStart, minStart
	}
	minIter, maxIter := cfg.MinIter, cfg.MaxIter
	if minIter > maxIter {
		minIter, maxIter = maxIter, minIter
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	D := cfg.Depth

	drawN := func() int {
		if maxIter > minIter {
			return minIter + rng.Intn(maxIter-minIter+1)
		}
		return minIter
	}

	if D == 0 {
		n := drawN()
		consts := make([]uint32, n)
		for i := range consts {
			consts[i] = rng.Uint32()
		}

		op := pickReduceOp(rng)
		operands := make([]ast.Expr, n)
		for k := range operands {
			operands[k] = &ast.WireRef{Name: constSlice(k, n), Index: k, HasIndex: true}
		}
		rootExpr := &ast.BinaryExpr{Op: op, Operands: operands}
		oracle, err := rootExpr.Eval(consts)
		if err != nil {
			return nil, 0, fmt.Errorf("loopgen: oracle evaluation failed at root: %w", err)
		}

		body := []ast.Stmt{rawConstsDecl(consts), &ast.Assign{LHS: "result", RHS: rootExpr}}
		topMod := &ast.Module{Name: topName, Ports: []string{"output [31:0] result"}, Body: body}
		return []*ast.Module{constBlockModule(), topMod}, oracle, nil
	}

	type levelParams struct {
		start      int
		n          int
		decreasing bool
	}
	levels := make([]levelParams, D)
	for l := 0; l < D; l++ {
		start := minStart
		if maxStart > minStart {
			start = minStart + rng.Intn(maxStart-minStart+1)
		}
		decreasing := false
		if cfg.RandomUpdate {
			decreasing = rng.Intn(2) == 1
		}
		levels[l] = levelParams{start: start, n: drawN(), decreasing: decreasing}
	}

	values := make([][]uint32, D)
	var body []ast.Stmt

	arrName := func(l int) string { return fmt.Sprintf("arr%d", l) }

	// Leaf level D-1, innermost: draw the constant pool, pack it into
	// CONSTS0, and emit the one loop that instantiates const_block.
	leafIdx := D - 1
	leaf := levels[leafIdx]
	consts := make([]uint32, leaf.n)
	for i := range consts {
		consts[i] = rng.Uint32()
	}
	values[leafIdx] = consts

	body = append(body, rawConstsDecl(consts))
	body = append(body, rawf("wire [31:0] %s [0:%d];", arrName(leafIdx), leaf.n-1))
	body = append(body, leafForGenerate(leafIdx, leaf.start, leaf.n, leaf.decreasing, arrName(leafIdx)))

	// Levels D-2 down to 0: each reduces the inner array under a fresh
	// per-arm operator draw and produces its own output array.
	for l := leafIdx - 1; l >= 0; l-- {
		lp := levels[l]
		values[l] = make([]uint32, lp.n)
		body = append(body, rawf("wire [31:0] %s [0:%d];", arrName(l), lp.n-1))

		var arms []ast.CaseArm
		for idx := 0; idx < lp.n; idx++ {
			gv := lp.start + idx
			if lp.decreasing {
				gv = lp.start - idx
			}
			op := pickReduceOp(rng)
			inner := levels[l+1].n
			operands := make([]ast.Expr, inner)
			for k := 0; k < inner; k++ {
				operands[k] = &ast.WireRef{Name: fmt.Sprintf("%s[%d]", arrName(l+1), k), Index: k, HasIndex: true}
			}
			expr := &ast.BinaryExpr{Op: op, Operands: operands}
			v, err := expr.Eval(values[l+1])
			if err != nil {
				return nil, 0, fmt.Errorf("loopgen: oracle evaluation failed at level %d: %w", l, err)
			}
			values[l][idx] = v
			arms = append(arms, ast.CaseArm{
				Label: fmt.Sprintf("%d", gv),
				Body:  []ast.Stmt{&ast.Assign{LHS: fmt.Sprintf("%s[%d]", arrName(l), idx), RHS: expr}},
			})
		}

		initVal, cond, update := loopHeader(fmt.Sprintf("g%d", l), lp.start, lp.n, lp.decreasing)
		body = append(body, &ast.ForGenerate{
			Var:     fmt.Sprintf("g%d", l),
			Label:   fmt.Sprintf("L%d", l),
			InitVal: initVal,
			Cond:    cond,
			Update:  update,
			Body: []ast.Stmt{&ast.CaseGenerate{
				Selector: &ast.Literal{Symbol: fmt.Sprintf("g%d", l)},
				Arms:     arms,
			}},
		})
	}

	// Outermost array (level 0) feeds a final, non-looped reduction that
	// drives result directly, never its own for-generate loop.
	top := pickReduceOp(rng)
	rootOperands := make([]ast.Expr, levels[0].n)
	for k := range rootOperands {
		rootOperands[k] = &ast.WireRef{Name: fmt.Sprintf("%s[%d]", arrName(0), k), Index: k, HasIndex: true}
	}
	rootExpr := &ast.BinaryExpr{Op: top, Operands: rootOperands}
	oracle, err := rootExpr.Eval(values[0])
	if err != nil {
		return nil, 0, fmt.Errorf("loopgen: oracle evaluation failed at root: %w", err)
	}
	body = append(body, &ast.Assign{LHS: "result", RHS: rootExpr})

	topMod := &ast.Module{
		Name:  topName,
		Ports: []string{"output [31:0] result"},
		Body:  body,
	}

	return []*ast.Module{constBlockModule(), topMod}, oracle, nil
}

// pickReduceOp draws one of the two reduction operators the loop generator
// uses at every case arm and at the final root reduction.
func pickReduceOp(rng *rand.Rand) ast.BinOp {
	if rng.Intn(2) == 0 {
		return ast.Add
	}
	return ast.Xor
}

// loopHeader composes the for-generate init/cond/update text over the
// genvar v for either loop direction. Case-generate arms are emitted in
// increasing index order in both directions, so a decrementing loop's arm
// labels run start, start-1, ..., start-n+1.
func loopHeader(v string, start, n int, decreasing bool) (initVal, cond, update string) {
	if !decreasing {
		return fmt.Sprintf("%d", start), fmt.Sprintf("%s < %d", v, start+n), fmt.Sprintf("%s = %s + 1", v, v)
	}
	return fmt.Sprintf("%d", start), fmt.Sprintf("%s > %d", v, start-n), fmt.Sprintf("%s = %s - 1", v, v)
}

func leafForGenerate(level, start, n int, decreasing bool, arr string) ast.Stmt {
	var arms []ast.CaseArm
	for idx := 0; idx < n; idx++ {
		gv := start + idx
		if decreasing {
			gv = start - idx
		}
		inst := fmt.Sprintf("inst_%d_%d", level, idx)
		arms = append(arms, ast.CaseArm{
			Label: fmt.Sprintf("%d", gv),
			Body: []ast.Stmt{&ast.ModuleInstance{
				ModuleName:     constBlockModuleName,
				InstanceName:   inst,
				ParamOverrides: []string{fmt.Sprintf(".VALUE(%s)", constSlice(idx, n))},
				Ports:          []ast.PortConn{{Port: "w", Net: fmt.Sprintf("%s[%d]", arr, idx)}},
			}},
		})
	}
	varName := fmt.Sprintf("g%d", level)
	initVal, cond, update := loopHeader(varName, start, n, decreasing)
	return &ast.ForGenerate{
		Var:     varName,
		Label:   fmt.Sprintf("L%d", level),
		InitVal: initVal,
		Cond:    cond,
		Update:  update,
		Body: []ast.Stmt{&ast.CaseGenerate{
			Selector: &ast.Literal{Symbol: varName},
			Arms:     arms,
		}},
	}
}

// rawConstsDecl packs consts into a single concatenated localparam of
// width len(consts)*32, per spec: consts[0] occupies the most significant
// slice, each subsequent constant the next slice down. constSlice computes
// the matching bit range for a given index.
func rawConstsDecl(consts []uint32) ast.Stmt {
	return &ast.Raw{Fn: func(indent string) string {
		s := indent + fmt.Sprintf("localparam [%d:0] CONSTS0 = {", len(consts)*32-1)
		for i, c := range consts {
			if i > 0 {
				s += ", "
			}
			s += fmt.Sprintf("32'h%08x", c)
		}
		s += "};"
		return s
	}}
}

// constSlice returns the bit-range text addressing index idx of an n-wide
// packed CONSTS0, matching rawConstsDecl's MSB-first concatenation order.
func constSlice(idx, n int) string {
	width := n * 32
	high := width - idx*32 - 1
	low := width - (idx+1)*32
	return fmt.Sprintf("CONSTS0[%d:%d]", high, low)
}

func rawf(format string, args ...any) ast.Stmt {
	text := fmt.Sprintf(format, args...)
	return &ast.Raw{Fn: func(indent string) string { return indent + text }}
}

// constBlockModule is the single helper module the loop generator relies
// on: a parameterized pass-through driving its output with VALUE.
func constBlockModule() *ast.Module {
	return &ast.Module{
		Name:  constBlockModuleName,
		Ports: []string{"output [31:0] w"},
		Body: []ast.Stmt{
			&ast.Raw{Fn: func(indent string) string { return indent + "parameter [31:0] VALUE = 32'h0;" }},
			&ast.Assign{LHS: "w", RHS: &ast.Literal{Symbol: "VALUE"}},
		},
	}
}
