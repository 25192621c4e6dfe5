package ast

import "strings"

// Stmt is the closed family of statement node kinds. Only Assign feeds the
// oracle (through its RHS Expr); every other kind exists purely to control
// what Verilog text comes out, including Raw, which is never evaluated.
type Stmt interface {
	Emit(indent string) string
}

// Assign is a continuous assignment: `assign LHS = RHS;`.
type Assign struct {
	LHS string
	RHS Expr
}

func (a *Assign) Emit(indent string) string {
	return indent + "assign " + a.LHS + " = " + a.RHS.Emit() + ";"
}

// PortConn is one (port name, connected net) pair in a module instance's
// port list.
type PortConn struct {
	Port string
	Net  string
}

// ModuleInstance instantiates ModuleName under InstanceName, with optional
// parameter overrides (held as opaque text, since parameter value
// expressions are never evaluated by the oracle) and an ordered port list.
// An empty port list is legal and used by the hierarchy generator, whose
// children are observed only through hierarchical names from the root.
type ModuleInstance struct {
	ModuleName     string
	InstanceName   string
	ParamOverrides []string
	Ports          []PortConn
}

func (m *ModuleInstance) Emit(indent string) string {
	var b strings.Builder
	b.WriteString(indent)
	b.WriteString(m.ModuleName)
	if len(m.ParamOverrides) > 0 {
		b.WriteString(" #(")
		b.WriteString(strings.Join(m.ParamOverrides, ", "))
		b.WriteString(")")
	}
	b.WriteString(" ")
	b.WriteString(m.InstanceName)
	b.WriteString(" (")
	if len(m.Ports) > 0 {
		parts := make([]string, len(m.Ports))
		for i, p := range m.Ports {
			parts[i] = "." + p.Port + "(" + p.Net + ")"
		}
		b.WriteString(strings.Join(parts, ", "))
	}
	b.WriteString(");")
	return b.String()
}

// ForGenerate is an elaboration-time for-generate loop. Cond and Update
// are held as opaque text (not Expr) because they range over the genvar,
// which the oracle never binds; InitVal is similarly textual so both
// increment and decrement forms can be expressed uniformly.
type ForGenerate struct {
	Var     string
	Label   string
	InitVal string
	Cond    string
	Update  string
	Body    []Stmt
}

// Emit declares the genvar on its own statement rather than inline in the
// for-header (IEEE 1364-2005 form; the inline `for (genvar g = ...)` header
// is a SystemVerilog-2012 addition).
func (f *ForGenerate) Emit(indent string) string {
	var b strings.Builder
	b.WriteString(indent)
	b.WriteString("genvar " + f.Var + ";\n")
	b.WriteString(indent)
	b.WriteString("for (" + f.Var + " = " + f.InitVal + "; " + f.Cond + "; " + f.Update + ") begin : " + f.Label + "\n")
	inner := indent + "  "
	for _, s := range f.Body {
		b.WriteString(s.Emit(inner))
		b.WriteString("\n")
	}
	b.WriteString(indent + "end")
	return b.String()
}

// IfGenerate is an elaboration-time conditional block. Cond is a real Expr
// because its evaluability does not depend on a genvar binding.
type IfGenerate struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

func (i *IfGenerate) Emit(indent string) string {
	var b strings.Builder
	b.WriteString(indent + "if (" + i.Cond.Emit() + ") begin\n")
	inner := indent + "  "
	for _, s := range i.Then {
		b.WriteString(s.Emit(inner))
		b.WriteString("\n")
	}
	b.WriteString(indent + "end")
	if len(i.Else) > 0 {
		b.WriteString(" else begin\n")
		for _, s := range i.Else {
			b.WriteString(s.Emit(inner))
			b.WriteString("\n")
		}
		b.WriteString(indent + "end")
	}
	return b.String()
}

// CaseArm is one labeled arm of a CaseGenerate block. Label is opaque text
// because case-generate labels are genvar-valued constant expressions, not
// oracle-evaluable Exprs.
type CaseArm struct {
	Label string
	Body  []Stmt
}

// CaseGenerate is an elaboration-time case block selecting exactly one arm
// by the (genvar-valued) selector.
type CaseGenerate struct {
	Selector Expr
	Arms     []CaseArm
	Default  []Stmt
}

func (c *CaseGenerate) Emit(indent string) string {
	var b strings.Builder
	b.WriteString(indent + "case (" + c.Selector.Emit() + ")\n")
	inner := indent + "  "
	body := indent + "    "
	for _, arm := range c.Arms {
		b.WriteString(inner + arm.Label + ": begin\n")
		for _, s := range arm.Body {
			b.WriteString(s.Emit(body))
			b.WriteString("\n")
		}
		b.WriteString(inner + "end\n")
	}
	if len(c.Default) > 0 {
		b.WriteString(inner + "default: begin\n")
		for _, s := range c.Default {
			b.WriteString(s.Emit(body))
			b.WriteString("\n")
		}
		b.WriteString(inner + "end\n")
	}
	b.WriteString(indent + "endcase")
	return b.String()
}

// Raw is the custom-statement escape hatch: a closure producing arbitrary
// Verilog text given an indent. The oracle never invokes this closure; it
// exists purely so loop headers, defparam overrides, declarations, and
// alias statements can be emitted without forcing every statement kind to
// be evaluable.
type Raw struct {
	Fn func(indent string) string
}

func (r *Raw) Emit(indent string) string { return r.Fn(indent) }
