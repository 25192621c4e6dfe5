package ast

import "strings"

// Module is a single Verilog module: a name, its port declarations (held
// as opaque text — `input`/`output` direction and width are never
// evaluated), and an ordered body of statements.
type Module struct {
	Name  string
	Ports []string
	Body  []Stmt
}

// Emit renders the full `module ... endmodule` text.
func (m *Module) Emit() string {
	var b strings.Builder
	b.WriteString("module " + m.Name + "(" + strings.Join(m.Ports, ", ") + ");\n")
	for _, s := range m.Body {
		b.WriteString(s.Emit("  "))
		b.WriteString("\n")
	}
	b.WriteString("endmodule\n")
	return b.String()
}

// EmitFile concatenates modules, in order, into one self-contained
// Verilog source file. Helper modules (e.g. const_block) are expected to
// already be included in modules by the caller, de-duplicated.
func EmitFile(modules []*Module) string {
	var b strings.Builder
	for _, m := range modules {
		b.WriteString(m.Emit())
		b.WriteString("\n")
	}
	return b.String()
}
