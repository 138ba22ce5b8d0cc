package disasm

import "strings"

// Instruction is one disassembled line reduced to its salient fields.
// Immutable once constructed; owned by its parent Symbol.
type Instruction struct {
	Opcode   string `json:"opcode" jsonschema:"title=Opcode,description=Lowercase mnemonic (may be multi-word)"`
	Operands string `json:"operands,omitempty" jsonschema:"title=Operands,description=Operand text with register noise intact"`
	Comment  string `json:"comment,omitempty" jsonschema:"title=Comment,description=Trailing comment without the # marker"`
}

// render writes the instruction's canonical one-line form. The address-free
// default keeps only the opcode so listings diff cleanly across builds;
// operands and comments come back with the corresponding options.
func (in Instruction) render(sb *strings.Builder, opts RenderOptions) {
	sb.WriteString(in.Opcode)
	if opts.Operands && in.Operands != "" {
		sb.WriteByte(' ')
		sb.WriteString(in.Operands)
	}
	if opts.Comments && in.Comment != "" {
		sb.WriteString(" # ")
		sb.WriteString(in.Comment)
	}
	sb.WriteByte('\n')
}

// String returns the opcode-only canonical form.
func (in Instruction) String() string {
	var sb strings.Builder
	in.render(&sb, RenderOptions{})
	return sb.String()
}
