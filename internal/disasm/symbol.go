package disasm

import "strings"

// Symbol is a named function or label boundary grouping the instructions
// that belong to it. The name keeps its angle-bracket framing, e.g. "<main>".
// Instructions stay in source-line order and are never resorted.
type Symbol struct {
	Name         string        `json:"name" jsonschema:"title=Name,description=Bracketed symbol name as printed by the disassembler"`
	Instructions []Instruction `json:"instructions,omitempty" jsonschema:"title=Instructions,description=Instructions in source order"`
}

// NewSymbol creates an empty symbol. The name is trimmed of surrounding
// whitespace; empty names are legal.
func NewSymbol(name string) Symbol {
	return Symbol{Name: strings.TrimSpace(name)}
}

func (s *Symbol) addInstruction(in Instruction) {
	s.Instructions = append(s.Instructions, in)
}

// render writes the symbol header followed by its instructions, each
// indented one level.
func (s Symbol) render(sb *strings.Builder, opts RenderOptions) {
	name := s.Name
	if opts.SymbolName != nil {
		name = opts.SymbolName(name)
	}
	sb.WriteString(name)
	sb.WriteString(":\n")
	var body strings.Builder
	for _, in := range s.Instructions {
		in.render(&body, opts)
	}
	writeIndented(sb, body.String())
}

// Render returns the symbol block alone, using the given options.
func (s Symbol) Render(opts RenderOptions) string {
	var sb strings.Builder
	s.render(&sb, opts)
	return sb.String()
}

func (s Symbol) String() string {
	return s.Render(RenderOptions{})
}

// writeIndented copies s to sb with four spaces prepended to every
// non-empty line. Applied bottom-up by each level of the tree, so nested
// blocks accumulate indentation naturally.
func writeIndented(sb *strings.Builder, s string) {
	for len(s) > 0 {
		line := s
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			line, s = s[:i], s[i+1:]
		} else {
			s = ""
		}
		if line != "" {
			sb.WriteString("    ")
			sb.WriteString(line)
		}
		sb.WriteByte('\n')
	}
}
