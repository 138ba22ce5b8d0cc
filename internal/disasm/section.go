package disasm

import (
	"sort"
	"strings"
)

// Section is a named grouping of symbols corresponding to a binary section
// (e.g. ".text"). Symbols are appended in source order during the parse and
// sorted by name once the whole input has been consumed; duplicate names
// are preserved in their original relative order.
type Section struct {
	Name    string   `json:"name" jsonschema:"title=Name,description=Section name without the surrounding marker text"`
	Symbols []Symbol `json:"symbols,omitempty" jsonschema:"title=Symbols,description=Symbols sorted by name"`
}

// NewSection creates an empty section with the given name, trimmed of
// surrounding whitespace.
func NewSection(name string) Section {
	return Section{Name: strings.TrimSpace(name)}
}

func (s *Section) addSymbol(sym Symbol) {
	s.Symbols = append(s.Symbols, sym)
}

// addInstruction appends an instruction to the section's most recent
// symbol. An instruction with no symbol to own it violates the listing
// grammar.
func (s *Section) addInstruction(in Instruction) error {
	if len(s.Symbols) == 0 {
		return ErrMissingSymbol
	}
	s.Symbols[len(s.Symbols)-1].addInstruction(in)
	return nil
}

// sortSymbols orders symbols by name. Stable, so repeated sorting is a
// no-op and duplicate names keep their insertion order.
func (s *Section) sortSymbols() {
	sort.SliceStable(s.Symbols, func(i, j int) bool {
		return s.Symbols[i].Name < s.Symbols[j].Name
	})
}

// render writes the section header followed by each symbol block indented
// one level, which puts instructions at two levels.
func (s Section) render(sb *strings.Builder, opts RenderOptions) {
	sb.WriteString(s.Name)
	sb.WriteString(":\n")
	var body strings.Builder
	for _, sym := range s.Symbols {
		sym.render(&body, opts)
	}
	writeIndented(sb, body.String())
}

// Render returns the section block alone, using the given options.
func (s Section) Render(opts RenderOptions) string {
	var sb strings.Builder
	s.render(&sb, opts)
	return sb.String()
}

func (s Section) String() string {
	return s.Render(RenderOptions{})
}
