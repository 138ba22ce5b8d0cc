// Package disasm parses the textual output of an addressless objdump run
// (objdump -d --no-addresses --no-show-raw-insn) into a
// section/symbol/instruction tree and re-serializes it as a normalized,
// diff-friendly listing.
//
// The parse is a single pass over the input lines. Blank lines are
// filtered out, the first remaining line must be the file header, and
// every other line is classified as a section marker, a symbol marker or
// an instruction, in that precedence. The grammar is strict: a line that
// resembles a marker but is malformed fails the parse instead of being
// reinterpreted as an instruction. After the last line the tree is sorted
// once, sections by name and each section's symbols by name, so the same
// program always renders to byte-identical text.
package disasm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var (
	ErrEmptyInput      = errors.New("disasm: input contains no text")
	ErrMalformedHeader = errors.New(`disasm: malformed first line, want "<file>: file format <format>"`)
	ErrMissingSection  = errors.New("disasm: symbol or instruction before any section marker")
	ErrMissingSymbol   = errors.New("disasm: instruction before any symbol marker")
)

// UnrecognizedLineError reports a body line that matches none of the three
// line grammars. It carries the verbatim line for diagnostics.
type UnrecognizedLineError struct {
	Line string
}

func (e *UnrecognizedLineError) Error() string {
	return fmt.Sprintf("disasm: unrecognized line: %q", e.Line)
}

const headerPrefix = "file format "

// reSection matches a section marker once surrounding whitespace is
// trimmed. The name is a run of alphanumerics and periods; anything else
// in name position makes the whole line unrecognized rather than an
// instruction.
var reSection = regexp.MustCompile(`^Disassembly of section ([[:alnum:].]+):$`)

// RenderOptions controls the canonical text form. The zero value is the
// opcode-only listing used for build diffing; operands and comments are
// parsed either way and can be re-emitted on request. SymbolName, when
// set, rewrites each symbol's bracketed name before printing (the CLI
// uses it for demangling).
type RenderOptions struct {
	Operands   bool
	Comments   bool
	SymbolName func(string) string
}

// Disassembly is the root of the parsed tree: file metadata from the
// header line plus the sections in post-sort order.
type Disassembly struct {
	FileName   string    `json:"file" jsonschema:"title=File,description=Object file name from the listing header"`
	FileFormat string    `json:"format" jsonschema:"title=Format,description=Binary format reported by the disassembler"`
	Sections   []Section `json:"sections,omitempty" jsonschema:"title=Sections,description=Sections sorted by name"`
}

// Parse builds the tree from a complete listing held in memory.
func Parse(text string) (*Disassembly, error) {
	return Read(strings.NewReader(text))
}

// Read builds the tree from a line source. The whole input is consumed;
// the first grammar violation aborts the parse and no partial tree is
// returned. Read errors from r are wrapped and surfaced as-is.
func Read(r io.Reader) (*Disassembly, error) {
	d := &Disassembly{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	seenHeader := false
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !seenHeader {
			if err := d.parseHeader(line); err != nil {
				return nil, err
			}
			seenHeader = true
			continue
		}
		if err := d.parseLine(line); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("disasm: reading input: %w", err)
	}
	if !seenHeader {
		return nil, ErrEmptyInput
	}
	d.sort()
	return d, nil
}

// parseHeader extracts the file name and format from the first non-blank
// line, "<file>: file format <format>". The file name is taken verbatim
// up to the first colon.
func (d *Disassembly) parseHeader(line string) error {
	name, rest, ok := strings.Cut(line, ":")
	if !ok {
		return ErrMalformedHeader
	}
	format, ok := strings.CutPrefix(strings.TrimSpace(rest), headerPrefix)
	if !ok {
		return ErrMalformedHeader
	}
	d.FileName = name
	d.FileFormat = strings.TrimSpace(format)
	return nil
}

// parseLine classifies one non-blank body line and folds it into the
// tree. The categories are tried in precedence order: section marker,
// symbol marker, instruction.
func (d *Disassembly) parseLine(line string) error {
	trimmed := strings.TrimSpace(line)

	if m := reSection.FindStringSubmatch(trimmed); m != nil {
		d.Sections = append(d.Sections, NewSection(m[1]))
		return nil
	}

	if strings.HasPrefix(trimmed, "<") && strings.HasSuffix(trimmed, ">:") && len(trimmed) > len("<>:") {
		return d.addSymbol(NewSymbol(trimmed[:len(trimmed)-1]))
	}

	if in, ok := parseInstruction(line); ok {
		return d.addInstruction(in)
	}

	return &UnrecognizedLineError{Line: line}
}

// parseInstruction splits an instruction line into opcode, operands and
// comment. The line must begin with whitespace; the text before the first
// '#' splits at its last space into opcode and operands, and the opcode
// may only contain lowercase letters, digits and interior whitespace
// (mnemonics can be multi-word, e.g. "bnd jmp").
func parseInstruction(line string) (Instruction, bool) {
	first, ok := firstRune(line)
	if !ok || !unicode.IsSpace(first) {
		return Instruction{}, false
	}

	body := line
	var comment string
	if left, c, found := strings.Cut(line, "#"); found {
		body, comment = left, strings.TrimSpace(c)
	}
	body = strings.TrimSpace(body)

	opcode, operands := body, ""
	if i := strings.LastIndexFunc(body, unicode.IsSpace); i >= 0 {
		opcode, operands = strings.TrimSpace(body[:i]), body[i+1:]
	}
	if !validOpcode(opcode) {
		return Instruction{}, false
	}
	return Instruction{Opcode: opcode, Operands: operands, Comment: comment}, true
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}

func validOpcode(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == ' ' || r == '\t':
		default:
			return false
		}
	}
	return true
}

// addSymbol attaches a symbol to the currently open section, the last
// one appended. A symbol with no section to own it violates the listing
// grammar.
func (d *Disassembly) addSymbol(sym Symbol) error {
	if len(d.Sections) == 0 {
		return ErrMissingSection
	}
	d.Sections[len(d.Sections)-1].addSymbol(sym)
	return nil
}

func (d *Disassembly) addInstruction(in Instruction) error {
	if len(d.Sections) == 0 {
		return ErrMissingSection
	}
	return d.Sections[len(d.Sections)-1].addInstruction(in)
}

// sort normalizes the tree: symbols within each section by name, then
// sections by name. Stable and idempotent; applied exactly once at the
// end of a successful parse.
func (d *Disassembly) sort() {
	for i := range d.Sections {
		d.Sections[i].sortSymbols()
	}
	sort.SliceStable(d.Sections, func(i, j int) bool {
		return d.Sections[i].Name < d.Sections[j].Name
	})
}

// Render produces the canonical listing: the concatenated section blocks
// in post-sort order, with no surrounding header. File name and format
// are validated during the parse but not re-emitted.
func (d *Disassembly) Render(opts RenderOptions) string {
	var sb strings.Builder
	for _, sec := range d.Sections {
		sec.render(&sb, opts)
	}
	return sb.String()
}

// String returns the opcode-only canonical listing.
func (d *Disassembly) String() string {
	return d.Render(RenderOptions{})
}
