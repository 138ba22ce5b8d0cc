package disasm

import (
	"errors"
	"strings"
	"testing"
)

const simpleListing = `
folder/file:     file format some_format


Disassembly of section sec1:

<sym1>:
	opc1
	opc2    %opr1,%opr2
	opc3    %opr3                   # comment1

<sym2>:
    opc4   %opr4  # comment2

Disassembly of section sec2:

<sym3>:
`

func TestParseSimpleListing(t *testing.T) {
	d, err := Parse(simpleListing)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if d.FileName != "folder/file" {
		t.Errorf("FileName = %q, want %q", d.FileName, "folder/file")
	}
	if d.FileFormat != "some_format" {
		t.Errorf("FileFormat = %q, want %q", d.FileFormat, "some_format")
	}
	if len(d.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(d.Sections))
	}

	sec1 := d.Sections[0]
	if sec1.Name != "sec1" {
		t.Errorf("section name = %q, want %q", sec1.Name, "sec1")
	}
	if len(sec1.Symbols) != 2 {
		t.Fatalf("sec1 has %d symbols, want 2", len(sec1.Symbols))
	}
	if sec1.Symbols[0].Name != "<sym1>" {
		t.Errorf("symbol name = %q, want %q", sec1.Symbols[0].Name, "<sym1>")
	}

	wantInsts := []Instruction{
		{Opcode: "opc1"},
		{Opcode: "opc2", Operands: "%opr1,%opr2"},
		{Opcode: "opc3", Operands: "%opr3", Comment: "comment1"},
	}
	got := sec1.Symbols[0].Instructions
	if len(got) != len(wantInsts) {
		t.Fatalf("sym1 has %d instructions, want %d", len(got), len(wantInsts))
	}
	for i, want := range wantInsts {
		if got[i] != want {
			t.Errorf("instruction[%d] = %+v, want %+v", i, got[i], want)
		}
	}

	if got := sec1.Symbols[1].Instructions; len(got) != 1 || got[0] != (Instruction{Opcode: "opc4", Operands: "%opr4", Comment: "comment2"}) {
		t.Errorf("sym2 instructions = %+v", got)
	}

	sec2 := d.Sections[1]
	if sec2.Name != "sec2" || len(sec2.Symbols) != 1 || sec2.Symbols[0].Name != "<sym3>" {
		t.Errorf("sec2 = %+v", sec2)
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, input := range []string{"", "\n", "   \n\t\n  \n"} {
		if _, err := Parse(input); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Parse(%q) error = %v, want ErrEmptyInput", input, err)
		}
	}
}

func TestParseMalformedHeader(t *testing.T) {
	inputs := []string{
		"garbage text",
		"New line with incorrect formatting",
		"file.o: wrong prefix some_format",
	}
	for _, input := range inputs {
		if _, err := Parse(input); !errors.Is(err, ErrMalformedHeader) {
			t.Errorf("Parse(%q) error = %v, want ErrMalformedHeader", input, err)
		}
	}
}

func TestParseUnrecognizedLines(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"section marker with wrong fixed part", "gibberish of section sec1:"},
		{"section name with disallowed char", "Disassembly of section sec%1:"},
		{"symbol missing opening bracket", "sym1>:"},
		{"symbol missing closing bracket and colon", "<sym1"},
		{"instruction without leading whitespace", "opc1 opc2    %opr1,%opr2          # comment1"},
		{"opcode with uppercase letter", "\tOpc1 opc2    %opr1,%opr2          # comment1"},
		{"opcode with punctuation", "\top.c1 %opr1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "f: file format fmt\nDisassembly of section sec1:\n<sym1>:\n" + tt.line + "\n"
			_, err := Parse(input)
			var ul *UnrecognizedLineError
			if !errors.As(err, &ul) {
				t.Fatalf("Parse() error = %v, want UnrecognizedLineError", err)
			}
			if ul.Line != tt.line {
				t.Errorf("offending line = %q, want %q", ul.Line, tt.line)
			}
		})
	}
}

func TestParseSymbolBeforeSection(t *testing.T) {
	input := "f: file format fmt\n\n<sym1>:\n"
	if _, err := Parse(input); !errors.Is(err, ErrMissingSection) {
		t.Errorf("Parse() error = %v, want ErrMissingSection", err)
	}
}

func TestParseInstructionBeforeSection(t *testing.T) {
	input := "f: file format fmt\n\n\topc1\n"
	if _, err := Parse(input); !errors.Is(err, ErrMissingSection) {
		t.Errorf("Parse() error = %v, want ErrMissingSection", err)
	}
}

func TestParseInstructionBeforeSymbol(t *testing.T) {
	input := "f: file format fmt\nDisassembly of section sec1:\n\topc1\n"
	if _, err := Parse(input); !errors.Is(err, ErrMissingSymbol) {
		t.Errorf("Parse() error = %v, want ErrMissingSymbol", err)
	}
}

func TestSortSectionsAndSymbols(t *testing.T) {
	input := `f: file format fmt
Disassembly of section abb:
<zsym1>:
<asym2>:
<bsym4>:
<bsym3>:
Disassembly of section aaa:
<sym3>:
<sym1>:
Disassembly of section adc:
Disassembly of section abc:
Disassembly of section acc:
`
	d, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var sections []string
	for _, sec := range d.Sections {
		sections = append(sections, sec.Name)
	}
	wantSections := []string{"aaa", "abb", "abc", "acc", "adc"}
	if strings.Join(sections, ",") != strings.Join(wantSections, ",") {
		t.Errorf("section order = %v, want %v", sections, wantSections)
	}

	var symbols []string
	for _, sym := range d.Sections[1].Symbols {
		symbols = append(symbols, sym.Name)
	}
	wantSymbols := []string{"<asym2>", "<bsym3>", "<bsym4>", "<zsym1>"}
	if strings.Join(symbols, ",") != strings.Join(wantSymbols, ",") {
		t.Errorf("symbol order = %v, want %v", symbols, wantSymbols)
	}
}

func TestSortIsStableAndIdempotent(t *testing.T) {
	d := &Disassembly{Sections: []Section{
		{Name: "sec", Symbols: []Symbol{
			{Name: "<dup>", Instructions: []Instruction{{Opcode: "first"}}},
			{Name: "<aaa>"},
			{Name: "<dup>", Instructions: []Instruction{{Opcode: "second"}}},
		}},
	}}
	d.sort()
	once := d.String()
	d.sort()
	if twice := d.String(); twice != once {
		t.Errorf("second sort changed rendering:\n%s\nvs:\n%s", twice, once)
	}

	syms := d.Sections[0].Symbols
	if syms[1].Instructions[0].Opcode != "first" || syms[2].Instructions[0].Opcode != "second" {
		t.Errorf("duplicate symbols reordered: %+v", syms)
	}
}

func TestRenderCanonical(t *testing.T) {
	input := "f: file format fmt\nDisassembly of section sec1:\n<sym1>:\n\topc1\n\topc2 op1,op2\n"
	d, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := "sec1:\n    <sym1>:\n        opc1\n        opc2\n"
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRenderOptions(t *testing.T) {
	d, err := Parse(simpleListing)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	full := d.Render(RenderOptions{Operands: true, Comments: true})
	if !strings.Contains(full, "opc3 %opr3 # comment1") {
		t.Errorf("full render missing operands and comment:\n%s", full)
	}
	if !strings.Contains(full, "opc1\n") {
		t.Errorf("bare opcode rendered with trailing junk:\n%s", full)
	}

	operandsOnly := d.Render(RenderOptions{Operands: true})
	if strings.Contains(operandsOnly, "comment1") {
		t.Errorf("operands-only render leaked a comment:\n%s", operandsOnly)
	}

	renamed := d.Render(RenderOptions{SymbolName: func(name string) string {
		return strings.ToUpper(name)
	}})
	if !strings.Contains(renamed, "<SYM1>:") {
		t.Errorf("symbol transform not applied:\n%s", renamed)
	}
}

func TestRenderDeterministic(t *testing.T) {
	first, err := Parse(simpleListing)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	second, err := Parse(simpleListing)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if first.String() != second.String() {
		t.Error("same input rendered differently across parses")
	}
}

func TestSectionOrderIndependentOfInput(t *testing.T) {
	a, err := Parse("f: file format fmt\nDisassembly of section bbb:\nDisassembly of section aaa:\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got, want := a.String(), "aaa:\nbbb:\n"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("boom")
}

func TestReadSourceFailure(t *testing.T) {
	if _, err := Read(failingReader{}); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Read() error = %v, want wrapped read failure", err)
	}
}

func TestParseMultiWordOpcode(t *testing.T) {
	input := "f: file format fmt\nDisassembly of section .plt:\n<_init>:\n\tbnd jmp <_init+0x20>\n"
	d, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	in := d.Sections[0].Symbols[0].Instructions[0]
	if in.Opcode != "bnd jmp" || in.Operands != "<_init+0x20>" {
		t.Errorf("instruction = %+v, want multi-word opcode with operands", in)
	}
}

func TestParseIndentedSymbolMarker(t *testing.T) {
	// Marker checks run on the trimmed line, so indentation does not
	// demote a symbol marker to an instruction.
	input := "f: file format fmt\nDisassembly of section sec1:\n  <sym1>:\n\tret\n"
	d, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.Sections[0].Symbols[0].Name != "<sym1>" {
		t.Errorf("symbol = %q, want <sym1>", d.Sections[0].Symbols[0].Name)
	}
}
