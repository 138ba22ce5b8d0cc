package disasm

import (
	"errors"
	"testing"
)

func TestSectionRender(t *testing.T) {
	sec := NewSection("  abb ")
	if sec.Name != "abb" {
		t.Fatalf("NewSection did not trim name: %q", sec.Name)
	}

	sym := NewSymbol("<zsym2>")
	sec.addSymbol(sym)
	for _, in := range []Instruction{
		{Opcode: "opc1"},
		{Opcode: "opc2", Operands: "opr1,opr2"},
		{Opcode: "opc4", Operands: "opr3", Comment: "comment1"},
	} {
		if err := sec.addInstruction(in); err != nil {
			t.Fatalf("addInstruction() error = %v", err)
		}
	}
	sec.addSymbol(NewSymbol("<asym1>"))

	want := "abb:\n" +
		"    <zsym2>:\n" +
		"        opc1\n" +
		"        opc2\n" +
		"        opc4\n" +
		"    <asym1>:\n"
	if got := sec.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestSectionRenderEmpty(t *testing.T) {
	sec := NewSection("abc")
	if got := sec.String(); got != "abc:\n" {
		t.Errorf("String() = %q, want %q", got, "abc:\n")
	}
}

func TestSectionInstructionWithoutSymbol(t *testing.T) {
	sec := NewSection("sec")
	if err := sec.addInstruction(Instruction{Opcode: "nop"}); !errors.Is(err, ErrMissingSymbol) {
		t.Errorf("addInstruction() error = %v, want ErrMissingSymbol", err)
	}
}

func TestSymbolRender(t *testing.T) {
	sym := NewSymbol(" <sym> ")
	if sym.Name != "<sym>" {
		t.Fatalf("NewSymbol did not trim name: %q", sym.Name)
	}
	sym.addInstruction(Instruction{Opcode: "nop"})
	sym.addInstruction(Instruction{Opcode: "ret"})

	want := "<sym>:\n    nop\n    ret\n"
	if got := sym.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestInstructionRender(t *testing.T) {
	in := Instruction{Opcode: "mov", Operands: "-0x1198(%rbp),%rax", Comment: "load"}
	if got := in.String(); got != "mov\n" {
		t.Errorf("String() = %q, want %q", got, "mov\n")
	}
}

func TestEmptyNamesSortFirst(t *testing.T) {
	d := &Disassembly{Sections: []Section{
		NewSection("zzz"),
		NewSection(""),
	}}
	d.sort()
	if d.Sections[0].Name != "" {
		t.Errorf("empty section name did not sort first: %v", d.Sections)
	}
}
