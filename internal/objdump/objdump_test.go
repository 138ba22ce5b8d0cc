package objdump

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// fakeTool writes a shell script standing in for objdump.
func fakeTool(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-objdump")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDisassembleCapturesStdout(t *testing.T) {
	tool := fakeTool(t, `printf 'f: file format fmt\nDisassembly of section sec1:\n'`)

	out, err := Runner{Executable: tool}.Disassemble(context.Background(), "ignored.o")
	if err != nil {
		t.Fatalf("Disassemble() error = %v", err)
	}
	if !strings.HasPrefix(out, "f: file format fmt\n") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestDisassembleStderrIsFatal(t *testing.T) {
	// Exit status zero with stderr output still fails, matching how
	// objdump reports unreadable inputs.
	tool := fakeTool(t, `printf 'partial\n'; echo 'cannot read input' >&2; exit 0`)

	_, err := Runner{Executable: tool}.Disassemble(context.Background(), "ignored.o")
	if err == nil || !strings.Contains(err.Error(), "cannot read input") {
		t.Errorf("Disassemble() error = %v, want stderr text surfaced", err)
	}
}

func TestDisassembleNonzeroExit(t *testing.T) {
	tool := fakeTool(t, `echo 'no such file' >&2; exit 1`)

	_, err := Runner{Executable: tool}.Disassemble(context.Background(), "missing.o")
	if err == nil || !strings.Contains(err.Error(), "no such file") {
		t.Errorf("Disassemble() error = %v, want stderr text surfaced", err)
	}
}

func TestDisassembleMissingExecutable(t *testing.T) {
	r := Runner{Executable: filepath.Join(t.TempDir(), "does-not-exist")}
	_, err := r.Disassemble(context.Background(), "ignored.o")
	if err == nil {
		t.Fatal("Disassemble() succeeded with a missing executable")
	}
}

func TestDisassemblePassesFixedFlags(t *testing.T) {
	tool := fakeTool(t, `echo "$@"`)

	out, err := Runner{Executable: tool}.Disassemble(context.Background(), "some.o")
	if err != nil {
		t.Fatalf("Disassemble() error = %v", err)
	}
	want := "-d --no-addresses --no-show-raw-insn some.o"
	if strings.TrimSpace(out) != want {
		t.Errorf("args = %q, want %q", strings.TrimSpace(out), want)
	}
}
