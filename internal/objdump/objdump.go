// Package objdump invokes the external disassembler and captures its
// textual output for the parser.
package objdump

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultExecutable is used when no explicit objdump path is configured.
const DefaultExecutable = "objdump"

// fixedFlags produce the addressless, raw-byte-free listing the parser's
// grammar is written against.
var fixedFlags = []string{"-d", "--no-addresses", "--no-show-raw-insn"}

// Runner runs an objdump-compatible disassembler over object files.
// The zero value uses DefaultExecutable from PATH.
type Runner struct {
	Executable string
}

// Disassemble runs the disassembler on objFile and returns its stdout.
// Any output on the tool's error channel is fatal, even when the process
// exits cleanly: objdump reports unreadable or non-object inputs that way.
func (r Runner) Disassemble(ctx context.Context, objFile string) (string, error) {
	exe := r.Executable
	if exe == "" {
		exe = DefaultExecutable
	}

	args := append(append([]string{}, fixedFlags...), objFile)
	cmd := exec.CommandContext(ctx, exe, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("objdump: %q was not found, check your PATH or pass --executable", exe)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("objdump: %s", msg)
		}
		return "", fmt.Errorf("objdump: running %s: %w", exe, err)
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return "", fmt.Errorf("objdump: %s", msg)
	}
	return stdout.String(), nil
}
