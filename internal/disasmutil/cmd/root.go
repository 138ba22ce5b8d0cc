package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/ianlancetaylor/demangle"
	"github.com/spf13/cobra"

	"disasmutil/internal/disasm"
	dlog "disasmutil/internal/disasmutil/log"
	"disasmutil/internal/logging"
	"disasmutil/internal/objdump"
	"disasmutil/internal/ui/colorize"
)

var rootCmd = &cobra.Command{
	Use:   "disasmutil <obj-file>",
	Short: "Normalize disassembler output for build diffing",
	Long: `Disasmutil runs objdump over an object file and rewrites the listing
into a normalized, address-free form: sections and symbols sorted by name,
instructions reduced to their mnemonics. The result is stable across
builds, so two listings can be diffed without address or register noise.`,
	Example: `
# Normalize a shared library to stdout
disasmutil libfoo.so

# Use a cross toolchain's objdump and keep operands
disasmutil -e aarch64-linux-gnu-objdump --operands libfoo.so

# Write the canonical listing to a file
disasmutil -o baseline.txt libfoo.so
  `,
	Args: cobra.ExactArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		dlog.Setup(debug || logging.IsDebug())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cpuprofile, _ := cmd.Flags().GetString("cpuprofile")
		if cpuprofile != "" {
			f, err := os.Create(cpuprofile)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %v", err)
			}
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %v", err)
			}
			defer pprof.StopCPUProfile()
		}

		d, err := disassembleFile(cmd, args[0])
		if err != nil {
			return err
		}
		return writeListing(cmd, d)
	},
}

// disassembleFile runs the configured disassembler on an object file and
// parses the captured listing.
func disassembleFile(cmd *cobra.Command, objFile string) (*disasm.Disassembly, error) {
	lg := logging.NewLogger()
	defer lg.Close()

	exe, _ := cmd.Flags().GetString("executable")
	lg.Debug("running disassembler", "executable", exe, "file", objFile)

	start := time.Now()
	text, err := objdump.Runner{Executable: exe}.Disassemble(cmd.Context(), objFile)
	if err != nil {
		return nil, err
	}

	d, err := disasm.Parse(text)
	if err != nil {
		return nil, err
	}
	lg.Debug("parsed listing",
		"format", d.FileFormat,
		"sections", len(d.Sections),
		"elapsed", time.Since(start))
	return d, nil
}

// renderOptions builds the render configuration from the shared output
// flags.
func renderOptions(cmd *cobra.Command) disasm.RenderOptions {
	operands, _ := cmd.Flags().GetBool("operands")
	comments, _ := cmd.Flags().GetBool("comments")
	dem, _ := cmd.Flags().GetBool("demangle")

	opts := disasm.RenderOptions{Operands: operands, Comments: comments}
	if dem {
		opts.SymbolName = demangleSymbol
	}
	return opts
}

// demangleSymbol rewrites a bracketed symbol name through the demangler,
// keeping the angle-bracket framing intact.
func demangleSymbol(name string) string {
	inner := strings.TrimSuffix(strings.TrimPrefix(name, "<"), ">")
	if d := demangle.Filter(inner); d != "" {
		inner = d
	}
	return "<" + inner + ">"
}

// writeListing renders the tree and hands it to the configured
// destination: a file with -o, otherwise stdout, colorized when stdout is
// a terminal.
func writeListing(cmd *cobra.Command, d *disasm.Disassembly) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	outPath, _ := cmd.Flags().GetString("out")

	var out string
	if asJSON {
		bts, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding listing as JSON: %w", err)
		}
		out = string(bts) + "\n"
	} else {
		out = d.Render(renderOptions(cmd))
	}

	if outPath != "" {
		return os.WriteFile(outPath, []byte(out), 0o644)
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	if !asJSON && !noColor && colorize.Enabled() && term.IsTerminal(os.Stdout.Fd()) {
		if colored, err := colorize.ColorizeListing(out); err == nil {
			out = colored
		}
	}
	_, err := fmt.Fprint(os.Stdout, out)
	return err
}

func init() {
	rootCmd.PersistentFlags().StringP("executable", "e", "", "Objdump executable to use (default: objdump from PATH)")
	rootCmd.PersistentFlags().StringP("out", "o", "", "Place the output into a file instead of stdout")
	rootCmd.PersistentFlags().Bool("operands", false, "Keep instruction operands in the output")
	rootCmd.PersistentFlags().Bool("comments", false, "Keep trailing comments in the output")
	rootCmd.PersistentFlags().Bool("demangle", false, "Demangle symbol names")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Emit the parsed tree as JSON")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colorized terminal output")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().String("cpuprofile", "", "Write CPU profile to file")
}

func Execute() {
	// Bypass fang's markdown help rendering when output is being piped,
	// so listings stay byte-exact for diff tooling
	if !term.IsTerminal(os.Stdout.Fd()) {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
