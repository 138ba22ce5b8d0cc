package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"disasmutil/internal/disasm"
)

var parseCmd = &cobra.Command{
	Use:   "parse [listing-file]",
	Short: "Normalize a previously captured listing",
	Long: `Parse reads disassembler output that was captured earlier (for example
with "objdump -d --no-addresses --no-show-raw-insn > listing.txt") and
emits the normalized form. Reads from stdin when no file is given, so it
slots into pipelines on machines without the disassembler installed.`,
	Example: `
# Normalize a captured listing
disasmutil parse listing.txt

# Same, from a pipeline
objdump -d --no-addresses --no-show-raw-insn libfoo.so | disasmutil parse
  `,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening listing: %w", err)
			}
			defer f.Close()
			in = f
		}

		d, err := disasm.Read(in)
		if err != nil {
			return err
		}
		return writeListing(cmd, d)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
