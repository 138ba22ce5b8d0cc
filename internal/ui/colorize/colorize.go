// Package colorize applies syntax highlighting to normalized disassembly
// listings for terminal output.
package colorize

import (
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// getListingLexer returns an assembly lexer with fallbacks
func getListingLexer() chroma.Lexer {
	// The canonical listing is mnemonic-only GNU syntax, so try GAS first
	candidates := []string{"gas", "GAS", "Gas", "armasm", "nasm"}
	for _, name := range candidates {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

// getListingStyle returns the listing style with fallbacks
func getListingStyle() *chroma.Style {
	// Try our custom style first, then fallbacks
	candidates := []string{"listing-dark", "dracula", "monokai"}
	for _, name := range candidates {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter
func getTerminalFormatter() chroma.Formatter {
	// Try high-color first, then fallback
	candidates := []string{"terminal16m", "terminal256"}
	for _, name := range candidates {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// Enabled reports whether colorized output is allowed at all.
func Enabled() bool {
	return os.Getenv("DISASMUTIL_NO_COLOR") == ""
}

// ColorizeListing applies syntax highlighting to a whole canonical listing.
// Returns the input unchanged when colors are disabled or no lexer is
// available.
func ColorizeListing(code string) (string, error) {
	if !Enabled() {
		return code, nil
	}

	lexer := getListingLexer()
	if lexer == nil {
		return code, nil
	}

	// Make sure our custom style is registered
	_ = ListingDark

	style := getListingStyle()
	formatter := getTerminalFormatter()

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code, err
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code, err
	}

	return buf.String(), nil
}

// ColorizeLine colorizes a single listing line while preserving its
// indentation, used by the interactive viewer where lines are styled one
// at a time.
func ColorizeLine(line string) string {
	if !Enabled() {
		return line
	}

	trimmed := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(trimmed)]

	colorized, err := ColorizeListing(trimmed)
	if err != nil {
		return line
	}
	return indent + strings.TrimSuffix(colorized, "\n")
}
