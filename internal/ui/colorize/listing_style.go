package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

func init() {
	// Register our custom listing style on package initialization
	_ = ListingDark
}

// ListingDark is a custom style for normalized listings. Labels carry the
// structure in an address-free listing, so they get the strongest color.
var ListingDark = styles.Register(chroma.MustNewStyle("listing-dark", chroma.StyleEntries{
	chroma.Text:       "#FFFFFF",    // Default text white
	chroma.Background: "bg:#1e1e1e", // Dark background
	chroma.Comment:    "#7C7C7C",    // Trailing comments in gray

	chroma.Keyword:       "#8BE9FD", // Mnemonics in light blue
	chroma.KeywordPseudo: "#8BE9FD", // Pseudo instructions the same
	chroma.Name:          "#7C9C9D", // Operand names (registers) in teal
	chroma.NameBuiltin:   "#7C9C9D", // Builtin names (sp, lr) in teal
	chroma.NameVariable:  "#7C9C9D", // Variables/registers in teal

	chroma.LiteralNumber:        "#FF5F87", // Decimal literals in pink
	chroma.LiteralNumberHex:     "#FF5F87", // Hex literals in pink
	chroma.LiteralNumberInteger: "#FF5F87", // Integer literals in pink

	chroma.NameLabel:    "#FFD700", // Section and symbol headers in gold
	chroma.NameFunction: "#8BE9FD", // Mnemonics tokenized as functions

	chroma.Operator:    "#FFFFFF", // Operators in white
	chroma.Punctuation: "#FFFFFF", // Punctuation in white
}))
