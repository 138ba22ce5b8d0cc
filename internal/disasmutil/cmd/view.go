package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/spf13/cobra"

	"disasmutil/internal/disasm"
	"disasmutil/internal/disasmutil/styles"
	"disasmutil/internal/ui/colorize"
)

type viewMode int

const (
	viewInfo viewMode = iota
	viewSymbols
	viewListing
)

// symbolEntry is one selectable symbol in the browser, carrying its
// pre-rendered listing block.
type symbolEntry struct {
	section    string
	name       string
	demangled  string
	filterTerm string
	block      string
}

func (e symbolEntry) Title() string       { return fmt.Sprintf("%s  %s", e.section, e.demangled) }
func (e symbolEntry) Description() string { return "" }
func (e symbolEntry) FilterValue() string { return e.filterTerm }

// Custom item delegate for the symbols list
type entryDelegate struct{}

func (d entryDelegate) Height() int                               { return 1 }
func (d entryDelegate) Spacing() int                              { return 0 }
func (d entryDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d entryDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	e, ok := listItem.(symbolEntry)
	if !ok {
		return
	}

	indicator := " "
	secStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	if index == m.Index() {
		indicator = ">"
		secStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	}

	fmt.Fprintf(w, " %s  %s  %s", indicator, secStyle.Render(e.section), e.demangled)
}

type viewModel struct {
	symbolsList list.Model
	viewport    viewport.Model
	mode        viewMode
	dis         *disasm.Disassembly
	source      string
	width       int
	height      int
}

func newViewModel(d *disasm.Disassembly, opts disasm.RenderOptions, source string) viewModel {
	items := make([]list.Item, 0)
	for _, sec := range d.Sections {
		for _, sym := range sec.Symbols {
			name := sym.Name
			if opts.SymbolName != nil {
				name = opts.SymbolName(name)
			}
			items = append(items, symbolEntry{
				section:    sec.Name,
				name:       sym.Name,
				demangled:  name,
				filterTerm: sec.Name + " " + name,
				block:      sym.Render(opts),
			})
		}
	}

	symbolsList := list.New(items, entryDelegate{}, 80, 24)
	symbolsList.SetShowStatusBar(false)
	symbolsList.SetFilteringEnabled(true)
	symbolsList.Title = fmt.Sprintf("Symbols (%d total)", len(items))
	symbolsList.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		MarginLeft(2)
	symbolsList.SetShowHelp(true)

	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(24)

	m := viewModel{
		symbolsList: symbolsList,
		viewport:    vp,
		mode:        viewInfo,
		dis:         d,
		source:      source,
		width:       80,
		height:      24,
	}
	m.updateInfoContent()
	return m
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.width = msg.Width
			m.height = msg.Height
			m.viewport.SetWidth(msg.Width)
			m.viewport.SetHeight(msg.Height - 2)
			m.symbolsList.SetWidth(msg.Width)
			m.symbolsList.SetHeight(msg.Height - 2)
			if m.mode == viewInfo {
				m.updateInfoContent()
			}
		}

	case tea.KeyMsg:
		// When the list is filtering, only quit keys are intercepted
		if m.mode == viewSymbols && m.symbolsList.FilterState() == list.Filtering {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			}
			break
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "i":
			m.mode = viewInfo
			m.updateInfoContent()
			return m, nil
		case "s":
			m.mode = viewSymbols
			return m, nil
		case "esc":
			if m.mode == viewListing {
				m.mode = viewSymbols
			}
			return m, nil
		case "tab":
			switch m.mode {
			case viewInfo:
				m.mode = viewSymbols
			case viewSymbols:
				m.mode = viewInfo
				m.updateInfoContent()
			case viewListing:
				m.mode = viewSymbols
			}
			return m, nil
		case "enter":
			if m.mode == viewSymbols {
				if selected := m.symbolsList.SelectedItem(); selected != nil {
					if e, ok := selected.(symbolEntry); ok {
						m.mode = viewListing
						m.viewport.SetContent(colorizeBlock(e.block))
						m.viewport.GotoTop()
					}
				}
			}
			return m, nil
		}
	}

	switch m.mode {
	case viewSymbols:
		m.symbolsList, cmd = m.symbolsList.Update(msg)
	default:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m viewModel) View() string {
	var content string
	switch m.mode {
	case viewSymbols:
		content = m.symbolsList.View()
	default:
		content = m.viewport.View()
	}

	var menu string
	switch m.mode {
	case viewSymbols:
		menu = " Enter: view listing • I: info • Tab: cycle • Q: quit "
	case viewListing:
		menu = " Esc: back • I: info • S: symbols • Q: quit "
	default:
		menu = " S: symbols • Tab: cycle • Q: quit "
	}

	menuStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1).
		Width(m.width)

	return content + "\n" + menuStyle.Render(menu)
}

// updateInfoContent renders the summary page: source, header metadata and
// tree counts.
func (m *viewModel) updateInfoContent() {
	symbols, instructions := 0, 0
	for _, sec := range m.dis.Sections {
		symbols += len(sec.Symbols)
		for _, sym := range sec.Symbols {
			instructions += len(sym.Instructions)
		}
	}

	var md strings.Builder
	md.WriteString("# Disasmutil\n\n```\n")
	fmt.Fprintf(&md, "; %s\n", m.source)
	fmt.Fprintf(&md, "; %s, file format %s\n", m.dis.FileName, m.dis.FileFormat)
	fmt.Fprintf(&md, ";\n; %d sections, %d symbols, %d instructions\n",
		len(m.dis.Sections), symbols, instructions)
	md.WriteString("```\n\n## Sections\n\n")
	for _, sec := range m.dis.Sections {
		fmt.Fprintf(&md, "- `%s` (%d symbols)\n", sec.Name, len(sec.Symbols))
	}

	width := m.width
	if width == 0 {
		width = 80
	}
	renderer := styles.GetMarkdownRenderer(width - 2)
	rendered, _ := renderer.Render(md.String())
	m.viewport.SetContent(strings.TrimSuffix(rendered, "\n"))
}

// colorizeBlock highlights a symbol's listing block line by line so the
// indentation that encodes the tree shape survives.
func colorizeBlock(block string) string {
	lines := strings.Split(strings.TrimSuffix(block, "\n"), "\n")
	for i, line := range lines {
		lines[i] = colorize.ColorizeLine(line)
	}
	return strings.Join(lines, "\n")
}

var viewCmd = &cobra.Command{
	Use:   "view <obj-file|listing-file>",
	Short: "Browse a normalized listing interactively",
	Long: `View opens an interactive browser over the normalized listing: a
filterable symbol index and a per-symbol instruction view. The argument
may be an object file (disassembled on the fly) or a previously captured
listing, detected by its header line.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var d *disasm.Disassembly
		var err error
		if isListingFile(args[0]) {
			var f *os.File
			if f, err = os.Open(args[0]); err != nil {
				return fmt.Errorf("opening listing: %w", err)
			}
			d, err = disasm.Read(f)
			f.Close()
		} else {
			d, err = disassembleFile(cmd, args[0])
		}
		if err != nil {
			return err
		}

		program := tea.NewProgram(
			newViewModel(d, renderOptions(cmd), args[0]),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)
		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %v", err)
		}
		return nil
	},
}

// isListingFile sniffs whether path already holds captured disassembler
// text rather than an object file, by looking for the header line.
func isListingFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	sc := bufio.NewScanner(io.LimitReader(f, 4096))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		return strings.Contains(line, "file format ")
	}
	return false
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
