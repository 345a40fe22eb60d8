package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	pathpkg "path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"sim8086/internal/config"
	"sim8086/internal/decoder"
	"sim8086/internal/disasm"
	"sim8086/internal/image"
	"sim8086/internal/sim8086/styles"
	"sim8086/internal/ui/colorize"
)

type viewMode int

const (
	viewListing viewMode = iota
	viewInstructions
	viewDetails
)

type instItem struct {
	inst disasm.Inst
}

func (i instItem) Title() string       { return fmt.Sprintf("%04x  %s", i.inst.Offset, i.inst.Text()) }
func (i instItem) Description() string { return i.inst.Instruction.Form.String() }
func (i instItem) FilterValue() string { return i.inst.Text() }

type itemDelegate struct {
	noColor bool
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(instItem)
	if !ok {
		return
	}

	indicator := " "
	offsetStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	if index == m.Index() {
		indicator = ">"
		offsetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	}
	bytesStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(styles.Muted))

	text := i.inst.Text()
	if !d.noColor {
		text = colorize.Line(text)
	}

	fmt.Fprintf(w, " %s  %s  %-14s %s",
		indicator,
		offsetStyle.Render(fmt.Sprintf("%04x", i.inst.Offset)),
		bytesStyle.Render(i.inst.Hex()),
		text)
}

type model struct {
	viewport    viewport.Model
	instList    list.Model
	detailsView viewport.Model
	spinner     spinner.Model
	mode        viewMode
	filepath    string
	cfg         config.Config
	opts        []disasm.Option
	image       *image.Image
	stream      disasm.Stream
	decodeErr   error
	loadErr     error
	loading     bool
	width       int
	height      int
}

// decodedMsg carries the result of loading and decoding the file.
type decodedMsg struct {
	image     *image.Image
	stream    disasm.Stream
	decodeErr error
	loadErr   error
}

func decodeFileCmd(path string, opts ...disasm.Option) tea.Cmd {
	return func() tea.Msg {
		im, err := image.Open(path)
		if err != nil {
			return decodedMsg{loadErr: err}
		}
		stream, err := disasm.Disassemble(im.Bytes, opts...)
		return decodedMsg{image: im, stream: stream, decodeErr: err}
	}
}

func NewModel(filepath string, cfg config.Config, opts ...disasm.Option) model {
	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(24)

	instList := list.New([]list.Item{}, itemDelegate{noColor: cfg.NoColor}, 80, 24)
	instList.SetShowStatusBar(false)
	instList.SetFilteringEnabled(true)
	instList.Title = "Instructions"
	instList.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		MarginLeft(2)
	instList.SetShowHelp(true)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

	dvp := viewport.New()
	dvp.SetWidth(80)
	dvp.SetHeight(24)

	m := model{
		viewport:    vp,
		instList:    instList,
		detailsView: dvp,
		spinner:     s,
		mode:        viewListing,
		filepath:    filepath,
		cfg:         cfg,
		opts:        opts,
		loading:     true,
		width:       80,
		height:      24,
	}
	m.updateContent()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		decodeFileCmd(m.filepath, m.opts...),
		m.spinner.Tick,
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case decodedMsg:
		m.loading = false
		m.image = msg.image
		m.stream = msg.stream
		m.decodeErr = msg.decodeErr
		m.loadErr = msg.loadErr
		m.updateInstList()
		m.updateContent()
		if len(m.stream) > 0 {
			m.updateDetails(m.stream[0])
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		m.updateContent()
		return m, cmd

	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.width = msg.Width
			m.height = msg.Height
			m.viewport.SetWidth(msg.Width)
			m.viewport.SetHeight(msg.Height - 2)
			m.instList.SetWidth(msg.Width)
			m.instList.SetHeight(msg.Height - 2)
			m.detailsView.SetWidth(msg.Width)
			m.detailsView.SetHeight(msg.Height - 2)
			m.updateContent()
		}

	case tea.KeyMsg:
		// the filter input gets every key but quit
		if m.mode == viewInstructions && m.instList.FilterState() == list.Filtering {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			break
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "l":
			m.mode = viewListing
			return m, nil
		case "i":
			if len(m.stream) > 0 {
				m.mode = viewInstructions
			}
			return m, nil
		case "enter":
			if m.mode == viewInstructions {
				if item, ok := m.instList.SelectedItem().(instItem); ok {
					m.updateDetails(item.inst)
					m.mode = viewDetails
				}
				return m, nil
			}
		case "esc":
			if m.mode == viewDetails {
				m.mode = viewInstructions
				return m, nil
			}
		case "tab":
			m.mode = m.nextMode(1)
			return m, nil
		case "shift+tab":
			m.mode = m.nextMode(-1)
			return m, nil
		}
	}

	switch m.mode {
	case viewInstructions:
		m.instList, cmd = m.instList.Update(msg)
	case viewDetails:
		m.detailsView, cmd = m.detailsView.Update(msg)
	default:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// nextMode cycles through the views; the instruction views need a
// decoded instruction.
func (m model) nextMode(step int) viewMode {
	if len(m.stream) == 0 {
		return viewListing
	}
	const n = 3
	return viewMode((int(m.mode) + step + n) % n)
}

func (m model) View() string {
	var content string
	var menu string
	switch m.mode {
	case viewInstructions:
		content = m.instList.View()
		menu = " Enter: details • L: listing • Tab: cycle • Q: quit "
	case viewDetails:
		content = m.detailsView.View()
		menu = " Esc: instructions • L: listing • Tab: cycle • Q: quit "
	default:
		content = m.viewport.View()
		if len(m.stream) > 0 {
			menu = " I: instructions • Tab: cycle • Q: quit "
		} else {
			menu = " Q: quit "
		}
	}

	menuStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1).
		Width(m.width)

	return content + "\n" + menuStyle.Render(menu)
}

func (m *model) renderMarkdown(markdown string) string {
	width := m.width
	if width == 0 {
		width = 80
	}
	return strings.TrimSuffix(styles.Render(markdown, width-2), "\n")
}

// updateContent rebuilds the listing view: a header with the file facts
// followed by the listing.
func (m *model) updateContent() {
	relPath := m.filepath
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := pathpkg.Rel(cwd, m.filepath); err == nil {
			relPath = rel
		}
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("; %s", relPath))
	if m.image != nil {
		if m.image.Kind != image.KindRaw {
			lines = append(lines, fmt.Sprintf("; %s member %s", m.image.Kind, m.image.Member))
		}
		lines = append(lines, fmt.Sprintf("; %s", m.image.Digest))
		lines = append(lines, fmt.Sprintf("; %d bytes, %d instructions", m.image.Size(), len(m.stream)))
	}
	markdown := fmt.Sprintf("# sim8086\n\n```\n%s\n```", strings.Join(lines, "\n"))

	if m.loading {
		markdown += fmt.Sprintf("\n\n%s Decoding...", m.spinner.View())
	}
	if m.loadErr != nil {
		markdown += fmt.Sprintf("\n\n## Error\n\n`%s`", m.loadErr)
	}

	header := m.renderMarkdown(markdown)
	if m.loading || m.loadErr != nil {
		m.viewport.SetContent(header)
		return
	}

	var listing strings.Builder
	sink := &disasm.TextSink{Lowercase: m.cfg.Lowercase, ShowBytes: m.cfg.ShowBytes}
	if m.cfg.Header {
		listing.WriteString("bits 16\n\n")
	}
	for _, inst := range m.stream {
		listing.WriteString(sink.Line(inst))
		listing.WriteByte('\n')
	}
	if m.decodeErr != nil {
		fmt.Fprintf(&listing, "; %v\n", m.decodeErr)
	}

	body := listing.String()
	if !m.cfg.NoColor {
		body, _ = colorize.Listing(body)
	}
	m.viewport.SetContent(header + "\n\n" + strings.TrimSuffix(body, "\n"))
}

func (m *model) updateInstList() {
	items := make([]list.Item, 0, len(m.stream))
	for _, inst := range m.stream {
		items = append(items, instItem{inst: inst})
	}
	m.instList.SetItems(items)
}

// updateDetails shows the encoding of one instruction.
func (m *model) updateDetails(inst disasm.Inst) {
	in := inst.Instruction

	var b strings.Builder
	fmt.Fprintf(&b, "# %04x\n\n```nasm\n%s\n```\n\n", inst.Offset, inst.Text())
	b.WriteString("| Field | Value |\n| --- | --- |\n")
	fmt.Fprintf(&b, "| Bytes | `%s` |\n", inst.Hex())
	if len(inst.Raw) > 0 {
		fmt.Fprintf(&b, "| Opcode | `%08b` |\n", inst.Raw[0])
	}
	fmt.Fprintf(&b, "| Form | %s |\n", in.Form)
	fmt.Fprintf(&b, "| Width | %s |\n", in.Width)
	fmt.Fprintf(&b, "| Destination | `%s` |\n", in.Dst)
	fmt.Fprintf(&b, "| Source | `%s` |\n", in.Src)

	if m.decodeErr != nil && inst.Offset == m.stream[len(m.stream)-1].Offset {
		var de *decoder.DecodeError
		if errors.As(m.decodeErr, &de) {
			fmt.Fprintf(&b, "\nDecoding stopped after this instruction: %s at `%04x`.\n", de.Stage, de.Offset)
		}
	}

	m.detailsView.SetContent(m.renderMarkdown(b.String()))
	m.detailsView.GotoTop()
}
