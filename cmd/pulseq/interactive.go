package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/pulseq"
	"github.com/wippyai/pulseq/sequence"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	detailStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	detailWidth   = 44
)

type browserModel struct {
	ctx      context.Context
	err      error
	seq      *sequence.Sequence
	filename string
	notice   string
	blocks   table.Model
	detail   viewport.Model
	jump     textinput.Model
	jumping  bool
}

type loadedMsg struct {
	err error
	seq *sequence.Sequence
}

func newBrowserModel(ctx context.Context, filename string, width, height int) *browserModel {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	jump := textinput.New()
	jump.Prompt = "block id: "
	jump.Placeholder = "1"
	jump.CharLimit = 10
	jump.Width = 12

	m := &browserModel{
		ctx:      ctx,
		filename: filename,
		jump:     jump,
		blocks: table.New(
			table.WithColumns(blockColumns()),
			table.WithFocused(true),
		),
		detail: viewport.New(detailWidth, 1),
	}
	m.resize(width, height)
	return m
}

func blockColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 6},
		{Title: "ms", Width: 9},
		{Title: "RF", Width: 4},
		{Title: "GX", Width: 5},
		{Title: "GY", Width: 5},
		{Title: "GZ", Width: 5},
		{Title: "ADC", Width: 4},
	}
}

func (m *browserModel) Init() tea.Cmd {
	return m.load
}

func (m *browserModel) load() tea.Msg {
	seq, err := pulseq.DecodeFile(m.ctx, m.filename)
	return loadedMsg{seq: seq, err: err}
}

func (m *browserModel) resize(width, height int) {
	// Title, blank line, help line and the jump prompt take four rows.
	body := max(height-4, 3)
	m.blocks.SetHeight(body)
	m.detail.Width = max(width-lipgloss.Width(m.blocks.View())-4, detailWidth)
	m.detail.Height = body - 2
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.seq = msg.seq
		m.blocks.SetRows(blockRows(msg.seq))
		m.showSelected()
		return m, nil

	case tea.KeyMsg:
		if m.jumping {
			return m.updateJump(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "/":
			if m.seq != nil {
				m.jumping = true
				m.notice = ""
				m.jump.SetValue("")
				return m, m.jump.Focus()
			}
			return m, nil
		case "]":
			m.detail.SetYOffset(m.detail.YOffset + 1)
			return m, nil
		case "[":
			m.detail.SetYOffset(m.detail.YOffset - 1)
			return m, nil
		}
	}

	if m.err != nil || m.seq == nil {
		return m, nil
	}

	prev := m.blocks.Cursor()
	var cmd tea.Cmd
	m.blocks, cmd = m.blocks.Update(msg)
	if m.blocks.Cursor() != prev {
		m.showSelected()
	}
	return m, cmd
}

func (m *browserModel) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.jumping = false
		m.jump.Blur()
		return m, nil
	case "enter":
		m.jumping = false
		m.jump.Blur()
		m.jumpTo(m.jump.Value())
		return m, nil
	}

	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

// jumpTo moves the cursor to the block with the given id.
func (m *browserModel) jumpTo(value string) {
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil {
		m.notice = fmt.Sprintf("not a block id: %q", value)
		return
	}
	for i, b := range m.seq.Blocks {
		if uint64(b.ID) == id {
			m.blocks.SetCursor(i)
			m.showSelected()
			m.notice = ""
			return
		}
	}
	m.notice = fmt.Sprintf("no block %d", id)
}

func (m *browserModel) showSelected() {
	i := m.blocks.Cursor()
	if m.seq == nil || i < 0 || i >= len(m.seq.Blocks) {
		m.detail.SetContent("")
		return
	}
	m.detail.SetContent(describeBlock(m.seq.Blocks[i], m.seq.TimeRaster))
	m.detail.GotoTop()
}

func blockRows(seq *sequence.Sequence) []table.Row {
	rows := make([]table.Row, 0, len(seq.Blocks))
	for _, b := range seq.Blocks {
		rf, adc := "-", "-"
		if b.RF != nil {
			rf = "rf"
		}
		if b.ADC != nil {
			adc = "adc"
		}
		rows = append(rows, table.Row{
			strconv.FormatUint(uint64(b.ID), 10),
			fmt.Sprintf("%.3f", b.Duration*1e3),
			rf,
			gradKind(b.GX),
			gradKind(b.GY),
			gradKind(b.GZ),
			adc,
		})
	}
	return rows
}

func gradKind(g sequence.Gradient) string {
	switch g.(type) {
	case *sequence.TrapGradient:
		return "trap"
	case *sequence.FreeGradient:
		return "free"
	default:
		return "-"
	}
}

// describeBlock lists every event of b with its timing in milliseconds.
func describeBlock(b *sequence.Block, raster sequence.TimeRaster) string {
	var s strings.Builder
	fmt.Fprintf(&s, "block %d  %.3f ms\n", b.ID, b.Duration*1e3)
	if b.Ext != 0 {
		fmt.Fprintf(&s, "extension %d\n", b.Ext)
	}

	events := b.Events()
	if len(events) == 0 {
		s.WriteString("\n(delay only)\n")
	}
	for _, ev := range events {
		fmt.Fprintf(&s, "\n%s  %.3f ms\n", eventStyle.Render(string(ev.Type)), ev.Event.Duration(raster)*1e3)
		switch e := ev.Event.(type) {
		case *sequence.Rf:
			fmt.Fprintf(&s, "  amp    %g Hz\n", e.Amp)
			fmt.Fprintf(&s, "  phase  %g rad\n", e.Phase)
			fmt.Fprintf(&s, "  freq   %g Hz\n", e.Freq)
			fmt.Fprintf(&s, "  delay  %.3f ms\n", e.Delay*1e3)
			fmt.Fprintf(&s, "  shape  %d samples\n", e.AmpShape.Len())
			if e.TimeShape != nil {
				fmt.Fprintf(&s, "  time   %d points\n", e.TimeShape.Len())
			}
		case *sequence.TrapGradient:
			fmt.Fprintf(&s, "  amp    %g Hz/m\n", e.Amp)
			fmt.Fprintf(&s, "  delay  %.3f ms\n", e.Delay*1e3)
			fmt.Fprintf(&s, "  ramps  %.3f / %.3f / %.3f ms\n", e.Rise*1e3, e.Flat*1e3, e.Fall*1e3)
		case *sequence.FreeGradient:
			fmt.Fprintf(&s, "  amp    %g Hz/m\n", e.Amp)
			fmt.Fprintf(&s, "  delay  %.3f ms\n", e.Delay*1e3)
			fmt.Fprintf(&s, "  shape  %d samples\n", e.Shape.Len())
			if e.TimeShape != nil {
				fmt.Fprintf(&s, "  time   %d points\n", e.TimeShape.Len())
			}
		case *sequence.Adc:
			fmt.Fprintf(&s, "  num    %d\n", e.Num)
			fmt.Fprintf(&s, "  dwell  %g us\n", e.Dwell*1e6)
			fmt.Fprintf(&s, "  delay  %.3f ms\n", e.Delay*1e3)
			fmt.Fprintf(&s, "  freq   %g Hz\n", e.Freq)
			fmt.Fprintf(&s, "  phase  %g rad\n", e.Phase)
		}
	}
	return s.String()
}

func (m *browserModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.seq == nil {
		return "Loading sequence..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Pulseq"))
	fmt.Fprintf(&b, " %s  %s  %d blocks  %.3f ms\n\n",
		m.filename, versionString(m.seq.Version), len(m.seq.Blocks), m.seq.Duration()*1e3)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.blocks.View(),
		"  ",
		detailStyle.Render(m.detail.View()),
	))
	b.WriteString("\n")

	switch {
	case m.jumping:
		b.WriteString(m.jump.View())
	case m.notice != "":
		b.WriteString(errorStyle.Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • / jump to block • [/] scroll detail • q quit"))
	return b.String()
}

func runInteractive(ctx context.Context, filename string) error {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, height = defaultWidth, defaultHeight
	}
	p := tea.NewProgram(newBrowserModel(ctx, filename, width, height),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err = p.Run()
	return err
}
