// Package pager displays text page by page, for reviewing hook scripts
// before approving them.
//
// Inside a terminal the pager is a small scrollable view; keys j/k or the
// arrows scroll by line, space and b by page, q or enter dismiss. When
// stderr is not a terminal the text is written out directly so piped and
// scripted invocations never block.
package pager

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"

	"github.com/rice-configs/ricer/internal/ui/styles"
)

type pagerModel struct {
	title  string
	lines  []string
	offset int
	width  int
	height int
	done   bool
}

// visible returns how many content lines fit under the title and footer.
func (m pagerModel) visible() int {
	h := m.height - 2
	if h < 1 {
		h = 10
	}
	return h
}

func (m pagerModel) maxOffset() int {
	max := len(m.lines) - m.visible()
	if max < 0 {
		max = 0
	}
	return max
}

func (m pagerModel) Init() tea.Cmd {
	return nil
}

func (m pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.offset > m.maxOffset() {
			m.offset = m.maxOffset()
		}
		return m, nil
	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "esc", "enter", "ctrl+c":
			m.done = true
			return m, tea.Quit
		case "down", "j":
			if m.offset < m.maxOffset() {
				m.offset++
			}
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
		case " ", "space", "pgdown", "f":
			m.offset += m.visible()
			if m.offset > m.maxOffset() {
				m.offset = m.maxOffset()
			}
		case "b", "pgup":
			m.offset -= m.visible()
			if m.offset < 0 {
				m.offset = 0
			}
		case "g":
			m.offset = 0
		case "G":
			m.offset = m.maxOffset()
		}
	}
	return m, nil
}

func (m pagerModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(m.title))
	b.WriteString("\n")

	end := m.offset + m.visible()
	if end > len(m.lines) {
		end = len(m.lines)
	}
	for _, line := range m.lines[m.offset:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}

	footer := fmt.Sprintf("%d-%d/%d · q to close", m.offset+1, end, len(m.lines))
	b.WriteString(styles.MutedStyle.Render(footer))
	return tea.NewView(b.String())
}

// Pager shows text page by page on stderr, falling back to plain output
// when stderr is not a terminal.
type Pager struct {
	// Fallback receives the text verbatim in non-interactive mode.
	// Defaults to os.Stderr.
	Fallback io.Writer
}

// New creates a pager writing to stderr.
func New() *Pager {
	return &Pager{Fallback: os.Stderr}
}

// Page displays body under the given title and blocks until dismissed.
func (p *Pager) Page(title, body string) error {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		fmt.Fprintf(p.Fallback, "--- %s ---\n%s", title, body)
		if !strings.HasSuffix(body, "\n") {
			fmt.Fprintln(p.Fallback)
		}
		return nil
	}

	model := pagerModel{
		title: title,
		lines: strings.Split(strings.TrimRight(body, "\n"), "\n"),
	}
	prog := tea.NewProgram(model,
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(colorprofile.Detect(os.Stderr, os.Environ())),
	)
	_, err := prog.Run()
	return err
}
