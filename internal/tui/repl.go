// Package tui is the interactive calculator: a line editor over a calc
// evaluator with history, scrollback and completion of catalog names.
package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/ufloat/internal/calc"
	"github.com/san-kum/ufloat/internal/catalog"
	"github.com/san-kum/ufloat/internal/units"
)

const defaultHistory = 100

type entry struct {
	input  string
	output string
	failed bool
}

type model struct {
	eval  *calc.Evaluator
	names []string
	style Styles

	input   []rune
	entries []entry
	hint    string

	history    []string
	histIdx    int
	maxHistory int

	width  int
	height int
}

// Option configures the calculator.
type Option func(*model)

func WithTheme(t Theme) Option {
	return func(m *model) { m.style = NewStyles(t) }
}

// WithHistory caps the number of remembered inputs.
func WithHistory(n int) Option {
	return func(m *model) {
		if n > 0 {
			m.maxHistory = n
		}
	}
}

func newModel(cat *catalog.Catalog, opts ...Option) model {
	m := model{
		eval:       calc.New(cat),
		names:      cat.Names(),
		style:      NewStyles(ThemeTerminal),
		maxHistory: defaultHistory,
		width:      80,
		height:     24,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Run starts the calculator on the terminal and blocks until it quits.
func Run(cat *catalog.Catalog, opts ...Option) error {
	_, err := tea.NewProgram(newModel(cat, opts...)).Run()
	return err
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.hint = ""
	switch msg.String() {
	case "ctrl+c", "ctrl+d", "esc":
		return m, tea.Quit
	case "enter":
		return m.submit()
	case "up":
		m.recall(-1)
	case "down":
		m.recall(1)
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case "ctrl+u":
		m.input = m.input[:0]
	case "ctrl+l":
		m.entries = nil
	case "tab":
		m.complete()
	case " ":
		m.input = append(m.input, ' ')
	default:
		if msg.Type == tea.KeyRunes {
			m.input = append(m.input, msg.Runes...)
		}
	}
	return m, nil
}

func (m model) submit() (model, tea.Cmd) {
	src := strings.TrimSpace(string(m.input))
	m.input = m.input[:0]
	switch src {
	case "":
		return m, nil
	case "quit", "exit":
		return m, tea.Quit
	}

	m.history = append(m.history, src)
	if len(m.history) > m.maxHistory {
		m.history = m.history[len(m.history)-m.maxHistory:]
	}
	m.histIdx = len(m.history)

	e := entry{input: src}
	r, err := m.eval.Eval(src)
	if err != nil {
		e.output, e.failed = describeError(err), true
	} else {
		e.output = Render(m.style, r)
	}
	m.entries = append(m.entries, e)
	return m, nil
}

// recall moves through the history; stepping past the newest entry clears
// the line.
func (m *model) recall(step int) {
	if len(m.history) == 0 {
		return
	}
	m.histIdx += step
	switch {
	case m.histIdx < 0:
		m.histIdx = 0
	case m.histIdx >= len(m.history):
		m.histIdx = len(m.history)
		m.input = m.input[:0]
		return
	}
	m.input = []rune(m.history[m.histIdx])
}

// complete extends the identifier before the cursor to the longest prefix
// shared by the catalog names it matches.
func (m *model) complete() {
	start := len(m.input)
	for start > 0 && isIdent(m.input[start-1]) {
		start--
	}
	prefix := string(m.input[start:])
	if prefix == "" {
		return
	}
	var matches []string
	for _, name := range m.names {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, name)
		}
	}
	switch len(matches) {
	case 0:
		m.hint = "no match for " + prefix
	case 1:
		m.input = append(m.input[:start], []rune(matches[0])...)
	default:
		common := matches[0]
		for _, s := range matches[1:] {
			for !strings.HasPrefix(s, common) {
				common = common[:len(common)-1]
			}
		}
		m.input = append(m.input[:start], []rune(common)...)
		m.hint = strings.Join(matches, "  ")
	}
}

func isIdent(r rune) bool {
	return r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

// describeError shortens the unit errors users hit most.
func describeError(err error) string {
	var incompatible *units.IncompatibleUnitError
	switch {
	case errors.As(err, &incompatible):
		op := incompatible.Op
		if op == "" {
			op = "combine"
		}
		return fmt.Sprintf("cannot %s [%s] and [%s]", op, incompatible.Left, incompatible.Right)
	case errors.Is(err, calc.ErrUndefined):
		return strings.TrimPrefix(err.Error(), "calc: ")
	}
	return err.Error()
}

// Render styles a calc result, setting the unit apart from the number.
func Render(s Styles, r calc.Result) string {
	if r.IsComparison() {
		return s.Bool.Render(r.String())
	}
	out := r.String()
	if i := strings.LastIndex(out, " ["); i >= 0 && strings.HasSuffix(out, "]") {
		return s.Value.Render(out[:i]) + " " + s.Unit.Render(out[i+1:])
	}
	return s.Value.Render(out)
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + m.style.Title.Render("u f l o a t") + "  " + m.style.Dim.Render(fmt.Sprintf("%d units", len(m.names))) + "\n")
	b.WriteString(m.style.Dimmer.Render("  "+strings.Repeat("─", max(min(m.width-4, 60), 0))) + "\n\n")

	visible := m.height - 8
	if visible < 1 {
		visible = 1
	}
	shown := m.entries
	if len(shown)*2 > visible {
		shown = shown[len(shown)-max(visible/2, 1):]
	}
	for _, e := range shown {
		b.WriteString("  " + m.style.Dim.Render("› "+e.input) + "\n")
		if e.failed {
			b.WriteString("    " + m.style.Error.Render(e.output) + "\n")
		} else {
			b.WriteString("    " + e.output + "\n")
		}
	}

	b.WriteString("\n  " + m.style.Prompt.Render("› ") + m.style.Input.Render(string(m.input)+"▋") + "\n")
	if m.hint != "" {
		b.WriteString("  " + m.style.Dim.Render(m.hint) + "\n")
	}
	b.WriteString("\n" + m.style.Dimmer.Render("  enter eval  ↑↓ history  tab complete  ctrl+l clear  esc quit") + "\n")

	return b.String()
}
