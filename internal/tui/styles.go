package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the calculator.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Faint   lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeTerminal = Theme{
		Name:    "terminal",
		Primary: lipgloss.Color("86"),
		Accent:  lipgloss.Color("213"),
		Text:    lipgloss.Color("255"),
		Muted:   lipgloss.Color("242"),
		Faint:   lipgloss.Color("238"),
		Success: lipgloss.Color("82"),
		Error:   lipgloss.Color("203"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#00aa00"),
		Faint:   lipgloss.Color("#005500"),
		Success: lipgloss.Color("#88ff88"),
		Error:   lipgloss.Color("#ffff00"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#00a8cc"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Faint:   lipgloss.Color("#224455"),
		Success: lipgloss.Color("#00ff88"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Faint:   lipgloss.Color("#444444"),
		Success: lipgloss.Color("#00ff00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{ThemeTerminal, ThemeRetroGreen, ThemeOcean, ThemeMinimal}
)

// GetTheme returns a theme by name, or the terminal theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeTerminal
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Styles are the rendered styles of a theme. The CLI uses them for its
// one-shot output as well.
type Styles struct {
	Title  lipgloss.Style
	Prompt lipgloss.Style
	Input  lipgloss.Style
	Value  lipgloss.Style
	Unit   lipgloss.Style
	Bool   lipgloss.Style
	Error  lipgloss.Style
	Dim    lipgloss.Style
	Dimmer lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Prompt: lipgloss.NewStyle().Foreground(t.Primary),
		Input:  lipgloss.NewStyle().Foreground(t.Text),
		Value:  lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		Unit:   lipgloss.NewStyle().Foreground(t.Accent),
		Bool:   lipgloss.NewStyle().Foreground(t.Success),
		Error:  lipgloss.NewStyle().Foreground(t.Error),
		Dim:    lipgloss.NewStyle().Foreground(t.Muted),
		Dimmer: lipgloss.NewStyle().Foreground(t.Faint),
	}
}
