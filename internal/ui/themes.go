package ui

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ThemeEnv selects the theme when colours are enabled ("dark" or "light").
const ThemeEnv = "EXAMSTATS_THEME"

// Theme is a colour scheme for the printed report. String fields hold ANSI
// escape sequences; Accent is a 256-colour code for lipgloss styles.
type Theme struct {
	Name string

	Accent lipgloss.Color

	Success string
	Error   string
	Bold    string
	Reset   string

	// Per-result colours used in the record preview.
	Distinction string
	Pass        string
	Fail        string
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:        "dark",
		Accent:      lipgloss.Color("39"),
		Success:     "\033[38;5;82m",
		Error:       "\033[38;5;196m",
		Bold:        "\033[1m",
		Reset:       "\033[0m",
		Distinction: "\033[38;5;82m",
		Pass:        "\033[38;5;220m",
		Fail:        "\033[38;5;196m",
	}

	// LightTheme uses darker tones for light backgrounds.
	LightTheme = Theme{
		Name:        "light",
		Accent:      lipgloss.Color("27"),
		Success:     "\033[38;5;28m",
		Error:       "\033[38;5;124m",
		Bold:        "\033[1m",
		Reset:       "\033[0m",
		Distinction: "\033[38;5;28m",
		Pass:        "\033[38;5;130m",
		Fail:        "\033[38;5;124m",
	}

	// NoColorTheme emits no escape sequences at all.
	NoColorTheme = Theme{Name: "none"}

	themes = map[string]Theme{
		DarkTheme.Name:    DarkTheme,
		LightTheme.Name:   LightTheme,
		NoColorTheme.Name: NoColorTheme,
	}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// Heading returns the lipgloss style used for section headings.
func Heading() lipgloss.Style {
	t := GetCurrentTheme()
	style := lipgloss.NewStyle().Bold(true)
	if t.Accent == "" {
		return style
	}
	return style.Foreground(t.Accent).Underline(true)
}

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme activates a theme by name. Unknown names select DarkTheme.
func SetTheme(name string) {
	t, ok := themes[strings.ToLower(name)]
	if !ok {
		t = DarkTheme
	}
	SetCurrentTheme(t)
}

// InitTheme picks the theme for a run. noColor or a set NO_COLOR
// (https://no-color.org/) disables colours; otherwise EXAMSTATS_THEME
// chooses between dark and light.
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetTheme(os.Getenv(ThemeEnv))
}
