package ui

import (
	"strings"
	"testing"
)

// Theme state is global, so these tests do not run in parallel.

func TestSetTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	tests := []struct {
		name string
		want string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"none", "none"},
		{"unknown", "dark"},
	}
	for _, tt := range tests {
		SetTheme(tt.name)
		if got := GetCurrentTheme().Name; got != tt.want {
			t.Errorf("SetTheme(%q) selected %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestInitTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	t.Run("flag disables colour", func(t *testing.T) {
		InitTheme(true)
		if GetCurrentTheme().Name != "none" {
			t.Error("--no-color should select the none theme")
		}
		if ColorEnabled() {
			t.Error("ColorEnabled() should be false under the none theme")
		}
		if ColorGreen() != "" || ColorReset() != "" {
			t.Error("colour accessors should be empty without colour")
		}
	})

	t.Run("NO_COLOR disables colour", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		InitTheme(false)
		if GetCurrentTheme().Name != "none" || ColorEnabled() {
			t.Error("NO_COLOR should select the none theme")
		}
	})

	t.Run("default is dark", func(t *testing.T) {
		InitTheme(false)
		if GetCurrentTheme().Name != "dark" {
			t.Errorf("default theme = %q, want dark", GetCurrentTheme().Name)
		}
		if !strings.HasPrefix(ColorRed(), "\033[") {
			t.Errorf("ColorRed() = %q, want an ANSI sequence", ColorRed())
		}
	})
}

func TestInitTheme_EnvSelectsLight(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())
	t.Setenv(ThemeEnv, "LIGHT")
	InitTheme(false)
	if GetCurrentTheme().Name != "light" {
		t.Errorf("%s=LIGHT selected %q", ThemeEnv, GetCurrentTheme().Name)
	}
}

func TestResultColor(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	SetCurrentTheme(DarkTheme)
	if ResultColor("Distinction") != DarkTheme.Distinction || ResultColor("Fail") != DarkTheme.Fail {
		t.Error("ResultColor should follow the active theme")
	}
	if ResultColor("Merit") != "" {
		t.Error("unknown results are uncoloured")
	}
	SetCurrentTheme(NoColorTheme)
	if ResultColor("Pass") != "" {
		t.Error("no colour theme must not colour results")
	}
}

func TestHeading(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	for _, theme := range []Theme{DarkTheme, LightTheme, NoColorTheme} {
		SetCurrentTheme(theme)
		if got := Heading().Render("Skewness"); !strings.Contains(got, "Skewness") {
			t.Errorf("%s heading lost its text: %q", theme.Name, got)
		}
	}
}
