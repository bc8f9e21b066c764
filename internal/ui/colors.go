package ui

// ANSI accessors for the active theme. Each returns an empty string when
// colours are disabled.

// ColorEnabled reports whether the active theme emits escape sequences.
func ColorEnabled() bool { return GetCurrentTheme().Name != NoColorTheme.Name }

// ColorReset returns the escape code that clears formatting.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorBold returns the bold escape code.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorGreen returns the success colour.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorRed returns the error colour.
func ColorRed() string { return GetCurrentTheme().Error }

// ResultColor returns the colour for an exam result label.
func ResultColor(result string) string {
	t := GetCurrentTheme()
	switch result {
	case "Distinction":
		return t.Distinction
	case "Pass":
		return t.Pass
	case "Fail":
		return t.Fail
	default:
		return ""
	}
}
