// Package ui provides the colour themes used by the printed report.
//
// ANSI accessors (ColorGreen, ColorReset, ...) follow the active theme, and
// Heading returns a lipgloss style for section titles. NO_COLOR and
// --no-color select NoColorTheme.
package ui
