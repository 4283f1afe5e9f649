package ui

import (
	"github.com/charmbracelet/lipgloss"

	"havencli/internal/models"
)

// Theme is the color palette for the Haven terminal UI. All colors use
// ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	Accent     lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Urgency colors, one per level.
	UrgencyLow      lipgloss.Color
	UrgencyMedium   lipgloss.Color
	UrgencyHigh     lipgloss.Color
	UrgencyCritical lipgloss.Color

	ExpertBadge lipgloss.Color
	WarningText lipgloss.Color
	ErrorText   lipgloss.Color
	SuccessText lipgloss.Color

	BorderColor lipgloss.Color
	HelpText    lipgloss.Color
	UnreadBadge lipgloss.Color
}

// UrgencyColor returns the color for a post's urgency level.
func (t Theme) UrgencyColor(level models.UrgencyLevel) lipgloss.Color {
	switch level {
	case models.UrgencyCritical:
		return t.UrgencyCritical
	case models.UrgencyHigh:
		return t.UrgencyHigh
	case models.UrgencyMedium:
		return t.UrgencyMedium
	case models.UrgencyLow:
		return t.UrgencyLow
	default:
		return t.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal palette.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),
	Accent:     lipgloss.Color("75"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	UrgencyLow:      lipgloss.Color("245"),
	UrgencyMedium:   lipgloss.Color("75"),
	UrgencyHigh:     lipgloss.Color("208"),
	UrgencyCritical: lipgloss.Color("196"),

	ExpertBadge: lipgloss.Color("141"),
	WarningText: lipgloss.Color("220"),
	ErrorText:   lipgloss.Color("196"),
	SuccessText: lipgloss.Color("114"),

	BorderColor: lipgloss.Color("240"),
	HelpText:    lipgloss.Color("241"),
	UnreadBadge: lipgloss.Color("208"),
}
