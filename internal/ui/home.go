package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HomeView is the signed-out landing screen.
type HomeView struct {
	theme Theme
}

// NewHomeView returns the landing screen.
func NewHomeView(theme Theme) HomeView {
	return HomeView{theme: theme}
}

// View renders the landing copy.
func (h HomeView) View(width int) string {
	title := lipgloss.NewStyle().Foreground(h.theme.Accent).Bold(true)
	normal := lipgloss.NewStyle().Foreground(h.theme.NormalText)
	faint := lipgloss.NewStyle().Foreground(h.theme.FaintText)
	help := lipgloss.NewStyle().Foreground(h.theme.HelpText)

	var b strings.Builder
	b.WriteString(title.Render("Haven"))
	b.WriteString("\n")
	b.WriteString(normal.Render("A community where you can talk about how you're really doing."))
	b.WriteString("\n\n")
	b.WriteString(faint.Render("· Share anonymously or under your chosen name"))
	b.WriteString("\n")
	b.WriteString(faint.Render("· No email, no phone number: your account is yours alone"))
	b.WriteString("\n")
	b.WriteString(faint.Render("· Verified experts respond to posts that need support"))
	b.WriteString("\n\n")
	b.WriteString(help.Render("enter sign in · f feed · q quit"))

	box := lipgloss.NewStyle().Padding(1, 2)
	if width > 0 {
		box = box.Width(width)
	}
	return box.Render(b.String())
}
