package ui

import (
	"fmt"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PassWords is the fixed length of a recovery passphrase.
const PassWords = 12

// passGridColumns lays the cells out in rows of three.
const passGridColumns = 3

// errPassphraseIncomplete is shown verbatim when not all cells are filled.
const errPassphraseIncomplete = "Please enter all 12 words of your passphrase."

// PassGrid is the twelve-cell passphrase entry widget. One cell is focused
// at a time; typing fills it, space and tab advance, backspace on an empty
// cell steps back, and pasting several words distributes them across cells
// starting at the focused one.
type PassGrid struct {
	cells   [PassWords][]rune
	focus   int
	errText string
	theme   Theme
}

// NewPassGrid returns an empty grid focused on the first cell.
func NewPassGrid(theme Theme) PassGrid {
	return PassGrid{theme: theme}
}

// Words returns the twelve entries in order. Unfilled cells are empty
// strings.
func (g *PassGrid) Words() []string {
	out := make([]string, PassWords)
	for i := range g.cells {
		out[i] = string(g.cells[i])
	}
	return out
}

// Complete reports whether every cell holds a word.
func (g *PassGrid) Complete() bool {
	for i := range g.cells {
		if len(g.cells[i]) == 0 {
			return false
		}
	}
	return true
}

// Validate checks completeness and installs the user-facing error text.
// Returns the message, empty when the grid is complete.
func (g *PassGrid) Validate() string {
	if g.Complete() {
		g.errText = ""
		return ""
	}
	g.errText = errPassphraseIncomplete
	return g.errText
}

// Err returns the current validation message.
func (g *PassGrid) Err() string { return g.errText }

// Focus returns the focused cell index.
func (g *PassGrid) Focus() int { return g.focus }

// Reset clears all cells and returns focus to the first one.
func (g *PassGrid) Reset() {
	for i := range g.cells {
		g.cells[i] = nil
	}
	g.focus = 0
	g.errText = ""
}

// Update processes one key message. Any edit clears a pending validation
// message so the user is not scolded while fixing the problem.
func (g *PassGrid) Update(message tea.KeyMsg) {
	switch message.Type {
	case tea.KeyRunes:
		g.errText = ""
		if hasSpace(message.Runes) {
			g.paste(string(message.Runes))
			return
		}
		for _, r := range message.Runes {
			g.cells[g.focus] = append(g.cells[g.focus], unicode.ToLower(r))
		}

	case tea.KeySpace, tea.KeyTab:
		// Advance only when the current cell has content, so a stray
		// space cannot skip a cell.
		if len(g.cells[g.focus]) > 0 && g.focus < PassWords-1 {
			g.focus++
		}

	case tea.KeyBackspace:
		g.errText = ""
		if len(g.cells[g.focus]) > 0 {
			g.cells[g.focus] = g.cells[g.focus][:len(g.cells[g.focus])-1]
		} else if g.focus > 0 {
			g.focus--
		}

	case tea.KeyLeft, tea.KeyShiftTab:
		if g.focus > 0 {
			g.focus--
		}

	case tea.KeyRight:
		if g.focus < PassWords-1 {
			g.focus++
		}

	case tea.KeyUp:
		if g.focus >= passGridColumns {
			g.focus -= passGridColumns
		}

	case tea.KeyDown:
		if g.focus < PassWords-passGridColumns {
			g.focus += passGridColumns
		}
	}
}

// paste distributes whitespace-separated words across cells starting at
// the focused one. Words past the last cell are dropped. Focus lands on
// the cell after the last filled one, or stays on the last cell.
func (g *PassGrid) paste(text string) {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return
	}
	i := g.focus
	for _, w := range words {
		if i >= PassWords {
			break
		}
		g.cells[i] = []rune(w)
		i++
	}
	if i < PassWords {
		g.focus = i
	} else {
		g.focus = PassWords - 1
	}
}

func hasSpace(runes []rune) bool {
	for _, r := range runes {
		if unicode.IsSpace(r) {
			return true
		}
	}
	return false
}

// View renders the grid with the focused cell highlighted.
func (g PassGrid) View() string {
	cell := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(g.theme.BorderColor).
		Width(12).
		Align(lipgloss.Center)
	focused := cell.
		BorderForeground(g.theme.Accent).
		Foreground(g.theme.SelectedForeground)

	var rows []string
	for start := 0; start < PassWords; start += passGridColumns {
		var cols []string
		for i := start; i < start+passGridColumns; i++ {
			label := fmt.Sprintf("%2d %s", i+1, string(g.cells[i]))
			style := cell
			if i == g.focus {
				style = focused
			}
			cols = append(cols, style.Render(label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}
	out := lipgloss.JoinVertical(lipgloss.Left, rows...)
	if g.errText != "" {
		errStyle := lipgloss.NewStyle().Foreground(g.theme.ErrorText)
		out += "\n" + errStyle.Render(g.errText)
	}
	return out
}
