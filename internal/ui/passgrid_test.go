package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestPassGrid_TypeAndAdvance(t *testing.T) {
	g := NewPassGrid(DefaultTheme)

	g.Update(keyRunes("apple"))
	require.Equal(t, "apple", g.Words()[0])
	require.Equal(t, 0, g.Focus())

	g.Update(key(tea.KeySpace))
	require.Equal(t, 1, g.Focus())

	// Space on an empty cell stays put.
	g.Update(key(tea.KeySpace))
	require.Equal(t, 1, g.Focus())
}

func TestPassGrid_InputLowercased(t *testing.T) {
	g := NewPassGrid(DefaultTheme)
	g.Update(keyRunes("ApPle"))
	require.Equal(t, "apple", g.Words()[0])
}

func TestPassGrid_PasteFullPassphrase(t *testing.T) {
	g := NewPassGrid(DefaultTheme)
	words := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}

	g.Update(keyRunes(strings.Join(words, " ")))
	require.Equal(t, words, g.Words())
	require.True(t, g.Complete())
	require.Equal(t, PassWords-1, g.Focus())
}

func TestPassGrid_PasteTooManyWordsDropsExtras(t *testing.T) {
	g := NewPassGrid(DefaultTheme)
	g.Update(keyRunes("w1 w2 w3 w4 w5 w6 w7 w8 w9 w10 w11 w12 w13 w14 w15"))

	require.Equal(t, "w1", g.Words()[0])
	require.Equal(t, "w12", g.Words()[11])
	require.Equal(t, PassWords-1, g.Focus())
}

func TestPassGrid_PartialPasteFromMiddle(t *testing.T) {
	g := NewPassGrid(DefaultTheme)
	g.Update(keyRunes("first"))
	g.Update(key(tea.KeySpace))

	g.Update(keyRunes("a b c d e"))
	require.Equal(t, "first", g.Words()[0])
	require.Equal(t, "a", g.Words()[1])
	require.Equal(t, "e", g.Words()[5])
	require.Empty(t, g.Words()[6])
	require.Equal(t, 6, g.Focus(), "focus lands after the last pasted word")
}

func TestPassGrid_BackspaceStepsBackWhenEmpty(t *testing.T) {
	g := NewPassGrid(DefaultTheme)
	g.Update(keyRunes("ab"))
	g.Update(key(tea.KeySpace))
	require.Equal(t, 1, g.Focus())

	g.Update(key(tea.KeyBackspace))
	require.Equal(t, 0, g.Focus(), "backspace on empty cell moves back")

	g.Update(key(tea.KeyBackspace))
	require.Equal(t, "a", g.Words()[0])
	require.Equal(t, 0, g.Focus())
}

func TestPassGrid_ArrowNavigation(t *testing.T) {
	g := NewPassGrid(DefaultTheme)

	g.Update(key(tea.KeyRight))
	require.Equal(t, 1, g.Focus())
	g.Update(key(tea.KeyLeft))
	require.Equal(t, 0, g.Focus())
	g.Update(key(tea.KeyLeft))
	require.Equal(t, 0, g.Focus(), "left edge clamps")

	g.Update(key(tea.KeyDown))
	require.Equal(t, 3, g.Focus(), "down moves one row of three")
	g.Update(key(tea.KeyUp))
	require.Equal(t, 0, g.Focus())
}

func TestPassGrid_ValidateIncomplete(t *testing.T) {
	g := NewPassGrid(DefaultTheme)
	g.Update(keyRunes("only"))

	msg := g.Validate()
	require.Equal(t, "Please enter all 12 words of your passphrase.", msg)
	require.Equal(t, msg, g.Err())

	// Any edit clears the message.
	g.Update(keyRunes("x"))
	require.Empty(t, g.Err())
}

func TestPassGrid_Reset(t *testing.T) {
	g := NewPassGrid(DefaultTheme)
	g.Update(keyRunes("a b c d e f g h i j k l"))
	require.True(t, g.Complete())

	g.Reset()
	require.False(t, g.Complete())
	require.Equal(t, 0, g.Focus())
	require.Empty(t, g.Words()[0])
}
