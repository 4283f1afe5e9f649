package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

// dialogAtPassphrase drives the dialog through the register form until the
// recovery words are on screen.
func dialogAtPassphrase(t *testing.T) *AuthDialog {
	t.Helper()
	deps := newTestDeps(t, registerClient())
	d := NewAuthDialog(deps, DefaultTheme)
	d.Show("")
	d.Update(key(tea.KeyCtrlT))
	require.Equal(t, tabRegister, d.tab)

	fillForm(&d.register, "bobby", "password123", "password123")
	cmd, _ := d.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)
	d.HandleAuthResult(cmd().(authDoneMsg))
	require.Equal(t, registerPassphrase, d.register.step)
	return &d
}

func TestAuthDialog_EscapeDuringPassphraseAsksFirst(t *testing.T) {
	d := dialogAtPassphrase(t)

	_, closed := d.Update(key(tea.KeyEsc))
	require.False(t, closed, "one escape must not drop the recovery words")
	require.True(t, d.Visible())
	require.True(t, strings.Contains(d.View(), confirmExitPrompt))

	// Anything but y stays on the passphrase screen.
	_, closed = d.Update(keyRunes("n"))
	require.False(t, closed)
	require.True(t, d.Visible())
	require.Equal(t, registerPassphrase, d.register.step)
	require.False(t, strings.Contains(d.View(), confirmExitPrompt))
}

func TestAuthDialog_ConfirmedExitCloses(t *testing.T) {
	d := dialogAtPassphrase(t)

	d.Update(key(tea.KeyEsc))
	_, closed := d.Update(keyRunes("y"))
	require.True(t, closed)
	require.False(t, d.Visible())
}

func TestAuthDialog_EscapeOnFormClosesDirectly(t *testing.T) {
	deps := newTestDeps(t, registerClient())
	d := NewAuthDialog(deps, DefaultTheme)
	d.Show("")

	_, closed := d.Update(key(tea.KeyEsc))
	require.True(t, closed, "nothing to lose before the words are issued")
	require.False(t, d.Visible())
}
