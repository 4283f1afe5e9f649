package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"havencli/internal/common"
)

// loginStep tracks where the sign-in flow is.
type loginStep int

const (
	// loginCredentials is the username/password form.
	loginCredentials loginStep = iota
	// loginNewDevice asks for the recovery passphrase because the server
	// did not recognize this device.
	loginNewDevice
)

// LoginForm is the sign-in side of the auth dialog.
type LoginForm struct {
	deps  *Deps
	theme Theme

	step       loginStep
	username   textinput.Model
	password   textinput.Model
	focus      int
	grid       PassGrid
	errText    string
	submitting bool
}

// NewLoginForm returns a login form focused on the username field.
func NewLoginForm(deps *Deps, theme Theme) LoginForm {
	username := textinput.New()
	username.Prompt = "Username: "
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Prompt = "Password: "
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return LoginForm{
		deps:     deps,
		theme:    theme,
		username: username,
		password: password,
		grid:     NewPassGrid(theme),
	}
}

// Reset returns the form to a blank credentials step.
func (f *LoginForm) Reset() {
	f.step = loginCredentials
	f.username.SetValue("")
	f.password.SetValue("")
	f.username.Focus()
	f.password.Blur()
	f.focus = 0
	f.grid.Reset()
	f.errText = ""
	f.submitting = false
}

// Err returns the current form-level error message.
func (f *LoginForm) Err() string { return f.errText }

// Submitting reports whether a server call is in flight.
func (f *LoginForm) Submitting() bool { return f.submitting }

// Update processes a key message and may return a command that performs
// the login call.
func (f *LoginForm) Update(message tea.KeyMsg) tea.Cmd {
	if f.submitting {
		return nil
	}
	if f.step == loginNewDevice {
		return f.updateNewDevice(message)
	}
	return f.updateCredentials(message)
}

func (f *LoginForm) updateCredentials(message tea.KeyMsg) tea.Cmd {
	switch message.Type {
	case tea.KeyTab, tea.KeyDown:
		f.setFocus((f.focus + 1) % 2)
		return nil
	case tea.KeyShiftTab, tea.KeyUp:
		f.setFocus((f.focus + 1) % 2)
		return nil
	case tea.KeyEnter:
		return f.submitCredentials()
	}

	f.errText = ""
	var cmd tea.Cmd
	if f.focus == 0 {
		f.username, cmd = f.username.Update(message)
	} else {
		f.password, cmd = f.password.Update(message)
	}
	return cmd
}

func (f *LoginForm) submitCredentials() tea.Cmd {
	username := strings.TrimSpace(f.username.Value())
	password := f.password.Value()
	if username == "" || password == "" {
		f.errText = errCredentialsEmpty
		return nil
	}
	f.submitting = true
	f.errText = ""
	return f.deps.loginCmd(username, password)
}

func (f *LoginForm) updateNewDevice(message tea.KeyMsg) tea.Cmd {
	switch message.Type {
	case tea.KeyEsc:
		f.step = loginCredentials
		f.grid.Reset()
		f.errText = ""
		return nil
	case tea.KeyEnter:
		if msg := f.grid.Validate(); msg != "" {
			return nil
		}
		f.submitting = true
		f.errText = ""
		return f.deps.loginPassphraseCmd(strings.TrimSpace(f.username.Value()), f.grid.Words())
	}
	f.grid.Update(message)
	return nil
}

// HandleResult consumes the login call's outcome. A rejected password login
// shows the credential message; a rejected passphrase login shows the
// passphrase message; an unrecognized device flips to the passphrase step.
// Returns true when the user is signed in and the dialog should close.
func (f *LoginForm) HandleResult(msg authDoneMsg) bool {
	f.submitting = false

	if msg.err != nil {
		// A 401 on a sign-in call means the server refused the
		// credentials. Session expiry only exists after sign-in.
		if errors.Is(msg.err, common.ErrRejected) || errors.Is(msg.err, common.ErrUnauthorized) {
			if msg.mode == authLoginPassphrase {
				f.errText = errBadPassphrase
			} else {
				f.errText = errBadCredentials
			}
		} else {
			f.errText = userMessage(msg.err)
		}
		return false
	}

	if msg.mode == authLogin && msg.isNewDevice {
		f.step = loginNewDevice
		f.grid.Reset()
		f.errText = ""
		return false
	}
	return true
}

func (f *LoginForm) setFocus(focus int) {
	f.focus = focus
	if focus == 0 {
		f.username.Focus()
		f.password.Blur()
	} else {
		f.username.Blur()
		f.password.Focus()
	}
}

// View renders the active step.
func (f LoginForm) View() string {
	var b strings.Builder

	if f.step == loginNewDevice {
		faint := lipgloss.NewStyle().Foreground(f.theme.FaintText)
		b.WriteString("New device detected\n")
		b.WriteString(faint.Render("Enter your 12-word recovery passphrase to continue."))
		b.WriteString("\n\n")
		b.WriteString(f.grid.View())
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(f.theme.HelpText).Render("enter submit · esc back"))
	} else {
		b.WriteString(f.username.View())
		b.WriteString("\n")
		b.WriteString(f.password.View())
		b.WriteString("\n")
		if f.submitting {
			b.WriteString(lipgloss.NewStyle().Foreground(f.theme.FaintText).Render("Signing in..."))
		}
	}

	if f.errText != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(f.theme.ErrorText).Render(f.errText))
	}
	return b.String()
}
