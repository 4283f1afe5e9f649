package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"havencli/internal/common"
	"havencli/internal/session"
)

// registerStep tracks the account creation flow. The passphrase is shown
// exactly once and must be typed back before the flow completes, so the
// user cannot end up with an account they can never recover.
type registerStep int

const (
	// registerForm collects username and password.
	registerForm registerStep = iota
	// registerPassphrase displays the issued 12 words.
	registerPassphrase
	// registerVerify asks the user to type the words back.
	registerVerify
	// registerComplete is the success screen.
	registerComplete
)

// Registration form validation messages, shown verbatim.
const (
	errUsernameTooShort = "Username must be at least 4 characters."
	errPasswordTooShort = "Password must be at least 8 characters."
	errPasswordMismatch = "Passwords do not match."
)

const (
	minUsernameLen = 4
	minPasswordLen = 8
)

// RegisterFlow is the account creation side of the auth dialog.
type RegisterFlow struct {
	deps  *Deps
	theme Theme

	step       registerStep
	username   textinput.Model
	password   textinput.Model
	confirm    textinput.Model
	focus      int
	grid       PassGrid
	passphrase string
	errText    string
	submitting bool
}

// NewRegisterFlow returns a registration flow at the form step.
func NewRegisterFlow(deps *Deps, theme Theme) RegisterFlow {
	username := textinput.New()
	username.Prompt = "Username: "
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Prompt = "Password: "
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	confirm := textinput.New()
	confirm.Prompt = "Confirm:  "
	confirm.CharLimit = 128
	confirm.EchoMode = textinput.EchoPassword
	confirm.EchoCharacter = '*'

	return RegisterFlow{
		deps:     deps,
		theme:    theme,
		username: username,
		password: password,
		confirm:  confirm,
		grid:     NewPassGrid(theme),
	}
}

// Reset returns the flow to a blank form.
func (f *RegisterFlow) Reset() {
	f.step = registerForm
	f.username.SetValue("")
	f.password.SetValue("")
	f.confirm.SetValue("")
	f.focus = 0
	f.username.Focus()
	f.password.Blur()
	f.confirm.Blur()
	f.grid.Reset()
	f.passphrase = ""
	f.errText = ""
	f.submitting = false
}

// Done reports whether the flow finished, including verification.
func (f *RegisterFlow) Done() bool { return f.step == registerComplete }

// Err returns the current form-level error message.
func (f *RegisterFlow) Err() string { return f.errText }

// Passphrase returns the issued recovery words while the flow holds them.
func (f *RegisterFlow) Passphrase() string { return f.passphrase }

// Update processes a key message; the returned command performs the
// register call when the form submits.
func (f *RegisterFlow) Update(message tea.KeyMsg) tea.Cmd {
	if f.submitting {
		return nil
	}
	switch f.step {
	case registerForm:
		return f.updateForm(message)
	case registerPassphrase:
		if message.Type == tea.KeyEnter {
			f.step = registerVerify
			f.grid.Reset()
		}
	case registerVerify:
		f.updateVerify(message)
	case registerComplete:
		// Terminal step; the dialog closes on any key.
	}
	return nil
}

func (f *RegisterFlow) updateForm(message tea.KeyMsg) tea.Cmd {
	switch message.Type {
	case tea.KeyTab, tea.KeyDown:
		f.setFocus((f.focus + 1) % 3)
		return nil
	case tea.KeyShiftTab, tea.KeyUp:
		f.setFocus((f.focus + 2) % 3)
		return nil
	case tea.KeyEnter:
		return f.submitForm()
	}

	f.errText = ""
	var cmd tea.Cmd
	switch f.focus {
	case 0:
		f.username, cmd = f.username.Update(message)
	case 1:
		f.password, cmd = f.password.Update(message)
	default:
		f.confirm, cmd = f.confirm.Update(message)
	}
	return cmd
}

func (f *RegisterFlow) submitForm() tea.Cmd {
	username := strings.TrimSpace(f.username.Value())
	password := f.password.Value()

	switch {
	case len(username) < minUsernameLen:
		f.errText = errUsernameTooShort
		return nil
	case len(password) < minPasswordLen:
		f.errText = errPasswordTooShort
		return nil
	case password != f.confirm.Value():
		f.errText = errPasswordMismatch
		return nil
	}

	f.submitting = true
	f.errText = ""
	return f.deps.registerCmd(username, password)
}

func (f *RegisterFlow) updateVerify(message tea.KeyMsg) {
	switch message.Type {
	case tea.KeyEsc:
		// Back to the displayed words for another look.
		f.step = registerPassphrase
		f.grid.Reset()
		f.errText = ""
	case tea.KeyEnter:
		if msg := f.grid.Validate(); msg != "" {
			return
		}
		entered := session.NormalizePassphrase(f.grid.Words())
		issued := session.NormalizePassphrase(strings.Fields(f.passphrase))
		if entered != issued {
			f.errText = errBadPassphrase
			return
		}
		f.passphrase = ""
		f.errText = ""
		f.step = registerComplete
	default:
		f.errText = ""
		f.grid.Update(message)
	}
}

// HandleResult consumes the register call's outcome. On success the flow
// moves to the passphrase display; the session is already authenticated,
// but the dialog stays open until verification is done.
func (f *RegisterFlow) HandleResult(msg authDoneMsg) {
	f.submitting = false
	if msg.err != nil {
		// A 401 here is the server refusing the registration, not an
		// expired session.
		if errors.Is(msg.err, common.ErrRejected) || errors.Is(msg.err, common.ErrUnauthorized) {
			if m := common.RejectionMessage(msg.err); m != "" {
				f.errText = m
			} else {
				f.errText = errSomethingFailed
			}
		} else {
			f.errText = userMessage(msg.err)
		}
		return
	}
	f.passphrase = msg.passphrase
	f.step = registerPassphrase
}

func (f *RegisterFlow) setFocus(focus int) {
	f.focus = focus
	f.username.Blur()
	f.password.Blur()
	f.confirm.Blur()
	switch focus {
	case 0:
		f.username.Focus()
	case 1:
		f.password.Focus()
	default:
		f.confirm.Focus()
	}
}

// View renders the active step.
func (f RegisterFlow) View() string {
	faint := lipgloss.NewStyle().Foreground(f.theme.FaintText)
	warn := lipgloss.NewStyle().Foreground(f.theme.WarningText)
	var b strings.Builder

	switch f.step {
	case registerForm:
		b.WriteString(f.username.View())
		b.WriteString("\n")
		b.WriteString(f.password.View())
		b.WriteString("\n")
		b.WriteString(f.confirm.View())
		b.WriteString("\n")
		if f.submitting {
			b.WriteString(faint.Render("Creating account..."))
		}

	case registerPassphrase:
		b.WriteString("Your recovery passphrase\n\n")
		b.WriteString(renderPassphrase(f.passphrase, f.theme))
		b.WriteString("\n\n")
		b.WriteString(warn.Render("Write these 12 words down. They are the only way to sign in from a new device and will not be shown again."))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(f.theme.HelpText).Render("enter continue"))

	case registerVerify:
		b.WriteString("Confirm your passphrase\n")
		b.WriteString(faint.Render("Type the 12 words back to prove you saved them."))
		b.WriteString("\n\n")
		b.WriteString(f.grid.View())
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(f.theme.HelpText).Render("enter submit · esc show words again"))

	case registerComplete:
		success := lipgloss.NewStyle().Foreground(f.theme.SuccessText)
		b.WriteString(success.Render("You're all set."))
		b.WriteString("\n")
		b.WriteString(faint.Render("Press any key to continue."))
	}

	if f.errText != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(f.theme.ErrorText).Render(f.errText))
	}
	return b.String()
}

// renderPassphrase lays the issued words out in the same grid shape the
// verification step uses.
func renderPassphrase(passphrase string, theme Theme) string {
	words := strings.Fields(passphrase)
	cell := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Width(12).
		Align(lipgloss.Center)

	var rows []string
	for start := 0; start < len(words); start += passGridColumns {
		var cols []string
		for i := start; i < start+passGridColumns && i < len(words); i++ {
			cols = append(cols, cell.Render(words[i]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
