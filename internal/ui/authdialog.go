package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// authTab selects which side of the auth dialog is active.
type authTab int

const (
	tabLogin authTab = iota
	tabRegister
)

// AuthDialog is the modal that gates authenticated views. It hosts the
// sign-in form and the registration flow and reports when the user ends
// up signed in.
type AuthDialog struct {
	deps  *Deps
	theme Theme

	visible  bool
	tab      authTab
	login    LoginForm
	register RegisterFlow
	notice   string

	// confirmExit gates leaving registration once the recovery words have
	// been issued. Closing then abandons the only chance to save them.
	confirmExit bool
}

// Exit confirmation shown when escaping mid-registration.
const confirmExitPrompt = "Are you sure you want to exit? Your registration progress will be lost."

// NewAuthDialog returns a hidden dialog on the sign-in tab.
func NewAuthDialog(deps *Deps, theme Theme) AuthDialog {
	return AuthDialog{
		deps:     deps,
		theme:    theme,
		login:    NewLoginForm(deps, theme),
		register: NewRegisterFlow(deps, theme),
	}
}

// Visible reports whether the dialog is on screen.
func (d *AuthDialog) Visible() bool { return d.visible }

// Show opens the dialog fresh on the sign-in tab. notice is an optional
// line explaining why the dialog appeared, such as a session expiry.
func (d *AuthDialog) Show(notice string) {
	d.visible = true
	d.tab = tabLogin
	d.notice = notice
	d.confirmExit = false
	d.login.Reset()
	d.register.Reset()
}

// Hide closes the dialog.
func (d *AuthDialog) Hide() {
	d.visible = false
	d.notice = ""
	d.confirmExit = false
}

// Update processes a key message. done is true when the user dismissed
// the dialog with escape.
func (d *AuthDialog) Update(message tea.KeyMsg) (cmd tea.Cmd, closed bool) {
	if !d.visible {
		return nil, false
	}

	// The registration success screen closes on any key.
	if d.tab == tabRegister && d.register.Done() {
		d.Hide()
		return nil, true
	}

	if d.confirmExit {
		switch message.String() {
		case "y", "Y":
			d.Hide()
			return nil, true
		default:
			d.confirmExit = false
			return nil, false
		}
	}

	switch message.Type {
	case tea.KeyEsc:
		// Inner steps consume escape for their own back navigation.
		if d.tab == tabLogin && d.login.step == loginNewDevice {
			return d.login.Update(message), false
		}
		if d.tab == tabRegister && d.register.step == registerVerify {
			return d.register.Update(message), false
		}
		// Past the form the account already exists and the words are
		// shown only once. Leaving takes an explicit yes.
		if d.tab == tabRegister && d.register.step == registerPassphrase {
			d.confirmExit = true
			return nil, false
		}
		d.Hide()
		return nil, true

	case tea.KeyCtrlT:
		// Switching tabs abandons any half-typed form.
		if d.tab == tabLogin {
			d.tab = tabRegister
			d.register.Reset()
		} else {
			d.tab = tabLogin
			d.login.Reset()
		}
		return nil, false
	}

	if d.tab == tabLogin {
		return d.login.Update(message), false
	}
	return d.register.Update(message), false
}

// HandleAuthResult consumes an auth call outcome. signedIn is true when the
// dialog finished its job and closed with an authenticated session.
func (d *AuthDialog) HandleAuthResult(msg authDoneMsg) (signedIn bool) {
	if !d.visible {
		return false
	}
	switch msg.mode {
	case authRegister:
		d.register.HandleResult(msg)
		// The session is live, but the dialog stays open until the
		// passphrase verification finishes.
		return false
	default:
		if d.login.HandleResult(msg) {
			d.Hide()
			return true
		}
		return false
	}
}

// RegistrationFinished closes the dialog after the register flow's success
// screen was acknowledged.
func (d *AuthDialog) RegistrationFinished() bool {
	return d.tab == tabRegister && d.register.Done()
}

// View renders the dialog box.
func (d AuthDialog) View() string {
	if !d.visible {
		return ""
	}

	titleActive := lipgloss.NewStyle().Foreground(d.theme.SelectedForeground).Bold(true)
	titleFaint := lipgloss.NewStyle().Foreground(d.theme.FaintText)

	loginLabel := "Sign in"
	registerLabel := "Create account"
	var tabs string
	if d.tab == tabLogin {
		tabs = titleActive.Render(loginLabel) + titleFaint.Render("  ·  "+registerLabel)
	} else {
		tabs = titleFaint.Render(loginLabel+"  ·  ") + titleActive.Render(registerLabel)
	}

	var b strings.Builder
	b.WriteString(tabs)
	b.WriteString("\n\n")
	if d.notice != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(d.theme.WarningText).Render(d.notice))
		b.WriteString("\n\n")
	}
	if d.tab == tabLogin {
		b.WriteString(d.login.View())
	} else {
		b.WriteString(d.register.View())
	}
	b.WriteString("\n\n")
	if d.confirmExit {
		b.WriteString(lipgloss.NewStyle().Foreground(d.theme.WarningText).Render(confirmExitPrompt))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(d.theme.HelpText).Render("y exit · any other key stay"))
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(d.theme.HelpText).Render("ctrl+t switch · esc close"))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(d.theme.BorderColor).
		Padding(1, 2)
	return box.Render(b.String())
}
