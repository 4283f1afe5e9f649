package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"havencli/internal/feed"
	"havencli/internal/models"
)

// composerFocus identifies which part of the post composer has keyboard
// focus.
type composerFocus int

const (
	focusContent composerFocus = iota
	focusTags
	focusWarningText
)

// PostForm is the post composer. Ctrl+A toggles anonymity, Ctrl+W the
// trigger warning, Tab cycles the inputs, Ctrl+D submits.
type PostForm struct {
	deps  *Deps
	theme Theme

	content    textarea.Model
	tagPicker  TagPicker
	warning    textinput.Model
	focus      composerFocus
	anonymous  bool
	hasWarning bool
	errText    string
	submitting bool
}

// NewPostForm returns a composer with the content area focused.
func NewPostForm(deps *Deps, theme Theme, available []models.Tag) PostForm {
	content := textarea.New()
	content.Placeholder = "What's on your mind?"
	content.CharLimit = 5000
	content.SetHeight(6)
	content.Focus()

	warning := textinput.New()
	warning.Prompt = "Warning about: "
	warning.CharLimit = 200

	return PostForm{
		deps:      deps,
		theme:     theme,
		content:   content,
		tagPicker: NewTagPicker(deps, theme, available),
		warning:   warning,
	}
}

// SetAvailableTags installs a freshly loaded tag list.
func (f *PostForm) SetAvailableTags(available []models.Tag) {
	f.tagPicker.SetAvailable(available)
}

// Err returns the current validation or submission error message.
func (f *PostForm) Err() string { return f.errText }

// Submitting reports whether the create call is in flight.
func (f *PostForm) Submitting() bool { return f.submitting }

// Draft assembles the current draft.
func (f *PostForm) Draft() models.PostDraft {
	return models.PostDraft{
		Content:            f.content.Value(),
		IsAnonymous:        f.anonymous,
		Tags:               f.tagPicker.SelectedNames(),
		HasTriggerWarning:  f.hasWarning,
		TriggerWarningText: f.warning.Value(),
	}
}

// Update processes a key message. The returned command is the create call
// on submit, or an input widget's own command.
func (f *PostForm) Update(message tea.KeyMsg) tea.Cmd {
	if f.submitting {
		return nil
	}

	switch message.Type {
	case tea.KeyCtrlA:
		f.anonymous = !f.anonymous
		return nil

	case tea.KeyCtrlW:
		f.hasWarning = !f.hasWarning
		if f.hasWarning {
			f.setFocus(focusWarningText)
		} else {
			f.warning.SetValue("")
			f.setFocus(focusContent)
		}
		return nil

	case tea.KeyCtrlD:
		return f.submit()

	case tea.KeyTab:
		// The tag picker uses Tab-free navigation, so Tab always cycles
		// the composer sections.
		f.setFocus(f.nextFocus())
		return nil
	}

	f.errText = ""
	var cmd tea.Cmd
	switch f.focus {
	case focusContent:
		f.content, cmd = f.content.Update(message)
	case focusTags:
		cmd = f.tagPicker.Update(message)
	case focusWarningText:
		f.warning, cmd = f.warning.Update(message)
	}
	return cmd
}

// HandleTagCreated forwards an optimistic tag resolution to the picker.
func (f *PostForm) HandleTagCreated(msg tagCreatedMsg) {
	f.tagPicker.HandleCreated(msg)
}

// HandleResult consumes the create call's outcome. Returns the created
// post and true on success so the feed can prepend it.
func (f *PostForm) HandleResult(msg postCreatedMsg) (models.Post, bool) {
	f.submitting = false
	if msg.err != nil {
		f.errText = userMessage(msg.err)
		return models.Post{}, false
	}
	return msg.post, true
}

func (f *PostForm) submit() tea.Cmd {
	draft := f.Draft()
	if err := feed.ValidatePostDraft(draft); err != nil {
		f.errText = err.Error()
		if err == feed.ErrWarningRequired {
			f.setFocus(focusWarningText)
		}
		return nil
	}
	f.submitting = true
	f.errText = ""
	return f.deps.createPostCmd(draft)
}

func (f *PostForm) nextFocus() composerFocus {
	switch f.focus {
	case focusContent:
		return focusTags
	case focusTags:
		if f.hasWarning {
			return focusWarningText
		}
		return focusContent
	default:
		return focusContent
	}
}

func (f *PostForm) setFocus(focus composerFocus) {
	f.focus = focus
	f.content.Blur()
	f.tagPicker.Blur()
	f.warning.Blur()
	switch focus {
	case focusContent:
		f.content.Focus()
	case focusTags:
		f.tagPicker.Focus()
	case focusWarningText:
		f.warning.Focus()
	}
}

// View renders the composer.
func (f PostForm) View() string {
	faint := lipgloss.NewStyle().Foreground(f.theme.FaintText)
	on := lipgloss.NewStyle().Foreground(f.theme.SuccessText)
	help := lipgloss.NewStyle().Foreground(f.theme.HelpText)

	var b strings.Builder
	b.WriteString("New post\n\n")
	b.WriteString(f.content.View())
	b.WriteString("\n\n")
	b.WriteString(f.tagPicker.View())
	b.WriteString("\n\n")

	if f.anonymous {
		b.WriteString(on.Render("[x] post as " + models.AnonymousName))
	} else {
		b.WriteString(faint.Render("[ ] post as " + models.AnonymousName))
	}
	b.WriteString("   ")
	if f.hasWarning {
		b.WriteString(on.Render("[x] trigger warning"))
		b.WriteString("\n")
		b.WriteString(f.warning.View())
	} else {
		b.WriteString(faint.Render("[ ] trigger warning"))
	}
	b.WriteString("\n\n")

	if f.submitting {
		b.WriteString(faint.Render("Posting..."))
		b.WriteString("\n")
	}
	if f.errText != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(f.theme.ErrorText).Render(f.errText))
		b.WriteString("\n")
	}
	b.WriteString(help.Render("ctrl+d post · ctrl+a anonymous · ctrl+w warning · tab next field · esc cancel"))
	return b.String()
}
