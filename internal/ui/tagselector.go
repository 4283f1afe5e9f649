package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"havencli/internal/models"
	"havencli/internal/tags"
)

// TagPicker is the tag search-and-select widget inside the post composer.
// Selection logic lives in tags.Selector; this wraps it with an input
// field and a cursor over the suggestions.
type TagPicker struct {
	deps  *Deps
	theme Theme

	selector *tags.Selector
	input    textinput.Model
	cursor   int
}

// NewTagPicker returns a picker over the given known tags.
func NewTagPicker(deps *Deps, theme Theme, available []models.Tag) TagPicker {
	input := textinput.New()
	input.Prompt = "Tags: "
	input.Placeholder = "search or create"
	input.CharLimit = 32

	return TagPicker{
		deps:     deps,
		theme:    theme,
		selector: tags.NewSelector(available),
		input:    input,
	}
}

// SetAvailable installs a freshly loaded tag list.
func (p *TagPicker) SetAvailable(available []models.Tag) {
	p.selector.SetAvailable(available)
}

// SelectedNames returns the chosen tag names for the post draft.
func (p *TagPicker) SelectedNames() []string { return p.selector.SelectedNames() }

// Focus gives the input keyboard focus.
func (p *TagPicker) Focus() { p.input.Focus() }

// Blur removes keyboard focus.
func (p *TagPicker) Blur() { p.input.Blur() }

// rows returns the selectable rows: suggestions first, then the create
// offer when it applies.
func (p *TagPicker) rows() ([]models.Tag, bool) {
	return p.selector.Results(), p.selector.OfferCreate()
}

// Update processes a key message. The returned command is non-nil when a
// new tag is being created on the server.
func (p *TagPicker) Update(message tea.KeyMsg) tea.Cmd {
	results, offerCreate := p.rows()
	total := len(results)
	if offerCreate {
		total++
	}

	switch message.Type {
	case tea.KeyDown:
		if p.cursor < total-1 {
			p.cursor++
		}
		return nil

	case tea.KeyUp:
		if p.cursor > 0 {
			p.cursor--
		}
		return nil

	case tea.KeyEnter:
		if total == 0 {
			return nil
		}
		if p.cursor < len(results) {
			p.selector.Select(results[p.cursor])
			p.input.SetValue("")
			p.cursor = 0
			return nil
		}
		return p.createTag()

	case tea.KeyBackspace:
		// Backspace on an empty query removes the most recent tag.
		if p.input.Value() == "" {
			selected := p.selector.Selected()
			if len(selected) > 0 {
				p.selector.Deselect(selected[len(selected)-1].Name)
			}
			return nil
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(message)
	p.selector.SetQuery(p.input.Value())
	p.cursor = 0
	return cmd
}

// createTag optimistically installs and selects the new tag, then asks the
// server to create it. tagCreatedMsg resolves the placeholder either way.
func (p *TagPicker) createTag() tea.Cmd {
	name := strings.TrimSpace(p.input.Value())
	if name == "" || p.selector.Full() {
		return nil
	}
	p.selector.AddCreated(models.Tag{ID: tempID(), Name: name})
	p.input.SetValue("")
	p.selector.SetQuery("")
	p.cursor = 0
	return p.deps.createTagCmd(name)
}

// HandleCreated resolves an optimistic tag: the server's version replaces
// it, or a failure backs it out so the create can be offered again.
func (p *TagPicker) HandleCreated(msg tagCreatedMsg) {
	if msg.err != nil {
		p.selector.RemoveCreated(msg.name)
		return
	}
	p.selector.ReplaceCreated(msg.name, msg.tag)
}

// View renders the selected tags, the input, and the suggestion list.
func (p TagPicker) View() string {
	chip := lipgloss.NewStyle().
		Foreground(p.theme.SelectedForeground).
		Background(p.theme.SelectedBackground).
		Padding(0, 1)
	faint := lipgloss.NewStyle().Foreground(p.theme.FaintText)
	selectedRow := lipgloss.NewStyle().
		Foreground(p.theme.SelectedForeground).
		Background(p.theme.SelectedBackground)

	var b strings.Builder
	if selected := p.selector.Selected(); len(selected) > 0 {
		var chips []string
		for _, t := range selected {
			chips = append(chips, chip.Render(t.Name))
		}
		b.WriteString(strings.Join(chips, " "))
		b.WriteString(faint.Render(fmt.Sprintf("  %d/%d", len(selected), tags.MaxTags)))
		b.WriteString("\n")
	}
	b.WriteString(p.input.View())

	if !p.input.Focused() {
		return b.String()
	}

	results, offerCreate := p.rows()
	for i, t := range results {
		b.WriteString("\n")
		line := "  " + t.Name
		if t.Count > 0 {
			line += faint.Render(fmt.Sprintf(" (%d)", t.Count))
		}
		if i == p.cursor {
			line = selectedRow.Render("> " + t.Name)
		}
		b.WriteString(line)
	}
	if offerCreate {
		b.WriteString("\n")
		line := "  Create \"" + strings.TrimSpace(p.input.Value()) + "\""
		if p.cursor == len(results) {
			line = selectedRow.Render("> " + strings.TrimPrefix(line, "  "))
		}
		b.WriteString(line)
	}
	return b.String()
}
