package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"havencli/internal/models"
)

// NotificationsView is the notification panel. It is fed from two sides:
// the initial page load and live events arriving over the socket.
type NotificationsView struct {
	deps  *Deps
	theme Theme

	items   []models.Notification
	unread  int
	cursor  int
	loaded  bool
	loadErr error
	flash   string
}

// NewNotificationsView returns an empty panel.
func NewNotificationsView(deps *Deps, theme Theme) NotificationsView {
	return NotificationsView{deps: deps, theme: theme}
}

// Unread returns the account-wide unread count for the header badge.
func (v *NotificationsView) Unread() int { return v.unread }

// Load fetches the first notification page.
func (v *NotificationsView) Load() tea.Cmd {
	return v.deps.loadNotificationsCmd()
}

// Clear drops all notification state, used on logout.
func (v *NotificationsView) Clear() {
	v.items = nil
	v.unread = 0
	v.cursor = 0
	v.loaded = false
	v.loadErr = nil
	v.flash = ""
}

// Update processes a key message. closed is true when the panel should
// give way back to the feed.
func (v *NotificationsView) Update(message tea.KeyMsg) (cmd tea.Cmd, closed bool) {
	v.flash = ""

	switch message.String() {
	case "esc", "q":
		return nil, true

	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}

	case "down", "j":
		if v.cursor < len(v.items)-1 {
			v.cursor++
		}

	case "enter":
		return v.markRead(), false

	case "a":
		return v.markAllRead(), false

	case "r":
		if v.loadErr != nil {
			return v.Load(), false
		}
	}
	return nil, false
}

// markRead flips the selected notification read optimistically; the
// server result either stands or reverts it.
func (v *NotificationsView) markRead() tea.Cmd {
	if v.cursor >= len(v.items) {
		return nil
	}
	n := &v.items[v.cursor]
	if n.IsRead {
		return nil
	}
	n.IsRead = true
	if v.unread > 0 {
		v.unread--
	}
	return v.deps.markNotificationReadCmd(n.ID)
}

func (v *NotificationsView) markAllRead() tea.Cmd {
	if v.unread == 0 {
		return nil
	}
	for i := range v.items {
		v.items[i].IsRead = true
	}
	v.unread = 0
	return v.deps.markAllNotificationsReadCmd()
}

// HandleLoaded installs the fetched page.
func (v *NotificationsView) HandleLoaded(msg notificationsLoadedMsg) {
	if msg.err != nil {
		v.loadErr = msg.err
		return
	}
	v.loaded = true
	v.loadErr = nil
	v.items = msg.page.Notifications
	v.unread = msg.page.UnreadCount
	if v.cursor >= len(v.items) {
		v.cursor = 0
	}
}

// HandleReadDone reconciles a mark-read call. On failure the panel
// reloads rather than guessing which flags to put back.
func (v *NotificationsView) HandleReadDone(msg notificationReadMsg) tea.Cmd {
	if msg.err == nil {
		return nil
	}
	v.flash = userMessage(msg.err)
	return v.Load()
}

// HandleSocketEvent applies one live event: a new notification goes on
// top unread, a counter event replaces the unread count wholesale.
func (v *NotificationsView) HandleSocketEvent(msg socketEventMsg) {
	if n := msg.event.Notification; n != nil {
		v.items = append([]models.Notification{*n}, v.items...)
		if !n.IsRead {
			v.unread++
		}
		if v.cursor > 0 {
			v.cursor++
		}
	}
	if c := msg.event.UnreadCount; c != nil {
		v.unread = *c
	}
}

// View renders the panel.
func (v NotificationsView) View() string {
	faint := lipgloss.NewStyle().Foreground(v.theme.FaintText)
	help := lipgloss.NewStyle().Foreground(v.theme.HelpText)
	errStyle := lipgloss.NewStyle().Foreground(v.theme.ErrorText)
	unreadStyle := lipgloss.NewStyle().Foreground(v.theme.UnreadBadge)

	var b strings.Builder
	header := "Notifications"
	if v.unread > 0 {
		header += unreadStyle.Render(fmt.Sprintf(" (%d unread)", v.unread))
	}
	b.WriteString(lipgloss.NewStyle().Foreground(v.theme.Accent).Bold(true).Render(header))
	b.WriteString("\n\n")

	switch {
	case v.loadErr != nil:
		b.WriteString(errStyle.Render("Couldn't load notifications. Press r to try again."))
		b.WriteString("\n")
	case !v.loaded:
		b.WriteString(faint.Render("Loading..."))
		b.WriteString("\n")
	case len(v.items) == 0:
		b.WriteString(faint.Render("Nothing yet."))
		b.WriteString("\n")
	default:
		for i, n := range v.items {
			b.WriteString(v.renderItem(n, i == v.cursor))
			b.WriteString("\n")
		}
	}

	if v.flash != "" {
		b.WriteString(errStyle.Render(v.flash))
		b.WriteString("\n")
	}
	b.WriteString(help.Render("j/k move · enter mark read · a mark all read · esc back"))
	return b.String()
}

func (v NotificationsView) renderItem(n models.Notification, selected bool) string {
	faint := lipgloss.NewStyle().Foreground(v.theme.FaintText)

	marker := "  "
	if !n.IsRead {
		marker = lipgloss.NewStyle().Foreground(v.theme.UnreadBadge).Render("● ")
	}
	line := marker + n.Message + " " + faint.Render(relativeTime(n.CreatedAt))

	if selected {
		return lipgloss.NewStyle().
			Foreground(v.theme.SelectedForeground).
			Background(v.theme.SelectedBackground).
			Render(line)
	}
	return line
}
