package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"havencli/internal/feed"
	"havencli/internal/models"
)

// feedAction is what the feed view asks the app shell to do in response
// to a key it does not handle itself.
type feedAction int

const (
	feedActionNone feedAction = iota
	// feedActionOpenComments opens the comment section for the post id.
	feedActionOpenComments
	// feedActionCompose opens the post composer.
	feedActionCompose
)

// sortCycle is the order the sort key steps through.
var sortCycle = []models.SortOption{
	models.SortNewest,
	models.SortPopular,
	models.SortTrending,
	models.SortMostComments,
}

// filterCycle is the order the filter key steps through.
var filterCycle = []models.FilterOption{
	models.FilterNone,
	models.FilterNeedsSupport,
	models.FilterExpertResponses,
	models.FilterMyPosts,
	models.FilterSaved,
}

// FeedView is the scrolling post list. Data state lives in feed.State;
// this owns the cursor, the loading spinner, and per-post display state
// like revealed trigger warnings.
type FeedView struct {
	deps  *Deps
	theme Theme

	state    *feed.State
	cursor   int
	revealed map[string]bool
	spinner  spinner.Model
	flash    string
	width    int
	height   int

	reporting    bool
	reportInput  textinput.Model
	reportPostID string

	popularTags []models.Tag
	tagFilter   int // 0 means no tag filter; otherwise index+1 into popularTags
}

// NewFeedView returns an empty feed view.
func NewFeedView(deps *Deps, theme Theme, pageSize int) FeedView {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent)

	reportInput := textinput.New()
	reportInput.Prompt = "Reason: "
	reportInput.CharLimit = 200

	return FeedView{
		deps:        deps,
		theme:       theme,
		state:       feed.NewState(pageSize),
		revealed:    make(map[string]bool),
		spinner:     sp,
		reportInput: reportInput,
	}
}

// State exposes the underlying feed data for the app shell.
func (v *FeedView) State() *feed.State { return v.state }

// SetSize stores the layout area.
func (v *FeedView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Load requests the next feed page if one is due. Returns nil when a
// request is already in flight or the feed is exhausted.
func (v *FeedView) Load() tea.Cmd {
	q, seq, ok := v.state.NextRequest()
	if !ok {
		return nil
	}
	return tea.Batch(v.deps.feedPageCmd(q, seq), v.spinner.Tick)
}

// Reload starts the feed over from page one.
func (v *FeedView) Reload() tea.Cmd {
	v.state.Reset()
	v.cursor = 0
	return v.Load()
}

// Update processes a key message.
func (v *FeedView) Update(message tea.KeyMsg) (tea.Cmd, feedAction, string) {
	if v.reporting {
		return v.updateReport(message), feedActionNone, ""
	}
	v.flash = ""
	posts := v.state.Posts()

	switch message.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
		return nil, feedActionNone, ""

	case "down", "j":
		if v.cursor < len(posts)-1 {
			v.cursor++
			return nil, feedActionNone, ""
		}
		// Cursor is on the last loaded post: infinite scroll kicks in.
		return v.Load(), feedActionNone, ""

	case "l":
		return v.toggleLike(), feedActionNone, ""

	case "s":
		return v.toggleSave(), feedActionNone, ""

	case "w":
		if p, ok := v.current(); ok && p.HasTriggerWarning {
			v.revealed[p.ID] = !v.revealed[p.ID]
		}
		return nil, feedActionNone, ""

	case "o":
		v.state.SetSort(nextIn(sortCycle, v.state.Query().Sort))
		v.cursor = 0
		return v.Load(), feedActionNone, ""

	case "f":
		v.state.SetFilter(nextIn(filterCycle, v.state.Query().Filter))
		v.cursor = 0
		return v.Load(), feedActionNone, ""

	case "r":
		if v.state.Err() != nil {
			return v.Load(), feedActionNone, ""
		}
		return nil, feedActionNone, ""

	case "t":
		return v.cycleTagFilter(), feedActionNone, ""

	case "u":
		return v.cycleUrgency(), feedActionNone, ""

	case "x":
		if p, ok := v.current(); ok {
			v.reporting = true
			v.reportPostID = p.ID
			v.reportInput.SetValue("")
			v.reportInput.Focus()
		}
		return nil, feedActionNone, ""

	case "n":
		return nil, feedActionCompose, ""

	case "enter", "c":
		if p, ok := v.current(); ok {
			return nil, feedActionOpenComments, p.ID
		}
		return nil, feedActionNone, ""
	}
	return nil, feedActionNone, ""
}

// HandlePage installs a fetched page. Stale pages are dropped by the
// sequence guard in feed.State.
func (v *FeedView) HandlePage(msg feedPageMsg) {
	if msg.err != nil {
		v.state.Fail(msg.seq, msg.err)
		return
	}
	v.state.Apply(msg.seq, msg.page)
	if v.cursor >= len(v.state.Posts()) {
		v.cursor = max(0, len(v.state.Posts())-1)
	}
}

// HandleVoteDone reverts the optimistic like when the server refused it.
func (v *FeedView) HandleVoteDone(msg voteDoneMsg) {
	if msg.err == nil {
		return
	}
	v.state.ToggleLike(msg.postID)
	v.flash = userMessage(msg.err)
}

// HandleSaveDone reverts the optimistic save when the server refused it.
func (v *FeedView) HandleSaveDone(msg saveDoneMsg) {
	if msg.err == nil {
		return
	}
	v.state.ToggleSave(msg.postID)
	v.flash = userMessage(msg.err)
}

// HandleSpinner keeps the spinner animating while a load is in flight.
func (v *FeedView) HandleSpinner(msg spinner.TickMsg) tea.Cmd {
	if !v.state.Loading() {
		return nil
	}
	var cmd tea.Cmd
	v.spinner, cmd = v.spinner.Update(msg)
	return cmd
}

// SetPopularTags installs the trending tags behind the quick filter key.
func (v *FeedView) SetPopularTags(tags []models.Tag) {
	v.popularTags = tags
	v.tagFilter = 0
}

// cycleTagFilter steps the feed through the popular tags one at a time,
// wrapping back to no tag filter after the last one.
func (v *FeedView) cycleTagFilter() tea.Cmd {
	if len(v.popularTags) == 0 {
		return nil
	}
	v.tagFilter = (v.tagFilter + 1) % (len(v.popularTags) + 1)
	if v.tagFilter == 0 {
		v.state.SetTags(nil)
	} else {
		v.state.SetTags([]string{v.popularTags[v.tagFilter-1].Name})
	}
	v.cursor = 0
	return v.Load()
}

// urgencyCycle is the order the urgency key steps through on own posts.
var urgencyCycle = []models.UrgencyLevel{
	models.UrgencyLow,
	models.UrgencyMedium,
	models.UrgencyHigh,
	models.UrgencyCritical,
}

// cycleUrgency bumps the selected post's urgency level. Only the author
// can change it; the new level lands when the server confirms.
func (v *FeedView) cycleUrgency() tea.Cmd {
	p, ok := v.current()
	if !ok {
		return nil
	}
	user, signedIn := v.deps.Session.User()
	if !signedIn || p.Author.ID != user.ID {
		v.flash = "Only the author can change a post's urgency."
		return nil
	}
	return v.deps.updateUrgencyCmd(p.ID, nextIn(urgencyCycle, p.UrgencyLevel))
}

func (v *FeedView) updateReport(message tea.KeyMsg) tea.Cmd {
	switch message.Type {
	case tea.KeyEsc:
		v.reporting = false
		v.reportInput.Blur()
		return nil
	case tea.KeyEnter:
		reason := strings.TrimSpace(v.reportInput.Value())
		if reason == "" {
			return nil
		}
		postID := v.reportPostID
		v.reporting = false
		v.reportInput.Blur()
		return v.deps.reportPostCmd(postID, reason)
	}
	var cmd tea.Cmd
	v.reportInput, cmd = v.reportInput.Update(message)
	return cmd
}

// HandleReportDone surfaces the outcome of a report.
func (v *FeedView) HandleReportDone(msg reportDoneMsg) {
	if msg.err != nil {
		v.flash = userMessage(msg.err)
		return
	}
	v.flash = "Thanks. A moderator will take a look."
}

func (v *FeedView) toggleLike() tea.Cmd {
	p, ok := v.current()
	if !ok {
		return nil
	}
	nowLiked, _ := v.state.ToggleLike(p.ID)
	return v.deps.votePostCmd(p.ID, nowLiked)
}

func (v *FeedView) toggleSave() tea.Cmd {
	p, ok := v.current()
	if !ok {
		return nil
	}
	nowSaved, _ := v.state.ToggleSave(p.ID)
	return v.deps.savePostCmd(p.ID, nowSaved)
}

func (v *FeedView) current() (models.Post, bool) {
	posts := v.state.Posts()
	if v.cursor < 0 || v.cursor >= len(posts) {
		return models.Post{}, false
	}
	return posts[v.cursor], true
}

// View renders the feed.
func (v FeedView) View() string {
	faint := lipgloss.NewStyle().Foreground(v.theme.FaintText)
	help := lipgloss.NewStyle().Foreground(v.theme.HelpText)
	errStyle := lipgloss.NewStyle().Foreground(v.theme.ErrorText)

	var b strings.Builder

	q := v.state.Query()
	header := fmt.Sprintf("Feed · sort: %s", q.Sort)
	if q.Filter != models.FilterNone {
		header += fmt.Sprintf(" · filter: %s", q.Filter)
	}
	if len(q.Tags) > 0 {
		header += " · #" + strings.Join(q.Tags, " #")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(v.theme.Accent).Bold(true).Render(header))
	b.WriteString("\n\n")

	posts := v.state.Posts()
	if len(posts) == 0 && !v.state.Loading() && v.state.Err() == nil {
		b.WriteString(faint.Render("Nothing here yet. Press n to share something."))
		b.WriteString("\n")
	}

	for i, p := range posts {
		b.WriteString(v.renderPost(p, i == v.cursor))
		b.WriteString("\n")
	}

	switch {
	case v.state.Err() != nil:
		b.WriteString(errStyle.Render("Couldn't load the feed. Press r to try again."))
		b.WriteString("\n")
	case v.state.Loading():
		b.WriteString(v.spinner.View())
		b.WriteString(faint.Render(" loading..."))
		b.WriteString("\n")
	case !v.state.HasMore() && len(posts) > 0:
		b.WriteString(faint.Render("You're all caught up."))
		b.WriteString("\n")
	}

	if v.reporting {
		b.WriteString("Report post\n")
		b.WriteString(v.reportInput.View())
		b.WriteString("\n")
		b.WriteString(help.Render("enter send · esc cancel"))
		return b.String()
	}

	if v.flash != "" {
		b.WriteString(errStyle.Render(v.flash))
		b.WriteString("\n")
	}
	b.WriteString(help.Render("j/k move · l like · s save · c comments · n new · o sort · f filter · t tag · u urgency · x report · w show hidden · esc home"))
	return b.String()
}

func (v FeedView) renderPost(p models.Post, selected bool) string {
	faint := lipgloss.NewStyle().Foreground(v.theme.FaintText)
	warn := lipgloss.NewStyle().Foreground(v.theme.WarningText)
	expert := lipgloss.NewStyle().Foreground(v.theme.ExpertBadge)

	name := p.AuthorName()
	if p.Author.IsExpert && !p.IsAnonymous {
		name += " " + expert.Render("[expert]")
	}

	meta := fmt.Sprintf("%s · %s", name, relativeTime(p.CreatedAt))
	if p.UrgencyLevel != "" {
		badge := lipgloss.NewStyle().Foreground(v.theme.UrgencyColor(p.UrgencyLevel))
		meta += " · " + badge.Render(string(p.UrgencyLevel))
	}
	if p.HasExpertResponse {
		meta += " · " + expert.Render("expert responded")
	}

	body := p.Content
	if p.HasTriggerWarning && !v.revealed[p.ID] {
		label := p.TriggerWarningText
		if label == "" {
			label = "sensitive content"
		}
		body = warn.Render(fmt.Sprintf("⚠ %s (press w to show)", label))
	}

	var tagLine string
	if len(p.Tags) > 0 {
		names := make([]string, len(p.Tags))
		for i, t := range p.Tags {
			names[i] = "#" + t.Name
		}
		tagLine = faint.Render(strings.Join(names, " "))
	}

	like := fmt.Sprintf("♥ %d", p.LikeCount)
	if p.IsLikedByUser {
		like = lipgloss.NewStyle().Foreground(v.theme.ErrorText).Render(like)
	}
	save := ""
	if p.IsSavedByUser {
		save = " · saved"
	}
	counts := fmt.Sprintf("%s · %d comments%s", like, p.CommentCount, save)

	lines := []string{faint.Render(meta), body}
	if tagLine != "" {
		lines = append(lines, tagLine)
	}
	lines = append(lines, faint.Render(counts))

	card := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(v.theme.BorderColor).
		PaddingLeft(1)
	if selected {
		card = card.BorderForeground(v.theme.Accent)
	}
	return card.Render(strings.Join(lines, "\n"))
}

// nextIn steps to the next element of a cycle, wrapping around.
func nextIn[T comparable](cycle []T, current T) T {
	for i, v := range cycle {
		if v == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

// relativeTime renders a compact "how long ago" label.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "just now"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
