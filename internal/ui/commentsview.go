package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"havencli/internal/feed"
	"havencli/internal/models"
)

// commentRef is one row of the flattened comment list.
type commentRef struct {
	comment models.Comment
	isReply bool
}

// CommentsView is the comment section for one post. The thread data lives
// in feed.Thread; the view owns the cursor and the reply composer. It
// keeps a handle on the feed state so the post's comment counter tracks
// optimistic adds and their reverts.
type CommentsView struct {
	deps  *Deps
	theme Theme

	post      models.Post
	thread    *feed.Thread
	feedState *feed.State
	cursor    int
	input     textarea.Model
	composing bool
	replyTo   string
	anonymous bool
	flash     string
}

// NewCommentsView returns a comments view bound to the feed state.
func NewCommentsView(deps *Deps, theme Theme, feedState *feed.State) CommentsView {
	input := textarea.New()
	input.Placeholder = "Write a comment..."
	input.CharLimit = 2000
	input.SetHeight(3)

	return CommentsView{
		deps:      deps,
		theme:     theme,
		feedState: feedState,
		input:     input,
	}
}

// Open starts loading the comment section for a post.
func (v *CommentsView) Open(post models.Post) tea.Cmd {
	v.post = post
	v.thread = feed.NewThread(post.ID)
	v.cursor = 0
	v.composing = false
	v.replyTo = ""
	v.anonymous = false
	v.flash = ""
	v.input.SetValue("")
	v.thread.Begin()
	return v.deps.loadCommentsCmd(post.ID)
}

// PostID returns the open post's id, empty when nothing is open.
func (v *CommentsView) PostID() string {
	if v.thread == nil {
		return ""
	}
	return v.thread.PostID()
}

// Update processes a key message. closed is true when the section should
// give way back to the feed.
func (v *CommentsView) Update(message tea.KeyMsg) (cmd tea.Cmd, closed bool) {
	if v.thread == nil {
		return nil, true
	}
	if v.composing {
		return v.updateComposer(message), false
	}

	v.flash = ""
	rows := v.flatten()

	switch message.String() {
	case "esc", "q":
		return nil, true

	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}

	case "down", "j":
		if v.cursor < len(rows)-1 {
			v.cursor++
		}

	case "l":
		if v.cursor < len(rows) {
			return v.toggleLike(rows[v.cursor].comment.ID), false
		}

	case "r":
		if v.cursor < len(rows) {
			// Replies to replies anchor at the top-level ancestor; the
			// thread handles that on insert.
			v.startComposer(rows[v.cursor].comment.ID)
		}

	case "c":
		v.startComposer("")

	case "R":
		if v.thread.Err() != nil {
			v.thread.Begin()
			return v.deps.loadCommentsCmd(v.post.ID), false
		}
	}
	return nil, false
}

func (v *CommentsView) startComposer(replyTo string) {
	v.composing = true
	v.replyTo = replyTo
	v.input.SetValue("")
	v.input.Focus()
}

func (v *CommentsView) updateComposer(message tea.KeyMsg) tea.Cmd {
	switch message.Type {
	case tea.KeyEsc:
		v.composing = false
		v.input.Blur()
		return nil
	case tea.KeyCtrlA:
		v.anonymous = !v.anonymous
		return nil
	case tea.KeyCtrlD:
		return v.submit()
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(message)
	return cmd
}

// submit inserts the comment optimistically and sends the create call.
// The placeholder carries a temporary id that commentCreatedMsg resolves.
func (v *CommentsView) submit() tea.Cmd {
	draft := models.CommentDraft{
		Content:     v.input.Value(),
		IsAnonymous: v.anonymous,
		ParentID:    v.replyTo,
	}
	if err := feed.ValidateCommentDraft(draft); err != nil {
		v.flash = err.Error()
		return nil
	}

	var author models.User
	if u, ok := v.deps.Session.User(); ok {
		author = u
	}
	placeholder := models.Comment{
		ID:          tempID(),
		PostID:      v.post.ID,
		ParentID:    v.replyTo,
		Author:      author,
		Content:     draft.Content,
		CreatedAt:   time.Now(),
		IsAnonymous: draft.IsAnonymous,
	}
	v.thread.AddOptimistic(placeholder)
	v.feedState.AdjustCommentCount(v.post.ID, 1)

	v.composing = false
	v.input.Blur()
	v.input.SetValue("")
	return v.deps.createCommentCmd(v.post.ID, placeholder.ID, draft)
}

// HandleLoaded installs the fetched thread.
func (v *CommentsView) HandleLoaded(msg commentsLoadedMsg) {
	if v.thread == nil || msg.postID != v.thread.PostID() {
		return
	}
	if msg.err != nil {
		v.thread.Fail(msg.err)
		return
	}
	v.thread.Apply(msg.comments)
}

// HandleCreated resolves an optimistic comment: confirmed with the server
// version, or removed with the counter walked back.
func (v *CommentsView) HandleCreated(msg commentCreatedMsg) {
	if v.thread == nil || msg.postID != v.thread.PostID() {
		return
	}
	if msg.err != nil {
		v.thread.Remove(msg.tempID)
		v.feedState.AdjustCommentCount(msg.postID, -1)
		v.flash = userMessage(msg.err)
		return
	}
	v.thread.Confirm(msg.tempID, msg.comment)
}

// HandleLikeDone reverts the optimistic comment like on failure.
func (v *CommentsView) HandleLikeDone(msg commentLikeDoneMsg) {
	if v.thread == nil || msg.err == nil {
		return
	}
	v.thread.ToggleLike(msg.commentID)
	v.flash = userMessage(msg.err)
}

func (v *CommentsView) toggleLike(commentID string) tea.Cmd {
	nowLiked, ok := v.thread.ToggleLike(commentID)
	if !ok {
		return nil
	}
	return v.deps.likeCommentCmd(commentID, nowLiked)
}

func (v *CommentsView) flatten() []commentRef {
	var rows []commentRef
	for _, c := range v.thread.Comments() {
		rows = append(rows, commentRef{comment: c})
		for _, r := range c.Replies {
			rows = append(rows, commentRef{comment: r, isReply: true})
		}
	}
	return rows
}

// View renders the post header, the thread, and the composer.
func (v CommentsView) View() string {
	if v.thread == nil {
		return ""
	}
	faint := lipgloss.NewStyle().Foreground(v.theme.FaintText)
	help := lipgloss.NewStyle().Foreground(v.theme.HelpText)
	errStyle := lipgloss.NewStyle().Foreground(v.theme.ErrorText)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(v.theme.Accent).Bold(true).Render("Comments"))
	b.WriteString("\n")
	b.WriteString(faint.Render(fmt.Sprintf("%s · %s", v.post.AuthorName(), relativeTime(v.post.CreatedAt))))
	b.WriteString("\n")
	b.WriteString(v.post.Content)
	b.WriteString("\n\n")

	switch {
	case v.thread.Loading():
		b.WriteString(faint.Render("Loading comments..."))
		b.WriteString("\n")
	case v.thread.Err() != nil:
		b.WriteString(errStyle.Render("Couldn't load comments. Press R to try again."))
		b.WriteString("\n")
	case len(v.thread.Comments()) == 0:
		b.WriteString(faint.Render("No comments yet. Press c to be the first."))
		b.WriteString("\n")
	default:
		rows := v.flatten()
		for i, row := range rows {
			b.WriteString(v.renderComment(row, i == v.cursor))
			b.WriteString("\n")
		}
	}

	if v.composing {
		b.WriteString("\n")
		if v.replyTo != "" {
			b.WriteString(faint.Render("Replying"))
			b.WriteString("\n")
		}
		b.WriteString(v.input.View())
		b.WriteString("\n")
		anon := "[ ]"
		if v.anonymous {
			anon = "[x]"
		}
		b.WriteString(faint.Render(anon + " comment as " + models.AnonymousName))
		b.WriteString("\n")
		b.WriteString(help.Render("ctrl+d send · ctrl+a anonymous · esc cancel"))
	} else {
		if v.flash != "" {
			b.WriteString(errStyle.Render(v.flash))
			b.WriteString("\n")
		}
		b.WriteString(help.Render("j/k move · l like · r reply · c comment · esc back"))
	}
	return b.String()
}

func (v CommentsView) renderComment(row commentRef, selected bool) string {
	faint := lipgloss.NewStyle().Foreground(v.theme.FaintText)
	expert := lipgloss.NewStyle().Foreground(v.theme.ExpertBadge)

	c := row.comment
	name := c.AuthorName()
	if c.IsExpertResponse {
		name += " " + expert.Render("[expert]")
	}

	like := fmt.Sprintf("♥ %d", c.LikeCount)
	if c.IsLikedByUser {
		like = lipgloss.NewStyle().Foreground(v.theme.ErrorText).Render(like)
	}

	meta := faint.Render(fmt.Sprintf("%s · %s · %s", name, relativeTime(c.CreatedAt), like))
	body := meta + "\n" + c.Content

	style := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(v.theme.BorderColor).
		PaddingLeft(1)
	if row.isReply {
		style = style.MarginLeft(4)
	}
	if selected {
		style = style.BorderForeground(v.theme.Accent)
	}
	return style.Render(body)
}
