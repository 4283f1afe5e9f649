package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"havencli/internal/api"
	"havencli/internal/feed"
	"havencli/internal/logging"
	"havencli/internal/models"
	"havencli/internal/session"
)

// Deps are the collaborators the UI calls out to. ctx is the application
// lifetime context; commands run on it so quitting the program cancels
// everything in flight.
type Deps struct {
	Client  api.Client
	Session *session.Store
	Log     logging.Logger
	ctx     context.Context
}

// NewDeps bundles the UI's collaborators.
func NewDeps(ctx context.Context, client api.Client, store *session.Store, log logging.Logger) *Deps {
	if log == nil {
		log = logging.Nop{}
	}
	return &Deps{Client: client, Session: store, Log: log, ctx: ctx}
}

func (d *Deps) hydrateCmd() tea.Cmd {
	return func() tea.Msg {
		user, restored, err := d.Session.Hydrate(d.ctx)
		return hydrateDoneMsg{user: user, restored: restored, err: err}
	}
}

func (d *Deps) loginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		user, isNewDevice, err := d.Session.Login(d.ctx, username, password)
		return authDoneMsg{mode: authLogin, user: user, isNewDevice: isNewDevice, err: err}
	}
}

func (d *Deps) loginPassphraseCmd(username string, words []string) tea.Cmd {
	return func() tea.Msg {
		user, err := d.Session.LoginPassphrase(d.ctx, username, words)
		return authDoneMsg{mode: authLoginPassphrase, user: user, err: err}
	}
}

func (d *Deps) registerCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		user, passphrase, err := d.Session.Register(d.ctx, username, password)
		return authDoneMsg{mode: authRegister, user: user, passphrase: passphrase, err: err}
	}
}

func (d *Deps) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		d.Session.Logout(d.ctx)
		return nil
	}
}

func (d *Deps) feedPageCmd(q models.FeedQuery, seq int) tea.Cmd {
	return func() tea.Msg {
		page, err := d.Client.Feed(d.ctx, q)
		if err != nil {
			return feedPageMsg{seq: seq, err: err}
		}
		return feedPageMsg{seq: seq, page: feed.Page{
			Posts:       page.Posts,
			Page:        page.Page,
			TotalPages:  page.TotalPages,
			TotalItems:  page.TotalItems,
			HasNextPage: page.HasNextPage,
		}}
	}
}

func (d *Deps) createPostCmd(draft models.PostDraft) tea.Cmd {
	return func() tea.Msg {
		post, err := d.Client.CreatePost(d.ctx, draft)
		return postCreatedMsg{post: post, err: err}
	}
}

func (d *Deps) votePostCmd(postID string, up bool) tea.Cmd {
	return func() tea.Msg {
		err := d.Client.VotePost(d.ctx, postID, up)
		return voteDoneMsg{postID: postID, up: up, err: err}
	}
}

func (d *Deps) savePostCmd(postID string, saved bool) tea.Cmd {
	return func() tea.Msg {
		err := d.Client.SavePost(d.ctx, postID, saved)
		return saveDoneMsg{postID: postID, saved: saved, err: err}
	}
}

func (d *Deps) reportPostCmd(postID, reason string) tea.Cmd {
	return func() tea.Msg {
		err := d.Client.ReportPost(d.ctx, postID, reason)
		return reportDoneMsg{postID: postID, err: err}
	}
}

func (d *Deps) updateUrgencyCmd(postID string, level models.UrgencyLevel) tea.Cmd {
	return func() tea.Msg {
		post, err := d.Client.UpdatePostUrgency(d.ctx, postID, level)
		return urgencyDoneMsg{post: post, err: err}
	}
}

func (d *Deps) loadCommentsCmd(postID string) tea.Cmd {
	return func() tea.Msg {
		comments, err := d.Client.Comments(d.ctx, postID)
		return commentsLoadedMsg{postID: postID, comments: comments, err: err}
	}
}

func (d *Deps) createCommentCmd(postID, tempID string, draft models.CommentDraft) tea.Cmd {
	return func() tea.Msg {
		comment, err := d.Client.CreateComment(d.ctx, postID, draft)
		return commentCreatedMsg{postID: postID, tempID: tempID, comment: comment, err: err}
	}
}

func (d *Deps) likeCommentCmd(commentID string, liked bool) tea.Cmd {
	return func() tea.Msg {
		err := d.Client.LikeComment(d.ctx, commentID, liked)
		return commentLikeDoneMsg{commentID: commentID, liked: liked, err: err}
	}
}

func (d *Deps) loadTagsCmd() tea.Cmd {
	return func() tea.Msg {
		tags, err := d.Client.Tags(d.ctx, "")
		return tagsLoadedMsg{tags: tags, err: err}
	}
}

func (d *Deps) loadPopularTagsCmd(limit int) tea.Cmd {
	return func() tea.Msg {
		tags, err := d.Client.PopularTags(d.ctx, limit)
		return popularTagsLoadedMsg{tags: tags, err: err}
	}
}

func (d *Deps) createTagCmd(name string) tea.Cmd {
	return func() tea.Msg {
		tag, err := d.Client.CreateTag(d.ctx, name, "")
		return tagCreatedMsg{name: name, tag: tag, err: err}
	}
}

func (d *Deps) loadNotificationsCmd() tea.Cmd {
	return func() tea.Msg {
		page, err := d.Client.Notifications(d.ctx, 1, 50)
		return notificationsLoadedMsg{page: page, err: err}
	}
}

func (d *Deps) markNotificationReadCmd(id string) tea.Cmd {
	return func() tea.Msg {
		err := d.Client.MarkNotificationRead(d.ctx, id)
		return notificationReadMsg{id: id, err: err}
	}
}

func (d *Deps) markAllNotificationsReadCmd() tea.Cmd {
	return func() tea.Msg {
		err := d.Client.MarkAllNotificationsRead(d.ctx)
		return notificationReadMsg{err: err}
	}
}

// tempID mints an identifier for optimistic comments and tags so they can
// be found and replaced when the server answers.
func tempID() string {
	return "tmp-" + uuid.NewString()
}
