package ui

import (
	"havencli/internal/api"
	"havencli/internal/feed"
	"havencli/internal/models"
)

// authMode says which call produced an authDoneMsg.
type authMode int

const (
	authLogin authMode = iota
	authLoginPassphrase
	authRegister
)

// authDoneMsg is the result of a register/login call.
type authDoneMsg struct {
	mode        authMode
	user        models.User
	isNewDevice bool
	passphrase  string
	err         error
}

// hydrateDoneMsg is the result of restoring a persisted session at startup.
type hydrateDoneMsg struct {
	user     models.User
	restored bool
	err      error
}

// feedPageMsg delivers one fetched feed page. seq is the pagination
// sequence token the request was issued under.
type feedPageMsg struct {
	seq  int
	page feed.Page
	err  error
}

// postCreatedMsg is the result of submitting a new post.
type postCreatedMsg struct {
	post models.Post
	err  error
}

// voteDoneMsg confirms or fails an optimistic post like.
type voteDoneMsg struct {
	postID string
	up     bool
	err    error
}

// saveDoneMsg confirms or fails an optimistic post save.
type saveDoneMsg struct {
	postID string
	saved  bool
	err    error
}

// reportDoneMsg is the result of reporting a post.
type reportDoneMsg struct {
	postID string
	err    error
}

// urgencyDoneMsg is the result of changing a post's urgency level.
type urgencyDoneMsg struct {
	post models.Post
	err  error
}

// commentsLoadedMsg delivers a post's comment thread.
type commentsLoadedMsg struct {
	postID   string
	comments []models.Comment
	err      error
}

// commentCreatedMsg resolves an optimistic comment: on success the server
// comment replaces the placeholder identified by tempID, on failure the
// placeholder is removed.
type commentCreatedMsg struct {
	postID  string
	tempID  string
	comment models.Comment
	err     error
}

// commentLikeDoneMsg confirms or fails an optimistic comment like.
type commentLikeDoneMsg struct {
	commentID string
	liked     bool
	err       error
}

// tagsLoadedMsg delivers the available tag list for the picker.
type tagsLoadedMsg struct {
	tags []models.Tag
	err  error
}

// popularTagsLoadedMsg delivers the trending tags for the feed's quick
// filter row.
type popularTagsLoadedMsg struct {
	tags []models.Tag
	err  error
}

// tagCreatedMsg resolves an optimistic tag creation by name.
type tagCreatedMsg struct {
	name string
	tag  models.Tag
	err  error
}

// notificationsLoadedMsg delivers the notification list and unread count.
type notificationsLoadedMsg struct {
	page api.NotificationPage
	err  error
}

// notificationReadMsg confirms or fails marking one notification read;
// an empty id means mark-all.
type notificationReadMsg struct {
	id  string
	err error
}

// socketEventMsg carries one event from the notification stream.
type socketEventMsg struct {
	event api.NotificationEvent
}

// socketClosedMsg reports the notification stream ending.
type socketClosedMsg struct {
	err error
}
