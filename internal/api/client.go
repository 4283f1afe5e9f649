// Package api is the REST transport for the Haven backend. It owns the wire
// shapes and their normalization into the canonical models; everything above
// it works with models types and sentinel errors only.
package api

import (
	"context"
	"time"

	"havencli/internal/models"
)

// TokenSource supplies the bearer token attached to outgoing requests.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource, mostly for tests.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// AuthResult is the outcome of a successful register/login call.
// Passphrase is set only on registration and is never re-fetchable.
type AuthResult struct {
	Token       string
	User        models.User
	Passphrase  string
	IsNewDevice bool
	ExpiresAt   time.Time
}

// FeedPage is one page of the post feed. HasNextPage comes from the server
// and is authoritative for pagination decisions.
type FeedPage struct {
	Posts       []models.Post
	Page        int
	TotalPages  int
	TotalItems  int
	HasNextPage bool
}

// NotificationPage is one page of notifications plus the account-wide
// unread counter.
type NotificationPage struct {
	Notifications []models.Notification
	UnreadCount   int
}

// Client defines every backend operation the Haven client performs.
// All methods honor context cancellation and deadlines.
type Client interface {
	// Auth.
	Register(ctx context.Context, username, password string) (AuthResult, error)
	Login(ctx context.Context, username, password string, device models.DeviceInfo) (AuthResult, error)
	LoginPassphrase(ctx context.Context, username, passphrase string, device models.DeviceInfo) (AuthResult, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (models.User, error)

	// Posts.
	Feed(ctx context.Context, q models.FeedQuery) (FeedPage, error)
	CreatePost(ctx context.Context, draft models.PostDraft) (models.Post, error)
	VotePost(ctx context.Context, postID string, up bool) error
	SavePost(ctx context.Context, postID string, saved bool) error
	ReportPost(ctx context.Context, postID, reason string) error
	UpdatePostUrgency(ctx context.Context, postID string, level models.UrgencyLevel) (models.Post, error)

	// Comments.
	Comments(ctx context.Context, postID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, postID string, draft models.CommentDraft) (models.Comment, error)
	LikeComment(ctx context.Context, commentID string, liked bool) error

	// Tags.
	Tags(ctx context.Context, category string) ([]models.Tag, error)
	PopularTags(ctx context.Context, limit int) ([]models.Tag, error)
	CreateTag(ctx context.Context, name, category string) (models.Tag, error)

	// Notifications.
	Notifications(ctx context.Context, page, limit int) (NotificationPage, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
}
