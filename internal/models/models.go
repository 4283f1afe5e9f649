// Package models defines the canonical client-side shapes for Haven
// resources. The API layer normalizes wire responses into these types;
// nothing above the API layer ever sees wire field names.
package models

import "time"

// User identifies a (pseudonymous) account.
type User struct {
	ID        string
	Username  string
	AvatarURL string
	IsExpert  bool
}

// AnonymousName is what every render path must show for anonymous content
// instead of the author's username. This is a privacy guarantee, not a
// styling choice.
const AnonymousName = "Anonymous"

// DisplayName returns the name to render for content authored by u,
// honoring the anonymity flag.
func DisplayName(u User, isAnonymous bool) string {
	if isAnonymous || u.Username == "" {
		return AnonymousName
	}
	return u.Username
}

// UrgencyLevel is a post's severity tag used to prioritize expert attention.
type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "low"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyCritical UrgencyLevel = "critical"
)

// Post is a feed entry.
type Post struct {
	ID                 string
	Author             User
	Content            string
	CreatedAt          time.Time
	Tags               []Tag
	LikeCount          int
	CommentCount       int
	IsAnonymous        bool
	HasTriggerWarning  bool
	TriggerWarningText string
	UrgencyLevel       UrgencyLevel
	HasExpertResponse  bool
	IsLikedByUser      bool
	IsSavedByUser      bool
}

// AuthorName returns the post's display name honoring anonymity.
func (p Post) AuthorName() string {
	return DisplayName(p.Author, p.IsAnonymous)
}

// Comment belongs to a post, optionally to a parent comment. Replies nest
// one level deep: replies to replies attach to the top-level parent.
type Comment struct {
	ID               string
	PostID           string
	ParentID         string
	Author           User
	Content          string
	CreatedAt        time.Time
	LikeCount        int
	IsLikedByUser    bool
	IsExpertResponse bool
	IsAnonymous      bool
	Replies          []Comment
}

// AuthorName returns the comment's display name honoring anonymity.
func (c Comment) AuthorName() string {
	return DisplayName(c.Author, c.IsAnonymous)
}

// Tag is a free-form topic label, many-to-many with posts.
type Tag struct {
	ID       string
	Name     string
	Count    int
	Category string
}

// NotificationType classifies a notification event.
type NotificationType string

const (
	NotificationComment        NotificationType = "comment"
	NotificationLike           NotificationType = "like"
	NotificationExpertResponse NotificationType = "expertResponse"
	NotificationMention        NotificationType = "mention"
	NotificationTag            NotificationType = "tag"
	NotificationSystem         NotificationType = "system"
)

// Notification is a typed event referencing a post, comment, or user.
type Notification struct {
	ID               string
	Type             NotificationType
	Message          string
	IsRead           bool
	CreatedAt        time.Time
	RelatedPostID    string
	RelatedCommentID string
	RelatedUserID    string
}

// SortOption orders the feed.
type SortOption string

const (
	SortNewest       SortOption = "newest"
	SortPopular      SortOption = "popular"
	SortTrending     SortOption = "trending"
	SortMostComments SortOption = "mostComments"
)

// FilterOption narrows the feed; empty means no filter.
type FilterOption string

const (
	FilterNone            FilterOption = ""
	FilterNeedsSupport    FilterOption = "needsSupport"
	FilterExpertResponses FilterOption = "expertResponses"
	FilterMyPosts         FilterOption = "myPosts"
	FilterSaved           FilterOption = "saved"
)

// PostDraft is the payload for creating a post.
type PostDraft struct {
	Content            string
	IsAnonymous        bool
	Tags               []string
	HasTriggerWarning  bool
	TriggerWarningText string
}

// CommentDraft is the payload for creating a comment. ParentID is empty for
// top-level comments.
type CommentDraft struct {
	Content     string
	IsAnonymous bool
	ParentID    string
}

// DeviceInfo describes the device attempting a login. The server uses it to
// decide whether this is a recognized device.
type DeviceInfo struct {
	DeviceID string
	Platform string
	Hostname string
}

// FeedQuery are the parameters of a feed page request.
type FeedQuery struct {
	Page   int
	Limit  int
	Sort   SortOption
	Filter FilterOption
	Tags   []string
	Search string
}
