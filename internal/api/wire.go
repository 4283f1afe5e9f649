package api

import (
	"encoding/json"
	"strconv"
	"time"

	"havencli/internal/models"
)

// The backend wraps every response in a status envelope. Data is decoded in
// a second step so error responses can reuse the same envelope.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type wireUser struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	IsExpert  bool   `json:"is_expert"`
}

func (w wireUser) normalize() models.User {
	return models.User{
		ID:        w.UserID,
		Username:  w.Username,
		AvatarURL: w.AvatarURL,
		IsExpert:  w.IsExpert,
	}
}

type wireAuthData struct {
	Token       string   `json:"token"`
	User        wireUser `json:"user"`
	Passphrase  string   `json:"passphrase"`
	ExpiresAt   int64    `json:"expiresAt"`
	IsNewDevice bool     `json:"isNewDevice"`
}

func (w wireAuthData) normalize() AuthResult {
	res := AuthResult{
		Token:       w.Token,
		User:        w.User.normalize(),
		Passphrase:  w.Passphrase,
		IsNewDevice: w.IsNewDevice,
	}
	if w.ExpiresAt > 0 {
		res.ExpiresAt = time.UnixMilli(w.ExpiresAt)
	}
	return res
}

// wireTag tolerates both tag shapes the backend emits: the tags endpoints
// use {tag_id, name, post_count} with a numeric id and a stringified count,
// while tags embedded in posts use {id, name, count, category}.
type wireTag struct {
	TagID     json.Number `json:"tag_id"`
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	PostCount string      `json:"post_count"`
	Count     int         `json:"count"`
	Category  string      `json:"category"`
}

func (w wireTag) normalize() models.Tag {
	t := models.Tag{ID: w.ID, Name: w.Name, Count: w.Count, Category: w.Category}
	if w.TagID.String() != "" {
		t.ID = w.TagID.String()
	}
	if w.PostCount != "" {
		if n, err := strconv.Atoi(w.PostCount); err == nil {
			t.Count = n
		}
	}
	return t
}

// wireTagList accepts either a list of tag objects or a bare list of tag
// names, which is how tags arrive embedded in posts from older endpoints.
type wireTagList []models.Tag

func (l *wireTagList) UnmarshalJSON(data []byte) error {
	var objs []wireTag
	if err := json.Unmarshal(data, &objs); err == nil {
		tags := make([]models.Tag, 0, len(objs))
		for _, o := range objs {
			tags = append(tags, o.normalize())
		}
		*l = tags
		return nil
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	tags := make([]models.Tag, 0, len(names))
	for _, n := range names {
		tags = append(tags, models.Tag{Name: n})
	}
	*l = tags
	return nil
}

type wirePost struct {
	PostID             string       `json:"post_id"`
	AuthorID           string       `json:"author_id"`
	AuthorUsername     string       `json:"author_username"`
	AuthorIsExpert     bool         `json:"author_is_expert"`
	Content            string       `json:"content"`
	Upvotes            int          `json:"upvotes"`
	CommentCount       int          `json:"comment_count"`
	IsAnonymous        bool         `json:"is_anonymous"`
	UrgencyLevel       string       `json:"urgency_level"`
	ExpertResponded    bool         `json:"expert_responded"`
	CreatedAt          string       `json:"created_at"`
	Tags               wireTagList  `json:"tags"`
	IsLikedByUser      bool         `json:"is_liked_by_user"`
	IsSavedByUser      bool         `json:"is_saved_by_user"`
	HasTriggerWarning  bool         `json:"has_trigger_warning"`
	TriggerWarningText string       `json:"trigger_warning_text"`
}

func (w wirePost) normalize() models.Post {
	return models.Post{
		ID: w.PostID,
		Author: models.User{
			ID:       w.AuthorID,
			Username: w.AuthorUsername,
			IsExpert: w.AuthorIsExpert,
		},
		Content:            w.Content,
		CreatedAt:          parseTime(w.CreatedAt),
		Tags:               w.Tags,
		LikeCount:          w.Upvotes,
		CommentCount:       w.CommentCount,
		IsAnonymous:        w.IsAnonymous,
		HasTriggerWarning:  w.HasTriggerWarning,
		TriggerWarningText: w.TriggerWarningText,
		UrgencyLevel:       models.UrgencyLevel(w.UrgencyLevel),
		HasExpertResponse:  w.ExpertResponded,
		IsLikedByUser:      w.IsLikedByUser,
		IsSavedByUser:      w.IsSavedByUser,
	}
}

// Comments arrive in the newer camelCase shape, flat or nested.
type wireComment struct {
	ID               string        `json:"id"`
	PostID           string        `json:"postId"`
	ParentID         string        `json:"parentId"`
	AuthorID         string        `json:"authorId"`
	AuthorUsername   string        `json:"authorUsername"`
	AuthorIsExpert   bool          `json:"authorIsExpert"`
	Content          string        `json:"content"`
	CreatedAt        string        `json:"createdAt"`
	LikeCount        int           `json:"likeCount"`
	IsLikedByUser    bool          `json:"isLikedByUser"`
	IsExpertResponse bool          `json:"isExpertResponse"`
	IsAnonymous      bool          `json:"isAnonymous"`
	Replies          []wireComment `json:"replies"`
}

func (w wireComment) normalize() models.Comment {
	c := models.Comment{
		ID:       w.ID,
		PostID:   w.PostID,
		ParentID: w.ParentID,
		Author: models.User{
			ID:       w.AuthorID,
			Username: w.AuthorUsername,
			IsExpert: w.AuthorIsExpert,
		},
		Content:          w.Content,
		CreatedAt:        parseTime(w.CreatedAt),
		LikeCount:        w.LikeCount,
		IsLikedByUser:    w.IsLikedByUser,
		IsExpertResponse: w.IsExpertResponse,
		IsAnonymous:      w.IsAnonymous,
	}
	for _, r := range w.Replies {
		c.Replies = append(c.Replies, r.normalize())
	}
	return c
}

type wireNotification struct {
	ID               string `json:"id"`
	Type             string `json:"type"`
	Message          string `json:"message"`
	IsRead           bool   `json:"isRead"`
	CreatedAt        string `json:"createdAt"`
	RelatedPostID    string `json:"relatedPostId"`
	RelatedCommentID string `json:"relatedCommentId"`
	RelatedUserID    string `json:"relatedUserId"`
}

func (w wireNotification) normalize() models.Notification {
	return models.Notification{
		ID:               w.ID,
		Type:             models.NotificationType(w.Type),
		Message:          w.Message,
		IsRead:           w.IsRead,
		CreatedAt:        parseTime(w.CreatedAt),
		RelatedPostID:    w.RelatedPostID,
		RelatedCommentID: w.RelatedCommentID,
		RelatedUserID:    w.RelatedUserID,
	}
}

type wirePagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int   `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage *bool `json:"hasNextPage"`
}

// hasNext prefers the server's explicit flag; older responses omit it, in
// which case page < totalPages is the best available signal.
func (p wirePagination) hasNext() bool {
	if p.HasNextPage != nil {
		return *p.HasNextPage
	}
	return p.Page < p.TotalPages
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
