package api

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"havencli/internal/models"
)

func TestWirePost_Normalize(t *testing.T) {
	raw := `{
		"post_id": "p1",
		"author_id": "u1",
		"author_username": "alice",
		"content": "hello",
		"upvotes": 3,
		"comment_count": 2,
		"is_anonymous": true,
		"urgency_level": "high",
		"expert_responded": true,
		"created_at": "2026-01-02T15:04:05Z",
		"tags": [{"tag_id": 7, "name": "anxiety", "post_count": "41"}]
	}`

	var w wirePost
	require.NoError(t, json.Unmarshal([]byte(raw), &w))

	p := w.normalize()
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "alice", p.Author.Username)
	assert.Equal(t, 3, p.LikeCount)
	assert.Equal(t, 2, p.CommentCount)
	assert.True(t, p.IsAnonymous)
	assert.Equal(t, models.UrgencyHigh, p.UrgencyLevel)
	assert.True(t, p.HasExpertResponse)
	assert.Equal(t, 2026, p.CreatedAt.Year())

	require.Len(t, p.Tags, 1)
	assert.Equal(t, models.Tag{ID: "7", Name: "anxiety", Count: 41}, p.Tags[0])

	// the anonymity flag must win over the known author name
	assert.Equal(t, models.AnonymousName, p.AuthorName())
}

func TestWireTagList_AcceptsBareNames(t *testing.T) {
	var l wireTagList
	require.NoError(t, json.Unmarshal([]byte(`["grief","sleep"]`), &l))
	require.Len(t, l, 2)
	assert.Equal(t, "grief", l[0].Name)
	assert.Equal(t, "sleep", l[1].Name)
}

func TestWireTag_ClientShape(t *testing.T) {
	var w wireTag
	require.NoError(t, json.Unmarshal([]byte(`{"id":"t9","name":"mindfulness","count":5,"category":"practice"}`), &w))
	assert.Equal(t, models.Tag{ID: "t9", Name: "mindfulness", Count: 5, Category: "practice"}, w.normalize())
}

func TestWireComment_NormalizeNested(t *testing.T) {
	raw := `{
		"id": "c1",
		"postId": "p1",
		"authorUsername": "bob",
		"content": "top",
		"likeCount": 1,
		"isAnonymous": false,
		"replies": [
			{"id": "c2", "postId": "p1", "parentId": "c1", "content": "reply", "isAnonymous": true}
		]
	}`

	var w wireComment
	require.NoError(t, json.Unmarshal([]byte(raw), &w))

	c := w.normalize()
	assert.Equal(t, "c1", c.ID)
	require.Len(t, c.Replies, 1)
	assert.Equal(t, "c1", c.Replies[0].ParentID)
	assert.Equal(t, models.AnonymousName, c.Replies[0].AuthorName())
}

func TestWirePagination_HasNext(t *testing.T) {
	truth := true
	falsy := false

	tests := []struct {
		name string
		p    wirePagination
		want bool
	}{
		{"explicit flag true wins", wirePagination{Page: 9, TotalPages: 3, HasNextPage: &truth}, true},
		{"explicit flag false wins", wirePagination{Page: 1, TotalPages: 5, HasNextPage: &falsy}, false},
		{"fallback page below total", wirePagination{Page: 1, TotalPages: 2}, true},
		{"fallback last page", wirePagination{Page: 2, TotalPages: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.hasNext())
		})
	}
}

func TestWireAuthData_Normalize(t *testing.T) {
	var w wireAuthData
	raw := `{
		"token": "tok",
		"user": {"user_id": "u1", "username": "newuser1"},
		"passphrase": "apple banana cherry dog egg fox grape hat ice jam kiwi lemon",
		"expiresAt": 1767225600000,
		"isNewDevice": true
	}`
	require.NoError(t, json.Unmarshal([]byte(raw), &w))

	res := w.normalize()
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, "newuser1", res.User.Username)
	assert.True(t, res.IsNewDevice)
	assert.False(t, res.ExpiresAt.IsZero())
	assert.Len(t, strings.Fields(res.Passphrase), 12)
}
