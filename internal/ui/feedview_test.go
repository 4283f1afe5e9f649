package ui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"havencli/internal/common"
	"havencli/internal/feed"
	"havencli/internal/models"
)

func loadedFeedView(t *testing.T, posts []models.Post, hasNext bool) FeedView {
	t.Helper()
	v := NewFeedView(newTestDeps(t, &fakeClient{}), DefaultTheme, len(posts))
	cmd := v.Load()
	require.NotNil(t, cmd)
	// The state hands out sequence token 0 until the query changes.
	v.HandlePage(feedPageMsg{seq: 0, page: feed.Page{Posts: posts, Page: 1, HasNextPage: hasNext}})
	return v
}

func TestFeedView_InfiniteScrollAtListEnd(t *testing.T) {
	v := loadedFeedView(t, []models.Post{{ID: "p1"}, {ID: "p2"}}, true)

	// Down onto the last post, then down again to trigger the next page.
	cmd, _, _ := v.Update(keyRunes("j"))
	require.Nil(t, cmd)
	cmd, _, _ = v.Update(keyRunes("j"))
	require.NotNil(t, cmd, "reaching the end requests the next page")
}

func TestFeedView_NoScrollPastLastPage(t *testing.T) {
	v := loadedFeedView(t, []models.Post{{ID: "p1"}, {ID: "p2"}}, false)

	v.Update(keyRunes("j"))
	cmd, _, _ := v.Update(keyRunes("j"))
	require.Nil(t, cmd, "exhausted feed never re-requests")
}

func TestFeedView_LikeRevertsOnFailure(t *testing.T) {
	v := loadedFeedView(t, []models.Post{{ID: "p1", LikeCount: 3}}, false)

	cmd, _, _ := v.Update(keyRunes("l"))
	require.NotNil(t, cmd)
	p, _ := v.State().Post("p1")
	require.True(t, p.IsLikedByUser)
	require.Equal(t, 4, p.LikeCount)

	v.HandleVoteDone(voteDoneMsg{postID: "p1", up: true, err: common.ErrUnavailable})
	p, _ = v.State().Post("p1")
	require.False(t, p.IsLikedByUser)
	require.Equal(t, 3, p.LikeCount)
}

func TestFeedView_UrgencyOnlyForAuthor(t *testing.T) {
	v := loadedFeedView(t, []models.Post{{ID: "p1", Author: models.User{ID: "someone-else"}}}, false)

	cmd, _, _ := v.Update(keyRunes("u"))
	require.Nil(t, cmd, "signed-out viewer cannot change urgency")
}

func TestFeedView_TagFilterCyclesThroughPopular(t *testing.T) {
	v := loadedFeedView(t, []models.Post{{ID: "p1"}}, false)
	v.SetPopularTags([]models.Tag{{Name: "Anxiety"}, {Name: "Sleep"}})

	cmd, _, _ := v.Update(keyRunes("t"))
	require.NotNil(t, cmd)
	require.Equal(t, []string{"Anxiety"}, v.State().Query().Tags)

	v.Update(keyRunes("t"))
	require.Equal(t, []string{"Sleep"}, v.State().Query().Tags)

	v.Update(keyRunes("t"))
	require.Empty(t, v.State().Query().Tags, "cycle wraps back to no filter")
}

func TestFeedView_OpenCommentsIntent(t *testing.T) {
	v := loadedFeedView(t, []models.Post{{ID: "p1"}}, false)

	_, action, postID := v.Update(keyRunes("c"))
	require.Equal(t, feedActionOpenComments, action)
	require.Equal(t, "p1", postID)
}
