package feed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"havencli/internal/models"
)

func TestBuildTree_FlatList(t *testing.T) {
	flat := []models.Comment{
		{ID: "c1"},
		{ID: "c2", ParentID: "c1"},
		{ID: "c3"},
		{ID: "c4", ParentID: "c2"}, // reply to a reply
	}

	tree := BuildTree(flat)
	require.Len(t, tree, 2)
	require.Equal(t, "c1", tree[0].ID)
	require.Len(t, tree[0].Replies, 2, "reply-to-reply flattens under the top-level ancestor")
	require.Equal(t, "c2", tree[0].Replies[0].ID)
	require.Equal(t, "c4", tree[0].Replies[1].ID)
	require.Empty(t, tree[1].Replies)
}

func TestBuildTree_NestedPassThrough(t *testing.T) {
	nested := []models.Comment{
		{ID: "c1", Replies: []models.Comment{{ID: "c2", ParentID: "c1"}}},
	}
	tree := BuildTree(nested)
	require.Equal(t, nested, tree)
}

func TestBuildTree_OrphanKeptTopLevel(t *testing.T) {
	tree := BuildTree([]models.Comment{
		{ID: "c1"},
		{ID: "c2", ParentID: "deleted"},
	})
	require.Len(t, tree, 2)
}

func TestThread_LoadLifecycle(t *testing.T) {
	th := NewThread("p1")
	th.Begin()
	require.True(t, th.Loading())

	th.Fail(errors.New("boom"))
	require.False(t, th.Loading())
	require.Error(t, th.Err())

	th.Begin()
	th.Apply([]models.Comment{{ID: "c1"}, {ID: "c2", ParentID: "c1"}})
	require.NoError(t, th.Err())
	require.Len(t, th.Comments(), 1)
	require.Len(t, th.Comments()[0].Replies, 1)
}

func TestThread_OptimisticCommentConfirm(t *testing.T) {
	th := NewThread("p1")
	th.Apply([]models.Comment{{ID: "c1"}})

	th.AddOptimistic(models.Comment{ID: "tmp-1", Content: "draft"})
	require.Len(t, th.Comments(), 2)

	require.True(t, th.Confirm("tmp-1", models.Comment{ID: "c2", Content: "draft"}))
	c, ok := th.Comment("c2")
	require.True(t, ok)
	require.Equal(t, "draft", c.Content)
	_, ok = th.Comment("tmp-1")
	require.False(t, ok)
}

func TestThread_OptimisticCommentRevert(t *testing.T) {
	th := NewThread("p1")
	th.Apply([]models.Comment{{ID: "c1"}})

	th.AddOptimistic(models.Comment{ID: "tmp-1", ParentID: "c1"})
	require.Len(t, th.Comments()[0].Replies, 1)

	require.True(t, th.Remove("tmp-1"))
	require.Empty(t, th.Comments()[0].Replies)
	require.False(t, th.Remove("tmp-1"))
}

func TestThread_ReplyToReplyAttachesToAncestor(t *testing.T) {
	th := NewThread("p1")
	th.Apply([]models.Comment{
		{ID: "c1"},
		{ID: "c2", ParentID: "c1"},
	})

	th.AddOptimistic(models.Comment{ID: "tmp-1", ParentID: "c2"})
	require.Len(t, th.Comments(), 1)
	require.Len(t, th.Comments()[0].Replies, 2)
}

func TestThread_ToggleLike(t *testing.T) {
	th := NewThread("p1")
	th.Apply([]models.Comment{
		{ID: "c1", LikeCount: 2},
		{ID: "c2", ParentID: "c1", LikeCount: 0},
	})

	nowLiked, ok := th.ToggleLike("c2")
	require.True(t, ok)
	require.True(t, nowLiked)
	c, _ := th.Comment("c2")
	require.Equal(t, 1, c.LikeCount)

	nowLiked, _ = th.ToggleLike("c2")
	require.False(t, nowLiked)
	c, _ = th.Comment("c2")
	require.Equal(t, 0, c.LikeCount)

	_, ok = th.ToggleLike("missing")
	require.False(t, ok)
}
