package feed

import "havencli/internal/models"

// Thread is the comment state for one post's comment section. Like State
// it does no IO and is owned by the UI event loop.
type Thread struct {
	postID   string
	comments []models.Comment
	loading  bool
	err      error
}

// NewThread returns an empty thread for a post.
func NewThread(postID string) *Thread {
	return &Thread{postID: postID}
}

// PostID returns the post this thread belongs to.
func (t *Thread) PostID() string { return t.postID }

// Comments returns the top-level comments with replies attached.
func (t *Thread) Comments() []models.Comment { return t.comments }

// Loading reports whether the thread fetch is in flight.
func (t *Thread) Loading() bool { return t.loading }

// Err returns the last load failure.
func (t *Thread) Err() error { return t.err }

// Begin marks the thread fetch as started.
func (t *Thread) Begin() {
	t.loading = true
	t.err = nil
}

// Apply installs fetched comments, normalizing them into a tree.
func (t *Thread) Apply(comments []models.Comment) {
	t.loading = false
	t.err = nil
	t.comments = BuildTree(comments)
}

// Fail records a load failure.
func (t *Thread) Fail(err error) {
	t.loading = false
	t.err = err
}

// BuildTree arranges comments into top-level comments with one level of
// replies. Input already carrying nested Replies passes through untouched.
// A flat list is grouped by ParentID; a reply whose parent is itself a
// reply attaches to that reply's top-level ancestor, and a reply whose
// parent is unknown is kept as top-level rather than dropped.
func BuildTree(comments []models.Comment) []models.Comment {
	flat := true
	for i := range comments {
		if len(comments[i].Replies) > 0 {
			flat = false
			break
		}
	}
	if !flat {
		return comments
	}

	parentOf := make(map[string]string, len(comments))
	for i := range comments {
		parentOf[comments[i].ID] = comments[i].ParentID
	}

	// topAncestor follows the parent chain up to a comment with no parent.
	topAncestor := func(id string) string {
		seen := map[string]bool{}
		for {
			parent, known := parentOf[id]
			if !known || parent == "" || seen[id] {
				return id
			}
			seen[id] = true
			id = parent
		}
	}

	var top []models.Comment
	replies := make(map[string][]models.Comment)
	for i := range comments {
		c := comments[i]
		if c.ParentID == "" {
			top = append(top, c)
			continue
		}
		if _, known := parentOf[c.ParentID]; !known {
			top = append(top, c)
			continue
		}
		anchor := topAncestor(c.ParentID)
		replies[anchor] = append(replies[anchor], c)
	}

	for i := range top {
		top[i].Replies = replies[top[i].ID]
	}
	return top
}

// AddOptimistic inserts a not-yet-confirmed comment: top-level comments
// append to the thread, replies append under their parent. A reply whose
// parent is itself a reply lands under the top-level ancestor, mirroring
// BuildTree.
func (t *Thread) AddOptimistic(c models.Comment) {
	if c.ParentID == "" {
		t.comments = append(t.comments, c)
		return
	}
	for i := range t.comments {
		if t.comments[i].ID == c.ParentID {
			t.comments[i].Replies = append(t.comments[i].Replies, c)
			return
		}
		for j := range t.comments[i].Replies {
			if t.comments[i].Replies[j].ID == c.ParentID {
				t.comments[i].Replies = append(t.comments[i].Replies, c)
				return
			}
		}
	}
	// Parent vanished underneath us; keep the comment visible.
	t.comments = append(t.comments, c)
}

// Confirm replaces an optimistic comment with the server's version.
func (t *Thread) Confirm(tempID string, real models.Comment) bool {
	return t.replace(tempID, func(c *models.Comment) { *c = real })
}

// Remove deletes an optimistic comment after the create failed.
func (t *Thread) Remove(tempID string) bool {
	for i := range t.comments {
		if t.comments[i].ID == tempID {
			t.comments = append(t.comments[:i], t.comments[i+1:]...)
			return true
		}
		rs := t.comments[i].Replies
		for j := range rs {
			if rs[j].ID == tempID {
				t.comments[i].Replies = append(rs[:j], rs[j+1:]...)
				return true
			}
		}
	}
	return false
}

// ToggleLike flips the viewer's like on a comment anywhere in the tree,
// same optimistic contract as State.ToggleLike.
func (t *Thread) ToggleLike(commentID string) (nowLiked, ok bool) {
	found := t.replace(commentID, func(c *models.Comment) {
		if c.IsLikedByUser {
			c.IsLikedByUser = false
			c.LikeCount--
		} else {
			c.IsLikedByUser = true
			c.LikeCount++
		}
	})
	if !found {
		return false, false
	}
	c, _ := t.Comment(commentID)
	return c.IsLikedByUser, true
}

// Comment finds a comment by id at either level.
func (t *Thread) Comment(id string) (models.Comment, bool) {
	for i := range t.comments {
		if t.comments[i].ID == id {
			return t.comments[i], true
		}
		for j := range t.comments[i].Replies {
			if t.comments[i].Replies[j].ID == id {
				return t.comments[i].Replies[j], true
			}
		}
	}
	return models.Comment{}, false
}

func (t *Thread) replace(id string, fn func(*models.Comment)) bool {
	for i := range t.comments {
		if t.comments[i].ID == id {
			fn(&t.comments[i])
			return true
		}
		for j := range t.comments[i].Replies {
			if t.comments[i].Replies[j].ID == id {
				fn(&t.comments[i].Replies[j])
				return true
			}
		}
	}
	return false
}
