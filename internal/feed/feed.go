// Package feed holds the feed view's data state: the loaded pages of posts,
// pagination bookkeeping, and optimistic mutations. It does no IO; the UI
// layer issues requests and feeds results back through Apply/Fail, carrying
// the sequence token handed out by NextRequest so late responses for an
// abandoned query are dropped instead of clobbering newer state.
package feed

import "havencli/internal/models"

// Page is one server page of posts as the state consumes it.
type Page struct {
	Posts       []models.Post
	Page        int
	TotalPages  int
	TotalItems  int
	HasNextPage bool
}

// State is the feed's accumulated data. Not safe for concurrent use; it is
// owned by the UI event loop.
type State struct {
	query      models.FeedQuery
	posts      []models.Post
	page       int
	totalPages int
	hasNext    bool
	loading    bool
	seq        int
	err        error
}

// NewState returns an empty feed sorted by newest. The first NextRequest
// asks for page 1.
func NewState(limit int) *State {
	return &State{
		query:   models.FeedQuery{Limit: limit, Sort: models.SortNewest},
		hasNext: true,
	}
}

// Query returns the active query parameters.
func (s *State) Query() models.FeedQuery { return s.query }

// Posts returns the loaded posts in feed order.
func (s *State) Posts() []models.Post { return s.posts }

// Loading reports whether a page request is in flight.
func (s *State) Loading() bool { return s.loading }

// HasMore reports whether another page can be requested. It reflects the
// server's hasNextPage from the last applied page.
func (s *State) HasMore() bool { return s.hasNext }

// Err returns the last page-load failure, cleared by the next applied page
// or reset.
func (s *State) Err() error { return s.err }

// SetSort changes the sort order and resets when it actually changed.
func (s *State) SetSort(sort models.SortOption) bool {
	if s.query.Sort == sort {
		return false
	}
	s.query.Sort = sort
	s.Reset()
	return true
}

// SetFilter changes the feed filter and resets when it actually changed.
func (s *State) SetFilter(filter models.FilterOption) bool {
	if s.query.Filter == filter {
		return false
	}
	s.query.Filter = filter
	s.Reset()
	return true
}

// SetSearch changes the search term and resets when it actually changed.
func (s *State) SetSearch(search string) bool {
	if s.query.Search == search {
		return false
	}
	s.query.Search = search
	s.Reset()
	return true
}

// SetTags replaces the tag filter and resets.
func (s *State) SetTags(tags []string) {
	s.query.Tags = tags
	s.Reset()
}

// Reset clears loaded posts and pagination so the next request starts over
// at page 1. Bumping the sequence invalidates any response still in flight
// for the old query.
func (s *State) Reset() {
	s.posts = nil
	s.page = 0
	s.totalPages = 0
	s.hasNext = true
	s.loading = false
	s.err = nil
	s.seq++
}

// NextRequest reserves the next page load. It returns the query to send and
// a sequence token to pass back to Apply or Fail. ok is false while a
// request is in flight or when the server already said there are no more
// pages.
func (s *State) NextRequest() (q models.FeedQuery, seq int, ok bool) {
	if s.loading || !s.hasNext {
		return models.FeedQuery{}, 0, false
	}
	s.loading = true
	s.err = nil
	q = s.query
	q.Page = s.page + 1
	return q, s.seq, true
}

// Apply installs a fetched page. Page 1 replaces the list, later pages
// append. A stale sequence token means the query changed while the request
// was in flight; the response is dropped and false returned.
func (s *State) Apply(seq int, p Page) bool {
	if seq != s.seq {
		return false
	}
	s.loading = false
	s.err = nil
	if p.Page <= 1 {
		s.posts = p.Posts
	} else {
		s.posts = append(s.posts, p.Posts...)
	}
	s.page = p.Page
	s.totalPages = p.TotalPages
	s.hasNext = p.HasNextPage
	return true
}

// Fail records a page-load failure. The page cursor does not advance, so a
// retry re-requests the same page. Stale failures are dropped.
func (s *State) Fail(seq int, err error) bool {
	if seq != s.seq {
		return false
	}
	s.loading = false
	s.err = err
	return true
}

// Prepend puts a freshly created post at the top of the feed.
func (s *State) Prepend(post models.Post) {
	s.posts = append([]models.Post{post}, s.posts...)
}

// ReplacePost swaps in a server-confirmed version of a post.
func (s *State) ReplacePost(post models.Post) bool {
	for i := range s.posts {
		if s.posts[i].ID == post.ID {
			s.posts[i] = post
			return true
		}
	}
	return false
}

// Post returns the loaded post with the given id.
func (s *State) Post(id string) (models.Post, bool) {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return s.posts[i], true
		}
	}
	return models.Post{}, false
}

// ToggleLike flips the viewer's like on a post and adjusts the counter,
// ahead of the server round trip. The caller sends the matching vote and,
// on failure, calls ToggleLike again to revert. Returns the new liked state.
func (s *State) ToggleLike(postID string) (nowLiked, ok bool) {
	for i := range s.posts {
		if s.posts[i].ID != postID {
			continue
		}
		p := &s.posts[i]
		if p.IsLikedByUser {
			p.IsLikedByUser = false
			p.LikeCount--
		} else {
			p.IsLikedByUser = true
			p.LikeCount++
		}
		return p.IsLikedByUser, true
	}
	return false, false
}

// ToggleSave flips the viewer's saved flag on a post, same contract as
// ToggleLike.
func (s *State) ToggleSave(postID string) (nowSaved, ok bool) {
	for i := range s.posts {
		if s.posts[i].ID != postID {
			continue
		}
		p := &s.posts[i]
		p.IsSavedByUser = !p.IsSavedByUser
		return p.IsSavedByUser, true
	}
	return false, false
}

// AdjustCommentCount moves a post's comment counter after an optimistic
// comment add (delta 1) or its revert (delta -1).
func (s *State) AdjustCommentCount(postID string, delta int) {
	for i := range s.posts {
		if s.posts[i].ID == postID {
			s.posts[i].CommentCount += delta
			return
		}
	}
}
