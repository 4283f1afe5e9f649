// Package tags implements the tag picker used when composing a post:
// search over the known tags, a capped selection, and on-the-fly creation
// of tags that do not exist yet.
package tags

import (
	"strings"

	"havencli/internal/models"
)

const (
	// MaxTags is the most tags one post can carry.
	MaxTags = 5
	// maxResults caps the suggestion list.
	maxResults = 10
)

// Selector holds the picker state. Owned by the UI event loop.
type Selector struct {
	available []models.Tag
	selected  []models.Tag
	query     string
}

// NewSelector starts with the given known tags and nothing selected.
func NewSelector(available []models.Tag) *Selector {
	return &Selector{available: available}
}

// SetAvailable replaces the known tag list, keeping the selection.
func (s *Selector) SetAvailable(available []models.Tag) {
	s.available = available
}

// Selected returns the chosen tags in selection order.
func (s *Selector) Selected() []models.Tag { return s.selected }

// SelectedNames returns the chosen tag names for the post draft.
func (s *Selector) SelectedNames() []string {
	names := make([]string, len(s.selected))
	for i, t := range s.selected {
		names[i] = t.Name
	}
	return names
}

// Query returns the current search text.
func (s *Selector) Query() string { return s.query }

// SetQuery updates the search text.
func (s *Selector) SetQuery(q string) { s.query = q }

// Full reports whether the selection is at capacity.
func (s *Selector) Full() bool { return len(s.selected) >= MaxTags }

// Results returns up to ten tags whose name contains the query,
// case-insensitively, excluding tags already selected. An empty query
// matches everything, so the picker can browse.
func (s *Selector) Results() []models.Tag {
	q := strings.ToLower(strings.TrimSpace(s.query))
	var out []models.Tag
	for _, t := range s.available {
		if s.isSelected(t.Name) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(t.Name), q) {
			continue
		}
		out = append(out, t)
		if len(out) >= maxResults {
			break
		}
	}
	return out
}

// OfferCreate reports whether the picker should offer to create the query
// as a new tag: the query is non-empty and no known or selected tag already
// has that exact name, case-insensitively. A substring match alone does not
// suppress the offer.
func (s *Selector) OfferCreate() bool {
	q := strings.TrimSpace(s.query)
	if q == "" {
		return false
	}
	for _, t := range s.available {
		if strings.EqualFold(t.Name, q) {
			return false
		}
	}
	return !s.isSelected(q)
}

// Select adds a tag to the selection. At capacity it is a silent no-op;
// selecting an already selected tag is too. Selecting clears the query so
// the next search starts fresh.
func (s *Selector) Select(t models.Tag) bool {
	if s.Full() || s.isSelected(t.Name) {
		return false
	}
	s.selected = append(s.selected, t)
	s.query = ""
	return true
}

// Deselect removes a tag from the selection by name.
func (s *Selector) Deselect(name string) bool {
	for i, t := range s.selected {
		if strings.EqualFold(t.Name, name) {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return true
		}
	}
	return false
}

// AddCreated installs a freshly created tag: it joins the available list
// and is selected in one step, ahead of (or after) server confirmation.
// Capacity still applies.
func (s *Selector) AddCreated(t models.Tag) bool {
	s.available = append(s.available, t)
	return s.Select(t)
}

// ReplaceCreated swaps an optimistic tag for the server's version, keeping
// it selected. Used when the create call returns the canonical id.
func (s *Selector) ReplaceCreated(name string, real models.Tag) {
	for i := range s.available {
		if strings.EqualFold(s.available[i].Name, name) {
			s.available[i] = real
		}
	}
	for i := range s.selected {
		if strings.EqualFold(s.selected[i].Name, name) {
			s.selected[i] = real
		}
	}
}

// RemoveCreated backs out an optimistic tag after the create failed.
func (s *Selector) RemoveCreated(name string) {
	for i := range s.available {
		if strings.EqualFold(s.available[i].Name, name) {
			s.available = append(s.available[:i], s.available[i+1:]...)
			break
		}
	}
	s.Deselect(name)
}

func (s *Selector) isSelected(name string) bool {
	for _, t := range s.selected {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}
