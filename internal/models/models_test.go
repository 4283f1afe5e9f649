package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	u := User{ID: "u1", Username: "alice"}

	tests := []struct {
		name        string
		user        User
		isAnonymous bool
		want        string
	}{
		{"named author", u, false, "alice"},
		{"anonymous suppresses username", u, true, AnonymousName},
		{"missing username falls back to anonymous", User{ID: "u2"}, false, AnonymousName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.user, tt.isAnonymous))
		})
	}
}

func TestAuthorName_HonorsAnonymityEverywhere(t *testing.T) {
	author := User{ID: "u1", Username: "alice", AvatarURL: "http://a/pic.png"}

	p := Post{Author: author, IsAnonymous: true}
	assert.Equal(t, AnonymousName, p.AuthorName())

	c := Comment{Author: author, IsAnonymous: true}
	assert.Equal(t, AnonymousName, c.AuthorName())

	p.IsAnonymous = false
	assert.Equal(t, "alice", p.AuthorName())
}
