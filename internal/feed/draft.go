package feed

import (
	"errors"
	"strings"

	"havencli/internal/models"
)

// Validation errors carry the message shown to the user verbatim.
var (
	ErrContentRequired = errors.New("Post content cannot be empty.")
	ErrWarningRequired = errors.New("Please provide a description for the trigger warning.")
)

// ValidatePostDraft checks a draft before submission. A post with the
// trigger warning toggled on must describe what it warns about.
func ValidatePostDraft(d models.PostDraft) error {
	if strings.TrimSpace(d.Content) == "" {
		return ErrContentRequired
	}
	if d.HasTriggerWarning && strings.TrimSpace(d.TriggerWarningText) == "" {
		return ErrWarningRequired
	}
	return nil
}

// ValidateCommentDraft checks a comment before submission.
func ValidateCommentDraft(d models.CommentDraft) error {
	if strings.TrimSpace(d.Content) == "" {
		return ErrContentRequired
	}
	return nil
}
