package ui

import (
	"errors"

	"havencli/internal/common"
)

// User-facing error strings. The credential message is deliberately vague:
// it never says which of the two was wrong.
const (
	errBadCredentials   = "Invalid username or password. Please try again."
	errBadPassphrase    = "The passphrase you entered doesn't match. Please try again."
	errServerDown       = "Can't reach the server right now. Please try again."
	errSessionExpired   = "Your session has expired. Please sign in again."
	errSomethingFailed  = "Something went wrong. Please try again."
	errCredentialsEmpty = "Please enter your username and password."
)

// userMessage turns a transport error into the line shown to the user.
func userMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, common.ErrUnavailable):
		return errServerDown
	case errors.Is(err, common.ErrUnauthorized):
		return errSessionExpired
	default:
		return errSomethingFailed
	}
}
