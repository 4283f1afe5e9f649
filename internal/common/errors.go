// Package common defines shared constants and sentinel errors used across
// the Haven client. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"strings"
)

var (
	// Transport-level errors.
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")

	// ErrRejected marks a request the server refused with a message of its
	// own (bad credentials, validation failure). The server message is
	// carried by the wrapping error.
	ErrRejected = errors.New("request rejected")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Session-state errors.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// RejectionMessage extracts the server-provided message from an error
// wrapping ErrRejected. Empty when err is not a rejection or carries no
// message beyond the sentinel.
func RejectionMessage(err error) string {
	if !errors.Is(err, ErrRejected) {
		return ""
	}
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, ErrRejected.Error()+": "); ok {
		return rest
	}
	return ""
}
