package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRejectionMessage(t *testing.T) {
	err := fmt.Errorf("%w: %s", ErrRejected, "Invalid credentials")
	require.Equal(t, "Invalid credentials", RejectionMessage(err))

	require.Empty(t, RejectionMessage(ErrRejected))
	require.Empty(t, RejectionMessage(errors.New("other")))
	require.Empty(t, RejectionMessage(nil))
}
