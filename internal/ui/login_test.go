package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"havencli/internal/api"
	"havencli/internal/common"
	"havencli/internal/models"
	"havencli/internal/session"
)

func newTestDeps(t *testing.T, client api.Client) *Deps {
	t.Helper()
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"), nil)
	store.SetClient(client)
	return NewDeps(context.Background(), client, store, nil)
}

func typeInto(f *LoginForm, s string) {
	for _, r := range s {
		f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestLoginForm_EmptySubmitBlocked(t *testing.T) {
	deps := newTestDeps(t, &fakeClient{})
	f := NewLoginForm(deps, DefaultTheme)

	cmd := f.Update(key(tea.KeyEnter))
	require.Nil(t, cmd)
	require.Equal(t, "Please enter your username and password.", f.Err())
}

func TestLoginForm_RejectedShowsCredentialMessage(t *testing.T) {
	client := &fakeClient{
		LoginFunc: func(ctx context.Context, username, password string, device models.DeviceInfo) (api.AuthResult, error) {
			return api.AuthResult{}, common.ErrRejected
		},
	}
	deps := newTestDeps(t, client)
	f := NewLoginForm(deps, DefaultTheme)

	typeInto(&f, "alice")
	f.Update(key(tea.KeyTab))
	typeInto(&f, "wrongpass")
	cmd := f.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)
	require.True(t, f.Submitting())

	msg, ok := cmd().(authDoneMsg)
	require.True(t, ok)
	require.False(t, f.HandleResult(msg))
	require.Equal(t, "Invalid username or password. Please try again.", f.Err())
	require.False(t, f.Submitting())
}

func TestLoginForm_UnauthorizedShowsCredentialMessage(t *testing.T) {
	client := &fakeClient{
		LoginFunc: func(ctx context.Context, username, password string, device models.DeviceInfo) (api.AuthResult, error) {
			return api.AuthResult{}, common.ErrUnauthorized
		},
	}
	deps := newTestDeps(t, client)
	f := NewLoginForm(deps, DefaultTheme)

	typeInto(&f, "alice")
	f.Update(key(tea.KeyTab))
	typeInto(&f, "wrongpass")
	msg := f.Update(key(tea.KeyEnter))().(authDoneMsg)

	require.False(t, f.HandleResult(msg))
	require.Equal(t, "Invalid username or password. Please try again.", f.Err())
}

func TestLoginForm_UnauthorizedPassphraseMessage(t *testing.T) {
	deps := newTestDeps(t, &fakeClient{
		LoginPassphraseFunc: func(ctx context.Context, username, passphrase string, device models.DeviceInfo) (api.AuthResult, error) {
			return api.AuthResult{}, common.ErrUnauthorized
		},
	})
	f := NewLoginForm(deps, DefaultTheme)
	f.step = loginNewDevice

	f.Update(keyRunes("a b c d e f g h i j k l"))
	msg := f.Update(key(tea.KeyEnter))().(authDoneMsg)
	require.False(t, f.HandleResult(msg))
	require.Equal(t, "The passphrase you entered doesn't match. Please try again.", f.Err())
}

func TestLoginForm_ServerDownMessage(t *testing.T) {
	client := &fakeClient{
		LoginFunc: func(ctx context.Context, username, password string, device models.DeviceInfo) (api.AuthResult, error) {
			return api.AuthResult{}, common.ErrUnavailable
		},
	}
	deps := newTestDeps(t, client)
	f := NewLoginForm(deps, DefaultTheme)

	typeInto(&f, "alice")
	f.Update(key(tea.KeyTab))
	typeInto(&f, "hunter22")
	msg := f.Update(key(tea.KeyEnter))().(authDoneMsg)
	require.False(t, f.HandleResult(msg))
	require.Equal(t, errServerDown, f.Err())
}

func TestLoginForm_NewDeviceFlowsToPassphrase(t *testing.T) {
	var gotPassphrase string
	client := &fakeClient{
		LoginFunc: func(ctx context.Context, username, password string, device models.DeviceInfo) (api.AuthResult, error) {
			return api.AuthResult{Token: "tok", User: models.User{ID: "u1"}, IsNewDevice: true}, nil
		},
		LoginPassphraseFunc: func(ctx context.Context, username, passphrase string, device models.DeviceInfo) (api.AuthResult, error) {
			gotPassphrase = passphrase
			return api.AuthResult{Token: "tok2", User: models.User{ID: "u1"}}, nil
		},
	}
	deps := newTestDeps(t, client)
	f := NewLoginForm(deps, DefaultTheme)

	typeInto(&f, "alice")
	f.Update(key(tea.KeyTab))
	typeInto(&f, "hunter22")
	msg := f.Update(key(tea.KeyEnter))().(authDoneMsg)

	require.False(t, f.HandleResult(msg), "new device keeps the dialog open")
	require.Equal(t, loginNewDevice, f.step)

	// Submitting an incomplete grid is blocked with the exact message.
	require.Nil(t, f.Update(key(tea.KeyEnter)))
	require.Equal(t, "Please enter all 12 words of your passphrase.", f.grid.Err())

	words := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	f.Update(keyRunes(strings.Join(words, " ")))
	cmd := f.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)

	msg = cmd().(authDoneMsg)
	require.Equal(t, authLoginPassphrase, msg.mode)
	require.Equal(t, strings.Join(words, " "), gotPassphrase)
	require.True(t, f.HandleResult(msg), "passphrase accepted signs in")
}

func TestLoginForm_BadPassphraseMessage(t *testing.T) {
	deps := newTestDeps(t, &fakeClient{
		LoginPassphraseFunc: func(ctx context.Context, username, passphrase string, device models.DeviceInfo) (api.AuthResult, error) {
			return api.AuthResult{}, common.ErrRejected
		},
	})
	f := NewLoginForm(deps, DefaultTheme)
	f.step = loginNewDevice

	f.Update(keyRunes("a b c d e f g h i j k l"))
	msg := f.Update(key(tea.KeyEnter))().(authDoneMsg)
	require.False(t, f.HandleResult(msg))
	require.Equal(t, "The passphrase you entered doesn't match. Please try again.", f.Err())
}

func TestLoginForm_EscapeLeavesPassphraseStep(t *testing.T) {
	deps := newTestDeps(t, &fakeClient{})
	f := NewLoginForm(deps, DefaultTheme)
	f.step = loginNewDevice
	f.Update(keyRunes("abc"))

	f.Update(key(tea.KeyEsc))
	require.Equal(t, loginCredentials, f.step)
	require.Empty(t, f.grid.Words()[0], "grid cleared on the way out")
}
