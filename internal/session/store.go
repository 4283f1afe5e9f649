// Package session holds the client's authentication state: the current
// user, the bearer token, and the device identity. It is the single writer
// of the session file and the TokenSource for the HTTP client.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"

	"havencli/internal/api"
	"havencli/internal/common"
	"havencli/internal/logging"
	"havencli/internal/models"
)

// State is the session lifecycle position.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
)

// Store owns session state. All methods are safe for concurrent use; the
// UI event loop and in-flight request callbacks may touch it at once.
type Store struct {
	mu       sync.Mutex
	client   api.Client
	log      logging.Logger
	path     string
	state    State
	user     *models.User
	token    string
	deviceID string
}

// fileShape is the on-disk session format. The token is the only durable
// client state besides the stable device id.
type fileShape struct {
	Token    string `json:"token"`
	DeviceID string `json:"device_id"`
}

// NewStore loads any persisted session from path. A missing or unreadable
// file starts a fresh anonymous session; a device id is generated when none
// was stored so the server can recognize this device across logins.
func NewStore(path string, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop{}
	}
	s := &Store{path: path, log: log, state: StateAnonymous}

	if data, err := os.ReadFile(path); err == nil {
		var f fileShape
		if err := json.Unmarshal(data, &f); err == nil {
			s.token = f.Token
			s.deviceID = f.DeviceID
		}
	}
	if s.deviceID == "" {
		s.deviceID = uuid.NewString()
	}
	return s
}

// SetClient binds the API client. Separate from the constructor because the
// HTTP client needs the store as its TokenSource.
func (s *Store) SetClient(c api.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = c
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the current user, or false when anonymous.
func (s *Store) User() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// IsAuthenticated is derived, not stored: true iff a user object is held.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.User()
	return ok
}

// Device describes this device for login calls.
func (s *Store) Device() models.DeviceInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	host, _ := os.Hostname()
	return models.DeviceInfo{
		DeviceID: s.deviceID,
		Platform: runtime.GOOS,
		Hostname: host,
	}
}

// Hydrate restores a persisted session on startup. A stored token that is
// already past its embedded expiry is dropped without a network call;
// otherwise the user is re-derived from the whoami endpoint. A 401 clears
// the stale token. Returns the user when a session was restored.
func (s *Store) Hydrate(ctx context.Context) (models.User, bool, error) {
	s.mu.Lock()
	token := s.token
	client := s.client
	s.mu.Unlock()

	if token == "" {
		return models.User{}, false, nil
	}
	if TokenExpired(token) {
		s.log.Info(ctx, "stored token expired, discarding")
		s.Clear()
		return models.User{}, false, nil
	}

	user, err := client.Me(ctx)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			s.log.Info(ctx, "stored token rejected, discarding")
			s.Clear()
			return models.User{}, false, nil
		}
		return models.User{}, false, err
	}

	s.mu.Lock()
	s.user = &user
	s.state = StateAuthenticated
	s.mu.Unlock()
	return user, true, nil
}

// Login authenticates with a password. On success the token is persisted
// and the user installed; isNewDevice is a one-shot signal for the caller
// to route into the passphrase flow, never stored.
func (s *Store) Login(ctx context.Context, username, password string) (models.User, bool, error) {
	s.setState(StateAuthenticating)

	res, err := s.client.Login(ctx, username, password, s.Device())
	if err != nil {
		s.setState(StateAnonymous)
		return models.User{}, false, err
	}

	s.install(ctx, res)
	return res.User, res.IsNewDevice, nil
}

// LoginPassphrase authenticates with the 12-word recovery passphrase, used
// from devices the server does not recognize.
func (s *Store) LoginPassphrase(ctx context.Context, username string, words []string) (models.User, error) {
	s.setState(StateAuthenticating)

	passphrase := NormalizePassphrase(words)
	res, err := s.client.LoginPassphrase(ctx, username, passphrase, s.Device())
	if err != nil {
		s.setState(StateAnonymous)
		return models.User{}, err
	}

	s.install(ctx, res)
	return res.User, nil
}

// Register creates an account and returns the issued recovery passphrase.
// The passphrase is handed to the caller for one-time display and is not
// retained here.
func (s *Store) Register(ctx context.Context, username, password string) (models.User, string, error) {
	s.setState(StateAuthenticating)

	res, err := s.client.Register(ctx, username, password)
	if err != nil {
		s.setState(StateAnonymous)
		return models.User{}, "", err
	}

	s.install(ctx, res)
	return res.User, res.Passphrase, nil
}

// Logout is fail-open on the client side: local state and the persisted
// token are always cleared, even when the server call fails, so the UI can
// never be stuck logged in.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()

	if err := client.Logout(ctx); err != nil {
		s.log.Warn(ctx, "server logout failed, clearing local session anyway", "err", err.Error())
	}
	s.Clear()
}

// Invalidate handles a 401 observed anywhere after login: the session is
// cleared exactly once. Returns false when the session was already gone,
// so callers can suppress duplicate session-expired prompts (a request
// failing after an explicit logout must not re-prompt).
func (s *Store) Invalidate() bool {
	s.mu.Lock()
	wasAuthenticated := s.user != nil
	s.mu.Unlock()
	if !wasAuthenticated {
		return false
	}
	s.Clear()
	return true
}

// Clear drops the in-memory session and rewrites the session file without
// the token. The device id survives so the device stays recognized.
func (s *Store) Clear() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.state = StateAnonymous
	s.mu.Unlock()
	if err := s.persist(); err != nil {
		s.log.Warn(context.Background(), "session file write failed", "err", err.Error())
	}
}

func (s *Store) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Store) install(ctx context.Context, res api.AuthResult) {
	s.mu.Lock()
	user := res.User
	s.user = &user
	s.token = res.Token
	s.state = StateAuthenticated
	s.mu.Unlock()

	if err := s.persist(); err != nil {
		s.log.Warn(ctx, "session file write failed", "err", err.Error())
	}
}

func (s *Store) persist() error {
	s.mu.Lock()
	f := fileShape{Token: s.token, DeviceID: s.deviceID}
	path := s.path
	s.mu.Unlock()

	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// NormalizePassphrase joins entered words the way the server compares them:
// trimmed, lowercased, single-space separated. Word order is preserved and
// significant.
func NormalizePassphrase(words []string) string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return strings.Join(out, " ")
}
