package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Store is the single writer of one client's session. Views only read
// State(); every transition goes through SetUser, SetToken or Logout.
type Store struct {
	storage  Storage
	clientID string
	marker   Marker

	state      State
	token      string
	staleWiped bool
}

// Bootstrap clears the durable namespace when it claims a login that the
// current browsing session never established (browser closed and reopened).
func Bootstrap(ctx context.Context, storage Storage, clientID string, marker Marker) (bool, error) {
	values, err := storage.Load(ctx, clientID)
	if err != nil {
		return false, fmt.Errorf("load client storage: %w", err)
	}
	if values[KeyIsLoggedIn] != "true" || marker.Active() {
		return false, nil
	}
	if err := storage.Clear(ctx, clientID); err != nil {
		return false, fmt.Errorf("clear stale client storage: %w", err)
	}
	return true, nil
}

// Open bootstraps the client namespace and reads the initial state.
func Open(ctx context.Context, storage Storage, clientID string, marker Marker) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("session storage is required")
	}
	if marker == nil {
		return nil, fmt.Errorf("session marker is required")
	}
	if strings.TrimSpace(clientID) == "" {
		return nil, ErrClientRequired
	}

	wiped, err := Bootstrap(ctx, storage, clientID, marker)
	if err != nil {
		return nil, err
	}

	values, err := storage.Load(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("load client storage: %w", err)
	}

	s := &Store{
		storage:    storage,
		clientID:   clientID,
		marker:     marker,
		state:      stateFromValues(values),
		token:      values[KeyAccessToken],
		staleWiped: wiped,
	}
	return s, nil
}

func (s *Store) State() State {
	st := s.state
	if st.AuthUserID != nil {
		id := *st.AuthUserID
		st.AuthUserID = &id
	}
	return st
}

func (s *Store) ClientID() string { return s.clientID }

func (s *Store) Token() string { return s.token }

// StaleWiped reports whether Open discarded a login left over from a
// previous browsing session.
func (s *Store) StaleWiped() bool { return s.staleWiped }

// SetUser writes the identity, login flag and bearer token in one Put and
// activates the marker.
func (s *Store) SetUser(ctx context.Context, u User) error {
	rawID := ""
	if u.AuthUserID != nil {
		rawID = strconv.FormatInt(*u.AuthUserID, 10)
	}
	role, err := u.Role.MarshalText()
	if err != nil {
		return fmt.Errorf("encode role: %w", err)
	}
	values := map[string]string{
		KeyUsername:    u.Username,
		KeyAuthUserID:  rawID,
		KeyRole:        string(role),
		KeyIsLoggedIn:  "true",
		KeyAccessToken: u.Token,
	}
	if err := s.storage.Put(ctx, s.clientID, values); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	var id *int64
	if u.AuthUserID != nil {
		v := *u.AuthUserID
		id = &v
	}
	s.state = State{
		Username:   u.Username,
		AuthUserID: id,
		Role:       u.Role,
		IsLoggedIn: true,
	}
	s.token = u.Token
	s.marker.Activate()
	return nil
}

// SetToken replaces the bearer token alone, after a re-authentication.
func (s *Store) SetToken(ctx context.Context, token string) error {
	if err := s.storage.Put(ctx, s.clientID, map[string]string{KeyAccessToken: token}); err != nil {
		return fmt.Errorf("persist access token: %w", err)
	}
	s.token = token
	return nil
}

// Logout resets the in-memory session and wipes the client's whole
// durable namespace and marker. The in-memory reset happens even when the
// durable clear fails.
func (s *Store) Logout(ctx context.Context) error {
	s.state = State{}
	s.token = ""
	s.marker.Clear()
	if err := s.storage.Clear(ctx, s.clientID); err != nil {
		return fmt.Errorf("clear client storage: %w", err)
	}
	return nil
}

func stateFromValues(values map[string]string) State {
	st := State{
		Username:   values[KeyUsername],
		IsLoggedIn: values[KeyIsLoggedIn] == "true",
	}
	_ = st.Role.UnmarshalText([]byte(values[KeyRole]))
	if raw := strings.TrimSpace(values[KeyAuthUserID]); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			st.AuthUserID = &id
		}
	}
	return st
}
