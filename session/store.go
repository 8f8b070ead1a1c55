// Package session owns the single authenticated identity and its persisted
// record. The store is loaded once at startup from Redis and written back on
// every login/register; logout clears both the in-memory identity and the
// persisted record.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/sshuster/viral-video-whisperer-pro/model"
	"github.com/sshuster/viral-video-whisperer-pro/notify"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
)

// seededCredential is one entry of the fixed credential table. Passwords are
// stored as bcrypt hashes and matched by exact username lookup.
type seededCredential struct {
	id           string
	name         string
	role         model.Role
	passwordHash []byte
}

// Store holds exactly one optional identity plus a loading flag. A mutex
// guards it because the HTTP surface is concurrent even though the session
// has a single logical owner.
type Store struct {
	mu       sync.Mutex
	rdb      *redis.Client
	key      string
	delay    time.Duration
	notifier notify.Notifier
	now      func() time.Time

	creds   map[string]seededCredential
	current *model.Identity
	loading bool
}

// NewStore creates a session store persisting under the given Redis key.
// delay is the simulated auth round-trip applied to failed logins and to
// registration; pass zero in tests.
func NewStore(rdb *redis.Client, key string, delay time.Duration, notifier notify.Notifier) *Store {
	return &Store{
		rdb:      rdb,
		key:      key,
		delay:    delay,
		notifier: notifier,
		now:      time.Now,
		creds:    seedCredentials(),
		loading:  true,
	}
}

// seedCredentials builds the fixed mock credential table: one regular user
// and one admin.
func seedCredentials() map[string]seededCredential {
	hash := func(pw string) []byte {
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to hash seeded credential")
		}
		return h
	}
	return map[string]seededCredential{
		"muser": {id: "1", name: "Mock User", role: model.RoleUser, passwordHash: hash("muser")},
		"mvc":   {id: "2", name: "Admin User", role: model.RoleAdmin, passwordHash: hash("mvc")},
	}
}

// Load performs the one-time startup read of the persisted session record.
// A missing or malformed record degrades to a logged-out state; the loading
// flag flips false exactly once regardless of outcome.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loading {
		return
	}
	defer func() { s.loading = false }()

	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return
	} else if err != nil {
		log.Error().Err(err).Str("key", s.key).Msg("Failed to read persisted session")
		return
	}

	var identity model.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("Malformed persisted session, discarding")
		s.rdb.Del(ctx, s.key)
		return
	}

	s.current = &identity
	log.Info().
		Str("username", identity.Username).
		Str("role", string(identity.Role)).
		Msg("Session restored from storage")
}

// Current returns the active identity, if any.
func (s *Store) Current() (model.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return model.Identity{}, false
	}
	return *s.current, true
}

// IsLoading reports whether the startup read has not yet resolved.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Login matches the credentials against the seeded table. A mismatch waits
// out the simulated round-trip and reports failure without mutating state.
func (s *Store) Login(ctx context.Context, username, password string) (model.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.creds[username]
	if ok && bcrypt.CompareHashAndPassword(cred.passwordHash, []byte(password)) == nil {
		identity := model.Identity{
			ID:       cred.id,
			Username: username,
			Role:     cred.role,
			Name:     cred.name,
		}
		if err := s.persist(ctx, identity); err != nil {
			log.Error().Err(err).Msg("Failed to persist session on login")
			s.notifier.Error("An error occurred during login")
			return model.Identity{}, err
		}
		s.current = &identity
		log.Info().Str("username", username).Str("role", string(identity.Role)).Msg("Login succeeded")
		s.notifier.Success("Welcome back, " + identity.Name + "!")
		return identity, nil
	}

	s.wait(ctx)
	log.Warn().Str("username", username).Msg("Login failed")
	s.notifier.Error("Invalid username or password")
	return model.Identity{}, ErrInvalidCredentials
}

// Register creates a new user-role identity unless the username collides
// with the seeded table (case-sensitive exact match).
func (s *Store) Register(ctx context.Context, username, password, name string) (model.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.creds[username]; exists {
		log.Warn().Str("username", username).Msg("Registration rejected, username exists")
		s.notifier.Error("Username already exists")
		return model.Identity{}, ErrUsernameTaken
	}

	s.wait(ctx)

	identity := model.Identity{
		ID:       strconv.FormatInt(s.now().UnixMilli(), 10),
		Username: username,
		Role:     model.RoleUser,
		Name:     name,
	}
	if err := s.persist(ctx, identity); err != nil {
		log.Error().Err(err).Msg("Failed to persist session on registration")
		s.notifier.Error("An error occurred during registration")
		return model.Identity{}, err
	}
	s.current = &identity
	log.Info().Str("username", username).Str("id", identity.ID).Msg("Registration succeeded")
	s.notifier.Success("Registration successful! Welcome!")
	return identity, nil
}

// Logout clears the identity and the persisted record. It is idempotent and
// never fails from the caller's perspective.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		log.Error().Err(err).Str("key", s.key).Msg("Failed to clear persisted session")
	}
	s.current = nil
	s.notifier.Success("You have been logged out")
}

// persist writes the identity as the session record under the fixed key.
func (s *Store) persist(ctx context.Context, identity model.Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key, data, 0).Err()
}

// wait sleeps for the simulated round-trip, returning early if the context
// is cancelled. There is no abort path: the operation still completes.
func (s *Store) wait(ctx context.Context) {
	if s.delay <= 0 {
		return
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
