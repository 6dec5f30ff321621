package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/api/metrics"
	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

const (
	defaultRemoteTimeout = 10 * time.Second
	// storageTimeout bounds storage writes made on behalf of a caller whose
	// own context may already be done.
	storageTimeout = 5 * time.Second
)

// SessionStore owns the operator's session. All mutation goes through Login,
// Logout, Bootstrap and the background verification it starts, so the
// identity and token are always set or cleared together.
type SessionStore struct {
	gateway       ports.CredentialGateway
	storage       ports.KeyValueStore
	log           zerolog.Logger
	remoteTimeout time.Duration

	// writeMu serializes session changes together with their storage writes;
	// mu alone guards the in-memory fields so readers never wait on storage.
	writeMu      sync.Mutex
	mu           sync.RWMutex
	identity     *domain.Identity
	token        string
	initializing bool
	verified     bool
	// epoch advances on every change of session owner. A background
	// verification only applies its result if the epoch it started under is
	// still current.
	epoch uint64

	bootstrap sync.Once
	inflight  sync.WaitGroup
}

// NewSessionStore returns an empty, initializing store. Call Bootstrap once
// before serving requests. remoteTimeout bounds the background verification
// and the sign-out call to the authority.
func NewSessionStore(gateway ports.CredentialGateway, storage ports.KeyValueStore, log zerolog.Logger, remoteTimeout time.Duration) *SessionStore {
	if remoteTimeout <= 0 {
		remoteTimeout = defaultRemoteTimeout
	}
	return &SessionStore{
		gateway:       gateway,
		storage:       storage,
		log:           log,
		remoteTimeout: remoteTimeout,
		initializing:  true,
	}
}

// Snapshot returns the current session.
func (s *SessionStore) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Session{
		Identity:     s.identity,
		Token:        s.token,
		Initializing: s.initializing,
		Verified:     s.verified,
	}
}

// Token satisfies ports.TokenSource.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Bootstrap restores a persisted session. A well-formed session is published
// immediately and then verified in the background; a corrupt one is removed.
// Initializing clears before Bootstrap returns, without waiting for the
// verification. Calls after the first are no-ops.
func (s *SessionStore) Bootstrap(ctx context.Context) {
	s.bootstrap.Do(func() { s.restore(ctx) })
}

func (s *SessionStore) restore(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	defer func() {
		s.mu.Lock()
		s.initializing = false
		s.mu.Unlock()
	}()

	token, hasToken, err := s.storage.Get(ctx, ports.TokenKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("read persisted token failed, starting signed out")
		return
	}
	rawIdentity, hasIdentity, err := s.storage.Get(ctx, ports.IdentityKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("read persisted identity failed, starting signed out")
		return
	}

	if !hasToken || !hasIdentity || token == "" {
		if hasToken || hasIdentity {
			// Half a session is no session; drop the orphan.
			s.removePersisted(ctx)
		}
		return
	}

	identity, err := domain.ParseIdentity(rawIdentity)
	if err != nil {
		s.log.Debug().Err(err).Msg("discarding persisted session")
		s.removePersisted(ctx)
		metrics.SessionClearsTotal.WithLabelValues("corrupt").Inc()
		return
	}

	s.mu.Lock()
	s.identity = identity
	s.token = token
	s.verified = false
	s.epoch++
	epoch := s.epoch
	s.mu.Unlock()

	s.log.Info().Str("username", identity.Username).Msg("session restored, verifying in background")

	s.inflight.Add(1)
	go s.verify(context.WithoutCancel(ctx), epoch, token)
}

func (s *SessionStore) verify(ctx context.Context, epoch uint64, token string) {
	defer s.inflight.Done()

	verifyCtx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	_, err := s.gateway.Verify(verifyCtx, token)
	cancel()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		s.log.Debug().Msg("session changed during verification, result ignored")
		metrics.SessionVerificationsTotal.WithLabelValues("superseded").Inc()
		return
	}

	switch {
	case err == nil:
		s.verified = true
		s.mu.Unlock()
		metrics.SessionVerificationsTotal.WithLabelValues("ok").Inc()

	case errors.Is(err, domain.ErrAuthRejected):
		s.clearLocked()
		s.mu.Unlock()
		s.removePersistedDetached(ctx)
		s.log.Info().Msg("restored session rejected by authority, signed out")
		metrics.SessionVerificationsTotal.WithLabelValues("rejected").Inc()
		metrics.SessionClearsTotal.WithLabelValues("rejected").Inc()

	default:
		s.mu.Unlock()
		s.log.Warn().Err(err).Msg("session verification failed, keeping session")
		metrics.SessionVerificationsTotal.WithLabelValues("transient").Inc()
	}
}

// Login exchanges credentials with the authority. On success the new identity
// and token replace any previous session and are persisted; on failure the
// previous session is left exactly as it was.
func (s *SessionStore) Login(ctx context.Context, username, password string) (*domain.Identity, error) {
	identity, token, err := s.gateway.Login(ctx, username, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		s.log.Info().Err(err).Str("username", username).Msg("login failed")
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.identity = identity
	s.token = token
	s.verified = true
	s.epoch++
	s.mu.Unlock()

	persistCtx, cancel := detached(ctx)
	defer cancel()
	if err := s.persist(persistCtx, identity, token); err != nil {
		s.log.Error().Err(err).Msg("persist session failed, session will not survive a restart")
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	s.log.Info().Str("username", identity.Username).Str("role", identity.Role).Msg("operator signed in")
	return identity, nil
}

// Logout notifies the authority, then clears the session whatever the outcome
// of that call. The remote call is bounded by the remote timeout; the storage
// cleanup runs even when ctx is already done.
func (s *SessionStore) Logout(ctx context.Context) {
	token := s.Token()
	if token != "" {
		remoteCtx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
		s.gateway.Logout(remoteCtx, token)
		cancel()
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()

	s.removePersistedDetached(ctx)
	metrics.SessionClearsTotal.WithLabelValues("logout").Inc()
	s.log.Info().Msg("operator signed out")
}

// Refresh trades the current token for a fresh one and persists it. A
// rejection by the authority signs the operator out.
func (s *SessionStore) Refresh(ctx context.Context) error {
	s.mu.RLock()
	token, epoch := s.token, s.epoch
	s.mu.RUnlock()
	if token == "" {
		return domain.ErrNotAuthenticated
	}

	fresh, err := s.gateway.Refresh(ctx, token)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		s.log.Debug().Msg("session changed during token refresh, result ignored")
		metrics.TokenRefreshesTotal.WithLabelValues("superseded").Inc()
		return err
	}

	switch {
	case err == nil:
		s.token = fresh
		s.verified = true
		// The old token is gone; a verification still running against it
		// must not touch the refreshed session.
		s.epoch++
		s.mu.Unlock()

		persistCtx, cancel := detached(ctx)
		defer cancel()
		if err := s.storage.Set(persistCtx, ports.TokenKey, fresh); err != nil {
			s.log.Error().Err(err).Msg("persist refreshed token failed")
		}
		metrics.TokenRefreshesTotal.WithLabelValues("ok").Inc()
		s.log.Debug().Msg("session token refreshed")
		return nil

	case errors.Is(err, domain.ErrAuthRejected):
		s.clearLocked()
		s.mu.Unlock()
		s.removePersistedDetached(ctx)
		metrics.TokenRefreshesTotal.WithLabelValues("rejected").Inc()
		metrics.SessionClearsTotal.WithLabelValues("rejected").Inc()
		s.log.Info().Msg("token refresh rejected by authority, signed out")
		return err

	default:
		s.mu.Unlock()
		metrics.TokenRefreshesTotal.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Msg("token refresh failed, keeping session")
		return err
	}
}

// ChangePassword changes the signed-in operator's password. The session is
// left as it is.
func (s *SessionStore) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	token := s.Token()
	if token == "" {
		return domain.ErrNotAuthenticated
	}
	if err := s.gateway.ChangePassword(ctx, token, oldPassword, newPassword); err != nil {
		s.log.Info().Err(err).Msg("password change failed")
		return err
	}
	s.log.Info().Msg("operator changed password")
	return nil
}

// Wait blocks until any background verification has finished.
func (s *SessionStore) Wait() {
	s.inflight.Wait()
}

func (s *SessionStore) clearLocked() {
	s.identity = nil
	s.token = ""
	s.verified = false
	s.epoch++
}

func (s *SessionStore) persist(ctx context.Context, identity *domain.Identity, token string) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, ports.TokenKey, token); err != nil {
		return err
	}
	if err := s.storage.Set(ctx, ports.IdentityKey, string(raw)); err != nil {
		_ = s.storage.Remove(ctx, ports.TokenKey)
		return err
	}
	return nil
}

// removePersistedDetached removes both keys under a context that outlives
// ctx's cancellation.
func (s *SessionStore) removePersistedDetached(ctx context.Context) {
	cleanupCtx, cancel := detached(ctx)
	defer cancel()
	s.removePersisted(cleanupCtx)
}

func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), storageTimeout)
}

func (s *SessionStore) removePersisted(ctx context.Context) {
	for _, key := range []string{ports.TokenKey, ports.IdentityKey} {
		if err := s.storage.Remove(ctx, key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("remove persisted session key failed")
		}
	}
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed"
	default:
		return "error"
	}
}

var _ ports.SessionManager = (*SessionStore)(nil)
