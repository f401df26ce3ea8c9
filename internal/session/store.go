// Package session holds who is acting, as which role, with which permissions.
// Only Store methods mutate that state; everything else reads Snapshots.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/samandr77/healthportal/internal/entity"
	"github.com/samandr77/healthportal/pkg/logger"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=store.go -destination=../mocks/session.go -package=mocks

type AuthAPI interface {
	Login(ctx context.Context, identifier, password string) (entity.LoginResult, error)
	Me(ctx context.Context) (entity.Profile, error)
	SwitchRole(ctx context.Context, roleID string) (entity.RoleSwitch, error)
	Logout(ctx context.Context, accessToken string) error
}

type Publisher interface {
	Publish(ctx context.Context, event entity.Event)
}

// Snapshot is an immutable copy of the session state.
type Snapshot struct {
	User          entity.User
	ActiveRole    entity.Role
	Permissions   entity.PermissionSet
	Authenticated bool
	Switching     bool
	ExpiresAt     time.Time
}

func (s Snapshot) HasPermission(required string) bool {
	return s.Permissions.Has(required)
}

type Store struct {
	api    AuthAPI
	events Publisher
	now    func() time.Time

	mu          sync.RWMutex
	user        entity.User
	active      entity.Role
	perms       entity.PermissionSet
	token       string
	expiresAt   time.Time
	established bool
	switching   bool
	generation  uint64

	subMu       sync.Mutex
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

func New(api AuthAPI, events Publisher) *Store {
	return &Store{
		api:         api,
		events:      events,
		now:         time.Now,
		subscribers: map[int]func(Snapshot){},
	}
}

// Login verifies a password login. When a second factor is needed it returns *entity.OTPRequiredError
// and leaves the store untouched.
func (s *Store) Login(ctx context.Context, identifier, password string) (Snapshot, error) {
	res, err := s.api.Login(ctx, identifier, password)
	if err != nil {
		slog.WarnContext(logger.SetLogType(ctx, logger.TypeSecurity), "login failed", "identifier", identifier, "error", err)
		return Snapshot{}, fmt.Errorf("login: %w", err)
	}

	if res.RequiresOTP {
		return Snapshot{}, &entity.OTPRequiredError{UserID: res.UserID}
	}

	return s.Establish(ctx, res.AccessToken)
}

// Establish replaces whatever session existed with one bootstrapped from accessToken.
func (s *Store) Establish(ctx context.Context, accessToken string) (Snapshot, error) {
	snap, err := s.establish(ctx, accessToken)
	if err != nil {
		return Snapshot{}, err
	}

	s.publish(ctx, entity.EventLogin, snap, nil)

	slog.InfoContext(logger.SetLogType(ctx, logger.TypeSecurity), "session established",
		"user_id", snap.User.ID, "role", snap.ActiveRole.Name)

	return snap, nil
}

// Restore bootstraps a session from a previously persisted token. Expired tokens are rejected locally.
func (s *Store) Restore(ctx context.Context, accessToken string) (Snapshot, error) {
	if accessToken == "" {
		return Snapshot{}, entity.ErrNotAuthenticated
	}

	if exp := tokenExpiry(accessToken); !exp.IsZero() && !s.now().Before(exp) {
		return Snapshot{}, fmt.Errorf("token expired at %s: %w", exp.Format(time.RFC3339), entity.ErrNotAuthenticated)
	}

	return s.establish(ctx, accessToken)
}

func (s *Store) establish(ctx context.Context, accessToken string) (Snapshot, error) {
	if accessToken == "" {
		return Snapshot{}, fmt.Errorf("empty access token: %w", entity.ErrAuth)
	}

	s.mu.Lock()
	s.resetLocked()
	s.token = accessToken
	s.expiresAt = tokenExpiry(accessToken)
	gen := s.generation
	s.mu.Unlock()

	profile, err := s.api.Me(ctx)
	if err != nil {
		s.mu.Lock()
		if s.generation == gen {
			s.resetLocked()
		}
		s.mu.Unlock()

		return Snapshot{}, fmt.Errorf("load profile: %w", err)
	}

	s.mu.Lock()

	if s.generation != gen {
		s.mu.Unlock()
		return Snapshot{}, fmt.Errorf("session replaced during bootstrap: %w", entity.ErrNotAuthenticated)
	}

	user := profile.User.Clone()

	active, ok := user.RoleByID(profile.ActiveRoleID)
	if !ok && len(user.Roles) > 0 {
		active = user.Roles[0]
	}

	s.user = user
	s.active = active
	s.perms = active.Permissions.Clone()
	s.established = true
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)

	return snap, nil
}

// Logout tears the session down locally first; the server call is best effort.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	token := s.token
	prev := s.snapshotLocked()
	s.resetLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)

	if !prev.Authenticated && token == "" {
		return
	}

	s.publish(ctx, entity.EventLogout, prev, nil)

	slog.InfoContext(logger.SetLogType(ctx, logger.TypeSecurity), "session closed", "user_id", prev.User.ID)

	if token == "" {
		return
	}

	err := s.api.Logout(ctx, token)
	if err != nil {
		slog.WarnContext(ctx, "server logout failed", "error", err)
	}
}

// Invalidate drops the session without contacting the server, e.g. after the server rejected the token.
func (s *Store) Invalidate() {
	s.mu.Lock()
	if !s.established && s.token == "" {
		s.mu.Unlock()
		return
	}

	userID := s.user.ID
	s.resetLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	slog.Warn("session invalidated", "type", logger.TypeSecurity, "user_id", userID)

	s.notify(snap)
}

// SwitchRole makes roleID the active role. Switching to the current role is a no-op without a network call.
// On failure the previous role stays active.
func (s *Store) SwitchRole(ctx context.Context, roleID string) (Snapshot, error) {
	s.mu.Lock()

	if !s.established {
		s.mu.Unlock()
		return Snapshot{}, entity.ErrNotAuthenticated
	}

	if roleID == s.active.ID {
		snap := s.snapshotLocked()
		s.mu.Unlock()

		return snap, nil
	}

	if s.switching {
		s.mu.Unlock()
		return Snapshot{}, entity.ErrRoleSwitchInFlight
	}

	target, ok := s.user.RoleByID(roleID)
	if !ok {
		s.mu.Unlock()
		return Snapshot{}, fmt.Errorf("switch to %s: %w", roleID, entity.ErrRoleNotAssigned)
	}

	s.switching = true
	gen := s.generation
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)

	res, err := s.api.SwitchRole(ctx, roleID)

	s.mu.Lock()

	if s.generation != gen {
		s.mu.Unlock()
		return Snapshot{}, fmt.Errorf("session ended during role switch: %w", entity.ErrNotAuthenticated)
	}

	s.switching = false

	if err != nil {
		snap = s.snapshotLocked()
		s.mu.Unlock()

		s.notify(snap)

		slog.WarnContext(logger.SetLogType(ctx, logger.TypeSecurity), "role switch failed",
			"user_id", snap.User.ID, "role_id", roleID, "error", err)

		return Snapshot{}, fmt.Errorf("switch role: %w", err)
	}

	// the server's view of the role wins; fall back to the assigned role if it sent no permissions
	if res.Role.ID == roleID && res.Role.Permissions != nil {
		target.Permissions = res.Role.Permissions.Clone()

		if res.Role.Name != "" {
			target.Name = res.Role.Name
		}
	}

	s.replaceRoleLocked(target)
	s.active = target
	s.perms = target.Permissions.Clone()

	if res.AccessToken != "" {
		s.token = res.AccessToken
		s.expiresAt = tokenExpiry(res.AccessToken)
	}

	snap = s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	s.publish(ctx, entity.EventRoleSwitched, snap, nil)

	slog.InfoContext(logger.SetLogType(ctx, logger.TypeSecurity), "role switched",
		"user_id", snap.User.ID, "role", snap.ActiveRole.Name)

	return snap, nil
}

func (s *Store) HasPermission(required string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.perms.Has(required)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

// AccessToken returns the bearer token for outgoing requests.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Subscribe registers fn to be called with every new snapshot. The returned func unregisters it.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()

		delete(s.subscribers, id)
	}
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subscribers))

	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Store) publish(ctx context.Context, typ entity.EventType, snap Snapshot, attrs map[string]string) {
	if s.events == nil {
		return
	}

	s.events.Publish(ctx, entity.Event{
		Type:       typ,
		UserID:     snap.User.ID,
		RoleID:     snap.ActiveRole.ID,
		Attributes: attrs,
		OccurredAt: s.now().UTC(),
	})
}

func (s *Store) resetLocked() {
	s.user = entity.User{}
	s.active = entity.Role{}
	s.perms = nil
	s.token = ""
	s.expiresAt = time.Time{}
	s.established = false
	s.switching = false
	s.generation++
}

func (s *Store) replaceRoleLocked(role entity.Role) {
	for i := range s.user.Roles {
		if s.user.Roles[i].ID == role.ID {
			s.user.Roles[i] = role
		}
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		User:          s.user.Clone(),
		ActiveRole:    entity.Role{ID: s.active.ID, Name: s.active.Name, Permissions: s.active.Permissions.Clone()},
		Permissions:   s.perms.Clone(),
		Authenticated: s.established,
		Switching:     s.switching,
		ExpiresAt:     s.expiresAt,
	}
}

// tokenExpiry reads the exp claim without verifying the signature; the server remains the authority.
func tokenExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims

	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil {
		if !errors.Is(err, jwt.ErrTokenMalformed) {
			slog.Debug("parse token claims", "error", err)
		}

		return time.Time{}
	}

	if claims.ExpiresAt == nil {
		return time.Time{}
	}

	return claims.ExpiresAt.Time
}
