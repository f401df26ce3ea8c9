package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/samandr77/healthportal/internal/entity"
	"github.com/samandr77/healthportal/internal/mocks"
	"github.com/samandr77/healthportal/internal/session"
)

var (
	doctorRole = entity.Role{
		ID:   "r-doctor",
		Name: entity.RoleDoctor,
		Permissions: entity.PermissionSet{
			entity.MustParsePermission("document:read:linked"),
			entity.MustParsePermission("document:review:linked"),
		},
	}
	staffRole = entity.Role{
		ID:   "r-staff",
		Name: entity.RoleStaff,
		Permissions: entity.PermissionSet{
			entity.MustParsePermission("document:read:all"),
			entity.MustParsePermission("document:delete:all"),
		},
	}
	doctor = entity.User{ID: "u-1", Identifier: "doc@example.com", Name: "Doc", Roles: []entity.Role{doctorRole, staffRole}}
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	return token
}

func newStore(t *testing.T) (*session.Store, *mocks.MockAuthAPI) {
	t.Helper()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockAuthAPI(ctrl)
	events := mocks.NewMockPublisher(ctrl)
	events.EXPECT().Publish(gomock.Any(), gomock.Any()).AnyTimes()

	return session.New(api, events), api
}

func establishedStore(t *testing.T) (*session.Store, *mocks.MockAuthAPI) {
	t.Helper()

	s, api := newStore(t)
	api.EXPECT().Me(gomock.Any()).Return(entity.Profile{User: doctor, ActiveRoleID: "r-doctor"}, nil)

	_, err := s.Establish(context.Background(), "tok-1")
	require.NoError(t, err)

	return s, api
}

func TestStore_Establish(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		activeRole string
		wantRole   string
	}{
		{name: "server active role", activeRole: "r-staff", wantRole: "r-staff"},
		{name: "unknown active role falls back to first", activeRole: "r-gone", wantRole: "r-doctor"},
		{name: "no active role", wantRole: "r-doctor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, api := newStore(t)
			api.EXPECT().Me(gomock.Any()).Return(entity.Profile{User: doctor, ActiveRoleID: tt.activeRole}, nil)

			snap, err := s.Establish(context.Background(), "tok-1")
			require.NoError(t, err)
			require.True(t, snap.Authenticated)
			require.Equal(t, tt.wantRole, snap.ActiveRole.ID)
			require.Equal(t, "tok-1", s.AccessToken())

			role, _ := doctor.RoleByID(tt.wantRole)
			require.Equal(t, role.Permissions, snap.Permissions)
		})
	}
}

func TestStore_EstablishFailureClearsSession(t *testing.T) {
	t.Parallel()

	s, api := newStore(t)
	api.EXPECT().Me(gomock.Any()).Return(entity.Profile{}, &entity.APIError{Kind: entity.ErrAuth, StatusCode: 401})

	_, err := s.Establish(context.Background(), "tok-1")
	require.ErrorIs(t, err, entity.ErrAuth)
	require.Empty(t, s.AccessToken())
	require.False(t, s.Snapshot().Authenticated)
}

func TestStore_LoginRequiresOTP(t *testing.T) {
	t.Parallel()

	s, api := newStore(t)
	api.EXPECT().Login(gomock.Any(), "doc@example.com", "secret").
		Return(entity.LoginResult{RequiresOTP: true, UserID: "u-1"}, nil)

	_, err := s.Login(context.Background(), "doc@example.com", "secret")

	var otpErr *entity.OTPRequiredError
	require.True(t, errors.As(err, &otpErr))
	require.Equal(t, "u-1", otpErr.UserID)
	require.False(t, s.Snapshot().Authenticated)
}

func TestStore_LoginDirectToken(t *testing.T) {
	t.Parallel()

	s, api := newStore(t)

	gomock.InOrder(
		api.EXPECT().Login(gomock.Any(), "doc@example.com", "secret").Return(entity.LoginResult{AccessToken: "tok-9"}, nil),
		api.EXPECT().Me(gomock.Any()).Return(entity.Profile{User: doctor}, nil),
	)

	snap, err := s.Login(context.Background(), "doc@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "u-1", snap.User.ID)
	require.Equal(t, "tok-9", s.AccessToken())
}

func TestStore_HasPermission(t *testing.T) {
	t.Parallel()

	s, _ := establishedStore(t)

	require.True(t, s.HasPermission(""))
	require.True(t, s.HasPermission("document:read:linked"))
	require.False(t, s.HasPermission("document:read:all"))
	require.False(t, s.HasPermission("document:delete"))
}

func TestStore_SwitchRoleSameRoleIsNoop(t *testing.T) {
	t.Parallel()

	// no SwitchRole expectation: any network call fails the test
	s, _ := establishedStore(t)
	before := s.Snapshot()

	snap, err := s.SwitchRole(context.Background(), "r-doctor")
	require.NoError(t, err)
	require.Equal(t, before, snap)
	require.Equal(t, before, s.Snapshot())
}

func TestStore_SwitchRoleSuccessReplacesPermissions(t *testing.T) {
	t.Parallel()

	s, api := establishedStore(t)

	api.EXPECT().SwitchRole(gomock.Any(), "r-staff").Return(entity.RoleSwitch{
		Role:        entity.Role{ID: "r-staff", Name: entity.RoleStaff, Permissions: staffRole.Permissions},
		AccessToken: "tok-2",
	}, nil)

	snap, err := s.SwitchRole(context.Background(), "r-staff")
	require.NoError(t, err)
	require.Equal(t, "r-staff", snap.ActiveRole.ID)
	require.False(t, snap.Switching)
	require.Equal(t, "tok-2", s.AccessToken())

	require.True(t, s.HasPermission("document:delete:own"))
	require.False(t, s.HasPermission("document:review:linked"))
}

func TestStore_SwitchRoleFailureKeepsPreviousRole(t *testing.T) {
	t.Parallel()

	s, api := establishedStore(t)
	before := s.Snapshot()

	api.EXPECT().SwitchRole(gomock.Any(), "r-staff").
		Return(entity.RoleSwitch{}, &entity.APIError{Kind: entity.ErrNetwork, StatusCode: 500, Message: "boom"})

	_, err := s.SwitchRole(context.Background(), "r-staff")
	require.ErrorIs(t, err, entity.ErrNetwork)

	after := s.Snapshot()
	require.Equal(t, before.ActiveRole, after.ActiveRole)
	require.Equal(t, before.Permissions, after.Permissions)
	require.False(t, after.Switching)
	require.Equal(t, "tok-1", s.AccessToken())
}

func TestStore_SwitchRoleNotAssigned(t *testing.T) {
	t.Parallel()

	s, _ := establishedStore(t)

	_, err := s.SwitchRole(context.Background(), "r-admin")
	require.ErrorIs(t, err, entity.ErrRoleNotAssigned)
}

func TestStore_SwitchRoleRequiresSession(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t)

	_, err := s.SwitchRole(context.Background(), "r-staff")
	require.ErrorIs(t, err, entity.ErrNotAuthenticated)
}

func TestStore_SwitchRoleInFlight(t *testing.T) {
	t.Parallel()

	s, api := establishedStore(t)

	started := make(chan struct{})
	release := make(chan struct{})

	api.EXPECT().SwitchRole(gomock.Any(), "r-staff").DoAndReturn(func(context.Context, string) (entity.RoleSwitch, error) {
		close(started)
		<-release

		return entity.RoleSwitch{Role: staffRole}, nil
	})

	var (
		wg        sync.WaitGroup
		switchErr error
	)

	wg.Add(1)

	go func() {
		defer wg.Done()

		_, switchErr = s.SwitchRole(context.Background(), "r-staff")
	}()

	<-started

	require.True(t, s.Snapshot().Switching)

	_, err := s.SwitchRole(context.Background(), "r-staff")
	require.ErrorIs(t, err, entity.ErrRoleSwitchInFlight)

	close(release)
	wg.Wait()

	require.NoError(t, switchErr)
	require.Equal(t, "r-staff", s.Snapshot().ActiveRole.ID)
}

func TestStore_LogoutClearsEvenWhenServerFails(t *testing.T) {
	t.Parallel()

	s, api := establishedStore(t)

	api.EXPECT().Logout(gomock.Any(), "tok-1").Return(&entity.APIError{Kind: entity.ErrNetwork})

	s.Logout(context.Background())

	snap := s.Snapshot()
	require.False(t, snap.Authenticated)
	require.Empty(t, snap.Permissions)
	require.Empty(t, s.AccessToken())
	require.False(t, s.HasPermission("document:read:linked"))
}

func TestStore_LogoutWithoutSessionSkipsServer(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t)

	s.Logout(context.Background())
	require.False(t, s.Snapshot().Authenticated)
}

func TestStore_Restore(t *testing.T) {
	t.Parallel()

	t.Run("expired token rejected locally", func(t *testing.T) {
		t.Parallel()

		s, _ := newStore(t)

		_, err := s.Restore(context.Background(), signedToken(t, time.Now().Add(-time.Minute)))
		require.ErrorIs(t, err, entity.ErrNotAuthenticated)
	})

	t.Run("empty token", func(t *testing.T) {
		t.Parallel()

		s, _ := newStore(t)

		_, err := s.Restore(context.Background(), "")
		require.ErrorIs(t, err, entity.ErrNotAuthenticated)
	})

	t.Run("valid token", func(t *testing.T) {
		t.Parallel()

		s, api := newStore(t)
		api.EXPECT().Me(gomock.Any()).Return(entity.Profile{User: doctor, ActiveRoleID: "r-staff"}, nil)

		exp := time.Now().Add(time.Hour).Truncate(time.Second)

		snap, err := s.Restore(context.Background(), signedToken(t, exp))
		require.NoError(t, err)
		require.Equal(t, "r-staff", snap.ActiveRole.ID)
		require.True(t, exp.Equal(snap.ExpiresAt))
	})
}

func TestStore_InvalidateAndSubscribe(t *testing.T) {
	t.Parallel()

	s, _ := establishedStore(t)

	var (
		mu    sync.Mutex
		snaps []session.Snapshot
	)

	unsubscribe := s.Subscribe(func(snap session.Snapshot) {
		mu.Lock()
		defer mu.Unlock()

		snaps = append(snaps, snap)
	})

	s.Invalidate()
	unsubscribe()
	s.Invalidate()

	mu.Lock()
	defer mu.Unlock()

	require.Len(t, snaps, 1)
	require.False(t, snaps[0].Authenticated)
	require.Empty(t, s.AccessToken())
}
