package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/samandr77/healthportal/internal/auth"
	"github.com/samandr77/healthportal/internal/entity"
	"github.com/samandr77/healthportal/internal/mocks"
	"github.com/samandr77/healthportal/internal/session"
)

func newFlow(t *testing.T) (*auth.Flow, *mocks.MockCredentialsAPI, *mocks.MockSessions) {
	t.Helper()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockCredentialsAPI(ctrl)
	sessions := mocks.NewMockSessions(ctrl)

	return auth.NewFlow(api, sessions), api, sessions
}

func otpFlow(t *testing.T) (*auth.Flow, *mocks.MockCredentialsAPI, *mocks.MockSessions) {
	t.Helper()

	f, api, sessions := newFlow(t)

	api.EXPECT().Login(gomock.Any(), "admin@example.com", "secret").
		Return(entity.LoginResult{RequiresOTP: true, UserID: "u-7"}, nil)

	st, err := f.VerifyCredentials(context.Background(), "admin@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, auth.AwaitingOTP{PendingUserID: "u-7", Identifier: "admin@example.com"}, st)

	return f, api, sessions
}

func TestFlow_VerifyCredentialsValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		identifier string
		password   string
		wantField  string
	}{
		{name: "empty identifier", identifier: "  ", password: "x", wantField: "identifier"},
		{name: "empty password", identifier: "a@b.co", password: "", wantField: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// no expectations: a network call fails the test
			f, _, _ := newFlow(t)

			st, err := f.VerifyCredentials(context.Background(), tt.identifier, tt.password)
			require.ErrorIs(t, err, entity.ErrValidation)

			var vErr *entity.ValidationError
			require.ErrorAs(t, err, &vErr)
			require.Equal(t, tt.wantField, vErr.Field)
			require.Equal(t, auth.Idle{}, st)
		})
	}
}

func TestFlow_WrongPasswordStaysAwaitingCredentials(t *testing.T) {
	t.Parallel()

	f, api, _ := newFlow(t)

	api.EXPECT().Login(gomock.Any(), "user@example.com", "wrong").
		Return(entity.LoginResult{}, &entity.APIError{Kind: entity.ErrAuth, StatusCode: 401, Message: "Invalid email or password"})

	st, err := f.VerifyCredentials(context.Background(), "user@example.com", "wrong")
	require.ErrorIs(t, err, entity.ErrAuth)
	require.Equal(t, "Invalid email or password", err.Error())
	require.Equal(t, auth.AwaitingCredentials{Identifier: "user@example.com"}, st)
	require.Equal(t, st, f.State())
}

func TestFlow_DirectTokenAuthenticates(t *testing.T) {
	t.Parallel()

	f, api, sessions := newFlow(t)
	snap := session.Snapshot{Authenticated: true, User: entity.User{ID: "u-1"}}

	api.EXPECT().Login(gomock.Any(), "user@example.com", "secret").Return(entity.LoginResult{AccessToken: "tok"}, nil)
	sessions.EXPECT().Establish(gomock.Any(), "tok").Return(snap, nil)

	st, err := f.VerifyCredentials(context.Background(), " user@example.com ", "secret")
	require.NoError(t, err)
	require.Equal(t, auth.Authenticated{Session: snap}, st)

	_, err = f.VerifyCredentials(context.Background(), "user@example.com", "secret")
	require.ErrorIs(t, err, entity.ErrInvalidTransition)
}

func TestFlow_BootstrapFailureIsRetryable(t *testing.T) {
	t.Parallel()

	f, api, sessions := newFlow(t)
	bootErr := &entity.APIError{Kind: entity.ErrNetwork, StatusCode: 503}

	api.EXPECT().Login(gomock.Any(), "user@example.com", "secret").Return(entity.LoginResult{AccessToken: "tok"}, nil).Times(2)

	gomock.InOrder(
		sessions.EXPECT().Establish(gomock.Any(), "tok").Return(session.Snapshot{}, bootErr),
		sessions.EXPECT().Establish(gomock.Any(), "tok").Return(session.Snapshot{Authenticated: true}, nil),
	)

	st, err := f.VerifyCredentials(context.Background(), "user@example.com", "secret")
	require.ErrorIs(t, err, entity.ErrNetwork)
	require.IsType(t, auth.Failed{}, st)

	st, err = f.VerifyCredentials(context.Background(), "user@example.com", "secret")
	require.NoError(t, err)
	require.IsType(t, auth.Authenticated{}, st)
}

func TestFlow_WrongOTPKeepsPendingUser(t *testing.T) {
	t.Parallel()

	f, api, _ := otpFlow(t)

	require.NoError(t, f.EnterCode("000000"))

	api.EXPECT().VerifyOTP(gomock.Any(), "u-7", "000000").
		Return(entity.AuthResult{}, &entity.APIError{Kind: entity.ErrAuth, StatusCode: 401, Message: "Invalid or expired OTP"})

	st, err := f.VerifyOTP(context.Background(), "u-7", "")
	require.ErrorIs(t, err, entity.ErrAuth)
	require.Equal(t, "Invalid or expired OTP", err.Error())
	require.Equal(t, auth.AwaitingOTP{PendingUserID: "u-7", Identifier: "admin@example.com"}, st)
}

func TestFlow_OTPSuccessEstablishesSession(t *testing.T) {
	t.Parallel()

	f, api, sessions := otpFlow(t)
	snap := session.Snapshot{Authenticated: true, User: entity.User{ID: "u-7"}}

	gomock.InOrder(
		api.EXPECT().VerifyOTP(gomock.Any(), "u-7", "123456").Return(entity.AuthResult{AccessToken: "tok-7"}, nil),
		sessions.EXPECT().Establish(gomock.Any(), "tok-7").Return(snap, nil),
	)

	st, err := f.VerifyOTP(context.Background(), "u-7", "123456")
	require.NoError(t, err)
	require.Equal(t, auth.Authenticated{Session: snap}, st)

	_, isPending := f.State().(auth.AwaitingOTP)
	require.False(t, isPending)
}

func TestFlow_OTPGuards(t *testing.T) {
	t.Parallel()

	t.Run("not pending", func(t *testing.T) {
		t.Parallel()

		f, _, _ := newFlow(t)

		_, err := f.VerifyOTP(context.Background(), "u-7", "123456")
		require.ErrorIs(t, err, entity.ErrInvalidTransition)
		require.ErrorIs(t, f.EnterCode("1"), entity.ErrInvalidTransition)
	})

	t.Run("other pending user", func(t *testing.T) {
		t.Parallel()

		f, _, _ := otpFlow(t)

		_, err := f.VerifyOTP(context.Background(), "u-8", "123456")
		require.ErrorIs(t, err, entity.ErrInvalidTransition)
	})

	t.Run("empty code", func(t *testing.T) {
		t.Parallel()

		f, _, _ := otpFlow(t)

		_, err := f.VerifyOTP(context.Background(), "u-7", " ")
		require.ErrorIs(t, err, entity.ErrValidation)
	})

	t.Run("credentials while pending", func(t *testing.T) {
		t.Parallel()

		f, _, _ := otpFlow(t)

		_, err := f.VerifyCredentials(context.Background(), "admin@example.com", "secret")
		require.ErrorIs(t, err, entity.ErrInvalidTransition)
	})
}

func TestFlow_CancelDiscardsPendingState(t *testing.T) {
	t.Parallel()

	f, _, _ := otpFlow(t)

	require.NoError(t, f.EnterCode("12"))
	require.NoError(t, f.Cancel())
	require.Equal(t, auth.Idle{}, f.State())

	_, err := f.VerifyOTP(context.Background(), "u-7", "123456")
	require.ErrorIs(t, err, entity.ErrInvalidTransition)
}
