// Package auth drives the sign-in flow (password, then an optional one-time code),
// password reset and self registration.
package auth

import (
	"context"

	"github.com/samandr77/healthportal/internal/entity"
	"github.com/samandr77/healthportal/internal/session"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=auth.go -destination=../mocks/auth.go -package=mocks

type CredentialsAPI interface {
	Login(ctx context.Context, identifier, password string) (entity.LoginResult, error)
	VerifyOTP(ctx context.Context, userID, code string) (entity.AuthResult, error)
}

type Sessions interface {
	Establish(ctx context.Context, accessToken string) (session.Snapshot, error)
}

type PasswordAPI interface {
	ForgotPassword(ctx context.Context, email string) error
	VerifyResetToken(ctx context.Context, userID, token string) error
	ResetPassword(ctx context.Context, userID, token, password string) error
}

type RegisterAPI interface {
	Register(ctx context.Context, r entity.Registration) (string, error)
}
