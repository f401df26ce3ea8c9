package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/samandr77/healthportal/internal/entity"
	"github.com/samandr77/healthportal/pkg/logger"
)

// ForgotPasswordMessage is shown whether or not the address belongs to an account.
const ForgotPasswordMessage = "If an account exists for this email, a password reset link has been sent."

type resetKey struct {
	userID string
	token  string
}

type Passwords struct {
	api PasswordAPI

	mu       sync.Mutex
	verified map[resetKey]struct{}
}

func NewPasswords(api PasswordAPI) *Passwords {
	return &Passwords{
		api:      api,
		verified: map[resetKey]struct{}{},
	}
}

// ForgotPassword requests a reset link. Unknown addresses get the same answer as known ones.
func (p *Passwords) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)

	if email == "" {
		return "", entity.NewValidationError("email", "Please enter your email")
	}

	err := p.api.ForgotPassword(ctx, email)
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		return "", err
	}

	if err != nil {
		slog.InfoContext(logger.SetLogType(ctx, logger.TypeSecurity), "reset requested for unknown email")
	}

	return ForgotPasswordMessage, nil
}

// VerifyResetToken checks a reset link. ResetPassword only proceeds for a pair that passed this check.
func (p *Passwords) VerifyResetToken(ctx context.Context, userID, token string) error {
	userID = strings.TrimSpace(userID)
	token = strings.TrimSpace(token)

	if userID == "" || token == "" {
		return entity.NewValidationError("token", "Reset link is invalid or has expired")
	}

	err := p.api.VerifyResetToken(ctx, userID, token)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.verified[resetKey{userID: userID, token: token}] = struct{}{}
	p.mu.Unlock()

	return nil
}

func (p *Passwords) ResetPassword(ctx context.Context, userID, token, password, confirm string) error {
	key := resetKey{userID: strings.TrimSpace(userID), token: strings.TrimSpace(token)}

	p.mu.Lock()
	_, ok := p.verified[key]
	p.mu.Unlock()

	if !ok {
		return fmt.Errorf("reset password for %s: %w", key.userID, entity.ErrResetTokenUnchecked)
	}

	err := ValidatePassword(password, confirm)
	if err != nil {
		return err
	}

	err = p.api.ResetPassword(ctx, key.userID, key.token, password)
	if err != nil {
		return err
	}

	p.mu.Lock()
	delete(p.verified, key)
	p.mu.Unlock()

	slog.InfoContext(logger.SetLogType(ctx, logger.TypeSecurity), "password reset", "user_id", key.userID)

	return nil
}
