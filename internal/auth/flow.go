package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/samandr77/healthportal/internal/entity"
	"github.com/samandr77/healthportal/internal/session"
	"github.com/samandr77/healthportal/pkg/logger"
)

// State is one of Idle, AwaitingCredentials, AwaitingOTP, Authenticated or Failed.
type State interface {
	Name() string
	state()
}

type Idle struct{}

// AwaitingCredentials is entered when credentials are submitted and kept after a rejected attempt.
type AwaitingCredentials struct {
	Identifier string
}

// AwaitingOTP holds what is needed to finish a login that requires a one-time code.
type AwaitingOTP struct {
	PendingUserID string
	Identifier    string
	Code          string
}

type Authenticated struct {
	Session session.Snapshot
}

// Failed means a token was issued but the session could not be bootstrapped. Credentials may be retried.
type Failed struct {
	Err error
}

func (Idle) Name() string                { return "idle" }
func (AwaitingCredentials) Name() string { return "awaiting_credentials" }
func (AwaitingOTP) Name() string         { return "awaiting_otp" }
func (Authenticated) Name() string       { return "authenticated" }
func (Failed) Name() string              { return "failed" }

func (Idle) state()                {}
func (AwaitingCredentials) state() {}
func (AwaitingOTP) state()         {}
func (Authenticated) state()       {}
func (Failed) state()              {}

type Flow struct {
	api      CredentialsAPI
	sessions Sessions

	// run serializes transitions, mu guards reads of st
	run sync.Mutex
	mu  sync.RWMutex
	st  State
}

func NewFlow(api CredentialsAPI, sessions Sessions) *Flow {
	return &Flow{
		api:      api,
		sessions: sessions,
		st:       Idle{},
	}
}

func (f *Flow) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.st
}

func (f *Flow) set(st State) State {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.st = st

	return st
}

// VerifyCredentials submits identifier and password. Empty input fails locally without a network call.
func (f *Flow) VerifyCredentials(ctx context.Context, identifier, password string) (State, error) {
	f.run.Lock()
	defer f.run.Unlock()

	switch f.State().(type) {
	case Idle, AwaitingCredentials, Failed:
	default:
		return f.State(), fmt.Errorf("verify credentials from %s: %w", f.State().Name(), entity.ErrInvalidTransition)
	}

	identifier = strings.TrimSpace(identifier)

	if identifier == "" {
		return f.State(), entity.NewValidationError("identifier", "Please enter your email or ID")
	}

	if password == "" {
		return f.State(), entity.NewValidationError("password", "Please enter your password")
	}

	f.set(AwaitingCredentials{Identifier: identifier})

	res, err := f.api.Login(ctx, identifier, password)
	if err != nil {
		slog.WarnContext(logger.SetLogType(ctx, logger.TypeSecurity), "credentials rejected",
			"identifier", identifier, "error", err)

		return f.State(), err
	}

	if res.RequiresOTP {
		slog.InfoContext(ctx, "one-time code required", "user_id", res.UserID)

		return f.set(AwaitingOTP{PendingUserID: res.UserID, Identifier: identifier}), nil
	}

	return f.establish(ctx, res.AccessToken)
}

// EnterCode records the code typed so far.
func (f *Flow) EnterCode(code string) error {
	f.run.Lock()
	defer f.run.Unlock()

	st, ok := f.State().(AwaitingOTP)
	if !ok {
		return fmt.Errorf("enter code from %s: %w", f.State().Name(), entity.ErrInvalidTransition)
	}

	st.Code = strings.TrimSpace(code)
	f.set(st)

	return nil
}

// VerifyOTP completes a pending login. An empty code uses the one recorded by EnterCode.
// On rejection the entered code is cleared and the pending user is kept for another try.
func (f *Flow) VerifyOTP(ctx context.Context, pendingUserID, code string) (State, error) {
	f.run.Lock()
	defer f.run.Unlock()

	st, ok := f.State().(AwaitingOTP)
	if !ok {
		return f.State(), fmt.Errorf("verify otp from %s: %w", f.State().Name(), entity.ErrInvalidTransition)
	}

	if pendingUserID != "" && pendingUserID != st.PendingUserID {
		return st, fmt.Errorf("otp for unknown pending user %s: %w", pendingUserID, entity.ErrInvalidTransition)
	}

	code = strings.TrimSpace(code)
	if code == "" {
		code = st.Code
	}

	if code == "" {
		return st, entity.NewValidationError("otp", "Please enter the verification code")
	}

	res, err := f.api.VerifyOTP(ctx, st.PendingUserID, code)
	if err != nil {
		slog.WarnContext(logger.SetLogType(ctx, logger.TypeSecurity), "one-time code rejected",
			"user_id", st.PendingUserID, "error", err)

		st.Code = ""

		return f.set(st), err
	}

	return f.establish(ctx, res.AccessToken)
}

// Cancel abandons a pending login and forgets the pending user.
func (f *Flow) Cancel() error {
	f.run.Lock()
	defer f.run.Unlock()

	if _, ok := f.State().(Authenticated); ok {
		return fmt.Errorf("cancel from %s: %w", f.State().Name(), entity.ErrInvalidTransition)
	}

	f.set(Idle{})

	return nil
}

// Reset returns the flow to Idle, e.g. after logout.
func (f *Flow) Reset() {
	f.run.Lock()
	defer f.run.Unlock()

	f.set(Idle{})
}

func (f *Flow) establish(ctx context.Context, accessToken string) (State, error) {
	snap, err := f.sessions.Establish(ctx, accessToken)
	if err != nil {
		slog.ErrorContext(ctx, "session bootstrap failed", "error", err)

		return f.set(Failed{Err: err}), err
	}

	return f.set(Authenticated{Session: snap}), nil
}
