// Package notify turns operation outcomes into the short messages shown to the user.
package notify

import (
	"errors"
	"fmt"

	"github.com/samandr77/healthportal/internal/entity"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func (n Notification) String() string {
	return fmt.Sprintf("[%s] %s", n.Level, n.Message)
}

func Success(format string, args ...any) Notification {
	return Notification{Level: LevelSuccess, Message: fmt.Sprintf(format, args...)}
}

func Info(format string, args ...any) Notification {
	return Notification{Level: LevelInfo, Message: fmt.Sprintf(format, args...)}
}

var bulkVerbs = map[string]string{
	"update": "updated",
	"delete": "deleted",
}

// FromError picks the message for err. Validation and server messages are shown verbatim;
// anything unrecognized gets the generic message.
func FromError(err error) Notification {
	var (
		verr *entity.ValidationError
		aerr *entity.APIError
		berr *entity.BulkError
		otp  *entity.OTPRequiredError
	)

	switch {
	case err == nil:
		return Notification{Level: LevelSuccess, Message: "Done"}
	case errors.As(err, &verr):
		return Notification{Level: LevelWarning, Message: verr.Message}
	case errors.As(err, &otp):
		return Info("Enter the verification code to continue")
	case errors.As(err, &berr):
		verb, ok := bulkVerbs[berr.Op]
		if !ok {
			verb = "processed"
		}

		return Notification{
			Level:   LevelError,
			Message: fmt.Sprintf("%d of %d documents could not be %s. Please try again.", berr.Failed, berr.Total, verb),
		}
	case errors.As(err, &aerr):
		return Notification{Level: LevelError, Message: aerr.Error()}
	case errors.Is(err, entity.ErrForbidden):
		return Notification{Level: LevelError, Message: "You do not have permission to perform this action"}
	case errors.Is(err, entity.ErrNotAuthenticated):
		return Notification{Level: LevelError, Message: "Please sign in to continue"}
	case errors.Is(err, entity.ErrRoleSwitchInFlight):
		return Notification{Level: LevelWarning, Message: "A role switch is already in progress"}
	case errors.Is(err, entity.ErrRoleNotAssigned):
		return Notification{Level: LevelError, Message: "This role is not assigned to your account"}
	case errors.Is(err, entity.ErrResetTokenUnchecked):
		return Notification{Level: LevelWarning, Message: "Please open the reset link again"}
	case errors.Is(err, entity.ErrInvalidTransition):
		return Notification{Level: LevelWarning, Message: "This step is not available right now"}
	default:
		return Notification{Level: LevelError, Message: entity.GenericErrorMessage}
	}
}
