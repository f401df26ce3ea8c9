package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/samandr77/healthportal/internal/entity"
)

type Registrar struct {
	api RegisterAPI
	now func() time.Time
}

func NewRegistrar(api RegisterAPI) *Registrar {
	return &Registrar{api: api, now: time.Now}
}

// Register validates reg locally and creates the account. It returns the new user id.
func (r *Registrar) Register(ctx context.Context, reg entity.Registration) (string, error) {
	reg = normalizeRegistration(reg)

	err := r.validate(reg)
	if err != nil {
		return "", err
	}

	userID, err := r.api.Register(ctx, reg)
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "account registered", "user_id", userID, "kind", reg.Kind)

	return userID, nil
}

func normalizeRegistration(reg entity.Registration) entity.Registration {
	reg.Email = NormalizeEmail(reg.Email)
	reg.FirstName = strings.TrimSpace(reg.FirstName)
	reg.LastName = strings.TrimSpace(reg.LastName)
	reg.Phone = strings.TrimSpace(reg.Phone)
	reg.DateOfBirth = strings.TrimSpace(reg.DateOfBirth)
	reg.NationalID = strings.TrimSpace(reg.NationalID)
	reg.LicenseNumber = strings.TrimSpace(reg.LicenseNumber)
	reg.Specialization = strings.TrimSpace(reg.Specialization)
	reg.Department = strings.TrimSpace(reg.Department)

	return reg
}

func (r *Registrar) validate(reg entity.Registration) error {
	switch reg.Kind {
	case entity.RegisterPatient, entity.RegisterDoctor, entity.RegisterStaff:
	default:
		return entity.NewValidationError("kind", "Please choose an account type")
	}

	if err := ValidateName("firstName", reg.FirstName); err != nil {
		return err
	}

	if err := ValidateName("lastName", reg.LastName); err != nil {
		return err
	}

	if err := ValidateEmail(reg.Email); err != nil {
		return err
	}

	if err := ValidatePassword(reg.Password, reg.ConfirmPassword); err != nil {
		return err
	}

	if err := validatePhone(reg.Phone); err != nil {
		return err
	}

	if err := validateDateOfBirth(reg.DateOfBirth, r.now()); err != nil {
		return err
	}

	switch reg.Kind {
	case entity.RegisterDoctor:
		if reg.LicenseNumber == "" {
			return entity.NewValidationError("licenseNumber", "Please enter your license number")
		}

		if reg.Specialization == "" {
			return entity.NewValidationError("specialization", "Please enter your specialization")
		}
	case entity.RegisterStaff:
		if reg.Department == "" {
			return entity.NewValidationError("department", "Please enter your department")
		}
	}

	return nil
}
