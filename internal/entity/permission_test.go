package entity_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/healthportal/internal/entity"
)

func TestParsePermission(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  entity.Permission
		errFn require.ErrorAssertionFunc
	}{
		{"entity and action", "document:read", entity.Permission{Entity: "document", Action: "read"}, require.NoError},
		{"with own scope", "document:read:own", entity.Permission{Entity: "document", Action: "read", Scope: entity.ScopeOwn}, require.NoError},
		{"with all scope", "user:manage:all", entity.Permission{Entity: "user", Action: "manage", Scope: entity.ScopeAll}, require.NoError},
		{"unknown scope", "document:read:team", entity.Permission{}, require.Error},
		{"missing action", "document", entity.Permission{}, require.Error},
		{"empty action", "document::own", entity.Permission{}, require.Error},
		{"too many parts", "a:b:own:x", entity.Permission{}, require.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := entity.ParsePermission(tt.input)
			tt.errFn(t, err)
			require.Equal(t, tt.want, got)

			if err == nil {
				require.Equal(t, tt.input, got.String())
			} else {
				require.True(t, errors.Is(err, entity.ErrValidation))
			}
		})
	}
}

func TestPermissionSet_Has(t *testing.T) {
	t.Parallel()

	set, err := entity.ParsePermissionSet([]string{
		"document:read:all",
		"document:create:own",
		"profile:update",
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		required string
		want     bool
	}{
		{"no requirement", "", true},
		{"all scope covers own", "document:read:own", true},
		{"all scope covers linked", "document:read:linked", true},
		{"all scope covers unscoped", "document:read", true},
		{"all scope covers all", "document:read:all", true},
		{"exact own match", "document:create:own", true},
		{"own does not cover linked", "document:create:linked", false},
		{"own does not cover unscoped", "document:create", false},
		{"own does not cover all", "document:create:all", false},
		{"exact unscoped match", "profile:update", true},
		{"unscoped does not cover own", "profile:update:own", false},
		{"other entity", "user:read:own", false},
		{"malformed requirement", "document", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, set.Has(tt.required))
		})
	}
}

func TestPermission_AllScopeSubsumesEveryScope(t *testing.T) {
	t.Parallel()

	grant := entity.MustParsePermission("patient:read:all")

	for _, scope := range []entity.Scope{entity.ScopeNone, entity.ScopeOwn, entity.ScopeLinked, entity.ScopeAll} {
		required := entity.Permission{Entity: "patient", Action: "read", Scope: scope}
		require.True(t, grant.Satisfies(required), scope)
		require.True(t, entity.PermissionSet{grant}.Has(required.String()), scope)
	}

	require.False(t, grant.Satisfies(entity.Permission{Entity: "patient", Action: "update", Scope: entity.ScopeOwn}))
}

func TestDocStatus_IsKnown(t *testing.T) {
	t.Parallel()

	require.True(t, entity.DocStatusPending.IsKnown())
	require.True(t, entity.DocStatusDoctorReview.IsKnown())
	require.True(t, entity.DocStatusApproved.IsKnown())
	require.True(t, entity.DocStatusRejected.IsKnown())
	require.False(t, entity.DocStatus("Archived").IsKnown())
}

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, entity.NewValidationError("file", "Please select a file to upload"), entity.ErrValidation)

	apiErr := &entity.APIError{Kind: entity.ErrAuth, StatusCode: 401, Message: "Invalid credentials"}
	require.ErrorIs(t, apiErr, entity.ErrAuth)
	require.Equal(t, "Invalid credentials", apiErr.Error())

	require.Equal(t, entity.GenericErrorMessage, (&entity.APIError{Kind: entity.ErrNetwork}).Error())
}
