package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samandr77/healthportal/internal/auth"
	"github.com/samandr77/healthportal/internal/entity"
	"github.com/samandr77/healthportal/internal/navigation"
	"github.com/samandr77/healthportal/internal/notify"
)

func loginCmd(a *app) *cobra.Command {
	var id, password, code string

	cmd := &cobra.Command{
		Use:         "login",
		Short:       "Sign in with email or national id, then a one-time code if required",
		Args:        cobra.NoArgs,
		Annotations: withSession(sessionCreate),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var err error

			if id == "" {
				id, err = a.prompt("Email or ID: ")
				if err != nil {
					return err
				}
			}

			if password == "" {
				password, err = a.prompt("Password: ")
				if err != nil {
					return err
				}
			}

			flow := auth.NewFlow(a.portal, a.store)

			st, err := flow.VerifyCredentials(ctx, id, password)
			if err != nil {
				return err
			}

			if pending, ok := st.(auth.AwaitingOTP); ok {
				fmt.Fprintln(a.out, notify.FromError(&entity.OTPRequiredError{UserID: pending.PendingUserID}))

				if code == "" {
					code, err = a.prompt("Verification code: ")
					if err != nil {
						return err
					}
				}

				st, err = flow.VerifyOTP(ctx, pending.PendingUserID, code)
				if err != nil {
					return err
				}
			}

			done, ok := st.(auth.Authenticated)
			if !ok {
				return fmt.Errorf("login ended in %s: %w", st.Name(), entity.ErrInvalidTransition)
			}

			fmt.Fprintln(a.out, notify.Success("Signed in as %s (%s)", done.Session.User.Name, done.Session.ActiveRole.Name))

			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "email or national id")
	cmd.Flags().StringVar(&password, "password", "", "password, prompted when empty")
	cmd.Flags().StringVar(&code, "otp", "", "one-time code, prompted when required and empty")

	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "logout",
		Short:       "End the current session",
		Args:        cobra.NoArgs,
		Annotations: withSession(sessionRestore),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.store.Logout(cmd.Context())
			fmt.Fprintln(a.out, notify.Success("Signed out"))

			return nil
		},
	}
}

type whoami struct {
	UserID      string   `json:"userId"`
	Name        string   `json:"name"`
	Identifier  string   `json:"identifier"`
	ActiveRole  string   `json:"activeRole"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	ExpiresAt   string   `json:"expiresAt,omitempty"`
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "whoami",
		Short:       "Show the signed-in user and active role",
		Args:        cobra.NoArgs,
		Annotations: withSession(sessionRestore),
		RunE: func(_ *cobra.Command, _ []string) error {
			err := a.requireSession()
			if err != nil {
				return err
			}

			snap := a.store.Snapshot()

			out := whoami{
				UserID:      snap.User.ID,
				Name:        snap.User.Name,
				Identifier:  snap.User.Identifier,
				ActiveRole:  fmt.Sprintf("%s (%s)", snap.ActiveRole.Name, snap.ActiveRole.ID),
				Permissions: snap.Permissions.Strings(),
			}

			for _, r := range snap.User.Roles {
				out.Roles = append(out.Roles, fmt.Sprintf("%s (%s)", r.Name, r.ID))
			}

			if !snap.ExpiresAt.IsZero() {
				out.ExpiresAt = snap.ExpiresAt.Format("2006-01-02 15:04:05")
			}

			return a.printJSON(out)
		},
	}
}

func switchRoleCmd(a *app) *cobra.Command {
	var roleID string

	cmd := &cobra.Command{
		Use:         "switch-role",
		Short:       "Change the active role",
		Args:        cobra.NoArgs,
		Annotations: withSession(sessionRestore),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if roleID == "" {
				return entity.NewValidationError("role", "Please choose a role")
			}

			snap, err := a.store.SwitchRole(cmd.Context(), roleID)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, notify.Success("Active role is now %s", snap.ActiveRole.Name))

			return nil
		},
	}

	cmd.Flags().StringVar(&roleID, "role", "", "role id to activate")

	return cmd
}

func menuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "menu",
		Short:       "Print the navigation menu of the active role",
		Args:        cobra.NoArgs,
		Annotations: withSession(sessionRestore),
		RunE: func(_ *cobra.Command, _ []string) error {
			err := a.requireSession()
			if err != nil {
				return err
			}

			return a.printJSON(navigation.Build(navigation.DefaultMenus(), a.store.Snapshot()))
		},
	}
}

func registerCmd(a *app) *cobra.Command {
	var (
		reg  entity.Registration
		kind string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a patient, doctor or staff account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg.Kind = entity.RegistrationKind(kind)

			userID, err := auth.NewRegistrar(a.portal).Register(cmd.Context(), reg)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, notify.Success("Account %s created. You can sign in now", userID))

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&kind, "kind", string(entity.RegisterPatient), "patient, doctor or staff")
	f.StringVar(&reg.Email, "email", "", "email")
	f.StringVar(&reg.Password, "password", "", "password")
	f.StringVar(&reg.ConfirmPassword, "confirm", "", "password confirmation")
	f.StringVar(&reg.FirstName, "first-name", "", "first name")
	f.StringVar(&reg.LastName, "last-name", "", "last name")
	f.StringVar(&reg.Phone, "phone", "", "phone number")
	f.StringVar(&reg.DateOfBirth, "dob", "", "date of birth, YYYY-MM-DD")
	f.StringVar(&reg.NationalID, "national-id", "", "national id")
	f.StringVar(&reg.LicenseNumber, "license", "", "medical license number (doctor)")
	f.StringVar(&reg.Specialization, "specialization", "", "specialization (doctor)")
	f.StringVar(&reg.Department, "department", "", "department (staff)")

	return cmd
}

func forgotPasswordCmd(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			msg, err := auth.NewPasswords(a.portal).ForgotPassword(cmd.Context(), email)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, notify.Info("%s", msg))

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")

	return cmd
}

func resetPasswordCmd(a *app) *cobra.Command {
	var userID, token, password, confirm string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password from a reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			passwords := auth.NewPasswords(a.portal)

			err := passwords.VerifyResetToken(ctx, userID, token)
			if err != nil {
				return err
			}

			err = passwords.ResetPassword(ctx, userID, token, password, confirm)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, notify.Success("Password updated. Please sign in with the new password"))

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&userID, "user", "", "user id from the reset link")
	f.StringVar(&token, "token", "", "token from the reset link")
	f.StringVar(&password, "password", "", "new password")
	f.StringVar(&confirm, "confirm", "", "new password confirmation")

	return cmd
}
