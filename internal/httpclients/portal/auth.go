package portal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/samandr77/healthportal/internal/entity"
)

type RoleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type UserResponse struct {
	ID    string         `json:"id"`
	Email string         `json:"email"`
	Name  string         `json:"name"`
	Roles []RoleResponse `json:"roles"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	RequiresOTP bool   `json:"requiresOTP"`
	UserID      string `json:"userId"`
}

func (c *Client) Login(ctx context.Context, identifier, password string) (entity.LoginResult, error) {
	var data LoginResponse

	err := c.doJSON(ctx, "auth.login", http.MethodPost, "/auth/login", LoginRequest{
		Identifier: identifier,
		Password:   password,
	}, &data)
	if err != nil {
		return entity.LoginResult{}, err
	}

	return entity.LoginResult{
		AccessToken: data.AccessToken,
		RequiresOTP: data.RequiresOTP,
		UserID:      data.UserID,
	}, nil
}

type VerifyOTPRequest struct {
	UserID string `json:"userId"`
	OTP    string `json:"otp"`
}

type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
}

func (c *Client) VerifyOTP(ctx context.Context, userID, code string) (entity.AuthResult, error) {
	var data AuthResponse

	err := c.doJSON(ctx, "auth.verify_otp", http.MethodPost, "/auth/verify-otp", VerifyOTPRequest{
		UserID: userID,
		OTP:    code,
	}, &data)
	if err != nil {
		return entity.AuthResult{}, err
	}

	user, err := userFromAPI(data.User)
	if err != nil {
		return entity.AuthResult{}, err
	}

	return entity.AuthResult{User: user, AccessToken: data.AccessToken}, nil
}

type MeResponse struct {
	User         UserResponse `json:"user"`
	ActiveRoleID string       `json:"activeRoleId"`
}

func (c *Client) Me(ctx context.Context) (entity.Profile, error) {
	var data MeResponse

	err := c.doJSON(ctx, "auth.me", http.MethodGet, "/auth/me", nil, &data)
	if err != nil {
		return entity.Profile{}, err
	}

	user, err := userFromAPI(data.User)
	if err != nil {
		return entity.Profile{}, err
	}

	return entity.Profile{User: user, ActiveRoleID: data.ActiveRoleID}, nil
}

type SwitchRoleRequest struct {
	RoleID string `json:"roleId"`
}

type SwitchRoleResponse struct {
	AccessToken string       `json:"accessToken"`
	Role        RoleResponse `json:"role"`
}

func (c *Client) SwitchRole(ctx context.Context, roleID string) (entity.RoleSwitch, error) {
	var data SwitchRoleResponse

	err := c.doJSON(ctx, "auth.switch_role", http.MethodPost, "/auth/switch-role", SwitchRoleRequest{RoleID: roleID}, &data)
	if err != nil {
		return entity.RoleSwitch{}, err
	}

	if data.Role.ID == "" {
		data.Role.ID = roleID
	}

	role, err := roleFromAPI(data.Role)
	if err != nil {
		return entity.RoleSwitch{}, err
	}

	return entity.RoleSwitch{Role: role, AccessToken: data.AccessToken}, nil
}

func (c *Client) Logout(ctx context.Context, accessToken string) error {
	ctx = withBearer(ctx, accessToken)
	return c.doJSON(ctx, "auth.logout", http.MethodPost, "/auth/logout", nil, nil)
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.doJSON(ctx, "auth.forgot_password", http.MethodPost, "/auth/forgot-password", ForgotPasswordRequest{Email: email}, nil)
}

type VerifyResetTokenResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

func (c *Client) VerifyResetToken(ctx context.Context, userID, token string) error {
	q := url.Values{}
	q.Set("userId", userID)
	q.Set("token", token)

	var data VerifyResetTokenResponse

	err := c.doJSON(ctx, "auth.verify_reset_token", http.MethodGet, "/auth/verify-reset-token?"+q.Encode(), nil, &data)
	if err != nil {
		return err
	}

	if !data.Valid {
		return &entity.APIError{Kind: entity.ErrAuth, StatusCode: http.StatusOK, Message: data.Message}
	}

	return nil
}

type ResetPasswordRequest struct {
	UserID   string `json:"userId"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (c *Client) ResetPassword(ctx context.Context, userID, token, password string) error {
	return c.doJSON(ctx, "auth.reset_password", http.MethodPost, "/auth/reset-password", ResetPasswordRequest{
		UserID:   userID,
		Token:    token,
		Password: password,
	}, nil)
}

type RegisterRequest struct {
	Kind           string `json:"kind"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Phone          string `json:"phone,omitempty"`
	DateOfBirth    string `json:"dateOfBirth,omitempty"`
	NationalID     string `json:"nationalId,omitempty"`
	LicenseNumber  string `json:"licenseNumber,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	Department     string `json:"department,omitempty"`
}

type RegisterResponse struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

func (c *Client) Register(ctx context.Context, r entity.Registration) (string, error) {
	var data RegisterResponse

	err := c.doJSON(ctx, "auth.register", http.MethodPost, "/auth/register", RegisterRequest{
		Kind:           string(r.Kind),
		Email:          r.Email,
		Password:       r.Password,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Phone:          r.Phone,
		DateOfBirth:    r.DateOfBirth,
		NationalID:     r.NationalID,
		LicenseNumber:  r.LicenseNumber,
		Specialization: r.Specialization,
		Department:     r.Department,
	}, &data)
	if err != nil {
		return "", err
	}

	return data.UserID, nil
}

func userFromAPI(u UserResponse) (entity.User, error) {
	roles := make([]entity.Role, 0, len(u.Roles))

	for _, r := range u.Roles {
		role, err := roleFromAPI(r)
		if err != nil {
			return entity.User{}, err
		}

		roles = append(roles, role)
	}

	return entity.User{
		ID:         u.ID,
		Identifier: u.Email,
		Name:       u.Name,
		Roles:      roles,
	}, nil
}

func roleFromAPI(r RoleResponse) (entity.Role, error) {
	perms, err := entity.ParsePermissionSet(r.Permissions)
	if err != nil {
		return entity.Role{}, fmt.Errorf("decode role %s permissions: %w", r.ID, err)
	}

	return entity.Role{
		ID:          r.ID,
		Name:        entity.RoleName(r.Name),
		Permissions: perms,
	}, nil
}
