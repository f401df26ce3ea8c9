package sandbox

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/gofrs/uuid/v5"
)

type roleJSON struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type userJSON struct {
	ID    string     `json:"id"`
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Roles []roleJSON `json:"roles"`
}

// userView must be called with s.mu held.
func (s *Server) userView(u *user) userJSON {
	roles := make([]roleJSON, 0, len(u.RoleIDs))

	for _, id := range u.RoleIDs {
		r, ok := s.roles[id]
		if !ok {
			continue
		}

		roles = append(roles, roleJSON{ID: r.ID, Name: r.Name, Permissions: slices.Clone(r.Permissions)})
	}

	return userJSON{ID: u.ID, Email: u.Email, Name: u.Name, Roles: roles}
}

// findUser must be called with s.mu held.
func (s *Server) findUser(identifier string) *user {
	identifier = strings.TrimSpace(identifier)

	for _, u := range s.users {
		if strings.EqualFold(u.Email, identifier) || (u.NationalID != "" && u.NationalID == identifier) {
			return u
		}
	}

	return nil
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}

	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	u := s.findUser(req.Identifier)

	if u == nil || u.Password != req.Password {
		s.mu.Unlock()
		SendErr(ctx, w, http.StatusUnauthorized, "Invalid email or password")

		return
	}

	userID, roleID, otp := u.ID, u.ActiveRoleID, u.OTPEnabled
	s.mu.Unlock()

	if otp {
		slog.InfoContext(ctx, "sandbox otp issued", "user_id", userID, "code", s.opts.OTPCode)
		SendJSON(ctx, w, http.StatusOK, map[string]any{"requiresOTP": true, "userId": userID})

		return
	}

	token, err := s.Token(userID, roleID)
	if err != nil {
		SendErr(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	SendJSON(ctx, w, http.StatusOK, map[string]any{"accessToken": token, "requiresOTP": false, "userId": userID})
}

func (s *Server) verifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		UserID string `json:"userId"`
		OTP    string `json:"otp"`
	}

	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	u, ok := s.users[req.UserID]

	if !ok || req.OTP != s.opts.OTPCode {
		s.mu.Unlock()
		SendErr(ctx, w, http.StatusUnauthorized, "Invalid or expired OTP")

		return
	}

	view := s.userView(u)
	roleID := u.ActiveRoleID
	s.mu.Unlock()

	token, err := s.Token(view.ID, roleID)
	if err != nil {
		SendErr(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	SendJSON(ctx, w, http.StatusOK, map[string]any{"user": view, "accessToken": token})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFromCtx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.users[claims.Subject]

	active := claims.RoleID
	if !slices.Contains(u.RoleIDs, active) {
		active = u.ActiveRoleID
	}

	SendJSON(ctx, w, http.StatusOK, map[string]any{"user": s.userView(u), "activeRoleId": active})
}

func (s *Server) switchRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFromCtx(ctx)

	var req struct {
		RoleID string `json:"roleId"`
	}

	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	u := s.users[claims.Subject]

	role, ok := s.roles[req.RoleID]
	if !ok || !slices.Contains(u.RoleIDs, req.RoleID) {
		s.mu.Unlock()
		SendErr(ctx, w, http.StatusForbidden, "Role is not assigned to this user")

		return
	}

	u.ActiveRoleID = req.RoleID
	s.revoked[claims.ID] = true
	s.mu.Unlock()

	token, err := s.Token(claims.Subject, req.RoleID)
	if err != nil {
		SendErr(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	SendJSON(ctx, w, http.StatusOK, map[string]any{
		"accessToken": token,
		"role":        roleJSON{ID: role.ID, Name: role.Name, Permissions: slices.Clone(role.Permissions)},
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromCtx(r.Context())

	s.mu.Lock()
	s.revoked[claims.ID] = true
	s.mu.Unlock()

	SendJSON(r.Context(), w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Email string `json:"email"`
	}

	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	u := s.findUser(req.Email)

	if u == nil {
		s.mu.Unlock()
		SendErr(ctx, w, http.StatusNotFound, "User not found")

		return
	}

	token := uuid.Must(uuid.NewV4()).String()
	s.resetTokens[u.ID] = token
	userID := u.ID
	s.mu.Unlock()

	slog.InfoContext(ctx, "sandbox reset link issued", "user_id", userID, "token", token)

	SendJSON(ctx, w, http.StatusOK, map[string]string{"message": "Reset link sent"})
}

func (s *Server) verifyResetToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.URL.Query().Get("userId")
	token := r.URL.Query().Get("token")

	s.mu.Lock()
	expected, ok := s.resetTokens[userID]
	s.mu.Unlock()

	if !ok || token == "" || expected != token {
		SendJSON(ctx, w, http.StatusOK, map[string]any{"valid": false, "message": "Reset link is invalid or has expired"})
		return
	}

	SendJSON(ctx, w, http.StatusOK, map[string]any{"valid": true})
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		UserID   string `json:"userId"`
		Token    string `json:"token"`
		Password string `json:"password"`
	}

	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expected, ok := s.resetTokens[req.UserID]
	if !ok || expected != req.Token {
		SendErr(ctx, w, http.StatusUnauthorized, "Reset link is invalid or has expired")
		return
	}

	if len(req.Password) < 8 {
		SendErr(ctx, w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	s.users[req.UserID].Password = req.Password
	delete(s.resetTokens, req.UserID)

	SendJSON(ctx, w, http.StatusOK, map[string]string{"message": "Password updated"})
}

var registrationRoles = map[string]string{
	"patient": "sys_patient",
	"doctor":  "sys_doctor",
	"staff":   "sys_staff",
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Kind       string `json:"kind"`
		Email      string `json:"email"`
		Password   string `json:"password"`
		FirstName  string `json:"firstName"`
		LastName   string `json:"lastName"`
		NationalID string `json:"nationalId"`
	}

	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	roleName, ok := registrationRoles[req.Kind]
	if !ok {
		SendErr(ctx, w, http.StatusBadRequest, "Unknown registration type")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findUser(req.Email) != nil {
		SendErr(ctx, w, http.StatusConflict, "An account with this email already exists")
		return
	}

	var roleIDs []string

	for id, role := range s.roles {
		if role.Name == roleName {
			roleIDs = append(roleIDs, id)
		}
	}

	id := uuid.Must(uuid.NewV4()).String()

	active := ""
	if len(roleIDs) > 0 {
		active = roleIDs[0]
	}

	s.users[id] = &user{
		ID:           id,
		Email:        req.Email,
		NationalID:   req.NationalID,
		Name:         strings.TrimSpace(req.FirstName + " " + req.LastName),
		Password:     req.Password,
		RoleIDs:      roleIDs,
		ActiveRoleID: active,
	}

	SendJSON(ctx, w, http.StatusCreated, map[string]string{"userId": id, "message": "Registration successful"})
}
