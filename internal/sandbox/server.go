// Package sandbox is an in-memory stand-in for the portal backend. It backs the
// `portal sandbox` command for local development and the HTTP-level tests.
package sandbox

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	jwt "github.com/golang-jwt/jwt/v5"
)

const (
	DefaultOTPCode  = "123456"
	DefaultPassword = "password123"
	defaultTokenTTL = time.Hour
)

type Options struct {
	Secret   []byte
	OTPCode  string
	TokenTTL time.Duration
	Now      func() time.Time
}

type roleDef struct {
	ID          string
	Name        string
	Permissions []string
}

type user struct {
	ID           string
	Email        string
	NationalID   string
	Name         string
	Password     string
	OTPEnabled   bool
	RoleIDs      []string
	ActiveRoleID string
}

type document struct {
	ID        string
	PatientID string
	DoctorID  string
	Name      string
	Type      string
	Status    string
	CreatedAt time.Time
	URL       string
	Filename  string
	Content   []byte
	MimeType  string
}

type failure struct {
	status  int
	message string
}

type Server struct {
	mu sync.Mutex

	opts        Options
	roles       map[string]roleDef
	users       map[string]*user
	docs        map[string]*document
	order       []string
	resetTokens map[string]string
	revoked     map[string]bool
	failures    map[string]failure
	hits        map[string]int
}

func New(opts Options) *Server {
	if len(opts.Secret) == 0 {
		opts.Secret = []byte("sandbox-secret")
	}

	if opts.OTPCode == "" {
		opts.OTPCode = DefaultOTPCode
	}

	if opts.TokenTTL == 0 {
		opts.TokenTTL = defaultTokenTTL
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Server{
		opts:        opts,
		roles:       map[string]roleDef{},
		users:       map[string]*user{},
		docs:        map[string]*document{},
		resetTokens: map[string]string{},
		revoked:     map[string]bool{},
		failures:    map[string]failure{},
		hits:        map[string]int{},
	}
}

// FailOn makes the next request matching method and path fail with status and message.
func (s *Server) FailOn(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures[method+" "+path] = failure{status: status, message: message}
}

// Hits returns how many requests reached method and path.
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.hits[method+" "+path]
}

// ResetToken returns the pending password-reset token of a user, as if read from the e-mail.
func (s *Server) ResetToken(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.resetTokens[userID]
}

func (s *Server) AddRole(id, name string, permissions ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roles[id] = roleDef{ID: id, Name: name, Permissions: permissions}
}

type UserSeed struct {
	ID         string
	Email      string
	NationalID string
	Name       string
	Password   string
	OTPEnabled bool
	RoleIDs    []string
}

func (s *Server) AddUser(u UserSeed) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.Password == "" {
		u.Password = DefaultPassword
	}

	active := ""
	if len(u.RoleIDs) > 0 {
		active = u.RoleIDs[0]
	}

	s.users[u.ID] = &user{
		ID:           u.ID,
		Email:        u.Email,
		NationalID:   u.NationalID,
		Name:         u.Name,
		Password:     u.Password,
		OTPEnabled:   u.OTPEnabled,
		RoleIDs:      slices.Clone(u.RoleIDs),
		ActiveRoleID: active,
	}
}

type DocumentSeed struct {
	ID        string
	PatientID string
	DoctorID  string
	Name      string
	Type      string
	Status    string
	CreatedAt time.Time
	URL       string
}

func (s *Server) AddDocument(d DocumentSeed) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[d.ID] = &document{
		ID:        d.ID,
		PatientID: d.PatientID,
		DoctorID:  d.DoctorID,
		Name:      d.Name,
		Type:      d.Type,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
		URL:       d.URL,
	}
	s.order = append(s.order, d.ID)
}

// Token issues an access token for userID acting as roleID.
func (s *Server) Token(userID, roleID string) (string, error) {
	now := s.opts.Now()

	claims := Claims{
		RoleID: roleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.Must(uuid.NewV4()).String(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.TokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.opts.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return token, nil
}

type Claims struct {
	RoleID string `json:"roleId"`
	jwt.RegisteredClaims
}

// Seed loads a small demo dataset: a patient, a doctor who is also staff, and an admin with OTP.
func (s *Server) Seed() {
	s.AddRole("r-patient", "sys_patient",
		"document:read:own", "document:create:own", "profile:read:own", "profile:update:own")
	s.AddRole("r-doctor", "sys_doctor",
		"document:read:linked", "document:create:linked", "document:update:linked", "document:review:linked",
		"patient:read:linked", "profile:read:own", "profile:update:own")
	s.AddRole("r-staff", "sys_staff",
		"document:read:all", "document:create:all", "document:update:all", "document:delete:all",
		"patient:read:all", "user:read:all", "profile:read:own")
	s.AddRole("r-admin", "sys_admin",
		"document:read:all", "document:create:all", "document:update:all", "document:delete:all", "document:review:all",
		"patient:read:all", "user:read:all", "user:manage:all", "role:manage:all", "audit:read:all", "profile:read:own")

	s.AddUser(UserSeed{ID: "u-patient", Email: "patient@example.com", NationalID: "900101-1234", Name: "Pat Doe", RoleIDs: []string{"r-patient"}})
	s.AddUser(UserSeed{ID: "u-doctor", Email: "doctor@example.com", Name: "Dr. Ada Grey", RoleIDs: []string{"r-doctor", "r-staff"}})
	s.AddUser(UserSeed{ID: "u-admin", Email: "admin@example.com", Name: "Admin", OTPEnabled: true, RoleIDs: []string{"r-admin", "r-doctor"}})

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	s.AddDocument(DocumentSeed{
		ID: "d-1", PatientID: "u-patient", DoctorID: "u-doctor", Name: "Blood panel", Type: "Lab Report",
		Status: "Pending", CreatedAt: base, URL: "https://res.cloudinary.com/healthportal/image/upload/v1/documents/d-1.pdf",
	})
	s.AddDocument(DocumentSeed{
		ID: "d-2", PatientID: "u-patient", DoctorID: "u-doctor", Name: "Chest X-ray", Type: "Scan",
		Status: "Doctor Review", CreatedAt: base.AddDate(0, 0, 3), URL: "https://res.cloudinary.com/healthportal/image/upload/v1/documents/d-2.png",
	})
	s.AddDocument(DocumentSeed{
		ID: "d-3", PatientID: "u-patient", DoctorID: "u-doctor", Name: "Amoxicillin", Type: "Prescription",
		Status: "Approved", CreatedAt: base.AddDate(0, 0, 10), URL: "https://res.cloudinary.com/healthportal/image/upload/v1/documents/d-3.docx",
	})
}
