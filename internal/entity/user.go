package entity

type RoleName string

const (
	RolePatient RoleName = "sys_patient"
	RoleDoctor  RoleName = "sys_doctor"
	RoleStaff   RoleName = "sys_staff"
	RoleAdmin   RoleName = "sys_admin"
)

type Role struct {
	ID          string        `json:"id"`
	Name        RoleName      `json:"name"`
	Permissions PermissionSet `json:"-"`
}

type User struct {
	ID         string `json:"id"`
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	Roles      []Role `json:"roles"`
}

func (u User) RoleByID(id string) (Role, bool) {
	for _, r := range u.Roles {
		if r.ID == id {
			return r, true
		}
	}

	return Role{}, false
}

func (u User) Clone() User {
	roles := make([]Role, 0, len(u.Roles))
	for _, r := range u.Roles {
		r.Permissions = r.Permissions.Clone()
		roles = append(roles, r)
	}

	u.Roles = roles

	return u
}

type RegistrationKind string

const (
	RegisterPatient RegistrationKind = "patient"
	RegisterDoctor  RegistrationKind = "doctor"
	RegisterStaff   RegistrationKind = "staff"
)

type Registration struct {
	Kind            RegistrationKind
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Phone           string
	DateOfBirth     string
	NationalID      string
	LicenseNumber   string
	Specialization  string
	Department      string
}
