package entity

import (
	"fmt"
	"strings"
)

type Scope string

const (
	ScopeNone   Scope = ""
	ScopeOwn    Scope = "own"
	ScopeLinked Scope = "linked"
	ScopeAll    Scope = "all"
)

func (s Scope) IsValid() bool {
	switch s {
	case ScopeNone, ScopeOwn, ScopeLinked, ScopeAll:
		return true
	default:
		return false
	}
}

const (
	EntityDocument = "document"
	EntityUser     = "user"
	EntityRole     = "role"
	EntityPatient  = "patient"
	EntityProfile  = "profile"
	EntityAudit    = "audit"
)

const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionReview = "review"
	ActionManage = "manage"
)

// Permission is an (entity, action, scope) grant, written as entity:action[:scope].
type Permission struct {
	Entity string
	Action string
	Scope  Scope
}

func ParsePermission(s string) (Permission, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Permission{}, fmt.Errorf("%w: malformed permission %q", ErrValidation, s)
	}

	p := Permission{Entity: parts[0], Action: parts[1]}
	if len(parts) == 3 {
		p.Scope = Scope(parts[2])
	}

	if p.Entity == "" || p.Action == "" || !p.Scope.IsValid() {
		return Permission{}, fmt.Errorf("%w: malformed permission %q", ErrValidation, s)
	}

	return p, nil
}

func MustParsePermission(s string) Permission {
	p, err := ParsePermission(s)
	if err != nil {
		panic(err)
	}

	return p
}

func (p Permission) String() string {
	if p.Scope == ScopeNone {
		return p.Entity + ":" + p.Action
	}

	return p.Entity + ":" + p.Action + ":" + string(p.Scope)
}

func (p Permission) WithScope(scope Scope) Permission {
	p.Scope = scope
	return p
}

// Satisfies reports whether the grant p covers the required permission.
// An all-scope grant covers every scope of the same entity and action.
func (p Permission) Satisfies(required Permission) bool {
	if p == required {
		return true
	}

	return p.Scope == ScopeAll && p.Entity == required.Entity && p.Action == required.Action
}

type PermissionSet []Permission

func ParsePermissionSet(values []string) (PermissionSet, error) {
	set := make(PermissionSet, 0, len(values))

	for _, v := range values {
		p, err := ParsePermission(v)
		if err != nil {
			return nil, err
		}

		set = append(set, p)
	}

	return set, nil
}

// Has reports whether any grant satisfies required. An empty requirement is always satisfied.
func (s PermissionSet) Has(required string) bool {
	if strings.TrimSpace(required) == "" {
		return true
	}

	p, err := ParsePermission(required)
	if err != nil {
		return false
	}

	return s.Allows(p)
}

func (s PermissionSet) Allows(required Permission) bool {
	for _, grant := range s {
		if grant.Satisfies(required) {
			return true
		}
	}

	return false
}

func (s PermissionSet) Strings() []string {
	out := make([]string, 0, len(s))
	for _, p := range s {
		out = append(out, p.String())
	}

	return out
}

func (s PermissionSet) Clone() PermissionSet {
	if s == nil {
		return nil
	}

	out := make(PermissionSet, len(s))
	copy(out, s)

	return out
}
