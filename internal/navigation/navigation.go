// Package navigation derives the visible sidebar from a static menu definition and the active permissions.
package navigation

import (
	"github.com/samandr77/healthportal/internal/entity"
	"github.com/samandr77/healthportal/internal/session"
)

type Item struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Path         string `json:"path"`
	RequiredPerm string `json:"requiredPerm,omitempty"`
}

type Category struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

type Definition struct {
	Categories []Category `json:"categories"`
	Bottom     []Item     `json:"bottom"`
}

// Menus holds the patient menu and the one shared by every other role.
type Menus struct {
	Patient Definition
	Default Definition
}

type PermissionChecker interface {
	HasPermission(required string) bool
}

// Select picks the definition for an active role name.
func (m Menus) Select(role entity.RoleName) Definition {
	if role == entity.RolePatient {
		return m.Patient
	}

	return m.Default
}

// Filter keeps items whose requirement is satisfied and drops categories left empty. Order is preserved.
func Filter(def Definition, perms PermissionChecker) Definition {
	out := Definition{
		Categories: make([]Category, 0, len(def.Categories)),
		Bottom:     filterItems(def.Bottom, perms),
	}

	for _, c := range def.Categories {
		items := filterItems(c.Items, perms)
		if len(items) == 0 {
			continue
		}

		out.Categories = append(out.Categories, Category{Title: c.Title, Items: items})
	}

	return out
}

func filterItems(items []Item, perms PermissionChecker) []Item {
	out := make([]Item, 0, len(items))

	for _, it := range items {
		if it.RequiredPerm == "" || perms.HasPermission(it.RequiredPerm) {
			out = append(out, it)
		}
	}

	return out
}

// Build returns the menu for a session snapshot. Signed-out sessions get an empty menu.
func Build(menus Menus, snap session.Snapshot) Definition {
	if !snap.Authenticated {
		return Definition{Categories: []Category{}, Bottom: []Item{}}
	}

	return Filter(menus.Select(snap.ActiveRole.Name), snap)
}

type Subscriber interface {
	Subscribe(fn func(session.Snapshot)) func()
}

// Watch rebuilds the menu on every session change and hands it to fn.
func Watch(sub Subscriber, menus Menus, fn func(Definition)) func() {
	return sub.Subscribe(func(snap session.Snapshot) {
		fn(Build(menus, snap))
	})
}
