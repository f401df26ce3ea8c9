package navigation_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/healthportal/internal/entity"
	"github.com/samandr77/healthportal/internal/navigation"
	"github.com/samandr77/healthportal/internal/session"
)

func perms(t *testing.T, values ...string) entity.PermissionSet {
	t.Helper()

	set, err := entity.ParsePermissionSet(values)
	require.NoError(t, err)

	return set
}

func ids(def navigation.Definition) [][]string {
	out := make([][]string, 0, len(def.Categories))

	for _, c := range def.Categories {
		row := []string{c.Title}
		for _, it := range c.Items {
			row = append(row, it.ID)
		}

		out = append(out, row)
	}

	return out
}

func TestFilter(t *testing.T) {
	t.Parallel()

	def := navigation.Definition{
		Categories: []navigation.Category{
			{Title: "A", Items: []navigation.Item{{ID: "open"}, {ID: "docs", RequiredPerm: "document:read:own"}}},
			{Title: "B", Items: []navigation.Item{{ID: "admin", RequiredPerm: "user:manage:all"}}},
			{Title: "C", Items: []navigation.Item{{ID: "review", RequiredPerm: "document:review:linked"}, {ID: "audit", RequiredPerm: "audit:read:all"}}},
		},
		Bottom: []navigation.Item{{ID: "logout"}, {ID: "profile", RequiredPerm: "profile:read:own"}},
	}

	tests := []struct {
		name       string
		grants     []string
		want       [][]string
		wantBottom int
	}{
		{
			name:       "no grants keeps open items only",
			want:       [][]string{{"A", "open"}},
			wantBottom: 1,
		},
		{
			name:       "exact scope",
			grants:     []string{"document:read:own", "document:review:linked", "profile:read:own"},
			want:       [][]string{{"A", "open", "docs"}, {"C", "review"}},
			wantBottom: 2,
		},
		{
			name:       "all scope subsumes narrower requirement",
			grants:     []string{"document:read:all", "user:manage:all", "audit:read:all"},
			want:       [][]string{{"A", "open", "docs"}, {"B", "admin"}, {"C", "audit"}},
			wantBottom: 1,
		},
		{
			name:       "narrow grant does not satisfy another scope",
			grants:     []string{"document:read:linked", "document:review:own"},
			want:       [][]string{{"A", "open"}},
			wantBottom: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := navigation.Filter(def, session.Snapshot{Permissions: perms(t, tt.grants...)})
			require.Equal(t, tt.want, ids(got))
			require.Len(t, got.Bottom, tt.wantBottom)
		})
	}

	// the definition itself is never modified
	require.Len(t, def.Categories, 3)
	require.Len(t, def.Categories[0].Items, 2)
}

func TestBuild(t *testing.T) {
	t.Parallel()

	menus := navigation.DefaultMenus()

	patient := session.Snapshot{
		Authenticated: true,
		ActiveRole:    entity.Role{ID: "r-p", Name: entity.RolePatient},
		Permissions:   perms(t, "document:read:own", "profile:read:own"),
	}

	got := navigation.Build(menus, patient)
	require.Equal(t, [][]string{{"My Health", "dashboard", "my-documents"}, {"Account", "profile"}}, ids(got))
	require.Equal(t, "help", got.Bottom[0].ID)

	staff := session.Snapshot{
		Authenticated: true,
		ActiveRole:    entity.Role{ID: "r-s", Name: entity.RoleStaff},
		Permissions:   perms(t, "document:read:all", "patient:read:all", "user:read:all"),
	}

	got = navigation.Build(menus, staff)
	require.Equal(t, [][]string{
		{"Overview", "dashboard"},
		{"Clinical", "patients", "documents"},
		{"Administration", "users"},
	}, ids(got))

	got = navigation.Build(menus, session.Snapshot{})
	require.Empty(t, got.Categories)
	require.Empty(t, got.Bottom)
}

type fakeSubscriber struct {
	fn func(session.Snapshot)
}

func (f *fakeSubscriber) Subscribe(fn func(session.Snapshot)) func() {
	f.fn = fn
	return func() { f.fn = nil }
}

func TestWatch(t *testing.T) {
	t.Parallel()

	sub := &fakeSubscriber{}

	var got []navigation.Definition

	stop := navigation.Watch(sub, navigation.DefaultMenus(), func(def navigation.Definition) {
		got = append(got, def)
	})

	sub.fn(session.Snapshot{
		Authenticated: true,
		ActiveRole:    entity.Role{Name: entity.RoleDoctor},
		Permissions:   perms(t, "document:review:linked"),
	})

	require.Len(t, got, 1)
	require.Equal(t, [][]string{{"Overview", "dashboard"}, {"Clinical", "reviews"}}, ids(got[0]))

	stop()
	require.Nil(t, sub.fn)
}
