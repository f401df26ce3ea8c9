package navigation

func DefaultMenus() Menus {
	return Menus{
		Patient: Definition{
			Categories: []Category{
				{
					Title: "My Health",
					Items: []Item{
						{ID: "dashboard", Label: "Dashboard", Path: "/patient/dashboard"},
						{ID: "my-documents", Label: "My Documents", Path: "/patient/documents", RequiredPerm: "document:read:own"},
						{ID: "upload-document", Label: "Upload Document", Path: "/patient/documents/upload", RequiredPerm: "document:create:own"},
					},
				},
				{
					Title: "Account",
					Items: []Item{
						{ID: "profile", Label: "Profile", Path: "/patient/profile", RequiredPerm: "profile:read:own"},
						{ID: "security", Label: "Security", Path: "/patient/security", RequiredPerm: "profile:update:own"},
					},
				},
			},
			Bottom: []Item{
				{ID: "help", Label: "Help", Path: "/help"},
				{ID: "logout", Label: "Log out", Path: "/logout"},
			},
		},
		Default: Definition{
			Categories: []Category{
				{
					Title: "Overview",
					Items: []Item{
						{ID: "dashboard", Label: "Dashboard", Path: "/dashboard"},
					},
				},
				{
					Title: "Clinical",
					Items: []Item{
						{ID: "patients", Label: "Patients", Path: "/patients", RequiredPerm: "patient:read:linked"},
						{ID: "documents", Label: "Documents", Path: "/documents", RequiredPerm: "document:read:linked"},
						{ID: "reviews", Label: "Document Reviews", Path: "/documents/reviews", RequiredPerm: "document:review:linked"},
					},
				},
				{
					Title: "Administration",
					Items: []Item{
						{ID: "users", Label: "Users", Path: "/admin/users", RequiredPerm: "user:read:all"},
						{ID: "roles", Label: "Roles & Permissions", Path: "/admin/roles", RequiredPerm: "role:manage:all"},
						{ID: "audit", Label: "Audit Log", Path: "/admin/audit", RequiredPerm: "audit:read:all"},
					},
				},
			},
			Bottom: []Item{
				{ID: "profile", Label: "Profile", Path: "/profile", RequiredPerm: "profile:read:own"},
				{ID: "logout", Label: "Log out", Path: "/logout"},
			},
		},
	}
}
