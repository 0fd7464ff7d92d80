package web

import (
	"slices"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
	"github.com/ngo-portal/portal-backend/internal/portal/locale"
)

// Role selects the navigation shown around a page.
type Role string

const (
	RoleNone  Role = ""
	RoleNGO   Role = "ngo"
	RoleAdmin Role = "admin"
)

type NavItem struct {
	Path   string
	Label  string
	Active bool
}

var navigation = map[Role][]NavItem{
	RoleNGO: {
		{Path: "/ngo/login", Label: "nav.login"},
		{Path: "/ngo/projects", Label: "nav.projects"},
	},
	RoleAdmin: {
		{Path: "/admin/dashboard", Label: "nav.dashboard"},
		{Path: "/admin/ngos", Label: "nav.ngos"},
		{Path: "/admin/projects", Label: "nav.projects"},
	},
}

// Nav returns the role's navigation with the entry for path marked active.
func Nav(role Role, path string) []NavItem {
	items := slices.Clone(navigation[role])
	for i := range items {
		items[i].Active = items[i].Path == path
	}
	return items
}

// Page is the data every template renders from.
type Page struct {
	Title         string
	Role          Role
	Path          string
	Nav           []NavItem
	Lang          string
	Languages     []string
	Notifications []domain.Notification
	Data          any

	loc locale.Localizer
}

// T renders a message in the page language.
func (p Page) T(key string, args ...any) string { return p.loc.T(key, args...) }

// formState carries the fields rejected by the last submission.
type formState struct {
	Errors []string
}

func (f formState) Invalid(field string) bool { return slices.Contains(f.Errors, field) }

// option is one entry of a checkbox group or select.
type option struct {
	Token   string
	Label   string
	Checked bool
}
