// Package domain defines the authenticated caller identity shared by the HTTP
// layer: who is calling and whether they hold the administrator role.
package domain

// Principal is an authenticated caller.
type Principal struct {
	// Login identifies the caller.
	Login string
	// DisplayName is shown to other users.
	DisplayName string
	// Admin is set only for the configured administrator account.
	Admin bool
}

// AdminDisplayName is the display name of the configured administrator.
const AdminDisplayName = "Admin"
