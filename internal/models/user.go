package models

// RoleAdmin is the role value granted by the escalation endpoint.
const RoleAdmin = "admin"

// IsAdmin reports whether a user document carries the admin role.
// A nil document is not an admin.
func IsAdmin(user Document) bool {
	role, ok := user["role"].(string)
	return ok && role == RoleAdmin
}

// AdminStatus is the response of the admin lookup by email.
type AdminStatus struct {
	Admin bool `json:"admin"`
}
