package domain

// Action names an operation guarded by the role gate.
type Action string

const (
	ActionCatalogWrite  Action = "catalog:write"
	ActionCatalogDelete Action = "catalog:delete"
	ActionTaskCreate    Action = "task:create"
	ActionTaskDelete    Action = "task:delete"
	ActionUserList      Action = "user:list"
)

var managers = []Role{RoleAdmin, RoleManager}

// policy maps every guarded action to the roles allowed to perform it.
var policy = map[Action][]Role{
	ActionCatalogWrite:  managers,
	ActionCatalogDelete: managers,
	ActionTaskCreate:    managers,
	ActionTaskDelete:    managers,
	ActionUserList:      managers,
}

// Authorize reports whether role is a member of allowed.
func Authorize(role Role, allowed ...Role) bool {
	if !role.Valid() {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// Allowed reports whether role may perform action. Unknown actions are denied.
func Allowed(action Action, role Role) bool {
	roles, ok := policy[action]
	if !ok {
		return false
	}
	return Authorize(role, roles...)
}

// RolesFor returns the roles permitted to perform action.
func RolesFor(action Action) []Role {
	return append([]Role(nil), policy[action]...)
}

// CanUpdateTaskStatus reports whether u may change the status of a task
// assigned to assigneeID. Sales users may only touch their own tasks.
func CanUpdateTaskStatus(u *PublicUser, assigneeID string) bool {
	if u == nil {
		return false
	}
	switch u.Role {
	case RoleAdmin, RoleManager:
		return true
	case RoleSales:
		return assigneeID != "" && u.ID == assigneeID
	}
	return false
}
