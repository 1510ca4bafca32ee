package rbac

// RolePermissions is the default policy. Admins hold every permission.
var RolePermissions = map[string][]string{
	"student": {
		"test:generate",
		"test:view",
		"user:view_self",
		"user:update_self",
		"user:change_password",
	},
	"teacher": {
		"test:generate",
		"test:view",
		"question:create",
		"user:view_self",
		"user:update_self",
		"user:change_password",
	},
	"admin": {"*"},
}
