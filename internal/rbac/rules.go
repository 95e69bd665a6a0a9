package rbac

// Default policy. Reads of scores and reports are public; these cover the
// mutating admin surface.
var RolePermissions = map[string][]string{
	"operator": {
		"categories:refresh",
		"batch:run",
		"batch:view",
	},
	"viewer": {
		"batch:view",
	},
	"admin": {
		"*", // everything
	},
}
