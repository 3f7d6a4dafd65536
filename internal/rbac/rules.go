package rbac

// Default policy. The student surface is unauthenticated (students
// prove themselves by knowing the test code), so only the instructor
// role carries permissions.
var RolePermissions = map[string][]string{
	"teacher": {
		"test:create",
		"test:delete",
		"test:list",
		"test:code",
	},
	"admin": {
		"*", // everything
	},
}
