package auth

// Staff roles
const (
	RoleAdmin       = "admin"
	RoleManager     = "manager"
	RoleWaiter      = "waiter"
	RoleChef        = "chef"
	RoleStorekeeper = "storekeeper"
	RoleCashier     = "cashier"
)

// Roles lists every role a user can hold
var Roles = []string{RoleAdmin, RoleManager, RoleWaiter, RoleChef, RoleStorekeeper, RoleCashier}

// ValidRole reports whether role is one of Roles
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
