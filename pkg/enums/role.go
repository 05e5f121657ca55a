package enums

// Role identifies what a user is allowed to do on the platform.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSponsor  Role = "sponsor"
	RoleAdmin    Role = "admin"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleSponsor, RoleAdmin:
		return true
	}
	return false
}
