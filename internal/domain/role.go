package domain

// Role identifies the access level assigned to a user account.
type Role int16

const (
	RoleAdmin        Role = 1
	RolePatient      Role = 2
	RoleDoctor       Role = 3
	RoleNurse        Role = 4
	RoleReceptionist Role = 5
)

// DefaultFederatedRole is assigned to accounts provisioned through an
// external identity provider.
const DefaultFederatedRole = RolePatient

// Valid reports whether the role is a known role id. The database enforces
// this too; checking here avoids a round trip for obviously bad input.
func (r Role) Valid() bool {
	return r >= RoleAdmin && r <= RoleReceptionist
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RolePatient:
		return "patient"
	case RoleDoctor:
		return "doctor"
	case RoleNurse:
		return "nurse"
	case RoleReceptionist:
		return "receptionist"
	default:
		return "unknown"
	}
}
