package model

// User roles
const (
	RoleStaff       = "staff"
	RoleDirector    = "director"
	RoleSecretary   = "secretary"
	RoleResponsible = "responsible"
)

// Profile represents an application user
type Profile struct {
	ID           string `json:"id" gorm:"primaryKey;type:uuid"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	FullName     string `json:"full_name" gorm:"column:full_name"`
	Role         string `json:"role" gorm:"not null"`
	Department   string `json:"department"`
	PasswordHash string `json:"-" gorm:"column:password_hash"`
}

// CanSubmit reports whether the role may create orders.
func CanSubmit(role string) bool {
	return role == RoleStaff
}

// CanSign reports whether the role may sign orders.
func CanSign(role string) bool {
	switch role {
	case RoleDirector, RoleSecretary, RoleResponsible:
		return true
	}
	return false
}

// Placement is the page position a role's signature stamp is anchored at,
// in PDF coordinate units from the page origin.
type Placement struct {
	X float64
	Y float64
}

// signaturePlacements maps each approver role to its stamp anchor on page one.
var signaturePlacements = map[string]Placement{
	RoleDirector:    {X: 400, Y: 100},
	RoleSecretary:   {X: 400, Y: 200},
	RoleResponsible: {X: 400, Y: 300},
}

// fallbackPlacement is used for any role without an explicit entry.
var fallbackPlacement = Placement{X: 400, Y: 400}

// PlacementFor returns the stamp coordinates for a role.
func PlacementFor(role string) Placement {
	if p, ok := signaturePlacements[role]; ok {
		return p
	}
	return fallbackPlacement
}
