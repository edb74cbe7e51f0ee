package models

// Role is the closed set of global roles a user can hold. Keeping it a
// dedicated type forces call sites through the methods below instead of
// scattering string comparisons.
type Role string

const (
	RolePropertyManager Role = "pm"
	RoleConcierge       Role = "concierge"
	RoleOwner           Role = "owner"
	RoleGuest           Role = "guest"
	RolePartner         Role = "partner" // third-party rental manager / agent
)

// RoleFromString maps a raw role claim to a Role. Unknown values fall back
// to guest, the least-privileged role.
func RoleFromString(s string) Role {
	switch Role(s) {
	case RolePropertyManager, RoleConcierge, RoleOwner, RoleGuest, RolePartner:
		return Role(s)
	}
	return RoleGuest
}

// SeesAllUnits reports whether the role bypasses per-unit access grants.
func (r Role) SeesAllUnits() bool {
	switch r {
	case RolePropertyManager:
		return true
	case RoleConcierge, RoleOwner, RoleGuest, RolePartner:
		return false
	}
	return false
}

// CanReview reports whether the role may approve or reject bookings.
func (r Role) CanReview() bool {
	switch r {
	case RolePropertyManager, RoleConcierge:
		return true
	case RoleOwner, RoleGuest, RolePartner:
		return false
	}
	return false
}

// SeesAllBookings reports whether the role sees every booking regardless of
// unit access.
func (r Role) SeesAllBookings() bool {
	return r.CanReview()
}

func (r Role) String() string { return string(r) }
