package types

const ContextUserKey = "user"
const ContextRoleKey = "membership_role"

// Membership statuses, highest clearance first.
const (
	StatusOwner = "OWNER"
	StatusAdmin = "ADMIN"
	StatusStaff = "STAFF"
)

func ValidStatus(status string) bool {
	return status == StatusOwner || status == StatusAdmin || status == StatusStaff
}

// IsAdmin reports whether a membership status carries admin clearance.
func IsAdmin(status string) bool {
	return status == StatusOwner || status == StatusAdmin
}

// Switch types.
const (
	SwitchGiveaway = "GIVEAWAY"
	SwitchSwap     = "SWAP"
)

func ValidSwitchType(t string) bool {
	return t == SwitchGiveaway || t == SwitchSwap
}
