package models

// Role is the fixed set of roles a user can hold.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCollector Role = "collector"
	RoleApprover  Role = "approver"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCollector, RoleApprover:
		return true
	}
	return false
}
