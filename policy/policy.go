// Package policy holds the table of which roles may run which operation.
package policy

import (
	"github.com/meinhoongagan/permit-desk/apperr"
	"github.com/meinhoongagan/permit-desk/models"
)

type Operation string

const (
	UserCreate    Operation = "user.create"
	UserList      Operation = "user.list"
	UserGet       Operation = "user.get"
	UserPassword  Operation = "user.password"
	UserTeam      Operation = "user.team"
	TeamCreate    Operation = "team.create"
	TeamList      Operation = "team.list"
	TeamGet       Operation = "team.get"
	TeamMembers   Operation = "team.members"
	TeamAddMember Operation = "team.addMember"
	TeamRemove    Operation = "team.removeMember"
	ClientCreate  Operation = "client.create"
	ClientList    Operation = "client.list"
	ClientGet     Operation = "client.get"
	ApptCreate    Operation = "appointment.create"
	ApptList      Operation = "appointment.list"
	ApptGet       Operation = "appointment.get"
	ApptApprove   Operation = "appointment.approve"
	ApptPdfPut    Operation = "appointment.pdf.put"
	ApptPdfGet    Operation = "appointment.pdf.get"
	SelfGet       Operation = "self.get"
	SelfPassword  Operation = "self.password"
)

var (
	adminOnly     = []models.Role{models.RoleAdmin}
	collectorOnly = []models.Role{models.RoleCollector}
	approverOnly  = []models.Role{models.RoleApprover}
	everyone      = []models.Role{models.RoleAdmin, models.RoleCollector, models.RoleApprover}
)

var table = map[Operation][]models.Role{
	UserCreate:    adminOnly,
	UserList:      adminOnly,
	UserGet:       adminOnly,
	UserPassword:  adminOnly,
	UserTeam:      adminOnly,
	TeamCreate:    adminOnly,
	TeamList:      adminOnly,
	TeamGet:       adminOnly,
	TeamMembers:   adminOnly,
	TeamAddMember: adminOnly,
	TeamRemove:    adminOnly,
	ClientCreate:  collectorOnly,
	ClientList:    everyone,
	ClientGet:     everyone,
	ApptCreate:    collectorOnly,
	ApptList:      everyone,
	ApptGet:       everyone,
	ApptApprove:   approverOnly,
	ApptPdfPut:    approverOnly,
	ApptPdfGet:    everyone,
	SelfGet:       everyone,
	SelfPassword:  everyone,
}

// Roles returns the roles allowed to run op. Unknown operations allow nobody.
func Roles(op Operation) []models.Role {
	return table[op]
}

// Authorize fails with Unauthenticated when there is no caller and with
// Forbidden when the caller's role is not listed for op.
func Authorize(caller *models.User, op Operation) error {
	if caller == nil {
		return apperr.Unauthenticated("authentication required")
	}
	for _, role := range table[op] {
		if caller.Role == role {
			return nil
		}
	}
	return apperr.Forbidden("you don't have permission to perform this action")
}
