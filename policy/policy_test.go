package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meinhoongagan/permit-desk/apperr"
	"github.com/meinhoongagan/permit-desk/models"
)

func TestAuthorize(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin}
	collector := &models.User{ID: 2, Role: models.RoleCollector}
	approver := &models.User{ID: 3, Role: models.RoleApprover}

	tests := []struct {
		name   string
		caller *models.User
		op     Operation
		want   apperr.Code
	}{
		{"anonymous create user", nil, UserCreate, apperr.CodeUnauthenticated},
		{"collector create user", collector, UserCreate, apperr.CodeForbidden},
		{"admin create user", admin, UserCreate, ""},
		{"collector create appointment", collector, ApptCreate, ""},
		{"approver create appointment", approver, ApptCreate, apperr.CodeForbidden},
		{"approver approve", approver, ApptApprove, ""},
		{"collector approve", collector, ApptApprove, apperr.CodeForbidden},
		{"admin approve", admin, ApptApprove, apperr.CodeForbidden},
		{"approver uploads pdf", approver, ApptPdfPut, ""},
		{"collector reads pdf", collector, ApptPdfGet, ""},
		{"anonymous reads pdf", nil, ApptPdfGet, apperr.CodeUnauthenticated},
		{"unknown op", admin, Operation("nope"), apperr.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.caller, tt.op)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, apperr.CodeOf(err))
		})
	}
}

func TestEveryOperationHasRoles(t *testing.T) {
	for op, roles := range table {
		assert.NotEmpty(t, roles, op)
		for _, r := range roles {
			assert.True(t, r.Valid(), "%s lists %q", op, r)
		}
	}
	assert.Empty(t, Roles("missing"))
}
