package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meinhoongagan/permit-desk/apperr"
	"github.com/meinhoongagan/permit-desk/auth"
	"github.com/meinhoongagan/permit-desk/models"
	"github.com/meinhoongagan/permit-desk/store"
	"github.com/meinhoongagan/permit-desk/store/storetest"
)

type fixture struct {
	st        *store.Storage
	admin     *models.User
	team      *models.Team
	collector *models.User
	approver  *models.User
	client    *models.Client
}

func ptr[T any](v T) *T { return &v }

func validClient(createdBy int64) store.NewClient {
	return store.NewClient{
		PassportNumber: "P1234567",
		FullName:       "Sara Ahmed",
		PhoneNumber:    "+251911000000",
		Email:          "sara@example.com",
		NationalID:     "ET-99",
		PassportImage:  "data:image/png;base64,iVBORw0KGgo=",
		WorkType:       "housemaid",
		Workplace:      models.WorkplaceQatar,
		Gender:         models.GenderFemale,
		CreatedBy:      createdBy,
	}
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := storetest.New(t)

	admin, err := st.CreateUser(ctx, store.NewUser{Username: "root", Password: "rootpw", Role: models.RoleAdmin})
	require.NoError(t, err)
	team, err := st.CreateTeam(ctx, store.NewTeam{Name: "Ops", CreatedBy: admin.ID})
	require.NoError(t, err)
	collector, err := st.CreateUser(ctx, store.NewUser{
		Username: "alice", Password: "p1", Role: models.RoleCollector, TeamID: &team.ID, CreatedBy: &admin.ID,
	})
	require.NoError(t, err)
	approver, err := st.CreateUser(ctx, store.NewUser{
		Username: "bob", Password: "p2", Role: models.RoleApprover, TeamID: &team.ID, CreatedBy: &admin.ID,
	})
	require.NoError(t, err)
	client, err := st.CreateClient(ctx, validClient(collector.ID))
	require.NoError(t, err)

	return &fixture{st: st, admin: admin, team: team, collector: collector, approver: approver, client: client}
}

func (f *fixture) newAppointment(t *testing.T) *models.Appointment {
	t.Helper()
	appt, err := f.st.CreateAppointment(context.Background(), store.NewAppointment{
		ClientID:       f.client.ID,
		TeamID:         f.team.ID,
		CollectedBy:    f.collector.ID,
		BookingDetails: models.BookingDetails{Date: "2026-11-02"},
	})
	require.NoError(t, err)
	return appt
}

func TestCreateUserHashesPassword(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	stored, err := f.st.GetUser(ctx, f.collector.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "p1", stored.Password)
	assert.Equal(t, f.team.ID, *stored.TeamID)
	assert.Equal(t, f.admin.ID, *stored.CreatedBy)

	gate := auth.NewGate(f.st)
	got, err := gate.VerifyCredentials(ctx, "alice", "p1")
	require.NoError(t, err)
	assert.Equal(t, f.collector.ID, got.ID)

	_, err = gate.VerifyCredentials(ctx, "alice", "p2")
	assert.Equal(t, apperr.CodeUnauthenticated, apperr.CodeOf(err))
}

func TestCreateUserRejectsDuplicatesAndBadInput(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.st.CreateUser(ctx, store.NewUser{Username: "alice", Password: "x", Role: models.RoleApprover})
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))

	tests := []struct {
		name string
		in   store.NewUser
		want apperr.Code
	}{
		{"bad role", store.NewUser{Username: "carol", Password: "x", Role: "root"}, apperr.CodeInvalidInput},
		{"no password", store.NewUser{Username: "carol", Role: models.RoleCollector}, apperr.CodeInvalidInput},
		{"blank username", store.NewUser{Username: "   ", Password: "x", Role: models.RoleCollector}, apperr.CodeInvalidInput},
		{"admin in team", store.NewUser{Username: "carol", Password: "x", Role: models.RoleAdmin, TeamID: &f.team.ID}, apperr.CodeInvalidInput},
		{"unknown team", store.NewUser{Username: "carol", Password: "x", Role: models.RoleCollector, TeamID: ptr(int64(999))}, apperr.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.st.CreateUser(ctx, tt.in)
			assert.Equal(t, tt.want, apperr.CodeOf(err))
		})
	}
}

func TestGetByNonPositiveIDIsAbsent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, id := range []int64{0, -1, -9999, 424242} {
		u, err := f.st.GetUser(ctx, id)
		assert.NoError(t, err)
		assert.Nil(t, u)

		team, err := f.st.GetTeam(ctx, id)
		assert.NoError(t, err)
		assert.Nil(t, team)

		c, err := f.st.GetClient(ctx, id)
		assert.NoError(t, err)
		assert.Nil(t, c)

		a, err := f.st.GetAppointment(ctx, id)
		assert.NoError(t, err)
		assert.Nil(t, a)
	}

	u, err := f.st.GetUserByUsername(ctx, "nobody")
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestTeamMembership(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	other, err := f.st.CreateTeam(ctx, store.NewTeam{Name: "Field", Description: "north", CreatedBy: f.admin.ID})
	require.NoError(t, err)

	moved, err := f.st.AddTeamMember(ctx, other.ID, f.collector.ID, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, *moved.TeamID)

	opsUsers, err := f.st.GetUsersByTeam(ctx, f.team.ID)
	require.NoError(t, err)
	require.Len(t, opsUsers, 1)
	assert.Equal(t, "bob", opsUsers[0].Username)

	_, err = f.st.RemoveTeamMember(ctx, f.team.ID, f.collector.ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	removed, err := f.st.RemoveTeamMember(ctx, other.ID, f.collector.ID)
	require.NoError(t, err)
	assert.Nil(t, removed.TeamID)

	stored, err := f.st.GetUser(ctx, f.collector.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.TeamID)

	history, err := f.st.GetTeamMembers(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, history, 1, "history survives removal")
	assert.Equal(t, f.collector.ID, history[0].UserID)
	assert.Equal(t, f.admin.ID, history[0].AddedBy)

	opsHistory, err := f.st.GetTeamMembers(ctx, f.team.ID)
	require.NoError(t, err)
	assert.Len(t, opsHistory, 2)

	_, err = f.st.AddTeamMember(ctx, other.ID, f.admin.ID, f.admin.ID)
	assert.Equal(t, apperr.CodeInvalidInput, apperr.CodeOf(err))
	_, err = f.st.AddTeamMember(ctx, 999, f.collector.ID, f.admin.ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	_, err = f.st.UpdateUserTeam(ctx, 999, nil, f.admin.ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestUpdateUserPassword(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.st.UpdateUserPassword(ctx, f.collector.ID, "new-secret")
	require.NoError(t, err)

	gate := auth.NewGate(f.st)
	_, err = gate.VerifyCredentials(ctx, "alice", "p1")
	assert.Error(t, err)
	_, err = gate.VerifyCredentials(ctx, "alice", "new-secret")
	assert.NoError(t, err)

	_, err = f.st.UpdateUserPassword(ctx, 999, "x")
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	_, err = f.st.UpdateUserPassword(ctx, f.collector.ID, "")
	assert.Equal(t, apperr.CodeInvalidInput, apperr.CodeOf(err))
}

func TestCreateTeamRequiresName(t *testing.T) {
	f := setup(t)
	_, err := f.st.CreateTeam(context.Background(), store.NewTeam{Name: "  ", CreatedBy: f.admin.ID})
	assert.Equal(t, apperr.CodeInvalidInput, apperr.CodeOf(err))

	teams, err := f.st.GetTeams(context.Background())
	require.NoError(t, err)
	assert.Len(t, teams, 1)
}

func TestCreateClientValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	in := validClient(f.collector.ID)
	in.Workplace = "germany"
	in.Email = "not-an-email"
	in.FullName = ""
	_, err := f.st.CreateClient(ctx, in)
	require.Equal(t, apperr.CodeInvalidInput, apperr.CodeOf(err))

	details, ok := apperr.As(err).Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "workplace")
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "fullName")

	clients, err := f.st.GetClients(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}

func TestCreateAppointmentStartsPending(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	appt := f.newAppointment(t)
	assert.Equal(t, models.StatusPending, appt.Status)
	assert.Nil(t, appt.ApprovedBy)
	assert.Nil(t, appt.PdfURL)

	stored, err := f.st.GetAppointment(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-11-02", stored.BookingDetails.Date)
	assert.Equal(t, f.collector.ID, stored.CollectedBy)

	_, err = f.st.CreateAppointment(ctx, store.NewAppointment{
		ClientID: 999, TeamID: f.team.ID, CollectedBy: f.collector.ID,
		BookingDetails: models.BookingDetails{Date: "2026-11-02"},
	})
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	_, err = f.st.CreateAppointment(ctx, store.NewAppointment{
		ClientID: f.client.ID, TeamID: f.team.ID, CollectedBy: f.collector.ID,
		BookingDetails: models.BookingDetails{Date: "next tuesday"},
	})
	assert.Equal(t, apperr.CodeInvalidInput, apperr.CodeOf(err))
}

func TestUpdateAppointmentStatusIsMonotonic(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	appt := f.newAppointment(t)

	_, err := f.st.UpdateAppointment(ctx, appt.ID, store.AppointmentPatch{Status: ptr(models.StatusApproved)})
	assert.Equal(t, apperr.CodeInvalidInput, apperr.CodeOf(err), "approval needs an approver")

	approved, err := f.st.UpdateAppointment(ctx, appt.ID, store.AppointmentPatch{
		Status: ptr(models.StatusApproved), ApprovedBy: &f.approver.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)
	assert.Equal(t, f.approver.ID, *approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)

	_, err = f.st.UpdateAppointment(ctx, appt.ID, store.AppointmentPatch{Status: ptr(models.StatusPending)})
	assert.Equal(t, apperr.CodeInvalidInput, apperr.CodeOf(err))
	_, err = f.st.UpdateAppointment(ctx, appt.ID, store.AppointmentPatch{ApprovedBy: &f.collector.ID})
	assert.Equal(t, apperr.CodeInvalidInput, apperr.CodeOf(err))

	stored, err := f.st.GetAppointment(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored.Status)
	assert.Equal(t, f.approver.ID, *stored.ApprovedBy)

	_, err = f.st.UpdateAppointment(ctx, 999, store.AppointmentPatch{})
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestUpdateAppointmentApproveTwiceConflicts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	appt := f.newAppointment(t)

	_, err := f.st.UpdateAppointment(ctx, appt.ID, store.AppointmentPatch{
		Status: ptr(models.StatusApproved), ApprovedBy: &f.approver.ID,
	})
	require.NoError(t, err)

	_, err = f.st.UpdateAppointment(ctx, appt.ID, store.AppointmentPatch{
		Status: ptr(models.StatusApproved), ApprovedBy: &f.approver.ID,
	})
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))

	_, err = f.st.UpdateAppointment(ctx, appt.ID, store.AppointmentPatch{
		Status: ptr(models.StatusApproved), ApprovedBy: &f.admin.ID,
	})
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))

	stored, err := f.st.GetAppointment(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, f.approver.ID, *stored.ApprovedBy)
}

func TestUpdateAppointmentConcurrentApprovals(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	appt := f.newAppointment(t)

	approvers := []int64{f.approver.ID, f.admin.ID, f.approver.ID, f.admin.ID}
	errs := make([]error, len(approvers))
	var wg sync.WaitGroup
	for i, by := range approvers {
		wg.Add(1)
		go func(i int, by int64) {
			defer wg.Done()
			_, errs[i] = f.st.UpdateAppointment(ctx, appt.ID, store.AppointmentPatch{
				Status: ptr(models.StatusApproved), ApprovedBy: &by,
			})
		}(i, by)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
	}
	assert.Equal(t, 1, succeeded)
}

func TestUpdateAppointmentPdfNeedsApproval(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	appt := f.newAppointment(t)
	url := "/api/appointments/1/pdf"

	_, err := f.st.UpdateAppointment(ctx, appt.ID, store.AppointmentPatch{PdfURL: &url})
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))

	_, err = f.st.UpdateAppointment(ctx, appt.ID, store.AppointmentPatch{
		Status: ptr(models.StatusApproved), ApprovedBy: &f.approver.ID,
	})
	require.NoError(t, err)

	withPdf, err := f.st.UpdateAppointment(ctx, appt.ID, store.AppointmentPatch{PdfURL: &url})
	require.NoError(t, err)
	assert.Equal(t, url, *withPdf.PdfURL)
	assert.Equal(t, models.StatusApproved, withPdf.Status)
	assert.Equal(t, f.approver.ID, *withPdf.ApprovedBy)
}

func TestGetAppointmentsFilters(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	first := f.newAppointment(t)
	f.newAppointment(t)

	_, err := f.st.UpdateAppointment(ctx, first.ID, store.AppointmentPatch{
		Status: ptr(models.StatusApproved), ApprovedBy: &f.approver.ID,
	})
	require.NoError(t, err)

	all, err := f.st.GetAppointments(ctx, store.AppointmentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := f.st.GetAppointments(ctx, store.AppointmentFilter{Status: models.StatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	byTeam, err := f.st.GetAppointments(ctx, store.AppointmentFilter{TeamID: f.team.ID, Status: models.StatusApproved})
	require.NoError(t, err)
	require.Len(t, byTeam, 1)
	assert.Equal(t, first.ID, byTeam[0].ID)

	approvedByBob, err := f.st.GetAppointments(ctx, store.AppointmentFilter{Participant: f.approver.ID})
	require.NoError(t, err)
	assert.Len(t, approvedByBob, 1)

	collectedByAlice, err := f.st.GetAppointments(ctx, store.AppointmentFilter{Participant: f.collector.ID})
	require.NoError(t, err)
	assert.Len(t, collectedByAlice, 2)

	none, err := f.st.GetAppointments(ctx, store.AppointmentFilter{TeamID: 999})
	require.NoError(t, err)
	assert.Empty(t, none)

	counts, err := f.st.CountPendingByTeam(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{f.team.ID: 1}, counts)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)

	created, err := st.EnsureAdmin(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = st.EnsureAdmin(ctx, "boot", "first-run-secret")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = st.EnsureAdmin(ctx, "boot2", "another")
	require.NoError(t, err)
	assert.False(t, created)

	count, err := st.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.NoError(t, st.Ping(ctx))
}
