package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveStampsApprover(t *testing.T) {
	a := &Appointment{Status: StatusPending}
	now := time.Now()

	require.NoError(t, a.Approve(7, now))
	assert.Equal(t, StatusApproved, a.Status)
	require.NotNil(t, a.ApprovedBy)
	assert.Equal(t, int64(7), *a.ApprovedBy)
	assert.True(t, a.CanAttachPdf())

	err := a.Approve(8, now)
	assert.Error(t, err)
	assert.Equal(t, int64(7), *a.ApprovedBy)
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransition(StatusApproved))
	assert.True(t, StatusPending.CanTransition(StatusPending))
	assert.True(t, StatusApproved.CanTransition(StatusApproved))
	assert.False(t, StatusApproved.CanTransition(StatusPending))
	assert.False(t, AppointmentStatus("").Valid())
}

func TestBookingDetailsRoundTripThroughColumn(t *testing.T) {
	in := BookingDetails{Date: "2026-11-02"}
	v, err := in.Value()
	require.NoError(t, err)

	var out BookingDetails
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)

	require.NoError(t, out.Scan([]byte(`{"date":"2026-12-01"}`)))
	assert.Equal(t, "2026-12-01", out.Date)
	assert.Error(t, out.Scan(42))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleCollector.Valid())
	assert.True(t, RoleApprover.Valid())
	assert.False(t, Role("root").Valid())
}
