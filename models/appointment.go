package models

import (
	"fmt"
	"time"
)

type AppointmentStatus string

const (
	StatusPending  AppointmentStatus = "pending"
	StatusApproved AppointmentStatus = "approved"
)

func (s AppointmentStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved
}

type Appointment struct {
	ID             int64             `json:"id" gorm:"primaryKey"`
	ClientID       int64             `json:"clientId" gorm:"index;not null"`
	TeamID         int64             `json:"teamId" gorm:"index;not null"`
	Status         AppointmentStatus `json:"status" gorm:"type:varchar(16);index;not null"`
	CollectedBy    int64             `json:"collectedBy" gorm:"index;not null"`
	ApprovedBy     *int64            `json:"approvedBy"`
	ApprovedAt     *time.Time        `json:"approvedAt"`
	PdfURL         *string           `json:"pdfUrl"`
	BookingDetails BookingDetails    `json:"bookingDetails" gorm:"type:text"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// CanTransition reports whether status may move from s to next.
// The only edge is pending -> approved; staying put is always allowed.
func (s AppointmentStatus) CanTransition(next AppointmentStatus) bool {
	if s == next {
		return true
	}
	return s == StatusPending && next == StatusApproved
}

// Approve moves a pending appointment to approved and stamps the approver.
func (a *Appointment) Approve(approverID int64, at time.Time) error {
	if a.Status != StatusPending {
		return fmt.Errorf("invalid transition from %s to %s", a.Status, StatusApproved)
	}
	a.Status = StatusApproved
	a.ApprovedBy = &approverID
	a.ApprovedAt = &at
	return nil
}

func (a *Appointment) IsApproved() bool {
	return a.Status == StatusApproved
}

// CanAttachPdf reports whether a signed document may be stored for a.
// Documents are only accepted once the appointment is approved.
func (a *Appointment) CanAttachPdf() bool {
	return a.IsApproved()
}
