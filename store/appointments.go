package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/meinhoongagan/permit-desk/apperr"
	"github.com/meinhoongagan/permit-desk/models"
	"github.com/meinhoongagan/permit-desk/utils"
)

// NewAppointment is the input to CreateAppointment. Status is not part of
// it: every appointment starts pending.
type NewAppointment struct {
	ClientID       int64                 `json:"clientId" validate:"required,gt=0"`
	TeamID         int64                 `json:"teamId" validate:"required,gt=0"`
	CollectedBy    int64                 `json:"collectedBy" validate:"required,gt=0"`
	BookingDetails models.BookingDetails `json:"bookingDetails"`
}

// AppointmentPatch lists the only fields that may change after creation.
// Nil fields are left untouched.
type AppointmentPatch struct {
	Status     *models.AppointmentStatus
	ApprovedBy *int64
	PdfURL     *string
}

// AppointmentFilter narrows GetAppointments. Zero values mean "any".
type AppointmentFilter struct {
	TeamID int64
	Status models.AppointmentStatus
	// Participant matches appointments the user collected or approved.
	Participant int64
}

func (s *Storage) CreateAppointment(ctx context.Context, in NewAppointment) (*models.Appointment, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}

	appt := &models.Appointment{
		ClientID:       in.ClientID,
		TeamID:         in.TeamID,
		Status:         models.StatusPending,
		CollectedBy:    in.CollectedBy,
		BookingDetails: in.BookingDetails,
	}

	err := s.withTx(ctx, func(tx *gorm.DB) error {
		client, err := findByID[models.Client](tx, in.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return apperr.NotFound("client not found")
		}
		team, err := findByID[models.Team](tx, in.TeamID)
		if err != nil {
			return err
		}
		if team == nil {
			return apperr.NotFound("team not found")
		}
		if err := tx.Create(appt).Error; err != nil {
			return apperr.Internal(err, "creating appointment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *Storage) GetAppointment(ctx context.Context, id int64) (*models.Appointment, error) {
	return findByID[models.Appointment](s.db.WithContext(ctx), id)
}

// GetAppointments lists appointments matching f, newest first.
func (s *Storage) GetAppointments(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	q := s.db.WithContext(ctx).Model(&models.Appointment{})
	if f.TeamID > 0 {
		q = q.Where("team_id = ?", f.TeamID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Participant > 0 {
		q = q.Where("(collected_by = ? OR approved_by = ?)", f.Participant, f.Participant)
	}

	appointments := []models.Appointment{}
	if err := q.Order("created_at desc, id desc").Find(&appointments).Error; err != nil {
		return nil, apperr.Internal(err, "listing appointments")
	}
	return appointments, nil
}

// CountPendingByTeam returns the number of pending appointments per team id.
func (s *Storage) CountPendingByTeam(ctx context.Context) (map[int64]int64, error) {
	var rows []struct {
		TeamID int64
		Count  int64
	}
	err := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Select("team_id, count(*) as count").
		Where("status = ?", models.StatusPending).
		Group("team_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err, "counting pending appointments")
	}
	counts := make(map[int64]int64, len(rows))
	for _, r := range rows {
		counts[r.TeamID] = r.Count
	}
	return counts, nil
}

// UpdateAppointment merges patch into the stored row. The write is
// conditional on the status read inside the transaction, so two racing
// approvals cannot both succeed.
func (s *Storage) UpdateAppointment(ctx context.Context, id int64, patch AppointmentPatch) (*models.Appointment, error) {
	var updated *models.Appointment
	err := s.withTx(ctx, func(tx *gorm.DB) error {
		current, err := findByID[models.Appointment](tx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return apperr.NotFound("appointment not found")
		}

		now := s.now()
		next, err := applyPatch(*current, patch, now)
		if err != nil {
			return err
		}

		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", id, current.Status).
			Updates(map[string]any{
				"status":      next.Status,
				"approved_by": nullable(next.ApprovedBy),
				"approved_at": nullable(next.ApprovedAt),
				"pdf_url":     nullable(next.PdfURL),
				"updated_at":  now,
			})
		if res.Error != nil {
			return apperr.Internal(res.Error, "updating appointment")
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("appointment was modified concurrently")
		}
		next.UpdatedAt = now
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// applyPatch enforces the appointment invariants: status only moves
// pending -> approved, approvedBy is set exactly when that happens and never
// changes afterwards, and a document can only be attached once approved.
func applyPatch(cur models.Appointment, p AppointmentPatch, now time.Time) (models.Appointment, error) {
	next := cur

	if p.Status != nil {
		if !p.Status.Valid() {
			return cur, apperr.InvalidInput("unknown appointment status")
		}
		if !cur.Status.CanTransition(*p.Status) {
			return cur, apperr.InvalidInput("an approved appointment cannot return to " + string(*p.Status))
		}
		if *p.Status == models.StatusApproved && cur.IsApproved() {
			return cur, apperr.Conflict("appointment is already approved")
		}
	}

	approving := p.Status != nil && *p.Status == models.StatusApproved && cur.Status == models.StatusPending
	switch {
	case approving:
		if p.ApprovedBy == nil || *p.ApprovedBy <= 0 {
			return cur, apperr.InvalidInput("approvedBy is required when approving")
		}
		if err := next.Approve(*p.ApprovedBy, now); err != nil {
			return cur, apperr.InvalidInput(err.Error())
		}
	case p.ApprovedBy != nil:
		if !cur.IsApproved() {
			return cur, apperr.InvalidInput("approvedBy can only be set when approving")
		}
		if cur.ApprovedBy == nil || *cur.ApprovedBy != *p.ApprovedBy {
			return cur, apperr.InvalidInput("approvedBy cannot be changed")
		}
	}

	if p.PdfURL != nil {
		if !next.CanAttachPdf() {
			return cur, apperr.Conflict("appointment must be approved before a document is attached")
		}
		url := *p.PdfURL
		next.PdfURL = &url
	}
	return next, nil
}
