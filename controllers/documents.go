package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/permit-desk/apperr"
	"github.com/meinhoongagan/permit-desk/blob"
	"github.com/meinhoongagan/permit-desk/middleware"
	"github.com/meinhoongagan/permit-desk/store"
)

const pdfField = "pdf"

var pdfMagic = []byte("%PDF-")

func pdfPath(appointmentID int64) string {
	return fmt.Sprintf("/api/appointments/%d/pdf", appointmentID)
}

// UploadPdf godoc
// @Summary Attach the signed permit PDF to an approved appointment
// @Tags appointments
// @Accept multipart/form-data
// @Produce json
// @Param pdf formData file true "PDF document"
// @Success 200 {object} models.Appointment
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/appointments/{id}/pdf [post]
func (h *Handler) UploadPdf(c *fiber.Ctx) error {
	appt, err := h.loadAppointment(c)
	if err != nil {
		return err
	}
	if !appt.CanAttachPdf() {
		return apperr.Conflict("appointment must be approved before a document is attached")
	}

	data, err := h.readPdf(c)
	if err != nil {
		return err
	}

	// The row is authoritative: bytes written here stay unreachable until
	// pdfUrl is recorded, and a retried upload overwrites them.
	ctx := c.UserContext()
	if err := h.blobs.Put(ctx, appt.ID, data); err != nil {
		return apperr.Internal(err, "storing pdf")
	}
	url := pdfPath(appt.ID)
	updated, err := h.store.UpdateAppointment(ctx, appt.ID, store.AppointmentPatch{PdfURL: &url})
	if err != nil {
		return err
	}

	h.log.Info().Int64("appointment_id", appt.ID).Int("bytes", len(data)).
		Int64("by", middleware.Caller(c).ID).Msg("pdf uploaded")
	return c.JSON(updated)
}

// DownloadPdf streams the stored bytes back unchanged. Only appointments
// whose upload completed have a document.
func (h *Handler) DownloadPdf(c *fiber.Ctx) error {
	appt, err := h.loadAppointment(c)
	if err != nil {
		return err
	}
	if appt.PdfURL == nil {
		return apperr.NotFound("pdf not found")
	}

	data, err := h.blobs.Get(c.UserContext(), appt.ID)
	if errors.Is(err, blob.ErrNotFound) {
		return apperr.NotFound("pdf not found")
	}
	if err != nil {
		return apperr.Internal(err, "loading pdf")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="appointment-%d.pdf"`, appt.ID))
	return c.Send(data)
}

func (h *Handler) readPdf(c *fiber.Ctx) ([]byte, error) {
	fh, err := c.FormFile(pdfField)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidInput, err, "multipart field \"pdf\" is required")
	}
	if fh.Size > h.maxPdfBytes {
		return nil, apperr.InvalidInput(fmt.Sprintf("pdf exceeds %d bytes", h.maxPdfBytes))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperr.Internal(err, "opening upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxPdfBytes+1))
	if err != nil {
		return nil, apperr.Internal(err, "reading upload")
	}
	if int64(len(data)) > h.maxPdfBytes {
		return nil, apperr.InvalidInput(fmt.Sprintf("pdf exceeds %d bytes", h.maxPdfBytes))
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, apperr.InvalidInput("file is not a PDF")
	}
	return data, nil
}
