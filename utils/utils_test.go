package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meinhoongagan/permit-desk/apperr"
	"github.com/meinhoongagan/permit-desk/models"
)

func TestParseID(t *testing.T) {
	id, err := ParseID("17", "id")
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)

	for _, raw := range []string{"0", "-3", "abc", "", "1.5", "99999999999999999999"} {
		_, err := ParseID(raw, "id")
		assert.Equal(t, apperr.CodeInvalidInput, apperr.CodeOf(err), raw)
	}
}

func TestNewErrorResponse(t *testing.T) {
	status, body := NewErrorResponse(apperr.Forbidden("approver role required"))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
	assert.Equal(t, "approver role required", body.Error.Message)

	status, body = NewErrorResponse(apperr.Internal(errors.New("pq: password=hunter2"), "loading user"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", body.Error.Message)

	status, body = NewErrorResponse(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)

	status, body = NewErrorResponse(fiber.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)

	status, _ = NewErrorResponse(fiber.ErrRequestEntityTooLarge)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestValidateReportsFieldsByJSONName(t *testing.T) {
	type input struct {
		Name    string                `json:"name" validate:"required"`
		Booking models.BookingDetails `json:"bookingDetails"`
	}
	err := Validate(input{Booking: models.BookingDetails{Date: "02/11/2026"}})
	require.Error(t, err)

	status, body := NewErrorResponse(err)
	assert.Equal(t, http.StatusBadRequest, status)
	details, ok := body.Error.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["name"])
	assert.Contains(t, details, "bookingDetails.date")

	assert.NoError(t, Validate(input{Name: "x", Booking: models.BookingDetails{Date: "2026-11-02"}}))
}
