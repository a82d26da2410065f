package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/TRHS-OMNIA/crew-backend/internal/dto"
	"github.com/TRHS-OMNIA/crew-backend/internal/service"
	"github.com/TRHS-OMNIA/crew-backend/pkg/response"
)

// EnrollmentHandler serves the enrollment module.
type EnrollmentHandler struct {
	enrollSvc service.EnrollmentService
}

// NewEnrollmentHandler creates an EnrollmentHandler.
func NewEnrollmentHandler(enrollSvc service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollSvc: enrollSvc}
}

// Join enrolls the signed-in user in an event.
// POST /api/v1/join
func (h *EnrollmentHandler) Join(c *gin.Context) {
	user, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "An event id is required.")
		return
	}

	if err := h.enrollSvc.Join(c.Request.Context(), req.EventID, user, false); err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, nil)
}

// AdminJoin enrolls an arbitrary user, bypassing capacity rules.
// POST /api/v1/event/:id/entry/:uid
func (h *EnrollmentHandler) AdminJoin(c *gin.Context) {
	if err := h.enrollSvc.AdminJoin(c.Request.Context(), c.Param("id"), c.Param("uid")); err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, nil)
}

// Remove deletes an enrollment.
// DELETE /api/v1/event/:id/entry/:uid
func (h *EnrollmentHandler) Remove(c *gin.Context) {
	if err := h.enrollSvc.Remove(c.Request.Context(), c.Param("id"), c.Param("uid")); err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, nil)
}

// CheckIn stamps an entry's check-in with the current time.
// POST /api/v1/event/:id/entry/:uid/checkin
func (h *EnrollmentHandler) CheckIn(c *gin.Context) {
	if err := h.enrollSvc.CheckIn(c.Request.Context(), c.Param("id"), c.Param("uid")); err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, nil)
}

// CheckOut stamps an entry's check-out with the current time.
// POST /api/v1/event/:id/entry/:uid/checkout
func (h *EnrollmentHandler) CheckOut(c *gin.Context) {
	if err := h.enrollSvc.CheckOut(c.Request.Context(), c.Param("id"), c.Param("uid")); err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, nil)
}

// EditEntry overwrites an entry's stamps, position and note from the
// dashboard.
// PUT /api/v1/event/:id/entry/:uid
func (h *EnrollmentHandler) EditEntry(c *gin.Context) {
	var req dto.EditEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "The entry payload is malformed.")
		return
	}

	if err := h.enrollSvc.EditEntry(c.Request.Context(), c.Param("id"), c.Param("uid"), &req); err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListUserEvents returns the signed-in user's enrollments.
// GET /api/v1/events/user
func (h *EnrollmentHandler) ListUserEvents(c *gin.Context) {
	user, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.enrollSvc.ListUserEvents(c.Request.Context(), user.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// GetUserEntry returns the signed-in user's entry for one event.
// GET /api/v1/event/:id/user
func (h *EnrollmentHandler) GetUserEntry(c *gin.Context) {
	user, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.enrollSvc.GetUserEntry(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}
