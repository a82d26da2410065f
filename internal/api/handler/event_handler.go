package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/TRHS-OMNIA/crew-backend/internal/dto"
	"github.com/TRHS-OMNIA/crew-backend/internal/service"
	"github.com/TRHS-OMNIA/crew-backend/pkg/response"
)

// EventHandler serves the event module.
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// Create creates an event.
// POST /api/v1/events
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Event title, date, start time and end time are required.")
		return
	}

	result, err := h.eventSvc.Create(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, result)
}

// Get returns the public event page payload. Signed-in viewers additionally
// get their personal join decision.
// GET /api/v1/event/:id
func (h *EventHandler) Get(c *gin.Context) {
	var viewer *service.Identity
	if id, ok := OptionalIdentity(c); ok {
		viewer = &id
	}

	result, err := h.eventSvc.Get(c.Request.Context(), c.Param("id"), viewer)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// List returns upcoming events.
// GET /api/v1/events
func (h *EventHandler) List(c *gin.Context) {
	result, err := h.eventSvc.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// Update edits an event.
// PUT /api/v1/event/:id
func (h *EventHandler) Update(c *gin.Context) {
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Event title, date, start time and end time are required.")
		return
	}

	if err := h.eventSvc.Update(c.Request.Context(), c.Param("id"), &req); err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, nil)
}

// Delete removes an event and its enrollments.
// DELETE /api/v1/event/:id
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.eventSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, nil)
}

// Dashboard returns the admin roster view of an event.
// GET /api/v1/event/:id/dashboard
func (h *EventHandler) Dashboard(c *gin.Context) {
	result, err := h.eventSvc.Dashboard(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}
