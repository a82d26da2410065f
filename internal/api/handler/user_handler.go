package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/TRHS-OMNIA/crew-backend/internal/service"
	"github.com/TRHS-OMNIA/crew-backend/pkg/response"
)

// UserHandler serves the admin roster module.
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// List returns the full roster.
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	result, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// Import bulk-creates users from an uploaded .xlsx or .csv roster.
// POST /api/v1/users/import  (multipart form, field "file")
func (h *UserHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Attach the roster as a form file named \"file\".")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "The uploaded file could not be read.")
		return
	}
	defer f.Close()

	result, err := h.userSvc.Import(c.Request.Context(), f, fileHeader.Filename)
	if err != nil {
		// Import failures are almost always malformed uploads; the reason
		// is safe to show the admin.
		response.BadRequest(c, err.Error())
		return
	}

	response.OK(c, result)
}
