package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/TRHS-OMNIA/crew-backend/internal/service"
	"github.com/TRHS-OMNIA/crew-backend/pkg/response"
)

// QRHandler serves the QR check-in module.
type QRHandler struct {
	qrSvc service.QRService
}

// NewQRHandler creates a QRHandler.
func NewQRHandler(qrSvc service.QRService) *QRHandler {
	return &QRHandler{qrSvc: qrSvc}
}

// Issue generates a fresh check-in/out code for the signed-in user.
// GET /api/v1/event/:id/qr
func (h *QRHandler) Issue(c *gin.Context) {
	user, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.qrSvc.Issue(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// Scan burns a code and returns the enrollment behind it to the scanning
// admin.
// POST /api/v1/qr/:qrid/scan
func (h *QRHandler) Scan(c *gin.Context) {
	result, err := h.qrSvc.Consume(c.Request.Context(), c.Param("qrid"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// Status reports scan status for the issuing user's own code; the member's
// device polls this to dismiss the displayed code once it is scanned.
// GET /api/v1/qr/:qrid/status
func (h *QRHandler) Status(c *gin.Context) {
	user, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.qrSvc.Peek(c.Request.Context(), c.Param("qrid"), user.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}
