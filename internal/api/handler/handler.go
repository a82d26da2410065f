package handler

import "github.com/TRHS-OMNIA/crew-backend/internal/service"

// Handler aggregates all HTTP handlers.
type Handler struct {
	Auth       *AuthHandler
	Event      *EventHandler
	Enrollment *EnrollmentHandler
	QR         *QRHandler
	User       *UserHandler
	Export     *ExportHandler
}

// NewHandler creates the Handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Event:      NewEventHandler(svc.Event),
		Enrollment: NewEnrollmentHandler(svc.Enrollment),
		QR:         NewQRHandler(svc.QR),
		User:       NewUserHandler(svc.User),
		Export:     NewExportHandler(svc.Export),
	}
}
