package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/TRHS-OMNIA/crew-backend/internal/repository"
	"github.com/TRHS-OMNIA/crew-backend/pkg/apperr"
)

// ExportService renders events and rosters into downloadable formats.
type ExportService interface {
	// ExportRoster builds an .xlsx attendance sheet for one event and
	// returns the workbook bytes plus a suggested filename.
	ExportRoster(ctx context.Context, eventID string) (*bytes.Buffer, string, error)
	// EventsFeed serializes all upcoming events as an iCalendar feed.
	EventsFeed(ctx context.Context) (string, error)
}

type exportService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewExportService creates an ExportService instance.
func NewExportService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, loc: loc, logger: logger}
}

var rosterHeaders = []interface{}{"Last Name", "First Name", "Grade", "Period", "Check In", "Check Out", "Position", "Note"}

func (s *exportService) ExportRoster(ctx context.Context, eventID string) (*bytes.Buffer, string, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperr.ErrInvalidEvent
		}
		return nil, "", err
	}

	entries, err := s.repo.Entry.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("load roster failed", zap.String("event_id", eventID), zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDDDDD"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", err
	}

	if err := f.SetSheetRow(sheet, "A1", &rosterHeaders); err != nil {
		return nil, "", err
	}
	if err := f.SetCellStyle(sheet, "A1", "H1", headerStyle); err != nil {
		return nil, "", err
	}

	for i := range entries {
		e := &entries[i]
		row := make([]interface{}, 8)
		if e.User != nil {
			row[0] = e.User.LastName
			row[1] = e.User.FirstName
			row[2] = e.User.Grade
			row[3] = e.User.Period
		}
		if v := formatClock(e.CheckIn, s.loc); v != nil {
			row[4] = *v
		}
		if v := formatClock(e.CheckOut, s.loc); v != nil {
			row[5] = *v
		}
		if e.Position != nil {
			row[6] = *e.Position
		}
		if e.PrivateNote != nil {
			row[7] = *e.PrivateNote
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, "", err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	name := fmt.Sprintf("%s %s roster.xlsx", event.Start.In(s.loc).Format(dateLayout), event.Title)
	return buf, name, nil
}

func (s *exportService) EventsFeed(ctx context.Context) (string, error) {
	events, err := s.repo.Event.ListFrom(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("list events failed", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//crew//events//EN")

	for i := range events {
		ev := &events[i]
		item := cal.AddEvent(ev.ID)
		item.SetSummary(ev.Title)
		item.SetStartAt(ev.Start.UTC())
		item.SetEndAt(ev.End.UTC())
		item.SetDtStampTime(time.Now().UTC())
	}

	return cal.Serialize(), nil
}
