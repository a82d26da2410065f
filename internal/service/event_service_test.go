package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/TRHS-OMNIA/crew-backend/internal/dto"
	"github.com/TRHS-OMNIA/crew-backend/internal/model"
	"github.com/TRHS-OMNIA/crew-backend/pkg/apperr"
)

func newEventFixture(t *testing.T) (*memStore, *recordSync, EventService) {
	t.Helper()
	st := newMemStore()
	repo := newMemRepository(st)
	cal := newRecordSync()
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	svc := NewEventService(repo, NewEligibilityEngine([]int{1}), cal, loc, zap.NewNop())
	return st, cal, svc
}

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with localized times and normalized caps", func(t *testing.T) {
		st, cal, svc := newEventFixture(t)

		res, err := svc.Create(ctx, &dto.CreateEventRequest{
			EventTitle: "Build Night",
			Date:       "2026-06-05",
			StartTime:  "17:00",
			EndTime:    "20:00",
			Limit:      "12",
			Reserved:   "0",
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if len(res.ID) != 8 {
			t.Fatalf("expected an 8-hex id, got %q", res.ID)
		}

		ev := st.events[res.ID]
		// 17:00 PDT is 00:00 UTC the next day.
		want := time.Date(2026, 6, 6, 0, 0, 0, 0, time.UTC)
		if !ev.Start.Equal(want) {
			t.Fatalf("expected start %v, got %v", want, ev.Start)
		}
		if ev.Limit == nil || *ev.Limit != 12 {
			t.Fatalf("expected limit 12, got %v", ev.Limit)
		}
		if ev.Reserved != nil {
			t.Fatalf("expected zero reserved to normalize to unset, got %v", ev.Reserved)
		}
		if len(cal.created) != 1 || cal.created[0] != res.ID {
			t.Fatalf("expected a calendar mirror call, got %v", cal.created)
		}
	})

	t.Run("empty caps mean unlimited", func(t *testing.T) {
		st, _, svc := newEventFixture(t)
		res, err := svc.Create(ctx, &dto.CreateEventRequest{
			EventTitle: "Open House",
			Date:       "2026-06-05",
			StartTime:  "09:00",
			EndTime:    "10:00",
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ev := st.events[res.ID]
		if ev.Limit != nil || ev.Reserved != nil {
			t.Fatalf("expected unset caps, got %v %v", ev.Limit, ev.Reserved)
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		_, _, svc := newEventFixture(t)
		cases := []dto.CreateEventRequest{
			{EventTitle: "x", Date: "June 5", StartTime: "17:00", EndTime: "20:00"},
			{EventTitle: "x", Date: "2026-06-05", StartTime: "5pm", EndTime: "20:00"},
			{EventTitle: "x", Date: "2026-06-05", StartTime: "17:00", EndTime: "20:00", Limit: "many"},
		}
		for _, req := range cases {
			if _, err := svc.Create(ctx, &req); !errors.Is(err, apperr.ErrInvalidEvent) {
				t.Fatalf("expected invalid event for %+v, got %v", req, err)
			}
		}
	})
}

func TestGetEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous viewer sees limits but cannot join", func(t *testing.T) {
		st, _, svc := newEventFixture(t)
		seedEvent(st, "ev1", intPtr(10), intPtr(2))

		res, err := svc.Get(ctx, "ev1", nil)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if res.EventLimits.Max == nil || *res.EventLimits.Max != 10 {
			t.Fatalf("expected max 10, got %v", res.EventLimits.Max)
		}
		if res.UserEventLimits.UserAvailable {
			t.Fatal("expected anonymous viewer ineligible")
		}
		if res.UserEventLimits.UserJustification != "Join Event" {
			t.Fatalf("expected neutral justification, got %q", res.UserEventLimits.UserJustification)
		}
	})

	t.Run("signed-in viewer gets a decision", func(t *testing.T) {
		st, _, svc := newEventFixture(t)
		seedEvent(st, "ev1", nil, nil)
		seedUser(st, "sam", 11, 2)
		st.entries["ev1"] = map[string]model.Entry{"sam": {EventID: "ev1", UserID: "sam"}}

		res, err := svc.Get(ctx, "ev1", &Identity{ID: "sam", Period: 2})
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if res.UserEventLimits.UserAvailable {
			t.Fatal("expected enrolled viewer ineligible to rejoin")
		}
		if res.UserEventLimits.UserJustification != "Already Joined Event" {
			t.Fatalf("expected duplicate justification, got %q", res.UserEventLimits.UserJustification)
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		_, _, svc := newEventFixture(t)
		if _, err := svc.Get(ctx, "nope", nil); !errors.Is(err, apperr.ErrInvalidEvent) {
			t.Fatalf("expected invalid event, got %v", err)
		}
	})
}

func TestListEvents(t *testing.T) {
	ctx := context.Background()
	st, _, svc := newEventFixture(t)

	past := model.Event{
		ID: "old", Title: "Past",
		Start: time.Now().UTC().Add(-48 * time.Hour),
		End:   time.Now().UTC().Add(-47 * time.Hour),
	}
	upcoming := model.Event{
		ID: "new", Title: "Upcoming",
		Start: time.Now().UTC().Add(24 * time.Hour),
		End:   time.Now().UTC().Add(26 * time.Hour),
	}
	st.events[past.ID] = past
	st.events[upcoming.ID] = upcoming

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != "new" {
		t.Fatalf("expected only the upcoming event, got %+v", list)
	}
}

func TestUpdateEvent(t *testing.T) {
	ctx := context.Background()
	st, cal, svc := newEventFixture(t)
	seedEvent(st, "ev1", intPtr(10), intPtr(2))

	err := svc.Update(ctx, "ev1", &dto.UpdateEventRequest{
		EventTitle: "Renamed",
		Date:       "2026-06-05",
		StartTime:  "09:00",
		EndTime:    "11:00",
		Limit:      "",
		Reserved:   "",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	ev := st.events["ev1"]
	if ev.Title != "Renamed" {
		t.Fatalf("expected renamed event, got %q", ev.Title)
	}
	if ev.Limit != nil || ev.Reserved != nil {
		t.Fatalf("expected caps cleared, got %v %v", ev.Limit, ev.Reserved)
	}
	if len(cal.updated) != 1 {
		t.Fatalf("expected a calendar mirror call, got %v", cal.updated)
	}

	if err := svc.Update(ctx, "nope", &dto.UpdateEventRequest{}); !errors.Is(err, apperr.ErrInvalidEvent) {
		t.Fatalf("expected invalid event, got %v", err)
	}
}

func TestDeleteEvent(t *testing.T) {
	ctx := context.Background()
	st, cal, svc := newEventFixture(t)
	seedEvent(st, "ev1", nil, nil)

	if err := svc.Delete(ctx, "ev1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := st.events["ev1"]; ok {
		t.Fatal("expected the event to be gone")
	}
	if len(cal.deleted) != 1 {
		t.Fatalf("expected a calendar mirror call, got %v", cal.deleted)
	}

	if err := svc.Delete(ctx, "ev1"); !errors.Is(err, apperr.ErrInvalidEvent) {
		t.Fatalf("expected invalid event on second delete, got %v", err)
	}
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	st, _, svc := newEventFixture(t)
	seedEvent(st, "ev1", nil, nil)
	seedUser(st, "sam", 11, 2)
	checkIn := time.Date(2026, 3, 14, 1, 30, 0, 0, time.UTC)
	st.entries["ev1"] = map[string]model.Entry{"sam": {
		EventID: "ev1", UserID: "sam",
		CheckIn:  &checkIn,
		Position: strPtr("Usher"),
	}}

	res, err := svc.Dashboard(ctx, "ev1")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(res.Entries) != 1 {
		t.Fatalf("expected one row, got %d", len(res.Entries))
	}
	row := res.Entries[0]
	if row.UserID != "sam" || row.LastName != "Lee" {
		t.Fatalf("expected sam's row, got %+v", row)
	}
	// 01:30 UTC renders as the previous evening Pacific.
	if row.CheckIn == nil || *row.CheckIn != "18:30" {
		t.Fatalf("expected localized check-in 18:30, got %v", row.CheckIn)
	}
	if row.Position == nil || *row.Position != "Usher" {
		t.Fatalf("expected position, got %v", row.Position)
	}

	if _, err := svc.Dashboard(ctx, "nope"); !errors.Is(err, apperr.ErrInvalidEvent) {
		t.Fatalf("expected invalid event, got %v", err)
	}
}
