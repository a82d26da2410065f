package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/TRHS-OMNIA/crew-backend/internal/model"
	"github.com/TRHS-OMNIA/crew-backend/internal/repository"
)

// In-memory repository doubles. A Repository assembled from these carries no
// database handle, so WithTx runs its callback directly against the same
// aggregate; the transactional flows exercise the same code paths without a
// live store.

type memStore struct {
	mu      sync.Mutex
	users   map[string]model.User
	events  map[string]model.Event
	entries map[string]map[string]model.Entry // eventID → userID → entry
	tokens  map[string]model.QRToken
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[string]model.User),
		events:  make(map[string]model.Event),
		entries: make(map[string]map[string]model.Entry),
		tokens:  make(map[string]model.QRToken),
	}
}

func newMemRepository(st *memStore) *repository.Repository {
	return &repository.Repository{
		User:  &memUserRepo{st: st},
		Event: &memEventRepo{st: st},
		Entry: &memEntryRepo{st: st},
		QR:    &memQRRepo{st: st},
	}
}

// ── users ──

type memUserRepo struct{ st *memStore }

func (r *memUserRepo) Create(_ context.Context, user *model.User) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) BatchCreate(_ context.Context, users []model.User) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, u := range users {
		r.st.users[u.ID] = u
	}
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	u, ok := r.st.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *memUserRepo) List(_ context.Context) ([]model.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	users := make([]model.User, 0, len(r.st.users))
	for _, u := range r.st.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].LastName != users[j].LastName {
			return users[i].LastName < users[j].LastName
		}
		return users[i].FirstName < users[j].FirstName
	})
	return users, nil
}

// ── events ──

type memEventRepo struct{ st *memStore }

func (r *memEventRepo) Create(_ context.Context, event *model.Event) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.events[event.ID] = *event
	return nil
}

func (r *memEventRepo) GetByID(_ context.Context, id string) (*model.Event, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	ev, ok := r.st.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &ev, nil
}

func (r *memEventRepo) GetForUpdate(ctx context.Context, id string) (*model.Event, error) {
	return r.GetByID(ctx, id)
}

func (r *memEventRepo) Exists(_ context.Context, id string) (bool, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	_, ok := r.st.events[id]
	return ok, nil
}

func (r *memEventRepo) ListFrom(_ context.Context, from time.Time) ([]model.Event, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var events []model.Event
	for _, ev := range r.st.events {
		if !ev.End.Before(from) {
			events = append(events, ev)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })
	return events, nil
}

func (r *memEventRepo) Update(_ context.Context, event *model.Event) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.events[event.ID] = *event
	return nil
}

func (r *memEventRepo) Delete(_ context.Context, id string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	delete(r.st.events, id)
	delete(r.st.entries, id)
	return nil
}

// ── entries ──

type memEntryRepo struct{ st *memStore }

func (r *memEntryRepo) Create(_ context.Context, entry *model.Entry) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	byUser := r.st.entries[entry.EventID]
	if byUser == nil {
		byUser = make(map[string]model.Entry)
		r.st.entries[entry.EventID] = byUser
	}
	e := *entry
	e.User = nil
	e.Event = nil
	byUser[entry.UserID] = e
	return nil
}

func (r *memEntryRepo) Get(_ context.Context, eventID, userID string) (*model.Entry, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	e, ok := r.st.entries[eventID][userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (r *memEntryRepo) ListByEvent(_ context.Context, eventID string) ([]model.Entry, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var entries []model.Entry
	for _, e := range r.st.entries[eventID] {
		if u, ok := r.st.users[e.UserID]; ok {
			uc := u
			e.User = &uc
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].UserID < entries[j].UserID })
	return entries, nil
}

func (r *memEntryRepo) ListByUser(_ context.Context, userID string) ([]model.Entry, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var entries []model.Entry
	for eventID, byUser := range r.st.entries {
		e, ok := byUser[userID]
		if !ok {
			continue
		}
		if ev, evOK := r.st.events[eventID]; evOK {
			evc := ev
			e.Event = &evc
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		var si, sj time.Time
		if entries[i].Event != nil {
			si = entries[i].Event.Start
		}
		if entries[j].Event != nil {
			sj = entries[j].Event.Start
		}
		return si.Before(sj)
	})
	return entries, nil
}

func (r *memEntryRepo) Delete(_ context.Context, eventID, userID string) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.entries[eventID][userID]; !ok {
		return 0, nil
	}
	delete(r.st.entries[eventID], userID)
	return 1, nil
}

func (r *memEntryRepo) SetCheckIn(_ context.Context, eventID, userID string, at time.Time) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	e, ok := r.st.entries[eventID][userID]
	if !ok {
		return 0, nil
	}
	e.CheckIn = &at
	r.st.entries[eventID][userID] = e
	return 1, nil
}

func (r *memEntryRepo) SetCheckOut(_ context.Context, eventID, userID string, at time.Time) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	e, ok := r.st.entries[eventID][userID]
	if !ok {
		return 0, nil
	}
	e.CheckOut = &at
	r.st.entries[eventID][userID] = e
	return 1, nil
}

func (r *memEntryRepo) Overwrite(_ context.Context, entry *model.Entry) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	e, ok := r.st.entries[entry.EventID][entry.UserID]
	if !ok {
		return 0, nil
	}
	e.CheckIn = entry.CheckIn
	e.CheckOut = entry.CheckOut
	e.Position = entry.Position
	e.PrivateNote = entry.PrivateNote
	r.st.entries[entry.EventID][entry.UserID] = e
	return 1, nil
}

// ── qr tokens ──

type memQRRepo struct{ st *memStore }

func (r *memQRRepo) Create(_ context.Context, token *model.QRToken) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.tokens[token.QRID] = *token
	return nil
}

func (r *memQRRepo) Exists(_ context.Context, qrid string) (bool, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	_, ok := r.st.tokens[qrid]
	return ok, nil
}

func (r *memQRRepo) GetForUpdate(_ context.Context, qrid string) (*model.QRToken, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	t, ok := r.st.tokens[qrid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (r *memQRRepo) GetByIDAndUser(_ context.Context, qrid, userID string) (*model.QRToken, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	t, ok := r.st.tokens[qrid]
	if !ok || t.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (r *memQRRepo) MarkScanned(_ context.Context, qrid string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	t, ok := r.st.tokens[qrid]
	if !ok {
		return nil
	}
	t.Scanned = true
	r.st.tokens[qrid] = t
	return nil
}

func (r *memQRRepo) ExpireActive(_ context.Context, eventID, userID string, now time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for id, t := range r.st.tokens {
		if t.EventID == eventID && t.UserID == userID && !t.Scanned && t.Exp.After(now) {
			t.Exp = now
			r.st.tokens[id] = t
		}
	}
	return nil
}

// ── calendar ──

// recordSync records mirror calls for assertions.
type recordSync struct {
	mu        sync.Mutex
	created   []string
	updated   []string
	deleted   []string
	attendees map[string][]string // eventID → emails
}

func newRecordSync() *recordSync {
	return &recordSync{attendees: make(map[string][]string)}
}

func (s *recordSync) CreateEvent(_ context.Context, eventID, _ string, _, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, eventID)
	return nil
}

func (s *recordSync) UpdateEvent(_ context.Context, eventID, _ string, _, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updated = append(s.updated, eventID)
	return nil
}

func (s *recordSync) DeleteEvent(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, eventID)
	return nil
}

func (s *recordSync) AddAttendee(_ context.Context, eventID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attendees[eventID] = append(s.attendees[eventID], email)
	return nil
}

func (s *recordSync) RemoveAttendee(_ context.Context, eventID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.attendees[eventID][:0]
	for _, e := range s.attendees[eventID] {
		if e != email {
			kept = append(kept, e)
		}
	}
	s.attendees[eventID] = kept
	return nil
}

// ── helpers ──

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }
