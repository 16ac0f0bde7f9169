package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trailbook/backend/internal/domain"
	"github.com/pkordes/trailbook/backend/internal/repo"
)

// Failures makes the in-memory repos return an error from a named method,
// e.g. Failures{"MarkCompleted": errors.New("store offline")}.
type Failures map[string]error

func (f Failures) check(method string) error {
	if err, ok := f[method]; ok {
		return err
	}
	return nil
}

// MemTrips is an in-memory repo.TripRepo for unit tests.
// CreatedAt increases by one second per Create so ordering is deterministic.
type MemTrips struct {
	Fail Failures

	mu    sync.Mutex
	trips map[uuid.UUID]domain.Trip
	clock time.Time
}

// NewMemTrips returns an empty MemTrips.
func NewMemTrips() *MemTrips {
	return &MemTrips{
		Fail:  Failures{},
		trips: map[uuid.UUID]domain.Trip{},
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *MemTrips) Create(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := m.Fail.check("Create"); err != nil {
		return domain.Trip{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Second)
	trip.ID = uuid.New()
	trip.CreatedAt = m.clock
	trip.UpdatedAt = m.clock
	m.trips[trip.ID] = trip
	return trip, nil
}

func (m *MemTrips) GetByID(_ context.Context, id uuid.UUID) (domain.Trip, error) {
	if err := m.Fail.check("GetByID"); err != nil {
		return domain.Trip{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	return t, nil
}

func (m *MemTrips) ListByUser(_ context.Context, userID uuid.UUID, completed bool) ([]domain.Trip, error) {
	if err := m.Fail.check("ListByUser"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Trip
	for _, t := range m.trips {
		if t.UserID == userID && t.IsCompleted == completed {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemTrips) MarkCompleted(_ context.Context, id uuid.UUID, endDate *time.Time) (domain.Trip, error) {
	if err := m.Fail.check("MarkCompleted"); err != nil {
		return domain.Trip{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	t.IsCompleted = true
	if endDate != nil {
		ed := *endDate
		t.EndDate = &ed
	}
	m.trips[id] = t
	return t, nil
}

func (m *MemTrips) Delete(_ context.Context, id uuid.UUID) error {
	if err := m.Fail.check("Delete"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.trips, id)
	return nil
}

// Len returns the number of stored trips.
func (m *MemTrips) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.trips)
}

// MemDays is an in-memory repo.DayEntryRepo that enforces one entry per
// trip and day, like the unique index does.
type MemDays struct {
	Fail Failures

	mu      sync.Mutex
	entries []domain.DayEntry
}

// NewMemDays returns an empty MemDays.
func NewMemDays() *MemDays {
	return &MemDays{Fail: Failures{}}
}

func (m *MemDays) Create(_ context.Context, e domain.DayEntry) (domain.DayEntry, error) {
	if err := m.Fail.check("Create"); err != nil {
		return domain.DayEntry{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e.Date = domain.DayOf(e.Date)
	for _, existing := range m.entries {
		if existing.TripID == e.TripID && existing.Date.Equal(e.Date) {
			return domain.DayEntry{}, fmt.Errorf("memdays: %w", domain.ErrEntryExists)
		}
	}
	e.ID = uuid.New()
	m.entries = append(m.entries, e)
	return e, nil
}

func (m *MemDays) ListByTripID(_ context.Context, tripID uuid.UUID) ([]domain.DayEntry, error) {
	if err := m.Fail.check("ListByTripID"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.DayEntry
	for _, e := range m.entries {
		if e.TripID == tripID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *MemDays) ExistsBetween(_ context.Context, tripID uuid.UUID, from, to time.Time) (bool, error) {
	if err := m.Fail.check("ExistsBetween"); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.TripID == tripID && !e.Date.Before(domain.DayOf(from)) && e.Date.Before(domain.DayOf(to)) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemDays) DeleteByTripID(_ context.Context, tripID uuid.UUID) (int64, error) {
	if err := m.Fail.check("DeleteByTripID"); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.entries[:0]
	var n int64
	for _, e := range m.entries {
		if e.TripID == tripID {
			n++
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	return n, nil
}

// MemUsers is an in-memory repo.UserRepo.
type MemUsers struct {
	Fail Failures

	mu    sync.Mutex
	users map[uuid.UUID]domain.User
}

// NewMemUsers returns an empty MemUsers.
func NewMemUsers() *MemUsers {
	return &MemUsers{Fail: Failures{}, users: map[uuid.UUID]domain.User{}}
}

func (m *MemUsers) Create(_ context.Context, email, passwordHash string) (domain.User, error) {
	if err := m.Fail.check("Create"); err != nil {
		return domain.User{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return domain.User{}, fmt.Errorf("memusers: %w: email already registered", domain.ErrConflict)
		}
	}
	u := domain.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	m.users[u.ID] = u
	return u, nil
}

func (m *MemUsers) GetByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	if err := m.Fail.check("GetByID"); err != nil {
		return domain.User{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (m *MemUsers) GetByEmail(_ context.Context, email string) (domain.User, error) {
	if err := m.Fail.check("GetByEmail"); err != nil {
		return domain.User{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

// SetCurrentTrip creates the user on first use so tests need not sign up.
func (m *MemUsers) SetCurrentTrip(_ context.Context, userID uuid.UUID, tripID *uuid.UUID) error {
	if err := m.Fail.check("SetCurrentTrip"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[userID]
	u.ID = userID
	if tripID != nil {
		id := *tripID
		u.CurrentTripID = &id
	} else {
		u.CurrentTripID = nil
	}
	m.users[userID] = u
	return nil
}

// CurrentTripID returns the pointer recorded for userID.
func (m *MemUsers) CurrentTripID(userID uuid.UUID) *uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[userID].CurrentTripID
}

// MemBlobs is an in-memory repo.BlobRepo.
type MemBlobs struct {
	Fail Failures

	mu    sync.Mutex
	blobs map[string]domain.Blob
}

// NewMemBlobs returns an empty MemBlobs.
func NewMemBlobs() *MemBlobs {
	return &MemBlobs{Fail: Failures{}, blobs: map[string]domain.Blob{}}
}

func (m *MemBlobs) Put(_ context.Context, b domain.Blob) error {
	if err := m.Fail.check("Put"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[b.Path] = b
	return nil
}

func (m *MemBlobs) Get(_ context.Context, path string) (domain.Blob, error) {
	if err := m.Fail.check("Get"); err != nil {
		return domain.Blob{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[path]
	if !ok {
		return domain.Blob{}, domain.ErrNotFound
	}
	return b, nil
}

func (m *MemBlobs) List(_ context.Context, prefix string) ([]string, error) {
	if err := m.Fail.check("List"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for p := range m.blobs {
		if strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemBlobs) Delete(_ context.Context, path string) error {
	if err := m.Fail.check("Delete"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[path]; !ok {
		return domain.ErrNotFound
	}
	delete(m.blobs, path)
	return nil
}

// compile-time checks: the in-memory repos must satisfy the repo interfaces.
var (
	_ repo.TripRepo     = (*MemTrips)(nil)
	_ repo.DayEntryRepo = (*MemDays)(nil)
	_ repo.UserRepo     = (*MemUsers)(nil)
	_ repo.BlobRepo     = (*MemBlobs)(nil)
)
