package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trailbook/backend/internal/domain"
	"github.com/pkordes/trailbook/backend/internal/session"
)

// Wire types, one per schema in api/openapi.yaml. Dates travel as
// openapi_types.Date ("2006-01-02") and ids as openapi_types.UUID.

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	Id            openapi_types.UUID  `json:"id"`
	Email         string              `json:"email"`
	CurrentTripId *openapi_types.UUID `json:"current_trip_id,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateTripRequest struct {
	Title     string              `json:"title"`
	StartDate *openapi_types.Date `json:"start_date"`
	EndDate   *openapi_types.Date `json:"end_date,omitempty"`
}

type Trip struct {
	Id          openapi_types.UUID  `json:"id"`
	Title       string              `json:"title"`
	StartDate   openapi_types.Date  `json:"start_date"`
	EndDate     *openapi_types.Date `json:"end_date,omitempty"`
	IsCompleted bool                `json:"is_completed"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type TripList struct {
	Data []Trip `json:"data"`
}

// CurrentTripResponse is the session's view of the user's open trip.
// Trip and Phase are null when there is no current trip.
type CurrentTripResponse struct {
	Trip           *Trip   `json:"trip"`
	Phase          *string `json:"phase"`
	AddedDayEntry  bool    `json:"added_day_entry"`
	MultipleActive bool    `json:"multiple_active"`
}

type EndTripResponse struct {
	Action string `json:"action"`
	Phase  string `json:"phase"`
	Trip   *Trip  `json:"trip,omitempty"`
}

type Moment struct {
	Id       *openapi_types.UUID `json:"id,omitempty"`
	Prompt   string              `json:"prompt"`
	Response string              `json:"response"`
	PhotoUrl *string             `json:"photo_url,omitempty"`
}

// DayEntryRequest is the JSON form of a day-entry submission. Multipart
// submissions carry the same fields as form values, moments as a JSON array.
type DayEntryRequest struct {
	Location string   `json:"location"`
	Weather  string   `json:"weather"`
	Steps    int      `json:"steps"`
	Moments  []Moment `json:"moments"`
}

type DayEntry struct {
	Id        openapi_types.UUID `json:"id"`
	TripId    openapi_types.UUID `json:"trip_id"`
	Date      openapi_types.Date `json:"date"`
	Steps     *int               `json:"steps,omitempty"`
	Weather   *string            `json:"weather,omitempty"`
	Location  *string            `json:"location,omitempty"`
	Moments   []Moment           `json:"moments"`
	PhotoUrls []string           `json:"photo_urls"`
	CreatedAt time.Time          `json:"created_at"`
}

type DayEntryList struct {
	Data []DayEntry `json:"data"`
}

type PromptList struct {
	Data []string `json:"data"`
}

type ExportRow struct {
	TripId        openapi_types.UUID  `json:"trip_id"`
	TripTitle     string              `json:"trip_title"`
	TripStartDate openapi_types.Date  `json:"trip_start_date"`
	TripEndDate   *openapi_types.Date `json:"trip_end_date,omitempty"`
	EntryDate     *openapi_types.Date `json:"entry_date,omitempty"`
	Location      *string             `json:"location,omitempty"`
	Weather       *string             `json:"weather,omitempty"`
	Steps         *int                `json:"steps,omitempty"`
	Moments       []string            `json:"moments"`
	PhotoUrls     []string            `json:"photo_urls"`
}

// --- mapping helpers --------------------------------------------------------

func tripToResponse(t domain.Trip) Trip {
	resp := Trip{
		Id:          t.ID,
		Title:       t.Title,
		StartDate:   openapi_types.Date{Time: t.StartDate},
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.EndDate != nil {
		ed := openapi_types.Date{Time: *t.EndDate}
		resp.EndDate = &ed
	}
	return resp
}

func tripsToResponse(trips []domain.Trip) TripList {
	data := make([]Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	return TripList{Data: data}
}

func snapshotToResponse(snap session.Snapshot, today time.Time) CurrentTripResponse {
	resp := CurrentTripResponse{
		AddedDayEntry:  snap.AddedDayEntry,
		MultipleActive: snap.MultipleActive,
	}
	if snap.CurrentTrip != nil {
		trip := tripToResponse(*snap.CurrentTrip)
		phase := snap.CurrentTrip.PhaseOn(today).String()
		resp.Trip = &trip
		resp.Phase = &phase
	}
	return resp
}

func userToResponse(u domain.User) User {
	return User{
		Id:            u.ID,
		Email:         u.Email,
		CurrentTripId: u.CurrentTripID,
		CreatedAt:     u.CreatedAt,
	}
}

func momentToResponse(m domain.Moment) Moment {
	id := m.ID
	return Moment{Id: &id, Prompt: m.Prompt, Response: m.Response, PhotoUrl: m.PhotoURL}
}

func momentsFromRequest(in []Moment) []domain.Moment {
	out := make([]domain.Moment, 0, len(in))
	for _, m := range in {
		dm := domain.Moment{Prompt: m.Prompt, Response: m.Response, PhotoURL: m.PhotoUrl}
		if m.Id != nil {
			dm.ID = *m.Id
		}
		out = append(out, dm)
	}
	return out
}

func entryToResponse(e domain.DayEntry) DayEntry {
	moments := make([]Moment, len(e.Moments))
	for i, m := range e.Moments {
		moments[i] = momentToResponse(m)
	}
	urls := e.PhotoURLs
	if urls == nil {
		urls = []string{}
	}
	return DayEntry{
		Id:        e.ID,
		TripId:    e.TripID,
		Date:      openapi_types.Date{Time: e.Date},
		Steps:     e.Steps,
		Weather:   e.Weather,
		Location:  e.Location,
		Moments:   moments,
		PhotoUrls: urls,
		CreatedAt: e.CreatedAt,
	}
}
