package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trailbook/backend/internal/domain"
)

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	in, err := requestToNewTrip(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	created, err := s.trips.Create(r.Context(), sess, in)
	if err != nil {
		s.fail(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// GetCurrentTrip handles GET /trips/current.
func (s *Server) GetCurrentTrip(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	snap, err := s.trips.Current(r.Context(), sess)
	if err != nil {
		s.fail(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotToResponse(snap, sess.Today()))
}

// EndCurrentTrip handles POST /trips/current/end.
func (s *Server) EndCurrentTrip(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	if !s.loadCurrent(w, r, sess) {
		return
	}
	res, err := s.ender.End(r.Context(), sess)
	if err != nil {
		s.fail(w, r, "trip", err)
		return
	}

	resp := EndTripResponse{Action: string(res.Action), Phase: res.Phase.String()}
	if res.Trip != nil {
		t := tripToResponse(*res.Trip)
		resp.Trip = &t
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListPastTrips handles GET /trips/past.
func (s *Server) ListPastTrips(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	trips, err := s.trips.Past(r.Context(), sess)
	if err != nil {
		s.fail(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, tripsToResponse(trips))
}

// ListDayEntries handles GET /trips/{id}/days.
func (s *Server) ListDayEntries(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	id, ok := tripIDParam(w, r)
	if !ok {
		return
	}
	entries, err := s.trips.ListDayEntries(r.Context(), sess, id)
	if err != nil {
		s.fail(w, r, "trip", err)
		return
	}

	data := make([]DayEntry, len(entries))
	for i, e := range entries {
		data[i] = entryToResponse(e)
	}
	writeJSON(w, http.StatusOK, DayEntryList{Data: data})
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	id, ok := tripIDParam(w, r)
	if !ok {
		return
	}
	if err := s.trips.Delete(r.Context(), sess, id); err != nil {
		s.fail(w, r, "trip", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- request helpers --------------------------------------------------------

// tripIDParam binds the {id} path parameter. It writes a 422 and reports
// false when the parameter is not a UUID.
func tripIDParam(w http.ResponseWriter, r *http.Request) (openapi_types.UUID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		badRequest(w, "invalid trip id")
		return openapi_types.UUID{}, false
	}
	return id, true
}

// requestToNewTrip decodes a CreateTripRequest body into a domain.NewTrip.
// Returns an error if the body is malformed or required fields are missing;
// business rules are left to the service.
func requestToNewTrip(r *http.Request) (domain.NewTrip, error) {
	var body CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return domain.NewTrip{}, errors.New("request body must be a JSON trip")
	}
	if body.StartDate == nil {
		return domain.NewTrip{}, errors.New("start_date is required")
	}
	in := domain.NewTrip{Title: body.Title, StartDate: body.StartDate.Time}
	if body.EndDate != nil {
		ed := body.EndDate.Time
		in.EndDate = &ed
	}
	return in, nil
}
