// export.go implements GET /trips/{id}/export.
// Returns a trip's day entries as a flat table.
// Supports content negotiation via ?format=csv (CSV) or default (JSON).
package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trailbook/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_title", "trip_start_date", "trip_end_date",
	"entry_date", "location", "weather", "steps",
	"moments", "photo_urls",
}

// ExportTrip handles GET /trips/{id}/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) ExportTrip(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	id, ok := tripIDParam(w, r)
	if !ok {
		return
	}
	var format *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		badRequest(w, "invalid format parameter")
		return
	}
	if format != nil && *format != "csv" && *format != "json" {
		badRequest(w, "format must be csv or json")
		return
	}

	rows, err := s.export.Export(r.Context(), sess, id)
	if err != nil {
		s.fail(w, r, "trip", err)
		return
	}

	if format != nil && *format == "csv" {
		body := buildCSV(rows)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="trip-`+id.String()+`.csv"`)
		w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = body.WriteTo(w)
		return
	}
	writeJSON(w, http.StatusOK, buildJSONRows(rows))
}

// buildJSONRows converts domain rows to the JSON response.
func buildJSONRows(rows []domain.ExportRow) []ExportRow {
	out := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, domainRowToResponse(r))
	}
	return out
}

// buildCSV encodes domain rows as CSV. Moments and photo URLs within a row
// are pipe-separated ("|") to keep each entry on a single CSV line.
func buildCSV(rows []domain.ExportRow) *bytes.Buffer {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		w.Write(domainRowToCSVRecord(r))
	}
	w.Flush()
	return &buf
}

// domainRowToResponse maps a domain.ExportRow to its wire form.
// Fields that are empty strings become nil pointers (omitted in JSON).
func domainRowToResponse(r domain.ExportRow) ExportRow {
	tripID, _ := uuid.Parse(r.TripID)
	row := ExportRow{
		TripId:        tripID,
		TripTitle:     r.TripTitle,
		TripStartDate: mustParseDate(r.TripStartDate),
		TripEndDate:   optionalDate(r.TripEndDate),
		EntryDate:     optionalDate(r.EntryDate),
		Location:      optionalString(r.Location),
		Weather:       optionalString(r.Weather),
		Steps:         r.Steps,
		Moments:       nonNil(r.Moments),
		PhotoUrls:     nonNil(r.PhotoURLs),
	}
	return row
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// A nil step count is encoded as an empty string.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	steps := ""
	if r.Steps != nil {
		steps = strconv.Itoa(*r.Steps)
	}
	return []string{
		r.TripID,
		r.TripTitle,
		r.TripStartDate,
		r.TripEndDate,
		r.EntryDate,
		r.Location,
		r.Weather,
		steps,
		strings.Join(r.Moments, "|"),
		strings.Join(r.PhotoURLs, "|"),
	}
}

// mustParseDate parses an "2006-01-02" string into an openapi_types.Date.
// Panics on malformed input; callers are expected to pass service-generated dates.
func mustParseDate(s string) openapi_types.Date {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic("handler: malformed date from service: " + s)
	}
	return openapi_types.Date{Time: t}
}

func optionalDate(s string) *openapi_types.Date {
	if s == "" {
		return nil
	}
	d := mustParseDate(s)
	return &d
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
