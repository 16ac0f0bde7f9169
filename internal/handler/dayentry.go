package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkordes/trailbook/backend/internal/domain"
)

// photosField is the multipart field carrying the day's photos, in order.
const photosField = "photos"

// SubmitDayEntry handles POST /trips/current/days.
// Accepts multipart/form-data (fields location, weather, steps, moments as a
// JSON array, files under "photos") or a plain JSON DayEntryRequest without
// photos.
func (s *Server) SubmitDayEntry(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	in, err := s.readSubmission(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, "", err)
			return
		}
		badRequest(w, err.Error())
		return
	}

	if !s.loadCurrent(w, r, sess) {
		return
	}
	entry, err := s.entries.Submit(r.Context(), sess, in)
	if err != nil {
		s.fail(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusCreated, entryToResponse(entry))
}

func (s *Server) readSubmission(r *http.Request) (domain.DaySubmission, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var body DayEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return domain.DaySubmission{}, wrapBodyErr(err, "request body must be a JSON day entry")
		}
		return domain.DaySubmission{
			Location: body.Location,
			Weather:  body.Weather,
			Steps:    body.Steps,
			Moments:  momentsFromRequest(body.Moments),
		}, nil
	case "multipart/form-data":
		return s.readMultipart(r)
	default:
		return domain.DaySubmission{}, errors.New("content type must be multipart/form-data or application/json")
	}
}

func (s *Server) readMultipart(r *http.Request) (domain.DaySubmission, error) {
	if err := r.ParseMultipartForm(s.maxMem); err != nil {
		return domain.DaySubmission{}, wrapBodyErr(err, "malformed multipart body")
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	in := domain.DaySubmission{
		Location: r.FormValue("location"),
		Weather:  r.FormValue("weather"),
	}
	if v := strings.TrimSpace(r.FormValue("steps")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.DaySubmission{}, errors.New("steps must be an integer")
		}
		in.Steps = n
	}
	if v := strings.TrimSpace(r.FormValue("moments")); v != "" {
		var moments []Moment
		if err := json.Unmarshal([]byte(v), &moments); err != nil {
			return domain.DaySubmission{}, errors.New("moments must be a JSON array")
		}
		in.Moments = momentsFromRequest(moments)
	}

	for i, fh := range r.MultipartForm.File[photosField] {
		p, err := readPhoto(fh)
		if err != nil {
			return domain.DaySubmission{}, fmt.Errorf("photo %d: %w", i, err)
		}
		in.Photos = append(in.Photos, p)
	}
	return in, nil
}

// readPhoto loads one uploaded file. A missing or generic content type is
// replaced by one sniffed from the data.
func readPhoto(fh *multipart.FileHeader) (domain.Photo, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.Photo{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.Photo{}, err
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	return domain.Photo{Data: data, ContentType: ct}, nil
}

// wrapBodyErr keeps *http.MaxBytesError visible to the caller and replaces
// every other decoding error with message.
func wrapBodyErr(err error, message string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	// mime/multipart flattens read errors into its own text.
	if strings.Contains(err.Error(), "request body too large") {
		return &http.MaxBytesError{}
	}
	return errors.New(message)
}
