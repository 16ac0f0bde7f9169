package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trailbook/backend/internal/domain"
	"github.com/pkordes/trailbook/backend/internal/handler"
	"github.com/pkordes/trailbook/backend/internal/middleware"
	"github.com/pkordes/trailbook/backend/internal/session"
)

type mockSubmitter struct {
	submit func(ctx context.Context, sess *session.TripSession, in domain.DaySubmission) (domain.DayEntry, error)
}

func (m *mockSubmitter) Submit(ctx context.Context, sess *session.TripSession, in domain.DaySubmission) (domain.DayEntry, error) {
	return m.submit(ctx, sess, in)
}

var _ handler.DayEntrySubmitter = (*mockSubmitter)(nil)

// capture returns a submitter that records its input and echoes a stored entry.
func capture(got *domain.DaySubmission) *mockSubmitter {
	return &mockSubmitter{
		submit: func(_ context.Context, _ *session.TripSession, in domain.DaySubmission) (domain.DayEntry, error) {
			*got = in
			return domain.DayEntry{ID: uuid.New(), TripID: uuid.New(), Date: day(2025, 1, 15), Moments: in.Moments}, nil
		},
	}
}

// multipartBody builds a day-entry form with the given fields and photos.
func multipartBody(t *testing.T, fields map[string]string, photos map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for ct, data := range photos {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="photos"; filename="photo.jpg"`)
		if ct != "" {
			h.Set("Content-Type", ct)
		}
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestSubmitDayEntry_201_Multipart(t *testing.T) {
	var got domain.DaySubmission
	body, ct := multipartBody(t,
		map[string]string{
			"location": "Big Sur, CA",
			"weather":  "Sunny",
			"steps":    "12000",
			"moments":  `[{"prompt":"What surprised you today?","response":"Elephant seals"}]`,
		},
		map[string][]byte{"image/jpeg": {0xff, 0xd8, 0xff, 0xe0}},
	)
	req := httptest.NewRequest(http.MethodPost, "/trips/current/days", body)
	req.Header.Set("Content-Type", ct)

	rec := serve(newHTTPHandler(handler.Deps{Entries: capture(&got)}), req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Big Sur, CA", got.Location)
	assert.Equal(t, "Sunny", got.Weather)
	assert.Equal(t, 12000, got.Steps)
	require.Len(t, got.Moments, 1)
	assert.Equal(t, "Elephant seals", got.Moments[0].Response)
	require.Len(t, got.Photos, 1)
	assert.Equal(t, "image/jpeg", got.Photos[0].ContentType)

	var resp handler.DayEntry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "2025-01-15", resp.Date.String())
	assert.NotNil(t, resp.PhotoUrls)
}

func TestSubmitDayEntry_SniffsGenericPhotoType(t *testing.T) {
	var got domain.DaySubmission
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	body, ct := multipartBody(t, nil, map[string][]byte{"application/octet-stream": png})
	req := httptest.NewRequest(http.MethodPost, "/trips/current/days", body)
	req.Header.Set("Content-Type", ct)

	rec := serve(newHTTPHandler(handler.Deps{Entries: capture(&got)}), req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, got.Photos, 1)
	assert.Equal(t, "image/png", got.Photos[0].ContentType)
}

func TestSubmitDayEntry_201_JSON(t *testing.T) {
	var got domain.DaySubmission
	req := httptest.NewRequest(http.MethodPost, "/trips/current/days", jsonBody(t, map[string]any{
		"weather": "Fog",
		"moments": []map[string]string{{"prompt": "Any other extra notes?", "response": "none"}},
	}))
	req.Header.Set("Content-Type", "application/json")

	rec := serve(newHTTPHandler(handler.Deps{Entries: capture(&got)}), req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Fog", got.Weather)
	assert.Zero(t, got.Steps)
	assert.Empty(t, got.Photos)
	require.Len(t, got.Moments, 1)
}

func TestSubmitDayEntry_422_BadFields(t *testing.T) {
	for name, fields := range map[string]map[string]string{
		"steps not a number": {"steps": "lots"},
		"moments not json":   {"moments": "favourite meal: tacos"},
	} {
		t.Run(name, func(t *testing.T) {
			body, ct := multipartBody(t, fields, nil)
			req := httptest.NewRequest(http.MethodPost, "/trips/current/days", body)
			req.Header.Set("Content-Type", ct)

			rec := serve(newHTTPHandler(handler.Deps{Entries: &mockSubmitter{}}), req)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}

func TestSubmitDayEntry_422_UnsupportedContentType(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/trips/current/days", strings.NewReader("steps=3"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := serve(newHTTPHandler(handler.Deps{Entries: &mockSubmitter{}}), req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSubmitDayEntry_409(t *testing.T) {
	tests := []struct {
		err     error
		code    string
		message string
	}{
		{domain.ErrEntryExists, "entry_exists", "day entry already added today"},
		{domain.ErrNoActiveTrip, "no_active_trip", "no active trip"},
		{fmt.Errorf("%w: trip has not started yet", domain.ErrTripNotInProgress), "trip_not_in_progress", "trip has not started yet"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			sub := &mockSubmitter{
				submit: func(context.Context, *session.TripSession, domain.DaySubmission) (domain.DayEntry, error) {
					return domain.DayEntry{}, fmt.Errorf("service.DayEntryService.Submit: %w", tt.err)
				},
			}
			req := httptest.NewRequest(http.MethodPost, "/trips/current/days", jsonBody(t, map[string]any{}))
			req.Header.Set("Content-Type", "application/json")

			rec := serve(newHTTPHandler(handler.Deps{Entries: sub}), req)

			assert.Equal(t, http.StatusConflict, rec.Code)
			e := decodeError(t, rec)
			assert.Equal(t, tt.code, e.Code)
			assert.Equal(t, tt.message, e.Message)
		})
	}
}

// Through the body-size middleware, an oversize streamed upload yields 413.
func TestSubmitDayEntry_413(t *testing.T) {
	body, ct := multipartBody(t, nil, map[string][]byte{"image/jpeg": bytes.Repeat([]byte{0xff}, 4096)})
	req := httptest.NewRequest(http.MethodPost, "/trips/current/days", body)
	req.Header.Set("Content-Type", ct)
	req.ContentLength = -1

	h := middleware.NewMaxBodySizeHandler(1024)(newHTTPHandler(handler.Deps{Entries: &mockSubmitter{}}))
	rec := serve(h, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "payload_too_large", decodeError(t, rec).Code)
}
