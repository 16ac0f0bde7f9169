package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DayEntry is the journal record for one calendar day of a trip.
// At most one exists per (TripID, Date).
type DayEntry struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Date      time.Time `json:"date"`
	Steps     *int      `json:"steps,omitempty"`
	Weather   *string   `json:"weather,omitempty"`
	Location  *string   `json:"location,omitempty"`
	Moments   []Moment  `json:"moments"`
	PhotoURLs []string  `json:"photo_urls"`
	CreatedAt time.Time `json:"created_at"`
}

// Moment is a single prompt/response pair inside a DayEntry.
type Moment struct {
	ID       uuid.UUID `json:"id"`
	Prompt   string    `json:"prompt"`
	Response string    `json:"response"`
	PhotoURL *string   `json:"photo_url,omitempty"`
}

// Photo is an image selected for upload with a day entry.
type Photo struct {
	Data        []byte
	ContentType string
}

// DaySubmission carries the already-resolved inputs for today's entry.
// Every ambient field is optional: zero steps, empty weather and empty
// location are recorded as absent.
type DaySubmission struct {
	Location string
	Weather  string
	Steps    int
	Moments  []Moment
	Photos   []Photo
}

// DefaultPrompts is the set of moment prompts offered to the user each day.
var DefaultPrompts = []string{
	"What was your favorite meal today?",
	"Where did you go or explore?",
	"What surprised you today?",
	"Who did you meet or talk to?",
	"What did you try for the first time?",
	"What was the most beautiful thing you saw?",
	"Any other extra notes?",
}

// AnsweredMoments returns the moments whose response is non-empty after
// trimming, in their original order. Moments without an ID get a new one.
func AnsweredMoments(moments []Moment) []Moment {
	out := make([]Moment, 0, len(moments))
	for _, m := range moments {
		if strings.TrimSpace(m.Response) == "" {
			continue
		}
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		out = append(out, m)
	}
	return out
}
