package domain

// ExportRow is a single row in a trip's journal export.
// It is a flat, denormalized view: one row per day entry, with trip fields
// repeated for every entry. A trip with no entries yields one row with zero
// values for all entry fields.
type ExportRow struct {
	// Trip fields, repeated for every entry.
	TripID        string
	TripTitle     string
	TripStartDate string // "2006-01-02" formatted date
	TripEndDate   string // empty string when nil

	// Entry fields, zero values when the trip has no entries.
	EntryDate string
	Location  string
	Weather   string
	Steps     *int

	// Moments are "prompt: response" strings in entry order.
	Moments   []string
	PhotoURLs []string
}
