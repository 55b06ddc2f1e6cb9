package models

import "time"

// TimeSlot is a bookable half-open interval within business hours.
// Immutable once generated.
type TimeSlot struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`
	Label string    `bson:"label" json:"label"` // localized display string, e.g. "lunes, 12 de enero, 10 de la mañana"
}

// BusyInterval is an externally reported range during which the calendar
// owner is unavailable. An interval whose end never parsed collapses to a
// zero-length range and never conflicts with a candidate slot.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether [start, end) intersects the busy interval.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return start.Before(b.End) && end.After(b.Start)
}
