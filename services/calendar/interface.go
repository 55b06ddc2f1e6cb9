package calendar

import (
	"context"
	"time"

	"voicebook/models"
)

// InsertedEvent is what a successful calendar write reports back.
type InsertedEvent struct {
	EventID  string
	MeetLink string
}

// Provider abstracts the remote calendar. The calendar is the only shared
// mutable resource across sessions and carries no locking of its own.
type Provider interface {
	// ListBusy returns the busy intervals between from and to, skipping
	// events whose transparency marks them as free.
	ListBusy(ctx context.Context, from, to time.Time) ([]models.BusyInterval, error)
	// InsertConsultation writes the event for a committed slot and requests
	// a conference link.
	InsertConsultation(ctx context.Context, slot models.TimeSlot, contact models.Contact, expert models.Expert) (*InsertedEvent, error)
}
