package booking

import (
	"context"

	bookingsRepo "voicebook/database/repository/bookings"
	"voicebook/models"
	"voicebook/services/calendar"
	"voicebook/utils"

	"go.uber.org/zap"
)

// Committer finalizes a chosen slot: expert assignment, calendar write,
// then the booking record update. The two writes are sequential, not
// transactional.
type Committer interface {
	Commit(ctx context.Context, sess *models.Session, slot models.TimeSlot) (*models.Appointment, error)
}

// DefaultCommitter implements Committer against the remote calendar and
// the booking repository.
type DefaultCommitter struct {
	Calendar calendar.Provider
	Repo     bookingsRepo.Repository
	Roster   []models.Expert
	// Recheck re-reads the calendar for the slot window right before the
	// insert. It narrows the double-booking window but cannot close it:
	// nothing guards the gap between the re-check and the write.
	Recheck bool
	Logger  *zap.Logger
}

func (c *DefaultCommitter) Commit(ctx context.Context, sess *models.Session, slot models.TimeSlot) (*models.Appointment, error) {
	expert := AssignExpert(c.Roster, slot)

	if c.Recheck {
		busy, err := c.Calendar.ListBusy(ctx, slot.Start, slot.End)
		if err != nil {
			return nil, err
		}
		for _, b := range busy {
			if b.Overlaps(slot.Start, slot.End) {
				return nil, utils.NewServiceError(utils.CodeSlotConflict, "slot is no longer free", nil)
			}
		}
	}

	// A failed calendar write aborts before any record update; the caller
	// stays in a listening state and the user may pick again.
	inserted, err := c.Calendar.InsertConsultation(ctx, slot, sess.Contact, expert)
	if err != nil {
		return nil, err
	}

	appt := &models.Appointment{
		Slot:     slot,
		Expert:   expert.Name,
		EventID:  inserted.EventID,
		MeetLink: inserted.MeetLink,
	}
	record := models.Booking{
		ID:          sess.BookingID,
		Contact:     sess.Contact,
		Appointment: appt,
		Transcript:  sess.Transcript,
	}
	if err := c.Repo.Update(ctx, record); err != nil {
		// The calendar event already exists; failing the commit here would
		// invite a second event for the same consultation.
		c.Logger.Warn("booking record update failed after calendar write",
			zap.String("bookingId", sess.BookingID), zap.Error(err))
	}
	return appt, nil
}
