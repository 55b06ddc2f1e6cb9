package models

import "time"

// Contact identifies the person the consultation is booked for.
type Contact struct {
	Name        string   `bson:"name" json:"name" binding:"required"`
	Email       string   `bson:"email" json:"email" binding:"required,email"`
	Phone       string   `bson:"phone" json:"phone"`
	ExtraEmails []string `bson:"extraEmails,omitempty" json:"extraEmails,omitempty"`
}

// Expert is a member of the consultation roster.
type Expert struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}

// Appointment is the finalized slot/expert pair attached to a booking.
type Appointment struct {
	Slot     TimeSlot `bson:"slot" json:"slot"`
	Expert   string   `bson:"expert" json:"expert"`
	EventID  string   `bson:"eventId,omitempty" json:"eventId,omitempty"`
	MeetLink string   `bson:"meetLink,omitempty" json:"meetLink,omitempty"`
}

// Booking is the persisted record for one session. It is written at least
// twice: a stub at session start and an update when a slot is committed or
// the call ends. The two writes are not atomic.
type Booking struct {
	ID          string       `bson:"id" json:"id"`
	Contact     Contact      `bson:"contact" json:"contact"`
	Appointment *Appointment `bson:"appointment,omitempty" json:"appointment,omitempty"`
	Transcript  string       `bson:"transcript" json:"transcript"`
	Summary     string       `bson:"summary,omitempty" json:"summary,omitempty"`
	CreatedAt   time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time    `bson:"updatedAt" json:"updatedAt"`
}
