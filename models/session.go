package models

import "time"

// Stage identifies where a voice session is in its lifecycle.
type Stage string

const (
	StageIdle           Stage = "idle"
	StageGreeting       Stage = "greeting"
	StageAwaitingSpeech Stage = "awaitingSpeech"
	StageInterpreting   Stage = "interpreting"
	StageBooking        Stage = "booking"
	StageDelegating     Stage = "delegatingToModel"
	StageSpeaking       Stage = "speaking"
	StageTerminal       Stage = "terminal"
)

// Session holds per-call state between turns. Once Appointment is set the
// session is terminal and no further slot matching runs.
type Session struct {
	ID          string             `json:"sessionId"`
	Stage       Stage              `json:"stage"`
	Contact     Contact            `json:"contact"`
	BookingID   string             `json:"bookingId"`
	Slots       []TimeSlot         `json:"slots"`
	Turns       []ConversationTurn `json:"turns"`
	Transcript  string             `json:"transcript"`
	Appointment *Appointment       `json:"appointment,omitempty"`
	AutoListen  bool               `json:"autoListen"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// TurnResult is what one controller step hands back to the transport.
type TurnResult struct {
	SessionID   string       `json:"sessionId"`
	Stage       Stage        `json:"stage"`
	Reply       string       `json:"reply,omitempty"`
	Appointment *Appointment `json:"appointment,omitempty"`
}
