// File: services/conversation/controller.go
package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	bookingsRepo "voicebook/database/repository/bookings"
	"voicebook/models"
	"voicebook/services/booking"
	"voicebook/services/calendar"
	ai "voicebook/services/intelligence"
	"voicebook/services/interpret"
	"voicebook/services/slots"
	"voicebook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const agentName = "Sofia"

// SummaryEnqueuer pushes the post-call summary task onto the background
// queue. Enqueue failures never block reaching the terminal stage.
type SummaryEnqueuer interface {
	EnqueueSummary(ctx context.Context, bookingID, transcript string) error
}

// Controller drives one voice booking call from greeting to terminal. All
// state lives in the Session value it is handed; the controller itself is
// safe to share across sessions.
type Controller struct {
	Calendar    calendar.Provider
	Slots       slots.Generator
	Interpreter interpret.Interpreter
	Committer   booking.Committer
	AI          ai.Service
	Repo        bookingsRepo.Repository
	Store       SessionStore
	Summaries   SummaryEnqueuer
	Logger      *zap.Logger

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
	// ListenBackoff is the pause before re-listening after an empty
	// capture in auto-listen mode.
	ListenBackoff time.Duration
}

func (c *Controller) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Controller) listenBackoff() time.Duration {
	if c.ListenBackoff > 0 {
		return c.ListenBackoff
	}
	return time.Second
}

// Start creates the session: booking stub, one slot fetch (the list is not
// refreshed mid-call), greeting. The returned greeting is what the client
// speaks first.
func (c *Controller) Start(ctx context.Context, contact models.Contact) (*models.Session, error) {
	now := c.now()
	sess := &models.Session{
		ID:         uuid.New().String(),
		Stage:      models.StageGreeting,
		Contact:    contact,
		AutoListen: true,
		CreatedAt:  now,
	}

	bookingID, err := c.Repo.Create(ctx, models.Booking{Contact: contact})
	if err != nil {
		return nil, fmt.Errorf("create booking stub: %w", err)
	}
	sess.BookingID = bookingID

	busy, err := c.Calendar.ListBusy(ctx, now, now.Add(c.Slots.Horizon))
	if err != nil {
		return nil, err
	}
	sess.Slots = c.Slots.Generate(now, busy)

	greet := c.greeting(contact, sess.Slots)
	sess.Turns = append(sess.Turns, systemTurn(contact, sess.Slots), assistantTurn(greet))
	sess.Transcript = agentName + ": " + greet
	sess.Stage = models.StageAwaitingSpeech

	if err := c.Store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// Resume loads a live session by ID.
func (c *Controller) Resume(ctx context.Context, id string) (*models.Session, error) {
	return c.Store.Get(ctx, id)
}

// HandleUtterance runs one turn: interpret, then book or delegate to the
// model, then report what to speak. Upstream failures resolve by
// returning to the listening state, never by advancing to a booked state.
func (c *Controller) HandleUtterance(ctx context.Context, sess *models.Session, text string) (*models.TurnResult, error) {
	if done := c.terminalResult(sess); done != nil {
		return done, nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		sess.Stage = models.StageAwaitingSpeech
		if err := c.Store.Save(ctx, sess); err != nil {
			return nil, err
		}
		return &models.TurnResult{SessionID: sess.ID, Stage: sess.Stage}, nil
	}

	sess.Stage = models.StageInterpreting
	c.appendUser(sess, text)

	var reply string
	if match, ok := c.Interpreter.Interpret(text, sess.Slots); ok {
		reply = c.book(ctx, sess, match.Slot)
	} else {
		reply = c.delegate(ctx, sess)
	}
	c.appendAssistant(sess, reply)

	if sess.Stage != models.StageTerminal {
		sess.Stage = models.StageAwaitingSpeech
	}
	if err := c.Store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return &models.TurnResult{
		SessionID:   sess.ID,
		Stage:       sess.Stage,
		Reply:       reply,
		Appointment: sess.Appointment,
	}, nil
}

// SelectSlot handles a direct slot button click.
func (c *Controller) SelectSlot(ctx context.Context, sess *models.Session, index int) (*models.TurnResult, error) {
	if done := c.terminalResult(sess); done != nil {
		return done, nil
	}
	if index < 0 || index >= len(sess.Slots) {
		return nil, fmt.Errorf("slot index %d out of range", index)
	}

	reply := c.book(ctx, sess, sess.Slots[index])
	c.appendAssistant(sess, reply)
	if sess.Stage != models.StageTerminal {
		sess.Stage = models.StageAwaitingSpeech
	}
	if err := c.Store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return &models.TurnResult{
		SessionID:   sess.ID,
		Stage:       sess.Stage,
		Reply:       reply,
		Appointment: sess.Appointment,
	}, nil
}

// End forces the terminal stage from any state, flushes the transcript to
// the booking record and queues the best-effort summary.
func (c *Controller) End(ctx context.Context, sess *models.Session) (*models.TurnResult, error) {
	sess.Stage = models.StageTerminal
	if err := c.Store.Save(ctx, sess); err != nil {
		return nil, err
	}

	final := models.Booking{
		ID:          sess.BookingID,
		Contact:     sess.Contact,
		Appointment: sess.Appointment,
		Transcript:  sess.Transcript,
	}
	if err := c.Repo.Update(ctx, final); err != nil {
		c.Logger.Warn("final booking update failed",
			zap.String("bookingId", sess.BookingID), zap.Error(err))
	}
	if c.Summaries != nil && sess.Transcript != "" {
		if err := c.Summaries.EnqueueSummary(ctx, sess.BookingID, sess.Transcript); err != nil {
			c.Logger.Warn("summary enqueue failed",
				zap.String("bookingId", sess.BookingID), zap.Error(err))
		}
	}
	return &models.TurnResult{SessionID: sess.ID, Stage: sess.Stage, Appointment: sess.Appointment}, nil
}

// Run drives the full call loop over an abstract speech transport:
// speak the greeting, then listen, interpret and reply until the session
// is terminal or ctx is cancelled. Cancellation from any state halts
// listening and synthesis and still lands in End. An empty capture with
// auto-listen off parks the session Idle instead; the caller may resume
// it later through the turn-based entry points.
func (c *Controller) Run(ctx context.Context, sess *models.Session, spio SpeechIO) error {
	if n := len(sess.Turns); n > 0 && sess.Turns[n-1].Role == models.RoleAssistant {
		c.speak(ctx, sess, spio, sess.Turns[n-1].Text)
	}

loop:
	for sess.Stage != models.StageTerminal {
		if ctx.Err() != nil {
			break
		}
		sess.Stage = models.StageAwaitingSpeech
		utterance, err := spio.Listen(ctx)
		if err != nil {
			break // cancelled or transport closed
		}
		if strings.TrimSpace(utterance) == "" {
			if !sess.AutoListen {
				sess.Stage = models.StageIdle
				return c.Store.Save(context.WithoutCancel(ctx), sess)
			}
			select {
			case <-time.After(c.listenBackoff()):
				continue
			case <-ctx.Done():
				break loop
			}
		}

		res, err := c.HandleUtterance(ctx, sess, utterance)
		if err != nil {
			c.Logger.Warn("turn failed", zap.String("sessionId", sess.ID), zap.Error(err))
			continue
		}
		if res.Reply != "" {
			c.speak(ctx, sess, spio, res.Reply)
			sess.Stage = res.Stage
		}
	}

	_, err := c.End(context.WithoutCancel(ctx), sess)
	return err
}

func (c *Controller) speak(ctx context.Context, sess *models.Session, spio SpeechIO, text string) {
	sess.Stage = models.StageSpeaking
	if err := spio.Speak(ctx, text); err != nil && ctx.Err() == nil {
		c.Logger.Warn("speech synthesis failed", zap.String("sessionId", sess.ID), zap.Error(err))
	}
}

// book invokes the committer. Success is the only path that sets the
// appointment and makes the session terminal.
func (c *Controller) book(ctx context.Context, sess *models.Session, slot models.TimeSlot) string {
	sess.Stage = models.StageBooking
	appt, err := c.Committer.Commit(ctx, sess, slot)
	if err != nil {
		c.Logger.Warn("booking commit failed",
			zap.String("sessionId", sess.ID),
			zap.Time("slotStart", slot.Start),
			zap.Error(err))
		sess.Stage = models.StageAwaitingSpeech
		if utils.HasCode(err, utils.CodeSlotConflict) {
			return fmt.Sprintf("I'm sorry, %s was just taken. %s", slot.Label, c.alternatives(sess.Slots, slot))
		}
		return "I couldn't confirm that time just now. Could we try another one?"
	}

	sess.Appointment = appt
	sess.Stage = models.StageTerminal
	return fmt.Sprintf("Your appointment for %s with %s is confirmed! A calendar invite has been sent to %s. Goodbye!",
		appt.Slot.Label, appt.Expert, sess.Contact.Email)
}

// delegate hands the turn to the language model when no rule matched.
func (c *Controller) delegate(ctx context.Context, sess *models.Session) string {
	sess.Stage = models.StageDelegating
	reply, err := c.AI.Reply(ctx, sess.Turns)
	if err != nil {
		c.Logger.Warn("model turn failed", zap.String("sessionId", sess.ID), zap.Error(err))
		return "I didn't catch that. Could you tell me which of the times works for you?"
	}
	return reply
}

func (c *Controller) terminalResult(sess *models.Session) *models.TurnResult {
	if sess.Stage == models.StageTerminal || sess.Appointment != nil {
		return &models.TurnResult{
			SessionID:   sess.ID,
			Stage:       models.StageTerminal,
			Appointment: sess.Appointment,
		}
	}
	return nil
}

func (c *Controller) appendUser(sess *models.Session, text string) {
	sess.Turns = append(sess.Turns, models.ConversationTurn{Role: models.RoleUser, Text: text})
	sess.Transcript += "\nUser: " + text
}

func (c *Controller) appendAssistant(sess *models.Session, text string) {
	sess.Turns = append(sess.Turns, assistantTurn(text))
	sess.Transcript += "\n" + agentName + ": " + text
}

func (c *Controller) alternatives(candidates []models.TimeSlot, taken models.TimeSlot) string {
	var labels []string
	for _, s := range candidates {
		if s.Start.Equal(taken.Start) {
			continue
		}
		labels = append(labels, s.Label)
	}
	if len(labels) == 0 {
		return "I have no other openings in the next two days."
	}
	return "Here are some alternatives: " + strings.Join(labels, ", ") + "."
}

// greeting names the best one or two candidate slots, or the fallback
// message when the horizon is fully booked.
func (c *Controller) greeting(contact models.Contact, candidates []models.TimeSlot) string {
	intro := fmt.Sprintf("Hello! Thank you for your interest. I'm %s, your booking assistant. "+
		"Before we start, can you confirm the email address we have for you is %s?",
		agentName, contact.Email)
	switch len(candidates) {
	case 0:
		return intro + " Unfortunately there are no available slots in the next 48 hours. " +
			"Please try again later or leave us a message."
	case 1:
		return fmt.Sprintf("%s The earliest time I can offer is %s.", intro, candidates[0].Label)
	default:
		return fmt.Sprintf("%s The earliest times I can offer are %s and %s.",
			intro, candidates[0].Label, candidates[1].Label)
	}
}

func assistantTurn(text string) models.ConversationTurn {
	return models.ConversationTurn{Role: models.RoleAssistant, Text: text}
}

// systemTurn carries the persona, the contact data and the candidate slot
// list; it anchors every model call for the session.
func systemTurn(contact models.Contact, candidates []models.TimeSlot) models.ConversationTurn {
	var sb strings.Builder
	sb.WriteString("You are " + agentName + ", an empathetic, professional AI booking agent. ")
	sb.WriteString("Your job is to help the user book a free, no-commitment 30-minute consultation in the next 48 hours. ")
	sb.WriteString("Offer only the listed available slots. Be friendly, non-judgmental, and efficient.\n")
	sb.WriteString(fmt.Sprintf("Client: %s <%s>", contact.Name, contact.Email))
	if contact.Phone != "" {
		sb.WriteString(", phone " + contact.Phone)
	}
	sb.WriteString("\nAvailable slots:\n")
	if len(candidates) == 0 {
		sb.WriteString("(none in the next 48 hours)\n")
	}
	for _, s := range candidates {
		sb.WriteString("- " + s.Label + "\n")
	}
	return models.ConversationTurn{Role: models.RoleSystem, Text: sb.String()}
}
