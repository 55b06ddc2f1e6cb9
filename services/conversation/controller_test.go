package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"voicebook/models"
	"voicebook/services/booking"
	"voicebook/services/calendar"
	"voicebook/services/interpret"
	"voicebook/services/slots"
	"voicebook/utils"

	"go.uber.org/zap"
)

type stubCalendar struct {
	busy      []models.BusyInterval
	listErr   error
	insertErr error
	inserts   []models.TimeSlot
}

func (s *stubCalendar) ListBusy(_ context.Context, _, _ time.Time) ([]models.BusyInterval, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.busy, nil
}

func (s *stubCalendar) InsertConsultation(_ context.Context, slot models.TimeSlot, _ models.Contact, _ models.Expert) (*calendar.InsertedEvent, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	s.inserts = append(s.inserts, slot)
	return &calendar.InsertedEvent{EventID: "evt-1", MeetLink: "https://meet.example/abc"}, nil
}

type stubRepo struct {
	created int
	updates []models.Booking
}

func (s *stubRepo) Create(_ context.Context, _ models.Booking) (string, error) {
	s.created++
	return "bk-1", nil
}
func (s *stubRepo) Update(_ context.Context, b models.Booking) error {
	s.updates = append(s.updates, b)
	return nil
}
func (s *stubRepo) SetSummary(_ context.Context, _, _ string) error          { return nil }
func (s *stubRepo) GetByID(_ context.Context, _ string) (*models.Booking, error) { return nil, nil }

type memStore struct {
	sessions map[string]*models.Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*models.Session)}
}

func (m *memStore) Get(_ context.Context, id string) (*models.Session, error) {
	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}
func (m *memStore) Save(_ context.Context, sess *models.Session) error {
	m.sessions[sess.ID] = sess
	return nil
}
func (m *memStore) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

type stubAI struct {
	reply string
	err   error
	calls int
	turns []models.ConversationTurn
}

func (s *stubAI) Reply(_ context.Context, turns []models.ConversationTurn) (string, error) {
	s.calls++
	s.turns = turns
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}
func (s *stubAI) Summarize(_ context.Context, _ string) (string, error) { return "", nil }

type stubEnqueuer struct {
	bookingIDs  []string
	transcripts []string
}

func (s *stubEnqueuer) EnqueueSummary(_ context.Context, bookingID, transcript string) error {
	s.bookingIDs = append(s.bookingIDs, bookingID)
	s.transcripts = append(s.transcripts, transcript)
	return nil
}

type scriptedSpeech struct {
	utterances []string
	spoken     []string
}

func (s *scriptedSpeech) Listen(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if len(s.utterances) == 0 {
		return "", errors.New("transport closed")
	}
	next := s.utterances[0]
	s.utterances = s.utterances[1:]
	return next, nil
}

func (s *scriptedSpeech) Speak(ctx context.Context, text string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.spoken = append(s.spoken, text)
	return nil
}

type testRig struct {
	ctrl *Controller
	cal  *stubCalendar
	repo *stubRepo
	ai   *stubAI
	sto  *memStore
	enq  *stubEnqueuer
}

// Candidate slots generated from this clock run Monday 09:00 through 11:00
// in half-hour steps.
func fixedNow() time.Time {
	return time.Date(2026, time.January, 12, 8, 0, 0, 0, time.UTC)
}

func newTestRig() *testRig {
	cal := &stubCalendar{}
	repo := &stubRepo{}
	aiSvc := &stubAI{reply: "We offer free debt consultations."}
	store := newMemStore()
	enq := &stubEnqueuer{}

	gen := slots.Generator{
		Open:     9,
		Close:    18,
		Duration: 30 * time.Minute,
		Horizon:  48 * time.Hour,
		Max:      5,
		Locale:   slots.LookupDisplayLocale("es"),
		Location: time.UTC,
	}
	ctrl := &Controller{
		Calendar:    cal,
		Slots:       gen,
		Interpreter: interpret.NewInterpreter("en-US", 9),
		Committer: &booking.DefaultCommitter{
			Calendar: cal,
			Repo:     repo,
			Roster:   booking.DefaultRoster,
			Recheck:  true,
			Logger:   zap.NewNop(),
		},
		AI:            aiSvc,
		Repo:          repo,
		Store:         store,
		Summaries:     enq,
		Logger:        zap.NewNop(),
		Now:           fixedNow,
		ListenBackoff: time.Millisecond,
	}
	return &testRig{ctrl: ctrl, cal: cal, repo: repo, ai: aiSvc, sto: store, enq: enq}
}

func testContact() models.Contact {
	return models.Contact{Name: "Laura", Email: "laura@example.com", Phone: "+1555000111"}
}

func mustStart(t *testing.T, rig *testRig) *models.Session {
	t.Helper()
	sess, err := rig.ctrl.Start(context.Background(), testContact())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return sess
}

func TestStartCreatesSessionWithGreeting(t *testing.T) {
	rig := newTestRig()
	sess := mustStart(t, rig)

	if sess.Stage != models.StageAwaitingSpeech {
		t.Fatalf("stage = %q, want awaitingSpeech", sess.Stage)
	}
	if len(sess.Slots) != 5 {
		t.Fatalf("got %d candidate slots, want 5", len(sess.Slots))
	}
	if rig.repo.created != 1 || sess.BookingID != "bk-1" {
		t.Fatalf("booking stub not created: created=%d id=%q", rig.repo.created, sess.BookingID)
	}

	greeting := sess.Turns[len(sess.Turns)-1]
	if greeting.Role != models.RoleAssistant {
		t.Fatalf("last turn role = %q, want assistant", greeting.Role)
	}
	if !strings.Contains(greeting.Text, "laura@example.com") {
		t.Fatalf("greeting does not confirm the email: %q", greeting.Text)
	}
	if !strings.Contains(greeting.Text, sess.Slots[0].Label) || !strings.Contains(greeting.Text, sess.Slots[1].Label) {
		t.Fatalf("greeting does not offer the earliest slots: %q", greeting.Text)
	}
	if sess.Turns[0].Role != models.RoleSystem {
		t.Fatalf("first turn role = %q, want system", sess.Turns[0].Role)
	}
	if _, err := rig.sto.Get(context.Background(), sess.ID); err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
}

func TestStartWithFullyBookedHorizon(t *testing.T) {
	rig := newTestRig()
	rig.cal.busy = []models.BusyInterval{
		{Start: fixedNow().AddDate(0, 0, -1), End: fixedNow().AddDate(0, 0, 3)},
	}
	sess := mustStart(t, rig)
	if len(sess.Slots) != 0 {
		t.Fatalf("got %d slots, want 0", len(sess.Slots))
	}
	greeting := sess.Turns[len(sess.Turns)-1].Text
	if !strings.Contains(greeting, "no available slots") {
		t.Fatalf("greeting missing the fallback message: %q", greeting)
	}
}

func TestHandleUtteranceBooksOnHourMatch(t *testing.T) {
	rig := newTestRig()
	sess := mustStart(t, rig)

	res, err := rig.ctrl.HandleUtterance(context.Background(), sess, "10 in the morning works for me")
	if err != nil {
		t.Fatalf("HandleUtterance failed: %v", err)
	}
	if res.Stage != models.StageTerminal {
		t.Fatalf("stage = %q, want terminal", res.Stage)
	}
	if res.Appointment == nil {
		t.Fatal("no appointment on the result")
	}

	wantStart := time.Date(2026, time.January, 12, 10, 0, 0, 0, time.UTC)
	if !res.Appointment.Slot.Start.Equal(wantStart) {
		t.Fatalf("booked slot start = %v, want %v", res.Appointment.Slot.Start, wantStart)
	}
	if len(rig.cal.inserts) != 1 {
		t.Fatalf("calendar inserts = %d, want exactly 1", len(rig.cal.inserts))
	}
	if !rig.cal.inserts[0].Start.Equal(wantStart) {
		t.Fatalf("calendar event start = %v, want %v", rig.cal.inserts[0].Start, wantStart)
	}
	if len(rig.repo.updates) == 0 {
		t.Fatal("booking record never updated")
	}
	last := rig.repo.updates[len(rig.repo.updates)-1]
	if last.Appointment == nil || !last.Appointment.Slot.Start.Equal(wantStart) {
		t.Fatalf("record appointment mismatch: %+v", last.Appointment)
	}
	if !strings.Contains(res.Reply, res.Appointment.Slot.Label) {
		t.Fatalf("reply does not name the booked slot: %q", res.Reply)
	}
	if !strings.Contains(res.Reply, res.Appointment.Expert) {
		t.Fatalf("reply does not name the expert: %q", res.Reply)
	}
}

func TestHandleUtteranceDelegatesOnNoMatch(t *testing.T) {
	rig := newTestRig()
	sess := mustStart(t, rig)

	res, err := rig.ctrl.HandleUtterance(context.Background(), sess, "what services do you provide")
	if err != nil {
		t.Fatalf("HandleUtterance failed: %v", err)
	}
	if rig.ai.calls != 1 {
		t.Fatalf("model calls = %d, want 1", rig.ai.calls)
	}
	if res.Reply != rig.ai.reply {
		t.Fatalf("reply = %q, want the model reply", res.Reply)
	}
	if res.Stage != models.StageAwaitingSpeech {
		t.Fatalf("stage = %q, want awaitingSpeech", res.Stage)
	}
	if len(rig.cal.inserts) != 0 {
		t.Fatal("a delegated turn must not write to the calendar")
	}
	// The model sees the system turn plus the dialogue so far.
	if len(rig.ai.turns) < 3 || rig.ai.turns[0].Role != models.RoleSystem {
		t.Fatalf("model context malformed: %d turns", len(rig.ai.turns))
	}
}

func TestHandleUtteranceModelFailureReturnsToListening(t *testing.T) {
	rig := newTestRig()
	rig.ai.err = utils.NewServiceError(utils.CodeUpstreamUnavailable, "model unavailable", nil)
	sess := mustStart(t, rig)

	res, err := rig.ctrl.HandleUtterance(context.Background(), sess, "tell me about your services")
	if err != nil {
		t.Fatalf("HandleUtterance failed: %v", err)
	}
	if res.Stage != models.StageAwaitingSpeech {
		t.Fatalf("stage = %q, want awaitingSpeech", res.Stage)
	}
	if !strings.Contains(res.Reply, "didn't catch") {
		t.Fatalf("reply = %q, want the re-prompt fallback", res.Reply)
	}
}

func TestHandleUtteranceCommitFailureReturnsToListening(t *testing.T) {
	rig := newTestRig()
	sess := mustStart(t, rig)
	rig.cal.insertErr = utils.NewServiceError(utils.CodeUpstreamUnavailable, "calendar down", nil)

	res, err := rig.ctrl.HandleUtterance(context.Background(), sess, "the first one")
	if err != nil {
		t.Fatalf("HandleUtterance failed: %v", err)
	}
	if res.Stage != models.StageAwaitingSpeech {
		t.Fatalf("stage = %q, want awaitingSpeech", res.Stage)
	}
	if res.Appointment != nil {
		t.Fatal("failed commit must not set an appointment")
	}
	if !strings.Contains(res.Reply, "couldn't confirm") {
		t.Fatalf("reply = %q, want the retry message", res.Reply)
	}
}

func TestHandleUtteranceSlotConflictOffersAlternatives(t *testing.T) {
	rig := newTestRig()
	sess := mustStart(t, rig)

	// The slot fills up between session start and the pick.
	taken := sess.Slots[2]
	rig.cal.busy = []models.BusyInterval{{Start: taken.Start, End: taken.End}}

	res, err := rig.ctrl.HandleUtterance(context.Background(), sess, "at 10")
	if err != nil {
		t.Fatalf("HandleUtterance failed: %v", err)
	}
	if res.Stage != models.StageAwaitingSpeech {
		t.Fatalf("stage = %q, want awaitingSpeech", res.Stage)
	}
	if len(rig.cal.inserts) != 0 {
		t.Fatal("a conflicting slot must not reach the calendar")
	}
	if !strings.Contains(res.Reply, "just taken") || !strings.Contains(res.Reply, sess.Slots[0].Label) {
		t.Fatalf("reply = %q, want an apology with alternatives", res.Reply)
	}
}

func TestTerminalSessionIgnoresFurtherUtterances(t *testing.T) {
	rig := newTestRig()
	sess := mustStart(t, rig)

	if _, err := rig.ctrl.HandleUtterance(context.Background(), sess, "the first one"); err != nil {
		t.Fatalf("booking turn failed: %v", err)
	}
	res, err := rig.ctrl.HandleUtterance(context.Background(), sess, "actually, the second one")
	if err != nil {
		t.Fatalf("post-booking turn failed: %v", err)
	}
	if res.Stage != models.StageTerminal {
		t.Fatalf("stage = %q, want terminal", res.Stage)
	}
	if len(rig.cal.inserts) != 1 {
		t.Fatalf("calendar inserts = %d, want 1 (no rebooking after terminal)", len(rig.cal.inserts))
	}
}

func TestEmptyUtteranceKeepsListening(t *testing.T) {
	rig := newTestRig()
	sess := mustStart(t, rig)
	turnsBefore := len(sess.Turns)

	res, err := rig.ctrl.HandleUtterance(context.Background(), sess, "   ")
	if err != nil {
		t.Fatalf("HandleUtterance failed: %v", err)
	}
	if res.Stage != models.StageAwaitingSpeech || res.Reply != "" {
		t.Fatalf("empty utterance result = %+v, want silent re-listen", res)
	}
	if len(sess.Turns) != turnsBefore {
		t.Fatal("empty utterance must not append turns")
	}
}

func TestSelectSlot(t *testing.T) {
	rig := newTestRig()
	sess := mustStart(t, rig)

	res, err := rig.ctrl.SelectSlot(context.Background(), sess, 1)
	if err != nil {
		t.Fatalf("SelectSlot failed: %v", err)
	}
	if res.Stage != models.StageTerminal || res.Appointment == nil {
		t.Fatalf("select result = %+v, want terminal with appointment", res)
	}
	if !res.Appointment.Slot.Start.Equal(sess.Slots[1].Start) {
		t.Fatalf("booked slot = %v, want %v", res.Appointment.Slot.Start, sess.Slots[1].Start)
	}
}

func TestSelectSlotOutOfRange(t *testing.T) {
	rig := newTestRig()
	sess := mustStart(t, rig)
	if _, err := rig.ctrl.SelectSlot(context.Background(), sess, 7); err == nil {
		t.Fatal("expected an error for an out-of-range index")
	}
}

func TestEndFlushesRecordAndQueuesSummary(t *testing.T) {
	rig := newTestRig()
	sess := mustStart(t, rig)

	res, err := rig.ctrl.End(context.Background(), sess)
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if res.Stage != models.StageTerminal {
		t.Fatalf("stage = %q, want terminal", res.Stage)
	}
	if len(rig.repo.updates) == 0 {
		t.Fatal("final booking update missing")
	}
	final := rig.repo.updates[len(rig.repo.updates)-1]
	if final.Transcript == "" || !strings.HasPrefix(final.Transcript, "Sofia: ") {
		t.Fatalf("final transcript = %q", final.Transcript)
	}
	if len(rig.enq.bookingIDs) != 1 || rig.enq.bookingIDs[0] != "bk-1" {
		t.Fatalf("summary enqueue = %v, want one task for bk-1", rig.enq.bookingIDs)
	}
	if rig.enq.transcripts[0] != sess.Transcript {
		t.Fatal("enqueued transcript does not match the session transcript")
	}
}

func TestRunDrivesCallToCompletion(t *testing.T) {
	rig := newTestRig()
	sess := mustStart(t, rig)
	spio := &scriptedSpeech{utterances: []string{"the first one"}}

	if err := rig.ctrl.Run(context.Background(), sess, spio); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sess.Stage != models.StageTerminal {
		t.Fatalf("stage = %q, want terminal", sess.Stage)
	}
	if len(rig.cal.inserts) != 1 {
		t.Fatalf("calendar inserts = %d, want 1", len(rig.cal.inserts))
	}
	if len(spio.spoken) != 2 {
		t.Fatalf("spoken lines = %d, want greeting plus confirmation", len(spio.spoken))
	}
	if !strings.Contains(spio.spoken[1], "confirmed") {
		t.Fatalf("confirmation line = %q", spio.spoken[1])
	}
	if len(rig.enq.bookingIDs) != 1 {
		t.Fatalf("summary enqueue count = %d, want 1", len(rig.enq.bookingIDs))
	}
}

func TestRunParksSessionIdleWhenManualListenCapturesNothing(t *testing.T) {
	rig := newTestRig()
	sess := mustStart(t, rig)
	sess.AutoListen = false
	spio := &scriptedSpeech{utterances: []string{""}}

	if err := rig.ctrl.Run(context.Background(), sess, spio); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sess.Stage != models.StageIdle {
		t.Fatalf("stage = %q, want idle after a silent manual capture", sess.Stage)
	}
	if len(rig.cal.inserts) != 0 {
		t.Fatal("nothing should be booked on a silent call")
	}
	if len(rig.enq.bookingIDs) != 0 {
		t.Fatal("an idle park must not enqueue a summary")
	}
	stored, err := rig.sto.Get(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if stored.Stage != models.StageIdle {
		t.Fatalf("persisted stage = %q, want idle", stored.Stage)
	}
}

func TestRunCancellationStillEnds(t *testing.T) {
	rig := newTestRig()
	sess := mustStart(t, rig)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := rig.ctrl.Run(ctx, sess, &scriptedSpeech{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sess.Stage != models.StageTerminal {
		t.Fatalf("stage = %q, want terminal after cancellation", sess.Stage)
	}
	if len(rig.enq.bookingIDs) != 1 {
		t.Fatalf("summary enqueue count = %d, want 1 despite cancellation", len(rig.enq.bookingIDs))
	}
}
