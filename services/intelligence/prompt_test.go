package ai

import (
	"strings"
	"testing"

	"voicebook/models"
)

func TestRenderTurns(t *testing.T) {
	turns := []models.ConversationTurn{
		{Role: models.RoleSystem, Text: "You are a booking agent."},
		{Role: models.RoleUser, Text: "hello"},
		{Role: models.RoleAssistant, Text: "Hi, which time works for you?"},
	}
	got := renderTurns(turns)
	want := "[instructions] You are a booking agent.\n" +
		"User: hello\n" +
		"Assistant: Hi, which time works for you?\n" +
		"Assistant:"
	if got != want {
		t.Fatalf("renderTurns =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderTurnsEndsWithAssistantCue(t *testing.T) {
	got := renderTurns(nil)
	if got != "Assistant:" {
		t.Fatalf("renderTurns(nil) = %q, want the bare cue", got)
	}
}

func TestSummaryPrompt(t *testing.T) {
	transcript := "Sofia: Hola\nUser: quiero una cita"
	got := summaryPrompt(transcript)
	if !strings.Contains(got, summaryInstruction) {
		t.Fatal("prompt missing the summary instruction")
	}
	if !strings.HasSuffix(got, transcript) {
		t.Fatal("prompt must end with the transcript")
	}
}
