package slots

import (
	"testing"
	"time"

	"voicebook/models"
)

func testGenerator() Generator {
	return Generator{
		Open:     9,
		Close:    18,
		Duration: 30 * time.Minute,
		Horizon:  48 * time.Hour,
		Max:      5,
		Locale:   LookupDisplayLocale("es"),
		Location: time.UTC,
	}
}

// 2026-01-12 is a Monday.
func monday(hour, min int) time.Time {
	return time.Date(2026, time.January, 12, hour, min, 0, 0, time.UTC)
}

func TestGenerateRoundsUpToHalfHour(t *testing.T) {
	g := testGenerator()

	got := g.Generate(monday(9, 12), nil)
	if len(got) == 0 {
		t.Fatal("expected slots, got none")
	}
	if want := monday(9, 30); !got[0].Start.Equal(want) {
		t.Fatalf("first slot start = %v, want %v", got[0].Start, want)
	}

	got = g.Generate(monday(9, 42), nil)
	if want := monday(10, 0); !got[0].Start.Equal(want) {
		t.Fatalf("first slot start = %v, want %v", got[0].Start, want)
	}
}

func TestGenerateBeforeOpeningStartsAtOpen(t *testing.T) {
	g := testGenerator()
	got := g.Generate(monday(8, 45), nil)
	if len(got) != 5 {
		t.Fatalf("got %d slots, want 5", len(got))
	}
	if want := monday(9, 0); !got[0].Start.Equal(want) {
		t.Fatalf("first slot start = %v, want %v", got[0].Start, want)
	}
}

func TestGenerateLateAfternoonRollsToNextDay(t *testing.T) {
	g := testGenerator()
	got := g.Generate(monday(17, 45), nil)
	if len(got) == 0 {
		t.Fatal("expected slots, got none")
	}
	// 18:00-18:30 would end past close, so the next day opens the list.
	want := time.Date(2026, time.January, 13, 9, 0, 0, 0, time.UTC)
	if !got[0].Start.Equal(want) {
		t.Fatalf("first slot start = %v, want %v", got[0].Start, want)
	}
}

func TestGenerateSkipsBusyIntervals(t *testing.T) {
	g := testGenerator()
	busy := []models.BusyInterval{
		{Start: monday(9, 0), End: monday(10, 0)},
	}
	got := g.Generate(monday(8, 0), busy)
	if len(got) != 5 {
		t.Fatalf("got %d slots, want 5", len(got))
	}
	if want := monday(10, 0); !got[0].Start.Equal(want) {
		t.Fatalf("first slot start = %v, want %v", got[0].Start, want)
	}
	for _, s := range got {
		for _, b := range busy {
			if b.Overlaps(s.Start, s.End) {
				t.Fatalf("slot %v overlaps busy interval %v", s.Start, b)
			}
		}
	}
}

func TestGenerateCapAndOrdering(t *testing.T) {
	g := testGenerator()
	got := g.Generate(monday(8, 0), nil)
	if len(got) != 5 {
		t.Fatalf("got %d slots, want 5", len(got))
	}
	for i, s := range got {
		if s.Start.Hour() < g.Open {
			t.Fatalf("slot %d starts before opening: %v", i, s.Start)
		}
		if s.End.Hour() > g.Close || (s.End.Hour() == g.Close && s.End.Minute() > 0) {
			t.Fatalf("slot %d ends past closing: %v", i, s.End)
		}
		if i > 0 && !got[i-1].Start.Before(s.Start) {
			t.Fatalf("slots not strictly increasing at %d: %v then %v", i, got[i-1].Start, s.Start)
		}
	}
}

func TestGenerateFullyBookedHorizonReturnsEmpty(t *testing.T) {
	g := testGenerator()
	busy := []models.BusyInterval{
		{Start: monday(0, 0), End: monday(0, 0).AddDate(0, 0, 3)},
	}
	got := g.Generate(monday(8, 0), busy)
	if len(got) != 0 {
		t.Fatalf("got %d slots, want 0", len(got))
	}
}

func TestGenerateIgnoresBusyIntervalWithoutEnd(t *testing.T) {
	g := testGenerator()
	busy := []models.BusyInterval{{Start: monday(9, 0)}}
	got := g.Generate(monday(8, 0), busy)
	if len(got) == 0 {
		t.Fatal("expected slots, got none")
	}
	if want := monday(9, 0); !got[0].Start.Equal(want) {
		t.Fatalf("first slot start = %v, want %v", got[0].Start, want)
	}
}

func TestGenerateSpanishLabels(t *testing.T) {
	g := testGenerator()
	got := g.Generate(monday(8, 0), nil)
	if len(got) == 0 {
		t.Fatal("expected slots, got none")
	}
	if want := "lunes, 12 de enero, 9 de la mañana"; got[0].Label != want {
		t.Fatalf("label = %q, want %q", got[0].Label, want)
	}
	if want := "lunes, 12 de enero, 9:30 de la mañana"; got[1].Label != want {
		t.Fatalf("label = %q, want %q", got[1].Label, want)
	}
}

func TestFormatSlotEnglishAfternoon(t *testing.T) {
	loc := LookupDisplayLocale("en-US")
	got := loc.FormatSlot(monday(15, 30))
	if want := "Monday, January 12, 3:30 PM"; got != want {
		t.Fatalf("label = %q, want %q", got, want)
	}
}
