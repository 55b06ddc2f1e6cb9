package slots

import (
	"time"

	"voicebook/config"
	"voicebook/models"
)

// Generator produces candidate free slots inside the business window. It is
// a pure function of its inputs: the caller supplies "now" and the busy
// intervals, so results are fully deterministic.
type Generator struct {
	Open     int           // first bookable hour of the day
	Close    int           // hour the window ends; a slot may not run past it
	Duration time.Duration // slot length
	Horizon  time.Duration // how far ahead to search
	Max      int           // cap on returned slots
	Locale   DisplayLocale
	Location *time.Location
}

// NewGenerator builds a Generator from the application config.
func NewGenerator() (Generator, error) {
	cfg := config.AppConfig
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return Generator{}, err
	}
	return Generator{
		Open:     cfg.BusinessOpenHour,
		Close:    cfg.BusinessCloseHour,
		Duration: time.Duration(cfg.SlotDurationMin) * time.Minute,
		Horizon:  time.Duration(cfg.SearchHorizonHours) * time.Hour,
		Max:      cfg.MaxSlots,
		Locale:   LookupDisplayLocale(cfg.DisplayLocale),
		Location: loc,
	}, nil
}

// Generate walks forward from now in fixed increments and collects free
// slots, earliest first. An empty result is valid: the caller presents a
// fallback message instead of retrying.
func (g Generator) Generate(now time.Time, busy []models.BusyInterval) []models.TimeSlot {
	now = now.In(g.Location)
	horizonEnd := now.Add(g.Horizon)
	current := g.alignStart(now)

	slots := make([]models.TimeSlot, 0, g.Max)
	for current.Before(horizonEnd) && len(slots) < g.Max {
		slotEnd := current.Add(g.Duration)
		if !g.withinWindow(current, slotEnd) {
			current = g.nextOpening(current)
			continue
		}
		if conflicts(current, slotEnd, busy) {
			current = slotEnd
			continue
		}
		slots = append(slots, models.TimeSlot{
			Start: current,
			End:   slotEnd,
			Label: g.Locale.FormatSlot(current),
		})
		current = slotEnd
	}
	return slots
}

// alignStart rounds now forward to the next half-hour boundary, jumping to
// the next opening when outside the business window.
func (g Generator) alignStart(now time.Time) time.Time {
	if now.Hour() >= g.Close {
		return g.nextOpening(now)
	}
	if now.Hour() < g.Open {
		return g.atHour(now, g.Open, 0)
	}
	switch m := now.Minute(); {
	case m == 0:
		return g.atHour(now, now.Hour(), 0)
	case m <= 30:
		return g.atHour(now, now.Hour(), 30)
	default:
		return g.atHour(now, now.Hour()+1, 0)
	}
}

func (g Generator) nextOpening(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	return g.atHour(next, g.Open, 0)
}

func (g Generator) atHour(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, g.Location)
}

// withinWindow requires both ends of the candidate inside business hours of
// the same calendar day.
func (g Generator) withinWindow(start, end time.Time) bool {
	if start.Day() != end.Day() {
		return false
	}
	if start.Hour() < g.Open {
		return false
	}
	if end.Hour() > g.Close {
		return false
	}
	if end.Hour() == g.Close && end.Minute() > 0 {
		return false
	}
	return true
}

// conflicts applies the half-open overlap test against every busy interval.
// A busy interval with a zero end never conflicts.
func conflicts(start, end time.Time, busy []models.BusyInterval) bool {
	for _, b := range busy {
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}
