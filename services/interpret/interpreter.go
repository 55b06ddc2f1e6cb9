package interpret

import (
	"strconv"
	"strings"
	"unicode"

	"voicebook/models"
)

// Match describes a successful interpretation of an utterance.
type Match struct {
	Index  int
	Slot   models.TimeSlot
	Reason string // "ordinal", "hour" or "confirmation"
}

// Interpreter maps one spoken utterance to a candidate slot or to no
// match. It is a pure function of (text, slots): no hidden state, so
// identical inputs always yield identical output.
type Interpreter struct {
	locale   PhraseLocale
	openHour int // bare hours below this are read as afternoon
}

// NewInterpreter builds an Interpreter for a speech locale code such as
// "en-US" or "es".
func NewInterpreter(localeCode string, openHour int) Interpreter {
	return Interpreter{
		locale:   LookupPhraseLocale(localeCode),
		openHour: openHour,
	}
}

// Interpret evaluates the decision rules in strict priority order; the
// first matching rule wins. When several slots share the target hour the
// earliest is chosen. A false return means the caller escalates the turn
// to the language model.
func (i Interpreter) Interpret(text string, slots []models.TimeSlot) (Match, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" || len(slots) == 0 {
		return Match{}, false
	}

	// 1. Ordinal reference ("first", "that one", ...).
	for _, rule := range i.locale.Ordinals {
		for _, phrase := range rule.Phrases {
			if !containsPhrase(text, phrase) {
				continue
			}
			if rule.Index >= len(slots) {
				return Match{}, false
			}
			return Match{Index: rule.Index, Slot: slots[rule.Index], Reason: "ordinal"}, true
		}
	}

	// 2. Explicit hour reference.
	if hour, ok := i.targetHour(text); ok {
		for idx, s := range slots {
			if s.Start.Hour() == hour%24 {
				return Match{Index: idx, Slot: s, Reason: "hour"}, true
			}
		}
		return Match{}, false
	}

	// 3. Generic confirmation, unless a competing day reference is present.
	if i.confirms(text) && !i.mentionsDay(text) {
		return Match{Index: 0, Slot: slots[0], Reason: "confirmation"}, true
	}

	return Match{}, false
}

// targetHour extracts a 24-hour target from the utterance.
func (i Interpreter) targetHour(text string) (int, bool) {
	for _, p := range i.locale.HourPatterns {
		m := p.Re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if p.Fixed >= 0 {
			return p.Fixed, true
		}
		h, err := strconv.Atoi(m[1])
		if err != nil || h > 23 {
			continue
		}
		switch p.Meridiem {
		case MeridiemPM:
			if h < 12 {
				h += 12
			}
		case MeridiemAM:
			if h == 12 {
				h = 0
			}
		default:
			if h < i.openHour {
				h += 12
			}
		}
		return h % 24, true
	}
	return 0, false
}

func (i Interpreter) confirms(text string) bool {
	for _, phrase := range i.locale.Confirmations {
		if containsPhrase(text, phrase) {
			return true
		}
	}
	return false
}

func (i Interpreter) mentionsDay(text string) bool {
	for _, phrase := range i.locale.DayReferences {
		if containsPhrase(text, phrase) {
			return true
		}
	}
	return false
}

// containsPhrase matches multi-word phrases as substrings and single words
// on word boundaries, so "ok" does not fire inside "broker".
func containsPhrase(text, phrase string) bool {
	if strings.ContainsRune(phrase, ' ') {
		return strings.Contains(text, phrase)
	}
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range words {
		if w == phrase {
			return true
		}
	}
	return false
}
