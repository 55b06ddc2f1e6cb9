package interpret

import "regexp"

// Meridiem disambiguates a spoken hour.
type Meridiem int

const (
	// MeridiemInfer leaves disambiguation to the business window: bare
	// hours below the opening hour are read as afternoon.
	MeridiemInfer Meridiem = iota
	MeridiemAM
	MeridiemPM
)

// OrdinalRule maps spoken position phrases to a candidate index.
type OrdinalRule struct {
	Phrases []string
	Index   int
}

// HourPattern extracts an hour reference from an utterance. When Fixed is
// non-negative the pattern stands for that hour with no capture group.
type HourPattern struct {
	Re       *regexp.Regexp
	Meridiem Meridiem
	Fixed    int
}

// PhraseLocale holds the utterance patterns for one spoken language.
type PhraseLocale struct {
	Code          string
	Ordinals      []OrdinalRule
	HourPatterns  []HourPattern
	Confirmations []string
	DayReferences []string
}

var phraseLocales = map[string]PhraseLocale{
	"en": {
		Code: "en",
		Ordinals: []OrdinalRule{
			{Phrases: []string{"the first one", "first one", "first", "that one", "this one"}, Index: 0},
			{Phrases: []string{"the second one", "second one", "second"}, Index: 1},
			{Phrases: []string{"the third one", "third"}, Index: 2},
			{Phrases: []string{"fourth"}, Index: 3},
			{Phrases: []string{"fifth"}, Index: 4},
		},
		HourPatterns: []HourPattern{
			{Re: regexp.MustCompile(`(\d{1,2})\s*(?:o'?clock\s*)?in the afternoon`), Meridiem: MeridiemPM, Fixed: -1},
			{Re: regexp.MustCompile(`(\d{1,2})\s*(?:o'?clock\s*)?in the evening`), Meridiem: MeridiemPM, Fixed: -1},
			{Re: regexp.MustCompile(`(\d{1,2})\s*(?:o'?clock\s*)?in the morning`), Meridiem: MeridiemAM, Fixed: -1},
			{Re: regexp.MustCompile(`(\d{1,2})\s*p\.?m\b`), Meridiem: MeridiemPM, Fixed: -1},
			{Re: regexp.MustCompile(`(\d{1,2})\s*a\.?m\b`), Meridiem: MeridiemAM, Fixed: -1},
			{Re: regexp.MustCompile(`\bnoon\b`), Meridiem: MeridiemPM, Fixed: 12},
			{Re: regexp.MustCompile(`\bmidday\b`), Meridiem: MeridiemPM, Fixed: 12},
			{Re: regexp.MustCompile(`\bat\s+(\d{1,2})(?:\s*o'?clock)?\b`), Meridiem: MeridiemInfer, Fixed: -1},
		},
		Confirmations: []string{
			"yes", "yeah", "yep", "sure", "ok", "okay", "perfect",
			"sounds good", "that works", "great", "confirm",
		},
		DayReferences: []string{
			"monday", "tuesday", "wednesday", "thursday", "friday",
			"saturday", "sunday", "today", "tomorrow", "next week",
		},
	},
	"es": {
		Code: "es",
		Ordinals: []OrdinalRule{
			{Phrases: []string{"la primera", "el primero", "primera", "primero", "esa", "ese"}, Index: 0},
			{Phrases: []string{"la segunda", "el segundo", "segunda", "segundo"}, Index: 1},
			{Phrases: []string{"la tercera", "el tercero", "tercera", "tercero"}, Index: 2},
			{Phrases: []string{"cuarta", "cuarto"}, Index: 3},
			{Phrases: []string{"quinta", "quinto"}, Index: 4},
		},
		HourPatterns: []HourPattern{
			{Re: regexp.MustCompile(`(\d{1,2})\s*de la tarde`), Meridiem: MeridiemPM, Fixed: -1},
			{Re: regexp.MustCompile(`(\d{1,2})\s*de la noche`), Meridiem: MeridiemPM, Fixed: -1},
			{Re: regexp.MustCompile(`(\d{1,2})\s*de la mañana`), Meridiem: MeridiemAM, Fixed: -1},
			{Re: regexp.MustCompile(`\bmediod[ií]a\b`), Meridiem: MeridiemPM, Fixed: 12},
			{Re: regexp.MustCompile(`\ba las?\s+(\d{1,2})\b`), Meridiem: MeridiemInfer, Fixed: -1},
		},
		Confirmations: []string{
			"sí", "si", "claro", "perfecto", "vale", "de acuerdo", "confirmo", "está bien",
		},
		DayReferences: []string{
			"lunes", "martes", "miércoles", "jueves", "viernes",
			"sábado", "domingo", "hoy", "mañana", "próxima semana",
		},
	},
}

// LookupPhraseLocale resolves a code such as "en-US", falling back to
// English for unknown codes.
func LookupPhraseLocale(code string) PhraseLocale {
	if len(code) > 2 {
		code = code[:2]
	}
	if loc, ok := phraseLocales[code]; ok {
		return loc
	}
	return phraseLocales["en"]
}
