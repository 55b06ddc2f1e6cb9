package slots

import (
	"fmt"
	"time"
)

// DisplayLocale carries the strings needed to render a slot label.
type DisplayLocale struct {
	Code       string
	Days       [7]string  // indexed by time.Weekday
	Months     [12]string // indexed by time.Month - 1
	Morning    string
	Afternoon  string
	MonthFirst bool // "enero 12" vs "12 de enero" ordering
}

var displayLocales = map[string]DisplayLocale{
	"es": {
		Code: "es",
		Days: [7]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"},
		Months: [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio",
			"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
		Morning:   "de la mañana",
		Afternoon: "de la tarde",
	},
	"en": {
		Code: "en",
		Days: [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		Months: [12]string{"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December"},
		Morning:    "AM",
		Afternoon:  "PM",
		MonthFirst: true,
	},
}

// LookupDisplayLocale resolves a locale code such as "es" or "en-US",
// falling back to Spanish for unknown codes.
func LookupDisplayLocale(code string) DisplayLocale {
	if len(code) > 2 {
		code = code[:2]
	}
	if loc, ok := displayLocales[code]; ok {
		return loc
	}
	return displayLocales["es"]
}

// FormatSlot renders a slot start in the locale's spoken style, e.g.
// "lunes, 12 de enero, 10:30 de la mañana".
func (l DisplayLocale) FormatSlot(t time.Time) string {
	hour := t.Hour()
	suffix := l.Morning
	if hour >= 12 {
		suffix = l.Afternoon
	}
	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	minuteStr := ""
	if m := t.Minute(); m != 0 {
		minuteStr = fmt.Sprintf(":%02d", m)
	}

	day := l.Days[int(t.Weekday())]
	month := l.Months[int(t.Month())-1]
	if l.MonthFirst {
		return fmt.Sprintf("%s, %s %d, %d%s %s", day, month, t.Day(), hour12, minuteStr, suffix)
	}
	return fmt.Sprintf("%s, %d de %s, %d%s %s", day, t.Day(), month, hour12, minuteStr, suffix)
}
