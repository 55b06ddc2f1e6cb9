package booking

import (
	"time"

	"voicebook/models"
)

// DefaultRoster is the consultation team the shared calendar belongs to.
var DefaultRoster = []models.Expert{
	{Name: "Maria Lopez", Email: "maria.lopez@ideudas.com"},
	{Name: "Juan Perez", Email: "juan.perez@ideudas.com"},
	{Name: "Ana Torres", Email: "ana.torres@ideudas.com"},
}

// AssignExpert picks a roster member from a character sum of the slot's
// start time. The spread is deterministic pseudo-random, not
// calendar-aware load balancing.
func AssignExpert(roster []models.Expert, slot models.TimeSlot) models.Expert {
	if len(roster) == 0 {
		return models.Expert{Name: "Equipo de consultas"}
	}
	sum := 0
	for _, c := range slot.Start.Format(time.RFC3339) {
		sum += int(c)
	}
	if sum < 0 {
		sum = -sum
	}
	return roster[sum%len(roster)]
}
