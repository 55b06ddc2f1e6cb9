package calendar

import (
	"context"
	"fmt"
	"time"

	"voicebook/config"
	"voicebook/models"
	"voicebook/utils"

	"github.com/google/uuid"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// transparencyFree marks events that do not block the owner's time.
const transparencyFree = "transparent"

type googleProvider struct {
	svc        *gcal.Service
	calendarID string
	timezone   string
}

// NewGoogleProvider builds a Provider backed by the configured Google
// calendar. Missing credentials are fatal for the caller, not retried.
func NewGoogleProvider() (Provider, error) {
	cfg := config.AppConfig
	if cfg.GoogleServiceAccountFile == "" || cfg.CalendarID == "" {
		return nil, utils.NewServiceError(utils.CodeConfigurationMissing, "calendar credentials not configured", nil)
	}
	svc, err := gcal.NewService(context.Background(),
		option.WithCredentialsFile(cfg.GoogleServiceAccountFile),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, utils.NewServiceError(utils.CodeConfigurationMissing, "failed to build calendar client", err)
	}
	return &googleProvider{
		svc:        svc,
		calendarID: cfg.CalendarID,
		timezone:   cfg.Timezone,
	}, nil
}

func (p *googleProvider) ListBusy(ctx context.Context, from, to time.Time) ([]models.BusyInterval, error) {
	events, err := p.svc.Events.List(p.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).Do()
	if err != nil {
		return nil, utils.NewServiceError(utils.CodeUpstreamUnavailable, "calendar read failed", err)
	}

	var busy []models.BusyInterval
	for _, ev := range events.Items {
		if ev.Transparency == transparencyFree {
			continue
		}
		busy = append(busy, models.BusyInterval{
			Start: parseEventTime(ev.Start),
			End:   parseEventTime(ev.End),
		})
	}
	return busy, nil
}

// parseEventTime accepts both timed and all-day event boundaries. Anything
// unparseable yields the zero time, which downstream treats as a
// zero-length interval.
func parseEventTime(edt *gcal.EventDateTime) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t
		}
	}
	if edt.Date != "" {
		if t, err := time.Parse("2006-01-02", edt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (p *googleProvider) InsertConsultation(ctx context.Context, slot models.TimeSlot, contact models.Contact, expert models.Expert) (*InsertedEvent, error) {
	event := &gcal.Event{
		Summary:     fmt.Sprintf("Consulta Gratuita - %s", contact.Name),
		Description: consultationDescription(contact, expert),
		Start:       &gcal.EventDateTime{DateTime: slot.Start.Format(time.RFC3339), TimeZone: p.timezone},
		End:         &gcal.EventDateTime{DateTime: slot.End.Format(time.RFC3339), TimeZone: p.timezone},
		// Green; consultation events are picked out by color elsewhere.
		ColorId: "10",
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "popup", Minutes: 30},
				{Method: "popup", Minutes: 10},
			},
			ForceSendFields: []string{"UseDefault"},
		},
		ConferenceData: &gcal.ConferenceData{
			CreateRequest: &gcal.CreateConferenceRequest{
				RequestId:             uuid.New().String(),
				ConferenceSolutionKey: &gcal.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		},
	}

	created, err := p.svc.Events.Insert(p.calendarID, event).
		ConferenceDataVersion(1).
		Context(ctx).Do()
	if err != nil {
		return nil, utils.NewServiceError(utils.CodeUpstreamUnavailable, "calendar write failed", err)
	}

	var meet string
	if created.ConferenceData != nil {
		for _, ep := range created.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				meet = ep.Uri
				break
			}
		}
	}
	return &InsertedEvent{EventID: created.Id, MeetLink: meet}, nil
}

// The service account has no domain-wide delegation, so attendees get no
// automatic invitation; contact details go into the description for the
// expert to follow up manually.
func consultationDescription(contact models.Contact, expert models.Expert) string {
	phone := contact.Phone
	if phone == "" {
		phone = "No proporcionado"
	}
	return fmt.Sprintf(`CONSULTA GRATUITA SIN COMPROMISO

DATOS DEL CLIENTE:
- Nombre: %s
- Email: %s
- Teléfono: %s

Experto asignado: %s

Esta es una consulta gratuita de 30 minutos.

IMPORTANTE: Contactar al cliente en %s o %s para confirmar la cita y enviar el enlace de la videollamada.`,
		contact.Name, contact.Email, phone, expert.Name, contact.Email, phone)
}
