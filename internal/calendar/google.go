package calendar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"bookbot/internal/schedule"
)

// GoogleOptions configures the Google Calendar backend. Exactly one of
// CredentialsJSON / CredentialsPath is needed; application default
// credentials are used when both are empty.
type GoogleOptions struct {
	CalendarID      string
	CredentialsPath string
	CredentialsJSON string
}

// GoogleProvider implements Provider on the Google Calendar API with
// service-account credentials.
type GoogleProvider struct {
	svc        *gcal.Service
	calendarID string
	log        *zap.Logger
}

func NewGoogleProvider(ctx context.Context, opts GoogleOptions, log *zap.Logger) (*GoogleProvider, error) {
	if log == nil {
		log = zap.NewNop()
	}

	clientOpts := []option.ClientOption{option.WithScopes(gcal.CalendarScope)}
	switch {
	case opts.CredentialsJSON != "":
		clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(opts.CredentialsJSON)))
	case opts.CredentialsPath != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsPath))
	}

	svc, err := gcal.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating calendar client: %w", err)
	}

	id := opts.CalendarID
	if id == "" {
		id = "primary"
	}
	log.Info("google calendar provider ready", zap.String("calendarID", id))
	return &GoogleProvider{svc: svc, calendarID: id, log: log}, nil
}

func (g *GoogleProvider) Events(ctx context.Context, w schedule.Window) ([]Event, error) {
	res, err := g.svc.Events.List(g.calendarID).
		TimeMin(w.Start.Format(time.RFC3339)).
		TimeMax(w.End.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		g.log.Warn("listing events failed", zap.Error(err))
		return nil, &ProviderError{Op: "list events", Err: err}
	}

	events := make([]Event, 0, len(res.Items))
	for _, it := range res.Items {
		if it.Status == "cancelled" {
			continue
		}
		start, err := eventTime(it.Start, w.Start.Location())
		if err != nil {
			continue
		}
		end, err := eventTime(it.End, w.Start.Location())
		if err != nil {
			continue
		}
		events = append(events, Event{
			ID:       it.Id,
			Title:    it.Summary,
			Window:   schedule.Window{Start: start, End: end},
			HTMLLink: it.HtmlLink,
		})
	}
	g.log.Debug("listed events", zap.Int("count", len(events)))
	return events, nil
}

func (g *GoogleProvider) Create(ctx context.Context, w schedule.Window, title, description string) (Event, error) {
	body := &gcal.Event{
		Summary:     title,
		Description: description,
		Start:       &gcal.EventDateTime{DateTime: w.Start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: w.End.Format(time.RFC3339)},
	}
	created, err := g.svc.Events.Insert(g.calendarID, body).Context(ctx).Do()
	if err != nil {
		g.log.Warn("creating event failed", zap.String("title", title), zap.Error(err))
		return Event{}, &ProviderError{Op: "create event", Err: err}
	}
	g.log.Info("event created", zap.String("id", created.Id), zap.String("title", title))
	return Event{ID: created.Id, Title: title, Window: w, HTMLLink: created.HtmlLink}, nil
}

// eventTime handles both timed events (DateTime) and all-day events
// (Date); all-day events block the whole day.
func eventTime(edt *gcal.EventDateTime, loc *time.Location) (time.Time, error) {
	if edt == nil {
		return time.Time{}, fmt.Errorf("missing event time")
	}
	if edt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, edt.DateTime)
		if err != nil {
			return time.Time{}, err
		}
		return t.In(loc), nil
	}
	if edt.Date != "" {
		return time.ParseInLocation("2006-01-02", edt.Date, loc)
	}
	return time.Time{}, fmt.Errorf("missing event time")
}
