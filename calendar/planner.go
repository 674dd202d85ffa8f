package calendar

import (
	"context"
	"time"

	"studio-backend/apiclient"
)

// Planner keeps a Week in sync with the booking API.
type Planner struct {
	api  *apiclient.Client
	week *Week
}

func NewPlanner(api *apiclient.Client, anchor time.Time, loc *time.Location) *Planner {
	return &Planner{api: api, week: NewWeek(anchor, loc)}
}

func (p *Planner) Week() *Week { return p.week }

// Refresh reloads the shown week from the API.
func (p *Planner) Refresh(ctx context.Context) error {
	appts, err := p.api.ListAppointments(ctx, p.week.Range())
	if err != nil {
		return err
	}
	p.week.Place(appts)
	return nil
}

func (p *Planner) NextWeek(ctx context.Context) error {
	p.week = p.week.Next()
	return p.Refresh(ctx)
}

func (p *Planner) PrevWeek(ctx context.Context) error {
	p.week = p.week.Prev()
	return p.Refresh(ctx)
}

// Book creates an appointment in a free cell and refreshes the week.
func (p *Planner) Book(ctx context.Context, day time.Time, hour int, clientID string, serviceIDs []string, notes *string) (*apiclient.Appointment, error) {
	req, err := p.week.BookingRequest(day, hour, clientID, serviceIDs, notes)
	if err != nil {
		return nil, err
	}
	appt, err := p.api.CreateAppointment(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := p.Refresh(ctx); err != nil {
		return appt, err
	}
	return appt, nil
}
