// Package calendar lays appointments out on the admin agenda grid: a
// Monday-start week of six days with one-hour rows from 09:00 to 19:00.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"studio-backend/apiclient"
	"studio-backend/utils"
)

const (
	StartHour = 9
	EndHour   = 20 // exclusive
	DaysShown = 6  // Monday to Saturday
)

var (
	ErrOutsideGrid  = errors.New("slot is outside the agenda grid")
	ErrSlotOccupied = errors.New("slot already has an appointment")
)

// Cell is one hour of one day. Appointments land in the cell of their start
// hour only; a long appointment does not mark the following cells.
type Cell struct {
	Day          time.Time
	Hour         int
	Appointments []apiclient.Appointment
}

func (c *Cell) Start() time.Time {
	return time.Date(c.Day.Year(), c.Day.Month(), c.Day.Day(), c.Hour, 0, 0, 0, c.Day.Location())
}

func (c *Cell) Occupied() bool {
	return len(c.Appointments) > 0
}

type Week struct {
	Start time.Time
	Days  []time.Time

	loc   *time.Location
	cells [DaysShown][EndHour - StartHour]Cell
}

// NewWeek returns the week containing anchor, in loc.
func NewWeek(anchor time.Time, loc *time.Location) *Week {
	if loc == nil {
		loc = time.UTC
	}
	start := utils.BeginningOfWeek(anchor.In(loc))
	w := &Week{Start: start, loc: loc}
	for d := 0; d < DaysShown; d++ {
		day := start.AddDate(0, 0, d)
		w.Days = append(w.Days, day)
		for h := StartHour; h < EndHour; h++ {
			w.cells[d][h-StartHour] = Cell{Day: day, Hour: h}
		}
	}
	return w
}

func (w *Week) Next() *Week { return NewWeek(w.Start.AddDate(0, 0, 7), w.loc) }

func (w *Week) Prev() *Week { return NewWeek(w.Start.AddDate(0, 0, -7), w.loc) }

func (w *Week) Location() *time.Location { return w.loc }

// Range covers the shown days for ListAppointments.
func (w *Week) Range() apiclient.Range {
	return apiclient.Between(w.Days[0], w.Days[DaysShown-1])
}

func Hours() []int {
	hours := make([]int, 0, EndHour-StartHour)
	for h := StartHour; h < EndHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

// Cell returns the cell for day's calendar date and hour.
func (w *Week) Cell(day time.Time, hour int) (*Cell, error) {
	idx := utils.DaysBetween(w.Start, day.In(w.loc))
	if idx < 0 || idx >= DaysShown || hour < StartHour || hour >= EndHour {
		return nil, ErrOutsideGrid
	}
	return &w.cells[idx][hour-StartHour], nil
}

// Place clears the grid and files every appointment under its start day and
// hour. Appointments outside the grid are returned.
func (w *Week) Place(appts []apiclient.Appointment) []apiclient.Appointment {
	for d := range w.cells {
		for h := range w.cells[d] {
			w.cells[d][h].Appointments = nil
		}
	}

	var outside []apiclient.Appointment
	for _, a := range appts {
		start := a.Date.In(w.loc)
		cell, err := w.Cell(start, start.Hour())
		if err != nil {
			outside = append(outside, a)
			continue
		}
		cell.Appointments = append(cell.Appointments, a)
	}
	return outside
}

// BookingRequest builds the create request for a free cell.
func (w *Week) BookingRequest(day time.Time, hour int, clientID string, serviceIDs []string, notes *string) (apiclient.CreateAppointmentRequest, error) {
	cell, err := w.Cell(day, hour)
	if err != nil {
		return apiclient.CreateAppointmentRequest{}, err
	}
	if cell.Occupied() {
		return apiclient.CreateAppointmentRequest{}, fmt.Errorf("%w: %s", ErrSlotOccupied, cell.Start().Format("Mon 02/01 15:04"))
	}
	return apiclient.CreateAppointmentRequest{
		Date:       cell.Start(),
		ClientID:   clientID,
		ServiceIDs: serviceIDs,
		Notes:      notes,
	}, nil
}

// DefaultSlot is the start time offered by "new appointment": the next full
// hour when current is today (never before StartHour), otherwise StartHour of
// current's day.
func DefaultSlot(now, current time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	current = current.In(loc)

	hour := StartHour
	if utils.DaysBetween(now, current) == 0 {
		if next := now.Hour() + 1; next > StartHour {
			hour = next
		}
	}
	return time.Date(current.Year(), current.Month(), current.Day(), hour, 0, 0, 0, loc)
}
