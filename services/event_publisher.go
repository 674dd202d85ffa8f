package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"studio-backend/models"
)

const (
	EventAppointmentCreated       = "appointment.created"
	EventAppointmentStatusChanged = "appointment.status_changed"
	EventAppointmentDeleted       = "appointment.deleted"
)

// AppointmentEvent is the JSON body published for every appointment change.
type AppointmentEvent struct {
	Type          string   `json:"type"`
	AppointmentID string   `json:"appointmentId"`
	ClientID      string   `json:"clientId"`
	Status        string   `json:"status"`
	Date          string   `json:"date"`
	EndDate       string   `json:"endDate"`
	TotalPrice    string   `json:"totalPrice"`
	ServiceIDs    []string `json:"serviceIds"`
	OccurredAt    string   `json:"occurredAt"`
}

func NewAppointmentEvent(eventType string, appt *models.Appointment) AppointmentEvent {
	ids := make([]string, 0, len(appt.Services))
	for _, s := range appt.Services {
		ids = append(ids, s.ID.String())
	}
	return AppointmentEvent{
		Type:          eventType,
		AppointmentID: appt.ID.String(),
		ClientID:      appt.ClientID.String(),
		Status:        string(appt.Status),
		Date:          appt.Date.UTC().Format(time.RFC3339),
		EndDate:       appt.EndDate.UTC().Format(time.RFC3339),
		TotalPrice:    appt.TotalPrice.StringFixed(2),
		ServiceIDs:    ids,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
}

type EventPublisher interface {
	Publish(ctx context.Context, event AppointmentEvent) error
}

// NopPublisher drops every event. Used when RABBITMQ_URL is unset.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, AppointmentEvent) error { return nil }

// AMQPPublisher sends each event to a durable queue named after its type.
// A connection is opened per publish; appointment traffic is low.
type AMQPPublisher struct {
	url string
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url}
}

func (p *AMQPPublisher) Publish(ctx context.Context, event AppointmentEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(event.Type, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx, "", event.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}
