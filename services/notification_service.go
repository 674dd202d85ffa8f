package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"

	"studio-backend/models"
)

const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"

	notificationSent   = "sent"
	notificationFailed = "failed"
)

// Notifier delivers a templated message about an appointment to its client.
type Notifier interface {
	Notify(ctx context.Context, kind string, appt *models.Appointment) error
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, *models.Appointment) error { return nil }

// Sender is one delivery channel. Channel returns "" when the client cannot be
// reached through it.
type Sender interface {
	Channel(client *models.Client) string
	Send(ctx context.Context, client *models.Client, subject, body string) error
}

// NotificationService renders the active template for a kind and hands it to
// every sender able to reach the client, logging each attempt.
type NotificationService struct {
	db      *gorm.DB
	loc     *time.Location
	senders []Sender
}

func NewNotificationService(db *gorm.DB, loc *time.Location, senders ...Sender) *NotificationService {
	if loc == nil {
		loc = time.UTC
	}
	return &NotificationService{db: db, loc: loc, senders: senders}
}

func (s *NotificationService) Notify(ctx context.Context, kind string, appt *models.Appointment) error {
	if appt.Client == nil {
		return fmt.Errorf("appointment %s has no client loaded", appt.ID)
	}
	tmpl, err := s.template(ctx, kind)
	if err != nil {
		return err
	}
	body := RenderTemplate(tmpl, appt, s.loc)
	subject := "Seu horário"
	if kind == models.TemplateReminder {
		subject = "Lembrete do seu horário"
	}

	var errs []error
	for _, sender := range s.senders {
		channel := sender.Channel(appt.Client)
		if channel == "" {
			continue
		}
		entry := models.NotificationLog{
			AppointmentID: appt.ID,
			ClientID:      appt.ClientID,
			Kind:          kind,
			Channel:       channel,
			Message:       body,
			Status:        notificationSent,
			SentAt:        time.Now().UTC(),
		}
		if err := sender.Send(ctx, appt.Client, subject, body); err != nil {
			entry.Status = notificationFailed
			entry.ErrorMessage = err.Error()
			errs = append(errs, fmt.Errorf("%s: %w", channel, err))
		} else {
			slog.Info("notification sent",
				slog.String("kind", kind), slog.String("channel", channel), slog.String("appointment", appt.ID.String()))
		}
		if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
			slog.Error("failed to log notification", slog.String("appointment", appt.ID.String()), slog.Any("error", err))
		}
	}
	return errors.Join(errs...)
}

func (s *NotificationService) template(ctx context.Context, kind string) (string, error) {
	var tmpl models.MessageTemplate
	err := s.db.WithContext(ctx).Where("kind = ? AND is_active = ?", kind, true).First(&tmpl).Error
	if err == nil {
		return tmpl.Message, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if text, ok := models.DefaultTemplates[kind]; ok {
		return text, nil
	}
	return "", fmt.Errorf("%w: no template for %q", ErrNotFound, kind)
}

// RenderTemplate fills the [ClientName], [Date], [Time] and [Services]
// placeholders. Dates are shown in the studio timezone.
func RenderTemplate(text string, appt *models.Appointment, loc *time.Location) string {
	names := make([]string, 0, len(appt.Services))
	for _, s := range appt.Services {
		names = append(names, s.Name)
	}
	clientName := ""
	if appt.Client != nil {
		clientName = appt.Client.Name
	}
	start := appt.Date.In(loc)
	r := strings.NewReplacer(
		"[ClientName]", clientName,
		"[Date]", start.Format("02/01/2006"),
		"[Time]", start.Format("15:04"),
		"[Services]", strings.Join(names, ", "),
	)
	return r.Replace(text)
}

// TwilioSender prefers WhatsApp when a WhatsApp sender number is configured
// and falls back to SMS.
type TwilioSender struct {
	client       *twilio.RestClient
	smsFrom      string
	whatsAppFrom string
}

func NewTwilioSender(accountSID, authToken, smsFrom, whatsAppFrom string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		smsFrom:      smsFrom,
		whatsAppFrom: whatsAppFrom,
	}
}

func (t *TwilioSender) Channel(client *models.Client) string {
	if client.Phone == "" {
		return ""
	}
	if t.whatsAppFrom != "" && strings.HasPrefix(client.Phone, "+") {
		return ChannelWhatsApp
	}
	if t.smsFrom != "" {
		return ChannelSMS
	}
	return ""
}

func (t *TwilioSender) Send(_ context.Context, client *models.Client, _, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetBody(body)
	if t.Channel(client) == ChannelWhatsApp {
		params.SetTo("whatsapp:" + client.Phone)
		params.SetFrom("whatsapp:" + t.whatsAppFrom)
	} else {
		params.SetTo(client.Phone)
		params.SetFrom(t.smsFrom)
	}

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp.Sid != nil {
		slog.Debug("twilio message queued", slog.String("sid", *resp.Sid))
	}
	return nil
}

type MailSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailSender(host string, port int, user, password, from string) *MailSender {
	return &MailSender{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (m *MailSender) Channel(client *models.Client) string {
	if client.Email == nil || *client.Email == "" {
		return ""
	}
	return ChannelEmail
}

func (m *MailSender) Send(_ context.Context, client *models.Client, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", *client.Email)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}
