package email

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/frontdesk/frontdesk-api/internal/model"
	"github.com/frontdesk/frontdesk-api/pkg/logger"
)

type Service interface {
	SendAppointmentScheduled(ctx context.Context, payload *model.AppointmentEventPayload) error
	SendAppointmentCancelled(ctx context.Context, payload *model.AppointmentEventPayload) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// To receives all notifications. Patient addresses live in the
	// clinic management system, not in this service.
	To string
}

type service struct {
	dialer *gomail.Dialer
	config Config
	logger *logger.Logger
}

func NewService(config Config, logger *logger.Logger) Service {
	return &service{
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		config: config,
		logger: logger,
	}
}

func (s *service) SendAppointmentScheduled(ctx context.Context, payload *model.AppointmentEventPayload) error {
	subject := fmt.Sprintf("Appointment confirmed: %s", payload.Title)
	body := fmt.Sprintf(
		"Your appointment %q has been scheduled for %s until %s.",
		payload.Title,
		payload.Start.Format(time.RFC1123),
		payload.End.Format(time.RFC1123),
	)
	return s.send(ctx, subject, body)
}

func (s *service) SendAppointmentCancelled(ctx context.Context, payload *model.AppointmentEventPayload) error {
	subject := fmt.Sprintf("Appointment cancelled: %s", payload.Title)
	body := fmt.Sprintf(
		"The appointment %q scheduled for %s has been cancelled.",
		payload.Title,
		payload.Start.Format(time.RFC1123),
	)
	return s.send(ctx, subject, body)
}

func (s *service) send(ctx context.Context, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.From)
	m.SetHeader("To", s.config.To)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			s.logger.Error(err, "failed to send email", "subject", subject)
			return fmt.Errorf("failed to send email: %w", err)
		}
	}

	s.logger.Info("sent notification email", "subject", subject)
	return nil
}
