package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
)

type mailClient interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridEmailService struct {
	client    mailClient
	fromEmail string
	fromName  string
}

// NewEmailService returns a SendGrid backed sender, or a sender that only
// logs when apiKey is empty.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	if apiKey == "" {
		return noopEmailService{}
	}
	return &sendGridEmailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) send(ctx context.Context, toEmail, toName, subject, plainText string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger.ExternalServiceCall("sendgrid", "Send", "to", toEmail, "subject", subject)

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	response, err := s.client.Send(message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	} else if err != nil {
		err = fmt.Errorf("failed to send email: %w", err)
	}
	logger.ExternalServiceResult("sendgrid", "Send", err, "to", toEmail)
	return err
}

func (s *sendGridEmailService) SendIncidentStatusEmail(ctx context.Context, toEmail, toName, incidentTitle string, status domain.IncidentStatus, message string) error {
	subject := fmt.Sprintf("Incident update: %s", incidentTitle)
	body := fmt.Sprintf("Hello %s,\n\n%s\n\nIncident: %s\nStatus: %s\n\nThe Rentdesk Team", toName, message, incidentTitle, status)
	return s.send(ctx, toEmail, toName, subject, body)
}

func (s *sendGridEmailService) SendApplicationReceivedEmail(ctx context.Context, ownerEmail, ownerName, tenantName, propertyTitle string) error {
	subject := fmt.Sprintf("New application for %s", propertyTitle)
	body := fmt.Sprintf("Hello %s,\n\n%s has applied for your property \"%s\".\n\nThe Rentdesk Team", ownerName, tenantName, propertyTitle)
	return s.send(ctx, ownerEmail, ownerName, subject, body)
}

func (s *sendGridEmailService) SendApplicationDecisionEmail(ctx context.Context, tenantEmail, tenantName, propertyTitle string, status domain.ApplicationStatus) error {
	subject := fmt.Sprintf("Your application for %s", propertyTitle)
	body := fmt.Sprintf("Hello %s,\n\nYour application for \"%s\" has been %s.\n\nThe Rentdesk Team", tenantName, propertyTitle, status)
	return s.send(ctx, tenantEmail, tenantName, subject, body)
}

func (s *sendGridEmailService) SendDraftReminderEmail(ctx context.Context, tenantEmail, tenantName, incidentTitle string) error {
	subject := "You have an unsubmitted incident"
	body := fmt.Sprintf("Hello %s,\n\nYour incident \"%s\" is still a draft. Submit it so your landlord can take care of it.\n\nThe Rentdesk Team", tenantName, incidentTitle)
	return s.send(ctx, tenantEmail, tenantName, subject, body)
}

type noopEmailService struct{}

func (noopEmailService) SendIncidentStatusEmail(ctx context.Context, toEmail, toName, incidentTitle string, status domain.IncidentStatus, message string) error {
	logger.Debug("Email disabled, skipping incident status email", "to", toEmail, "status", status)
	return nil
}

func (noopEmailService) SendApplicationReceivedEmail(ctx context.Context, ownerEmail, ownerName, tenantName, propertyTitle string) error {
	logger.Debug("Email disabled, skipping application received email", "to", ownerEmail)
	return nil
}

func (noopEmailService) SendApplicationDecisionEmail(ctx context.Context, tenantEmail, tenantName, propertyTitle string, status domain.ApplicationStatus) error {
	logger.Debug("Email disabled, skipping application decision email", "to", tenantEmail, "status", status)
	return nil
}

func (noopEmailService) SendDraftReminderEmail(ctx context.Context, tenantEmail, tenantName, incidentTitle string) error {
	logger.Debug("Email disabled, skipping draft reminder email", "to", tenantEmail)
	return nil
}
