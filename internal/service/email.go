package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"toolshare-backend/internal/domain"
	"toolshare-backend/internal/logger"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)

	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	logger.ExternalServiceCall("sendgrid", "send", "to", to, "subject", subject)
	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	logger.ExternalServiceResult("sendgrid", "send", err)

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendBookingConfirmation(ctx context.Context, email, name, toolName string, booking *domain.Booking) error {
	subject := fmt.Sprintf("Booking Confirmed: %s", toolName)
	plainText := fmt.Sprintf(
		"Hi %s,\n\nYour booking of %s is confirmed.\nConfirmation: %s\nPickup: %s\nReturn: %s\nTotal charged: $%s (includes a refundable $%s deposit)\n",
		name, toolName, booking.ConfirmationID,
		booking.StartAt.Format(time.RFC1123),
		booking.EndAt.Format(time.RFC1123),
		booking.GrandTotal.StringFixed(2),
		booking.SecurityDeposit.StringFixed(2),
	)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Booking Confirmed</h2>
				<p>Hi %s, your booking of <strong>%s</strong> is confirmed.</p>
				<p>Confirmation: <strong>%s</strong></p>
				<p>Pickup: %s<br>Return: %s</p>
				<p>Total charged: <strong>$%s</strong> (includes a refundable $%s deposit)</p>
			</body>
		</html>
	`, name, toolName, booking.ConfirmationID,
		booking.StartAt.Format(time.RFC1123),
		booking.EndAt.Format(time.RFC1123),
		booking.GrandTotal.StringFixed(2),
		booking.SecurityDeposit.StringFixed(2),
	)
	return s.send(email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendReturnReminder(ctx context.Context, email, name, toolName string, endAt time.Time) error {
	subject := fmt.Sprintf("Return Reminder: %s", toolName)
	plainText := fmt.Sprintf(
		"Hi %s,\n\nYour rental of %s is due back by %s. Returning on time keeps your deposit intact.\n",
		name, toolName, endAt.Format(time.RFC1123),
	)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Return Reminder</h2>
				<p>Hi %s, your rental of <strong>%s</strong> is due back by <strong>%s</strong>.</p>
				<p>Returning on time keeps your deposit intact.</p>
			</body>
		</html>
	`, name, toolName, endAt.Format(time.RFC1123))
	return s.send(email, name, subject, plainText, htmlContent)
}
