package services

import (
	"context"
	"fmt"

	"guidely/internal/models"
	"guidely/pkg/logger"
	"guidely/pkg/mailer"
	"guidely/pkg/sms"
)

// NotificationService delivers transactional email and SMS. Every send
// returns a bool: notifications are best effort, and callers that need
// delivery to be fatal (the password reset flow) check the result.
type NotificationService interface {
	SendWelcomeEmail(ctx context.Context, name, email string) bool
	SendPasswordResetEmail(ctx context.Context, name, email, resetLink string) bool
	SendGuideCredentialsEmail(ctx context.Context, name, email, password string) bool
	SendPaymentLinkEmail(ctx context.Context, name, email string, amount float64, paymentLink string) bool
	SendBookingConfirmationEmail(ctx context.Context, booking *models.Booking) bool
	SendBookingConfirmationSMS(ctx context.Context, booking *models.Booking) bool
	SendEmail(ctx context.Context, to, subject, body string) bool
}

type notificationService struct {
	mailer      *mailer.Mailer
	smsProvider sms.Provider
	appName     string
	frontendURL string
	logger      *logger.Logger
}

func NewNotificationService(m *mailer.Mailer, smsProvider sms.Provider, appName, frontendURL string, log *logger.Logger) NotificationService {
	return &notificationService{
		mailer:      m,
		smsProvider: smsProvider,
		appName:     appName,
		frontendURL: frontendURL,
		logger:      log,
	}
}

func (s *notificationService) SendWelcomeEmail(ctx context.Context, name, email string) bool {
	subject := fmt.Sprintf("Welcome to %s", s.appName)
	body := welcomeEmailBody(s.appName, name, s.frontendURL)
	return s.SendEmail(ctx, email, subject, body)
}

func (s *notificationService) SendPasswordResetEmail(ctx context.Context, name, email, resetLink string) bool {
	subject := fmt.Sprintf("Reset your %s password", s.appName)
	body := passwordResetEmailBody(s.appName, name, resetLink)
	return s.SendEmail(ctx, email, subject, body)
}

func (s *notificationService) SendGuideCredentialsEmail(ctx context.Context, name, email, password string) bool {
	subject := fmt.Sprintf("Your %s guide account", s.appName)
	body := guideCredentialsEmailBody(s.appName, name, email, password, s.frontendURL)
	return s.SendEmail(ctx, email, subject, body)
}

func (s *notificationService) SendPaymentLinkEmail(ctx context.Context, name, email string, amount float64, paymentLink string) bool {
	subject := fmt.Sprintf("%s payment request", s.appName)
	body := paymentLinkEmailBody(s.appName, name, amount, paymentLink)
	return s.SendEmail(ctx, email, subject, body)
}

func (s *notificationService) SendBookingConfirmationEmail(ctx context.Context, booking *models.Booking) bool {
	subject := fmt.Sprintf("Booking confirmed - %s", booking.TravelDetails.City)
	body := bookingConfirmationEmailBody(s.appName, booking)
	return s.SendEmail(ctx, booking.TouristInfo.Email, subject, body)
}

func (s *notificationService) SendBookingConfirmationSMS(ctx context.Context, booking *models.Booking) bool {
	if booking.TouristInfo.Phone == "" {
		return false
	}

	message := fmt.Sprintf(
		"%s: your booking for %s (%s to %s) is confirmed. Transaction %s.",
		s.appName,
		booking.TravelDetails.City,
		booking.TravelDetails.StartDate.Format("02 Jan"),
		booking.TravelDetails.EndDate.Format("02 Jan"),
		booking.TransactionID,
	)

	_, err := s.smsProvider.SendSMS(ctx, &sms.SMSRequest{
		To:      booking.TouristInfo.Phone,
		Message: message,
	})
	if err != nil {
		s.logger.WithError(err).WithBookingID(booking.ID).Warn("failed to send booking confirmation SMS")
		return false
	}

	return true
}

func (s *notificationService) SendEmail(ctx context.Context, to, subject, body string) bool {
	if err := s.mailer.Send(to, subject, body); err != nil {
		s.logger.WithError(err).WithField("recipient", to).Warn("failed to send email")
		return false
	}
	return true
}

func welcomeEmailBody(appName, name, frontendURL string) string {
	return fmt.Sprintf(`
		<h2>Welcome to %s, %s!</h2>
		<p>Your account is ready. Browse curated tour packages or plan a custom
		itinerary with a verified local guide.</p>
		<p><a href="%s">Start exploring</a></p>`,
		appName, name, frontendURL)
}

func passwordResetEmailBody(appName, name, resetLink string) string {
	return fmt.Sprintf(`
		<h2>Password reset</h2>
		<p>Hi %s, we received a request to reset your %s password.</p>
		<p><a href="%s">Reset your password</a></p>
		<p>The link expires in 15 minutes. If you did not request this, you can
		ignore this email.</p>`,
		name, appName, resetLink)
}

func guideCredentialsEmailBody(appName, name, email, password, frontendURL string) string {
	return fmt.Sprintf(`
		<h2>Welcome aboard, %s!</h2>
		<p>Your %s guide account has been created.</p>
		<p>Email: <strong>%s</strong><br>Temporary password: <strong>%s</strong></p>
		<p>Please sign in at <a href="%s">%s</a> and change your password.</p>`,
		name, appName, email, password, frontendURL, frontendURL)
}

func paymentLinkEmailBody(appName, name string, amount float64, paymentLink string) string {
	return fmt.Sprintf(`
		<h2>Payment request</h2>
		<p>Hi %s, there is a pending payment of <strong>INR %.2f</strong> on your
		%s account.</p>
		<p><a href="%s">Complete payment</a></p>`,
		name, amount, appName, paymentLink)
}

func bookingConfirmationEmailBody(appName string, booking *models.Booking) string {
	return fmt.Sprintf(`
		<h2>Your booking is confirmed!</h2>
		<p>Hi %s, thanks for booking with %s.</p>
		<p>
			Destination: <strong>%s</strong><br>
			Dates: %s to %s<br>
			Travellers: %d<br>
			Total: INR %.2f (paid so far: INR %.2f)<br>
			Transaction: %s
		</p>
		<p>A verified guide will be assigned to your trip shortly.</p>`,
		booking.TouristInfo.Name,
		appName,
		booking.TravelDetails.City,
		booking.TravelDetails.StartDate.Format("02 Jan 2006"),
		booking.TravelDetails.EndDate.Format("02 Jan 2006"),
		booking.TravelDetails.Headcount,
		booking.Price.TotalAmount,
		booking.AmountPaid,
		booking.TransactionID,
	)
}
