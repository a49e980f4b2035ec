package sms

import "context"

type SMSRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type SMSResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

type Provider interface {
	SendSMS(ctx context.Context, request *SMSRequest) (*SMSResponse, error)
}

// NoopProvider is used when SMS delivery is disabled in config.
type NoopProvider struct{}

func (NoopProvider) SendSMS(ctx context.Context, request *SMSRequest) (*SMSResponse, error) {
	return &SMSResponse{Status: "skipped"}, nil
}
