package dto

import "github.com/google/uuid"

// PaymentWebhook is the payload posted by the payment provider.
type PaymentWebhook struct {
	ID   string           `json:"id"`
	Type string           `json:"type" validate:"required"`
	Data PaymentEventData `json:"data"`
}

type PaymentEventData struct {
	SessionID     uuid.UUID `json:"sessionId" validate:"required"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	TransactionID string    `json:"transactionId"`
}
