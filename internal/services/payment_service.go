// internal/services/payment_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/javajoker/cardshop/internal/config"
)

// PaymentGateway opens a payment for an order total.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, metadata map[string]string) (*PaymentIntent, error)
}

type PaymentIntent struct {
	ID           string `json:"payment_id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

// PaymentService creates Stripe PaymentIntents.
type PaymentService struct {
	currency string
}

// NewPaymentService returns nil when no Stripe key is configured.
func NewPaymentService(cfg *config.Config) *PaymentService {
	if cfg.Payment.StripeSecretKey == "" {
		return nil
	}

	// Initialize Stripe
	stripe.Key = cfg.Payment.StripeSecretKey

	currency := strings.ToLower(cfg.Payment.Currency)
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{currency: currency}
}

func (s *PaymentService) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, metadata map[string]string) (*PaymentIntent, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrInvalidInput)
	}

	// Convert amount to cents for Stripe
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toCents(amount)),
		Currency: stripe.String(s.currency),
	}
	params.Context = ctx

	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
	}, nil
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
