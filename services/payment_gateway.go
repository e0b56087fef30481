package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
)

// PaymentGateway creates payment intents with an external provider.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amountMinor int64, currency, receipt string) (string, error)
}

// StripeGateway creates Stripe payment intents.
type StripeGateway struct {
	SecretKey string
}

func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{SecretKey: secretKey}
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(strings.ToLower(currency)),
	}
	params.Context = ctx
	params.AddMetadata("receipt", receipt)

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe payment intent: %w", err)
	}
	return pi.ID, nil
}

// LocalPaymentGateway issues local intent ids for development without a provider.
type LocalPaymentGateway struct{}

func (LocalPaymentGateway) CreatePaymentIntent(_ context.Context, amountMinor int64, _, _ string) (string, error) {
	if amountMinor <= 0 {
		return "", fmt.Errorf("amount must be positive")
	}
	return "pi_local_" + uuid.NewString(), nil
}

// ToMinorUnits converts a decimal amount to the smallest currency unit.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// SignPayment returns the hex HMAC-SHA256 of orderID|paymentID under secret.
func SignPayment(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature compares signature with the expected value in constant time.
func VerifyPaymentSignature(secret, orderID, paymentID, signature string) bool {
	expected := SignPayment(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
