// Package payment is the boundary to the card processor. The rest of the
// system treats it as opaque: orders only ever see a payment reference
// string, and refunds are confirmed by an admin after the gateway settles.
package payment

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/paymentintent"
	"github.com/stripe/stripe-go/v72/refund"
)

// Charge is what the gateway returns for a new payment: the reference the
// order stores and the secret the client needs to confirm the card.
type Charge struct {
	Reference    string `json:"reference"`
	ClientSecret string `json:"client_secret"`
}

// Gateway abstracts the card processor.
type Gateway interface {
	CreateCharge(ctx context.Context, amount decimal.Decimal, description string) (*Charge, error)
	RefundCharge(ctx context.Context, paymentReference string, amount decimal.Decimal) (string, error)
}

type stripeGateway struct{}

// NewStripeGateway configures the Stripe client from STRIPE_SECRET_KEY.
func NewStripeGateway() Gateway {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	return &stripeGateway{}
}

func (g *stripeGateway) CreateCharge(ctx context.Context, amount decimal.Decimal, description string) (*Charge, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(toCents(amount)),
		Currency:    stripe.String(string(stripe.CurrencyUSD)),
		Description: stripe.String(description),
	}
	params.Context = ctx

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("gateway charge failed: %w", err)
	}
	return &Charge{
		Reference:    intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

func (g *stripeGateway) RefundCharge(ctx context.Context, paymentReference string, amount decimal.Decimal) (string, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentReference),
		Amount:        stripe.Int64(toCents(amount)),
	}
	params.Context = ctx

	r, err := refund.New(params)
	if err != nil {
		return "", fmt.Errorf("gateway refund failed: %w", err)
	}
	return r.ID, nil
}

// toCents converts a 2dp decimal amount to the gateway's integer minor units.
func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
