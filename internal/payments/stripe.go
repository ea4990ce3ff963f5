package payments

import (
	"context"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
)

// Detail is the gateway-side record for a digitally settled fare, shown on
// the ride detail view next to the platform's own payment status.
type Detail struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

// StripeClient is a read-only lookup over the payment gateway. The console
// never moves money; settlement belongs to the platform backend.
type StripeClient struct{}

// NewStripeClient initializes the stripe client with the given API key.
func NewStripeClient(apiKey string) *StripeClient {
	stripe.Key = apiKey
	return &StripeClient{}
}

// Lookup retrieves the PaymentIntent a ride's payment reference points at.
func (s *StripeClient) Lookup(ctx context.Context, reference string) (Detail, error) {
	pi, err := paymentintent.Get(reference, nil)
	if err != nil {
		return Detail{}, err
	}
	return Detail{
		Reference: pi.ID,
		Status:    string(pi.Status),
		Amount:    pi.Amount,
		Currency:  string(pi.Currency),
	}, nil
}
