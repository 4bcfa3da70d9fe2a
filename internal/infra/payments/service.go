package payments

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Service builds checkout URLs for the external payment gateway. The gateway
// itself is an opaque collaborator: we hand it an enrollment reference and it
// calls /payments/pay back with the same reference once the charge clears.
type Service struct {
	baseURL string
}

func NewService(baseURL string) *Service {
	return &Service{baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *Service) CheckoutURL(reference string, amountUSD float64, description string) string {
	q := url.Values{}
	q.Set("ref", reference)
	q.Set("amount", fmt.Sprintf("%.2f", amountUSD))
	q.Set("description", description)
	return s.baseURL + "/checkout?" + q.Encode()
}

// CreateCheckout keeps the signature a real gateway integration needs even
// though the current one only builds a URL.
func (s *Service) CreateCheckout(_ context.Context, reference string, amountUSD float64, description string) (string, error) {
	return s.CheckoutURL(reference, amountUSD, description), nil
}
