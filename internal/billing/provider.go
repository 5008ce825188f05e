// Package billing links users to the Stripe customer portal and lists the
// subscription plans on sale.
package billing

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/nepfy/nepfy-backend/internal/apperr"
)

type Plan struct {
	PriceID       string            `json:"price_id"`
	ProductID     string            `json:"product_id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	UnitAmount    int64             `json:"unit_amount"`
	Currency      string            `json:"currency"`
	Interval      string            `json:"interval,omitempty"`
	IntervalCount int64             `json:"interval_count,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Provider is the billing backend.
type Provider interface {
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	ListPlans(ctx context.Context) ([]Plan, error)
}

type StripeProvider struct {
	sc *client.API
}

// NewStripeProvider returns nil without a secret key.
func NewStripeProvider(secretKey string) *StripeProvider {
	if secretKey == "" {
		return nil
	}
	return &StripeProvider{sc: client.New(secretKey, nil)}
}

func (p *StripeProvider) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	s, err := p.sc.BillingPortalSessions.New(params)
	if err != nil {
		return "", stripeErr("create portal session", err)
	}
	return s.URL, nil
}

// ListPlans returns every active recurring price with its product, sorted
// by amount.
func (p *StripeProvider) ListPlans(ctx context.Context) ([]Plan, error) {
	params := &stripe.PriceListParams{
		Active: stripe.Bool(true),
		Type:   stripe.String(string(stripe.PriceTypeRecurring)),
	}
	params.Context = ctx
	params.AddExpand("data.product")

	var plans []Plan
	it := p.sc.Prices.List(params)
	for it.Next() {
		price := it.Price()
		if price.Product != nil && !price.Product.Active {
			continue
		}
		plans = append(plans, planFromPrice(price))
	}
	if err := it.Err(); err != nil {
		return nil, stripeErr("list prices", err)
	}

	sortPlans(plans)
	return plans, nil
}

func planFromPrice(price *stripe.Price) Plan {
	plan := Plan{
		PriceID:    price.ID,
		UnitAmount: price.UnitAmount,
		Currency:   string(price.Currency),
		Metadata:   price.Metadata,
	}
	if price.Recurring != nil {
		plan.Interval = string(price.Recurring.Interval)
		plan.IntervalCount = price.Recurring.IntervalCount
	}
	if price.Product != nil {
		plan.ProductID = price.Product.ID
		plan.Name = price.Product.Name
		plan.Description = price.Product.Description
	}
	if plan.Name == "" {
		plan.Name = price.Nickname
	}
	return plan
}

func sortPlans(plans []Plan) {
	sort.SliceStable(plans, func(i, j int) bool {
		if plans[i].UnitAmount != plans[j].UnitAmount {
			return plans[i].UnitAmount < plans[j].UnitAmount
		}
		return plans[i].PriceID < plans[j].PriceID
	})
}

func stripeErr(op string, err error) error {
	status := http.StatusBadGateway
	var se *stripe.Error
	if errors.As(err, &se) && se.HTTPStatusCode == http.StatusTooManyRequests {
		status = http.StatusTooManyRequests
	}
	return apperr.Upstream(status, "stripe: "+op, err)
}
