package billing

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/nepfy/nepfy-backend/internal/apperr"
	"github.com/nepfy/nepfy-backend/internal/auth/domain"
	"github.com/nepfy/nepfy-backend/internal/logging"
)

// CustomerLookup resolves the Stripe customer of a user.
type CustomerLookup interface {
	StripeCustomerID(ctx context.Context, firebaseUID string) (string, error)
}

const plansCacheKey = "plans"

type Service struct {
	provider   Provider
	customers  CustomerLookup
	returnURL  string
	plansCache *expirable.LRU[string, []Plan]
}

// NewService builds the billing service. A nil provider disables billing.
func NewService(provider Provider, customers CustomerLookup, defaultReturnURL string, plansTTL time.Duration) *Service {
	if plansTTL <= 0 {
		plansTTL = 10 * time.Minute
	}
	return &Service{
		provider:   provider,
		customers:  customers,
		returnURL:  defaultReturnURL,
		plansCache: expirable.NewLRU[string, []Plan](1, nil, plansTTL),
	}
}

func (s *Service) Configured() bool { return s.provider != nil }

// PortalURL opens a customer portal session for the user. returnURL
// overrides the default when it is an absolute http(s) URL.
func (s *Service) PortalURL(ctx context.Context, uid, returnURL string) (string, error) {
	if s.provider == nil {
		return "", apperr.NotConfigured("stripe")
	}

	customerID, err := s.customers.StripeCustomerID(ctx, uid)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return "", apperr.NotFound("user not found")
	case err != nil:
		return "", apperr.Internal("billing customer lookup", err)
	case customerID == "":
		return "", apperr.NotFound("no billing account for this user")
	}

	if returnURL == "" {
		returnURL = s.returnURL
	} else if u, err := url.Parse(returnURL); err != nil || !u.IsAbs() || (u.Scheme != "https" && u.Scheme != "http") {
		return "", apperr.Validation("return_url must be an absolute http(s) URL")
	}

	sessionURL, err := s.provider.CreatePortalSession(ctx, customerID, returnURL)
	if err != nil {
		return "", err
	}
	logging.FromContext(ctx).Info("billing portal session created", "customer", customerID)
	return sessionURL, nil
}

// Plans lists the plans on sale. Results are cached briefly.
func (s *Service) Plans(ctx context.Context) ([]Plan, error) {
	if s.provider == nil {
		return nil, apperr.NotConfigured("stripe")
	}
	if plans, ok := s.plansCache.Get(plansCacheKey); ok {
		return plans, nil
	}

	plans, err := s.provider.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []Plan{}
	}
	s.plansCache.Add(plansCacheKey, plans)
	return plans, nil
}
