package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maheshrc27/content-compass/internal/metrics"
	"github.com/maheshrc27/content-compass/internal/repository"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

// PaymentGateway is the hosted payments provider.
type PaymentGateway interface {
	CreateCustomer(email, uid string) (string, error)
	CheckoutSession(customerID, uid, priceID, successURL, cancelURL string) (string, error)
	PortalSession(customerID, returnURL string) (string, error)
}

type stripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) PaymentGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &stripeGateway{api: api}
}

func (g *stripeGateway) CreateCustomer(email, uid string) (string, error) {
	params := &stripe.CustomerParams{Email: stripe.String(email)}
	params.AddMetadata("uid", uid)
	customer, err := g.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return customer.ID, nil
}

func (g *stripeGateway) CheckoutSession(customerID, uid, priceID, successURL, cancelURL string) (string, error) {
	session, err := g.api.CheckoutSessions.New(&stripe.CheckoutSessionParams{
		Customer:          stripe.String(customerID),
		ClientReferenceID: stripe.String(uid),
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	})
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

func (g *stripeGateway) PortalSession(customerID, returnURL string) (string, error) {
	session, err := g.api.BillingPortalSessions.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	})
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

type BillingService interface {
	Checkout(ctx context.Context, uid, priceID string) (string, error)
	Portal(ctx context.Context, uid string) (string, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type billingService struct {
	gw            PaymentGateway
	u             repository.UserRepository
	origin        string
	defaultPrice  string
	webhookSecret string
}

func NewBillingService(gw PaymentGateway, u repository.UserRepository, origin, defaultPrice, webhookSecret string) BillingService {
	return &billingService{
		gw:            gw,
		u:             u,
		origin:        strings.TrimRight(origin, "/"),
		defaultPrice:  defaultPrice,
		webhookSecret: webhookSecret,
	}
}

// Checkout creates the customer on first use and returns the hosted checkout URL.
func (s *billingService) Checkout(ctx context.Context, uid, priceID string) (string, error) {
	if priceID == "" {
		priceID = s.defaultPrice
	}
	if priceID == "" {
		return "", fmt.Errorf("price id is required")
	}

	user, isExist, err := s.u.GetByID(ctx, nil, uid)
	if err != nil {
		return "", err
	}
	if !isExist {
		return "", fmt.Errorf("user %s doesn't exist", uid)
	}

	customerID := user.StripeCustomerID
	if customerID == "" {
		customerID, err = s.gw.CreateCustomer(user.Email, uid)
		if err != nil {
			slog.Info(err.Error())
			return "", err
		}
		if err := s.u.SetStripeCustomerID(ctx, uid, customerID); err != nil {
			return "", err
		}
	}

	url, err := s.gw.CheckoutSession(customerID, uid, priceID,
		s.origin+"/settings/billing?checkout=success", s.origin+"/settings/billing?checkout=cancelled")
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	return url, nil
}

func (s *billingService) Portal(ctx context.Context, uid string) (string, error) {
	user, isExist, err := s.u.GetByID(ctx, nil, uid)
	if err != nil {
		return "", err
	}
	if !isExist || user.StripeCustomerID == "" {
		return "", ErrNoCustomer
	}
	url, err := s.gw.PortalSession(user.StripeCustomerID, s.origin+"/settings/billing")
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	return url, nil
}

// HandleWebhook verifies the event and keeps the user's subscription id in
// step with the provider.
func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	metrics.WebhookEvents.WithLabelValues(string(event.Type)).Inc()

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return err
		}
		if session.Mode != stripe.CheckoutSessionModeSubscription || session.Customer == nil || session.Subscription == nil {
			return nil
		}
		return s.setSubscription(ctx, session.Customer.ID, session.Subscription.ID)

	case "customer.subscription.created", "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return err
		}
		if sub.Customer == nil {
			return nil
		}
		return s.setSubscription(ctx, sub.Customer.ID, sub.ID)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return err
		}
		if sub.Customer == nil {
			return nil
		}
		return s.setSubscription(ctx, sub.Customer.ID, "")
	}

	slog.Info("ignoring billing event", "type", event.Type)
	return nil
}

func (s *billingService) setSubscription(ctx context.Context, customerID, subscriptionID string) error {
	user, isExist, err := s.u.GetByStripeCustomerID(ctx, customerID)
	if err != nil {
		return err
	}
	if !isExist {
		slog.Warn("billing event for unknown customer", "customer_id", customerID)
		return nil
	}
	return s.u.SetStripeSubscriptionID(ctx, user.UID, subscriptionID)
}
