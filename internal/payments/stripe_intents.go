// Package payments bridges the booking wizard to the Stripe payment
// gateway: it opens PaymentIntents for the card path and resolves their
// status after the gateway redirects the browser back.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ygangat/coaching-platform/pkg/logging"
)

var stripeTracer = otel.Tracer("coaching.internal.payments.stripe")

// ErrBadClientSecret is returned when a redirect token does not look
// like a PaymentIntent client secret.
var ErrBadClientSecret = errors.New("payments: malformed client secret")

// Intent is one payment authorization: a client secret permitting a
// single payment attempt for a fixed amount.
type Intent struct {
	ClientSecret string
	AmountCents  int64
	Currency     string
}

// StripeIntentService talks to the Stripe PaymentIntents API over
// plain HTTP.
type StripeIntentService struct {
	secretKey  string
	baseURL    string
	apiVersion string
	httpClient *http.Client
	logger     *logging.Logger
	dryRun     bool
}

// NewStripeIntentService creates the service. STRIPE_DRY_RUN=true makes
// it fabricate secrets without calling Stripe, for local development.
func NewStripeIntentService(secretKey string, logger *logging.Logger) *StripeIntentService {
	if logger == nil {
		logger = logging.Default()
	}
	dryRun := strings.EqualFold(os.Getenv("STRIPE_DRY_RUN"), "true") || os.Getenv("STRIPE_DRY_RUN") == "1"
	return &StripeIntentService{
		secretKey:  secretKey,
		baseURL:    "https://api.stripe.com",
		apiVersion: "2024-12-18.acacia",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		dryRun:     dryRun,
	}
}

// WithBaseURL overrides the Stripe API base URL (for testing).
func (s *StripeIntentService) WithBaseURL(baseURL string) *StripeIntentService {
	if baseURL != "" {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
	return s
}

// WithDryRun enables dry-run mode.
func (s *StripeIntentService) WithDryRun(enabled bool) *StripeIntentService {
	s.dryRun = enabled
	return s
}

// CreateIntent opens a payment authorization for the given amount in
// major currency units. The conversion to minor units happens here, at
// the gateway boundary, and nowhere else. No idempotency key is sent:
// each call creates a distinct authorization.
func (s *StripeIntentService) CreateIntent(ctx context.Context, amountDollars int64, currency string) (*Intent, error) {
	ctx, span := stripeTracer.Start(ctx, "stripe.create_payment_intent")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("booking.amount_dollars", amountDollars),
		attribute.String("booking.currency", currency),
	)

	amountCents := amountDollars * 100

	if s.dryRun {
		fakeID := "pi_dryrun_" + uuid.New().String()[:8]
		s.logger.Info("stripe dry run: skipping payment intent creation",
			"amount_cents", amountCents, "currency", currency)
		return &Intent{
			ClientSecret: fakeID + "_secret_dryrun",
			AmountCents:  amountCents,
			Currency:     currency,
		}, nil
	}

	form := url.Values{}
	form.Set("amount", fmt.Sprintf("%d", amountCents))
	form.Set("currency", currency)
	form.Set("automatic_payment_methods[enabled]", "true")

	apiURL := s.baseURL + "/v1/payment_intents"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("payments: stripe request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Stripe-Version", s.apiVersion)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payments: stripe http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("payments: stripe api status %d: %s", resp.StatusCode, string(body))
	}

	var parsed stripePaymentIntent
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("payments: stripe decode: %w", err)
	}
	if parsed.ClientSecret == "" {
		return nil, fmt.Errorf("payments: stripe response missing client secret")
	}

	return &Intent{
		ClientSecret: parsed.ClientSecret,
		AmountCents:  parsed.Amount,
		Currency:     parsed.Currency,
	}, nil
}

// ResolveRedirect looks up the status of the authorization named by the
// redirect's client secret token.
func (s *StripeIntentService) ResolveRedirect(ctx context.Context, clientSecret string) (Status, error) {
	ctx, span := stripeTracer.Start(ctx, "stripe.retrieve_payment_intent")
	defer span.End()

	intentID, ok := intentIDFromSecret(clientSecret)
	if !ok {
		return StatusUnknown, ErrBadClientSecret
	}
	span.SetAttributes(attribute.String("booking.intent_id", intentID))

	if s.dryRun {
		return StatusSucceeded, nil
	}

	apiURL := fmt.Sprintf("%s/v1/payment_intents/%s?client_secret=%s",
		s.baseURL, url.PathEscape(intentID), url.QueryEscape(clientSecret))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return StatusUnknown, fmt.Errorf("payments: stripe request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Stripe-Version", s.apiVersion)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return StatusUnknown, fmt.Errorf("payments: stripe http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return StatusUnknown, fmt.Errorf("payments: stripe api status %d: %s", resp.StatusCode, string(body))
	}

	var parsed stripePaymentIntent
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return StatusUnknown, fmt.Errorf("payments: stripe decode: %w", err)
	}
	return ParseStatus(parsed.Status), nil
}

// intentIDFromSecret extracts the intent ID from a client secret of
// the form "pi_xxx_secret_yyy".
func intentIDFromSecret(clientSecret string) (string, bool) {
	id, _, found := strings.Cut(clientSecret, "_secret")
	if !found || id == "" {
		return "", false
	}
	return id, true
}

// stripePaymentIntent is the subset of Stripe's PaymentIntent we need.
type stripePaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}
