// Package payment integrates the card-network collaborator: creating hosted
// checkout sessions for bookings and verifying the signature on settlement
// webhooks.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"car-rental/pkg/utils"

	"go.uber.org/zap"
)

// CheckoutSession is the provider-side payment session a renter is redirected
// to. The booking stores ID so settlement events can be matched back.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type CheckoutParams struct {
	BookingID   string
	Reference   string
	Description string
	Amount      int64 // minor units
	Currency    string
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
	successURL string
	cancelURL  string
	log        *zap.Logger
}

func NewClient(config utils.PaymentConfig, log *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(config.APIBaseURL, "/"),
		secretKey:  config.SecretKey,
		successURL: config.SuccessURL,
		cancelURL:  config.CancelURL,
		log:        log.With(zap.String("client", "payment")),
	}
}

// CreateCheckoutSession opens a hosted checkout session for a booking. The
// booking id rides along in metadata so the webhook can resolve the booking
// even if the session id is lost.
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", c.successURL)
	form.Set("cancel_url", c.cancelURL)
	form.Set("client_reference_id", params.BookingID)
	form.Set("metadata[booking_id]", params.BookingID)
	form.Set("metadata[reference]", params.Reference)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", strings.ToLower(params.Currency))
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.Amount, 10))
	form.Set("line_items[0][price_data][product_data][name]", params.Description)

	endpoint := c.baseURL + "/v1/checkout/sessions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	// Provider-side idempotency: retrying the same booking must not open a
	// second session.
	req.Header.Set("Idempotency-Key", "booking-"+params.BookingID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read checkout response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error("Checkout session request rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("booking_id", params.BookingID),
		)
		return nil, fmt.Errorf("checkout session request failed with status %d", resp.StatusCode)
	}

	var session CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	if session.ID == "" {
		return nil, fmt.Errorf("checkout session response missing id")
	}

	c.log.Info("Checkout session created",
		zap.String("session_id", session.ID),
		zap.String("booking_id", params.BookingID),
		zap.Int64("amount", params.Amount),
		zap.String("currency", params.Currency),
	)

	return &session, nil
}
