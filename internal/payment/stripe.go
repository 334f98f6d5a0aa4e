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

	"github.com/reefcrew/seabooking/internal/monitoring"
)

// StripeGateway talks to the Stripe HTTP API with form-encoded requests.
type StripeGateway struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewStripeGateway(apiKey, baseURL string, timeout time.Duration) *StripeGateway {
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}
	return &StripeGateway{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type stripeIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
}

type stripeLink struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type stripeError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.AmountCents, 10))
	form.Set("currency", strings.ToLower(req.Currency))
	form.Set("description", req.Description)
	if req.Email != "" {
		form.Set("receipt_email", req.Email)
	}
	for k, v := range req.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var out stripeIntent
	if err := g.do(ctx, "create_intent", http.MethodPost, "/v1/payment_intents", form, &out); err != nil {
		return nil, err
	}
	return &Intent{ID: out.ID, ClientSecret: out.ClientSecret, Status: out.Status, AmountCents: out.Amount}, nil
}

func (g *StripeGateway) ConfirmPayment(ctx context.Context, intentID, paymentMethod string) (*Confirmation, error) {
	form := url.Values{}
	if paymentMethod != "" {
		form.Set("payment_method", paymentMethod)
	}

	var out stripeIntent
	path := fmt.Sprintf("/v1/payment_intents/%s/confirm", intentID)
	if err := g.do(ctx, "confirm_intent", http.MethodPost, path, form, &out); err != nil {
		return nil, err
	}
	return &Confirmation{IntentID: out.ID, Success: out.Status == "succeeded", Status: out.Status}, nil
}

func (g *StripeGateway) RetrievePaymentIntent(ctx context.Context, intentID string) (*Intent, error) {
	var out stripeIntent
	path := "/v1/payment_intents/" + url.PathEscape(intentID)
	if err := g.do(ctx, "retrieve_intent", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &Intent{ID: out.ID, ClientSecret: out.ClientSecret, Status: out.Status, AmountCents: out.Amount}, nil
}

func (g *StripeGateway) CreatePaymentLink(ctx context.Context, req LinkRequest) (*Link, error) {
	form := url.Values{}
	form.Set("line_items[0][price_data][currency]", strings.ToLower(req.Currency))
	form.Set("line_items[0][price_data][product_data][name]", req.ProductName)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(req.AmountCents, 10))
	form.Set("line_items[0][quantity]", "1")
	if req.SuccessURL != "" {
		form.Set("after_completion[type]", "redirect")
		form.Set("after_completion[redirect][url]", req.SuccessURL)
	}
	for k, v := range req.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var out stripeLink
	if err := g.do(ctx, "create_link", http.MethodPost, "/v1/payment_links", form, &out); err != nil {
		return nil, err
	}
	return &Link{ID: out.ID, URL: out.URL}, nil
}

func (g *StripeGateway) do(ctx context.Context, op, method, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	monitoring.ObserveGatewayRequest(op, time.Since(start), err == nil)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	if resp.StatusCode >= 400 {
		var apiErr stripeError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return &Error{Op: op, Err: fmt.Errorf("%s: %s", apiErr.Error.Type, apiErr.Error.Message)}
		}
		return &Error{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Op: op, Err: err}
	}
	return nil
}

var _ Gateway = (*StripeGateway)(nil)
