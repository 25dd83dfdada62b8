package payments

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ygangat/coaching-platform/pkg/logging"
)

// IntentCreator is what the HTTP handler needs from the gateway client.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amountDollars int64, currency string) (*Intent, error)
}

// IntentHandler serves the authorization-creation endpoint consumed by
// the payment step.
type IntentHandler struct {
	intents IntentCreator
	logger  *logging.Logger
}

type intentRequest struct {
	// Amount is in major currency units; the gateway boundary converts.
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type intentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewIntentHandler creates the handler.
func NewIntentHandler(intents IntentCreator, logger *logging.Logger) *IntentHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &IntentHandler{intents: intents, logger: logger}
}

// CreateIntent handles POST /payments/intents.
func (h *IntentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req intentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Amount <= 0 || req.Currency == "" {
		writeJSONError(w, http.StatusBadRequest, "Amount and currency are required")
		return
	}

	intent, err := h.intents.CreateIntent(r.Context(), req.Amount, req.Currency)
	if err != nil {
		h.logger.Error("payment intent creation failed", "error", err, "amount", req.Amount)
		writeJSONError(w, http.StatusBadGateway, "failed to create payment intent")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(intentResponse{ClientSecret: intent.ClientSecret})

	h.logger.Info("payment intent created", "amount", req.Amount, "currency", req.Currency)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}
