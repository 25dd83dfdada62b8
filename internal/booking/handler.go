package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ygangat/coaching-platform/internal/notify"
	"github.com/ygangat/coaching-platform/internal/observability/metrics"
	"github.com/ygangat/coaching-platform/internal/payments"
	"github.com/ygangat/coaching-platform/internal/wizard"
	"github.com/ygangat/coaching-platform/pkg/logging"
)

// PaymentGateway is what the booking flow needs from the payment
// provider.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountDollars int64, currency string) (*payments.Intent, error)
	ResolveRedirect(ctx context.Context, clientSecret string) (payments.Status, error)
}

// Handler serves the wizard session API.
type Handler struct {
	registry   *Registry
	gateway    PaymentGateway
	dispatcher *notify.Dispatcher
	handoff    wizard.HandoffConfig
	currency   string
	metrics    *metrics.BookingMetrics
	logger     *logging.Logger
}

// HandlerConfig wires the handler's collaborators.
type HandlerConfig struct {
	Registry   *Registry
	Gateway    PaymentGateway
	Dispatcher *notify.Dispatcher
	Handoff    wizard.HandoffConfig
	Currency   string
	Metrics    *metrics.BookingMetrics
}

// NewHandler creates the booking API handler.
func NewHandler(cfg HandlerConfig, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Currency == "" {
		cfg.Currency = "cad"
	}
	if cfg.Handoff == (wizard.HandoffConfig{}) {
		cfg.Handoff = wizard.DefaultHandoff
	}
	return &Handler{
		registry:   cfg.Registry,
		gateway:    cfg.Gateway,
		dispatcher: cfg.Dispatcher,
		handoff:    cfg.Handoff,
		currency:   cfg.Currency,
		metrics:    cfg.Metrics,
		logger:     logger,
	}
}

// Routes mounts the session endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/sessions", h.CreateSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Post("/session-type", h.SelectSessionType)
		r.Post("/package", h.SelectPackage)
		r.Post("/insurance", h.SetInsurance)
		r.Post("/details", h.SetDetails)
		r.Post("/receipt", h.SetReceipt)
		r.Post("/advance", h.Advance)
		r.Post("/back", h.GoBack)
		r.Post("/complete/etransfer", h.CompleteTransfer)
		r.Post("/payment/confirm", h.ConfirmPayment)
	})
	return r
}

type draftView struct {
	FirstName    string                 `json:"firstName"`
	LastName     string                 `json:"lastName"`
	Email        string                 `json:"email"`
	ServiceType  wizard.ServiceType     `json:"serviceType"`
	SessionType  wizard.SessionType     `json:"sessionType"`
	HasInsurance wizard.InsuranceChoice `json:"hasInsurance"`
	ReceiptType  wizard.ReceiptType     `json:"receiptType"`
	Notes        string                 `json:"notes"`
}

type stateResponse struct {
	SessionID    string    `json:"sessionId"`
	Step         string    `json:"step"`
	Progress     int       `json:"progress"`
	Terminal     bool      `json:"terminal"`
	Amount       int64     `json:"amount"`
	Currency     string    `json:"currency"`
	Draft        draftView `json:"draft"`
	ClientSecret string    `json:"clientSecret,omitempty"`
}

func (h *Handler) stateOf(sess *Session) stateResponse {
	var resp stateResponse
	sess.Do(func(m *wizard.Machine) {
		d := m.Draft()
		resp = stateResponse{
			SessionID: sess.ID,
			Step:      m.Step().String(),
			Progress:  m.Step().ProgressPercent(),
			Terminal:  m.Step().Terminal(),
			Amount:    m.AmountDollars(),
			Currency:  h.currency,
			Draft: draftView{
				FirstName:    d.Contact.FirstName,
				LastName:     d.Contact.LastName,
				Email:        d.Contact.Email,
				ServiceType:  d.ServiceType,
				SessionType:  d.SessionType,
				HasInsurance: d.HasInsurance,
				ReceiptType:  d.ReceiptType,
				Notes:        d.Notes,
			},
		}
		if m.Step() == wizard.StepPayment {
			resp.ClientSecret = sess.clientSecret
		}
	})
	return resp
}

// CreateSession handles POST /booking/sessions. Identity and package
// preselection arrive as query parameters on the redirect back from the
// scheduling widget.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	contact := wizard.ContactFromRedirect(q)
	service := wizard.ServiceTypeFromRedirect(q)

	sess := h.registry.Create(
		wizard.WithInitialContact(contact),
		wizard.WithInitialService(service),
		wizard.WithHandoff(h.handoff),
		wizard.WithLogger(h.logger),
	)

	h.logger.Info("wizard session created", "session_id", sess.ID, "service", string(service))
	writeJSON(w, http.StatusCreated, h.stateOf(sess))
}

// GetSession handles GET /booking/sessions/{sessionID}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.stateOf(sess))
}

// SelectSessionType handles POST /booking/sessions/{sessionID}/session-type.
func (h *Handler) SelectSessionType(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		SessionType wizard.SessionType `json:"sessionType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.SessionType.Valid() {
		writeError(w, http.StatusBadRequest, "invalid session type")
		return
	}
	sess.Do(func(m *wizard.Machine) { m.SelectSessionType(r.Context(), req.SessionType) })
	writeJSON(w, http.StatusOK, h.stateOf(sess))
}

// SelectPackage handles POST /booking/sessions/{sessionID}/package.
func (h *Handler) SelectPackage(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		ServiceType wizard.ServiceType `json:"serviceType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.ServiceType.Valid() {
		writeError(w, http.StatusBadRequest, "invalid service type")
		return
	}
	sess.Do(func(m *wizard.Machine) { m.SelectPackage(r.Context(), req.ServiceType) })
	writeJSON(w, http.StatusOK, h.stateOf(sess))
}

// SetInsurance handles POST /booking/sessions/{sessionID}/insurance.
// The choice is an explicit true or false; there is no way to move it
// back to undecided.
func (h *Handler) SetInsurance(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		HasInsurance *bool `json:"hasInsurance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.HasInsurance == nil {
		writeError(w, http.StatusBadRequest, "hasInsurance is required")
		return
	}
	sess.Do(func(m *wizard.Machine) { m.SetInsurance(r.Context(), *req.HasInsurance) })
	writeJSON(w, http.StatusOK, h.stateOf(sess))
}

// SetDetails handles POST /booking/sessions/{sessionID}/details.
func (h *Handler) SetDetails(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Notes     string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	sess.Do(func(m *wizard.Machine) {
		m.SetDetails(r.Context(), wizard.Contact{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
		}, req.Notes)
	})
	writeJSON(w, http.StatusOK, h.stateOf(sess))
}

// SetReceipt handles POST /booking/sessions/{sessionID}/receipt.
func (h *Handler) SetReceipt(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		ReceiptType wizard.ReceiptType `json:"receiptType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.ReceiptType.Valid() {
		writeError(w, http.StatusBadRequest, "invalid receipt type")
		return
	}
	sess.Do(func(m *wizard.Machine) { m.SetReceiptType(r.Context(), req.ReceiptType) })
	writeJSON(w, http.StatusOK, h.stateOf(sess))
}

// Advance handles POST /booking/sessions/{sessionID}/advance. Entering
// the payment step opens a fresh payment authorization; a gateway
// failure degrades to the e-transfer path rather than blocking the
// step.
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var moved bool
	var enteredPayment bool
	sess.Do(func(m *wizard.Machine) {
		moved = m.Advance(r.Context())
		enteredPayment = moved && m.Step() == wizard.StepPayment
	})
	if !moved {
		writeError(w, http.StatusConflict, "step requirements not met")
		return
	}

	if enteredPayment {
		h.openIntent(r.Context(), sess)
	}
	writeJSON(w, http.StatusOK, h.stateOf(sess))
}

// openIntent opens a new payment authorization for the session's
// current amount. Every entry into the payment step gets its own
// authorization so a changed package is never charged a stale amount.
func (h *Handler) openIntent(ctx context.Context, sess *Session) {
	var amount int64
	sess.Do(func(m *wizard.Machine) { amount = m.AmountDollars() })

	sess.SetClientSecret("")
	if h.gateway == nil {
		return
	}
	intent, err := h.gateway.CreateIntent(ctx, amount, h.currency)
	if err != nil {
		h.metrics.ObserveIntent("failed")
		h.logger.Error("payment intent creation failed, card path unavailable",
			"error", err, "session_id", sess.ID)
		return
	}
	h.metrics.ObserveIntent("created")
	sess.SetClientSecret(intent.ClientSecret)
}

// GoBack handles POST /booking/sessions/{sessionID}/back.
func (h *Handler) GoBack(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var moved bool
	sess.Do(func(m *wizard.Machine) { moved = m.GoBack(r.Context()) })
	if !moved {
		writeError(w, http.StatusConflict, "cannot go back from this step")
		return
	}
	writeJSON(w, http.StatusOK, h.stateOf(sess))
}

type transferResponse struct {
	Mailto       string        `json:"mailto"`
	Notification notify.Result `json:"notification"`
	State        stateResponse `json:"state"`
}

// CompleteTransfer handles POST /booking/sessions/{sessionID}/complete/etransfer.
// The booking completes optimistically: the mailto handoff is returned
// even when the notification emails fail.
func (h *Handler) CompleteTransfer(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var mailto string
	var draft wizard.BookingDraft
	var err error
	sess.Do(func(m *wizard.Machine) {
		draft = m.Draft()
		mailto, err = m.CompleteViaTransfer(r.Context())
	})
	if err != nil {
		writeError(w, http.StatusConflict, "booking is not at the payment step")
		return
	}
	h.metrics.ObserveBookingCompleted("etransfer")

	result := notify.Result{Success: true}
	if h.dispatcher != nil {
		result = h.dispatcher.DispatchBooking(r.Context(), draft)
		h.metrics.ObserveNotification("booking", result.Success)
	}

	writeJSON(w, http.StatusOK, transferResponse{
		Mailto:       mailto,
		Notification: result,
		State:        h.stateOf(sess),
	})
}

type confirmResponse struct {
	Status  payments.Status `json:"status"`
	Message string          `json:"message"`
	State   stateResponse   `json:"state"`
}

// ConfirmPayment handles POST /booking/sessions/{sessionID}/payment/confirm.
// The client secret arrives as the gateway's redirect query parameter.
// Anything short of a succeeded status leaves the session at the
// payment step for another attempt.
func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	clientSecret := r.URL.Query().Get("payment_intent_client_secret")
	if clientSecret == "" {
		var req struct {
			ClientSecret string `json:"clientSecret"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			clientSecret = req.ClientSecret
		}
	}
	if clientSecret == "" {
		writeError(w, http.StatusBadRequest, "client secret is required")
		return
	}

	status := payments.StatusUnknown
	if h.gateway != nil {
		var err error
		status, err = h.gateway.ResolveRedirect(r.Context(), clientSecret)
		if err != nil {
			if errors.Is(err, payments.ErrBadClientSecret) {
				writeError(w, http.StatusBadRequest, "malformed client secret")
				return
			}
			h.logger.Error("payment status lookup failed", "error", err, "session_id", sess.ID)
			status = payments.StatusUnknown
		}
	}

	var completed bool
	sess.Do(func(m *wizard.Machine) {
		completed = m.ConfirmCardPayment(r.Context(), status.Succeeded())
	})
	if completed {
		h.metrics.ObserveBookingCompleted("card")
	}

	writeJSON(w, http.StatusOK, confirmResponse{
		Status:  status,
		Message: status.Message(),
		State:   h.stateOf(sess),
	})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := chi.URLParam(r, "sessionID")
	sess, ok := h.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
