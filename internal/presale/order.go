package presale

import (
	"context"
	"errors"

	"github.com/ygangat/coaching-platform/internal/notify"
	"github.com/ygangat/coaching-platform/internal/observability/metrics"
	"github.com/ygangat/coaching-platform/pkg/logging"
)

// ErrInvalidOrder marks an order rejected by validation rather than a
// delivery failure.
var ErrInvalidOrder = errors.New("presale: invalid order")

// OrderItem is one requested box line.
type OrderItem struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

// Order is an incoming presale order.
type Order struct {
	FirstName             string      `json:"firstName"`
	LastName              string      `json:"lastName"`
	Phone                 string      `json:"phone"`
	Instagram             string      `json:"instagram"`
	Items                 []OrderItem `json:"items"`
	AllergyAcknowledgment bool        `json:"allergyAcknowledgment"`
}

// Service validates orders against the active event and forwards them
// to the provider.
type Service struct {
	store      *ConfigStore
	dispatcher *notify.Dispatcher
	metrics    *metrics.BookingMetrics
	logger     *logging.Logger
}

// NewService creates the order service.
func NewService(store *ConfigStore, dispatcher *notify.Dispatcher, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, dispatcher: dispatcher, metrics: m, logger: logger}
}

// valid checks the order against the event's box options. The client
// renders field-level errors itself; the server only gates submission.
func valid(order Order, cfg Config) bool {
	if order.FirstName == "" || order.LastName == "" {
		return false
	}
	if len(order.Phone) < 10 {
		return false
	}
	if order.Instagram == "" {
		return false
	}
	if len(order.Items) == 0 {
		return false
	}
	for _, item := range order.Items {
		if item.Quantity < 1 {
			return false
		}
		if _, ok := cfg.Option(item.Type); !ok {
			return false
		}
	}
	return order.AllergyAcknowledgment
}

// Submit validates and dispatches an order. A non-nil error means the
// order itself was rejected; a failed Result means delivery failed.
func (s *Service) Submit(ctx context.Context, order Order) (notify.Result, error) {
	cfg := s.store.Get()

	if !valid(order, cfg) {
		return notify.Result{Success: false, Error: "Invalid form data. Please check your inputs."}, ErrInvalidOrder
	}

	lines := make([]notify.OrderLine, 0, len(order.Items))
	for _, item := range order.Items {
		opt, _ := cfg.Option(item.Type)
		lines = append(lines, notify.OrderLine{Label: opt.Label(), Quantity: item.Quantity})
	}

	res := s.dispatcher.DispatchOrder(ctx, notify.OrderSummary{
		FullName:      order.FirstName + " " + order.LastName,
		Phone:         order.Phone,
		Instagram:     order.Instagram,
		Lines:         lines,
		PickupDetails: cfg.PickupDetails(),
	})
	s.metrics.ObserveNotification("order", res.Success)

	if res.Success {
		s.logger.Info("presale order submitted", "event_id", cfg.ID, "lines", len(lines))
	}
	return res, nil
}
