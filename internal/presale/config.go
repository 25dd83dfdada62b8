// Package presale runs the seasonal box presale: a file-backed event
// configuration editable from the dashboard, and an order intake that
// forwards validated orders to the provider by email.
package presale

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ygangat/coaching-platform/pkg/logging"
)

// BoxOption is one purchasable box size.
type BoxOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
}

// Label is the order-line description used in notifications.
func (b BoxOption) Label() string {
	return fmt.Sprintf("%s (%s - $%d)", b.Name, b.Description, b.Price)
}

// Config describes the active presale event.
type Config struct {
	ID          string      `json:"id"`
	Occasion    string      `json:"occasion"`
	Description string      `json:"description"`
	Date        string      `json:"date"` // YYYY-MM-DD
	TimeWindow  string      `json:"timeWindow"`
	Location    string      `json:"location"`
	IsActive    bool        `json:"isActive"`
	BoxOptions  []BoxOption `json:"boxOptions"`
}

// Option looks up a box option by ID.
func (c Config) Option(id string) (BoxOption, bool) {
	for _, opt := range c.BoxOptions {
		if opt.ID == id {
			return opt, true
		}
	}
	return BoxOption{}, false
}

// PickupDetails renders the pickup line quoted in order notifications.
func (c Config) PickupDetails() string {
	date := c.Date
	if t, err := time.Parse("2006-01-02", c.Date); err == nil {
		date = t.Format("January 2, 2006")
	}
	return fmt.Sprintf("%s, %s, %s", date, c.TimeWindow, c.Location)
}

// DefaultConfig is the event used until the dashboard saves one.
func DefaultConfig() Config {
	return Config{
		ID:          "eid-2026",
		Occasion:    "Eid Al-Fitr '26",
		Description: "Our artisanal sets are crafted in limited quantities. Secure yours now for pickup on March 19th.",
		Date:        "2026-03-19",
		TimeWindow:  "6:30 PM - 11:00 PM",
		Location:    "Near Don Mills & Eglinton",
		IsActive:    true,
		BoxOptions: []BoxOption{
			{ID: "mini", Name: "The Mini", Description: "15 treats", Price: 25, Quantity: 15},
			{ID: "classic", Name: "The Classic", Description: "45 treats", Price: 55, Quantity: 45},
			{ID: "signature", Name: "The Signature", Description: "75 treats", Price: 85, Quantity: 75},
		},
	}
}

// ConfigStore persists the presale config as a JSON file. A missing or
// unreadable file falls back to the default event.
type ConfigStore struct {
	path   string
	mu     sync.Mutex
	logger *logging.Logger
}

// NewConfigStore creates a store writing to the given path.
func NewConfigStore(path string, logger *logging.Logger) *ConfigStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &ConfigStore{path: path, logger: logger}
}

// Get returns the stored config, or the default when none is stored.
func (s *ConfigStore) Get() Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("presale config read failed, using default", "error", err, "path", s.path)
		}
		return DefaultConfig()
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		s.logger.Error("presale config unmarshal failed, using default", "error", err, "path", s.path)
		return DefaultConfig()
	}
	return cfg
}

// Put replaces the stored config.
func (s *ConfigStore) Put(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("presale: marshal config: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Error("presale config write failed", "error", err, "path", s.path)
		return fmt.Errorf("presale: write config: %w", err)
	}
	s.logger.Info("presale config saved", "event_id", cfg.ID, "active", cfg.IsActive)
	return nil
}
