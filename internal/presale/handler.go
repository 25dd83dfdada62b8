package presale

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ygangat/coaching-platform/pkg/logging"
)

// Handler serves the presale endpoints. Config reads and order intake
// are public; config writes sit behind the admin middleware in the
// router.
type Handler struct {
	store   *ConfigStore
	service *Service
	logger  *logging.Logger
}

// NewHandler creates the presale handler.
func NewHandler(store *ConfigStore, service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, service: service, logger: logger}
}

// GetConfig handles GET /presale/config.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Get())
}

// UpdateConfig handles PUT /presale/config.
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if cfg.ID == "" || len(cfg.BoxOptions) == 0 {
		writeError(w, http.StatusBadRequest, "id and boxOptions are required")
		return
	}
	if err := h.store.Put(cfg); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save configuration.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// SubmitOrder handles POST /presale/orders.
func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var order Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	res, err := h.service.Submit(r.Context(), order)
	switch {
	case errors.Is(err, ErrInvalidOrder):
		writeJSON(w, http.StatusBadRequest, res)
	case !res.Success:
		writeJSON(w, http.StatusBadGateway, res)
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
