package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/chanuu/kds-poc/internal/adapter/logger"
	"github.com/chanuu/kds-poc/internal/domain"
	"github.com/chanuu/kds-poc/internal/interfaces"
)

// StationHandler exposes the station view and the two transition
// operations. Rendering stays on the client; this is the order list plus
// the actions the cards offer.
type StationHandler struct {
	service interfaces.StationService
	logger  logger.Logger
}

func NewStationHandler(service interfaces.StationService, logger logger.Logger) *StationHandler {
	return &StationHandler{
		service: service,
		logger:  logger,
	}
}

type itemStatusRequest struct {
	Status string `json:"status"`
}

type viewResponse struct {
	Orders  []domain.Order          `json:"orders"`
	Loading bool                    `json:"loading"`
	Error   *string                 `json:"error"`
	Counts  interfaces.StatusCounts `json:"counts"`
}

// HandleOrders routes /station/orders and its subpaths:
//
//	GET  /station/orders
//	POST /station/orders/{id}/items/{itemID}/status
//	POST /station/orders/{id}/complete
func (h *StationHandler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// parts[0] == "station", parts[1] == "orders"
	if len(parts) < 2 {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	switch {
	case len(parts) == 2:
		h.getView(w, r)
	case len(parts) == 4 && parts[3] == "complete":
		h.completeOrder(w, r, parts[2])
	case len(parts) == 6 && parts[3] == "items" && parts[5] == "status":
		h.changeItemStatus(w, r, parts[2], parts[4])
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (h *StationHandler) getView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	view := h.service.View()

	resp := viewResponse{
		Orders:  view.Orders,
		Loading: view.Loading,
		Counts:  view.Counts,
	}
	if resp.Orders == nil {
		resp.Orders = []domain.Order{}
	}
	if view.Err != "" {
		resp.Error = &view.Err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *StationHandler) changeItemStatus(w http.ResponseWriter, r *http.Request, orderID, itemID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req itemStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := h.service.RequestItemStatusChange(r.Context(), orderID, itemID, domain.Status(req.Status))
	if err != nil {
		h.respondTransitionError(w, orderID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StationHandler) completeOrder(w http.ResponseWriter, r *http.Request, orderID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.service.RequestOrderCompletion(r.Context(), orderID); err != nil {
		h.respondTransitionError(w, orderID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StationHandler) respondTransitionError(w http.ResponseWriter, orderID string, err error) {
	h.logger.Error("transition_rejected", "Transition request failed", orderID, nil, err)

	switch {
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrItemNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrWriteFailed):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
