package handlers

import (
	"errors"
	"net/http"

	"github.com/brokersim/backend/internal/api/middleware"
	"github.com/brokersim/backend/internal/api/request"
	"github.com/brokersim/backend/internal/api/response"
	"github.com/brokersim/backend/internal/apperrors"
	"github.com/brokersim/backend/internal/service"
	"github.com/brokersim/backend/internal/validation"
)

// OrderHandler handles HTTP requests for order endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// execution to the reconciliation engine.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new OrderHandler with the provided service dependency.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// ListOrders handles GET requests to retrieve the user's order log.
//
// Endpoint: GET /api/orders
// Response: 200 OK with array of Order, most recent first
// Error: 500 Internal Server Error if retrieval fails
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	orders, err := h.orderService.ListOrders(userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveOrders.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, orders)
}

// PlaceOrder handles POST requests to submit a buy or sell order.
// The order is validated and executed synchronously against the user's
// ledgers.
//
// Endpoint: POST /api/orders
// Request Body: PlaceOrderRequest (symbol, side, quantity or amount, price, ...)
// Response: 201 Created with the executed Order
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if selling an instrument with no holding
// Error: 422 Unprocessable Entity on insufficient funds/quantity or a
// rejected buy price
// Error: 500 Internal Server Error if execution fails
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	req, err := parseJSON[request.PlaceOrderRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidatePlaceOrder(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	order, err := h.orderService.ExecuteOrder(r.Context(), userID, service.OrderIntent{
		Symbol:       req.Symbol,
		Side:         req.Side,
		OrderType:    req.OrderType,
		ProductType:  req.ProductType,
		Validity:     req.Validity,
		Quantity:     req.Quantity,
		Amount:       req.Amount,
		Price:        req.Price,
		TriggerPrice: req.TriggerPrice,
		Remarks:      req.Remarks,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidQuantityOrPrice):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidQuantityOrPrice.Error(), err.Error())
		case errors.Is(err, apperrors.ErrHoldingNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInsufficientFunds),
			errors.Is(err, apperrors.ErrInsufficientQuantity),
			errors.Is(err, apperrors.ErrBuyBelowLastPrice):
			response.RespondError(w, http.StatusUnprocessableEntity, "order rejected", err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToPlaceOrder.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusCreated, order)
}
