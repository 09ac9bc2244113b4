package handlers

import (
	"net/http"

	"github.com/brokersim/backend/internal/api/middleware"
	"github.com/brokersim/backend/internal/api/response"
	"github.com/brokersim/backend/internal/apperrors"
	"github.com/brokersim/backend/internal/service"
)

// PositionHandler handles HTTP requests for position endpoints.
type PositionHandler struct {
	positionService *service.PositionService
}

// NewPositionHandler creates a new PositionHandler with the provided service dependency.
func NewPositionHandler(positionService *service.PositionService) *PositionHandler {
	return &PositionHandler{
		positionService: positionService,
	}
}

// GetPositions handles GET requests to retrieve the user's intraday positions.
//
// Endpoint: GET /api/positions
// Response: 200 OK with array of Position
// Error: 500 Internal Server Error if retrieval fails
func (h *PositionHandler) GetPositions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	positions, err := h.positionService.GetPositions(userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePositions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, positions)
}
