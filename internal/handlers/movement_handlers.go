package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Industrias-CTS/inventario-sub001/internal/models"
	"github.com/Industrias-CTS/inventario-sub001/internal/services"
	"github.com/Industrias-CTS/inventario-sub001/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MovementHandler exposes the stock movement ledger.
type MovementHandler struct {
	stockService services.StockService
}

// NewMovementHandler creates a new MovementHandler.
func NewMovementHandler(ss services.StockService) *MovementHandler {
	return &MovementHandler{stockService: ss}
}

// CreateMovement applies a single stock movement.
func (h *MovementHandler) CreateMovement(c *gin.Context) {
	var req services.CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	result, err := h.stockService.ApplyMovement(req, actorIDFromContext(c))
	if err != nil {
		utils.LogError(err, "CreateMovement: Error from stockService.ApplyMovement")
		if errors.Is(err, services.ErrInvalidQuantity) || errors.Is(err, services.ErrInvalidMovementType) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid movement request.", err.Error()))
		} else if errors.Is(err, services.ErrComponentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Component not found.", err.Error()))
		} else if errors.Is(err, services.ErrInsufficientStock) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Insufficient available stock.", err.Error()))
		} else if errors.Is(err, services.ErrInsufficientReserved) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Release exceeds reserved stock.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to apply movement.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetMovements lists the ledger with filters.
func (h *MovementHandler) GetMovements(c *gin.Context) {
	var filters models.MovementFilters
	var ok bool

	if filters.ComponentID, ok = parseOptionalInt64Query(c, "component_id"); !ok {
		return
	}
	if filters.MovementTypeID, ok = parseOptionalInt64Query(c, "movement_type_id"); !ok {
		return
	}
	if startDateStr := c.Query("start_date"); startDateStr != "" {
		startDate, err := time.Parse("2006-01-02", startDateStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid start_date format. Use YYYY-MM-DD.", err.Error()))
			return
		}
		filters.StartDate = &startDate
	}
	if endDateStr := c.Query("end_date"); endDateStr != "" {
		endDate, err := time.Parse("2006-01-02", endDateStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid end_date format. Use YYYY-MM-DD.", err.Error()))
			return
		}
		// Make the end date inclusive.
		endDate = endDate.Add(24*time.Hour - time.Nanosecond)
		filters.EndDate = &endDate
	}
	if filters.Page, filters.PageSize, ok = parsePagination(c); !ok {
		return
	}

	movements, totalCount, err := h.stockService.GetMovements(filters)
	if err != nil {
		utils.LogError(err, "GetMovements: Error from stockService.GetMovements")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch movements.", "Internal error"))
		return
	}
	if movements == nil {
		movements = []models.Movement{}
	}
	respondPaginated(c, movements, totalCount, filters.Page, filters.PageSize)
}
