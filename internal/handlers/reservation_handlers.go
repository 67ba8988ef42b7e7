package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/Industrias-CTS/inventario-sub001/internal/models"
	"github.com/Industrias-CTS/inventario-sub001/internal/services"
	"github.com/Industrias-CTS/inventario-sub001/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReservationHandler exposes stock reservations.
type ReservationHandler struct {
	reservationService services.ReservationService
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(rs services.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: rs}
}

// CreateReservation places a soft hold on component stock.
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req services.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	reservation, err := h.reservationService.CreateReservation(req, actorIDFromContext(c))
	if err != nil {
		utils.LogError(err, "CreateReservation: Error from reservationService.CreateReservation")
		if errors.Is(err, services.ErrInvalidQuantity) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid reservation quantity.", err.Error()))
		} else if errors.Is(err, services.ErrComponentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Component not found.", err.Error()))
		} else if errors.Is(err, services.ErrInsufficientStock) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Insufficient available stock.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create reservation.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

// ReleaseReservation flips an active reservation to completed or cancelled
// and frees its reserved stock.
func (h *ReservationHandler) ReleaseReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// An empty body means "complete the reservation".
	var req services.ReleaseReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	reservation, err := h.reservationService.ReleaseReservation(id, req, actorIDFromContext(c))
	if err != nil {
		utils.LogError(err, "ReleaseReservation: Error from reservationService.ReleaseReservation")
		if errors.Is(err, services.ErrInvalidReleaseStatus) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid release status.", err.Error()))
		} else if errors.Is(err, services.ErrReservationNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Reservation not found.", err.Error()))
		} else if errors.Is(err, services.ErrReservationNotActive) || errors.Is(err, services.ErrInsufficientReserved) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Reservation cannot be released.", err.Error()))
		} else if errors.Is(err, services.ErrComponentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Component not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to release reservation.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// GetReservations lists reservations with optional status/component filters.
func (h *ReservationHandler) GetReservations(c *gin.Context) {
	var status *string
	if statusStr := c.Query("status"); statusStr != "" {
		status = &statusStr
	}
	componentID, ok := parseOptionalInt64Query(c, "component_id")
	if !ok {
		return
	}
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}

	reservations, totalCount, err := h.reservationService.GetReservations(status, componentID, page, pageSize)
	if err != nil {
		utils.LogError(err, "GetReservations: Error from reservationService.GetReservations")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch reservations.", "Internal error"))
		return
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}
	respondPaginated(c, reservations, totalCount, page, pageSize)
}
