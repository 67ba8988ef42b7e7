package handlers

import (
	"errors"
	"net/http"

	"github.com/Industrias-CTS/inventario-sub001/internal/services"
	"github.com/Industrias-CTS/inventario-sub001/pkg/utils"

	"github.com/gin-gonic/gin"
)

// InvoiceHandler exposes invoice batch processing.
type InvoiceHandler struct {
	invoiceService services.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(is services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: is}
}

// ProcessInvoice ingests a multi-line purchase invoice as one atomic batch.
func (h *InvoiceHandler) ProcessInvoice(c *gin.Context) {
	var req services.ProcessInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	result, err := h.invoiceService.ProcessInvoice(req, actorIDFromContext(c))
	if err != nil {
		utils.LogError(err, "ProcessInvoice: Error from invoiceService.ProcessInvoice")
		if errors.Is(err, services.ErrEmptyInvoice) || errors.Is(err, services.ErrInvalidQuantity) || errors.Is(err, services.ErrInvalidMovementType) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid invoice.", err.Error()))
		} else if errors.Is(err, services.ErrComponentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Component not found.", err.Error()))
		} else if errors.Is(err, services.ErrInsufficientStock) || errors.Is(err, services.ErrInsufficientReserved) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Insufficient stock for one or more items.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to process invoice.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, result)
}
