package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Industrias-CTS/inventario-sub001/internal/models"
	"github.com/Industrias-CTS/inventario-sub001/internal/services"
	"github.com/Industrias-CTS/inventario-sub001/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ComponentHandler exposes the component catalog.
type ComponentHandler struct {
	componentService services.ComponentService
}

// NewComponentHandler creates a new ComponentHandler.
func NewComponentHandler(cs services.ComponentService) *ComponentHandler {
	return &ComponentHandler{componentService: cs}
}

// CreateComponent creates a catalog entry with zero stock.
func (h *ComponentHandler) CreateComponent(c *gin.Context) {
	var req services.CreateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	component, err := h.componentService.CreateComponent(req)
	if err != nil {
		utils.LogError(err, "CreateComponent: Error from componentService.CreateComponent")
		if errors.Is(err, services.ErrComponentCodeExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Component code already exists.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create component.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, component)
}

// GetComponents lists components with filters.
func (h *ComponentHandler) GetComponents(c *gin.Context) {
	var filters models.ComponentFilters
	var ok bool

	if filters.CategoryID, ok = parseOptionalInt64Query(c, "category_id"); !ok {
		return
	}
	if isActiveStr := c.Query("is_active"); isActiveStr != "" {
		isActive, err := strconv.ParseBool(isActiveStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid is_active format.", err.Error()))
			return
		}
		filters.IsActive = &isActive
	}
	if lowStockStr := c.Query("low_stock"); lowStockStr != "" {
		lowStock, err := strconv.ParseBool(lowStockStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid low_stock format.", err.Error()))
			return
		}
		filters.LowStock = lowStock
	}
	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}
	if filters.Page, filters.PageSize, ok = parsePagination(c); !ok {
		return
	}

	components, totalCount, err := h.componentService.GetComponents(filters)
	if err != nil {
		utils.LogError(err, "GetComponents: Error from componentService.GetComponents")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch components.", "Internal error"))
		return
	}
	if components == nil {
		components = []models.Component{}
	}
	respondPaginated(c, components, totalCount, filters.Page, filters.PageSize)
}

// GetComponentByID fetches a single component.
func (h *ComponentHandler) GetComponentByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	component, err := h.componentService.GetComponentByID(id)
	if err != nil {
		utils.LogError(err, "GetComponentByID: Error from componentService.GetComponentByID")
		if errors.Is(err, services.ErrComponentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Component not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch component.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, component)
}

// GetComponentByCode fetches a single component by its SKU code.
func (h *ComponentHandler) GetComponentByCode(c *gin.Context) {
	code := c.Param("code")
	if utils.IsEmpty(code) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Component code required.", ""))
		return
	}

	component, err := h.componentService.GetComponentByCode(code)
	if err != nil {
		utils.LogError(err, "GetComponentByCode: Error from componentService.GetComponentByCode")
		if errors.Is(err, services.ErrComponentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Component not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch component.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, component)
}

// UpdateComponent updates a component's static attributes.
func (h *ComponentHandler) UpdateComponent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	component, err := h.componentService.UpdateComponent(id, req)
	if err != nil {
		utils.LogError(err, "UpdateComponent: Error from componentService.UpdateComponent")
		if errors.Is(err, services.ErrComponentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Component not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update component.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, component)
}

// DeleteComponent removes or deactivates a component. Components with ledger
// history are deactivated instead of deleted.
func (h *ComponentHandler) DeleteComponent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	softDeleted, err := h.componentService.DeleteComponent(id)
	if err != nil {
		utils.LogError(err, "DeleteComponent: Error from componentService.DeleteComponent")
		if errors.Is(err, services.ErrComponentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Component not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete component.", "Internal error"))
		}
		return
	}

	message := "Component deleted successfully"
	if softDeleted {
		message = "Component has movement history; deactivated instead of deleted"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "deactivated": softDeleted})
}
