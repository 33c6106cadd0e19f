package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentwise/internal/pagination"
	"rentwise/internal/services"
)

// UnitHandler handles unit-related requests.
type UnitHandler struct {
	unitService  services.UnitServicer
	auditService services.AuditServicer
}

// NewUnitHandler creates a new UnitHandler.
func NewUnitHandler(unitService services.UnitServicer, auditService services.AuditServicer) *UnitHandler {
	return &UnitHandler{unitService: unitService, auditService: auditService}
}

// CreateUnitRequest represents the request payload for creating a unit
type CreateUnitRequest struct {
	UnitIdentifier string `json:"unit_identifier" binding:"required,min=1,max=100"`
	Address        string `json:"address" binding:"max=500"`
	Bedrooms       int    `json:"bedrooms" binding:"gte=0"`
	Bathrooms      int    `json:"bathrooms" binding:"gte=0"`
}

// CreateUnit handles the creation of a unit
// @Summary     Create a unit
// @Description Create a rentable unit owned by the authenticated realtor
// @Tags        units
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateUnitRequest true "Unit details"
// @Success     201 {object} models.Unit "Unit created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /units [post]
func (h *UnitHandler) CreateUnit(c *gin.Context) {
	realtorID, err := getRealtorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	unit, err := h.unitService.CreateUnit(c.Request.Context(), realtorID, services.UnitInput{
		UnitIdentifier: req.UnitIdentifier,
		Address:        req.Address,
		Bedrooms:       req.Bedrooms,
		Bathrooms:      req.Bathrooms,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(realtorID, "CREATE_UNIT", "unit", unit.ID, c.ClientIP(),
		map[string]interface{}{"unit_identifier": unit.UnitIdentifier})

	c.JSON(http.StatusCreated, gin.H{"unit": unit})
}

// GetRealtorUnits lists the realtor's units
// @Summary     List units
// @Description Get a paginated list of units owned by the authenticated realtor
// @Tags        units
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Param       sort      query string false "unit_identifier or created_at; prefix - for descending"
// @Success     200 {object} pagination.PageResponse[models.Unit] "Paginated units"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /units [get]
func (h *UnitHandler) GetRealtorUnits(c *gin.Context) {
	realtorID, err := getRealtorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.unitService.GetRealtorUnits(c.Request.Context(), realtorID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUnitByID returns one unit
// @Summary     Get unit by ID
// @Tags        units
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Unit ID"
// @Success     200 {object} models.Unit "Unit details"
// @Failure     400 {object} ErrorResponse "Invalid unit ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Unit not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /units/{id} [get]
func (h *UnitHandler) GetUnitByID(c *gin.Context) {
	realtorID, err := getRealtorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	unitID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	unit, err := h.unitService.GetUnitByID(c.Request.Context(), realtorID, unitID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unit": unit})
}
