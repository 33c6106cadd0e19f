package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentwise/internal/models"
	"rentwise/internal/services"
)

// ProfileHandler serves the authenticated realtor's profile.
type ProfileHandler struct {
	realtorService services.RealtorServicer
	auditService   services.AuditServicer
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(realtorService services.RealtorServicer, auditService services.AuditServicer) *ProfileHandler {
	return &ProfileHandler{realtorService: realtorService, auditService: auditService}
}

// UpdateProfileRequest represents the request payload for updating a profile.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,min=1,max=100"`
	Title     *string `json:"title" binding:"omitempty,realtor_title"`
	Company   *string `json:"company" binding:"omitempty,max=200"`
	Website   *string `json:"website" binding:"omitempty,url"`
	Bio       *string `json:"bio" binding:"omitempty,max=2000"`
}

// GetProfile returns the authenticated realtor
// @Summary     Get profile
// @Description Get the profile of the authenticated realtor
// @Tags        profile
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Realtor "Realtor profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Realtor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	realtorID, err := getRealtorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	realtor, err := h.realtorService.GetRealtorByID(c.Request.Context(), realtorID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"realtor": realtor})
}

// UpdateProfile updates the authenticated realtor's profile
// @Summary     Update profile
// @Description Update name, title, company, website or bio of the authenticated realtor
// @Tags        profile
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateProfileRequest true "Profile fields"
// @Success     200 {object} models.Realtor "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Realtor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	realtorID, err := getRealtorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	fields := services.RealtorProfileFields{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Company:   req.Company,
		Website:   req.Website,
		Bio:       req.Bio,
	}
	if req.Title != nil {
		title := models.RealtorTitle(*req.Title)
		fields.Title = &title
	}

	realtor, err := h.realtorService.UpdateProfile(c.Request.Context(), realtorID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(realtorID, "UPDATE_PROFILE", "realtor", realtorID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"realtor": realtor})
}
