package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	propertyRepo "stayhaven/database/repository/property"
	"stayhaven/models"
	"stayhaven/services/property"
	"stayhaven/utils"
)

// PropertyHandler exposes listing search and host management endpoints.
type PropertyHandler struct {
	svc property.PropertyService
}

func NewPropertyHandler(svc property.PropertyService) *PropertyHandler {
	return &PropertyHandler{svc: svc}
}

// SearchProperties handles GET /api/properties.
func (h *PropertyHandler) SearchProperties(c *gin.Context) {
	criteria := propertyRepo.PropertySearchCriteria{
		Location:     c.Query("location"),
		LocationType: c.Query("location_type"),
	}
	if raw := c.Query("guests"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			criteria.Guests = v
		}
	}
	if raw := c.Query("min_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			criteria.MinPrice = v
		}
	}
	if raw := c.Query("max_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			criteria.MaxPrice = v
		}
	}

	properties, err := h.svc.Search(criteria)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Search failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": properties, "count": len(properties)})
}

// GetProperty handles GET /api/properties/:id.
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	found, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		if err == propertyRepo.ErrNotFound {
			utils.JSONError(c, http.StatusNotFound, "Property not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Lookup failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, found)
}

// CreateProperty handles POST /api/properties.
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	var input struct {
		Title         string   `json:"title" binding:"required"`
		Description   string   `json:"description"`
		Location      string   `json:"location" binding:"required"`
		LocationType  string   `json:"location_type" binding:"required"`
		PricePerNight float64  `json:"price_per_night" binding:"required"`
		MaxGuests     int      `json:"max_guests" binding:"required"`
		Amenities     []string `json:"amenities"`
		ImageURL      string   `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	prop := &models.Property{
		HostID:        c.GetString("userID"),
		Title:         input.Title,
		Description:   input.Description,
		Location:      input.Location,
		LocationType:  input.LocationType,
		PricePerNight: input.PricePerNight,
		MaxGuests:     input.MaxGuests,
		Amenities:     input.Amenities,
		ImageURL:      input.ImageURL,
	}
	if err := h.svc.Create(prop); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid property", err.Error())
		return
	}
	c.JSON(http.StatusCreated, prop)
}

// ListMyProperties handles GET /api/properties/mine.
func (h *PropertyHandler) ListMyProperties(c *gin.Context) {
	properties, err := h.svc.ListForHost(c.GetString("userID"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Lookup failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": properties, "count": len(properties)})
}
