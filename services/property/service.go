package property

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	propertyRepo "stayhaven/database/repository/property"
	"stayhaven/models"
)

// PropertyService defines listing management and search.
type PropertyService interface {
	Search(criteria propertyRepo.PropertySearchCriteria) ([]models.Property, error)
	GetByID(id string) (*models.Property, error)
	Create(property *models.Property) error
	ListForHost(hostID string) ([]models.Property, error)
}

// DefaultPropertyService implements PropertyService.
type DefaultPropertyService struct {
	Repo propertyRepo.PropertyRepository
}

func (s *DefaultPropertyService) Search(criteria propertyRepo.PropertySearchCriteria) ([]models.Property, error) {
	return s.Repo.Search(criteria)
}

func (s *DefaultPropertyService) GetByID(id string) (*models.Property, error) {
	return s.Repo.GetByID(id)
}

// Create validates and stores a new listing on behalf of a host.
func (s *DefaultPropertyService) Create(property *models.Property) error {
	if property.Title == "" {
		return fmt.Errorf("property title is required")
	}
	if property.Location == "" {
		return fmt.Errorf("property location is required")
	}
	if property.PricePerNight <= 0 {
		return fmt.Errorf("price per night must be positive")
	}
	if property.MaxGuests <= 0 {
		return fmt.Errorf("max guests must be positive")
	}
	switch property.LocationType {
	case models.LocationTypeCity, models.LocationTypeBeach, models.LocationTypeMountain, models.LocationTypeCountryside:
	default:
		return fmt.Errorf("unknown location type %q", property.LocationType)
	}

	property.ID = uuid.New().String()
	property.CreatedAt = time.Now()
	return s.Repo.Create(property)
}

func (s *DefaultPropertyService) ListForHost(hostID string) ([]models.Property, error) {
	return s.Repo.GetByHost(hostID)
}
