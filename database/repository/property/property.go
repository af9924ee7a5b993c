package propertyRepo

import "stayhaven/models"

// PropertySearchCriteria holds the optional filters for a property search.
// Zero values mean "no filter".
type PropertySearchCriteria struct {
	Location     string
	LocationType string
	Guests       int
	MinPrice     float64
	MaxPrice     float64
	Limit        int
}

// PropertyRepository defines the storage operations for property listings.
type PropertyRepository interface {
	GetByID(id string) (*models.Property, error)
	Search(criteria PropertySearchCriteria) ([]models.Property, error)
	Create(property *models.Property) error
	GetByHost(hostID string) ([]models.Property, error)
}
