package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	propertyRepo "stayhaven/database/repository/property"
	"stayhaven/models"
)

type fakeRepo struct {
	created []models.Property
}

func (f *fakeRepo) GetByID(id string) (*models.Property, error) {
	return nil, propertyRepo.ErrNotFound
}

func (f *fakeRepo) Search(criteria propertyRepo.PropertySearchCriteria) ([]models.Property, error) {
	return nil, nil
}

func (f *fakeRepo) Create(p *models.Property) error {
	f.created = append(f.created, *p)
	return nil
}

func (f *fakeRepo) GetByHost(hostID string) ([]models.Property, error) {
	return f.created, nil
}

func validProperty() *models.Property {
	return &models.Property{
		HostID:        "host-1",
		Title:         "Mountain Cabin",
		Location:      "Aspen",
		LocationType:  models.LocationTypeMountain,
		PricePerNight: 180,
		MaxGuests:     6,
	}
}

func TestCreateProperty(t *testing.T) {
	repo := &fakeRepo{}
	svc := &DefaultPropertyService{Repo: repo}

	p := validProperty()
	require.NoError(t, svc.Create(p))
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
	require.Len(t, repo.created, 1)
}

func TestCreatePropertyValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Property)
	}{
		{"missing title", func(p *models.Property) { p.Title = "" }},
		{"missing location", func(p *models.Property) { p.Location = "" }},
		{"zero price", func(p *models.Property) { p.PricePerNight = 0 }},
		{"negative price", func(p *models.Property) { p.PricePerNight = -5 }},
		{"zero guests", func(p *models.Property) { p.MaxGuests = 0 }},
		{"bad location type", func(p *models.Property) { p.LocationType = "underwater" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			svc := &DefaultPropertyService{Repo: repo}
			p := validProperty()
			tt.mutate(p)
			assert.Error(t, svc.Create(p))
			assert.Empty(t, repo.created)
		})
	}
}
