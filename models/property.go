package models

import "time"

// Property location types surfaced in search filters.
const (
	LocationTypeCity        = "city"
	LocationTypeBeach       = "beach"
	LocationTypeMountain    = "mountain"
	LocationTypeCountryside = "countryside"
)

// Property represents a rental listing owned by a host.
type Property struct {
	ID            string    `bson:"id" json:"id"`
	HostID        string    `bson:"host_id" json:"host_id"`
	Title         string    `bson:"title" json:"title"`
	Description   string    `bson:"description,omitempty" json:"description,omitempty"`
	Location      string    `bson:"location" json:"location"`                // e.g. "Lisbon, Portugal"
	LocationType  string    `bson:"location_type" json:"location_type"`     // city, beach, mountain, countryside
	PricePerNight float64   `bson:"price_per_night" json:"price_per_night"` // positive
	MaxGuests     int       `bson:"max_guests" json:"max_guests"`           // positive
	Amenities     []string  `bson:"amenities,omitempty" json:"amenities,omitempty"`
	ImageURL      string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}
