package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing type.
const (
	TypeRent = "rent"
	TypeSell = "sell"
)

// Stored listing status. The status shown on list views is derived, see
// services.DeriveStatus.
const (
	StatusAvailable   = "available"
	StatusRented      = "rented"
	StatusMaintenance = "maintenance"
)

// Availability period status.
const (
	PeriodAvailable = "available"
	PeriodBooked    = "booked"
	PeriodBlocked   = "blocked"
)

type Coordinates struct {
	Lat float64 `bson:"lat,omitempty" json:"lat"`
	Lng float64 `bson:"lng,omitempty" json:"lng"`
}

type Location struct {
	Address     string      `bson:"address,omitempty" json:"address"`
	City        string      `bson:"city,omitempty" json:"city"`
	State       string      `bson:"state,omitempty" json:"state"`
	Country     string      `bson:"country,omitempty" json:"country"`
	Coordinates Coordinates `bson:"coordinates,omitempty" json:"coordinates"`
}

// Price tiers are pointers so unset tiers stay absent in the document;
// the search pipeline's daily-price normalization relies on that.
type Price struct {
	Daily    *float64 `bson:"daily,omitempty" json:"daily,omitempty"`
	Weekly   *float64 `bson:"weekly,omitempty" json:"weekly,omitempty"`
	Monthly  *float64 `bson:"monthly,omitempty" json:"monthly,omitempty"`
	Currency string   `bson:"currency,omitempty" json:"currency"`
}

type Image struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"publicId,omitempty" json:"publicId,omitempty"`
	Caption  string `bson:"caption,omitempty" json:"caption,omitempty"`
}

type Metadata struct {
	Title       string   `bson:"title,omitempty" json:"title,omitempty"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Keywords    []string `bson:"keywords,omitempty" json:"keywords,omitempty"`
}

type AvailabilityPeriod struct {
	StartDate time.Time `bson:"startDate" json:"startDate"`
	EndDate   time.Time `bson:"endDate" json:"endDate"`
	Status    string    `bson:"status" json:"status"` // available, booked, blocked
}

type Property struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title        string               `bson:"title" json:"title"`
	Description  string               `bson:"description" json:"description"`
	Type         string               `bson:"type" json:"type"`     // rent, sell
	Status       string               `bson:"status" json:"status"` // available, rented, maintenance
	Location     Location             `bson:"location,omitempty" json:"location"`
	Price        Price                `bson:"price,omitempty" json:"price"`
	Images       []Image              `bson:"images" json:"images"`
	Features     []string             `bson:"features" json:"features"`
	Amenities    []string             `bson:"amenities" json:"amenities"`
	Manager      primitive.ObjectID   `bson:"manager,omitempty" json:"manager,omitempty"`
	Metadata     Metadata             `bson:"metadata,omitempty" json:"metadata"`
	Availability []AvailabilityPeriod `bson:"availability" json:"availability"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}
