package services

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/marouan1337/oussaaaa/models"
)

// Sort orders accepted by the search endpoint. Anything else sorts by
// newest first.
const (
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortNewest    = "newest"
)

// FilterAll is the sentinel meaning "no filter" for type and city.
const FilterAll = "all"

// ListingQuery is a typed builder for the listing search pipeline. Zero
// values mean "no filter"; price bounds only apply when both are set.
type ListingQuery struct {
	Search    string
	Type      string
	City      string
	Amenities []string
	PriceMin  *float64
	PriceMax  *float64
	SortBy    string
}

// ManagerSummary is the joined manager shape exposed on search results.
type ManagerSummary struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}

// ListingResult is a listing as returned by the search pipeline: the
// document itself, the joined manager, and the derived display status.
type ListingResult struct {
	models.Property `bson:",inline"`
	Manager         *ManagerSummary `bson:"managerInfo,omitempty" json:"manager,omitempty"`
	DisplayStatus   string          `bson:"-" json:"displayStatus"`
}

// Pipeline assembles the aggregation stages in a fixed order: text match
// first (required by $text), equality/amenity filters, daily-price
// normalization, price-range match, sort, then the manager join.
func (q ListingQuery) Pipeline() mongo.Pipeline {
	p := mongo.Pipeline{}

	if q.Search != "" {
		p = append(p, bson.D{{Key: "$match", Value: bson.M{
			"$text": bson.M{"$search": q.Search},
		}}})
	}

	match := bson.M{}
	if q.Type != "" && q.Type != FilterAll {
		match["type"] = q.Type
	}
	if q.City != "" && q.City != FilterAll {
		match["location.city"] = q.City
	}
	if len(q.Amenities) > 0 {
		match["amenities"] = bson.M{"$all": q.Amenities}
	}
	if len(match) > 0 {
		p = append(p, bson.D{{Key: "$match", Value: match}})
	}

	// Normalized daily price: the daily tier when set, else monthly/30,
	// else 0. $divide yields null when the monthly tier is absent, so the
	// outer $ifNull catches listings with no price at all.
	p = append(p, bson.D{{Key: "$addFields", Value: bson.M{
		"normalizedDailyPrice": bson.M{"$ifNull": bson.A{
			bson.M{"$ifNull": bson.A{
				"$price.daily",
				bson.M{"$divide": bson.A{"$price.monthly", 30}},
			}},
			0,
		}},
	}}})

	if q.PriceMin != nil && q.PriceMax != nil {
		p = append(p, bson.D{{Key: "$match", Value: bson.M{
			"normalizedDailyPrice": bson.M{"$gte": *q.PriceMin, "$lte": *q.PriceMax},
		}}})
	}

	var sortStage bson.D
	switch q.SortBy {
	case SortPriceLow:
		sortStage = bson.D{{Key: "normalizedDailyPrice", Value: 1}}
	case SortPriceHigh:
		sortStage = bson.D{{Key: "normalizedDailyPrice", Value: -1}}
	default:
		sortStage = bson.D{{Key: "createdAt", Value: -1}}
	}
	p = append(p, bson.D{{Key: "$sort", Value: sortStage}})

	// Join the manager and keep only name/email from the user document.
	p = append(p,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "manager",
			"foreignField": "_id",
			"as":           "managerInfo",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$managerInfo",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"managerInfo": bson.M{
				"name":  "$managerInfo.name",
				"email": "$managerInfo.email",
			},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"normalizedDailyPrice": 0,
		}}},
	)

	return p
}
