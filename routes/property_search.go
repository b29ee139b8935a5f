package routes

import (
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kataras/iris/v12"

	"github.com/marouan1337/oussaaaa/services"
	"github.com/marouan1337/oussaaaa/storage"
)

// SearchProperties is the public listing search endpoint.
func SearchProperties(ctx iris.Context) {
	query := parseListingQuery(ctx.Request().URL.Query())

	reqCtx := ctx.Request().Context()
	cursor, err := storage.Properties.Aggregate(reqCtx, query.Pipeline())
	if err != nil {
		log.Println("property search failed:", err)
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to search properties"})
		return
	}
	defer cursor.Close(reqCtx)

	var results []services.ListingResult
	if err := cursor.All(reqCtx, &results); err != nil {
		log.Println("property search decode failed:", err)
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to search properties"})
		return
	}
	if results == nil {
		results = []services.ListingResult{}
	}

	now := time.Now()
	for i := range results {
		results[i].DisplayStatus = services.DeriveStatus(results[i].Status, results[i].Availability, now)
	}

	ctx.JSON(results)
}

// parseListingQuery maps request parameters onto the typed builder.
// Malformed numeric parameters leave the price filter off rather than
// failing the request.
func parseListingQuery(values url.Values) services.ListingQuery {
	query := services.ListingQuery{
		Search: strings.TrimSpace(values.Get("search")),
		Type:   strings.TrimSpace(values.Get("type")),
		City:   strings.TrimSpace(values.Get("city")),
		SortBy: strings.TrimSpace(values.Get("sortBy")),
	}
	if query.SortBy == "" {
		query.SortBy = services.SortPriceLow
	}

	if raw := strings.TrimSpace(values.Get("amenities")); raw != "" {
		for _, amenity := range strings.Split(raw, ",") {
			amenity = strings.TrimSpace(amenity)
			if amenity != "" {
				query.Amenities = append(query.Amenities, amenity)
			}
		}
	}

	if raw := values.Get("priceMin"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			query.PriceMin = &v
		}
	}
	if raw := values.Get("priceMax"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			query.PriceMax = &v
		}
	}

	return query
}
