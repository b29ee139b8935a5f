package routes

import (
	"errors"
	"log"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/marouan1337/oussaaaa/models"
	"github.com/marouan1337/oussaaaa/services"
	"github.com/marouan1337/oussaaaa/storage"
	"github.com/marouan1337/oussaaaa/utils"
)

func CreateProperty(ctx iris.Context) {
	var input UpsertListingInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !input.hasPriceTier() {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"At least one price tier (daily, weekly or monthly) is required.", ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.SessionToken)
	managerID, parseErr := primitive.ObjectIDFromHex(claims.ID)
	if parseErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Session Error", "Invalid session.", ctx)
		return
	}

	now := time.Now().UTC()
	property := input.toModel()
	property.Manager = managerID
	property.CreatedAt = now
	property.UpdatedAt = now

	reqCtx := ctx.Request().Context()
	res, insertErr := storage.Properties.InsertOne(reqCtx, property)
	if insertErr != nil {
		log.Println("property insert failed:", insertErr)
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Failed to create property"})
		return
	}
	property.ID = res.InsertedID.(primitive.ObjectID)

	utils.Audit(ctx, "property.create", "property", property.ID.Hex(), nil, property)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(property)
}

// GetProperty is the public detail view: the document, its manager's
// name/email, and the derived display status.
func GetProperty(ctx iris.Context) {
	id, ok := propertyIDParam(ctx)
	if !ok {
		return
	}

	reqCtx := ctx.Request().Context()

	var property models.Property
	findErr := storage.Properties.FindOne(reqCtx, bson.M{"_id": id}).Decode(&property)
	if errors.Is(findErr, mongo.ErrNoDocuments) {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"error": "Property not found"})
		return
	}
	if findErr != nil {
		log.Println("property lookup failed:", findErr)
		utils.CreateInternalServerError(ctx)
		return
	}

	result := services.ListingResult{
		Property:      property,
		DisplayStatus: services.DeriveStatus(property.Status, property.Availability, time.Now()),
	}

	if !property.Manager.IsZero() {
		var manager models.User
		managerErr := storage.Users.FindOne(reqCtx, bson.M{"_id": property.Manager}).Decode(&manager)
		if managerErr == nil {
			result.Manager = &services.ManagerSummary{Name: manager.Name, Email: manager.Email}
		}
	}

	ctx.JSON(result)
}

func UpdateProperty(ctx iris.Context) {
	id, ok := propertyIDParam(ctx)
	if !ok {
		return
	}

	var input UpsertListingInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !input.hasPriceTier() {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"At least one price tier (daily, weekly or monthly) is required.", ctx)
		return
	}

	updated := input.toModel()

	set := bson.M{
		"title":        updated.Title,
		"description":  updated.Description,
		"type":         updated.Type,
		"status":       updated.Status,
		"location":     updated.Location,
		"price":        updated.Price,
		"images":       updated.Images,
		"features":     updated.Features,
		"amenities":    updated.Amenities,
		"metadata":     updated.Metadata,
		"availability": updated.Availability,
		"updatedAt":    time.Now().UTC(),
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var property models.Property
	updateErr := storage.Properties.FindOneAndUpdate(
		ctx.Request().Context(), bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&property)
	if errors.Is(updateErr, mongo.ErrNoDocuments) {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"error": "Property not found"})
		return
	}
	if updateErr != nil {
		log.Println("property update failed:", updateErr)
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "property.update", "property", property.ID.Hex(), nil, property)

	ctx.JSON(property)
}

func DeleteProperty(ctx iris.Context) {
	id, ok := propertyIDParam(ctx)
	if !ok {
		return
	}

	var property models.Property
	deleteErr := storage.Properties.FindOneAndDelete(ctx.Request().Context(), bson.M{"_id": id}).Decode(&property)
	if errors.Is(deleteErr, mongo.ErrNoDocuments) {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"error": "Property not found"})
		return
	}
	if deleteErr != nil {
		log.Println("property delete failed:", deleteErr)
		utils.CreateInternalServerError(ctx)
		return
	}

	for _, image := range property.Images {
		if image.PublicID == "" {
			continue
		}
		if err := storage.DestroyImage(image.PublicID); err != nil {
			log.Println("image cleanup failed for", image.PublicID, ":", err)
		}
	}

	utils.Audit(ctx, "property.delete", "property", id.Hex(), property, nil)

	ctx.StatusCode(iris.StatusNoContent)
}

func propertyIDParam(ctx iris.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(ctx.Params().Get("id"))
	if err != nil {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Invalid property ID format"})
		return primitive.NilObjectID, false
	}
	return id, true
}

type CoordinatesInput struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type LocationInput struct {
	Address     string           `json:"address" validate:"max=256"`
	City        string           `json:"city" validate:"max=128"`
	State       string           `json:"state" validate:"max=128"`
	Country     string           `json:"country" validate:"max=128"`
	Coordinates CoordinatesInput `json:"coordinates"`
}

type PriceInput struct {
	Daily    *float64 `json:"daily" validate:"omitempty,min=0"`
	Weekly   *float64 `json:"weekly" validate:"omitempty,min=0"`
	Monthly  *float64 `json:"monthly" validate:"omitempty,min=0"`
	Currency string   `json:"currency" validate:"omitempty,max=8"`
}

type ImageInput struct {
	URL      string `json:"url" validate:"required"`
	PublicID string `json:"publicId"`
	Caption  string `json:"caption" validate:"max=256"`
}

type MetadataInput struct {
	Title       string   `json:"title" validate:"max=256"`
	Description string   `json:"description" validate:"max=512"`
	Keywords    []string `json:"keywords"`
}

type AvailabilityPeriodInput struct {
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=available booked blocked"`
}

type UpsertListingInput struct {
	Title        string                    `json:"title" validate:"required,max=256"`
	Description  string                    `json:"description" validate:"required"`
	Type         string                    `json:"type" validate:"required,oneof=rent sell"`
	Status       string                    `json:"status" validate:"omitempty,oneof=available rented maintenance"`
	Location     LocationInput             `json:"location"`
	Price        PriceInput                `json:"price"`
	Images       []ImageInput              `json:"images" validate:"dive"`
	Features     []string                  `json:"features"`
	Amenities    []string                  `json:"amenities"`
	Metadata     MetadataInput             `json:"metadata"`
	Availability []AvailabilityPeriodInput `json:"availability" validate:"dive"`
}

func (in UpsertListingInput) hasPriceTier() bool {
	for _, tier := range []*float64{in.Price.Daily, in.Price.Weekly, in.Price.Monthly} {
		if tier != nil && *tier > 0 {
			return true
		}
	}
	return false
}

func (in UpsertListingInput) toModel() models.Property {
	status := in.Status
	if status == "" {
		status = models.StatusAvailable
	}
	currency := in.Price.Currency
	if currency == "" {
		currency = "DH"
	}

	// Ensure arrays are never null
	images := make([]models.Image, 0, len(in.Images))
	for _, image := range in.Images {
		images = append(images, models.Image{URL: image.URL, PublicID: image.PublicID, Caption: image.Caption})
	}
	features := in.Features
	if features == nil {
		features = []string{}
	}
	amenities := in.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	availability := make([]models.AvailabilityPeriod, 0, len(in.Availability))
	for _, period := range in.Availability {
		availability = append(availability, models.AvailabilityPeriod{
			StartDate: period.StartDate,
			EndDate:   period.EndDate,
			Status:    period.Status,
		})
	}

	return models.Property{
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		Status:      status,
		Location: models.Location{
			Address: in.Location.Address,
			City:    in.Location.City,
			State:   in.Location.State,
			Country: in.Location.Country,
			Coordinates: models.Coordinates{
				Lat: in.Location.Coordinates.Lat,
				Lng: in.Location.Coordinates.Lng,
			},
		},
		Price: models.Price{
			Daily:    in.Price.Daily,
			Weekly:   in.Price.Weekly,
			Monthly:  in.Price.Monthly,
			Currency: currency,
		},
		Images:    images,
		Features:  features,
		Amenities: amenities,
		Metadata: models.Metadata{
			Title:       in.Metadata.Title,
			Description: in.Metadata.Description,
			Keywords:    in.Metadata.Keywords,
		},
		Availability: availability,
	}
}
