package services

import (
	"context"
	"errors"
	"os"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/marouan1337/oussaaaa/models"
)

// fallbackWhatsappNumber is used when no user carries a number, matching
// the number the public site always showed.
const fallbackWhatsappNumber = "212600000000"

// ContactSource says which tier of the resolution chain produced the
// number, so callers (and tests) can tell them apart.
type ContactSource string

const (
	ContactSourceAdmin        ContactSource = "admin"
	ContactSourceFallbackUser ContactSource = "fallback-user"
	ContactSourceDefault      ContactSource = "default"
)

type ContactInfo struct {
	WhatsappNumber string
	Source         ContactSource
}

// UserDirectory is the slice of the user store the contact resolution
// needs. The Mongo implementation lives below; tests supply a fake.
type UserDirectory interface {
	// AdminWhatsappNumber returns the number of a user with the admin
	// role, or "" when there is no admin or the admin has no number.
	AdminWhatsappNumber(ctx context.Context) (string, error)
	// EarliestWhatsappNumber returns the number of the earliest-created
	// user, or "" when the database is empty or that user has no number.
	EarliestWhatsappNumber(ctx context.Context) (string, error)
}

// DefaultWhatsappNumber returns the hardcoded contact number, overridable
// via DEFAULT_WHATSAPP_NUMBER.
func DefaultWhatsappNumber() string {
	if n := os.Getenv("DEFAULT_WHATSAPP_NUMBER"); n != "" {
		return n
	}
	return fallbackWhatsappNumber
}

// ResolveContactInfo runs the three-tier chain: admin number, then the
// earliest user's number, then the default. Store errors are returned to
// the caller together with the default so the contact button keeps
// working either way.
func ResolveContactInfo(ctx context.Context, dir UserDirectory) (ContactInfo, error) {
	number, err := dir.AdminWhatsappNumber(ctx)
	if err != nil {
		return ContactInfo{WhatsappNumber: DefaultWhatsappNumber(), Source: ContactSourceDefault}, err
	}
	if number != "" {
		return ContactInfo{WhatsappNumber: number, Source: ContactSourceAdmin}, nil
	}

	number, err = dir.EarliestWhatsappNumber(ctx)
	if err != nil {
		return ContactInfo{WhatsappNumber: DefaultWhatsappNumber(), Source: ContactSourceDefault}, err
	}
	if number != "" {
		return ContactInfo{WhatsappNumber: number, Source: ContactSourceFallbackUser}, nil
	}

	return ContactInfo{WhatsappNumber: DefaultWhatsappNumber(), Source: ContactSourceDefault}, nil
}

type mongoUserDirectory struct {
	users *mongo.Collection
}

// NewUserDirectory wraps the users collection as a UserDirectory.
func NewUserDirectory(users *mongo.Collection) UserDirectory {
	return &mongoUserDirectory{users: users}
}

func (d *mongoUserDirectory) AdminWhatsappNumber(ctx context.Context) (string, error) {
	return d.findNumber(ctx, bson.M{"role": models.RoleAdmin}, nil)
}

func (d *mongoUserDirectory) EarliestWhatsappNumber(ctx context.Context) (string, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return d.findNumber(ctx, bson.M{}, opts)
}

func (d *mongoUserDirectory) findNumber(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (string, error) {
	var user models.User
	var err error
	if opts != nil {
		err = d.users.FindOne(ctx, filter, opts).Decode(&user)
	} else {
		err = d.users.FindOne(ctx, filter).Decode(&user)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return user.WhatsappNumber, nil
}
