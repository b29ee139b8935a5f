package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. The role only influences contact-info priority today;
// back-office routes are gated on session existence alone.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email          string             `bson:"email" json:"email"` // stored lowercase, unique index
	Password       string             `bson:"password" json:"-"`
	Name           string             `bson:"name" json:"name"`
	Role           string             `bson:"role" json:"role"`
	Active         *bool              `bson:"active,omitempty" json:"active"`
	LastLogin      *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	WhatsappNumber string             `bson:"whatsappNumber,omitempty" json:"whatsappNumber,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
