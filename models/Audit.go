package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditLog struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ActorID      primitive.ObjectID `bson:"actorID,omitempty" json:"actorID"`
	Action       string             `bson:"action" json:"action"`
	ResourceType string             `bson:"resourceType" json:"resourceType"`
	ResourceID   string             `bson:"resourceID,omitempty" json:"resourceID"`
	BeforeJSON   string             `bson:"beforeJSON,omitempty" json:"beforeJSON"`
	AfterJSON    string             `bson:"afterJSON,omitempty" json:"afterJSON"`
	IPAddress    string             `bson:"ipAddress,omitempty" json:"ipAddress"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
