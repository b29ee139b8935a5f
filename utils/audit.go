package utils

import (
	"encoding/json"
	"log"
	"net"
	"time"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/marouan1337/oussaaaa/models"
	"github.com/marouan1337/oussaaaa/storage"
)

// Audit appends a back-office mutation to the audit_logs collection.
// Failures are logged, never surfaced to the request.
func Audit(ctx iris.Context, action, resourceType, resourceID string, before interface{}, after interface{}) {
	var beforeStr, afterStr string
	if before != nil {
		if b, err := json.Marshal(before); err == nil {
			beforeStr = string(b)
		}
	}
	if after != nil {
		if a, err := json.Marshal(after); err == nil {
			afterStr = string(a)
		}
	}

	var actorID primitive.ObjectID
	if tok := jsonWT.Get(ctx); tok != nil {
		if st, ok := tok.(*SessionToken); ok {
			if oid, err := primitive.ObjectIDFromHex(st.ID); err == nil {
				actorID = oid
			}
		}
	}

	entry := models.AuditLog{
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeJSON:   beforeStr,
		AfterJSON:    afterStr,
		IPAddress:    clientIP(ctx),
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := storage.AuditLogs.InsertOne(bgContext, entry); err != nil {
		log.Println("audit insert failed:", err)
	}
}

func clientIP(ctx iris.Context) string {
	if ip := ctx.GetHeader("X-Forwarded-For"); ip != "" {
		return ip
	}
	ip, _, _ := net.SplitHostPort(ctx.RemoteAddr())
	return ip
}
