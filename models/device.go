package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Device holds the structure for the devices collection in mongo. One
// document per registered push target; a user may hold several.
type Device struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Platform  string             `json:"platform" bson:"platform"`
	PushToken string             `json:"pushToken" bson:"pushToken"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Notification is the audit record of one delivered push notification
type Notification struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	Type        string             `json:"type" bson:"type"`
	Title       string             `json:"title" bson:"title"`
	Body        string             `json:"body" bson:"body"`
	Data        map[string]string  `json:"data,omitempty" bson:"data,omitempty"`
	DeliveredAt time.Time          `json:"deliveredAt" bson:"deliveredAt"`
}
