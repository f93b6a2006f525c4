package databases

// go generate: mockery --name NotificationDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/safe-connect/sos-api/models"
)

const notificationCollectionName = "notifications"

// NotificationDatabase records delivered push notifications for audit
type NotificationDatabase interface {
	InsertOne(ctx context.Context, notification models.Notification) error
}

type notificationDatabase struct {
	db DatabaseHelper
}

// NewNotificationDatabase initializes a new instance of notification database with the provided db connection
func NewNotificationDatabase(db DatabaseHelper) NotificationDatabase {
	return &notificationDatabase{
		db: db,
	}
}

func (n *notificationDatabase) InsertOne(ctx context.Context, notification models.Notification) error {
	if notification.ID.IsZero() {
		notification.ID = primitive.NewObjectID()
	}
	_, err := n.db.Collection(notificationCollectionName).InsertOne(ctx, notification)
	return err
}
