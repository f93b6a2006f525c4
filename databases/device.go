package databases

// go generate: mockery --name DeviceDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/safe-connect/sos-api/models"
)

const deviceCollectionName = "devices"

// DeviceDatabase contains the methods to use with the device database
type DeviceDatabase interface {
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]models.Device, error)
	DeleteByPushToken(ctx context.Context, pushToken string) error
}

type deviceDatabase struct {
	db DatabaseHelper
}

// NewDeviceDatabase initializes a new instance of device database with the provided db connection
func NewDeviceDatabase(db DatabaseHelper) DeviceDatabase {
	return &deviceDatabase{
		db: db,
	}
}

func (d *deviceDatabase) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]models.Device, error) {
	var devices []models.Device
	cur, err := d.db.Collection(deviceCollectionName).Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&devices)
	if err != nil {
		return nil, err
	}
	return devices, nil
}

// DeleteByPushToken removes a device whose token the push gateway rejected
// as no longer registered
func (d *deviceDatabase) DeleteByPushToken(ctx context.Context, pushToken string) error {
	return d.db.Collection(deviceCollectionName).DeleteOne(ctx, bson.M{"pushToken": pushToken})
}
