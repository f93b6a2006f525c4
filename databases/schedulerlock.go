package databases

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const schedulerLockCollectionName = "scheduler_locks"

// SchedulerLockDatabase provides a mongo-backed mutex so cron jobs run on a
// single instance at a time
type SchedulerLockDatabase interface {
	TryAcquireLock(ctx context.Context, jobName, instanceID string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, jobName, instanceID string) error
}

type schedulerLockDatabase struct {
	db DatabaseHelper
}

// NewSchedulerLockDatabase initializes a new instance of scheduler lock database
func NewSchedulerLockDatabase(db DatabaseHelper) SchedulerLockDatabase {
	return &schedulerLockDatabase{db: db}
}

// TryAcquireLock claims the named lock when it is free or expired. The claim
// is a single upsert guarded by the expiry, so concurrent claimers resolve
// to one winner via the unique _id.
func (s *schedulerLockDatabase) TryAcquireLock(ctx context.Context, jobName, instanceID string, ttl time.Duration) (bool, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"_id": jobName,
		"$or": []bson.M{
			{"expiresAt": bson.M{"$lt": now}},
			{"instanceId": instanceID},
		},
	}
	update := bson.M{"$set": bson.M{
		"instanceId": instanceID,
		"acquiredAt": now,
		"expiresAt":  now.Add(ttl),
	}}
	opts := options.Update().SetUpsert(true)
	_, err := s.db.Collection(schedulerLockCollectionName).UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// another instance holds an unexpired lock
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReleaseLock frees the lock if this instance still holds it
func (s *schedulerLockDatabase) ReleaseLock(ctx context.Context, jobName, instanceID string) error {
	return s.db.Collection(schedulerLockCollectionName).DeleteOne(ctx, bson.M{
		"_id":        jobName,
		"instanceId": instanceID,
	})
}
