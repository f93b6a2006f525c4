package databases

// go generate: mockery --name ResponderQueueDatabase

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/safe-connect/sos-api/models"
)

const responderQueueCollectionName = "sos_responder_queue"

// ResponderQueueDatabase contains the methods to use with the responder
// queue. Entries are created in bulk at dispatch time and only ever updated
// in place afterwards; declined and expired entries are retained for audit.
type ResponderQueueDatabase interface {
	Populate(ctx context.Context, sosID primitive.ObjectID, candidates []models.Candidate) error
	MarkResponded(ctx context.Context, sosID, volunteerID primitive.ObjectID, outcome, reason string) (*models.ResponderQueueEntry, error)
	MarkSeen(ctx context.Context, sosID, volunteerID primitive.ObjectID) error
	DeclineAllExcept(ctx context.Context, sosID, keepVolunteerID primitive.ObjectID) error
	DeclineAll(ctx context.Context, sosID primitive.ObjectID) error
	NextCandidate(ctx context.Context, sosID primitive.ObjectID) (*models.ResponderQueueEntry, error)
	Requeue(ctx context.Context, sosID primitive.ObjectID, volunteerIDs []primitive.ObjectID) (int64, error)
	EntriesByCase(ctx context.Context, sosID primitive.ObjectID) ([]models.ResponderQueueEntry, error)
	CountPending(ctx context.Context, sosID primitive.ObjectID) (int64, error)
	DeleteByCase(ctx context.Context, sosID primitive.ObjectID) (int64, error)
}

type responderQueueDatabase struct {
	db DatabaseHelper
}

// NewResponderQueueDatabase initializes a new instance of responder queue database with the provided db connection
func NewResponderQueueDatabase(db DatabaseHelper) ResponderQueueDatabase {
	return &responderQueueDatabase{
		db: db,
	}
}

// Populate inserts one NOTIFIED entry per candidate. The unique
// (sosId, volunteerId) index rejects re-notifying an already queued
// volunteer; that surfaces as ErrDuplicateEntry.
func (q *responderQueueDatabase) Populate(ctx context.Context, sosID primitive.ObjectID, candidates []models.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(candidates))
	for _, c := range candidates {
		docs = append(docs, models.ResponderQueueEntry{
			ID:          primitive.NewObjectID(),
			SosID:       sosID,
			VolunteerID: c.VolunteerID,
			DistanceKm:  c.DistanceKm,
			Status:      models.QueueStatusNotified,
			NotifiedAt:  now,
		})
	}
	_, err := q.db.Collection(responderQueueCollectionName).InsertMany(ctx, docs)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicateEntry
		}
		return err
	}
	return nil
}

// MarkResponded transitions one entry from NOTIFIED/SEEN to ACCEPTED or
// DECLINED. When the guarded update matches nothing, the existing entry is
// inspected to distinguish a missing entry from one that already responded.
func (q *responderQueueDatabase) MarkResponded(ctx context.Context, sosID, volunteerID primitive.ObjectID, outcome, reason string) (*models.ResponderQueueEntry, error) {
	if outcome != models.QueueStatusAccepted && outcome != models.QueueStatusDeclined {
		return nil, models.ErrValidation
	}

	now := time.Now().UTC()
	set := bson.M{
		"status":      outcome,
		"respondedAt": now,
	}
	if outcome == models.QueueStatusDeclined {
		set["declinedAt"] = now
		if reason != "" {
			set["declineReason"] = reason
		}
	}

	filter := bson.M{
		"sosId":       sosID,
		"volunteerId": volunteerID,
		"status":      bson.M{"$in": []string{models.QueueStatusNotified, models.QueueStatusSeen}},
	}
	res, err := q.db.Collection(responderQueueCollectionName).UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		entry := &models.ResponderQueueEntry{}
		err = q.db.Collection(responderQueueCollectionName).
			FindOne(ctx, bson.M{"sosId": sosID, "volunteerId": volunteerID}).
			Decode(entry)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, models.ErrNotInQueue
			}
			return nil, err
		}
		return nil, models.ErrAlreadyResponded
	}

	entry := &models.ResponderQueueEntry{}
	err = q.db.Collection(responderQueueCollectionName).
		FindOne(ctx, bson.M{"sosId": sosID, "volunteerId": volunteerID}).
		Decode(entry)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// MarkSeen moves a NOTIFIED entry to SEEN. Re-marking a SEEN entry is a
// no-op; entries that already responded reject the transition.
func (q *responderQueueDatabase) MarkSeen(ctx context.Context, sosID, volunteerID primitive.ObjectID) error {
	filter := bson.M{
		"sosId":       sosID,
		"volunteerId": volunteerID,
		"status":      bson.M{"$in": []string{models.QueueStatusNotified, models.QueueStatusSeen}},
	}
	res, err := q.db.Collection(responderQueueCollectionName).UpdateOne(ctx, filter, bson.M{"$set": bson.M{"status": models.QueueStatusSeen}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		entry := &models.ResponderQueueEntry{}
		err = q.db.Collection(responderQueueCollectionName).
			FindOne(ctx, bson.M{"sosId": sosID, "volunteerId": volunteerID}).
			Decode(entry)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return models.ErrNotInQueue
			}
			return err
		}
		return models.ErrAlreadyResponded
	}
	return nil
}

// DeclineAllExcept bulk-declines every other pending entry for the case.
// Used on acceptance to close the window for the remaining volunteers.
func (q *responderQueueDatabase) DeclineAllExcept(ctx context.Context, sosID, keepVolunteerID primitive.ObjectID) error {
	filter := bson.M{
		"sosId":       sosID,
		"volunteerId": bson.M{"$ne": keepVolunteerID},
		"status":      bson.M{"$in": []string{models.QueueStatusNotified, models.QueueStatusSeen}},
	}
	return q.declineMany(ctx, filter)
}

// DeclineAll bulk-declines every pending entry for the case. Used on case
// cancellation.
func (q *responderQueueDatabase) DeclineAll(ctx context.Context, sosID primitive.ObjectID) error {
	filter := bson.M{
		"sosId":  sosID,
		"status": bson.M{"$in": []string{models.QueueStatusNotified, models.QueueStatusSeen}},
	}
	return q.declineMany(ctx, filter)
}

func (q *responderQueueDatabase) declineMany(ctx context.Context, filter bson.M) error {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"status":      models.QueueStatusDeclined,
		"respondedAt": now,
		"declinedAt":  now,
	}}
	_, err := q.db.Collection(responderQueueCollectionName).UpdateMany(ctx, filter, update)
	return err
}

// NextCandidate returns the pending NOTIFIED entry closest to the reporter,
// or nil when the queue is exhausted. Ties break on volunteerId so the
// order is deterministic.
func (q *responderQueueDatabase) NextCandidate(ctx context.Context, sosID primitive.ObjectID) (*models.ResponderQueueEntry, error) {
	opts := options.FindOne().SetSort(bson.D{
		{Key: "distanceKm", Value: 1},
		{Key: "volunteerId", Value: 1},
	})
	entry := &models.ResponderQueueEntry{}
	err := q.db.Collection(responderQueueCollectionName).
		FindOne(ctx, bson.M{"sosId": sosID, "status": models.QueueStatusNotified}, opts).
		Decode(entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

// Requeue resets retained entries for the given volunteers back to NOTIFIED
// with a fresh notifiedAt, so a later dispatch round can re-notify them
// without violating the unique (sosId, volunteerId) index. Returns the
// number of entries reset.
func (q *responderQueueDatabase) Requeue(ctx context.Context, sosID primitive.ObjectID, volunteerIDs []primitive.ObjectID) (int64, error) {
	if len(volunteerIDs) == 0 {
		return 0, nil
	}
	filter := bson.M{
		"sosId":       sosID,
		"volunteerId": bson.M{"$in": volunteerIDs},
		"status":      bson.M{"$in": []string{models.QueueStatusAccepted, models.QueueStatusDeclined, models.QueueStatusExpired}},
	}
	update := bson.M{
		"$set":   bson.M{"status": models.QueueStatusNotified, "notifiedAt": time.Now().UTC()},
		"$unset": bson.M{"respondedAt": "", "declinedAt": "", "declineReason": ""},
	}
	res, err := q.db.Collection(responderQueueCollectionName).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (q *responderQueueDatabase) EntriesByCase(ctx context.Context, sosID primitive.ObjectID) ([]models.ResponderQueueEntry, error) {
	var entries []models.ResponderQueueEntry
	opts := options.Find().SetSort(bson.D{{Key: "distanceKm", Value: 1}, {Key: "volunteerId", Value: 1}})
	cur, err := q.db.Collection(responderQueueCollectionName).Find(ctx, bson.M{"sosId": sosID}, opts)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// CountPending counts entries that have not responded yet
func (q *responderQueueDatabase) CountPending(ctx context.Context, sosID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"sosId":  sosID,
		"status": bson.M{"$in": []string{models.QueueStatusNotified, models.QueueStatusSeen}},
	}
	return q.db.Collection(responderQueueCollectionName).CountDocuments(ctx, filter)
}

// DeleteByCase removes every queue entry for the case. Only the
// administrative hard-delete cascade calls this.
func (q *responderQueueDatabase) DeleteByCase(ctx context.Context, sosID primitive.ObjectID) (int64, error) {
	return q.db.Collection(responderQueueCollectionName).DeleteMany(ctx, bson.M{"sosId": sosID})
}
