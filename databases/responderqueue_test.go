package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/safe-connect/sos-api/databases"
	"github.com/safe-connect/sos-api/databases/mocks"
	"github.com/safe-connect/sos-api/models"
)

func TestResponderQueueDatabase_PopulateEmpty(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}

	queueDba := databases.NewResponderQueueDatabase(dbHelper)

	err := queueDba.Populate(context.Background(), primitive.NewObjectID(), nil)
	assert.NoError(t, err)
	dbHelper.AssertNotCalled(t, "Collection")
}

func TestResponderQueueDatabase_Populate(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	sosID := primitive.NewObjectID()
	candidates := []models.Candidate{
		{VolunteerID: primitive.NewObjectID(), DistanceKm: 1.2},
		{VolunteerID: primitive.NewObjectID(), DistanceKm: 4.8},
	}

	collectionHelper.
		On("InsertMany", context.Background(), mock.MatchedBy(func(docs []interface{}) bool {
			if len(docs) != 2 {
				return false
			}
			first := docs[0].(models.ResponderQueueEntry)
			return first.SosID == sosID &&
				first.Status == models.QueueStatusNotified &&
				first.DistanceKm == 1.2
		})).
		Return([]interface{}{primitive.NewObjectID(), primitive.NewObjectID()}, nil)

	dbHelper.On("Collection", "sos_responder_queue").Return(collectionHelper)

	queueDba := databases.NewResponderQueueDatabase(dbHelper)

	err := queueDba.Populate(context.Background(), sosID, candidates)
	assert.NoError(t, err)
}

func TestResponderQueueDatabase_MarkRespondedInvalidOutcome(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}

	queueDba := databases.NewResponderQueueDatabase(dbHelper)

	_, err := queueDba.MarkResponded(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), "SEEN", "")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestResponderQueueDatabase_MarkRespondedAccept(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}

	sosID := primitive.NewObjectID()
	volunteerID := primitive.NewObjectID()

	collectionHelper.
		On("UpdateOne", context.Background(), mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	srHelper.
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.ResponderQueueEntry)
		arg.SosID = sosID
		arg.VolunteerID = volunteerID
		arg.Status = models.QueueStatusAccepted
	})
	collectionHelper.
		On("FindOne", context.Background(), mock.Anything).
		Return(srHelper)

	dbHelper.On("Collection", "sos_responder_queue").Return(collectionHelper)

	queueDba := databases.NewResponderQueueDatabase(dbHelper)

	entry, err := queueDba.MarkResponded(context.Background(), sosID, volunteerID, models.QueueStatusAccepted, "")
	assert.NoError(t, err)
	assert.Equal(t, models.QueueStatusAccepted, entry.Status)
	assert.Equal(t, volunteerID, entry.VolunteerID)
}

func TestResponderQueueDatabase_MarkRespondedNotInQueue(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}

	collectionHelper.
		On("UpdateOne", context.Background(), mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	srHelper.
		On("Decode", mock.Anything).
		Return(mongo.ErrNoDocuments)
	collectionHelper.
		On("FindOne", context.Background(), mock.Anything).
		Return(srHelper)

	dbHelper.On("Collection", "sos_responder_queue").Return(collectionHelper)

	queueDba := databases.NewResponderQueueDatabase(dbHelper)

	_, err := queueDba.MarkResponded(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), models.QueueStatusDeclined, "too far")
	assert.ErrorIs(t, err, models.ErrNotInQueue)
}

func TestResponderQueueDatabase_MarkRespondedAlreadyResponded(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}

	collectionHelper.
		On("UpdateOne", context.Background(), mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	srHelper.
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.ResponderQueueEntry)
		arg.Status = models.QueueStatusDeclined
	})
	collectionHelper.
		On("FindOne", context.Background(), mock.Anything).
		Return(srHelper)

	dbHelper.On("Collection", "sos_responder_queue").Return(collectionHelper)

	queueDba := databases.NewResponderQueueDatabase(dbHelper)

	_, err := queueDba.MarkResponded(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), models.QueueStatusAccepted, "")
	assert.ErrorIs(t, err, models.ErrAlreadyResponded)
}

func TestResponderQueueDatabase_MarkSeen(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.
		On("UpdateOne", context.Background(), mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	dbHelper.On("Collection", "sos_responder_queue").Return(collectionHelper)

	queueDba := databases.NewResponderQueueDatabase(dbHelper)

	err := queueDba.MarkSeen(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	assert.NoError(t, err)
}

func TestResponderQueueDatabase_NextCandidateExhausted(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}

	srHelper.
		On("Decode", mock.Anything).
		Return(mongo.ErrNoDocuments)
	collectionHelper.
		On("FindOne", context.Background(), mock.Anything, mock.Anything).
		Return(srHelper)

	dbHelper.On("Collection", "sos_responder_queue").Return(collectionHelper)

	queueDba := databases.NewResponderQueueDatabase(dbHelper)

	entry, err := queueDba.NextCandidate(context.Background(), primitive.NewObjectID())
	assert.NoError(t, err)
	assert.Nil(t, entry)
}

func TestResponderQueueDatabase_NextCandidate(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}

	nearest := primitive.NewObjectID()
	srHelper.
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.ResponderQueueEntry)
		arg.VolunteerID = nearest
		arg.DistanceKm = 0.7
		arg.Status = models.QueueStatusNotified
	})
	collectionHelper.
		On("FindOne", context.Background(), mock.Anything, mock.Anything).
		Return(srHelper)

	dbHelper.On("Collection", "sos_responder_queue").Return(collectionHelper)

	queueDba := databases.NewResponderQueueDatabase(dbHelper)

	entry, err := queueDba.NextCandidate(context.Background(), primitive.NewObjectID())
	assert.NoError(t, err)
	assert.Equal(t, nearest, entry.VolunteerID)
}

func TestResponderQueueDatabase_DeclineAll(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.
		On("UpdateMany", context.Background(), mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 3, ModifiedCount: 3}, nil)

	dbHelper.On("Collection", "sos_responder_queue").Return(collectionHelper)

	queueDba := databases.NewResponderQueueDatabase(dbHelper)

	err := queueDba.DeclineAll(context.Background(), primitive.NewObjectID())
	assert.NoError(t, err)
}

func TestResponderQueueDatabase_RequeueEmpty(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}

	queueDba := databases.NewResponderQueueDatabase(dbHelper)

	reset, err := queueDba.Requeue(context.Background(), primitive.NewObjectID(), nil)
	assert.NoError(t, err)
	assert.Zero(t, reset)
	dbHelper.AssertNotCalled(t, "Collection")
}

func TestResponderQueueDatabase_Requeue(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	sosID := primitive.NewObjectID()
	volunteers := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}

	collectionHelper.
		On("UpdateMany", context.Background(), mock.MatchedBy(func(filter bson.M) bool {
			return filter["sosId"] == sosID
		}), mock.MatchedBy(func(update bson.M) bool {
			set := update["$set"].(bson.M)
			_, unsets := update["$unset"]
			return set["status"] == models.QueueStatusNotified && unsets
		})).
		Return(&mongo.UpdateResult{MatchedCount: 2, ModifiedCount: 2}, nil)

	dbHelper.On("Collection", "sos_responder_queue").Return(collectionHelper)

	queueDba := databases.NewResponderQueueDatabase(dbHelper)

	reset, err := queueDba.Requeue(context.Background(), sosID, volunteers)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), reset)
}

func TestResponderQueueDatabase_CountPendingError(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.
		On("CountDocuments", context.Background(), mock.Anything).
		Return(int64(0), errors.New("mocked-error"))

	dbHelper.On("Collection", "sos_responder_queue").Return(collectionHelper)

	queueDba := databases.NewResponderQueueDatabase(dbHelper)

	_, err := queueDba.CountPending(context.Background(), primitive.NewObjectID())
	assert.EqualError(t, err, "mocked-error")
}

func TestResponderQueueDatabase_DeleteByCase(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.
		On("DeleteMany", context.Background(), mock.Anything).
		Return(int64(4), nil)

	dbHelper.On("Collection", "sos_responder_queue").Return(collectionHelper)

	queueDba := databases.NewResponderQueueDatabase(dbHelper)

	deleted, err := queueDba.DeleteByCase(context.Background(), primitive.NewObjectID())
	assert.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
}
