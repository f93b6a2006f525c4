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

// geoNearStage digs the $geoNear document out of the aggregation pipeline
func geoNearStage(pipeline mongo.Pipeline) (bson.M, bool) {
	if len(pipeline) == 0 {
		return nil, false
	}
	for _, elem := range pipeline[0] {
		if elem.Key == "$geoNear" {
			stage, ok := elem.Value.(bson.M)
			return stage, ok
		}
	}
	return nil, false
}

func TestVolunteerDatabase_FindCandidates(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	cursorHelper := &mocks.CursorHelper{}

	excluded := primitive.NewObjectID()
	origin := models.NewGeoPoint(48.8566, 2.3522)

	want := []models.Candidate{
		{VolunteerID: primitive.NewObjectID(), DistanceKm: 0.9},
		{VolunteerID: primitive.NewObjectID(), DistanceKm: 3.1},
	}

	cursorHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Candidate)
		*arg = want
	})
	collectionHelper.
		On("Aggregate", context.Background(), mock.MatchedBy(func(pipeline mongo.Pipeline) bool {
			stage, ok := geoNearStage(pipeline)
			if !ok {
				return false
			}
			query := stage["query"].(bson.M)
			nin := query["userId"].(bson.M)["$nin"].([]primitive.ObjectID)
			return stage["key"] == "homeBase.location" &&
				stage["maxDistance"] == 5000.0 &&
				query["status"] == models.VolunteerStatusApproved &&
				query["ready"] == true &&
				len(nin) == 1 && nin[0] == excluded
		})).
		Return(cursorHelper, nil)
	dbHelper.On("Collection", "volunteer_profiles").Return(collectionHelper)

	volunteerDba := databases.NewVolunteerDatabase(dbHelper)

	got, err := volunteerDba.FindCandidates(context.Background(), origin, 5, 10, []primitive.ObjectID{excluded})
	assert.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestVolunteerDatabase_FindCandidatesNilExclude(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	cursorHelper := &mocks.CursorHelper{}

	cursorHelper.On("Decode", mock.Anything).Return(nil)
	collectionHelper.
		On("Aggregate", context.Background(), mock.MatchedBy(func(pipeline mongo.Pipeline) bool {
			stage, ok := geoNearStage(pipeline)
			if !ok {
				return false
			}
			nin := stage["query"].(bson.M)["userId"].(bson.M)["$nin"].([]primitive.ObjectID)
			return len(nin) == 0
		})).
		Return(cursorHelper, nil)
	dbHelper.On("Collection", "volunteer_profiles").Return(collectionHelper)

	volunteerDba := databases.NewVolunteerDatabase(dbHelper)

	_, err := volunteerDba.FindCandidates(context.Background(), models.NewGeoPoint(10, 10), 5, 10, nil)
	assert.NoError(t, err)
}

func TestVolunteerDatabase_FindCandidatesAggregateError(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("Aggregate", context.Background(), mock.Anything).
		Return(nil, errors.New("mocked-error"))
	dbHelper.On("Collection", "volunteer_profiles").Return(collectionHelper)

	volunteerDba := databases.NewVolunteerDatabase(dbHelper)

	_, err := volunteerDba.FindCandidates(context.Background(), models.NewGeoPoint(10, 10), 5, 10, nil)
	assert.ErrorIs(t, err, models.ErrIndexUnavailable)
}

func TestVolunteerDatabase_FindCandidatesDecodeError(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	cursorHelper := &mocks.CursorHelper{}

	cursorHelper.On("Decode", mock.Anything).Return(errors.New("mocked-error"))
	collectionHelper.On("Aggregate", context.Background(), mock.Anything).
		Return(cursorHelper, nil)
	dbHelper.On("Collection", "volunteer_profiles").Return(collectionHelper)

	volunteerDba := databases.NewVolunteerDatabase(dbHelper)

	_, err := volunteerDba.FindCandidates(context.Background(), models.NewGeoPoint(10, 10), 5, 10, nil)
	assert.ErrorIs(t, err, models.ErrIndexUnavailable)
}

func TestVolunteerDatabase_FindByUserID(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}

	userID := primitive.NewObjectID()

	srHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.VolunteerProfile)
		arg.UserID = userID
		arg.Status = models.VolunteerStatusApproved
	})
	collectionHelper.On("FindOne", context.Background(), bson.M{"userId": userID}).
		Return(srHelper)
	dbHelper.On("Collection", "volunteer_profiles").Return(collectionHelper)

	volunteerDba := databases.NewVolunteerDatabase(dbHelper)

	profile, err := volunteerDba.FindByUserID(context.Background(), userID)
	assert.NoError(t, err)
	assert.Equal(t, userID, profile.UserID)
}

func TestVolunteerDatabase_FindByUserIDNotFound(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}

	srHelper.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	collectionHelper.On("FindOne", context.Background(), mock.Anything).Return(srHelper)
	dbHelper.On("Collection", "volunteer_profiles").Return(collectionHelper)

	volunteerDba := databases.NewVolunteerDatabase(dbHelper)

	_, err := volunteerDba.FindByUserID(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, models.ErrNotFound)
}
