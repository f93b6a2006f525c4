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

func TestSosCaseDatabase_FindOne(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelperErr := &mocks.SingleResultHelper{}
	srHelperCorrect := &mocks.SingleResultHelper{}

	srHelperErr.
		On("Decode", mock.Anything).
		Return(errors.New("mocked-error"))

	srHelperCorrect.
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.SosCase)
		arg.Code = "SOS1700000000000ABCD"
		arg.Status = models.CaseStatusSearching
	})

	collectionHelper.
		On("FindOne", context.Background(), bson.M{"error": true}).
		Return(srHelperErr)
	collectionHelper.
		On("FindOne", context.Background(), bson.M{"error": false}).
		Return(srHelperCorrect)

	dbHelper.On("Collection", "sos_cases").Return(collectionHelper)

	caseDba := databases.NewSosCaseDatabase(dbHelper)

	sosCase, err := caseDba.FindOne(context.Background(), bson.M{"error": true})
	assert.Empty(t, sosCase)
	assert.EqualError(t, err, "mocked-error")

	sosCase, err = caseDba.FindOne(context.Background(), bson.M{"error": false})
	assert.NoError(t, err)
	assert.Equal(t, "SOS1700000000000ABCD", sosCase.Code)
	assert.Equal(t, models.CaseStatusSearching, sosCase.Status)
}

func TestSosCaseDatabase_InsertOneAssignsID(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.
		On("InsertOne", context.Background(), mock.Anything).
		Return(primitive.NewObjectID(), nil)

	dbHelper.On("Collection", "sos_cases").Return(collectionHelper)

	caseDba := databases.NewSosCaseDatabase(dbHelper)

	sosCase := &models.SosCase{Code: "SOS1700000000000ABCD"}
	id, err := caseDba.InsertOne(context.Background(), sosCase)
	assert.NoError(t, err)
	assert.False(t, id.IsZero())
	assert.Equal(t, id, sosCase.ID)
}

func TestSosCaseDatabase_UpdateOneReturnsModifiedCount(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.
		On("UpdateOne", context.Background(), bson.M{"guard": "held"}, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)
	collectionHelper.
		On("UpdateOne", context.Background(), bson.M{"guard": "lost"}, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0, ModifiedCount: 0}, nil)

	dbHelper.On("Collection", "sos_cases").Return(collectionHelper)

	caseDba := databases.NewSosCaseDatabase(dbHelper)

	modified, err := caseDba.UpdateOne(context.Background(), bson.M{"guard": "held"}, bson.M{"$set": bson.M{"status": models.CaseStatusAccepted}})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), modified)

	modified, err = caseDba.UpdateOne(context.Background(), bson.M{"guard": "lost"}, bson.M{"$set": bson.M{"status": models.CaseStatusAccepted}})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), modified)
}

func TestSosCaseDatabase_DistinctFiltersNonIDs(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	busyA := primitive.NewObjectID()
	busyB := primitive.NewObjectID()
	collectionHelper.
		On("Distinct", context.Background(), "acceptedBy", mock.Anything).
		Return([]interface{}{busyA, nil, busyB, "garbage"}, nil)

	dbHelper.On("Collection", "sos_cases").Return(collectionHelper)

	caseDba := databases.NewSosCaseDatabase(dbHelper)

	ids, err := caseDba.Distinct(context.Background(), "acceptedBy", databases.BusyVolunteerFilter())
	assert.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{busyA, busyB}, ids)
}

func TestBusyVolunteerFilter(t *testing.T) {
	filter := databases.BusyVolunteerFilter()
	statuses := filter["status"].(bson.M)["$in"].([]string)
	assert.ElementsMatch(t, []string{models.CaseStatusAccepted, models.CaseStatusInProgress}, statuses)
	assert.Equal(t, bson.M{"$ne": nil}, filter["acceptedBy"])
}
