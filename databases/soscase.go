package databases

// go generate: mockery --name SosCaseDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/safe-connect/sos-api/models"
)

const sosCaseCollectionName = "sos_cases"

// SosCaseDatabase contains the methods to use with the sos case database.
// UpdateOne takes an arbitrary filter so transitions can be guarded by the
// current status (conditional single-document update); the returned count
// tells the caller whether the guard held.
type SosCaseDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.SosCase, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.SosCase, error)
	InsertOne(context.Context, *models.SosCase) (primitive.ObjectID, error)
	UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) (int64, error)
	CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error)
	Distinct(context.Context, string, interface{}) ([]primitive.ObjectID, error)
	DeleteOne(context.Context, interface{}, ...*options.DeleteOptions) error
}

type sosCaseDatabase struct {
	db DatabaseHelper
}

// NewSosCaseDatabase initializes a new instance of sos case database with the provided db connection
func NewSosCaseDatabase(db DatabaseHelper) SosCaseDatabase {
	return &sosCaseDatabase{
		db: db,
	}
}

func (s *sosCaseDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.SosCase, error) {
	sosCase := &models.SosCase{}
	err := s.db.Collection(sosCaseCollectionName).FindOne(ctx, filter, opts...).Decode(sosCase)
	if err != nil {
		return nil, err
	}
	return sosCase, nil
}

func (s *sosCaseDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.SosCase, error) {
	var cases []models.SosCase
	cur, err := s.db.Collection(sosCaseCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&cases)
	if err != nil {
		return nil, err
	}
	return cases, nil
}

func (s *sosCaseDatabase) InsertOne(ctx context.Context, sosCase *models.SosCase) (primitive.ObjectID, error) {
	if sosCase.ID.IsZero() {
		sosCase.ID = primitive.NewObjectID()
	}
	_, err := s.db.Collection(sosCaseCollectionName).InsertOne(ctx, sosCase)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return sosCase.ID, nil
}

func (s *sosCaseDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	res, err := s.db.Collection(sosCaseCollectionName).UpdateOne(ctx, filter, update, opts...)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *sosCaseDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return s.db.Collection(sosCaseCollectionName).CountDocuments(ctx, filter, opts...)
}

func (s *sosCaseDatabase) Distinct(ctx context.Context, fieldName string, filter interface{}) ([]primitive.ObjectID, error) {
	values, err := s.db.Collection(sosCaseCollectionName).Distinct(ctx, fieldName, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *sosCaseDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return s.db.Collection(sosCaseCollectionName).DeleteOne(ctx, filter, opts...)
}

// BusyVolunteerFilter matches cases whose holder is currently busy
func BusyVolunteerFilter() bson.M {
	return bson.M{
		"status":     bson.M{"$in": []string{models.CaseStatusAccepted, models.CaseStatusInProgress}},
		"acceptedBy": bson.M{"$ne": nil},
	}
}
