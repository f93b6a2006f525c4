package databases

// go generate: mockery --name VolunteerDatabase

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/safe-connect/sos-api/models"
)

const volunteerCollectionName = "volunteer_profiles"

// VolunteerDatabase is the read side of the volunteer profiles: the
// geospatial candidate index plus single-profile lookups.
type VolunteerDatabase interface {
	FindCandidates(ctx context.Context, origin models.GeoPoint, radiusKm float64, maxResults int64, exclude []primitive.ObjectID) ([]models.Candidate, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.VolunteerProfile, error)
}

type volunteerDatabase struct {
	db DatabaseHelper
}

// NewVolunteerDatabase initializes a new instance of volunteer database with the provided db connection
func NewVolunteerDatabase(db DatabaseHelper) VolunteerDatabase {
	return &volunteerDatabase{
		db: db,
	}
}

// FindCandidates returns eligible volunteers within radiusKm of origin,
// ascending by distance with volunteerId as tiebreak. Eligibility: profile
// APPROVED and ready, userId not excluded, owning account active and
// holding the volunteer role. The result is a point-in-time snapshot.
func (v *volunteerDatabase) FindCandidates(ctx context.Context, origin models.GeoPoint, radiusKm float64, maxResults int64, exclude []primitive.ObjectID) ([]models.Candidate, error) {
	if exclude == nil {
		exclude = []primitive.ObjectID{}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.M{
			"near":          origin,
			"distanceField": "distance",
			"maxDistance":   radiusKm * 1000,
			"spherical":     true,
			"key":           "homeBase.location",
			"query": bson.M{
				"status": models.VolunteerStatusApproved,
				"ready":  true,
				"userId": bson.M{"$nin": exclude},
			},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$match", Value: bson.M{
			"user.isActive": true,
			"user.roles":    models.RoleVolunteer,
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "distance", Value: 1},
			{Key: "userId", Value: 1},
		}}},
		{{Key: "$limit", Value: maxResults}},
		{{Key: "$project", Value: bson.M{
			"userId":     1,
			"distanceKm": bson.M{"$divide": bson.A{"$distance", 1000}},
		}}},
	}

	cur, err := v.db.Collection(volunteerCollectionName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrIndexUnavailable, err)
	}
	var candidates []models.Candidate
	err = cur.Decode(&candidates)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrIndexUnavailable, err)
	}
	return candidates, nil
}

func (v *volunteerDatabase) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.VolunteerProfile, error) {
	profile := &models.VolunteerProfile{}
	err := v.db.Collection(volunteerCollectionName).FindOne(ctx, bson.M{"userId": userID}).Decode(profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}
