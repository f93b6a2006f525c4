package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Volunteer profile approval statuses
const (
	VolunteerStatusPending  = "PENDING"
	VolunteerStatusApproved = "APPROVED"
	VolunteerStatusRejected = "REJECTED"
)

// VolunteerProfile holds the structure for the volunteer_profiles collection
// in mongo. The dispatch core only reads it; profile CRUD lives elsewhere.
type VolunteerProfile struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID     primitive.ObjectID `json:"userId" bson:"userId"`
	Status     string             `json:"status" bson:"status"`
	Ready      bool               `json:"ready" bson:"ready"`
	Skills     []string           `json:"skills" bson:"skills"`
	HomeBase   *HomeBase          `json:"homeBase" bson:"homeBase,omitempty"`
	Reputation Reputation         `json:"reputation" bson:"reputation"`
	ApprovedAt *time.Time         `json:"approvedAt" bson:"approvedAt,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// HomeBase is the volunteer's registered base location
type HomeBase struct {
	Location GeoPoint `json:"location" bson:"location"`
	RadiusKm float64  `json:"radiusKm" bson:"radiusKm"`
}

// Reputation carries the volunteer's case history counters
type Reputation struct {
	TotalCases int      `json:"totalCases" bson:"totalCases"`
	RatingAvg  float64  `json:"ratingAvg" bson:"ratingAvg"`
	Badges     []string `json:"badges" bson:"badges"`
}
