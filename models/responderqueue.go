package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Responder queue entry statuses
const (
	QueueStatusNotified = "NOTIFIED"
	QueueStatusSeen     = "SEEN"
	QueueStatusAccepted = "ACCEPTED"
	QueueStatusDeclined = "DECLINED"
	QueueStatusExpired  = "EXPIRED"
)

// ResponderQueueEntry holds the structure for the sos_responder_queue
// collection in mongo. One entry per (case, volunteer) pair.
type ResponderQueueEntry struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	SosID         primitive.ObjectID `json:"sosId" bson:"sosId"`
	VolunteerID   primitive.ObjectID `json:"volunteerId" bson:"volunteerId"`
	DistanceKm    float64            `json:"distanceKm" bson:"distanceKm"`
	Status        string             `json:"status" bson:"status"`
	NotifiedAt    time.Time          `json:"notifiedAt" bson:"notifiedAt"`
	RespondedAt   *time.Time         `json:"respondedAt" bson:"respondedAt,omitempty"`
	DeclineReason string             `json:"declineReason,omitempty" bson:"declineReason,omitempty"`
	DeclinedAt    *time.Time         `json:"declinedAt" bson:"declinedAt,omitempty"`
}

// Candidate is one ranked result from the geospatial volunteer index
type Candidate struct {
	VolunteerID primitive.ObjectID `json:"volunteerId" bson:"userId"`
	DistanceKm  float64            `json:"distanceKm" bson:"distanceKm"`
}
