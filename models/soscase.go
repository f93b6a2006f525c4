package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SOS case lifecycle statuses
const (
	CaseStatusSearching  = "SEARCHING"
	CaseStatusAccepted   = "ACCEPTED"
	CaseStatusInProgress = "IN_PROGRESS"
	CaseStatusResolved   = "RESOLVED"
	CaseStatusCancelled  = "CANCELLED"
)

// Emergency types accepted on case creation
const (
	EmergencyMedical         = "MEDICAL"
	EmergencyFire            = "FIRE"
	EmergencyAccident        = "ACCIDENT"
	EmergencyCrime           = "CRIME"
	EmergencyNaturalDisaster = "NATURAL_DISASTER"
	EmergencyOther           = "OTHER"
)

// Roles recorded on cancellation
const (
	CancelRoleReporter  = "REPORTER"
	CancelRoleVolunteer = "VOLUNTEER"
	CancelRoleAdmin     = "ADMIN"
)

// ValidEmergencyType reports whether t is one of the accepted emergency types
func ValidEmergencyType(t string) bool {
	switch t {
	case EmergencyMedical, EmergencyFire, EmergencyAccident,
		EmergencyCrime, EmergencyNaturalDisaster, EmergencyOther:
		return true
	}
	return false
}

// SosCase holds the structure for the sos_cases collection in mongo
type SosCase struct {
	ID                primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Code              string              `json:"code" bson:"code"`
	ReporterID        primitive.ObjectID  `json:"reporterId" bson:"reporterId"`
	Location          GeoPoint            `json:"location" bson:"location"`
	EmergencyType     string              `json:"emergencyType" bson:"emergencyType"`
	Description       string              `json:"description" bson:"description"`
	ManualAddress     string              `json:"manualAddress,omitempty" bson:"manualAddress,omitempty"`
	BatteryLevel      *int                `json:"batteryLevel,omitempty" bson:"batteryLevel,omitempty"`
	IsUrgent          bool                `json:"isUrgent" bson:"isUrgent"`
	Status            string              `json:"status" bson:"status"`
	AcceptedBy        *primitive.ObjectID `json:"acceptedBy" bson:"acceptedBy,omitempty"`
	AcceptedAt        *time.Time          `json:"acceptedAt" bson:"acceptedAt,omitempty"`
	ResponderLocation *GeoPoint           `json:"responderLocation" bson:"responderLocation,omitempty"`
	ResponderInfo     *ResponderInfo      `json:"responderInfo" bson:"responderInfo,omitempty"`
	ResolvedAt        *time.Time          `json:"resolvedAt" bson:"resolvedAt,omitempty"`
	CancelledBy       *primitive.ObjectID `json:"cancelledBy" bson:"cancelledBy,omitempty"`
	CancelledAt       *time.Time          `json:"cancelledAt" bson:"cancelledAt,omitempty"`
	CancelReason      string              `json:"cancelReason,omitempty" bson:"cancelReason,omitempty"`
	CancelledByRole   string              `json:"cancelledByRole,omitempty" bson:"cancelledByRole,omitempty"`
	Meta              CaseMeta            `json:"meta" bson:"meta"`
	CreatedAt         time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// ResponderInfo is the denormalized contact snapshot of the accepting volunteer
type ResponderInfo struct {
	VolunteerID    primitive.ObjectID `json:"volunteerId" bson:"volunteerId"`
	VolunteerName  string             `json:"volunteerName" bson:"volunteerName"`
	VolunteerPhone string             `json:"volunteerPhone" bson:"volunteerPhone"`
	AcceptedAt     time.Time          `json:"acceptedAt" bson:"acceptedAt"`
}

// CaseMeta carries dispatch bookkeeping for a case
type CaseMeta struct {
	RadiusKmNotified float64 `json:"radiusKmNotified" bson:"radiusKmNotified"`
	NotifyCount      int     `json:"notifyCount" bson:"notifyCount"`
	ReporterAlerted  bool    `json:"reporterAlerted" bson:"reporterAlerted"`
}

// Terminal reports whether the case is in a terminal status
func (c *SosCase) Terminal() bool {
	return c.Status == CaseStatusResolved || c.Status == CaseStatusCancelled
}
