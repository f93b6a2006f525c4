package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account roles
const (
	RoleAdmin     = "ADMIN"
	RoleVolunteer = "VOLUNTEER"
	RoleUser      = "USER"
)

// User holds the structure for the users collection in mongo. Only the
// fields the dispatch core reads are modeled; account management is an
// external collaborator.
type User struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	FullName  string             `json:"fullName" bson:"fullName"`
	Phone     string             `json:"phone" bson:"phone"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	Roles     []string           `json:"roles" bson:"roles"`
	Avatar    string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	IsActive  bool               `json:"isActive" bson:"isActive"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// HasRole reports whether the user carries the given role
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Actor is the authenticated caller of a case operation, as resolved by the
// auth middleware. The core trusts it as already verified.
type Actor struct {
	ID    primitive.ObjectID
	Roles []string
}

// HasRole reports whether the actor carries the given role
func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool { return a.HasRole(RoleAdmin) }
