package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	Email      string             `json:"email" bson:"email"`
	IsVerified bool               `json:"isVerified" bson:"isVerified"`
	IsAdmin    bool               `json:"isAdmin" bson:"isAdmin"`
	CreatedAt  time.Time          `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt  time.Time          `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// UserProfile is the token-backed view of a user plus their housing assignment.
type UserProfile struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	IsAdmin         bool   `json:"isAdmin"`
	ApartmentID     string `json:"apartmentId,omitempty"`
	ApartmentNumber string `json:"apartmentNumber,omitempty"`
	CondominiumID   string `json:"condominiumId,omitempty"`
	CondominiumName string `json:"condominiumName,omitempty"`
}
