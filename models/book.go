package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking lifecycle states. Only pending and approved count as active when
// checking reservation conflicts; rejected bookings are inert.
const (
	BookStatusPending  = "pending"
	BookStatusApproved = "approved"
	BookStatusRejected = "rejected"
)

func ValidBookStatus(s string) bool {
	switch s {
	case BookStatusPending, BookStatusApproved, BookStatusRejected:
		return true
	}
	return false
}

type Book struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	BookID    string             `json:"id" bson:"id"`
	PlaceID   string             `json:"placeId" bson:"placeId"`
	DateHour  time.Time          `json:"dateHour" bson:"dateHour"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Reason    string             `json:"reason" bson:"reason"`
	Guests    []string           `json:"guests" bson:"guests"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt time.Time          `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// BookView is a booking joined with place and user display fields.
type BookView struct {
	ID        primitive.ObjectID `json:"_id,omitempty"`
	BookID    string             `json:"id"`
	PlaceID   string             `json:"placeId"`
	PlaceName string             `json:"placeName"`
	DateHour  time.Time          `json:"dateHour"`
	Reason    string             `json:"reason"`
	Guests    []string           `json:"guests"`
	Status    string             `json:"status"`
	UserName  string             `json:"userName,omitempty"`
	UserEmail string             `json:"userEmail,omitempty"`
	CreatedAt time.Time          `json:"createdAt,omitempty"`
	UpdatedAt time.Time          `json:"updatedAt,omitempty"`
}
