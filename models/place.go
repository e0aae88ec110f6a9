package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reservation type of a place: single allows one active booking per calendar
// day, multiple is bounded by aggregate guest capacity.
const (
	ReservationSingle   = "single"
	ReservationMultiple = "multiple"
)

type ReservationSettings struct {
	AllowOverlap bool `json:"allowOverlap" bson:"allowOverlap"`
}

type Place struct {
	ID                  primitive.ObjectID  `json:"_id,omitempty" bson:"_id,omitempty"`
	PlaceID             string              `json:"id" bson:"placeid"`
	Name                string              `json:"name" bson:"name"`
	Images              []string            `json:"image,omitempty" bson:"image,omitempty"`
	NeedPayment         bool                `json:"needPayment" bson:"needPayment"`
	Condominium         primitive.ObjectID  `json:"condominium" bson:"condominium"`
	ReservationType     string              `json:"reservationType" bson:"reservationType"`
	MaxCapacity         int                 `json:"maxCapacity,omitempty" bson:"maxCapacity,omitempty"`
	TimeSlot            int                 `json:"timeSlot,omitempty" bson:"timeSlot,omitempty"` // minutes
	OpeningTime         string              `json:"openingTime" bson:"openingTime"`               // "HH:MM"
	ClosingTime         string              `json:"closingTime" bson:"closingTime"`               // "HH:MM"
	ReservationSettings ReservationSettings `json:"reservationSettings" bson:"reservationSettings"`
	CreatedAt           time.Time           `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt           time.Time           `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}
