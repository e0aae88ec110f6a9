package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Address struct {
	Street string `json:"street,omitempty" bson:"street,omitempty"`
	Number string `json:"number,omitempty" bson:"number,omitempty"`
	City   string `json:"city,omitempty" bson:"city,omitempty"`
	State  string `json:"state,omitempty" bson:"state,omitempty"`
	Zip    string `json:"zip,omitempty" bson:"zip,omitempty"`
}

type Condominium struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Address   Address            `json:"address,omitempty" bson:"address,omitempty"`
	CNPJ      string             `json:"cnpj,omitempty" bson:"cnpj,omitempty"`
	CreatedAt time.Time          `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt time.Time          `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

type Apartment struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Number      string             `json:"number" bson:"number"`
	Block       string             `json:"block,omitempty" bson:"block,omitempty"`
	Condominium primitive.ObjectID `json:"condominium" bson:"condominium"`
	Owner       primitive.ObjectID `json:"owner,omitempty" bson:"owner,omitempty"`
}
