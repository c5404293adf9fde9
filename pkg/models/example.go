package models

import (
	"github.com/huynhanx03/go-mongoapi/pkg/database/mongodb"
)

// ExampleType is the discriminator of Example
const ExampleType = "Example"

// Example is the sample model bundled with the library
type Example struct {
	mongodb.BaseModel `bson:",inline"`
	Name              string `bson:"Name" json:"Name" validate:"required"`
	Age               uint8  `bson:"Age" json:"Age"`
	Surname           string `bson:"Surname" json:"Surname"`
}

// NewExample creates an Example without identity
func NewExample(name string, age uint8, surname string) *Example {
	return &Example{
		BaseModel: mongodb.NewBaseModel(ExampleType),
		Name:      name,
		Age:       age,
		Surname:   surname,
	}
}

// All returns a prototype of every bundled model
func All() []mongodb.Model {
	return []mongodb.Model{
		&Example{},
	}
}

// Register adds every bundled model to r and returns how many were new
func Register(r *mongodb.Registry) (int, error) {
	return r.Register(All()...)
}
