package mongodb

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Model interface that all models must implement.
// It can only be satisfied by embedding BaseModel.
type Model interface {
	GetID() *primitive.ObjectID
	SetID(primitive.ObjectID)
	GetType() string
	UpdateTimestamp()

	setType(string)
}

var _ Model = (*BaseModel)(nil)
