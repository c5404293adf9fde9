package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// DiscriminatorJSONField names the concrete model inside a JSON payload
	DiscriminatorJSONField = "ChildType"
	// DiscriminatorBSONField names the concrete model inside a stored document
	DiscriminatorBSONField = "_t"

	FieldID        = "_id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// BaseModel carries the identity and discriminator shared by every model.
// Concrete models embed it with `bson:",inline"`.
type BaseModel struct {
	ID        *primitive.ObjectID `bson:"_id,omitempty" json:"ObjectId,omitempty"`
	Type      string              `bson:"_t" json:"ChildType" validate:"required"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updated_at"`
}

// NewBaseModel creates a BaseModel for the given type name without identity
func NewBaseModel(typeName string) BaseModel {
	return BaseModel{Type: typeName}
}

// GetID returns the identity, nil until the store assigned one
func (b *BaseModel) GetID() *primitive.ObjectID {
	return b.ID
}

// SetID sets the identity
func (b *BaseModel) SetID(id primitive.ObjectID) {
	b.ID = &id
}

// GetType returns the discriminator
func (b *BaseModel) GetType() string {
	return b.Type
}

// UpdateTimestamp refreshes UpdatedAt, and CreatedAt on first call.
// Millisecond precision matches what the server stores.
func (b *BaseModel) UpdateTimestamp() {
	now := Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

func (b *BaseModel) setType(typeName string) {
	b.Type = typeName
}

// Now returns the current UTC time truncated to BSON datetime precision
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
