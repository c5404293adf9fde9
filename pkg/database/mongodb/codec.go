package mongodb

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"go.mongodb.org/mongo-driver/bson"
)

// Codec converts JSON payloads and stored documents into registered models
type Codec struct {
	registry *Registry
	validate *validator.Validate
}

// NewCodec creates a codec resolving types through registry
func NewCodec(registry *Registry) *Codec {
	return &Codec{
		registry: registry,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// FromJSON parses a single JSON object into a model of typeName.
// The payload's discriminator must name typeName.
func (c *Codec) FromJSON(data []byte, typeName string) (Model, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.Wrap(ErrInvalidPayload, "malformed json")
	}

	result := gjson.ParseBytes(data)
	if !result.IsObject() {
		return nil, errors.Wrap(ErrInvalidPayload, "expected a json object")
	}

	return c.decodeObject(result, typeName)
}

// FromJSONArray parses a JSON array of objects, all of which must be typeName.
// Nothing is returned unless every element decodes.
func (c *Codec) FromJSONArray(data []byte, typeName string) ([]Model, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.Wrap(ErrInvalidPayload, "malformed json")
	}

	result := gjson.ParseBytes(data)
	if !result.IsArray() {
		return nil, errors.Wrap(ErrInvalidPayload, "expected a json array")
	}

	items := result.Array()
	if len(items) == 0 {
		return nil, errors.Wrap(ErrInvalidPayload, "empty array")
	}

	models := make([]Model, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			return nil, errors.Wrapf(ErrInvalidPayload, "element %d is not an object", i)
		}
		m, err := c.decodeObject(item, typeName)
		if err != nil {
			return nil, errors.WithMessagef(err, "element %d", i)
		}
		models = append(models, m)
	}
	return models, nil
}

// FromBSON decodes a stored document. The document's own discriminator wins;
// fallbackType is used when it has none.
func (c *Codec) FromBSON(raw bson.Raw, fallbackType string) (Model, error) {
	typeName := fallbackType
	if name, ok := raw.Lookup(DiscriminatorBSONField).StringValueOK(); ok && name != "" {
		typeName = name
	}

	m, err := c.registry.New(typeName)
	if err != nil {
		return nil, err
	}

	if err := bson.Unmarshal(raw, m); err != nil {
		return nil, errors.Wrapf(ErrDecodeFailed, "%s: %v", typeName, err)
	}
	return m, nil
}

// ToJSON renders a model back into the payload format FromJSON accepts.
// A model without discriminator is given its type name first.
func (c *Codec) ToJSON(m Model) ([]byte, error) {
	if m.GetType() == "" {
		m.setType(TypeNameOf(m))
	}
	return json.Marshal(m)
}

// Validate runs the model's validate tags
func (c *Codec) Validate(m Model) error {
	if err := c.validate.Struct(m); err != nil {
		return errors.Wrap(ErrValidationFailed, err.Error())
	}
	return nil
}

func (c *Codec) decodeObject(obj gjson.Result, typeName string) (Model, error) {
	discriminator := obj.Get(DiscriminatorJSONField)
	if !discriminator.Exists() || discriminator.Type != gjson.String {
		return nil, errors.Wrapf(ErrTypeMismatch, "missing %s, expected %q", DiscriminatorJSONField, typeName)
	}
	if discriminator.String() != typeName {
		return nil, errors.Wrapf(ErrTypeMismatch, "payload is %q, expected %q", discriminator.String(), typeName)
	}

	m, err := c.registry.New(typeName)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(obj.Raw), m); err != nil {
		return nil, errors.Wrap(ErrInvalidPayload, err.Error())
	}
	// encoding/json matches keys case-insensitively and keeps the last
	// duplicate, so the decoded discriminator must be checked again
	if m.GetType() != typeName {
		return nil, errors.Wrapf(ErrTypeMismatch, "payload decodes as %q, expected %q", m.GetType(), typeName)
	}

	if err := c.Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}
