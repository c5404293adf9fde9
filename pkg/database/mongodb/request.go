package mongodb

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SortOption orders results by Key, 1 ascending and -1 descending
type SortOption struct {
	Key   string
	Order int
}

// FindQuery holds the optional parts of a select
type FindQuery struct {
	Sort  []SortOption
	Limit int64
	Skip  int64
}

// FindOption mutates a FindQuery
type FindOption func(*FindQuery)

// WithSort appends a sort key
func WithSort(key string, order int) FindOption {
	return func(q *FindQuery) {
		q.Sort = append(q.Sort, SortOption{Key: key, Order: order})
	}
}

// WithLimit caps the number of returned documents
func WithLimit(limit int64) FindOption {
	return func(q *FindQuery) {
		q.Limit = limit
	}
}

// WithSkip skips the first n matching documents
func WithSkip(skip int64) FindOption {
	return func(q *FindQuery) {
		q.Skip = skip
	}
}

// NewFindQuery applies opts to an empty query
func NewFindQuery(opts ...FindOption) *FindQuery {
	q := &FindQuery{}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// ComposeFilter parses a MongoDB Extended JSON filter into a filter document.
// A blank filter matches everything. A string "_id" holding a valid hex
// ObjectID is converted so callers can filter by the identity they were given.
// Keys and strings must be double quoted: {'Name':'Ana'} is rejected, write
// {"Name":"Ana"} instead.
func ComposeFilter(filterJSON string) (bson.M, error) {
	filter := bson.M{}
	if strings.TrimSpace(filterJSON) == "" {
		return filter, nil
	}

	if err := bson.UnmarshalExtJSON([]byte(filterJSON), false, &filter); err != nil {
		return nil, errors.Wrap(ErrInvalidFilter, err.Error())
	}

	if str, ok := filter[FieldID].(string); ok {
		if oid, err := primitive.ObjectIDFromHex(str); err == nil {
			filter[FieldID] = oid
		}
	}

	return filter, nil
}

// FilterByID matches the single document with the given identity
func FilterByID(id primitive.ObjectID) bson.M {
	return bson.M{FieldID: id}
}

// BuildUpdate combines every entry of fields into one $set, in key order.
// updated_at is refreshed unless the caller sets it.
func BuildUpdate(fields map[string]any) (bson.D, error) {
	if len(fields) == 0 {
		return nil, ErrEmptyUpdate
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		if err := validateUpdateKey(key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	set := make(bson.D, 0, len(keys)+1)
	for _, key := range keys {
		set = append(set, bson.E{Key: key, Value: fields[key]})
	}
	if _, ok := fields[FieldUpdatedAt]; !ok {
		set = append(set, bson.E{Key: FieldUpdatedAt, Value: Now()})
	}

	return bson.D{{Key: "$set", Value: set}}, nil
}

func validateUpdateKey(key string) error {
	switch {
	case key == "":
		return errors.Wrap(ErrInvalidUpdate, "empty field name")
	case strings.HasPrefix(key, "$"):
		return errors.Wrapf(ErrInvalidUpdate, "%q is an operator", key)
	case key == FieldID, key == DiscriminatorBSONField, key == DiscriminatorJSONField:
		return errors.Wrapf(ErrInvalidUpdate, "%q is immutable", key)
	}
	return nil
}

// ApplyFindOptions builds driver find options from q
func ApplyFindOptions(q *FindQuery) *options.FindOptions {
	opts := options.Find()
	if q == nil {
		return opts
	}

	if sortDoc := BuildSort(q.Sort); len(sortDoc) > 0 {
		opts.SetSort(sortDoc)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	return opts
}

// BuildSort creates an ordered MongoDB sort document. Keys keep their given
// order; anything but 1 is treated as descending.
func BuildSort(sorts []SortOption) bson.D {
	sortDoc := bson.D{}
	for _, s := range sorts {
		if s.Key == "" {
			continue
		}

		order := s.Order
		if order != 1 {
			order = -1
		}
		sortDoc = append(sortDoc, bson.E{Key: s.Key, Value: order})
	}
	return sortDoc
}
