package database

import (
	"context"
)

// DocumentStore defines the JSON driven CRUD surface over a document database.
// M is the model type handed back, O the option type accepted by Select.
type DocumentStore[M any, O any] interface {
	Insert(ctx context.Context, payload string, typeName string) (M, error)
	InsertMany(ctx context.Context, payload string, typeName string) ([]M, error)
	Select(ctx context.Context, filter string, typeName string, opts ...O) ([]M, error)

	Update(ctx context.Context, model M, typeName string, fields map[string]any) error
	UpdateMany(ctx context.Context, typeName string, filter string, fields map[string]any) (int64, error)

	Delete(ctx context.Context, model M, collection string) error
	DeleteMany(ctx context.Context, typeName string, filter string) (int64, error)
}
