package mongoapi

import (
	"context"
	"reflect"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-mongoapi/pkg/common/apperr"
	"github.com/huynhanx03/go-mongoapi/pkg/database"
	"github.com/huynhanx03/go-mongoapi/pkg/database/mongodb"
	"github.com/huynhanx03/go-mongoapi/pkg/models"
	"github.com/huynhanx03/go-mongoapi/pkg/settings"
)

const (
	opConnect    = "connect"
	opRegister   = "register"
	opInsert     = "insert"
	opInsertMany = "insert_many"
	opSelect     = "select"
	opUpdate     = "update"
	opUpdateMany = "update_many"
	opDelete     = "delete"
	opDeleteMany = "delete_many"
)

// API is the JSON facing CRUD façade over one MongoDB database.
// Collections are named after the model type they hold.
type API struct {
	client   *mongodb.Client
	registry *mongodb.Registry
	codec    *mongodb.Codec
	logger   *zap.Logger
}

var _ database.DocumentStore[mongodb.Model, mongodb.FindOption] = (*API)(nil)

// Option configures an API
type Option func(*API)

// WithLogger sets the logger, zap.NewNop by default
func WithLogger(logger *zap.Logger) Option {
	return func(a *API) {
		a.logger = logger
	}
}

// WithRegistry sets the model registry, mongodb.DefaultRegistry by default
func WithRegistry(registry *mongodb.Registry) Option {
	return func(a *API) {
		a.registry = registry
	}
}

// WithClient shares an existing connection manager
func WithClient(client *mongodb.Client) Option {
	return func(a *API) {
		a.client = client
	}
}

// New creates an API; call Connect before any data operation
func New(opts ...Option) *API {
	a := &API{
		registry: mongodb.DefaultRegistry(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.client == nil {
		a.client = mongodb.NewClient(nil)
	}
	a.codec = mongodb.NewCodec(a.registry)
	a.logger = a.logger.Named("mongoapi")
	return a
}

// Registry returns the registry models are resolved through
func (a *API) Registry() *mongodb.Registry {
	return a.registry
}

// Codec returns the JSON/BSON codec bound to the registry
func (a *API) Codec() *mongodb.Codec {
	return a.codec
}

// Connect opens the shared connection to database on uri
func (a *API) Connect(ctx context.Context, uri string, database string) error {
	if err := a.client.ConnectURI(ctx, uri, database); err != nil {
		return a.fail(opConnect, database, apperr.MsgConnectFailed, err)
	}

	a.logger.Info("connection successful", zap.String("database", database))
	return nil
}

// ConnectWithConfig opens the shared connection described by cfg
func (a *API) ConnectWithConfig(ctx context.Context, cfg *settings.MongoDB) error {
	if err := a.client.ConnectWithConfig(ctx, cfg); err != nil {
		return a.fail(opConnect, a.client.Config().Database, apperr.MsgConnectFailed, err)
	}

	a.logger.Info("connection successful", zap.String("database", a.client.Config().Database))
	return nil
}

// Disconnect releases the shared connection
func (a *API) Disconnect(ctx context.Context) error {
	if err := a.client.Disconnect(ctx); err != nil {
		return a.fail(opConnect, "", apperr.MsgDatabaseError, err)
	}
	return nil
}

// RegisterModelTypes registers each model type; already known types are skipped
func (a *API) RegisterModelTypes(prototypes ...mongodb.Model) error {
	n, err := a.registry.Register(prototypes...)
	if err != nil {
		return a.fail(opRegister, "", apperr.MsgRegisterFailed, err)
	}

	a.logger.Info("registered models", zap.Int("added", n), zap.Strings("types", a.registry.Names()))
	return nil
}

// RegisterDefaultModels registers the models bundled in package models
func (a *API) RegisterDefaultModels() error {
	return a.RegisterModelTypes(models.All()...)
}

// Insert parses payload as typeName and stores it. The returned model
// carries the identity the server assigned.
func (a *API) Insert(ctx context.Context, payload string, typeName string) (mongodb.Model, error) {
	a.logger.Debug("parsing json to object", zap.String("type", typeName))

	m, err := a.codec.FromJSON([]byte(payload), typeName)
	if err != nil {
		return nil, a.fail(opInsert, typeName, apperr.MsgInsertFailed, err)
	}

	col, err := a.client.Collection(typeName)
	if err != nil {
		return nil, a.fail(opInsert, typeName, apperr.MsgInsertFailed, err)
	}

	m.UpdateTimestamp()
	res, err := col.InsertOne(ctx, m)
	if err != nil {
		return nil, a.fail(opInsert, typeName, apperr.MsgInsertFailed, err)
	}
	assignID(m, res.InsertedID)

	a.logger.Info("insertion successful", zap.String("type", typeName), zap.String("id", idHex(m)))
	return m, nil
}

// InsertModel stores an in-memory model by round-tripping it through Insert
func (a *API) InsertModel(ctx context.Context, m mongodb.Model) (mongodb.Model, error) {
	typeName := resolveType(m)
	if isNil(m) {
		return nil, a.fail(opInsert, typeName, apperr.MsgInsertFailed, errors.Wrap(mongodb.ErrInvalidPayload, "nil model"))
	}

	payload, err := a.codec.ToJSON(m)
	if err != nil {
		return nil, a.fail(opInsert, typeName, apperr.MsgInsertFailed, errors.Wrap(mongodb.ErrInvalidPayload, err.Error()))
	}

	stored, err := a.Insert(ctx, string(payload), typeName)
	if err != nil {
		return nil, err
	}
	if id := stored.GetID(); id != nil {
		m.SetID(*id)
	}
	return stored, nil
}

// InsertMany parses payload as a JSON array of typeName and stores all of it.
// A single mismatching element rejects the whole batch before any write.
func (a *API) InsertMany(ctx context.Context, payload string, typeName string) ([]mongodb.Model, error) {
	a.logger.Debug("parsing json array to objects", zap.String("type", typeName))

	items, err := a.codec.FromJSONArray([]byte(payload), typeName)
	if err != nil {
		return nil, a.fail(opInsertMany, typeName, apperr.MsgInsertFailed, err)
	}

	col, err := a.client.Collection(typeName)
	if err != nil {
		return nil, a.fail(opInsertMany, typeName, apperr.MsgInsertFailed, err)
	}

	docs := make([]any, len(items))
	for i, m := range items {
		m.UpdateTimestamp()
		docs[i] = m
	}

	res, err := col.InsertMany(ctx, docs)
	if err != nil {
		return nil, a.fail(opInsertMany, typeName, apperr.MsgInsertFailed, err)
	}
	for i, id := range res.InsertedIDs {
		if i < len(items) {
			assignID(items[i], id)
		}
	}

	a.logger.Info("insertion successful", zap.String("type", typeName), zap.Int("count", len(items)))
	return items, nil
}

// Select returns every document of typeName matching the Extended JSON
// filter. A blank filter matches all; no match is an empty, non-nil slice.
func (a *API) Select(ctx context.Context, filter string, typeName string, opts ...mongodb.FindOption) ([]mongodb.Model, error) {
	if !a.registry.IsRegistered(typeName) {
		return nil, a.fail(opSelect, typeName, apperr.MsgSelectFailed, errors.Wrap(mongodb.ErrUnknownType, typeName))
	}

	filterDoc, err := mongodb.ComposeFilter(filter)
	if err != nil {
		return nil, a.fail(opSelect, typeName, apperr.MsgSelectFailed, err)
	}

	col, err := a.client.Collection(typeName)
	if err != nil {
		return nil, a.fail(opSelect, typeName, apperr.MsgSelectFailed, err)
	}

	cur, err := col.Find(ctx, filterDoc, mongodb.ApplyFindOptions(mongodb.NewFindQuery(opts...)))
	if err != nil {
		return nil, a.fail(opSelect, typeName, apperr.MsgSelectFailed, err)
	}
	defer cur.Close(ctx)

	results := make([]mongodb.Model, 0)
	for cur.Next(ctx) {
		m, err := a.codec.FromBSON(cur.Current, typeName)
		if err != nil {
			return nil, a.fail(opSelect, typeName, apperr.MsgSelectFailed, err)
		}
		results = append(results, m)
	}
	if err := cur.Err(); err != nil {
		return nil, a.fail(opSelect, typeName, apperr.MsgSelectFailed, err)
	}

	a.logger.Info("select successful", zap.String("type", typeName), zap.Int("count", len(results)))
	return results, nil
}

// Update applies fields as one combined $set to the document identified by
// model. A model without identity is rejected without touching the store.
func (a *API) Update(ctx context.Context, model mongodb.Model, typeName string, fields map[string]any) error {
	id, err := requireID(model)
	if err != nil {
		return a.fail(opUpdate, typeName, apperr.MsgUpdateFailed, errors.WithMessage(err, "use UpdateMany to update by filter"))
	}

	if actual := resolveType(model); actual != typeName {
		return a.fail(opUpdate, typeName, apperr.MsgUpdateFailed,
			errors.Wrapf(mongodb.ErrTypeMismatch, "model is %q, expected %q", actual, typeName))
	}

	update, err := mongodb.BuildUpdate(fields)
	if err != nil {
		return a.fail(opUpdate, typeName, apperr.MsgUpdateFailed, err)
	}

	col, err := a.client.Collection(typeName)
	if err != nil {
		return a.fail(opUpdate, typeName, apperr.MsgUpdateFailed, err)
	}

	res, err := col.UpdateOne(ctx, mongodb.FilterByID(id), update)
	if err != nil {
		return a.fail(opUpdate, typeName, apperr.MsgUpdateFailed, err)
	}
	if res.MatchedCount == 0 {
		return a.fail(opUpdate, typeName, apperr.MsgUpdateFailed, errors.Wrap(mongodb.ErrNotFound, id.Hex()))
	}

	a.logger.Info("update successful", zap.String("type", typeName), zap.String("id", id.Hex()))
	return nil
}

// UpdateMany applies fields to every document of typeName matching filter
// and returns how many were modified.
func (a *API) UpdateMany(ctx context.Context, typeName string, filter string, fields map[string]any) (int64, error) {
	if !a.registry.IsRegistered(typeName) {
		return 0, a.fail(opUpdateMany, typeName, apperr.MsgUpdateFailed, errors.Wrapf(mongodb.ErrUnknownType, "%q", typeName))
	}

	filterDoc, err := mongodb.ComposeFilter(filter)
	if err != nil {
		return 0, a.fail(opUpdateMany, typeName, apperr.MsgUpdateFailed, err)
	}

	update, err := mongodb.BuildUpdate(fields)
	if err != nil {
		return 0, a.fail(opUpdateMany, typeName, apperr.MsgUpdateFailed, err)
	}

	col, err := a.client.Collection(typeName)
	if err != nil {
		return 0, a.fail(opUpdateMany, typeName, apperr.MsgUpdateFailed, err)
	}

	res, err := col.UpdateMany(ctx, filterDoc, update)
	if err != nil {
		return 0, a.fail(opUpdateMany, typeName, apperr.MsgUpdateFailed, err)
	}

	a.logger.Info("update successful",
		zap.String("type", typeName),
		zap.Int64("matched", res.MatchedCount),
		zap.Int64("modified", res.ModifiedCount),
	)
	return res.ModifiedCount, nil
}

// Delete removes the document identified by model from collection, or from
// the model's own collection when collection is empty.
func (a *API) Delete(ctx context.Context, model mongodb.Model, collection string) error {
	if collection == "" {
		collection = resolveType(model)
	}
	a.logger.Warn("deleting by identity", zap.String("collection", collection))

	id, err := requireID(model)
	if err != nil {
		return a.fail(opDelete, collection, apperr.MsgDeleteFailed, err)
	}

	col, err := a.client.Collection(collection)
	if err != nil {
		return a.fail(opDelete, collection, apperr.MsgDeleteFailed, err)
	}

	res, err := col.DeleteOne(ctx, mongodb.FilterByID(id))
	if err != nil {
		return a.fail(opDelete, collection, apperr.MsgDeleteFailed, err)
	}
	if res.DeletedCount == 0 {
		return a.fail(opDelete, collection, apperr.MsgDeleteFailed, errors.Wrap(mongodb.ErrNotFound, id.Hex()))
	}

	a.logger.Info("deletion successful", zap.String("collection", collection), zap.String("id", id.Hex()))
	return nil
}

// DeleteMany removes every document of typeName matching filter and returns
// how many were deleted. A blank filter empties the collection.
func (a *API) DeleteMany(ctx context.Context, typeName string, filter string) (int64, error) {
	if !a.registry.IsRegistered(typeName) {
		return 0, a.fail(opDeleteMany, typeName, apperr.MsgDeleteFailed, errors.Wrapf(mongodb.ErrUnknownType, "%q", typeName))
	}
	a.logger.Warn("deleting by filter", zap.String("type", typeName), zap.String("filter", filter))

	filterDoc, err := mongodb.ComposeFilter(filter)
	if err != nil {
		return 0, a.fail(opDeleteMany, typeName, apperr.MsgDeleteFailed, err)
	}

	col, err := a.client.Collection(typeName)
	if err != nil {
		return 0, a.fail(opDeleteMany, typeName, apperr.MsgDeleteFailed, err)
	}

	res, err := col.DeleteMany(ctx, filterDoc)
	if err != nil {
		return 0, a.fail(opDeleteMany, typeName, apperr.MsgDeleteFailed, err)
	}

	a.logger.Info("deletion successful", zap.String("type", typeName), zap.Int64("deleted", res.DeletedCount))
	return res.DeletedCount, nil
}

// fail classifies err, logs it at the call boundary and returns the classified error
func (a *API) fail(op string, scope string, msg string, err error) error {
	appErr := mongodb.MapMongoError(err, scope, msg)
	a.logger.Error(msg,
		zap.String("op", op),
		zap.String("type", scope),
		zap.Int("code", appErr.Code),
		zap.Error(err),
	)
	return appErr
}

func requireID(m mongodb.Model) (primitive.ObjectID, error) {
	if isNil(m) {
		return primitive.NilObjectID, errors.Wrap(mongodb.ErrInvalidPayload, "nil model")
	}
	id := m.GetID()
	if id == nil || id.IsZero() {
		return primitive.NilObjectID, mongodb.ErrMissingID
	}
	return *id, nil
}

func resolveType(m mongodb.Model) string {
	if isNil(m) {
		return ""
	}
	if t := m.GetType(); t != "" {
		return t
	}
	return mongodb.TypeNameOf(m)
}

func assignID(m mongodb.Model, inserted any) {
	if id := m.GetID(); id != nil && !id.IsZero() {
		return
	}
	if oid, ok := inserted.(primitive.ObjectID); ok {
		m.SetID(oid)
	}
}

func idHex(m mongodb.Model) string {
	if id := m.GetID(); id != nil {
		return id.Hex()
	}
	return ""
}

func isNil(m mongodb.Model) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
