package mongodb

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/huynhanx03/go-mongoapi/pkg/common/apperr"
)

var (
	ErrConnectFailed    = errors.New("failed to connect to database")
	ErrPingFailed       = errors.New("failed to ping database")
	ErrDisconnectFailed = errors.New("failed to disconnect from database")
	ErrNotConnected     = errors.New("database is not connected")
	ErrInvalidModel     = errors.New("invalid model prototype")
	ErrTypeConflict     = errors.New("type name already registered for another model")
	ErrUnknownType      = errors.New("model type is not registered")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrInvalidPayload   = errors.New("invalid json payload")
	ErrValidationFailed = errors.New("model validation failed")
	ErrInvalidFilter    = errors.New("invalid filter")
	ErrInvalidUpdate    = errors.New("invalid update field")
	ErrEmptyUpdate      = errors.New("no fields to update")
	ErrMissingID        = errors.New("no object id was provided")
	ErrNotFound         = errors.New("record not found")
	ErrDecodeFailed     = errors.New("failed to decode document")
)

// MapMongoError classifies err into an apperr.AppError. scope is usually the
// type name the operation ran against, msg one of the apperr action messages.
func MapMongoError(err error, scope string, msg string) *apperr.AppError {
	if err == nil {
		return nil
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrTypeMismatch):
		return apperr.MapError(scope, err, apperr.CodeTypeMismatch, msg)

	case errors.Is(err, ErrMissingID):
		return apperr.MapError(scope, err, apperr.CodeMissingID, msg)

	case errors.Is(err, ErrNotFound), errors.Is(err, mongo.ErrNoDocuments):
		return apperr.MapError(scope, err, apperr.CodeNotFound, apperr.MsgNotFound)

	case errors.Is(err, ErrInvalidPayload),
		errors.Is(err, ErrValidationFailed),
		errors.Is(err, ErrInvalidFilter),
		errors.Is(err, ErrInvalidUpdate),
		errors.Is(err, ErrEmptyUpdate),
		errors.Is(err, ErrUnknownType),
		errors.Is(err, ErrInvalidModel),
		errors.Is(err, ErrTypeConflict):
		return apperr.MapError(scope, err, apperr.CodeInvalidInput, msg)

	case errors.Is(err, ErrNotConnected):
		return apperr.MapError(scope, err, apperr.CodeNotConnected, msg)

	case mongo.IsDuplicateKeyError(err):
		return apperr.MapError(scope, err, apperr.CodeConflict, msg)

	case errors.Is(err, ErrConnectFailed),
		errors.Is(err, ErrPingFailed),
		mongo.IsTimeout(err),
		mongo.IsNetworkError(err):
		return apperr.MapError(scope, err, apperr.CodeUnavailable, msg)
	}

	return apperr.MapError(scope, err, apperr.CodeDatabaseError, msg)
}
