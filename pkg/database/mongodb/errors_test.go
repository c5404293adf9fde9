package mongodb

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/huynhanx03/go-mongoapi/pkg/common/apperr"
)

func TestMapMongoError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"type mismatch", pkgerrors.Wrap(ErrTypeMismatch, "payload is Gadget"), apperr.CodeTypeMismatch},
		{"missing id", ErrMissingID, apperr.CodeMissingID},
		{"not found", ErrNotFound, apperr.CodeNotFound},
		{"no documents", mongo.ErrNoDocuments, apperr.CodeNotFound},
		{"invalid filter", pkgerrors.Wrap(ErrInvalidFilter, "bad"), apperr.CodeInvalidInput},
		{"empty update", ErrEmptyUpdate, apperr.CodeInvalidInput},
		{"unknown type", ErrUnknownType, apperr.CodeInvalidInput},
		{"validation", ErrValidationFailed, apperr.CodeInvalidInput},
		{"not connected", ErrNotConnected, apperr.CodeNotConnected},
		{"ping", fmt.Errorf("%w: server selection timeout", ErrPingFailed), apperr.CodeUnavailable},
		{"duplicate key", mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}, apperr.CodeConflict},
		{"other", errors.New("disk full"), apperr.CodeDatabaseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapMongoError(tt.err, "Widget", apperr.MsgInsertFailed)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.err, errors.Unwrap(got))
		})
	}
}

func TestMapMongoError_PassThrough(t *testing.T) {
	original := apperr.New(apperr.CodeConflict, "already mapped", nil)
	assert.Same(t, original, MapMongoError(fmt.Errorf("ctx: %w", original), "Widget", apperr.MsgInsertFailed))
}

func TestMapMongoError_Nil(t *testing.T) {
	assert.Nil(t, MapMongoError(nil, "Widget", apperr.MsgInsertFailed))
}
