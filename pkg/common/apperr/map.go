package apperr

import (
	"fmt"
)

// Generic Action Messages
const (
	MsgConnectFailed  = "failed to connect"
	MsgRegisterFailed = "failed to register"
	MsgInsertFailed   = "failed to insert"
	MsgSelectFailed   = "failed to select"
	MsgUpdateFailed   = "failed to update"
	MsgDeleteFailed   = "failed to delete"
	MsgNotFound       = "not found"
	MsgDatabaseError  = "database error"
)

// MapError wraps an error with a standardized message
func MapError(scope string, err error, code int, msg string) *AppError {
	if err == nil {
		return nil
	}

	formattedMsg := fmt.Sprintf("%s %s", scope, msg)
	return Wrap(err, code, formattedMsg)
}

// NewError creates a new AppError with standardized message format
func NewError(scope string, code int, msg string, cause error) *AppError {
	formattedMsg := fmt.Sprintf("%s %s", scope, msg)
	return New(code, formattedMsg, cause)
}
