package mongoapi

import (
	"context"

	"github.com/pkg/errors"

	"github.com/huynhanx03/go-mongoapi/pkg/common/apperr"
	"github.com/huynhanx03/go-mongoapi/pkg/database/mongodb"
)

// SelectAs is Select with the type name taken from T and the results
// returned as *T.
//
//	examples, err := mongoapi.SelectAs[models.Example](ctx, api, `{"Age": {"$gte": 18}}`)
func SelectAs[T any, PT interface {
	*T
	mongodb.Model
}](ctx context.Context, a *API, filter string, opts ...mongodb.FindOption) ([]PT, error) {
	typeName := mongodb.TypeNameOf(PT(new(T)))

	found, err := a.Select(ctx, filter, typeName, opts...)
	if err != nil {
		return nil, err
	}

	out := make([]PT, 0, len(found))
	for _, m := range found {
		typed, ok := m.(PT)
		if !ok {
			return nil, a.fail(opSelect, typeName, apperr.MsgSelectFailed,
				errors.Wrapf(mongodb.ErrTypeMismatch, "document is %q", m.GetType()))
		}
		out = append(out, typed)
	}
	return out, nil
}
