package mongoapi

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/huynhanx03/go-mongoapi/internal/mongotest"
	"github.com/huynhanx03/go-mongoapi/pkg/common/apperr"
	"github.com/huynhanx03/go-mongoapi/pkg/database/mongodb"
	"github.com/huynhanx03/go-mongoapi/pkg/models"
	"github.com/huynhanx03/go-mongoapi/pkg/settings"
)

const testDatabase = "MockData"

func connectedAPI(t *testing.T) *API {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	if !mongotest.IsDockerRunning(ctx) {
		t.Skip("Docker is not running, skipping integration test")
	}

	uri, terminate, err := mongotest.StartContainer(ctx)
	if err != nil {
		t.Fatalf("failed to setup mongodb container: %v", err)
	}
	t.Cleanup(terminate)

	a := New(WithRegistry(mongodb.NewRegistry()), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, a.RegisterDefaultModels())
	require.NoError(t, a.Connect(ctx, uri, testDatabase))
	t.Cleanup(func() { _ = a.Disconnect(context.Background()) })
	return a
}

func TestAPI_Integration(t *testing.T) {
	a := connectedAPI(t)
	ctx := context.Background()

	t.Run("insert and select round trip", func(t *testing.T) {
		inserted, err := a.Insert(ctx, `{"ChildType":"Example","Name":"Una prueba","Age":30,"Surname":"Tester"}`, models.ExampleType)
		require.NoError(t, err)
		require.NotNil(t, inserted.GetID())

		found, err := a.Select(ctx, `{"Name":"Una prueba"}`, models.ExampleType)
		require.NoError(t, err)
		require.Len(t, found, 1)

		want := inserted.(*models.Example)
		got, ok := found[0].(*models.Example)
		require.True(t, ok)
		assert.Equal(t, *want.ID, *got.ID)
		assert.Equal(t, models.ExampleType, got.Type)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Age, got.Age)
		assert.Equal(t, want.Surname, got.Surname)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))

		byID, err := a.Select(ctx, fmt.Sprintf(`{"_id":"%s"}`, want.ID.Hex()), models.ExampleType)
		require.NoError(t, err)
		assert.Len(t, byID, 1)
	})

	t.Run("no match is an empty list", func(t *testing.T) {
		found, err := a.Select(ctx, `{"Name":"nobody"}`, models.ExampleType)
		require.NoError(t, err)
		assert.NotNil(t, found)
		assert.Empty(t, found)
	})

	t.Run("insert many, sort and limit", func(t *testing.T) {
		payload := `[
			{"ChildType":"Example","Name":"bulk","Age":3,"Surname":"c"},
			{"ChildType":"Example","Name":"bulk","Age":1,"Surname":"a"},
			{"ChildType":"Example","Name":"bulk","Age":2,"Surname":"b"}
		]`
		inserted, err := a.InsertMany(ctx, payload, models.ExampleType)
		require.NoError(t, err)
		require.Len(t, inserted, 3)
		for _, m := range inserted {
			assert.NotNil(t, m.GetID())
		}

		found, err := SelectAs[models.Example](ctx, a, `{"Name":"bulk"}`, mongodb.WithSort("Age", 1), mongodb.WithLimit(2))
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, uint8(1), found[0].Age)
		assert.Equal(t, uint8(2), found[1].Age)
	})

	t.Run("update by identity", func(t *testing.T) {
		stored, err := a.InsertModel(ctx, models.NewExample("to update", 10, "x"))
		require.NoError(t, err)

		require.NoError(t, a.Update(ctx, stored, models.ExampleType, map[string]any{"Age": 11, "Surname": "y"}))

		found, err := SelectAs[models.Example](ctx, a, fmt.Sprintf(`{"_id":"%s"}`, stored.GetID().Hex()))
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, uint8(11), found[0].Age)
		assert.Equal(t, "y", found[0].Surname)
		assert.False(t, found[0].UpdatedAt.Before(found[0].CreatedAt))
	})

	t.Run("update of a removed document is not found", func(t *testing.T) {
		stored, err := a.InsertModel(ctx, models.NewExample("ghost", 1, "x"))
		require.NoError(t, err)
		require.NoError(t, a.Delete(ctx, stored, ""))

		err = a.Update(ctx, stored, models.ExampleType, map[string]any{"Age": 2})
		assert.ErrorIs(t, err, mongodb.ErrNotFound)
		assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

		err = a.Delete(ctx, stored, models.ExampleType)
		assert.ErrorIs(t, err, mongodb.ErrNotFound)
	})

	t.Run("update many", func(t *testing.T) {
		n, err := a.UpdateMany(ctx, models.ExampleType, `{"Name":"bulk"}`, map[string]any{"Surname": "same"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		found, err := a.Select(ctx, `{"Surname":"same"}`, models.ExampleType)
		require.NoError(t, err)
		assert.Len(t, found, 3)
	})

	t.Run("delete many", func(t *testing.T) {
		n, err := a.DeleteMany(ctx, models.ExampleType, `{"Name":"bulk"}`)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		n, err = a.DeleteMany(ctx, models.ExampleType, "")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		found, err := a.Select(ctx, "", models.ExampleType)
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestAPI_ConnectWithConfig(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	if !mongotest.IsDockerRunning(ctx) {
		t.Skip("Docker is not running, skipping integration test")
	}

	uri, terminate, err := mongotest.StartContainer(ctx)
	if err != nil {
		t.Fatalf("failed to setup mongodb container: %v", err)
	}
	defer terminate()

	a := New(WithRegistry(mongodb.NewRegistry()))
	require.NoError(t, a.RegisterDefaultModels())
	require.NoError(t, a.ConnectWithConfig(ctx, &settings.MongoDB{URI: uri, Database: testDatabase, Timeout: 5}))
	defer a.Disconnect(ctx)

	n, err := a.DeleteMany(ctx, models.ExampleType, "")
	require.NoError(t, err)
	assert.Zero(t, n)
}
