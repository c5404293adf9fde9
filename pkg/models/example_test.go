package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huynhanx03/go-mongoapi/pkg/database/mongodb"
)

func TestNewExample(t *testing.T) {
	e := NewExample("Prueba", 30, "Doe")

	assert.Equal(t, ExampleType, e.GetType())
	assert.Equal(t, ExampleType, mongodb.TypeNameOf(e))
	assert.Nil(t, e.GetID())
}

func TestRegister(t *testing.T) {
	r := mongodb.NewRegistry()

	n, err := Register(r)
	require.NoError(t, err)
	assert.Equal(t, len(All()), n)
	assert.True(t, r.IsRegistered(ExampleType))

	n, err = Register(r)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestExample_JSON(t *testing.T) {
	r := mongodb.NewRegistry()
	_, err := Register(r)
	require.NoError(t, err)
	codec := mongodb.NewCodec(r)

	m, err := codec.FromJSON([]byte(`{"ChildType":"Example","Name":"Lista 1","Age":3,"Surname":"S"}`), ExampleType)
	require.NoError(t, err)

	e := m.(*Example)
	assert.Equal(t, "Lista 1", e.Name)
	assert.Equal(t, uint8(3), e.Age)
	assert.Equal(t, "S", e.Surname)

	_, err = codec.FromJSON([]byte(`{"ChildType":"Example","Age":300}`), ExampleType)
	assert.Error(t, err)
}
