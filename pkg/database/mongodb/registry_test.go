package mongodb

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Widget and Gadget are the models used across this package's tests
type Widget struct {
	BaseModel `bson:",inline"`
	Name      string `bson:"name" json:"name" validate:"required"`
	Count     int    `bson:"count" json:"count" validate:"gte=0"`
}

type Gadget struct {
	BaseModel `bson:",inline"`
	Label     string `bson:"label" json:"label"`
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	_, err := r.Register(&Widget{}, &Gadget{})
	require.NoError(t, err)
	return r
}

func TestTypeNameOf(t *testing.T) {
	assert.Equal(t, "Widget", TypeNameOf(&Widget{}))
	assert.Equal(t, "Gadget", TypeNameOf((*Gadget)(nil)))
	assert.Equal(t, "", TypeNameOf(nil))
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	n, err := r.Register(&Widget{}, &Gadget{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, r.IsRegistered("Widget"))
	assert.True(t, r.IsRegistered("Gadget"))
	assert.False(t, r.IsRegistered("Other"))
	assert.Equal(t, []string{"Gadget", "Widget"}, r.Names())
}

func TestRegistry_Register_Idempotent(t *testing.T) {
	r := NewRegistry()

	_, err := r.Register(&Widget{})
	require.NoError(t, err)

	n, err := r.Register(&Widget{}, (*Widget)(nil))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, []string{"Widget"}, r.Names())
}

func TestRegistry_Register_Conflict(t *testing.T) {
	type Widget struct {
		BaseModel `bson:",inline"`
	}

	r := NewRegistry()
	_, err := r.Register(&Gadget{})
	require.NoError(t, err)

	_, err = r.Register(&Widget{})
	require.NoError(t, err)

	// the package level Widget clashes with the local one
	_, err = r.Register(newWidget())
	assert.ErrorIs(t, err, ErrTypeConflict)
}

func TestRegistry_Register_ConflictIsAtomic(t *testing.T) {
	type Gadget struct {
		BaseModel `bson:",inline"`
	}

	r := NewRegistry()
	_, err := r.Register(&Gadget{})
	require.NoError(t, err)

	_, err = r.Register(&Widget{}, newGadget())
	assert.ErrorIs(t, err, ErrTypeConflict)
	assert.False(t, r.IsRegistered("Widget"))
}

func TestRegistry_Register_Nil(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register(nil)
	assert.ErrorIs(t, err, ErrInvalidModel)
}

func TestRegistry_New(t *testing.T) {
	r := newTestRegistry(t)

	m, err := r.New("Widget")
	require.NoError(t, err)

	w, ok := m.(*Widget)
	require.True(t, ok)
	assert.Equal(t, "Widget", w.GetType())
	assert.Nil(t, w.GetID())

	_, err = r.New("Unknown")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Register(&Widget{}, &Gadget{})
			_, _ = r.New("Widget")
			_ = r.Names()
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"Gadget", "Widget"}, r.Names())
}

func newWidget() *Widget { return &Widget{} }
func newGadget() *Gadget { return &Gadget{} }
