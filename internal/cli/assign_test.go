package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssignments(t *testing.T) {
	fields, err := parseAssignments([]string{
		"Name=Ana",
		"Age=31",
		"Score=4.5",
		"Active=true",
		"Tags=[\"a\",1]",
		"Note=two words",
		"Empty=",
		"Expr=a=b",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"Name":   "Ana",
		"Age":    int64(31),
		"Score":  4.5,
		"Active": true,
		"Tags":   []any{"a", int64(1)},
		"Note":   "two words",
		"Empty":  "",
		"Expr":   "a=b",
	}, fields)
}

func TestParseAssignments_Invalid(t *testing.T) {
	for _, pair := range []string{"NoEquals", "=value", " =value"} {
		t.Run(pair, func(t *testing.T) {
			_, err := parseAssignments([]string{pair})
			assert.Error(t, err)
		})
	}
}

func TestParseSort(t *testing.T) {
	key, order := parseSort("-Age")
	assert.Equal(t, "Age", key)
	assert.Equal(t, -1, order)

	key, order = parseSort("Name")
	assert.Equal(t, "Name", key)
	assert.Equal(t, 1, order)
}
