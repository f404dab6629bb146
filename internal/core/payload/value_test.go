package payload

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromNormalizesLooseData(t *testing.T) {
	id := uuid.New()
	v, err := From(map[string]any{
		"count": 3,
		"ratio": json.Number("0.25"),
		"big":   json.Number("9000"),
		"tags":  []string{"a", "b"},
		"legacy": map[any]any{
			"ok": true,
		},
		"id":   id,
		"none": nil,
	})
	require.NoError(t, err)
	require.Equal(t, KindMapping, v.Kind())

	obj := v.Object()
	assert.Equal(t, Int(3), obj["count"])
	assert.Equal(t, Float(0.25), obj["ratio"])
	assert.Equal(t, Int(9000), obj["big"])
	assert.Equal(t, Sequence(String("a"), String("b")), obj["tags"])
	assert.Equal(t, Mapping(Object{"ok": Bool(true)}), obj["legacy"])
	assert.Equal(t, Identifier(id), obj["id"])
	assert.True(t, obj["none"].IsNull())
}

func TestFromRejectsNonStringKeys(t *testing.T) {
	_, err := From(map[any]any{1: "x"})
	assert.Error(t, err)

	_, err = From(map[int]string{1: "x"})
	assert.Error(t, err)

	_, err = From(struct{ A int }{1})
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestInterfaceRoundTrip(t *testing.T) {
	v := Mapping(Object{
		"list": Sequence(Int(1), Float(2.5)),
		"name": String("orc"),
	})
	assert.Equal(t, map[string]any{
		"list": []any{int64(1), 2.5},
		"name": "orc",
	}, v.Interface())
}

func TestTextAndKeys(t *testing.T) {
	s, ok := Float(5).Text()
	assert.True(t, ok)
	assert.Equal(t, "5", s)

	_, ok = Sequence().Text()
	assert.False(t, ok)

	assert.Equal(t, []string{"a", "b", "c"}, Object{"c": Null(), "a": Null(), "b": Null()}.Keys())
	assert.Equal(t, "mapping", KindMapping.String())
}
