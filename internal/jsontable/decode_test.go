package jsontable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_PreservesKeyOrderAndLiterals(t *testing.T) {
	v, err := Decode([]byte(`{"b":1.50,"a":{"z":true,"y":null},"c":[1,"two"]}`))
	require.NoError(t, err)

	obj := v.Object()
	require.NotNil(t, obj)
	assert.Equal(t, []string{"b", "a", "c"}, obj.Keys())

	b, _ := obj.Get("b")
	assert.Equal(t, KindNumber, b.Kind())
	assert.Equal(t, "1.50", b.Content())

	a, _ := obj.Get("a")
	assert.Equal(t, []string{"z", "y"}, a.Object().Keys())

	c, _ := obj.Get("c")
	elems := c.Elements()
	require.Len(t, elems, 2)
	assert.Equal(t, KindString, elems[1].Kind())
}

func TestDecode_DuplicateKeyKeepsLastValue(t *testing.T) {
	v, err := Decode([]byte(`{"a":1,"b":2,"a":3}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, v.Object().Keys())
	a, _ := v.Object().Get("a")
	assert.Equal(t, "3", a.Content())
}

func TestDecode_Errors(t *testing.T) {
	for _, doc := range []string{``, `{`, `{"a":}`, `{} {}`, `[1] x`} {
		_, err := Decode([]byte(doc))
		assert.Error(t, err, "doc %q", doc)
	}
}

func TestDecodeObjects_Shapes(t *testing.T) {
	items, err := DecodeObjects([]byte(`{"a":1}`), false)
	require.NoError(t, err)
	require.Len(t, items, 1)

	items, err = DecodeObjects([]byte("  \n"), false)
	require.NoError(t, err)
	assert.Nil(t, items)

	items, err = DecodeObjects([]byte(`null`), false)
	require.NoError(t, err)
	assert.Nil(t, items)

	_, err = DecodeObjects([]byte(`[{"a":1}, 2]`), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "element 1 is number")

	_, err = DecodeObjects([]byte(`"text"`), false)
	require.Error(t, err)
}

func TestDecodeYAML_Scalars(t *testing.T) {
	doc := `
- name: x
  refresh_interval: 5
  ratio: 0.5
  enabled: true
  note: ~
`
	v, err := DecodeYAML([]byte(doc))
	require.NoError(t, err)

	items, err := ObjectsOf(v)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"name", "refresh_interval", "ratio", "enabled", "note"}, items[0].Keys())

	conf, err := BuildSchema(items[0])
	require.NoError(t, err)
	types := map[string]ColumnType{}
	for _, c := range conf.Columns() {
		types[c.Key] = c.Type
	}
	assert.Equal(t, map[string]ColumnType{
		"enabled":          TypeBoolean,
		"name":             TypeString,
		"note":             TypeUnknown,
		"ratio":            TypeDouble,
		"refresh_interval": TypeLong,
	}, types)
}

func TestDecodeYAML_ResolvesAliases(t *testing.T) {
	doc := `
base: &b
  k: 1
copy: *b
`
	v, err := DecodeYAML([]byte(doc))
	require.NoError(t, err)

	cp, ok := v.Object().Get("copy")
	require.True(t, ok)
	k, ok := cp.Object().Get("k")
	require.True(t, ok)
	assert.Equal(t, "1", k.Content())
}

func TestDecodeObjects_YAMLFallback(t *testing.T) {
	doc := []byte("- path: /srv\n  label: media\n")

	_, err := DecodeObjects(doc, false)
	require.Error(t, err)

	items, err := DecodeObjects(doc, true)
	require.NoError(t, err)
	require.Len(t, items, 1)
	path, _ := items[0].Get("path")
	assert.Equal(t, "/srv", path.Content())
}

func TestValue_Content(t *testing.T) {
	assert.Equal(t, "null", Null().Content())
	assert.Equal(t, "true", Bool(true).Content())
	assert.Equal(t, "2.0", Float(2).Content())
	assert.Equal(t, "3.14", Float(3.14).Content())
	assert.Equal(t, "", Array(Int(1)).Content())
	assert.Equal(t, "", ObjectValue(nil).Content())
	assert.True(t, Null().IsPrimitive())
	assert.False(t, Array().IsPrimitive())
}

func TestObject_NilSafe(t *testing.T) {
	var o *Object
	assert.Equal(t, 0, o.Len())
	assert.Nil(t, o.Keys())
	_, ok := o.Get("a")
	assert.False(t, ok)
	o.Range(func(string, Value) bool {
		t.Fatal("range on nil object called fn")
		return true
	})
}
