package prop_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeprop/codeprop/pkg/prop"
)

func TestMap_BuilderAndGetters(t *testing.T) {
	p := prop.New().
		With("name", prop.StringValue("test_function")).
		With("line", prop.IntValue(42)).
		With("is_async", prop.BoolValue(true))

	name, ok := p.GetString("name")
	require.True(t, ok)
	assert.Equal(t, "test_function", name)

	line, ok := p.GetInt("line")
	require.True(t, ok)
	assert.Equal(t, int64(42), line)

	isAsync, ok := p.GetBool("is_async")
	require.True(t, ok)
	assert.True(t, isAsync)
}

func TestMap_Insert(t *testing.T) {
	p := prop.New()
	p.Insert("key1", prop.StringValue("value1"))
	p.Insert("key2", prop.IntValue(123))

	v, ok := p.GetString("key1")
	require.True(t, ok)
	assert.Equal(t, "value1", v)

	i, ok := p.GetInt("key2")
	require.True(t, ok)
	assert.Equal(t, int64(123), i)
}

func TestMap_TypeSafetyNoCoercion(t *testing.T) {
	p := prop.New().
		With("name", prop.StringValue("function")).
		With("line", prop.IntValue(10))

	_, ok := p.GetInt("name")
	assert.False(t, ok, "wrong-kind access must report absent, not coerce")

	_, ok = p.GetString("line")
	assert.False(t, ok)
}

func TestMap_Remove(t *testing.T) {
	p := prop.New().With("temp", prop.StringValue("value"))
	assert.True(t, p.Has("temp"))

	removed, ok := p.Remove("temp")
	require.True(t, ok)
	assert.Equal(t, prop.KindString, removed.Kind())
	assert.False(t, p.Has("temp"))
}

func TestMap_Lists(t *testing.T) {
	p := prop.New().
		With("symbols", prop.StringListValue([]string{"foo", "bar"})).
		With("lines", prop.IntListValue([]int64{1, 2, 3}))

	symbols, ok := p.GetStringList("symbols")
	require.True(t, ok)
	assert.Len(t, symbols, 2)

	lines, ok := p.GetIntList("lines")
	require.True(t, ok)
	assert.Len(t, lines, 3)
}

func TestMap_MergeOverwritesDuplicateKeys(t *testing.T) {
	base := prop.New().With("a", prop.IntValue(1)).With("b", prop.IntValue(2))
	patch := prop.New().With("b", prop.IntValue(20)).With("c", prop.IntValue(3))

	base.Merge(patch)

	b, _ := base.GetInt("b")
	c, _ := base.GetInt("c")
	assert.Equal(t, int64(20), b)
	assert.Equal(t, int64(3), c)
	assert.Equal(t, 3, base.Len())
}

func TestMap_CloneIsIndependent(t *testing.T) {
	original := prop.New().With("k", prop.StringListValue([]string{"a"}))
	clone := original.Clone()

	clone.Insert("k", prop.StringListValue([]string{"b"}))

	originalList, _ := original.GetStringList("k")
	cloneList, _ := clone.GetStringList("k")
	assert.Equal(t, []string{"a"}, originalList)
	assert.Equal(t, []string{"b"}, cloneList)
}

func TestMap_JSONRoundTrip(t *testing.T) {
	p := prop.New().
		With("name", prop.StringValue("x")).
		With("line", prop.IntValue(42)).
		With("score", prop.FloatValue(1.5)).
		With("flag", prop.BoolValue(true)).
		With("tags", prop.StringListValue([]string{"a", "b"})).
		With("counts", prop.IntListValue([]int64{1, 2})).
		With("nothing", prop.Null())

	data, err := json.Marshal(p)
	require.NoError(t, err)

	restored := prop.New()
	require.NoError(t, json.Unmarshal(data, restored))

	name, ok := restored.GetString("name")
	require.True(t, ok)
	assert.Equal(t, "x", name)

	line, ok := restored.GetInt("line")
	require.True(t, ok)
	assert.Equal(t, int64(42), line)

	score, ok := restored.GetFloat("score")
	require.True(t, ok)
	assert.Equal(t, 1.5, score)

	flag, ok := restored.GetBool("flag")
	require.True(t, ok)
	assert.True(t, flag)

	tags, ok := restored.GetStringList("tags")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, tags)

	counts, ok := restored.GetIntList("counts")
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2}, counts)

	assert.True(t, restored.Has("nothing"))
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, prop.IntValue(1).Equal(prop.IntValue(1)))
	assert.False(t, prop.IntValue(1).Equal(prop.IntValue(2)))
	assert.False(t, prop.IntValue(1).Equal(prop.StringValue("1")))
	assert.True(t, prop.StringListValue([]string{"a", "b"}).Equal(prop.StringListValue([]string{"a", "b"})))
	assert.False(t, prop.StringListValue([]string{"a"}).Equal(prop.StringListValue([]string{"a", "b"})))
}
