package document

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const envelopeJSON = `{
  "metadata": {"collection_info": {"timestamp": "2024-03-01T12:00:00.000Z"}},
  "data": {
    "peggedAssets": [{"name": "Tether", "price": 1.0001}],
    "protocols": "not-a-list"
  }
}`

func TestParse_DeclaredTimestamp(t *testing.T) {
	doc, err := Parse([]byte(envelopeJSON), time.Unix(0, 0))
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01T12:00:00.000Z", doc.CollectedAt)
}

func TestParse_FallbackTimestamp(t *testing.T) {
	fallback := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	doc, err := Parse([]byte(`{"data": []}`), fallback)
	require.NoError(t, err)

	assert.Equal(t, "2024-05-06T07:08:09.000Z", doc.CollectedAt)
}

func TestParse_TopLevelTimestamp(t *testing.T) {
	doc, err := Parse([]byte(`{"timestamp": "2023-01-01T00:00:00.000Z", "data": []}`), time.Now())
	require.NoError(t, err)

	assert.Equal(t, "2023-01-01T00:00:00.000Z", doc.CollectedAt)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("  "), time.Now())
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = Parse([]byte("{broken"), time.Now())
	assert.Error(t, err)
}

func TestDecode_KeepsNumbers(t *testing.T) {
	v, err := Decode([]byte(`{"tvl": 1234567890123.4500}`))
	require.NoError(t, err)

	obj := v.(map[string]any)
	assert.Equal(t, json.Number("1234567890123.4500"), obj["tvl"])
}

func TestRawDocument_Containers(t *testing.T) {
	doc, err := Parse([]byte(envelopeJSON), time.Now())
	require.NoError(t, err)

	list, err := doc.List("$.data.peggedAssets")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = doc.List("$.data.protocols")
	assert.ErrorIs(t, err, ErrWrongContainerKind)

	_, err = doc.List("$.data.missing")
	assert.ErrorIs(t, err, ErrMissingContainer)

	_, err = doc.Object("$.data.peggedAssets")
	assert.ErrorIs(t, err, ErrWrongContainerKind)

	obj, err := doc.Object("$.data")
	require.NoError(t, err)
	assert.Contains(t, obj, "peggedAssets")

	assert.Equal(t, 1, doc.CountAt("$.data.peggedAssets"))
	assert.Equal(t, 0, doc.CountAt("$.data.protocols"))
	assert.Equal(t, 0, doc.CountAt("$.nothing.here"))
}

func TestRawDocument_NilRoot(t *testing.T) {
	var doc *RawDocument

	_, err := doc.Lookup("$.data")
	assert.ErrorIs(t, err, ErrMissingContainer)

	_, err = New(nil, "ts").List("$.data")
	assert.ErrorIs(t, err, ErrMissingContainer)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(envelopeJSON), 0644))

	doc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, doc.Path)
	assert.Equal(t, "2024-03-01T12:00:00.000Z", doc.CollectedAt)

	_, err = Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestFields(t *testing.T) {
	obj := map[string]any{
		"name":  "Aave",
		"tvl":   json.Number("10.5"),
		"float": 2.5,
		"list":  []any{map[string]any{"a": "b"}},
		"obj":   map[string]any{"x": json.Number("1")},
		"bool":  true,
	}

	require.NotNil(t, String(obj, "name"))
	assert.Equal(t, "Aave", *String(obj, "name"))
	assert.Nil(t, String(obj, "tvl"))
	assert.Nil(t, String(obj, "missing"))

	require.NotNil(t, Number(obj, "tvl"))
	assert.Equal(t, json.Number("10.5"), *Number(obj, "tvl"))
	assert.Equal(t, json.Number("2.5"), *Number(obj, "float"))
	assert.Nil(t, Number(obj, "name"))

	assert.Equal(t, true, Value(obj, "bool"))
	assert.Nil(t, Value(obj, "missing"))

	assert.NotNil(t, Object(obj, "obj"))
	assert.Nil(t, Object(obj, "list"))

	assert.Len(t, List(obj, "list"), 1)
	assert.Nil(t, List(obj, "obj"))

	assert.NotNil(t, FirstObject(List(obj, "list")))
	assert.Nil(t, FirstObject(nil))
	assert.Nil(t, FirstObject([]any{"str"}))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "null", KindOf(nil))
	assert.Equal(t, "object", KindOf(map[string]any{}))
	assert.Equal(t, "list", KindOf([]any{}))
	assert.Equal(t, "string", KindOf("s"))
	assert.Equal(t, "number", KindOf(json.Number("1")))
	assert.Equal(t, "bool", KindOf(false))
}
