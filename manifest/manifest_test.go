/*******************************************************************************
 * Copyright (c) 2025 Subsurface Tools
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package manifest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestDecode(t *testing.T) {
	data := `{
		"well_id": "15/9-F-9A",
		"buckets": {
			"zeta": [{"path": "z/a.txt", "type": "file"}],
			"alpha": [{"path": "a/b.txt", "name": "b.txt", "type": "file", "tags": "X|Y"}],
			"midl": []
		},
		"bucket_counts": {"zeta": 3},
		"foreign_ref": ["15/9-F-1"]
	}`

	var m Manifest

	require.NoError(t, json.Unmarshal([]byte(data), &m))

	assert.Equal(t, "15/9-F-9A", m.WellID)
	assert.Equal(t, []string{"zeta", "alpha", "midl"}, m.Buckets.Names(),
		"bucket order must follow the JSON document, not sorted or map order")
	assert.Equal(t, map[string]int{"zeta": 3}, m.BucketCounts)
	assert.Equal(t, []string{"15/9-F-1"}, m.ForeignRefs)

	nodes, ok := m.Buckets.Get("alpha")
	require.True(t, ok)
	require.Len(t, nodes, 1)
	assert.Equal(t, "a/b.txt", nodes[0].Path)
	assert.Equal(t, TypeFile, nodes[0].Type)
	assert.Equal(t, TagList{"X", "Y"}, nodes[0].Tags)

	nodes, ok = m.Buckets.Get("midl")
	assert.True(t, ok, "an empty bucket is still present")
	assert.Empty(t, nodes)

	_, ok = m.Buckets.Get("missing")
	assert.False(t, ok)
}

func TestManifestWellAlias(t *testing.T) {
	var m Manifest

	require.NoError(t, json.Unmarshal([]byte(`{"well": "15/9-F-1", "buckets": {}}`), &m))
	assert.Equal(t, "15/9-F-1", m.WellID, "legacy well field is resolved at decode time")

	require.NoError(t, json.Unmarshal(
		[]byte(`{"well": "legacy", "well_id": "15/9-F-1", "buckets": {}}`), &m))
	assert.Equal(t, "15/9-F-1", m.WellID, "well_id wins over the legacy alias")
}

func TestManifestResolvedID(t *testing.T) {
	m := Manifest{WellID: "15/9-F-9A"}
	assert.Equal(t, "15/9-F-9A", m.ResolvedID("whatever"))

	m.WellID = ""
	assert.Equal(t, "15/9-F-9A", m.ResolvedID("15_9-F-9A"),
		"a missing id resolves from the key with underscores as slashes")
}

func TestManifestValidate(t *testing.T) {
	var m Manifest

	require.NoError(t, json.Unmarshal(
		[]byte(`{"well_id": "w", "buckets": {"b": [{"path": "p", "type": "file"}]}}`), &m))
	assert.NoError(t, m.Validate())

	require.NoError(t, json.Unmarshal(
		[]byte(`{"well_id": "w", "buckets": {"b": [{"path": "p", "type": "symlink"}]}}`), &m))
	assert.ErrorIs(t, m.Validate(), ErrBadNodeType)

	require.NoError(t, json.Unmarshal(
		[]byte(`{"well_id": "w", "buckets": {"b": [{"path": "p"}]}}`), &m))
	assert.ErrorIs(t, m.Validate(), ErrBadNodeType, "a missing type is not defaulted")
}

func TestBucketsMarshalRoundTrip(t *testing.T) {
	data := `{"well_id":"w","buckets":{"zeta":[{"path":"z","type":"file","tags":null}],"alpha":[]}}`

	var m Manifest

	require.NoError(t, json.Unmarshal([]byte(data), &m))

	out, err := json.Marshal(m.Buckets)
	require.NoError(t, err)

	var rt Buckets

	require.NoError(t, json.Unmarshal(out, &rt))
	assert.Equal(t, []string{"zeta", "alpha"}, rt.Names(),
		"marshalling preserves bucket order")
}

func TestBucketsNull(t *testing.T) {
	var m Manifest

	require.NoError(t, json.Unmarshal([]byte(`{"well_id": "w", "buckets": null}`), &m))
	assert.Empty(t, m.Buckets)
	assert.NoError(t, m.Validate())
}

func TestWells(t *testing.T) {
	wells := NewWells()

	require.NoError(t, wells.Add("b", &Manifest{WellID: "B"}))
	require.NoError(t, wells.Add("a", &Manifest{WellID: "A"}))

	assert.Equal(t, []string{"b", "a"}, wells.Keys(), "insertion order is kept")
	assert.Equal(t, 2, wells.Len())

	m, ok := wells.Get("a")
	require.True(t, ok)
	assert.Equal(t, "A", m.WellID)

	_, ok = wells.Get("c")
	assert.False(t, ok)

	assert.ErrorIs(t, wells.Add("a", &Manifest{}), ErrDuplicateWell)
}
