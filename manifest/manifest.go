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

// Package manifest defines the well manifest data model: one manifest per
// well, grouping file nodes in to named buckets. The heterogeneous wire
// forms (tag unions, legacy field aliases, arbitrary bucket key order) are
// all resolved here at decode time; nothing downstream sees them.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrDuplicateWell = Error("duplicate well key")
	ErrBadNodeType   = Error("bad node type")
)

// EntryType is the kind of a manifest node.
type EntryType string

const (
	TypeFile      EntryType = "file"
	TypeDirectory EntryType = "directory"
)

// Valid reports whether t is one of the allowed node types.
func (t EntryType) Valid() bool {
	return t == TypeFile || t == TypeDirectory
}

// Node is a single entry inside a manifest bucket list.
//
// Upstream manifests are loosely typed; in particular tags may arrive as a
// delimited string, a list, or be absent entirely. Tags holds the canonical
// form after decode.
type Node struct {
	Path            string    `json:"path"`
	Name            string    `json:"name,omitempty"`
	Type            EntryType `json:"type"`
	ExtNorm         string    `json:"ext_norm,omitempty"`
	TopFolder       string    `json:"top_folder,omitempty"`
	Tags            TagList   `json:"tags"`
	ForeignRefWells []string  `json:"foreign_ref_wells,omitempty"`
}

// Bucket is a named, ordered group of nodes.
type Bucket struct {
	Name  string
	Nodes []Node
}

// Buckets is an order-preserving bucket mapping. JSON objects do not
// guarantee key order once decoded in to a Go map, but flat index order
// depends on it, so we decode the object manually.
type Buckets []Bucket

func (b *Buckets) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}

	if tok == nil {
		*b = nil

		return nil
	}

	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("buckets: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, errr := dec.Token()
		if errr != nil {
			return errr
		}

		var nodes []Node

		if err = dec.Decode(&nodes); err != nil {
			return err
		}

		*b = append(*b, Bucket{Name: keyTok.(string), Nodes: nodes})
	}

	_, err = dec.Token()

	return err
}

func (b Buckets) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for n, bucket := range b {
		if n > 0 {
			buf.WriteByte(',')
		}

		name, err := json.Marshal(bucket.Name)
		if err != nil {
			return nil, err
		}

		buf.Write(name)
		buf.WriteByte(':')

		nodes, err := json.Marshal(bucket.Nodes)
		if err != nil {
			return nil, err
		}

		buf.Write(nodes)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Get returns the nodes for the named bucket, and whether the bucket key
// exists at all. A present-but-empty bucket returns (nil-or-empty, true).
func (b Buckets) Get(name string) ([]Node, bool) {
	for _, bucket := range b {
		if bucket.Name == name {
			return bucket.Nodes, true
		}
	}

	return nil, false
}

// Names returns the bucket names in manifest order.
func (b Buckets) Names() []string {
	names := make([]string, len(b))

	for n, bucket := range b {
		names[n] = bucket.Name
	}

	return names
}

// Manifest is one well's file inventory.
//
// Older manifests record the well identifier under "well" instead of
// "well_id"; the alias is resolved during decode and WellID is the only
// field downstream code reads.
type Manifest struct {
	WellID       string         `json:"well_id"`
	Buckets      Buckets        `json:"buckets"`
	BucketCounts map[string]int `json:"bucket_counts,omitempty"`
	ForeignRefs  []string       `json:"foreign_ref,omitempty"`
}

type manifestJSON struct {
	WellID       string         `json:"well_id"`
	Well         string         `json:"well"`
	Buckets      Buckets        `json:"buckets"`
	BucketCounts map[string]int `json:"bucket_counts"`
	ForeignRefs  []string       `json:"foreign_ref"`
}

func (m *Manifest) UnmarshalJSON(data []byte) error {
	var mj manifestJSON

	if err := json.Unmarshal(data, &mj); err != nil {
		return err
	}

	m.WellID = mj.WellID
	if m.WellID == "" {
		m.WellID = mj.Well
	}

	m.Buckets = mj.Buckets
	m.BucketCounts = mj.BucketCounts
	m.ForeignRefs = mj.ForeignRefs

	return nil
}

// Validate checks the parts of the schema that cannot be defaulted away: a
// node with an unknown type is a hard error, since every consumer branches
// on file vs directory.
func (m *Manifest) Validate() error {
	for _, bucket := range m.Buckets {
		for _, node := range bucket.Nodes {
			if !node.Type.Valid() {
				return fmt.Errorf("%w: bucket %q path %q type %q",
					ErrBadNodeType, bucket.Name, node.Path, node.Type)
			}
		}
	}

	return nil
}

// ResolvedID returns the manifest's well identifier, falling back to the
// key it was loaded under with underscores replaced by slashes, the two
// interchangeable notations for well codes (15_9-F-9A vs 15/9-F-9A).
func (m *Manifest) ResolvedID(wellKey string) string {
	if m.WellID != "" {
		return m.WellID
	}

	return strings.ReplaceAll(wellKey, "_", "/")
}
