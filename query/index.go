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

// Package query implements the in-memory manifest index and search engine.
//
// An Index is built once from a loaded set of well manifests and is
// immutable afterwards, so any number of concurrent queries may run against
// the same Index without locking. Refreshing the data means building a new
// Index and swapping the reference; there is no entry-level mutation.
package query

import (
	"slices"
	"strings"

	"github.com/subsurface-tools/volveq/manifest"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrUnknownWell   = Error("unknown well key")
	ErrUnknownBucket = Error("unknown bucket for this well")
)

// Entry is a denormalized record for one manifest node, carrying its well
// and bucket context. It is the unit of search and listing.
type Entry struct {
	Type     manifest.EntryType `json:"type"`
	WellKey  string             `json:"well_key"`
	WellID   string             `json:"well_id"`
	Bucket   string             `json:"bucket"`
	Path     string             `json:"path"`
	Filename string             `json:"filename"`
	Tags     []string           `json:"tags"`
}

// Index answers searches, summaries and listings over a snapshot of well
// manifests.
//
// The flat entry list is in source order: wells in loader order, then
// buckets in manifest order, then nodes in bucket order. Rebuilding from
// byte-identical input always yields an identical flat order; nothing
// user-visible depends on map iteration.
type Index struct {
	wells      *manifest.Wells
	sortedKeys []string
	flat       []Entry
}

// NewIndex flattens the given wells in to a new Index. Nodes with an empty
// path are excluded.
func NewIndex(wells *manifest.Wells) *Index {
	sortedKeys := slices.Clone(wells.Keys())
	slices.Sort(sortedKeys)
	idx := &Index{
		wells:      wells,
		sortedKeys: sortedKeys,
	}

	for _, wellKey := range wells.Keys() {
		m, _ := wells.Get(wellKey)
		idx.flattenWell(wellKey, m)
	}

	return idx
}

func (i *Index) flattenWell(wellKey string, m *manifest.Manifest) {
	wellID := m.ResolvedID(wellKey)

	for _, bucket := range m.Buckets {
		for _, node := range bucket.Nodes {
			if node.Path == "" {
				continue
			}

			i.flat = append(i.flat, Entry{
				Type:     node.Type,
				WellKey:  wellKey,
				WellID:   wellID,
				Bucket:   bucket.Name,
				Path:     node.Path,
				Filename: filenameOf(node),
				Tags:     tagsOf(node),
			})
		}
	}
}

func filenameOf(node manifest.Node) string {
	if node.Name != "" {
		return node.Name
	}

	if n := strings.LastIndexByte(node.Path, '/'); n >= 0 {
		return node.Path[n+1:]
	}

	return node.Path
}

func tagsOf(node manifest.Node) []string {
	if node.Tags == nil {
		return []string{}
	}

	return node.Tags
}

// Wells returns all well keys, sorted.
func (i *Index) Wells() []string {
	return i.sortedKeys
}

// NumWells returns the number of indexed wells.
func (i *Index) NumWells() int {
	return i.wells.Len()
}

// NumEntries returns the size of the flat index.
func (i *Index) NumEntries() int {
	return len(i.flat)
}

// Manifest returns the raw manifest loaded under wellKey.
func (i *Index) Manifest(wellKey string) (*manifest.Manifest, error) {
	m, ok := i.wells.Get(wellKey)
	if !ok {
		return nil, ErrUnknownWell
	}

	return m, nil
}

// Buckets returns the sorted bucket names present in the well's manifest.
func (i *Index) Buckets(wellKey string) ([]string, error) {
	m, ok := i.wells.Get(wellKey)
	if !ok {
		return nil, ErrUnknownWell
	}

	names := m.Buckets.Names()
	slices.Sort(names)

	return names, nil
}

// BucketEntries returns the requested page of the flat index entries
// belonging to the given well and bucket, in index order, along with the
// total. A bucket key missing from the manifest is ErrUnknownBucket, which
// is distinct from a bucket that is present but empty.
func (i *Index) BucketEntries(wellKey, bucket string, offset, limit int) (*EntryPage, error) {
	m, ok := i.wells.Get(wellKey)
	if !ok {
		return nil, ErrUnknownWell
	}

	if _, ok := m.Buckets.Get(bucket); !ok {
		return nil, ErrUnknownBucket
	}

	entries := make([]Entry, 0)

	for _, e := range i.flat {
		if e.WellKey == wellKey && e.Bucket == bucket {
			entries = append(entries, e)
		}
	}

	return &EntryPage{
		Total:   len(entries),
		Entries: pageOf(entries, offset, limit),
	}, nil
}

// ForeignRefs returns the well's foreign-reference list as recorded in its
// manifest: order preserved, no dedup.
func (i *Index) ForeignRefs(wellKey string) ([]string, error) {
	m, ok := i.wells.Get(wellKey)
	if !ok {
		return nil, ErrUnknownWell
	}

	if m.ForeignRefs == nil {
		return []string{}, nil
	}

	return m.ForeignRefs, nil
}
