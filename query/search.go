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

package query

import (
	"strings"

	"github.com/subsurface-tools/volveq/manifest"
)

// DedupeKey selects which entry property identifies duplicates during
// search deduplication.
type DedupeKey string

const (
	DedupeByPath     DedupeKey = "path"
	DedupeByFilename DedupeKey = "filename"
)

// Valid reports whether k is a recognised dedupe key.
func (k DedupeKey) Valid() bool {
	return k == DedupeByPath || k == DedupeByFilename
}

// Search describes one search request.
//
// Query is trimmed and lowered before matching; a query that is empty
// after trimming yields zero matches rather than an error. WellKey and
// Bucket, when non-empty, are exact-equality filters. Directory entries
// are excluded unless IncludeDirs is set. A non-positive Limit means no
// bound, which the CSV export relies on.
type Search struct {
	Query       string
	WellKey     string
	Bucket      string
	IncludeDirs bool
	Dedupe      bool
	DedupeKey   DedupeKey
	Offset      int
	Limit       int
}

// EntryPage is one page of entries plus the total size of the fully
// filtered (and, for searches, deduped) set the page was cut from.
type EntryPage struct {
	Total   int
	Entries []Entry
}

// Search runs the given search over the flat index and returns the
// requested page.
//
// Total is always the size of the final ordered match list after all
// filters and deduplication; pagination happens last, so Total and the
// page are consistent with each other by construction.
func (i *Index) Search(s Search) *EntryPage {
	q := strings.ToLower(strings.TrimSpace(s.Query))
	if q == "" {
		return &EntryPage{Entries: []Entry{}}
	}

	// Underscore and slash are interchangeable notations for well codes,
	// so 15_9-F-9A must also match a well id or path spelt 15/9-F-9A.
	qSlash := strings.ReplaceAll(q, "_", "/")

	matches := make([]Entry, 0)

	for _, e := range i.flat {
		if !s.keep(&e) || !matchEntry(&e, q, qSlash) {
			continue
		}

		matches = append(matches, e)
	}

	if s.Dedupe {
		matches = dedupeEntries(matches, s.DedupeKey)
	}

	return &EntryPage{
		Total:   len(matches),
		Entries: pageOf(matches, s.Offset, s.Limit),
	}
}

func (s *Search) keep(e *Entry) bool {
	if e.Type == manifest.TypeDirectory && !s.IncludeDirs {
		return false
	}

	if s.WellKey != "" && e.WellKey != s.WellKey {
		return false
	}

	if s.Bucket != "" && e.Bucket != s.Bucket {
		return false
	}

	return true
}

func matchEntry(e *Entry, q, qSlash string) bool {
	if containsFold(e.Filename, q) ||
		containsFold(e.Path, q) ||
		containsFold(e.Bucket, q) ||
		containsFold(e.WellKey, q) ||
		containsFold(e.WellID, q) {
		return true
	}

	for _, tag := range e.Tags {
		if containsFold(tag, q) {
			return true
		}
	}

	if qSlash != q && (containsFold(e.WellID, qSlash) || containsFold(e.Path, qSlash)) {
		return true
	}

	return false
}

// containsFold expects q to be lowered already.
func containsFold(s, q string) bool {
	return strings.Contains(strings.ToLower(s), q)
}

// dedupeEntries walks entries in order, keeping the first occurrence per
// key and preserving the relative order of survivors. It is idempotent.
func dedupeEntries(entries []Entry, key DedupeKey) []Entry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]Entry, 0, len(entries))

	for _, e := range entries {
		k := e.Path
		if key == DedupeByFilename {
			k = e.WellKey + "::" + e.Filename
		}

		if _, ok := seen[k]; ok {
			continue
		}

		seen[k] = struct{}{}

		out = append(out, e)
	}

	return out
}
