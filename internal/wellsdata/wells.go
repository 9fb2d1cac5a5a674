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

// Package wellsdata creates wells directories for tests.
package wellsdata

import (
	"os"
	"path/filepath"
	"testing"
)

// WellAKey and WellBKey are the well keys of the fixture created by
// CreateTestWells.
const (
	WellAKey = "15_9-F-1"
	WellBKey = "15_9-F-9A"
)

// WellAManifest uses the legacy "well" identifier alias, an explicit
// bucket_counts mapping that disagrees with the node list length, and a
// per-well foreign_ref list containing a repeat.
const WellAManifest = `{
	"well": "15/9-F-1",
	"buckets": {
		"logs": [
			{"path": "logs/gamma.las", "type": "file"}
		]
	},
	"bucket_counts": {"logs": 5},
	"foreign_ref": ["15/9-F-9A", "15/9-F-9A"]
}`

// WellBManifest exercises the heterogeneous tag forms, a directory node, a
// duplicated path, an empty path and per-node foreign ref wells. Bucket
// key order (zdocs before logs) deliberately differs from sorted order.
const WellBManifest = `{
	"well_id": "15/9-F-9A",
	"buckets": {
		"zdocs": [
			{"path": "docs/report_final.pdf", "name": "report_final.pdf", "type": "file", "tags": "DOCS|WELL_TECH"},
			{"path": "docs/archive", "name": "archive", "type": "directory", "tags": ["DOCS"]},
			{"path": "docs/report_final.pdf", "name": "report_final.pdf", "type": "file", "tags": "DOCS"}
		],
		"logs": [
			{"path": "logs/mud_log.las", "type": "file", "tags": "LOGS, MUD",
				"foreign_ref_wells": ["15/9-F-1"]},
			{"path": "", "name": "no_path.txt", "type": "file"}
		]
	}
}`

// CreateTestWells writes the two fixture wells in layout A (one
// subdirectory per well, each holding a manifest.json) under a new temp
// directory, which is returned.
func CreateTestWells(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	CreateWellDir(t, dir, WellAKey, "manifest.json", WellAManifest)
	CreateWellDir(t, dir, WellBKey, "manifest.json", WellBManifest)

	return dir
}

// CreateWellDir writes a layout A well subdirectory containing a single
// manifest file with the given name and contents.
func CreateWellDir(t *testing.T, base, key, filename, contents string) {
	t.Helper()

	wellDir := filepath.Join(base, key)

	if err := os.MkdirAll(wellDir, 0755); err != nil {
		t.Fatal(err)
	}

	writeFile(t, filepath.Join(wellDir, filename), contents)
}

// CreateWellFile writes a layout B <key>.json manifest file.
func CreateWellFile(t *testing.T, base, key, contents string) {
	t.Helper()

	writeFile(t, filepath.Join(base, key+".json"), contents)
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatal(err)
	}
}
