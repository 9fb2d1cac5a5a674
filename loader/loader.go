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

// Package loader discovers and parses per-well manifest files on disk.
//
// Two directory layouts are supported:
//
//	A) one subdirectory per well, each containing a manifest JSON file:
//	   wells/15_9-F-9A/manifest.json
//	B) a flat directory of one JSON file per well:
//	   wells/15_9-F-9A.json
//
// If the source directory contains any subdirectories, layout A is used
// exclusively; layout B is never attempted as a fallback.
package loader

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/subsurface-tools/volveq/manifest"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrMissingSource means the configured wells directory does not exist.
	ErrMissingSource = Error("wells directory not found")

	// ErrNotDirectory means the configured wells path is not a directory.
	ErrNotDirectory = Error("wells path is not a directory")

	// ErrNoManifests means no usable manifests were discovered under either
	// supported layout.
	ErrNoManifests = Error("no manifests found; expected wells/<KEY>/manifest.json or wells/<KEY>.json")
)

// preferredNames are tried in order inside each well subdirectory before
// falling back to the alphabetically first *.json file.
var preferredNames = [...]string{ //nolint:gochecknoglobals
	"manifest.json",
	"manifest.normalized.json",
	"normalized_manifest.json",
	"manifest_normalized.json",
	"index.json",
}

// Load reads every well manifest under dir and returns them in discovery
// order.
//
// Loading is all-or-nothing: a manifest that fails to parse or validate
// fails the whole load, with the failures for all wells aggregated in to
// the returned error. Subdirectories containing no JSON at all are skipped.
func Load(dir string) (*manifest.Wells, error) {
	entries, err := readSourceDir(dir)
	if err != nil {
		return nil, err
	}

	subdirs := make([]fs.DirEntry, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, entry)
		}
	}

	var wells *manifest.Wells

	if len(subdirs) > 0 {
		wells, err = loadFromSubdirs(dir, subdirs)
	} else {
		wells, err = loadFromFlatFiles(dir, entries)
	}

	if err != nil {
		return nil, err
	}

	if wells.Len() == 0 {
		return nil, ErrNoManifests
	}

	return wells, nil
}

func readSourceDir(dir string) ([]fs.DirEntry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingSource, dir)
		}

		return nil, err
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	return os.ReadDir(dir)
}

// loadFromSubdirs handles layout A. os.ReadDir returns entries sorted by
// name, which fixes the well order.
func loadFromSubdirs(dir string, subdirs []fs.DirEntry) (*manifest.Wells, error) {
	wells := manifest.NewWells()

	var errs *multierror.Error

	for _, sub := range subdirs {
		wellDir := filepath.Join(dir, sub.Name())

		manifestPath, err := findManifestFile(wellDir)
		if err != nil {
			errs = multierror.Append(errs, err)

			continue
		}

		if manifestPath == "" {
			continue
		}

		m, err := parseManifest(manifestPath)
		if err != nil {
			errs = multierror.Append(errs, err)

			continue
		}

		if err := wells.Add(wellKeyForDir(sub.Name(), m), m); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%w: %s", err, sub.Name()))
		}
	}

	return wells, errs.ErrorOrNil()
}

// loadFromFlatFiles handles layout B, using each filename minus its
// extension as the well key.
func loadFromFlatFiles(dir string, entries []fs.DirEntry) (*manifest.Wells, error) {
	wells := manifest.NewWells()

	var errs *multierror.Error

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		m, err := parseManifest(filepath.Join(dir, name))
		if err != nil {
			errs = multierror.Append(errs, err)

			continue
		}

		key := strings.TrimSuffix(name, ".json")

		if err := wells.Add(key, m); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%w: %s", err, key))
		}
	}

	return wells, errs.ErrorOrNil()
}

// findManifestFile picks the manifest inside a well subdirectory, trying
// the preferred names first and then the alphabetically first JSON file.
// Returns "" if the subdirectory holds no JSON files at all.
func findManifestFile(wellDir string) (string, error) {
	for _, name := range preferredNames {
		p := filepath.Join(wellDir, name)

		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, nil
		}
	}

	entries, err := os.ReadDir(wellDir)
	if err != nil {
		return "", err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			return filepath.Join(wellDir, entry.Name()), nil
		}
	}

	return "", nil
}

func parseManifest(path string) (*manifest.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	m := new(manifest.Manifest)

	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

func wellKeyForDir(dirName string, m *manifest.Manifest) string {
	if key := strings.TrimSpace(dirName); key != "" {
		return key
	}

	return strings.TrimSpace(strings.ReplaceAll(m.WellID, "/", "_"))
}
