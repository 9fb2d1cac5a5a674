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

package server

import (
	"time"

	"github.com/subsurface-tools/volveq/loader"
	"github.com/subsurface-tools/volveq/query"
	"github.com/subsurface-tools/volveq/watch"
)

// LoadWells loads every manifest under dir, builds the index and makes it
// the active snapshot. Loading is all-or-nothing: on error no snapshot is
// installed and any previous one stays active.
func (s *Server) LoadWells(dir string) error {
	wells, err := loader.Load(dir)
	if err != nil {
		return err
	}

	idx := query.NewIndex(wells)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.index = idx
	s.sourceDir = dir
	s.dataTimeStamp = time.Now()

	return nil
}

// EnableReloading watches the loaded wells directory's mtime at the given
// poll frequency and rebuilds the index when it changes. LoadWells() must
// have been called first.
//
// A failed reload is logged and the previous snapshot stays active; a
// partial index is never served.
func (s *Server) EnableReloading(pollFrequency time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	watcher, err := watch.New(s.sourceDir, s.reload, pollFrequency)
	if err != nil {
		return err
	}

	s.dataTimeStamp = watcher.Mtime()
	s.watcher = watcher

	return nil
}

func (s *Server) reload(mtime time.Time) {
	s.mu.RLock()
	dir := s.sourceDir
	s.mu.RUnlock()

	s.logger.Info("reloading manifests", "dir", dir)

	wells, err := loader.Load(dir)
	if err != nil {
		s.logger.Warn("reloading manifests failed; keeping previous index", "err", err)

		return
	}

	idx := query.NewIndex(wells)

	s.mu.Lock()
	s.index = idx
	s.dataTimeStamp = mtime
	s.mu.Unlock()

	s.logger.Info("manifests reloaded", "wells", idx.NumWells(), "entries", idx.NumEntries())
}

func (s *Server) stopWatcher() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watcher != nil {
		s.watcher.Stop()
		s.watcher = nil
	}
}
