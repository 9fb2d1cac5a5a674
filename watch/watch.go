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

// Package watch polls a path's mtime and triggers a callback when it
// changes, used to reload the manifest index when the wells directory is
// rewritten.
package watch

import (
	"os"
	"sync"
	"time"
)

// Watcher periodically stats a path and calls a callback whenever the
// path's mtime advances.
type Watcher struct {
	path     string
	cb       func(mtime time.Time)
	stop     chan struct{}
	stopOnce sync.Once

	mu    sync.Mutex
	mtime time.Time
}

// New stats the given path to confirm it exists, records its mtime, and
// starts polling it at the given frequency. The callback is called from
// the polling goroutine each time the mtime advances.
func New(path string, cb func(mtime time.Time), pollFrequency time.Duration) (*Watcher, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:  path,
		cb:    cb,
		stop:  make(chan struct{}),
		mtime: info.ModTime(),
	}

	go w.poll(pollFrequency)

	return w, nil
}

func (w *Watcher) poll(pollFrequency time.Duration) {
	ticker := time.NewTicker(pollFrequency)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			w.check()
		}
	}
}

// check stats the watched path; stat errors are skipped, since a rewrite
// in progress can make the path briefly unreadable.
func (w *Watcher) check() {
	info, err := os.Stat(w.path)
	if err != nil {
		return
	}

	mt := info.ModTime()

	w.mu.Lock()
	changed := mt.After(w.mtime)

	if changed {
		w.mtime = mt
	}
	w.mu.Unlock()

	if changed {
		w.cb(mt)
	}
}

// Mtime returns the most recently observed mtime of the watched path.
func (w *Watcher) Mtime() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.mtime
}

// Stop ends the polling. It does not wait for an in-flight callback, and
// is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})
}
