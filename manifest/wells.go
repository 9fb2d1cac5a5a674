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

// Wells is an order-preserving collection of manifests keyed by well key.
// The insertion order is the loader's discovery order and determines flat
// index order, so it must survive intact; a plain map would not do.
type Wells struct {
	keys      []string
	manifests map[string]*Manifest
}

func NewWells() *Wells {
	return &Wells{manifests: make(map[string]*Manifest)}
}

// Add appends a manifest under the given key, erroring on a duplicate key.
func (w *Wells) Add(key string, m *Manifest) error {
	if _, ok := w.manifests[key]; ok {
		return ErrDuplicateWell
	}

	w.keys = append(w.keys, key)
	w.manifests[key] = m

	return nil
}

// Get returns the manifest loaded under key.
func (w *Wells) Get(key string) (*Manifest, bool) {
	m, ok := w.manifests[key]

	return m, ok
}

// Keys returns the well keys in insertion order. The returned slice is
// shared; callers must not modify it.
func (w *Wells) Keys() []string {
	return w.keys
}

func (w *Wells) Len() int {
	return len(w.keys)
}
