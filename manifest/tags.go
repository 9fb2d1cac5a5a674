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
	"fmt"
	"strings"
)

// TagList is the canonical form of a node's tags: ordered, trimmed,
// non-empty strings.
//
// On the wire tags may be absent, a single delimited string
// ("DOCS|WELL_TECH", "docs,tech") or a list. Normalization happens here,
// once, at decode time.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var raw any

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*t = normalizeTags(raw)

	return nil
}

func normalizeTags(raw any) TagList {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return splitTags(v)
	case []any:
		tags := make(TagList, 0, len(v))

		for _, e := range v {
			if s := strings.TrimSpace(stringify(e)); s != "" {
				tags = append(tags, s)
			}
		}

		return tags
	default:
		if s := strings.TrimSpace(stringify(v)); s != "" {
			return TagList{s}
		}

		return nil
	}
}

// splitTags splits on "|" when present, otherwise on ",". A single token
// yields a one-element list. Original value order is kept; empty segments
// are dropped.
func splitTags(s string) TagList {
	sep := "|"
	if !strings.Contains(s, sep) {
		sep = ","
	}

	parts := strings.Split(s, sep)
	tags := make(TagList, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}

	return tags
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprint(v)
}
