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

// Summary is the per-well aggregate view.
type Summary struct {
	WellKey               string         `json:"well_key"`
	WellID                string         `json:"well_id"`
	BucketCounts          map[string]int `json:"bucket_counts"`
	TotalFiles            int            `json:"total_files"`
	ForeignReferenceCount int            `json:"foreign_reference_count"`
}

// SummaryPage is a page of per-well summaries over the sorted well keys.
type SummaryPage struct {
	Total  int        `json:"total"`
	Offset int        `json:"offset"`
	Limit  int        `json:"limit"`
	Count  int        `json:"count"`
	Wells  []*Summary `json:"wells"`
}

// Summary computes the aggregate view for one well. An explicit
// bucket_counts mapping in the manifest takes precedence; otherwise counts
// are derived from the bucket node lists. Likewise a per-well foreign_ref
// list takes precedence over summing each node's foreign ref wells.
func (i *Index) Summary(wellKey string) (*Summary, error) {
	m, ok := i.wells.Get(wellKey)
	if !ok {
		return nil, ErrUnknownWell
	}

	counts := m.BucketCounts
	if counts == nil {
		counts = make(map[string]int, len(m.Buckets))

		for _, bucket := range m.Buckets {
			counts[bucket.Name] = len(bucket.Nodes)
		}
	}

	total := 0
	for _, c := range counts {
		total += c
	}

	foreign := len(m.ForeignRefs)
	if m.ForeignRefs == nil {
		for _, bucket := range m.Buckets {
			for _, node := range bucket.Nodes {
				foreign += len(node.ForeignRefWells)
			}
		}
	}

	return &Summary{
		WellKey:               wellKey,
		WellID:                m.ResolvedID(wellKey),
		BucketCounts:          counts,
		TotalFiles:            total,
		ForeignReferenceCount: foreign,
	}, nil
}

// Summaries returns the requested page of summaries over the sorted well
// keys. The page of keys is cut first and only those summaries are
// computed.
func (i *Index) Summaries(offset, limit int) *SummaryPage {
	pageKeys := pageOf(i.sortedKeys, offset, limit)
	summaries := make([]*Summary, len(pageKeys))

	for n, key := range pageKeys {
		summaries[n], _ = i.Summary(key)
	}

	return &SummaryPage{
		Total:  len(i.sortedKeys),
		Offset: offset,
		Limit:  limit,
		Count:  len(summaries),
		Wells:  summaries,
	}
}
