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
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/subsurface-tools/volveq/query"
)

// HealthResponse reports load state for monitoring.
type HealthResponse struct {
	Status          string `json:"status"`
	WellsLoaded     int    `json:"wells_loaded"`
	ManifestsLoaded int    `json:"manifests_loaded"`
	SourceDir       string `json:"source_dir"`
}

// WellsResponse lists the sorted well keys.
type WellsResponse struct {
	Count int      `json:"count"`
	Wells []string `json:"wells"`
}

// BucketsResponse lists the sorted bucket names of one well.
type BucketsResponse struct {
	WellKey string   `json:"well_key"`
	Buckets []string `json:"buckets"`
}

// BucketFilesResponse is one page of a well bucket's entries.
type BucketFilesResponse struct {
	WellKey string        `json:"well_key"`
	Bucket  string        `json:"bucket"`
	Total   int           `json:"total"`
	Offset  int           `json:"offset"`
	Limit   int           `json:"limit"`
	Files   []query.Entry `json:"files"`
}

// ForeignRefsResponse is a well's raw foreign-reference list.
type ForeignRefsResponse struct {
	WellKey    string   `json:"well_key"`
	Count      int      `json:"count"`
	References []string `json:"references"`
}

func (s *Server) getHealth(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	if s.index != nil {
		count = s.index.NumWells()
	}

	c.IndentedJSON(http.StatusOK, HealthResponse{
		Status:          "ok",
		WellsLoaded:     count,
		ManifestsLoaded: count,
		SourceDir:       s.sourceDir,
	})
}

func (s *Server) getWells(c *gin.Context) {
	s.withIndex(c, func(idx *query.Index) {
		wells := idx.Wells()

		c.IndentedJSON(http.StatusOK, WellsResponse{
			Count: len(wells),
			Wells: wells,
		})
	})
}

func (s *Server) getManifest(c *gin.Context) {
	s.withIndex(c, func(idx *query.Index) {
		m, err := idx.Manifest(c.Param("key"))
		if err != nil {
			abortWithQueryError(c, err)

			return
		}

		c.IndentedJSON(http.StatusOK, m)
	})
}

func (s *Server) getSummary(c *gin.Context) {
	s.withIndex(c, func(idx *query.Index) {
		summary, err := idx.Summary(c.Param("key"))
		if err != nil {
			abortWithQueryError(c, err)

			return
		}

		c.IndentedJSON(http.StatusOK, summary)
	})
}

func (s *Server) getSummaries(c *gin.Context) {
	offset, limit, ok := getPagination(c)
	if !ok {
		return
	}

	s.withIndex(c, func(idx *query.Index) {
		c.IndentedJSON(http.StatusOK, idx.Summaries(offset, limit))
	})
}

func (s *Server) getBuckets(c *gin.Context) {
	s.withIndex(c, func(idx *query.Index) {
		wellKey := c.Param("key")

		buckets, err := idx.Buckets(wellKey)
		if err != nil {
			abortWithQueryError(c, err)

			return
		}

		c.IndentedJSON(http.StatusOK, BucketsResponse{
			WellKey: wellKey,
			Buckets: buckets,
		})
	})
}

func (s *Server) getBucketEntries(c *gin.Context) {
	offset, limit, ok := getPagination(c)
	if !ok {
		return
	}

	s.withIndex(c, func(idx *query.Index) {
		wellKey := c.Param("key")
		bucket := c.Param("bucket")

		page, err := idx.BucketEntries(wellKey, bucket, offset, limit)
		if err != nil {
			abortWithQueryError(c, err)

			return
		}

		c.IndentedJSON(http.StatusOK, BucketFilesResponse{
			WellKey: wellKey,
			Bucket:  bucket,
			Total:   page.Total,
			Offset:  offset,
			Limit:   limit,
			Files:   page.Entries,
		})
	})
}

func (s *Server) getForeignRefs(c *gin.Context) {
	s.withIndex(c, func(idx *query.Index) {
		wellKey := c.Param("key")

		refs, err := idx.ForeignRefs(wellKey)
		if err != nil {
			abortWithQueryError(c, err)

			return
		}

		c.IndentedJSON(http.StatusOK, ForeignRefsResponse{
			WellKey:    wellKey,
			Count:      len(refs),
			References: refs,
		})
	})
}
