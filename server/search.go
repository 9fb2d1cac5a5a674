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
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/subsurface-tools/volveq/query"
)

// Pagination guardrails; requests outside these bounds are rejected before
// touching the index.
const (
	DefaultLimit = 100
	MaxLimit     = 5000
)

const (
	ErrNoQuery       = Error("missing query (q) parameter")
	ErrBadPagination = Error("bad pagination; offset must be >= 0 and 1 <= limit <= 5000")
	ErrBadDedupeKey  = Error("bad dedupe_key; must be path or filename")
	ErrBadFlag       = Error("bad boolean parameter")
)

// SearchFilters echoes the optional filters a search was run with.
type SearchFilters struct {
	WellKey string `json:"well_key,omitempty"`
	Bucket  string `json:"bucket,omitempty"`
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	Query   string        `json:"query"`
	Filters SearchFilters `json:"filters"`
	Total   int           `json:"total"`
	Offset  int           `json:"offset"`
	Limit   int           `json:"limit"`
	Results []query.Entry `json:"results"`
}

func (s *Server) getSearch(c *gin.Context) {
	s.search(c, false)
}

// getWellSearch is the well-scoped search; unlike the well_key filter on
// the global search, an unknown key here is a 404.
func (s *Server) getWellSearch(c *gin.Context) {
	s.search(c, true)
}

func (s *Server) getSearchCSV(c *gin.Context) {
	s.searchCSV(c, false)
}

func (s *Server) getWellSearchCSV(c *gin.Context) {
	s.searchCSV(c, true)
}

// scopedWellKey returns the well key a search is restricted to: the path
// parameter for well-scoped endpoints (checked against the index, unknown
// keys are a 404) or the optional well_key query filter otherwise.
func scopedWellKey(c *gin.Context, idx *query.Index, scoped bool) (string, bool) {
	if !scoped {
		return c.Query("well_key"), true
	}

	wellKey := c.Param("key")

	if _, err := idx.Manifest(wellKey); err != nil {
		abortWithQueryError(c, err)

		return "", false
	}

	return wellKey, true
}

func (s *Server) search(c *gin.Context, scoped bool) {
	offset, limit, ok := getPagination(c)
	if !ok {
		return
	}

	s.withIndex(c, func(idx *query.Index) {
		wellKey, ok := scopedWellKey(c, idx, scoped)
		if !ok {
			return
		}

		sq, ok := getSearchArgs(c, wellKey)
		if !ok {
			return
		}

		sq.Offset = offset
		sq.Limit = limit

		page := idx.Search(sq)

		c.IndentedJSON(http.StatusOK, SearchResponse{
			Query: sq.Query,
			Filters: SearchFilters{
				WellKey: sq.WellKey,
				Bucket:  sq.Bucket,
			},
			Total:   page.Total,
			Offset:  offset,
			Limit:   limit,
			Results: page.Entries,
		})
	})
}

// searchCSV writes the full filtered and deduped result set as CSV, with
// no pagination.
func (s *Server) searchCSV(c *gin.Context, scoped bool) {
	s.withIndex(c, func(idx *query.Index) {
		wellKey, ok := scopedWellKey(c, idx, scoped)
		if !ok {
			return
		}

		sq, ok := getSearchArgs(c, wellKey)
		if !ok {
			return
		}

		page := idx.Search(sq)

		c.Header("Content-Type", "text/csv")
		c.Status(http.StatusOK)

		w := csv.NewWriter(c.Writer)

		w.Write([]string{"well_key", "well_id", "bucket", "filename", "path", "tags"}) //nolint:errcheck

		for _, e := range page.Entries {
			w.Write([]string{e.WellKey, e.WellID, e.Bucket, e.Filename, e.Path, //nolint:errcheck
				strings.Join(e.Tags, "|")})
		}

		w.Flush()
	})
}

// getSearchArgs parses and validates the search parameters other than
// pagination, rejecting the request with a 400 on the first bad one.
func getSearchArgs(c *gin.Context, wellKey string) (query.Search, bool) {
	sq := query.Search{
		WellKey: wellKey,
		Bucket:  c.Query("bucket"),
	}

	sq.Query = strings.TrimSpace(c.Query("q"))
	if sq.Query == "" {
		c.AbortWithError(http.StatusBadRequest, ErrNoQuery) //nolint:errcheck

		return sq, false
	}

	var ok bool

	if sq.IncludeDirs, ok = getBoolParam(c, "include_dirs", false); !ok {
		return sq, false
	}

	if sq.Dedupe, ok = getBoolParam(c, "dedupe", true); !ok {
		return sq, false
	}

	sq.DedupeKey = query.DedupeKey(c.DefaultQuery("dedupe_key", string(query.DedupeByPath)))
	if !sq.DedupeKey.Valid() {
		c.AbortWithError(http.StatusBadRequest, ErrBadDedupeKey) //nolint:errcheck

		return sq, false
	}

	return sq, true
}

func getBoolParam(c *gin.Context, name string, defaultValue bool) (bool, bool) {
	str := c.Query(name)
	if str == "" {
		return defaultValue, true
	}

	val, err := strconv.ParseBool(str)
	if err != nil {
		c.AbortWithError(http.StatusBadRequest, ErrBadFlag) //nolint:errcheck

		return false, false
	}

	return val, true
}

// getPagination parses offset and limit, enforcing the guardrails.
func getPagination(c *gin.Context) (offset, limit int, ok bool) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.AbortWithError(http.StatusBadRequest, ErrBadPagination) //nolint:errcheck

		return 0, 0, false
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil || limit < 1 || limit > MaxLimit {
		c.AbortWithError(http.StatusBadRequest, ErrBadPagination) //nolint:errcheck

		return 0, 0, false
	}

	return offset, limit, true
}
