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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/inconshreveable/log15"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/subsurface-tools/volveq/internal/wellsdata"
	"github.com/subsurface-tools/volveq/manifest"
	"github.com/subsurface-tools/volveq/query"
)

func newTestServer() *Server {
	logger := log15.New()
	logger.SetHandler(log15.DiscardHandler())

	return New(logger)
}

func get(s *Server, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()

	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	return w
}

func getJSON(s *Server, target string, into any) int {
	w := get(s, target)

	if w.Code == http.StatusOK {
		So(json.Unmarshal(w.Body.Bytes(), into), ShouldBeNil)
	}

	return w.Code
}

func TestServerWells(t *testing.T) {
	Convey("Given a server", t, func() {
		s := newTestServer()

		Convey("Before a load, health answers but data endpoints do not", func() {
			var health HealthResponse

			So(getJSON(s, EndPointHealth, &health), ShouldEqual, http.StatusOK)
			So(health.Status, ShouldEqual, "ok")
			So(health.WellsLoaded, ShouldEqual, 0)

			So(get(s, EndPointWells).Code, ShouldEqual, http.StatusInternalServerError)
			So(get(s, EndPointSummary).Code, ShouldEqual, http.StatusInternalServerError)
			So(get(s, EndPointSearch+"?q=x").Code, ShouldEqual, http.StatusInternalServerError)
		})

		Convey("And loaded wells", func() {
			dir := wellsdata.CreateTestWells(t)
			So(s.LoadWells(dir), ShouldBeNil)

			Convey("Health reports the load", func() {
				var health HealthResponse

				So(getJSON(s, EndPointHealth, &health), ShouldEqual, http.StatusOK)
				So(health.WellsLoaded, ShouldEqual, 2)
				So(health.ManifestsLoaded, ShouldEqual, 2)
				So(health.SourceDir, ShouldEqual, dir)
			})

			Convey("The well list is sorted", func() {
				var wells WellsResponse

				So(getJSON(s, EndPointWells, &wells), ShouldEqual, http.StatusOK)
				So(wells.Count, ShouldEqual, 2)
				So(wells.Wells, ShouldResemble, []string{wellsdata.WellAKey, wellsdata.WellBKey})
			})

			Convey("A well's manifest is served raw, in source bucket order", func() {
				var m manifest.Manifest

				So(getJSON(s, EndPointWells+"/"+wellsdata.WellBKey+"/manifest", &m),
					ShouldEqual, http.StatusOK)
				So(m.WellID, ShouldEqual, "15/9-F-9A")
				So(m.Buckets.Names(), ShouldResemble, []string{"zdocs", "logs"})

				So(get(s, EndPointWells+"/nope/manifest").Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("Summaries are served per well and paged across wells", func() {
				var summary query.Summary

				So(getJSON(s, EndPointWells+"/"+wellsdata.WellAKey+"/summary", &summary),
					ShouldEqual, http.StatusOK)
				So(summary.TotalFiles, ShouldEqual, 5)
				So(summary.ForeignReferenceCount, ShouldEqual, 2)

				var page query.SummaryPage

				So(getJSON(s, EndPointSummary+"?offset=1&limit=1", &page), ShouldEqual, http.StatusOK)
				So(page.Total, ShouldEqual, 2)
				So(page.Count, ShouldEqual, 1)
				So(page.Wells[0].WellKey, ShouldEqual, wellsdata.WellBKey)

				So(get(s, EndPointSummary+"?limit=0").Code, ShouldEqual, http.StatusBadRequest)
				So(get(s, EndPointSummary+"?offset=-1").Code, ShouldEqual, http.StatusBadRequest)
				So(get(s, EndPointWells+"/nope/summary").Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("Bucket listings page and 404 correctly", func() {
				var buckets BucketsResponse

				So(getJSON(s, EndPointWells+"/"+wellsdata.WellBKey+"/buckets", &buckets),
					ShouldEqual, http.StatusOK)
				So(buckets.Buckets, ShouldResemble, []string{"logs", "zdocs"})

				var files BucketFilesResponse

				So(getJSON(s, EndPointWells+"/"+wellsdata.WellBKey+"/buckets/zdocs?offset=1&limit=1",
					&files), ShouldEqual, http.StatusOK)
				So(files.Total, ShouldEqual, 3)
				So(files.Files, ShouldHaveLength, 1)
				So(files.Files[0].Path, ShouldEqual, "docs/archive")

				So(get(s, EndPointWells+"/"+wellsdata.WellBKey+"/buckets/nope").Code,
					ShouldEqual, http.StatusNotFound)
				So(get(s, EndPointWells+"/nope/buckets").Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("Foreign references are served raw, duplicates included", func() {
				var refs ForeignRefsResponse

				So(getJSON(s, EndPointWells+"/"+wellsdata.WellAKey+"/foreign-references", &refs),
					ShouldEqual, http.StatusOK)
				So(refs.Count, ShouldEqual, 2)
				So(refs.References, ShouldResemble, []string{"15/9-F-9A", "15/9-F-9A"})
			})
		})
	})
}

func TestServerSearch(t *testing.T) {
	Convey("Given a server with loaded wells", t, func() {
		s := newTestServer()
		So(s.LoadWells(wellsdata.CreateTestWells(t)), ShouldBeNil)

		Convey("A search returns matches with its parameters echoed", func() {
			var resp SearchResponse

			So(getJSON(s, EndPointSearch+"?q=las", &resp), ShouldEqual, http.StatusOK)
			So(resp.Query, ShouldEqual, "las")
			So(resp.Total, ShouldEqual, 2)
			So(resp.Limit, ShouldEqual, DefaultLimit)
			So(resp.Results, ShouldHaveLength, 2)
		})

		Convey("Filters restrict the search; an unknown filter key just matches nothing", func() {
			var resp SearchResponse

			So(getJSON(s, EndPointSearch+"?q=las&well_key="+wellsdata.WellAKey, &resp),
				ShouldEqual, http.StatusOK)
			So(resp.Total, ShouldEqual, 1)
			So(resp.Filters.WellKey, ShouldEqual, wellsdata.WellAKey)

			So(getJSON(s, EndPointSearch+"?q=las&well_key=nope", &resp), ShouldEqual, http.StatusOK)
			So(resp.Total, ShouldEqual, 0)
		})

		Convey("The well-scoped search 404s on an unknown key instead", func() {
			var resp SearchResponse

			So(getJSON(s, EndPointWells+"/"+wellsdata.WellBKey+"/search?q=las", &resp),
				ShouldEqual, http.StatusOK)
			So(resp.Total, ShouldEqual, 1)
			So(resp.Results[0].Path, ShouldEqual, "logs/mud_log.las")

			So(get(s, EndPointWells+"/nope/search?q=las").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Dedupe is on by default and controllable", func() {
			var resp SearchResponse

			So(getJSON(s, EndPointSearch+"?q=report_final", &resp), ShouldEqual, http.StatusOK)
			So(resp.Total, ShouldEqual, 1)

			So(getJSON(s, EndPointSearch+"?q=report_final&dedupe=false", &resp),
				ShouldEqual, http.StatusOK)
			So(resp.Total, ShouldEqual, 2)
		})

		Convey("Bad parameters are rejected before touching the index", func() {
			So(get(s, EndPointSearch).Code, ShouldEqual, http.StatusBadRequest)
			So(get(s, EndPointSearch+"?q=+").Code, ShouldEqual, http.StatusBadRequest)
			So(get(s, EndPointSearch+"?q=x&offset=-1").Code, ShouldEqual, http.StatusBadRequest)
			So(get(s, EndPointSearch+"?q=x&limit=0").Code, ShouldEqual, http.StatusBadRequest)
			So(get(s, EndPointSearch+"?q=x&limit=5001").Code, ShouldEqual, http.StatusBadRequest)
			So(get(s, EndPointSearch+"?q=x&limit=nan").Code, ShouldEqual, http.StatusBadRequest)
			So(get(s, EndPointSearch+"?q=x&dedupe=maybe").Code, ShouldEqual, http.StatusBadRequest)
			So(get(s, EndPointSearch+"?q=x&include_dirs=2").Code, ShouldEqual, http.StatusBadRequest)
			So(get(s, EndPointSearch+"?q=x&dedupe_key=bucket").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("The CSV export streams every match unpaginated", func() {
			w := get(s, EndPointSearchCSV+"?q=report_final&dedupe=false")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "text/csv")

			lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
			So(lines, ShouldHaveLength, 3)
			So(lines[0], ShouldEqual, "well_key,well_id,bucket,filename,path,tags")
			So(lines[1], ShouldEqual,
				"15_9-F-9A,15/9-F-9A,zdocs,report_final.pdf,docs/report_final.pdf,DOCS|WELL_TECH")

			w = get(s, EndPointWells+"/"+wellsdata.WellAKey+"/search.csv?q=las")
			So(w.Code, ShouldEqual, http.StatusOK)

			lines = strings.Split(strings.TrimSpace(w.Body.String()), "\n")
			So(lines, ShouldHaveLength, 2)
			So(lines[1], ShouldContainSubstring, "gamma.las")

			So(get(s, EndPointSearchCSV).Code, ShouldEqual, http.StatusBadRequest)
			So(get(s, EndPointWells+"/nope/search.csv?q=las").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestServerReload(t *testing.T) {
	Convey("Given a server with loaded wells", t, func() {
		s := newTestServer()
		dir := wellsdata.CreateTestWells(t)
		So(s.LoadWells(dir), ShouldBeNil)

		Convey("A reload picks up new wells", func() {
			wellsdata.CreateWellDir(t, dir, "15_9-F-11", "manifest.json",
				`{"well_id": "15/9-F-11", "buckets": {"logs": [{"path": "l.las", "type": "file"}]}}`)

			s.reload(time.Now())

			var wells WellsResponse

			So(getJSON(s, EndPointWells, &wells), ShouldEqual, http.StatusOK)
			So(wells.Count, ShouldEqual, 3)
		})

		Convey("A failed reload keeps the previous snapshot", func() {
			wellsdata.CreateWellDir(t, dir, "broken", "manifest.json", `{"well_id": "x"`)

			s.reload(time.Now())

			var wells WellsResponse

			So(getJSON(s, EndPointWells, &wells), ShouldEqual, http.StatusOK)
			So(wells.Count, ShouldEqual, 2)
		})

		Convey("EnableReloading swaps the index when the directory mtime advances", func() {
			So(s.EnableReloading(10*time.Millisecond), ShouldBeNil)

			defer s.Stop()

			wellsdata.CreateWellDir(t, dir, "15_9-F-12", "manifest.json",
				`{"well_id": "15/9-F-12", "buckets": {}}`)

			future := time.Now().Add(time.Hour)
			So(os.Chtimes(dir, future, future), ShouldBeNil)

			waitFor := time.Now().Add(time.Second)

			var wells WellsResponse

			for time.Now().Before(waitFor) {
				So(getJSON(s, EndPointWells, &wells), ShouldEqual, http.StatusOK)

				if wells.Count == 3 {
					break
				}

				time.Sleep(10 * time.Millisecond)
			}

			So(wells.Count, ShouldEqual, 3)
		})
	})
}
