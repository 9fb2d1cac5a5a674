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

// Package server exposes the manifest index over a REST API.
//
// The active index is an immutable snapshot guarded by a single RWMutex;
// handlers only ever read it, and a reload builds a complete replacement
// index before swapping it in, so requests observe either the whole old
// snapshot or the whole new one.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inconshreveable/log15"
	"github.com/subsurface-tools/volveq/query"
	"github.com/subsurface-tools/volveq/watch"
)

type Error string

func (e Error) Error() string { return string(e) }

const ErrNotLoaded = Error("manifests not loaded")

// REST API endpoints.
const (
	EndPointHealth    = "/health"
	EndPointREST      = "/rest/v1"
	EndPointWells     = EndPointREST + "/wells"
	EndPointSummary   = EndPointREST + "/summary"
	EndPointSearch    = EndPointREST + "/search"
	EndPointSearchCSV = EndPointREST + "/search.csv"
)

const stopTimeout = 10 * time.Second

// Server serves well manifest queries over HTTP.
type Server struct {
	logger log15.Logger
	router *gin.Engine
	srv    *http.Server

	mu            sync.RWMutex
	index         *query.Index
	sourceDir     string
	dataTimeStamp time.Time
	watcher       *watch.Watcher
}

// New creates a Server with all routes registered. Call LoadWells() before
// Start(); until then every data endpoint reports ErrNotLoaded.
func New(logger log15.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		logger: logger,
		router: gin.New(),
	}

	s.router.Use(gin.RecoveryWithWriter(nil))

	s.addRoutes()

	return s
}

func (s *Server) addRoutes() {
	s.router.GET(EndPointHealth, s.getHealth)
	s.router.GET(EndPointWells, s.getWells)
	s.router.GET(EndPointSummary, s.getSummaries)
	s.router.GET(EndPointSearch, s.getSearch)
	s.router.GET(EndPointSearchCSV, s.getSearchCSV)

	well := s.router.Group(EndPointWells + "/:key")
	well.GET("/manifest", s.getManifest)
	well.GET("/summary", s.getSummary)
	well.GET("/buckets", s.getBuckets)
	well.GET("/buckets/:bucket", s.getBucketEntries)
	well.GET("/foreign-references", s.getForeignRefs)
	well.GET("/search", s.getWellSearch)
	well.GET("/search.csv", s.getWellSearchCSV)
}

// Router returns the server's router, for tests to issue requests against.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start listens on the given address and serves until Stop() is called.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: stopTimeout,
	}

	s.srv = srv

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Stop gracefully shuts the server down and stops any reload watcher.
func (s *Server) Stop() {
	s.stopWatcher()

	if s.srv == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("server shutdown failed", "err", err)
	}
}

// withIndex runs cb with the active index snapshot under the read lock,
// responding with an error if no load has succeeded yet.
func (s *Server) withIndex(c *gin.Context, cb func(idx *query.Index)) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index == nil {
		c.AbortWithError(http.StatusInternalServerError, ErrNotLoaded) //nolint:errcheck

		return
	}

	cb(s.index)
}

// abortWithQueryError maps index errors to status codes: unknown well or
// bucket is the caller's 404, anything else is ours.
func abortWithQueryError(c *gin.Context, err error) {
	code := http.StatusInternalServerError

	if errors.Is(err, query.ErrUnknownWell) || errors.Is(err, query.ErrUnknownBucket) {
		code = http.StatusNotFound
	}

	c.AbortWithError(code, err) //nolint:errcheck
}
