// Regression tests for rest.go.
//
// The main coverage is the end-to-end path: the generic store tests
// run from itemclient against this server.  This only contains
// special-case bug tests.
//
// Copyright 2025-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package itemserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treeline-io/go-arbor/arbor"
	"github.com/treeline-io/go-arbor/arbor/arbortest"
	"github.com/treeline-io/go-arbor/memory"
)

type failResponseWriter struct {
	Headers    http.Header
	StatusCode int
}

func (rw *failResponseWriter) Header() http.Header {
	if rw.Headers == nil {
		rw.Headers = make(http.Header)
	}
	return rw.Headers
}

func (rw *failResponseWriter) Write([]byte) (int, error) {
	return 0, errors.New("foo")
}

func (rw *failResponseWriter) WriteHeader(code int) {
	rw.StatusCode = code
}

func testRouter(t *testing.T, opts ...Option) (arbor.Store, http.Handler) {
	t.Helper()
	defs := arbortest.Definitions()
	store, err := memory.New(defs)
	require.NoError(t, err)
	router, err := NewRouter(store, defs, opts...)
	require.NoError(t, err)
	return store, router
}

// TestDoubleFault checks that, if there is an error serializing a
// JSON response, it doesn't actually panic the process.
func TestDoubleFault(t *testing.T) {
	store, router := testRouter(t)
	item, err := store.Create(context.Background(), "order", nil,
		arbor.DataDict{"status": "open"})
	require.NoError(t, err)

	req := &http.Request{
		Method: http.MethodGet,
		URL: &url.URL{
			Path: "/orders/" + string(item.Key.PK),
		},
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{},
		Close:      true,
		Host:       "localhost",
	}
	resp := &failResponseWriter{}
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestHandlerPanic checks that a panicking action is converted to a
// 500 response instead of killing the connection.
func TestHandlerPanic(t *testing.T) {
	boom := func(ctx context.Context, store arbor.Store, key arbor.Key, body arbor.DataDict) (*arbor.Item, error) {
		panic("boom")
	}
	store, router := testRouter(t, WithAction("order", "boom", boom))
	item, err := store.Create(context.Background(), "order", nil, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost,
		"/orders/"+string(item.Key.PK)+"/boom", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "boom")
}

// TestBadMediaType checks that an unrecognized request body type
// produces a 415, not a decode failure.
func TestBadMediaType(t *testing.T) {
	_, router := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/orders",
		strings.NewReader("<order><status>open</status></order>"))
	req.Header.Set("Content-Type", "application/xml")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.Code)
}

// TestBadLimit checks that a malformed pagination parameter is the
// caller's fault.
func TestBadLimit(t *testing.T) {
	_, router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/orders?limit=banana", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

// TestCreatedLocation checks that creating an item reports where it
// now lives.
func TestCreatedLocation(t *testing.T) {
	_, router := testRouter(t)

	order := httptest.NewRequest(http.MethodPost, "/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, order)
	require.Equal(t, http.StatusCreated, resp.Code)
	location := resp.Header().Get("Location")
	assert.Regexp(t, `^/orders/[^/]+$`, location)

	phase := httptest.NewRequest(http.MethodPost, location+"/orderPhases", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, phase)
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Regexp(t, `^/orders/[^/]+/orderPhases/[^/]+$`,
		resp.Header().Get("Location"))
}
