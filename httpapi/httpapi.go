// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

// Package httpapi provides the HTTP transport that the typed item
// clients run over.
//
// The Requestor interface is the complete contract between the
// itemclient package and the network: four verbs, each taking an
// already-built path and optional request options, and returning a
// decoded response body.  Client is the standard implementation,
// speaking the vendor JSON media type against a base URL.  Anything
// that can satisfy Requestor (a test double, a client with custom
// auth) can stand in for it.
//
// Requestor implementations surface transport and server errors as
// they are; nothing in this layer retries, backs off, or
// reinterprets failures.  Cancellation and timeouts ride on the
// request context and the underlying http.Client.
package httpapi

import (
	"context"
	"net/http"
)

// Requestor is the transport capability consumed by the typed item
// clients.  out, where present, receives the decoded response body
// and must be a pointer type or nil; in, where present, is encoded
// as the request body.
type Requestor interface {
	// Get issues a GET request against path.
	Get(ctx context.Context, path string, out interface{}, opts ...RequestOption) error

	// Post issues a POST request against path, sending in as the
	// request body.
	Post(ctx context.Context, path string, in, out interface{}, opts ...RequestOption) error

	// Put issues a PUT request against path, sending in as the
	// request body.
	Put(ctx context.Context, path string, in, out interface{}, opts ...RequestOption) error

	// Delete issues a DELETE request against path.
	Delete(ctx context.Context, path string, out interface{}, opts ...RequestOption) error
}

// Request collects the adjustable parts of a single request: query
// parameters and extra headers.  Options are applied in order, after
// the implementation's own defaults, so a later option wins.
type Request struct {
	// Params are flat query parameters, one value per key.
	Params map[string]string

	// Header holds extra request headers.
	Header http.Header
}

// RequestOption adjusts one request.
type RequestOption func(*Request)

// WithParam adds a single query parameter to a request.
func WithParam(key, value string) RequestOption {
	return func(r *Request) {
		r.Params[key] = value
	}
}

// WithParams adds a set of query parameters to a request.
func WithParams(params map[string]string) RequestOption {
	return func(r *Request) {
		for key, value := range params {
			r.Params[key] = value
		}
	}
}

// WithHeader adds a request header.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		r.Header.Set(key, value)
	}
}

// NewRequest builds an empty Request and applies options to it.
func NewRequest(opts []RequestOption) Request {
	r := Request{
		Params: make(map[string]string),
		Header: make(http.Header),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}
