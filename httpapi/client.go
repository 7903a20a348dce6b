// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package httpapi

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/jtacoma/uritemplates"
	"github.com/ugorji/go/codec"

	"github.com/treeline-io/go-arbor/itemdata"
)

// Client is the standard Requestor implementation.  It resolves
// paths against a base URL, carries bodies as vendor-typed JSON, and
// translates failing responses back into the errors the server
// raised.
type Client struct {
	base       *url.URL
	httpClient *http.Client
}

// New creates a Client that sends requests to the service rooted at
// baseURL, using http.DefaultClient.
func New(baseURL string) (*Client, error) {
	return NewWithHTTPClient(baseURL, http.DefaultClient)
}

// NewWithHTTPClient creates a Client with an explicit http.Client,
// for callers that need their own transport, timeout, or TLS setup.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{base: base, httpClient: httpClient}, nil
}

// Get issues a GET request against path and decodes the response
// into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}, opts ...RequestOption) error {
	return c.do(ctx, "GET", path, nil, out, opts)
}

// Post issues a POST request against path, sending in as the request
// body, and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, in, out interface{}, opts ...RequestOption) error {
	return c.do(ctx, "POST", path, in, out, opts)
}

// Put issues a PUT request against path, sending in as the request
// body, and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, in, out interface{}, opts ...RequestOption) error {
	return c.do(ctx, "PUT", path, in, out, opts)
}

// Delete issues a DELETE request against path and decodes the
// response into out.
func (c *Client) Delete(ctx context.Context, path string, out interface{}, opts ...RequestOption) error {
	return c.do(ctx, "DELETE", path, nil, out, opts)
}

// expand resolves a path against the client's base URL and renders
// query parameters, if any, through an RFC 6570 form-style template.
func (c *Client) expand(path string, params map[string]string) (*url.URL, error) {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	if len(params) > 0 {
		tmpl, err := uritemplates.Parse("{?q*}")
		if err != nil {
			return nil, err
		}
		q := make(map[string]interface{}, len(params))
		for key, value := range params {
			q[key] = value
		}
		expanded, err := tmpl.Expand(map[string]interface{}{"q": q})
		if err != nil {
			return nil, err
		}
		u.RawQuery = strings.TrimPrefix(expanded, "?")
	}
	return &u, nil
}

// do performs one HTTP action.  If in is non-nil, the request data
// is serialized and sent as the request body.  If out is non-nil,
// the response data (if any) is deserialized into this object, which
// must be of pointer type.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}, opts []RequestOption) (err error) {
	options := NewRequest(opts)
	u, err := c.expand(path, options.Params)
	if err != nil {
		return err
	}

	json := &codec.JsonHandle{}

	// Set up the body as serialized JSON, if there is one
	var body io.Reader
	if in != nil {
		reader, writer := io.Pipe()
		encoder := codec.NewEncoder(writer, json)
		finished := make(chan error)
		go func() {
			err := encoder.Encode(in)
			err = firstError(err, writer.Close())
			finished <- err
		}()
		defer func() {
			err = firstError(err, <-finished)
		}()
		body = reader
	}

	// Create the request and set headers
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", itemdata.V1JSONMediaType)
	}
	if out != nil {
		req.Header.Set("Accept", itemdata.V1JSONMediaType)
	}
	for key, values := range options.Header {
		req.Header[key] = values
	}

	// Actually do the request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	// If the response included a body, clean up afterwards
	if resp.Body != nil {
		defer func() {
			err = firstError(err, resp.Body.Close())
		}()
	}

	// Check the response code
	if err = checkHTTPStatus(resp); err != nil {
		return err
	}

	// If there is both a body and a requested output, decode it
	if resp.Body != nil && out != nil {
		contentType := resp.Header.Get("Content-Type")
		err = itemdata.Decode(contentType, resp.Body, out)
	}

	return err // may be nil
}

// ErrorHTTP is a catch-all error for non-successes returned from the
// REST endpoint.
type ErrorHTTP struct {
	// Response holds a pointer to the failing HTTP response.
	Response *http.Response

	// Body holds the contents of the message body, presumed to be
	// text.
	Body string
}

func (e ErrorHTTP) Error() string {
	return e.Response.Status
}

// checkHTTPStatus examines an HTTP response and returns an error if
// it is not successful.
func checkHTTPStatus(resp *http.Response) error {
	if len(resp.Status) > 0 && resp.Status[0] == '2' {
		return nil
	}

	// Always collect the entire body; we will need it as a fallback
	// and can only parse it once.
	var body []byte
	var err error
	if resp.Body != nil {
		body, err = ioutil.ReadAll(resp.Body)
		if err != nil {
			return err
		}
	}

	// Take a shot at decoding it as a better error
	var errResp itemdata.ErrorResponse
	contentType := resp.Header.Get("Content-Type")
	err2 := itemdata.Decode(contentType, bytes.NewReader(body), &errResp)
	if err2 == nil {
		// Given that we decoded that successfully, return the
		// server-provided error
		return errResp.ToError()
	}

	return ErrorHTTP{Response: resp, Body: string(body)}
}

func firstError(e1, e2 error) error {
	if e1 != nil {
		return e1
	}
	return e2
}
