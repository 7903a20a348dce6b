// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

// Package itemdata defines the wire format shared between the
// itemserver and itemclient packages.  JSON encodings of these
// structures are passed across the wire as the
// application/vnd.treeline.arbor.v1+json MIME type.
//
// Paths
//
// Every collection and item has a predictable path, built from the
// hierarchy definitions by the keypath package.  A collection path
// alternates ancestor collection segments and ancestor identifiers
// and ends at the collection's own segment; an item path appends the
// item's identifier.  An order step contained in a phase contained
// in an order lives at
//
//	/orders/26513/orderPhases/25826/orderSteps/25825
//
// Ancestor segments may be omitted from the left only as a whole
// level, never reordered; shorter paths address wider collections of
// the same type where the server supports them.
//
// Encoding Considerations
//
// Item data dictionaries are conveyed as ordinary JSON objects.
// Timestamps, when they appear, are represented in JSON as RFC 3339
// strings, "2012-03-04T05:06:07.890Z".
//
// Finder parameters are the exception: their values are typed
// (numbers, booleans, timestamps, sequences) but they must cross the
// wire inside a single flat query value.  The whole parameter map is
// CBOR encoded, preserving value types, and the CBOR bytes are
// base64 encoded using the URL-safe alphabet with no padding.  The
// resulting string is carried in the "finderParams" query parameter
// and decoded server side; see EncodeFinderParams.
//
// HTTP Considerations
//
// Collection paths support HTTP GET, returning an ItemList, and HTTP
// POST, submitting a data dictionary and returning the created Item
// with a Location header.  Item paths support GET and PUT, returning
// an Item, and DELETE, returning a Deleted.  Action paths support
// only POST.  GET of a collection accepts "limit" and "offset" query
// parameters, or "finder" and "finderParams" to run a named finder.
//
// Errors
//
// Errors are returned as encodings of the ErrorResponse type with a
// failing HTTP status.  This can round-trip the well-known arbor
// package errors; other errors come back as plain strings.  If
// server code panics, this is captured and returned as an
// ErrorResponse with error code "panic".
package itemdata

import (
	"io"
	"mime"

	"github.com/ugorji/go/codec"

	"github.com/treeline-io/go-arbor/arbor"
)

// V1JSONMediaType is the preferred, most specific MIME type for the
// JSON representation of this content.
const V1JSONMediaType = "application/vnd.treeline.arbor.v1+json"

// JSONMediaType requests the most recent version of the JSON
// representation of this content.
const JSONMediaType = "application/vnd.treeline.arbor+json"

// ItemList is the representation of a collection: the response to
// collection GET requests, finders, and collection actions.
type ItemList struct {
	// Items contains the items, in the collection's order.  It may
	// be empty.
	Items []arbor.Item `json:"items"`
}

// Deleted is the response to an item DELETE request.
type Deleted struct {
	// Deleted reports whether the request deleted the item; false
	// means there was nothing to delete.
	Deleted bool `json:"deleted"`
}

// Decode decodes a wire object from a reader, such as an HTTP
// request or response body.  out must be a pointer type.
func Decode(contentType string, r io.Reader, out interface{}) error {
	if contentType == "" {
		// RFC 7231 section 3.1.1.5
		contentType = "application/octet-stream"
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return err
	}

	switch mediaType {
	case "text/json", "application/json", JSONMediaType, V1JSONMediaType:
		json := &codec.JsonHandle{}
		decoder := codec.NewDecoder(r, json)
		return decoder.Decode(out)
	}
	return ErrUnsupportedMediaType{Type: mediaType}
}
