// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

// Package itemclient provides typed REST clients for item types in a
// containment hierarchy.
//
// A PItem serves one item type: it is configured with the type's
// name and its collection path segments, builds paths with the
// keypath package, and issues requests through an injected
// httpapi.Requestor.  A CItem serves a contained type; it is a PItem
// configured with the full ancestor chain, re-exporting the same
// operations unchanged.
//
// Clients hold no mutable state.  Each operation issues at most one
// request and either returns the decoded result or propagates the
// transport's error untouched; invalid ancestor chains fail with a
// keypath ordering error before any request is sent.
package itemclient

import (
	"context"
	"fmt"

	"github.com/treeline-io/go-arbor/arbor"
	"github.com/treeline-io/go-arbor/httpapi"
)

// Client is the operation set shared by primary and contained item
// clients.
type Client interface {
	// Get retrieves a single item by key.
	Get(ctx context.Context, key arbor.Key, opts ...httpapi.RequestOption) (*arbor.Item, error)

	// All retrieves the items of a collection.
	All(ctx context.Context, q arbor.ItemQuery, loc arbor.LocKeyArray, opts ...httpapi.RequestOption) ([]arbor.Item, error)

	// One retrieves the first item of a collection, or nil if the
	// collection is empty.
	One(ctx context.Context, q arbor.ItemQuery, loc arbor.LocKeyArray, opts ...httpapi.RequestOption) (*arbor.Item, error)

	// Action invokes a named action on a single item.
	Action(ctx context.Context, key arbor.Key, action string, body interface{}, opts ...httpapi.RequestOption) (*arbor.Item, error)

	// AllAction invokes a named action on a collection.
	AllAction(ctx context.Context, action string, body interface{}, loc arbor.LocKeyArray, opts ...httpapi.RequestOption) ([]arbor.Item, error)

	// Create stores a new item in a collection.
	Create(ctx context.Context, data arbor.DataDict, loc arbor.LocKeyArray, opts ...httpapi.RequestOption) (*arbor.Item, error)

	// Update replaces an item's data.
	Update(ctx context.Context, key arbor.Key, data arbor.DataDict, opts ...httpapi.RequestOption) (*arbor.Item, error)

	// Remove deletes an item, reporting whether it deleted
	// anything.
	Remove(ctx context.Context, key arbor.Key, opts ...httpapi.RequestOption) (bool, error)

	// Find runs a named server-side finder over a collection.
	Find(ctx context.Context, finder string, fp arbor.FinderParams, loc arbor.LocKeyArray, opts ...httpapi.RequestOption) ([]arbor.Item, error)
}

// ErrUnconfiguredType is returned from Store methods that are asked
// about an item type no client was configured for.
type ErrUnconfiguredType struct {
	KeyType arbor.TypeName
}

func (err ErrUnconfiguredType) Error() string {
	return fmt.Sprintf("No client configured for item type %v", err.KeyType)
}
