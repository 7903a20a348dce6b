// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package itemserver

import (
	"context"

	"github.com/treeline-io/go-arbor/arbor"
)

// FinderFunc is a named, server-defined query over a collection.
// loc is the ancestor chain the request was scoped by, which may be
// any root-aligned prefix of the type's hierarchy.
type FinderFunc func(ctx context.Context, store arbor.Store, loc arbor.LocKeyArray, fp arbor.FinderParams) ([]arbor.Item, error)

// ActionFunc is a named, server-defined operation on a single item.
// body is the decoded request body.
type ActionFunc func(ctx context.Context, store arbor.Store, key arbor.Key, body arbor.DataDict) (*arbor.Item, error)

// CollectionActionFunc is a named, server-defined operation on a
// collection.
type CollectionActionFunc func(ctx context.Context, store arbor.Store, loc arbor.LocKeyArray, body arbor.DataDict) ([]arbor.Item, error)

// registryKey identifies one registered finder or action.
type registryKey struct {
	kt   arbor.TypeName
	name string
}

// Option adjusts a router under construction.
type Option func(*itemAPI)

// WithFinder registers a finder for one item type.  Clients invoke
// it with the "finder" query parameter on a collection GET.
func WithFinder(kt arbor.TypeName, name string, f FinderFunc) Option {
	return func(api *itemAPI) {
		api.finders[registryKey{kt: kt, name: name}] = f
	}
}

// WithAction registers an item action for one item type.  Clients
// invoke it by POSTing to the item path plus the action name.
func WithAction(kt arbor.TypeName, name string, f ActionFunc) Option {
	return func(api *itemAPI) {
		api.actions[registryKey{kt: kt, name: name}] = f
	}
}

// WithCollectionAction registers a collection action for one item
// type.  Clients invoke it by POSTing to the collection path plus
// the action name.
func WithCollectionAction(kt arbor.TypeName, name string, f CollectionActionFunc) Option {
	return func(api *itemAPI) {
		api.collectionActions[registryKey{kt: kt, name: name}] = f
	}
}
