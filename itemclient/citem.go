// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package itemclient

import (
	"context"

	"github.com/treeline-io/go-arbor/arbor"
	"github.com/treeline-io/go-arbor/httpapi"
)

// CItem is the client for a contained item type.  Its pathNames
// carry the full ancestor chain, so its keys are ComKeys scoped by
// ancestor locations.  It holds a PItem built with exactly that
// configuration and forwards every operation to it verbatim; it adds
// no behavior of its own.
type CItem struct {
	p *PItem
}

// NewCItem creates a client for the contained item type kt.
// pathNames lists the collection segments of every ancestor level
// followed by the type's own segment, root first.
func NewCItem(rq httpapi.Requestor, kt arbor.TypeName, pathNames []string, defaults ...httpapi.RequestOption) (*CItem, error) {
	p, err := NewPItem(rq, kt, pathNames, defaults...)
	if err != nil {
		return nil, err
	}
	return &CItem{p: p}, nil
}

// NewCItemFromDefinition creates a contained-item client from a
// hierarchy definition.
func NewCItemFromDefinition(rq httpapi.Requestor, def arbor.Definition, defaults ...httpapi.RequestOption) (*CItem, error) {
	p, err := NewPItemFromDefinition(rq, def, defaults...)
	if err != nil {
		return nil, err
	}
	return &CItem{p: p}, nil
}

// KeyType returns the item type this client serves.
func (c *CItem) KeyType() arbor.TypeName { return c.p.KeyType() }

// PathNames returns a copy of the client's collection path segments.
func (c *CItem) PathNames() []string { return c.p.PathNames() }

// Get retrieves a single item by key.
func (c *CItem) Get(ctx context.Context, key arbor.Key, opts ...httpapi.RequestOption) (*arbor.Item, error) {
	return c.p.Get(ctx, key, opts...)
}

// All retrieves the items of the collection scoped by loc.
func (c *CItem) All(ctx context.Context, q arbor.ItemQuery, loc arbor.LocKeyArray, opts ...httpapi.RequestOption) ([]arbor.Item, error) {
	return c.p.All(ctx, q, loc, opts...)
}

// One retrieves the first item of the collection scoped by loc, or
// nil if the collection is empty.
func (c *CItem) One(ctx context.Context, q arbor.ItemQuery, loc arbor.LocKeyArray, opts ...httpapi.RequestOption) (*arbor.Item, error) {
	return c.p.One(ctx, q, loc, opts...)
}

// Action invokes the named action on a single item.
func (c *CItem) Action(ctx context.Context, key arbor.Key, action string, body interface{}, opts ...httpapi.RequestOption) (*arbor.Item, error) {
	return c.p.Action(ctx, key, action, body, opts...)
}

// AllAction invokes the named action on the collection scoped by
// loc.
func (c *CItem) AllAction(ctx context.Context, action string, body interface{}, loc arbor.LocKeyArray, opts ...httpapi.RequestOption) ([]arbor.Item, error) {
	return c.p.AllAction(ctx, action, body, loc, opts...)
}

// Create stores a new item in the collection scoped by loc and
// returns it.
func (c *CItem) Create(ctx context.Context, data arbor.DataDict, loc arbor.LocKeyArray, opts ...httpapi.RequestOption) (*arbor.Item, error) {
	return c.p.Create(ctx, data, loc, opts...)
}

// Update replaces an item's data and returns the updated item.
func (c *CItem) Update(ctx context.Context, key arbor.Key, data arbor.DataDict, opts ...httpapi.RequestOption) (*arbor.Item, error) {
	return c.p.Update(ctx, key, data, opts...)
}

// Remove deletes an item, reporting whether it deleted anything.
func (c *CItem) Remove(ctx context.Context, key arbor.Key, opts ...httpapi.RequestOption) (bool, error) {
	return c.p.Remove(ctx, key, opts...)
}

// Find runs the named server-side finder over the collection scoped
// by loc.
func (c *CItem) Find(ctx context.Context, finder string, fp arbor.FinderParams, loc arbor.LocKeyArray, opts ...httpapi.RequestOption) ([]arbor.Item, error) {
	return c.p.Find(ctx, finder, fp, loc, opts...)
}
