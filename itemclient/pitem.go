// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package itemclient

import (
	"context"
	"strconv"

	"github.com/treeline-io/go-arbor/arbor"
	"github.com/treeline-io/go-arbor/httpapi"
	"github.com/treeline-io/go-arbor/itemdata"
	"github.com/treeline-io/go-arbor/keypath"
)

// PItem is the client for one item type.  Its configuration is
// immutable after construction and it is safe for concurrent use.
type PItem struct {
	rq       httpapi.Requestor
	builder  *keypath.Builder
	defaults []httpapi.RequestOption
}

// NewPItem creates a client for the item type kt, whose collection
// path segments are pathNames in root-first order.  defaults are
// request options applied to every request this client makes, before
// any per-call options; a typical use is a fixed auth header or
// tenant query parameter.
func NewPItem(rq httpapi.Requestor, kt arbor.TypeName, pathNames []string, defaults ...httpapi.RequestOption) (*PItem, error) {
	builder, err := keypath.New(kt, pathNames)
	if err != nil {
		return nil, err
	}
	return &PItem{rq: rq, builder: builder, defaults: defaults}, nil
}

// NewPItemFromDefinition creates a client from a hierarchy
// definition.
func NewPItemFromDefinition(rq httpapi.Requestor, def arbor.Definition, defaults ...httpapi.RequestOption) (*PItem, error) {
	builder, err := keypath.NewFromDefinition(def)
	if err != nil {
		return nil, err
	}
	return &PItem{rq: rq, builder: builder, defaults: defaults}, nil
}

// KeyType returns the item type this client serves.
func (p *PItem) KeyType() arbor.TypeName { return p.builder.KeyType() }

// PathNames returns a copy of the client's collection path segments.
func (p *PItem) PathNames() []string { return p.builder.PathNames() }

// options merges the client's default request options with extra
// option sets, keeping the defaults first so later options win.
func (p *PItem) options(extra ...[]httpapi.RequestOption) []httpapi.RequestOption {
	merged := append([]httpapi.RequestOption(nil), p.defaults...)
	for _, opts := range extra {
		merged = append(merged, opts...)
	}
	return merged
}

// queryOptions renders an item query as request options.
func queryOptions(q arbor.ItemQuery) []httpapi.RequestOption {
	var opts []httpapi.RequestOption
	if q.Limit > 0 {
		opts = append(opts, httpapi.WithParam("limit", strconv.Itoa(q.Limit)))
	}
	if q.Offset > 0 {
		opts = append(opts, httpapi.WithParam("offset", strconv.Itoa(q.Offset)))
	}
	return opts
}

// Get retrieves a single item by key.
func (p *PItem) Get(ctx context.Context, key arbor.Key, opts ...httpapi.RequestOption) (*arbor.Item, error) {
	path, err := p.builder.Path(key)
	if err != nil {
		return nil, err
	}
	var item arbor.Item
	err = p.rq.Get(ctx, path, &item, p.options(opts)...)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// All retrieves the items of the collection scoped by loc, which may
// be any root-aligned prefix of the type's ancestor chain.  The
// query's limit and offset, where set, become query parameters.
func (p *PItem) All(ctx context.Context, q arbor.ItemQuery, loc arbor.LocKeyArray, opts ...httpapi.RequestOption) ([]arbor.Item, error) {
	path, err := p.builder.Path(loc)
	if err != nil {
		return nil, err
	}
	var list itemdata.ItemList
	err = p.rq.Get(ctx, path, &list, p.options(queryOptions(q), opts)...)
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}

// One retrieves the first item of the collection scoped by loc.  It
// issues the same request as All(); if the collection is empty it
// returns nil with no error.
func (p *PItem) One(ctx context.Context, q arbor.ItemQuery, loc arbor.LocKeyArray, opts ...httpapi.RequestOption) (*arbor.Item, error) {
	items, err := p.All(ctx, q, loc, opts...)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// Action invokes the named action on a single item, sending body as
// the request body, and returns the item's post-action state.
func (p *PItem) Action(ctx context.Context, key arbor.Key, action string, body interface{}, opts ...httpapi.RequestOption) (*arbor.Item, error) {
	path, err := p.builder.Path(key)
	if err != nil {
		return nil, err
	}
	var item arbor.Item
	err = p.rq.Post(ctx, path+"/"+action, body, &item, p.options(opts)...)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// AllAction invokes the named action on the collection scoped by
// loc, sending body as the request body, and returns the affected
// items.
func (p *PItem) AllAction(ctx context.Context, action string, body interface{}, loc arbor.LocKeyArray, opts ...httpapi.RequestOption) ([]arbor.Item, error) {
	path, err := p.builder.Path(loc)
	if err != nil {
		return nil, err
	}
	var list itemdata.ItemList
	err = p.rq.Post(ctx, path+"/"+action, body, &list, p.options(opts)...)
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}

// Create stores a new item in the collection scoped by loc and
// returns it, with its server-assigned key and events.  Contained
// types require the full ancestor chain.
func (p *PItem) Create(ctx context.Context, data arbor.DataDict, loc arbor.LocKeyArray, opts ...httpapi.RequestOption) (*arbor.Item, error) {
	path, err := p.builder.Path(loc)
	if err != nil {
		return nil, err
	}
	var item arbor.Item
	err = p.rq.Post(ctx, path, data, &item, p.options(opts)...)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update replaces an item's data and returns the updated item.
func (p *PItem) Update(ctx context.Context, key arbor.Key, data arbor.DataDict, opts ...httpapi.RequestOption) (*arbor.Item, error) {
	path, err := p.builder.Path(key)
	if err != nil {
		return nil, err
	}
	var item arbor.Item
	err = p.rq.Put(ctx, path, data, &item, p.options(opts)...)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Remove deletes an item.  It reports whether the request deleted
// the item; false with a nil error means there was nothing to
// delete.
func (p *PItem) Remove(ctx context.Context, key arbor.Key, opts ...httpapi.RequestOption) (bool, error) {
	path, err := p.builder.Path(key)
	if err != nil {
		return false, err
	}
	var deleted itemdata.Deleted
	err = p.rq.Delete(ctx, path, &deleted, p.options(opts)...)
	if err != nil {
		return false, err
	}
	return deleted.Deleted, nil
}

// Find runs the named server-side finder over the collection scoped
// by loc.  The finder's parameter map is serialized into the single
// "finderParams" query value; see itemdata.EncodeFinderParams for
// the encoding.
func (p *PItem) Find(ctx context.Context, finder string, fp arbor.FinderParams, loc arbor.LocKeyArray, opts ...httpapi.RequestOption) ([]arbor.Item, error) {
	path, err := p.builder.Path(loc)
	if err != nil {
		return nil, err
	}
	encoded, err := itemdata.EncodeFinderParams(fp)
	if err != nil {
		return nil, err
	}
	finderOpts := []httpapi.RequestOption{
		httpapi.WithParam("finder", finder),
		httpapi.WithParam("finderParams", encoded),
	}
	var list itemdata.ItemList
	err = p.rq.Get(ctx, path, &list, p.options(finderOpts, opts)...)
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}
