// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package itemserver

import (
	"github.com/treeline-io/go-arbor/arbor"
	"github.com/treeline-io/go-arbor/itemdata"
)

// decodeDict unwraps a decoded request body.  A missing body is a
// nil dictionary, not an error; actions are allowed to POST nothing.
func decodeDict(in interface{}) (arbor.DataDict, error) {
	if in == nil {
		return nil, nil
	}
	data, valid := in.(arbor.DataDict)
	if !valid {
		return nil, errUnmarshal
	}
	return data, nil
}

// CollectionGet lists the items of this resource's collection, or
// runs a registered finder if the "finder" query parameter is
// present.
func (res *itemResource) CollectionGet(ctx *reqContext) (interface{}, error) {
	if finder := ctx.QueryParams.Get("finder"); finder != "" {
		return res.runFinder(ctx, finder)
	}
	q, err := ctx.ItemQuery()
	if err != nil {
		return nil, err
	}
	items, err := res.api.Store.List(ctx.req.Context(), res.builder.KeyType(), ctx.Loc, q)
	if err != nil {
		return nil, mapError(err)
	}
	return itemdata.ItemList{Items: items}, nil
}

func (res *itemResource) runFinder(ctx *reqContext, finder string) (interface{}, error) {
	kt := res.builder.KeyType()
	f, registered := res.api.finders[registryKey{kt: kt, name: finder}]
	if !registered {
		return nil, mapError(arbor.ErrNoSuchFinder{KeyType: kt, Name: finder})
	}
	fp, err := ctx.FinderParams()
	if err != nil {
		return nil, err
	}
	items, err := f(ctx.req.Context(), res.api.Store, ctx.Loc, fp)
	if err != nil {
		return nil, mapError(err)
	}
	return itemdata.ItemList{Items: items}, nil
}

// CollectionPost creates a new item in this resource's collection.
// Contained types need the route for their full ancestor chain; the
// store rejects shallower routes.
func (res *itemResource) CollectionPost(ctx *reqContext, in interface{}) (interface{}, error) {
	data, err := decodeDict(in)
	if err != nil {
		return nil, err
	}
	item, err := res.api.Store.Create(ctx.req.Context(), res.builder.KeyType(), ctx.Loc, data)
	if err != nil {
		return nil, mapError(err)
	}
	location, err := res.builder.Path(item.Key.Key())
	if err != nil {
		return nil, err
	}
	return responseCreated{Location: location, Body: *item}, nil
}

// ItemGet returns one item.
func (res *itemResource) ItemGet(ctx *reqContext) (interface{}, error) {
	item, err := res.api.Store.Get(ctx.req.Context(), ctx.Key)
	if err != nil {
		return nil, mapError(err)
	}
	return *item, nil
}

// ItemPut replaces one item's data.
func (res *itemResource) ItemPut(ctx *reqContext, in interface{}) (interface{}, error) {
	data, err := decodeDict(in)
	if err != nil {
		return nil, err
	}
	item, err := res.api.Store.Update(ctx.req.Context(), ctx.Key, data)
	if err != nil {
		return nil, mapError(err)
	}
	return *item, nil
}

// ItemDelete deletes one item, reporting whether there was anything
// to delete.
func (res *itemResource) ItemDelete(ctx *reqContext) (interface{}, error) {
	deleted, err := res.api.Store.Delete(ctx.req.Context(), ctx.Key)
	if err != nil {
		return nil, mapError(err)
	}
	return itemdata.Deleted{Deleted: deleted}, nil
}

// ItemActionPost dispatches a registered item action.
func (res *itemResource) ItemActionPost(ctx *reqContext, in interface{}) (interface{}, error) {
	body, err := decodeDict(in)
	if err != nil {
		return nil, err
	}
	kt := res.builder.KeyType()
	f, registered := res.api.actions[registryKey{kt: kt, name: ctx.Action}]
	if !registered {
		return nil, mapError(arbor.ErrNoSuchAction{KeyType: kt, Name: ctx.Action})
	}
	item, err := f(ctx.req.Context(), res.api.Store, ctx.Key, body)
	if err != nil {
		return nil, mapError(err)
	}
	return *item, nil
}

// CollectionActionPost dispatches a registered collection action.
func (res *itemResource) CollectionActionPost(ctx *reqContext, in interface{}) (interface{}, error) {
	body, err := decodeDict(in)
	if err != nil {
		return nil, err
	}
	kt := res.builder.KeyType()
	f, registered := res.api.collectionActions[registryKey{kt: kt, name: ctx.Action}]
	if !registered {
		return nil, mapError(arbor.ErrNoSuchAction{KeyType: kt, Name: ctx.Action})
	}
	items, err := f(ctx.req.Context(), res.api.Store, ctx.Loc, body)
	if err != nil {
		return nil, mapError(err)
	}
	return itemdata.ItemList{Items: items}, nil
}
