// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package itemserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/treeline-io/go-arbor/arbor"
	"github.com/treeline-io/go-arbor/itemdata"
	"github.com/treeline-io/go-arbor/keypath"
)

// NewRouter creates a new HTTP handler that serves store under the
// URL path root, with one family of routes per hierarchy definition.
// For more control over this setup, create a mux.Router and call
// PopulateRouter instead.
func NewRouter(store arbor.Store, defs []arbor.Definition, opts ...Option) (http.Handler, error) {
	r := mux.NewRouter()
	err := PopulateRouter(r, store, defs, opts...)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// PopulateRouter adds item routes to an existing
// github.com/gorilla/mux router object.  This can be used, for
// instance, to place the item interface under a subpath:
//
//	r := mux.NewRouter()
//	s := r.PathPrefix("/arbor").Subrouter()
//	store := memory.New(defs)
//	itemserver.PopulateRouter(s, store, defs)
func PopulateRouter(r *mux.Router, store arbor.Store, defs []arbor.Definition, opts ...Option) error {
	api := &itemAPI{
		Store:             store,
		Router:            r,
		finders:           make(map[registryKey]FinderFunc),
		actions:           make(map[registryKey]ActionFunc),
		collectionActions: make(map[registryKey]CollectionActionFunc),
	}
	for _, opt := range opts {
		opt(api)
	}
	return api.PopulateRouter(r, defs)
}

// itemAPI holds the persistent state for the item REST API.
type itemAPI struct {
	Store             arbor.Store
	Router            *mux.Router
	finders           map[registryKey]FinderFunc
	actions           map[registryKey]ActionFunc
	collectionActions map[registryKey]CollectionActionFunc
}

// itemResource serves one item type at one containment depth: one
// collection route, one item route, and their action routes.
type itemResource struct {
	api     *itemAPI
	builder *keypath.Builder
	depth   int
}

// locVar names the route variable for the ancestor identifier at one
// containment level.
func locVar(i int) string {
	return fmt.Sprintf("loc%d", i)
}

// prefix renders the route path of this resource's collection:
// alternating ancestor segments and identifier variables down to the
// resource's depth, then the leaf segment.
func (res *itemResource) prefix() string {
	names := res.builder.PathNames()
	parts := make([]string, 0, 2*res.depth+1)
	for i := 0; i < res.depth; i++ {
		parts = append(parts, names[i], "{"+locVar(i)+"}")
	}
	parts = append(parts, names[len(names)-1])
	return "/" + strings.Join(parts, "/")
}

// PopulateRouter adds all item URL paths to a router.
//
// Collection and item routes for every definition are registered
// before any action route.  mux matches routes in registration
// order, so POST to a path whose final segment happens to equal a
// child type's collection segment creates a child item rather than
// invoking an action of that name; action names that collide with
// collection segments are unreachable.
func (api *itemAPI) PopulateRouter(r *mux.Router, defs []arbor.Definition) error {
	resources := make([]*itemResource, 0, len(defs))
	for _, def := range defs {
		builder, err := keypath.NewFromDefinition(def)
		if err != nil {
			return err
		}
		for depth := 0; depth <= builder.Depth(); depth++ {
			resources = append(resources, &itemResource{
				api:     api,
				builder: builder,
				depth:   depth,
			})
		}
	}

	for _, res := range resources {
		collection := res.prefix()
		r.Path(collection).Handler(&resourceHandler{
			Representation: arbor.DataDict{},
			Context:        res.Context,
			Get:            res.CollectionGet,
			Post:           res.CollectionPost,
		})
		r.Path(collection + "/{pk}").
			Methods("GET", "HEAD", "PUT", "DELETE").
			Handler(&resourceHandler{
				Representation: arbor.DataDict{},
				Context:        res.Context,
				Get:            res.ItemGet,
				Put:            res.ItemPut,
				Delete:         res.ItemDelete,
			})
	}

	for _, res := range resources {
		collection := res.prefix()
		r.Path(collection + "/{action}").
			Methods("POST").
			Handler(&resourceHandler{
				Representation: arbor.DataDict{},
				Context:        res.Context,
				Post:           res.CollectionActionPost,
			})
		r.Path(collection + "/{pk}/{action}").
			Methods("POST").
			Handler(&resourceHandler{
				Representation: arbor.DataDict{},
				Context:        res.Context,
				Post:           res.ItemActionPost,
			})
	}

	return nil
}

// mapError adjusts store errors to carry the right HTTP status
// across the wire.  Lookup failures become 404s; location mistakes
// are the caller's fault and become 400s.
func mapError(err error) error {
	switch et := err.(type) {
	case arbor.ErrNoSuchItem:
		return itemdata.ErrNotFound{Err: et}
	case arbor.ErrNoSuchFinder:
		return itemdata.ErrNotFound{Err: et}
	case arbor.ErrNoSuchAction:
		return itemdata.ErrNotFound{Err: et}
	case arbor.ErrMissingLocation:
		return itemdata.ErrBadRequest{Err: et}
	case keypath.OrderingError:
		return itemdata.ErrBadRequest{Err: et}
	}
	if err == arbor.ErrGone {
		return itemdata.ErrNotFound{Err: err}
	}
	return err
}
