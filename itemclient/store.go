// Copyright 2025-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package itemclient

import (
	"context"

	"github.com/treeline-io/go-arbor/arbor"
	"github.com/treeline-io/go-arbor/httpapi"
)

// Store adapts typed item clients back to the arbor.Store interface,
// one client per hierarchy definition.  It is the client-side mirror
// of an itemserver: an arbor.Store whose storage happens to live on
// the far side of an HTTP API.
type Store struct {
	clients map[arbor.TypeName]Client
}

var _ arbor.Store = &Store{}

// NewStore creates a Store speaking through rq, with one item client
// per definition.  Root types get a PItem, contained types a CItem.
func NewStore(rq httpapi.Requestor, defs []arbor.Definition, defaults ...httpapi.RequestOption) (*Store, error) {
	clients := make(map[arbor.TypeName]Client, len(defs))
	for _, def := range defs {
		var (
			cl  Client
			err error
		)
		if len(def.PathNames) > 1 {
			cl, err = NewCItemFromDefinition(rq, def, defaults...)
		} else {
			cl, err = NewPItemFromDefinition(rq, def, defaults...)
		}
		if err != nil {
			return nil, err
		}
		clients[def.KeyType] = cl
	}
	return &Store{clients: clients}, nil
}

// Client returns the item client serving one type, for callers that
// need the full operation set (actions, finders).
func (s *Store) Client(kt arbor.TypeName) (Client, error) {
	cl, ok := s.clients[kt]
	if !ok {
		return nil, ErrUnconfiguredType{KeyType: kt}
	}
	return cl, nil
}

// Get retrieves a single item by key.
func (s *Store) Get(ctx context.Context, key arbor.Key) (*arbor.Item, error) {
	cl, err := s.Client(key.KeyType())
	if err != nil {
		return nil, err
	}
	return cl.Get(ctx, key)
}

// List retrieves the items of one type within a location.
func (s *Store) List(ctx context.Context, kt arbor.TypeName, loc arbor.LocKeyArray, q arbor.ItemQuery) ([]arbor.Item, error) {
	cl, err := s.Client(kt)
	if err != nil {
		return nil, err
	}
	return cl.All(ctx, q, loc)
}

// Create stores a new item of type kt at the given location.
func (s *Store) Create(ctx context.Context, kt arbor.TypeName, loc arbor.LocKeyArray, data arbor.DataDict) (*arbor.Item, error) {
	cl, err := s.Client(kt)
	if err != nil {
		return nil, err
	}
	return cl.Create(ctx, data, loc)
}

// Update replaces an existing item's data.
func (s *Store) Update(ctx context.Context, key arbor.Key, data arbor.DataDict) (*arbor.Item, error) {
	cl, err := s.Client(key.KeyType())
	if err != nil {
		return nil, err
	}
	return cl.Update(ctx, key, data)
}

// Delete removes an item.
func (s *Store) Delete(ctx context.Context, key arbor.Key) (bool, error) {
	cl, err := s.Client(key.KeyType())
	if err != nil {
		return false, err
	}
	return cl.Remove(ctx, key)
}
