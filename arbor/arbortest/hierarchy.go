// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package arbortest

import (
	"context"

	"github.com/treeline-io/go-arbor/arbor"
)

// TestContainedLifecycle creates a three-level hierarchy and
// addresses the leaf item through its composite key.
func (s *Suite) TestContainedLifecycle() {
	ctx := context.Background()

	order := s.createOrder(ctx, arbor.DataDict{"customer": "acme"})
	phase, err := s.Store.Create(ctx, "orderPhase", orderLoc(order.Key.PK),
		arbor.DataDict{"name": "assembly"})
	s.Require().NoError(err)
	s.Equal(orderLoc(order.Key.PK), phase.Key.Loc)

	step, err := s.Store.Create(ctx, "orderStep", phaseLoc(order.Key.PK, phase.Key.PK),
		arbor.DataDict{"name": "weld"})
	s.Require().NoError(err)

	key := step.Key.Key()
	s.IsType(arbor.ComKey{}, key)

	got, err := s.Store.Get(ctx, key)
	if s.NoError(err) {
		s.Equal(step.Key, got.Key)
		s.Equal("weld", got.Data["name"])
	}

	updated, err := s.Store.Update(ctx, key, arbor.DataDict{"name": "grind"})
	if s.NoError(err) {
		s.Equal("grind", updated.Data["name"])
	}

	deleted, err := s.Store.Delete(ctx, key)
	if s.NoError(err) {
		s.True(deleted)
	}
	_, err = s.Store.Get(ctx, key)
	s.IsType(arbor.ErrNoSuchItem{}, err)
}

// TestCreateMissingLocation checks that a contained type cannot be
// created without its full ancestor chain.
func (s *Suite) TestCreateMissingLocation() {
	ctx := context.Background()

	order := s.createOrder(ctx, nil)

	_, err := s.Store.Create(ctx, "orderStep", orderLoc(order.Key.PK), nil)
	s.IsType(arbor.ErrMissingLocation{}, err)

	_, err = s.Store.Create(ctx, "orderStep", nil, nil)
	s.IsType(arbor.ErrMissingLocation{}, err)
}

// TestGetWrongParent checks that a composite key naming the wrong
// ancestor finds nothing, even when the primary key exists.
func (s *Suite) TestGetWrongParent() {
	ctx := context.Background()

	order1 := s.createOrder(ctx, nil)
	order2 := s.createOrder(ctx, nil)
	phase, err := s.Store.Create(ctx, "orderPhase", orderLoc(order1.Key.PK), nil)
	s.Require().NoError(err)

	wrongKey := arbor.ComKey{
		KT:  "orderPhase",
		PK:  phase.Key.PK,
		Loc: orderLoc(order2.Key.PK),
	}
	_, err = s.Store.Get(ctx, wrongKey)
	s.IsType(arbor.ErrNoSuchItem{}, err)
}

// TestListScoping checks that listing with a root-aligned prefix
// selects only items under that prefix, and that shorter prefixes
// select wider scopes.
func (s *Suite) TestListScoping() {
	ctx := context.Background()

	order1 := s.createOrder(ctx, nil)
	order2 := s.createOrder(ctx, nil)

	phase1, err := s.Store.Create(ctx, "orderPhase", orderLoc(order1.Key.PK),
		arbor.DataDict{"order": "first"})
	s.Require().NoError(err)
	phase2, err := s.Store.Create(ctx, "orderPhase", orderLoc(order2.Key.PK),
		arbor.DataDict{"order": "second"})
	s.Require().NoError(err)

	under1, err := s.Store.List(ctx, "orderPhase", orderLoc(order1.Key.PK), arbor.ItemQuery{})
	if s.NoError(err) && s.Len(under1, 1) {
		s.Equal(phase1.Key, under1[0].Key)
	}

	under2, err := s.Store.List(ctx, "orderPhase", orderLoc(order2.Key.PK), arbor.ItemQuery{})
	if s.NoError(err) && s.Len(under2, 1) {
		s.Equal(phase2.Key, under2[0].Key)
	}

	// A nil chain is the widest scope: phases of every order,
	// including ones other tests in this suite made.
	everywhere, err := s.Store.List(ctx, "orderPhase", nil, arbor.ItemQuery{})
	if s.NoError(err) {
		keys := make([]arbor.KeyRecord, len(everywhere))
		for i, item := range everywhere {
			keys[i] = item.Key
		}
		s.Contains(keys, phase1.Key)
		s.Contains(keys, phase2.Key)
	}

	nowhere, err := s.Store.List(ctx, "orderPhase", orderLoc("no-such-order"), arbor.ItemQuery{})
	if s.NoError(err) {
		s.Empty(nowhere)
	}
}

// TestListOrder checks that lists come back in creation order and
// honor limit and offset.
func (s *Suite) TestListOrder() {
	ctx := context.Background()

	order := s.createOrder(ctx, nil)
	loc := orderLoc(order.Key.PK)
	names := []string{"plan", "build", "verify"}
	keys := make([]arbor.KeyRecord, len(names))
	for i, name := range names {
		phase, err := s.Store.Create(ctx, "orderPhase", loc, arbor.DataDict{"name": name})
		s.Require().NoError(err)
		keys[i] = phase.Key
	}

	all, err := s.Store.List(ctx, "orderPhase", loc, arbor.ItemQuery{})
	if s.NoError(err) && s.Len(all, 3) {
		for i := range keys {
			s.Equal(keys[i], all[i].Key)
		}
	}

	page, err := s.Store.List(ctx, "orderPhase", loc, arbor.ItemQuery{Limit: 1, Offset: 1})
	if s.NoError(err) && s.Len(page, 1) {
		s.Equal(keys[1], page[0].Key)
	}
}

// TestDeletedInvisible checks that a tombstoned item disappears from
// lists.
func (s *Suite) TestDeletedInvisible() {
	ctx := context.Background()

	order := s.createOrder(ctx, nil)
	loc := orderLoc(order.Key.PK)
	phase, err := s.Store.Create(ctx, "orderPhase", loc, nil)
	s.Require().NoError(err)

	deleted, err := s.Store.Delete(ctx, phase.Key.Key())
	if s.NoError(err) {
		s.True(deleted)
	}

	listed, err := s.Store.List(ctx, "orderPhase", loc, arbor.ItemQuery{})
	if s.NoError(err) {
		s.Empty(listed)
	}
}
