// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package arbortest

import (
	"context"
	"time"

	"github.com/treeline-io/go-arbor/arbor"
)

// TestRootLifecycle walks one root item through create, get, update,
// and delete.
func (s *Suite) TestRootLifecycle() {
	ctx := context.Background()

	item := s.createOrder(ctx, arbor.DataDict{"customer": "acme"})
	s.Equal(arbor.TypeName("order"), item.Key.KT)
	s.Empty(item.Key.Loc)
	s.Equal("acme", item.Data["customer"])

	key := item.Key.Key()
	s.IsType(arbor.PriKey{}, key)

	got, err := s.Store.Get(ctx, key)
	if s.NoError(err) {
		s.Equal(item.Key, got.Key)
		s.Equal("acme", got.Data["customer"])
	}

	updated, err := s.Store.Update(ctx, key, arbor.DataDict{"customer": "initech"})
	if s.NoError(err) {
		s.Equal("initech", updated.Data["customer"])
	}
	got, err = s.Store.Get(ctx, key)
	if s.NoError(err) {
		s.Equal("initech", got.Data["customer"])
	}

	deleted, err := s.Store.Delete(ctx, key)
	if s.NoError(err) {
		s.True(deleted)
	}

	_, err = s.Store.Get(ctx, key)
	s.IsType(arbor.ErrNoSuchItem{}, err)
}

// TestDeleteTwice checks that only the first delete of an item
// reports true.
func (s *Suite) TestDeleteTwice() {
	ctx := context.Background()

	item := s.createOrder(ctx, nil)
	key := item.Key.Key()

	deleted, err := s.Store.Delete(ctx, key)
	if s.NoError(err) {
		s.True(deleted)
	}
	deleted, err = s.Store.Delete(ctx, key)
	if s.NoError(err) {
		s.False(deleted)
	}
}

// TestDeleteAbsent checks that deleting a key that never existed is
// not an error, just an ineffective delete.
func (s *Suite) TestDeleteAbsent() {
	ctx := context.Background()

	deleted, err := s.Store.Delete(ctx, arbor.PriKey{KT: "order", PK: "never-created"})
	if s.NoError(err) {
		s.False(deleted)
	}
}

// TestUpdateAbsent checks that updating a missing item fails with
// the well-known lookup error.
func (s *Suite) TestUpdateAbsent() {
	ctx := context.Background()

	_, err := s.Store.Update(ctx, arbor.PriKey{KT: "order", PK: "never-created"}, arbor.DataDict{"a": "b"})
	s.IsType(arbor.ErrNoSuchItem{}, err)
}

// TestEvents checks the lifecycle timestamps: created is stamped at
// creation, updated moves when the item changes, and a deleted item
// stops being visible.
func (s *Suite) TestEvents() {
	ctx := context.Background()

	createdAt := s.Clock.Now()
	item := s.createOrder(ctx, arbor.DataDict{"state": "new"})
	s.sameInstant(createdAt, item.Events.Created.At)
	s.Nil(item.Events.Updated.At)
	s.Nil(item.Events.Deleted.At)

	s.Clock.Add(time.Minute)
	updatedAt := s.Clock.Now()
	updated, err := s.Store.Update(ctx, item.Key.Key(), arbor.DataDict{"state": "open"})
	if s.NoError(err) {
		s.sameInstant(createdAt, updated.Events.Created.At)
		s.sameInstant(updatedAt, updated.Events.Updated.At)
		s.Nil(updated.Events.Deleted.At)
	}

	s.Clock.Add(time.Minute)
	deleted, err := s.Store.Delete(ctx, item.Key.Key())
	if s.NoError(err) {
		s.True(deleted)
	}
	_, err = s.Store.Get(ctx, item.Key.Key())
	s.IsType(arbor.ErrNoSuchItem{}, err)
}
