// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

// Package arbortest provides generic functional tests for the
// arbor.Store interface.  A typical backend test module needs to
// wrap Suite to create its backend:
//
//	package mybackend
//
//	import (
//	        "testing"
//
//	        "github.com/stretchr/testify/suite"
//
//	        "github.com/treeline-io/go-arbor/arbor/arbortest"
//	)
//
//	// Suite is the per-backend generic test suite.
//	type Suite struct {
//	        arbortest.Suite
//	}
//
//	// SetupSuite does global setup for the test suite.
//	func (s *Suite) SetupSuite() {
//	        s.Suite.SetupSuite()
//	        s.Store = NewWithClock(arbortest.Definitions(), s.Clock)
//	}
//
//	// TestStore runs the generic store tests.
//	func TestStore(t *testing.T) {
//	        suite.Run(t, &Suite{})
//	}
package arbortest

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/suite"

	"github.com/treeline-io/go-arbor/arbor"
)

// Definitions returns the containment hierarchy the suite works
// with: orders containing order phases containing order steps.
func Definitions() []arbor.Definition {
	return []arbor.Definition{
		{KeyType: "order", PathNames: []string{"orders"}},
		{KeyType: "orderPhase", PathNames: []string{"orders", "orderPhases"}},
		{KeyType: "orderStep", PathNames: []string{"orders", "orderPhases", "orderSteps"}},
	}
}

// Suite is the generic arbor.Store test suite.
type Suite struct {
	suite.Suite

	// Clock contains the alternate time source to be used in tests.
	// It is pre-initialized to a mock clock.
	Clock *clock.Mock

	// Store contains the backend under test.  It is set by
	// importing packages.
	Store arbor.Store
}

// SetupSuite does one-time initialization for the test suite.
func (s *Suite) SetupSuite() {
	s.Clock = clock.NewMock()
}

// loc builds the location of one order's phase collection.
func orderLoc(orderPK arbor.Identifier) arbor.LocKeyArray {
	return arbor.LocKeyArray{{KT: "order", LK: orderPK}}
}

// phaseLoc builds the location of one phase's step collection.
func phaseLoc(orderPK, phasePK arbor.Identifier) arbor.LocKeyArray {
	return arbor.LocKeyArray{
		{KT: "order", LK: orderPK},
		{KT: "orderPhase", LK: phasePK},
	}
}

// createOrder creates one order and fails the test on error.
func (s *Suite) createOrder(ctx context.Context, data arbor.DataDict) *arbor.Item {
	item, err := s.Store.Create(ctx, "order", nil, data)
	s.Require().NoError(err)
	s.Require().NotNil(item)
	s.Require().NotEmpty(item.Key.PK)
	return item
}

// sameInstant asserts that two timestamps name the same instant,
// ignoring time zone representation and sub-second drift introduced
// by wire encodings.
func (s *Suite) sameInstant(expected time.Time, at *time.Time) {
	if s.NotNil(at) {
		s.WithinDuration(expected, *at, time.Second)
	}
}
