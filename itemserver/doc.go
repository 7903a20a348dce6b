// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

// Package itemserver publishes an arbor.Store as a REST service.
// The itemclient package is a matching client.
//
// The wire format is defined in the itemdata package.
//
// URL Scheme
//
// Items follow their natural containment hierarchy.  Every hierarchy
// definition contributes a family of routes, one per root-aligned
// prefix of its ancestor chain.  An order step contained in phases
// contained in orders produces
//
//	/orderSteps
//	/orderSteps/{pk}
//	/orders/{lk}/orderSteps
//	/orders/{lk}/orderSteps/{pk}
//	/orders/{lk}/orderPhases/{lk}/orderSteps
//	/orders/{lk}/orderPhases/{lk}/orderSteps/{pk}
//
// plus a POST-only action route under each of these.  Shorter paths
// address wider collections of the same type; ancestor levels may
// only be dropped from the left, never reordered, and the keypath
// package enforces the same rule on the client side.
//
// Collection paths support GET, listing items or running a named
// finder when the "finder" query parameter is present, and POST,
// creating an item.  Item paths support GET, PUT, and DELETE.
// Action paths support only POST and dispatch to finders and actions
// registered with WithFinder, WithAction, and WithCollectionAction;
// names that were never registered return 404.
package itemserver
