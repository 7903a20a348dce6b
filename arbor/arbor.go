// Package arbor defines an abstract API to Arbor.
//
// Arbor manages typed items arranged in a strict containment
// hierarchy.  Every item type is either a root type or is contained
// in exactly one parent type, so a single item is addressed by its
// own primary key plus the primary keys of all of its ancestors in
// order from the root down.  An order might contain order phases,
// each of which contains order steps; one step is then addressed by
// (order, phase, step).
//
// Keys here are small immutable values.  PriKey addresses an item of
// a root type, ComKey addresses an item of a contained type, and
// LocKeyArray names a position in the hierarchy without naming a
// specific item.  Code that builds keys is responsible for listing
// ancestors in root-first order; nothing in this API reorders a key,
// and operations that receive an out-of-order ancestor chain fail.
//
// The Store interface is the abstract storage API.  The memory and
// postgres packages provide direct implementations, and the
// itemclient package provides one that runs over HTTP against an
// itemserver.
package arbor

import (
	"context"
	"strconv"
	"strings"
)

// TypeName is the name of an item type, such as "order" or
// "orderStep".  Type names are singular; the corresponding collection
// segments in REST paths are typically their plurals.
type TypeName string

// Identifier is the primary key of a single item, in its natural text
// form.  Numeric keys are rendered in decimal; string keys are used
// as-is.
type Identifier string

// IntIdentifier converts a numeric primary key to an Identifier.
func IntIdentifier(i int64) Identifier {
	return Identifier(strconv.FormatInt(i, 10))
}

// String returns the identifier's text form.
func (id Identifier) String() string { return string(id) }

// PriKey addresses an item of a root type.  It carries no location:
// root items have no ancestors.
type PriKey struct {
	// KT is the item's type name.
	KT TypeName `json:"kt"`

	// PK is the item's primary key.
	PK Identifier `json:"pk"`
}

// LocKey names one ancestor's position in a containment hierarchy:
// the ancestor's type and its primary key.
type LocKey struct {
	// KT is the ancestor's type name.
	KT TypeName `json:"kt"`

	// LK is the ancestor's primary key.
	LK Identifier `json:"lk"`
}

// LocKeyArray is a chain of ancestor positions, ordered root first.
// Index 0 is the most distant ancestor.  A chain may name fewer
// levels than the full hierarchy, but the levels it does name must
// start at the root; a reordered or reversed chain is invalid input
// and is rejected by anything that consumes it, never silently
// corrected.
type LocKeyArray []LocKey

// KeyTypes returns the chain's type names in the same order.
func (loc LocKeyArray) KeyTypes() []TypeName {
	kts := make([]TypeName, len(loc))
	for i, l := range loc {
		kts[i] = l.KT
	}
	return kts
}

// ComKey addresses an item of a contained type: the item's own type
// and primary key, plus the full chain of its ancestors.
type ComKey struct {
	// KT is the item's type name.
	KT TypeName `json:"kt"`

	// PK is the item's primary key.
	PK Identifier `json:"pk"`

	// Loc is the item's ancestor chain, root first.
	Loc LocKeyArray `json:"loc"`
}

// PathRef is anything that can address a point in the containment
// hierarchy: a PriKey or ComKey for a single item, or a LocKeyArray
// for a collection position.  It is a closed set; consumers dispatch
// on the concrete type.
type PathRef interface {
	isPathRef()
}

func (PriKey) isPathRef()      {}
func (ComKey) isPathRef()      {}
func (LocKeyArray) isPathRef() {}

// Key addresses a single item: a PriKey or a ComKey.  It is a closed
// set.
type Key interface {
	PathRef

	// KeyType returns the item's type name.
	KeyType() TypeName

	// Primary returns the item's primary key.
	Primary() Identifier

	// Location returns the item's ancestor chain, root first.  It
	// is nil for a PriKey.
	Location() LocKeyArray
}

// KeyType returns the item's type name.
func (k PriKey) KeyType() TypeName { return k.KT }

// Primary returns the item's primary key.
func (k PriKey) Primary() Identifier { return k.PK }

// Location returns nil; root items have no ancestors.
func (k PriKey) Location() LocKeyArray { return nil }

func (k PriKey) String() string {
	return string(k.KT) + "/" + string(k.PK)
}

// KeyType returns the item's type name.
func (k ComKey) KeyType() TypeName { return k.KT }

// Primary returns the item's primary key.
func (k ComKey) Primary() Identifier { return k.PK }

// Location returns the item's ancestor chain, root first.
func (k ComKey) Location() LocKeyArray { return k.Loc }

func (k ComKey) String() string {
	parts := make([]string, 0, len(k.Loc)+1)
	for _, l := range k.Loc {
		parts = append(parts, string(l.KT)+"/"+string(l.LK))
	}
	parts = append(parts, string(k.KT)+"/"+string(k.PK))
	return strings.Join(parts, "/")
}

// Definition describes one item type's place in the hierarchy: its
// type name and the ordered collection segments leading to it.
type Definition struct {
	// KeyType is the type name of the items this definition
	// describes.
	KeyType TypeName `yaml:"keyType" json:"keyType"`

	// PathNames lists collection path segments in root-first
	// order.  The final segment is this type's own collection; any
	// segments before it belong to its ancestors, nearest the root
	// first.  An order step contained in phases contained in
	// orders has PathNames ["orders", "orderPhases", "orderSteps"].
	PathNames []string `yaml:"pathNames" json:"pathNames"`

	// AncestorTypes optionally names the ancestor type at each
	// containment level, parallel to PathNames minus its final
	// segment.  When empty the ancestor types are derived from the
	// path segments by trimming a plural "s".
	AncestorTypes []TypeName `yaml:"ancestorTypes,omitempty" json:"ancestorTypes,omitempty"`
}

// ItemQuery selects a page of items from a collection.  The zero
// value selects everything.
type ItemQuery struct {
	// Limit caps the number of items returned, if positive.
	Limit int

	// Offset skips that many items from the start of the
	// collection, if positive.
	Offset int
}

// FinderParams carries the arguments of a named finder.  Values may
// be strings, numbers, booleans, timestamps, or nested sequences and
// maps of these; the wire encoding preserves their types end to end.
type FinderParams map[string]interface{}

// Store is the abstract storage API for items.  Implementations are
// safe for concurrent use.
type Store interface {
	// Get retrieves a single item by key.  If no live item has
	// that key, returns an instance of ErrNoSuchItem as an error.
	Get(ctx context.Context, key Key) (*Item, error)

	// List retrieves the items of one type within a location.  The
	// loc chain may be any root-aligned prefix of the type's full
	// ancestor chain; a shorter chain selects a wider scope, and a
	// nil chain selects items of that type everywhere.  Results are
	// ordered by creation.
	List(ctx context.Context, kt TypeName, loc LocKeyArray, q ItemQuery) ([]Item, error)

	// Create stores a new item of type kt at the given location and
	// returns it.  Contained types require their full ancestor
	// chain; a partial chain returns an instance of
	// ErrMissingLocation.
	Create(ctx context.Context, kt TypeName, loc LocKeyArray, data DataDict) (*Item, error)

	// Update replaces an existing item's data and returns the
	// updated item.  If no live item has that key, returns an
	// instance of ErrNoSuchItem.
	Update(ctx context.Context, key Key, data DataDict) (*Item, error)

	// Delete removes an item.  It reports whether this call deleted
	// the item: false with a nil error means there was nothing to
	// delete.
	Delete(ctx context.Context, key Key) (bool, error)
}
