// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

// Package keypath translates typed item keys into REST paths.
//
// A Builder is configured with one item type's place in the
// containment hierarchy: its type name and the ordered collection
// segments leading to it, root first.  Given a key or a location
// chain it produces the corresponding absolute path, for example
//
//	/orders/26513/orderPhases/25826/orderSteps/25825
//
// for an order step contained in a phase contained in an order.
//
// The builder validates before it renders.  An ancestor chain must
// run from parent to child, starting at the root; it may stop short
// of the full hierarchy, but it may not reorder, reverse, or skip
// levels.  A chain that fails validation produces an OrderingError
// and no path.  Validation and rendering are pure: the same input
// always yields the same path or the same error, at any hierarchy
// depth.
package keypath

import (
	"errors"
	"fmt"
	"strings"

	"github.com/treeline-io/go-arbor/arbor"
)

// ErrNoPathNames is returned from New() if the path segment list is
// empty.
var ErrNoPathNames = errors.New("Path names cannot be empty")

// ErrEmptyPathName is returned from New() if any path segment is an
// empty string.
var ErrEmptyPathName = errors.New("Path name cannot be empty")

// ErrAncestorCount is returned from NewWithAncestors() if the
// ancestor type list does not line up with the path segments.
var ErrAncestorCount = errors.New("Ancestor types must match path names")

// OrderingError is returned from Path() when an ancestor chain is
// not a root-aligned prefix of the builder's hierarchy: reordered,
// reversed, past the leaf, or naming a type that does not belong at
// its level.
type OrderingError struct {
	// KeyType is the leaf type whose path was requested.
	KeyType arbor.TypeName

	// Expected is the hierarchy's ancestor order, root first.
	Expected []arbor.TypeName

	// Got is the chain's type order as supplied.
	Got []arbor.TypeName

	// Level is the zero-based chain position of the first key out
	// of place.
	Level int
}

func (err OrderingError) Error() string {
	if err.Level >= len(err.Expected) {
		return fmt.Sprintf("Location keys must be ordered parent to child: %v only has %d ancestor level(s), got %v at level %d",
			err.KeyType, len(err.Expected), err.Got[err.Level], err.Level)
	}
	return fmt.Sprintf("Location keys must be ordered parent to child: %v expects %v at level %d, got %v",
		err.KeyType, err.Expected[err.Level], err.Level, err.Got[err.Level])
}

// ErrWrongKeyType is returned from Path() when a key's own type does
// not match the type the builder was configured for.
type ErrWrongKeyType struct {
	Expected, Got arbor.TypeName
}

func (err ErrWrongKeyType) Error() string {
	return fmt.Sprintf("Key type %v does not match %v", err.Got, err.Expected)
}

// Builder renders paths for one item type.  It is immutable after
// construction and safe for concurrent use.
type Builder struct {
	keyType   arbor.TypeName
	pathNames []string
	ancestors []arbor.TypeName
}

// New creates a path builder for the item type keyType, whose
// collection segments are pathNames in root-first order; the final
// segment is the type's own collection.  Ancestor type names are
// derived from their segments by trimming a plural "s"; use
// NewWithAncestors() if the hierarchy has irregular plurals.
func New(keyType arbor.TypeName, pathNames []string) (*Builder, error) {
	return NewWithAncestors(keyType, pathNames, nil)
}

// NewWithAncestors creates a path builder with the ancestor type at
// each containment level given explicitly.  ancestors must have one
// entry per path segment before the last, in the same order, or be
// nil to derive them.
func NewWithAncestors(keyType arbor.TypeName, pathNames []string, ancestors []arbor.TypeName) (*Builder, error) {
	if keyType == "" {
		return nil, arbor.ErrNoKeyType
	}
	if len(pathNames) == 0 {
		return nil, ErrNoPathNames
	}
	for _, name := range pathNames {
		if name == "" {
			return nil, ErrEmptyPathName
		}
	}
	if ancestors == nil {
		ancestors = deriveAncestors(pathNames[:len(pathNames)-1])
	} else if len(ancestors) != len(pathNames)-1 {
		return nil, ErrAncestorCount
	}
	b := &Builder{
		keyType:   keyType,
		pathNames: append([]string(nil), pathNames...),
		ancestors: append([]arbor.TypeName(nil), ancestors...),
	}
	return b, nil
}

// NewFromDefinition creates a path builder from a hierarchy
// definition.
func NewFromDefinition(def arbor.Definition) (*Builder, error) {
	var ancestors []arbor.TypeName
	if len(def.AncestorTypes) > 0 {
		ancestors = def.AncestorTypes
	}
	return NewWithAncestors(def.KeyType, def.PathNames, ancestors)
}

// deriveAncestors maps collection segments to singular type names:
// "orderPhases" becomes "orderPhase".
func deriveAncestors(segments []string) []arbor.TypeName {
	kts := make([]arbor.TypeName, len(segments))
	for i, segment := range segments {
		kts[i] = arbor.TypeName(strings.TrimSuffix(segment, "s"))
	}
	return kts
}

// KeyType returns the leaf type this builder renders paths for.
func (b *Builder) KeyType() arbor.TypeName { return b.keyType }

// PathNames returns a copy of the builder's collection segments,
// root first.
func (b *Builder) PathNames() []string {
	return append([]string(nil), b.pathNames...)
}

// AncestorTypes returns a copy of the ancestor type at each
// containment level, root first.
func (b *Builder) AncestorTypes() []arbor.TypeName {
	return append([]arbor.TypeName(nil), b.ancestors...)
}

// Depth returns the number of ancestor levels in the full hierarchy.
func (b *Builder) Depth() int { return len(b.ancestors) }

// Path renders the absolute path for a key or location chain.
//
// A LocKeyArray yields its collection's path, ending at the leaf
// segment with no item identifier; this is the path of the
// collection the chain scopes.  A ComKey yields its item's path, the
// collection path plus the item's own identifier.  A PriKey yields
// the root collection segment plus the identifier, since root items
// have no ancestors.
//
// The ancestor chain (the LocKeyArray itself, or a ComKey's Loc) is
// validated first and may be any root-aligned prefix of the
// hierarchy.  Chains that are out of order return an OrderingError
// and no path.
func (b *Builder) Path(ref arbor.PathRef) (string, error) {
	switch r := ref.(type) {
	case arbor.PriKey:
		if r.KT != b.keyType {
			return "", ErrWrongKeyType{Expected: b.keyType, Got: r.KT}
		}
		return "/" + b.leafName() + "/" + string(r.PK), nil
	case arbor.ComKey:
		if r.KT != b.keyType {
			return "", ErrWrongKeyType{Expected: b.keyType, Got: r.KT}
		}
		path, err := b.collectionPath(r.Loc)
		if err != nil {
			return "", err
		}
		return path + "/" + string(r.PK), nil
	case arbor.LocKeyArray:
		return b.collectionPath(r)
	}
	return "", fmt.Errorf("Cannot build a path from %T", ref)
}

func (b *Builder) leafName() string {
	return b.pathNames[len(b.pathNames)-1]
}

func (b *Builder) collectionPath(loc arbor.LocKeyArray) (string, error) {
	if err := b.validateChain(loc); err != nil {
		return "", err
	}
	parts := make([]string, 0, 2*len(loc)+1)
	for i, l := range loc {
		parts = append(parts, b.pathNames[i], string(l.LK))
	}
	parts = append(parts, b.leafName())
	return "/" + strings.Join(parts, "/"), nil
}

// validateChain checks that loc is a root-aligned prefix of the
// hierarchy's ancestor order.
func (b *Builder) validateChain(loc arbor.LocKeyArray) error {
	for i, l := range loc {
		if i >= len(b.ancestors) || l.KT != b.ancestors[i] {
			return OrderingError{
				KeyType:  b.keyType,
				Expected: b.AncestorTypes(),
				Got:      loc.KeyTypes(),
				Level:    i,
			}
		}
	}
	return nil
}
