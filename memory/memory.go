// Package memory provides an in-process, in-memory implementation of
// the arbor item store.  There is no persistence, nor is there any
// automatic sharing.  The entire store is behind a single global
// semaphore to protect against concurrent updates; in some cases
// this can limit performance in the name of correctness.
//
// This is mostly intended as a simple reference implementation of
// arbor.Store that can be used for testing, including in-process
// testing of higher-level components.  It is generally tuned for
// correctness, not performance or scalability.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/satori/go.uuid"

	"github.com/treeline-io/go-arbor/arbor"
	"github.com/treeline-io/go-arbor/keypath"
)

// Store is an in-memory arbor.Store.  Deleting an item leaves a
// tombstone: the item stops being visible to Get and List, a second
// Delete reports false, and its deletion time is retained.
type Store struct {
	clock    clock.Clock
	sem      sync.Mutex
	builders map[arbor.TypeName]*keypath.Builder
	items    map[arbor.TypeName]map[arbor.Identifier]*memItem
	order    map[arbor.TypeName][]*memItem
}

var _ arbor.Store = &Store{}

// memItem is the stored form of one item.  Times are zero when the
// corresponding event has not happened.
type memItem struct {
	key     arbor.KeyRecord
	data    arbor.DataDict
	created time.Time
	updated time.Time
	deleted time.Time
}

// New creates a new in-memory store for the item types in defs,
// using the real system clock for event times.
func New(defs []arbor.Definition) (*Store, error) {
	return NewWithClock(defs, clock.New())
}

// NewWithClock creates a new in-memory store with an explicit time
// source.  Most application code should call New(); this entry point
// is intended for tests that need to inject a mock time source.
func NewWithClock(defs []arbor.Definition, clk clock.Clock) (*Store, error) {
	s := &Store{
		clock:    clk,
		builders: make(map[arbor.TypeName]*keypath.Builder),
		items:    make(map[arbor.TypeName]map[arbor.Identifier]*memItem),
		order:    make(map[arbor.TypeName][]*memItem),
	}
	for _, def := range defs {
		builder, err := keypath.NewFromDefinition(def)
		if err != nil {
			return nil, err
		}
		s.builders[def.KeyType] = builder
	}
	return s, nil
}

// builder looks up the hierarchy definition for one item type.
func (s *Store) builder(kt arbor.TypeName) (*keypath.Builder, error) {
	builder, present := s.builders[kt]
	if !present {
		return nil, arbor.ErrNoSuchItem{Key: arbor.KeyRecord{KT: kt}}
	}
	return builder, nil
}

// find looks up one live item by key.  The key's ancestor chain may
// be any root-aligned prefix of the item's actual chain; a chain
// that names different ancestors finds nothing.  Assumes the global
// lock.
func (s *Store) find(key arbor.Key) (*memItem, error) {
	builder, err := s.builder(key.KeyType())
	if err != nil {
		return nil, err
	}
	loc := key.Location()
	if _, err := builder.Path(loc); err != nil {
		return nil, err
	}
	item := s.items[key.KeyType()][key.Primary()]
	if item == nil || !item.deleted.IsZero() {
		return nil, arbor.ErrNoSuchItem{Key: arbor.NewKeyRecord(key)}
	}
	if !locHasPrefix(item.key.Loc, loc) {
		return nil, arbor.ErrNoSuchItem{Key: arbor.NewKeyRecord(key)}
	}
	return item, nil
}

// locHasPrefix reports whether prefix is a root-aligned prefix of
// loc.
func locHasPrefix(loc, prefix arbor.LocKeyArray) bool {
	if len(prefix) > len(loc) {
		return false
	}
	for i, l := range prefix {
		if loc[i] != l {
			return false
		}
	}
	return true
}

// snapshot renders the externally visible form of one item.
func (item *memItem) snapshot() arbor.Item {
	out := arbor.Item{
		Key:  item.key,
		Data: copyDict(item.data),
	}
	out.Events = itemEvents(item)
	return out
}

func itemEvents(item *memItem) arbor.ItemEvents {
	var events arbor.ItemEvents
	if !item.created.IsZero() {
		t := item.created
		events.Created.At = &t
	}
	if !item.updated.IsZero() {
		t := item.updated
		events.Updated.At = &t
	}
	if !item.deleted.IsZero() {
		t := item.deleted
		events.Deleted.At = &t
	}
	return events
}

func copyDict(data arbor.DataDict) arbor.DataDict {
	if data == nil {
		return nil
	}
	out := make(arbor.DataDict, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

// Get retrieves a single item by key.
func (s *Store) Get(ctx context.Context, key arbor.Key) (*arbor.Item, error) {
	s.sem.Lock()
	defer s.sem.Unlock()

	item, err := s.find(key)
	if err != nil {
		return nil, err
	}
	out := item.snapshot()
	return &out, nil
}

// List retrieves the live items of one type whose ancestor chain
// starts with loc, in creation order.
func (s *Store) List(ctx context.Context, kt arbor.TypeName, loc arbor.LocKeyArray, q arbor.ItemQuery) ([]arbor.Item, error) {
	s.sem.Lock()
	defer s.sem.Unlock()

	builder, err := s.builder(kt)
	if err != nil {
		return nil, err
	}
	if _, err := builder.Path(loc); err != nil {
		return nil, err
	}

	matched := 0
	out := []arbor.Item{}
	for _, item := range s.order[kt] {
		if !item.deleted.IsZero() || !locHasPrefix(item.key.Loc, loc) {
			continue
		}
		matched++
		if matched <= q.Offset {
			continue
		}
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
		out = append(out, item.snapshot())
	}
	return out, nil
}

// Create stores a new item of type kt at the given location,
// assigning it a fresh primary key and stamping its creation time.
func (s *Store) Create(ctx context.Context, kt arbor.TypeName, loc arbor.LocKeyArray, data arbor.DataDict) (*arbor.Item, error) {
	s.sem.Lock()
	defer s.sem.Unlock()

	builder, err := s.builder(kt)
	if err != nil {
		return nil, err
	}
	if _, err := builder.Path(loc); err != nil {
		return nil, err
	}
	if len(loc) != builder.Depth() {
		return nil, arbor.ErrMissingLocation{KeyType: kt}
	}

	item := &memItem{
		key: arbor.KeyRecord{
			KT:  kt,
			PK:  arbor.Identifier(uuid.NewV4().String()),
			Loc: append(arbor.LocKeyArray(nil), loc...),
		},
		data:    copyDict(data),
		created: s.clock.Now(),
	}
	if s.items[kt] == nil {
		s.items[kt] = make(map[arbor.Identifier]*memItem)
	}
	s.items[kt][item.key.PK] = item
	s.order[kt] = append(s.order[kt], item)

	out := item.snapshot()
	return &out, nil
}

// Update replaces an existing item's data and stamps its update
// time.
func (s *Store) Update(ctx context.Context, key arbor.Key, data arbor.DataDict) (*arbor.Item, error) {
	s.sem.Lock()
	defer s.sem.Unlock()

	item, err := s.find(key)
	if err != nil {
		return nil, err
	}
	item.data = copyDict(data)
	item.updated = s.clock.Now()
	out := item.snapshot()
	return &out, nil
}

// Delete tombstones an item.  It reports whether this call deleted
// the item; a second delete of the same key reports false.
func (s *Store) Delete(ctx context.Context, key arbor.Key) (bool, error) {
	s.sem.Lock()
	defer s.sem.Unlock()

	item, err := s.find(key)
	if err != nil {
		if _, missing := err.(arbor.ErrNoSuchItem); missing {
			return false, nil
		}
		return false, err
	}
	item.deleted = s.clock.Now()
	return true, nil
}
