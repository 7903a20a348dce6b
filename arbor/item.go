// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package arbor

import "time"

// DataDict is the body of an item: an arbitrary string-keyed map.
// Arbor stores and returns item data without interpreting it.
type DataDict map[string]interface{}

// Event records when one lifecycle event happened to an item.  At is
// nil when the event has not happened.
type Event struct {
	At *time.Time `json:"at"`
}

// ItemEvents records an item's lifecycle.  Created is always set on
// stored items; Deleted is set only on items that have been removed.
type ItemEvents struct {
	Created Event `json:"created"`
	Updated Event `json:"updated"`
	Deleted Event `json:"deleted"`
}

// KeyRecord is the stored and wire form of an item's key.  Loc is
// empty for items of root types.
type KeyRecord struct {
	KT  TypeName    `json:"kt"`
	PK  Identifier  `json:"pk"`
	Loc LocKeyArray `json:"loc,omitempty"`
}

// NewKeyRecord flattens a key into its record form.
func NewKeyRecord(key Key) KeyRecord {
	return KeyRecord{
		KT:  key.KeyType(),
		PK:  key.Primary(),
		Loc: key.Location(),
	}
}

// Key reconstructs the typed key: a PriKey if the record has no
// location, otherwise a ComKey.
func (kr KeyRecord) Key() Key {
	if len(kr.Loc) == 0 {
		return PriKey{KT: kr.KT, PK: kr.PK}
	}
	return ComKey{KT: kr.KT, PK: kr.PK, Loc: kr.Loc}
}

func (kr KeyRecord) String() string {
	switch key := kr.Key().(type) {
	case PriKey:
		return key.String()
	case ComKey:
		return key.String()
	}
	return string(kr.KT) + "/" + string(kr.PK)
}

// Item is one stored item: its key, its data, and its lifecycle
// events.
type Item struct {
	Key    KeyRecord  `json:"key"`
	Data   DataDict   `json:"data,omitempty"`
	Events ItemEvents `json:"events"`
}
