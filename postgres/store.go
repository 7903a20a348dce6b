// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/satori/go.uuid"

	"github.com/treeline-io/go-arbor/arbor"
)

// itemColumns are the outputs every item SELECT asks for, in the
// order scanItem() expects them.
var itemColumns = []string{itemPK, itemLoc, itemData, itemCreated, itemUpdated, itemDeleted}

// scanItem reads one item row.  The caller is responsible for
// selecting itemColumns in order.
func scanItem(kt arbor.TypeName, scan func(...interface{}) error) (*arbor.Item, error) {
	var (
		pk        string
		locText   string
		dataBytes []byte
		created   pq.NullTime
		updated   pq.NullTime
		deleted   pq.NullTime
	)
	err := scan(&pk, &locText, &dataBytes, &created, &updated, &deleted)
	if err != nil {
		return nil, err
	}
	loc, err := textToLoc(locText)
	if err != nil {
		return nil, err
	}
	data, err := bytesToDict(dataBytes)
	if err != nil {
		return nil, err
	}
	item := &arbor.Item{
		Key:  arbor.KeyRecord{KT: kt, PK: arbor.Identifier(pk), Loc: loc},
		Data: data,
		Events: arbor.ItemEvents{
			Created: nullTimeToEvent(created),
			Updated: nullTimeToEvent(updated),
			Deleted: nullTimeToEvent(deleted),
		},
	}
	return item, nil
}

// keyConditions builds the WHERE clause addressing one live item:
// its type, its primary key, and its ancestor chain as a prefix
// constraint.
func (s *Store) keyConditions(key arbor.Key, params *queryParams) ([]string, error) {
	builder, err := s.builder(key.KeyType())
	if err != nil {
		return nil, err
	}
	loc := key.Location()
	if _, err := builder.Path(loc); err != nil {
		return nil, err
	}
	conditions := []string{
		itemKeyType + "=" + params.Param(string(key.KeyType())),
		itemPK + "=" + params.Param(string(key.Primary())),
		isLive,
		itemLoc + " LIKE " + params.Param(locToText(loc)+"%"),
	}
	return conditions, nil
}

// Get retrieves a single item by key.
func (s *Store) Get(ctx context.Context, key arbor.Key) (*arbor.Item, error) {
	params := queryParams{}
	conditions, err := s.keyConditions(key, &params)
	if err != nil {
		return nil, err
	}
	query := buildSelect(itemColumns, []string{itemTable}, conditions)

	var item *arbor.Item
	err = queryAndScan(s, query, params, func(rows *sql.Rows) error {
		item, err = scanItem(key.KeyType(), rows.Scan)
		return err
	})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, arbor.ErrNoSuchItem{Key: arbor.NewKeyRecord(key)}
	}
	return item, nil
}

// List retrieves the live items of one type whose ancestor chain
// starts with loc, in creation order.
func (s *Store) List(ctx context.Context, kt arbor.TypeName, loc arbor.LocKeyArray, q arbor.ItemQuery) ([]arbor.Item, error) {
	builder, err := s.builder(kt)
	if err != nil {
		return nil, err
	}
	if _, err := builder.Path(loc); err != nil {
		return nil, err
	}

	params := queryParams{}
	conditions := []string{
		itemKeyType + "=" + params.Param(string(kt)),
		isLive,
		itemLoc + " LIKE " + params.Param(locToText(loc)+"%"),
	}
	query := buildSelect(itemColumns, []string{itemTable}, conditions)
	query += " ORDER BY " + itemID
	if q.Limit > 0 {
		query += " LIMIT " + params.Param(q.Limit)
	}
	if q.Offset > 0 {
		query += " OFFSET " + params.Param(q.Offset)
	}

	items := []arbor.Item{}
	err = queryAndScan(s, query, params, func(rows *sql.Rows) error {
		item, err := scanItem(kt, rows.Scan)
		if err != nil {
			return err
		}
		items = append(items, *item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Create stores a new item of type kt at the given location,
// assigning it a fresh primary key and stamping its creation time.
func (s *Store) Create(ctx context.Context, kt arbor.TypeName, loc arbor.LocKeyArray, data arbor.DataDict) (*arbor.Item, error) {
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

	dataBytes, err := dictToBytes(data)
	if err != nil {
		return nil, err
	}

	item := &arbor.Item{
		Key: arbor.KeyRecord{
			KT:  kt,
			PK:  arbor.Identifier(uuid.NewV4().String()),
			Loc: append(arbor.LocKeyArray(nil), loc...),
		},
		Data: data,
	}
	now := s.clock.Now()
	item.Events.Created = arbor.Event{At: &now}

	params := queryParams{}
	fields := fieldList{}
	fields.Add(&params, "kt", string(kt))
	fields.Add(&params, "pk", string(item.Key.PK))
	fields.Add(&params, "loc", locToText(loc))
	fields.Add(&params, "data", dataBytes)
	fields.Add(&params, "created", now)
	query := fields.InsertStatement(itemTable)

	err = withTx(s, false, func(tx *sql.Tx) error {
		_, err := tx.Exec(query, params...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Update replaces an existing item's data and stamps its update
// time, returning the updated item.
func (s *Store) Update(ctx context.Context, key arbor.Key, data arbor.DataDict) (*arbor.Item, error) {
	dataBytes, err := dictToBytes(data)
	if err != nil {
		return nil, err
	}

	params := queryParams{}
	conditions, err := s.keyConditions(key, &params)
	if err != nil {
		return nil, err
	}
	changes := fieldList{}
	changes.Add(&params, "data", dataBytes)
	changes.Add(&params, "updated", s.clock.Now())
	query := buildUpdate(itemTable, changes.UpdateChanges(), conditions)

	var item *arbor.Item
	err = withTx(s, false, func(tx *sql.Tx) error {
		result, err := tx.Exec(query, params...)
		if err != nil {
			return err
		}
		count, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if count == 0 {
			return s.missingItemError(tx, key)
		}

		selectParams := queryParams{}
		selectConditions, err := s.keyConditions(key, &selectParams)
		if err != nil {
			return err
		}
		selectQuery := buildSelect(itemColumns, []string{itemTable}, selectConditions)
		row := tx.QueryRow(selectQuery, selectParams...)
		item, err = scanItem(key.KeyType(), row.Scan)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// missingItemError decides why an item addressed by key could not be
// written: deleted items are gone, everything else was never there.
func (s *Store) missingItemError(tx *sql.Tx, key arbor.Key) error {
	params := queryParams{}
	conditions := []string{
		itemKeyType + "=" + params.Param(string(key.KeyType())),
		itemPK + "=" + params.Param(string(key.Primary())),
		itemDeleted + " IS NOT NULL",
	}
	query := buildSelect([]string{"COUNT(*)"}, []string{itemTable}, conditions)
	var count int
	err := tx.QueryRow(query, params...).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return arbor.ErrGone
	}
	return arbor.ErrNoSuchItem{Key: arbor.NewKeyRecord(key)}
}

// Delete tombstones an item.  It reports whether this call deleted
// the item; a second delete of the same key reports false.
func (s *Store) Delete(ctx context.Context, key arbor.Key) (bool, error) {
	params := queryParams{}
	conditions, err := s.keyConditions(key, &params)
	if err != nil {
		return false, err
	}
	changes := fieldList{}
	changes.Add(&params, "deleted", s.clock.Now())
	query := buildUpdate(itemTable, changes.UpdateChanges(), conditions)

	var deleted bool
	err = withTx(s, false, func(tx *sql.Tx) error {
		result, err := tx.Exec(query, params...)
		if err != nil {
			return err
		}
		count, err := result.RowsAffected()
		if err != nil {
			return err
		}
		deleted = count > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
