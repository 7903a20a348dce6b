// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

const (
	// SQL table names:
	itemTable = "item"

	// SQL column names:
	itemID      = itemTable + ".id"
	itemKeyType = itemTable + ".kt"
	itemPK      = itemTable + ".pk"
	itemLoc     = itemTable + ".loc"
	itemData    = itemTable + ".data"
	itemCreated = itemTable + ".created"
	itemUpdated = itemTable + ".updated"
	itemDeleted = itemTable + ".deleted"

	// WHERE clause fragments:
	isLive = itemDeleted + " IS NULL"
)
