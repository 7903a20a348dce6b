// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/treeline-io/go-arbor/arbor"
)

func TestQueryParams(t *testing.T) {
	params := queryParams{}
	assert.Equal(t, "$1", params.Param("a"))
	assert.Equal(t, "$2", params.Param(2))
	assert.Equal(t, queryParams{"a", 2}, params)
}

func TestFieldListInsert(t *testing.T) {
	params := queryParams{}
	fields := fieldList{}
	fields.Add(&params, "kt", "order")
	fields.Add(&params, "pk", "26513")
	assert.Equal(t,
		"INSERT INTO item(kt, pk) VALUES($1, $2)",
		fields.InsertStatement("item"))
	assert.Equal(t, queryParams{"order", "26513"}, params)
}

func TestBuildUpdate(t *testing.T) {
	params := queryParams{}
	changes := fieldList{}
	changes.Add(&params, "data", []byte{})
	query := buildUpdate("item", changes.UpdateChanges(), []string{"item.pk=$2"})
	assert.Equal(t, "UPDATE item SET data=$1 WHERE item.pk=$2", query)
}

var someLocs = []struct {
	Loc  arbor.LocKeyArray
	Text string
}{
	{nil, ""},
	{arbor.LocKeyArray{{KT: "order", LK: "26513"}}, "order=26513/"},
	{arbor.LocKeyArray{
		{KT: "order", LK: "26513"},
		{KT: "orderPhase", LK: "25826"},
	}, "order=26513/orderPhase=25826/"},
}

func TestLocToText(t *testing.T) {
	for _, l := range someLocs {
		assert.Equal(t, l.Text, locToText(l.Loc), l.Text)
	}
}

func TestTextToLoc(t *testing.T) {
	for _, l := range someLocs {
		actual, err := textToLoc(l.Text)
		if assert.NoError(t, err, l.Text) {
			assert.Equal(t, l.Loc, actual, l.Text)
		}
	}
}

func TestTextToLocMalformed(t *testing.T) {
	_, err := textToLoc("order/")
	assert.Error(t, err)
}
