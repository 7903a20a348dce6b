// Unit tests for the error envelope.
//
// Copyright 2025 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package itemdata_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/treeline-io/go-arbor/arbor"
	"github.com/treeline-io/go-arbor/itemdata"
)

func reencode(err error) error {
	resp := itemdata.ErrorResponse{Error: "error", Message: err.Error()}
	resp.FromError(err)
	return resp.ToError()
}

func TestErrorRoundTrip(t *testing.T) {
	stepKey := arbor.ComKey{
		KT: "orderStep",
		PK: "25825",
		Loc: arbor.LocKeyArray{
			{KT: "order", LK: "26513"},
			{KT: "orderPhase", LK: "25826"},
		},
	}
	tests := []struct {
		name string
		err  error
	}{
		{"gone", arbor.ErrGone},
		{"no key type", arbor.ErrNoKeyType},
		{"no such root item", arbor.ErrNoSuchItem{
			Key: arbor.KeyRecord{KT: "order", PK: "26513"},
		}},
		{"no such contained item", arbor.ErrNoSuchItem{
			Key: arbor.NewKeyRecord(stepKey),
		}},
		{"no such finder", arbor.ErrNoSuchFinder{
			KeyType: "order", Name: "byCarrier",
		}},
		{"no such action", arbor.ErrNoSuchAction{
			KeyType: "orderStep", Name: "expedite",
		}},
		{"missing location", arbor.ErrMissingLocation{
			KeyType: "orderStep",
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(tt *testing.T) {
			assert.Equal(tt, test.err, reencode(test.err))
		})
	}
}

func TestErrorUnwrapsStatusWrappers(t *testing.T) {
	err := reencode(itemdata.ErrNotFound{Err: arbor.ErrGone})
	assert.Equal(t, arbor.ErrGone, err)

	err = reencode(itemdata.ErrBadRequest{Err: arbor.ErrNoKeyType})
	assert.Equal(t, arbor.ErrNoKeyType, err)
}

func TestErrorFallsBackToMessage(t *testing.T) {
	err := reencode(errors.New("something else entirely"))
	assert.EqualError(t, err, "something else entirely")
}

func TestFromPanic(t *testing.T) {
	resp := itemdata.ErrorResponse{}
	resp.FromPanic(errors.New("lost my place"))
	assert.Equal(t, "panic", resp.Error)
	assert.Equal(t, "lost my place", resp.Message)
	assert.NotEmpty(t, resp.Stack)

	resp = itemdata.ErrorResponse{}
	resp.FromPanic(17)
	assert.Equal(t, "panic", resp.Error)
	assert.Equal(t, "17", resp.Message)
}

func TestHTTPStatuses(t *testing.T) {
	assert.Equal(t, 404, itemdata.ErrNotFound{Err: arbor.ErrGone}.HTTPStatus())
	assert.Equal(t, 400, itemdata.ErrBadRequest{Err: arbor.ErrNoKeyType}.HTTPStatus())
	assert.Equal(t, 415, itemdata.ErrUnsupportedMediaType{Type: "text/html"}.HTTPStatus())
}
