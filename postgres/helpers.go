// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/ugorji/go/codec"

	"github.com/treeline-io/go-arbor/arbor"
	"github.com/treeline-io/go-arbor/itemdata"
)

// dictionary <-> binary encoders

func dictToBytes(in arbor.DataDict) (out []byte, err error) {
	cbor := new(codec.CborHandle)
	err = itemdata.SetExts(cbor)
	if err != nil {
		return
	}
	encoder := codec.NewEncoderBytes(&out, cbor)
	err = encoder.Encode(map[string]interface{}(in))
	return
}

func bytesToDict(in []byte) (arbor.DataDict, error) {
	if len(in) == 0 {
		return nil, nil
	}
	cbor := new(codec.CborHandle)
	err := itemdata.SetExts(cbor)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	decoder := codec.NewDecoderBytes(in, cbor)
	err = decoder.Decode(&out)
	return arbor.DataDict(out), err
}

// location <-> text encoders
//
// An ancestor chain is stored as alternating type=identifier pairs,
// each followed by a slash: "order=26513/orderPhase=25826/".  The
// trailing slash makes every chain its own prefix, so a root-aligned
// prefix query is a LIKE on the rendered prefix.

func locToText(loc arbor.LocKeyArray) string {
	var b strings.Builder
	for _, l := range loc {
		b.WriteString(string(l.KT))
		b.WriteString("=")
		b.WriteString(string(l.LK))
		b.WriteString("/")
	}
	return b.String()
}

func textToLoc(text string) (arbor.LocKeyArray, error) {
	if text == "" {
		return nil, nil
	}
	parts := strings.Split(strings.TrimSuffix(text, "/"), "/")
	loc := make(arbor.LocKeyArray, len(parts))
	for i, part := range parts {
		kt, lk, found := strings.Cut(part, "=")
		if !found {
			return nil, fmt.Errorf("Malformed location segment %q", part)
		}
		loc[i] = arbor.LocKey{KT: arbor.TypeName(kt), LK: arbor.Identifier(lk)}
	}
	return loc, nil
}

// time encoders

// timeToNullTime encodes a time as a pq-specific NullTime, by mapping the
// zero time to null.
func timeToNullTime(t time.Time) pq.NullTime {
	return pq.NullTime{Time: t, Valid: !t.IsZero()}
}

// nullTimeToEvent decodes a pq-specific NullTime to a lifecycle
// event, by mapping a null value to an event that has not happened.
func nullTimeToEvent(nt pq.NullTime) arbor.Event {
	if !nt.Valid {
		return arbor.Event{}
	}
	t := nt.Time
	return arbor.Event{At: &t}
}
