// Copyright 2025 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package arbor

import (
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// DecodeTimeString is a mapstructure decode hook that accepts an RFC
// 3339 string where a time.Time is expected.  Item data crosses the
// wire as JSON, which turns timestamps into strings; this hook turns
// them back.
func DecodeTimeString(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to == reflect.TypeOf(time.Time{}) && from.Kind() == reflect.String {
		return time.Parse(time.RFC3339Nano, data.(string))
	}
	return data, nil
}

// DecodeData converts an item's data dictionary into a typed
// structure, matching map keys to field names or "mapstructure"
// tags.  RFC 3339 timestamp strings decode into time.Time fields.
func DecodeData[T any](data DataDict) (T, error) {
	var out T
	config := mapstructure.DecoderConfig{
		DecodeHook: DecodeTimeString,
		Result:     &out,
	}
	decoder, err := mapstructure.NewDecoder(&config)
	if err != nil {
		return out, err
	}
	err = decoder.Decode(data)
	return out, err
}
