// Copyright 2025-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package itemdata

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"time"

	"github.com/satori/go.uuid"
	"github.com/ugorji/go/codec"

	"github.com/treeline-io/go-arbor/arbor"
)

// timeExt is a codec extension plugin to encode and decode time.Time
// values inside finder parameters.  Times cross the wire as RFC 3339
// strings under CBOR tag 0.
type timeExt struct{}

func (x timeExt) WriteExt(v interface{}) []byte {
	panic("timeExt.WriteExt not implemented")
}

func (x timeExt) ReadExt(v interface{}, data []byte) {
	panic("timeExt.ReadExt not implemented")
}

func (x timeExt) ConvertExt(v interface{}) interface{} {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	}
	panic(fmt.Sprintf("cannot encode %T as a timestamp", v))
}

func (x timeExt) UpdateExt(dest interface{}, v interface{}) {
	var s string
	switch sv := v.(type) {
	case string:
		s = sv
	case []byte:
		s = string(sv)
	default:
		panic(fmt.Sprintf("encoded timestamp must be a string, not %T", v))
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		panic(err)
	}
	tp := dest.(*time.Time)
	*tp = t
}

// uuidExt is a codec extension plugin to encode and decode UUID
// values inside finder parameters.
type uuidExt struct{}

func (x uuidExt) WriteExt(v interface{}) []byte {
	panic("uuidExt.WriteExt not implemented")
}

func (x uuidExt) ReadExt(v interface{}, data []byte) {
	panic("uuidExt.ReadExt not implemented")
}

func (x uuidExt) ConvertExt(v interface{}) interface{} {
	u := v.(uuid.UUID)
	return u.Bytes()
}

func (x uuidExt) UpdateExt(dest interface{}, v interface{}) {
	bytes := v.([]byte)
	if len(bytes) != 16 {
		panic("encoded UUID must have 16 bytes")
	}
	uuidp := dest.(*uuid.UUID)
	*uuidp = uuid.UUID{}
	copy(uuidp[:], bytes)
}

// SetExts sets up a CBOR codec to preserve the typed values that can
// appear in finder parameters but have no native CBOR representation.
func SetExts(cbor *codec.CborHandle) error {
	if err := cbor.SetExt(reflect.TypeOf(time.Time{}), 0, timeExt{}); err != nil {
		return err
	}
	return cbor.SetExt(reflect.TypeOf(uuid.UUID{}), 37, uuidExt{})
}

// EncodeFinderParams serializes a finder parameter map into the
// single string carried by the "finderParams" query parameter: the
// base64 encoding, using the URL-safe alphabet with no padding, of
// the map's CBOR encoding.  CBOR preserves the types of parameter
// values, which a flat query string could not.
func EncodeFinderParams(fp arbor.FinderParams) (string, error) {
	cborHandle := &codec.CborHandle{}
	if err := SetExts(cborHandle); err != nil {
		return "", err
	}
	var raw []byte
	encoder := codec.NewEncoderBytes(&raw, cborHandle)
	if err := encoder.Encode(map[string]interface{}(fp)); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeFinderParams is the dual of EncodeFinderParams().
func DecodeFinderParams(s string) (arbor.FinderParams, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	cborHandle := &codec.CborHandle{}
	if err := SetExts(cborHandle); err != nil {
		return nil, err
	}
	fp := make(map[string]interface{})
	decoder := codec.NewDecoderBytes(raw, cborHandle)
	if err := decoder.Decode(&fp); err != nil {
		return nil, err
	}
	for key, value := range fp {
		fp[key] = cleanValue(value)
	}
	return arbor.FinderParams(fp), nil
}

// cleanValue normalizes a decoded CBOR value.  The codec library
// decodes nested maps as map[interface{}]interface{}; finder
// parameter maps always have string keys, so rebuild them as
// string-keyed maps for the benefit of anything that walks the
// result.
func cleanValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[interface{}]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, inner := range v {
			keyAsString, ok := key.(string)
			if !ok {
				// not string keyed after all; leave it be
				return value
			}
			result[keyAsString] = cleanValue(inner)
		}
		return result
	case map[string]interface{}:
		for key, inner := range v {
			v[key] = cleanValue(inner)
		}
		return v
	case []interface{}:
		for i, inner := range v {
			v[i] = cleanValue(inner)
		}
		return v
	}
	return value
}
