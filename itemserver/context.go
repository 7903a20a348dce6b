// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package itemserver

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/treeline-io/go-arbor/arbor"
	"github.com/treeline-io/go-arbor/itemdata"
)

// errUnmarshal is returned if the put/post contract is violated and
// a handler function is passed the wrong type.
var errUnmarshal = itemdata.ErrBadRequest{
	Err: errors.New("Invalid input format"),
}

// reqContext holds all of the information that can be extracted from
// URL parameters: the ancestor chain the route scopes, the addressed
// item's key if the route names one, and an action name if the route
// names that.
type reqContext struct {
	req         *http.Request
	Loc         arbor.LocKeyArray
	Key         arbor.Key
	Action      string
	QueryParams url.Values
}

// Context decodes mux URL variables into a request context.  The
// route's static segments already pin the ancestor types, so the
// variables only carry identifiers; the resource's depth says how
// many there are.
func (res *itemResource) Context(req *http.Request) (ctx *reqContext, err error) {
	ctx = &reqContext{req: req}
	ctx.QueryParams = req.URL.Query()
	vars := mux.Vars(req)

	ancestors := res.builder.AncestorTypes()
	for i := 0; i < res.depth; i++ {
		lk, present := vars[locVar(i)]
		if !present {
			return nil, itemdata.ErrBadRequest{
				Err: errors.New("Missing ancestor identifier"),
			}
		}
		ctx.Loc = append(ctx.Loc, arbor.LocKey{
			KT: ancestors[i],
			LK: arbor.Identifier(lk),
		})
	}

	if pk, present := vars["pk"]; present {
		ctx.Key = res.key(arbor.Identifier(pk), ctx.Loc)
	}

	if action, present := vars["action"]; present {
		ctx.Action = action
	}

	return ctx, nil
}

// key builds the typed key for one item of this resource's type.
// Root types take a PriKey; contained types take a ComKey whose
// chain is whatever root-aligned prefix the route carried.
func (res *itemResource) key(pk arbor.Identifier, loc arbor.LocKeyArray) arbor.Key {
	if res.builder.Depth() == 0 {
		return arbor.PriKey{KT: res.builder.KeyType(), PK: pk}
	}
	return arbor.ComKey{KT: res.builder.KeyType(), PK: pk, Loc: loc}
}

// ItemQuery builds an item query from the "limit" and "offset" query
// parameters.  This can fail on non-integer values, so it should
// only be called by routes that want it.
func (ctx *reqContext) ItemQuery() (q arbor.ItemQuery, err error) {
	if limit := ctx.QueryParams.Get("limit"); limit != "" {
		q.Limit, err = strconv.Atoi(limit)
		if err != nil {
			return q, itemdata.ErrBadRequest{Err: err}
		}
	}
	if offset := ctx.QueryParams.Get("offset"); offset != "" {
		q.Offset, err = strconv.Atoi(offset)
		if err != nil {
			return q, itemdata.ErrBadRequest{Err: err}
		}
	}
	return q, nil
}

// FinderParams decodes the "finderParams" query parameter, if
// present.  See itemdata.DecodeFinderParams for the encoding.
func (ctx *reqContext) FinderParams() (arbor.FinderParams, error) {
	encoded := ctx.QueryParams.Get("finderParams")
	if encoded == "" {
		return arbor.FinderParams{}, nil
	}
	fp, err := itemdata.DecodeFinderParams(encoded)
	if err != nil {
		return nil, itemdata.ErrBadRequest{Err: err}
	}
	return fp, nil
}
