// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package itemclient

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treeline-io/go-arbor/arbor"
	"github.com/treeline-io/go-arbor/httpapi"
	"github.com/treeline-io/go-arbor/itemdata"
	"github.com/treeline-io/go-arbor/keypath"
)

// call records one request as seen at the transport boundary.
type call struct {
	method string
	path   string
	body   interface{}
	params map[string]string
	header http.Header
}

// fakeRequestor is a Requestor that records every call and, when
// result is set, deposits it into the out parameter.
type fakeRequestor struct {
	calls  []call
	result interface{}
	err    error
}

func (f *fakeRequestor) record(method, path string, in, out interface{}, opts []httpapi.RequestOption) error {
	r := httpapi.NewRequest(opts)
	f.calls = append(f.calls, call{
		method: method,
		path:   path,
		body:   in,
		params: r.Params,
		header: r.Header,
	})
	if f.err != nil {
		return f.err
	}
	if out != nil && f.result != nil {
		reflect.ValueOf(out).Elem().Set(reflect.ValueOf(f.result))
	}
	return nil
}

func (f *fakeRequestor) Get(ctx context.Context, path string, out interface{}, opts ...httpapi.RequestOption) error {
	return f.record("GET", path, nil, out, opts)
}

func (f *fakeRequestor) Post(ctx context.Context, path string, in, out interface{}, opts ...httpapi.RequestOption) error {
	return f.record("POST", path, in, out, opts)
}

func (f *fakeRequestor) Put(ctx context.Context, path string, in, out interface{}, opts ...httpapi.RequestOption) error {
	return f.record("PUT", path, in, out, opts)
}

func (f *fakeRequestor) Delete(ctx context.Context, path string, out interface{}, opts ...httpapi.RequestOption) error {
	return f.record("DELETE", path, nil, out, opts)
}

func (f *fakeRequestor) last(t *testing.T) call {
	t.Helper()
	require.NotEmpty(t, f.calls, "no request was made")
	return f.calls[len(f.calls)-1]
}

var stepPathNames = []string{"orders", "orderPhases", "orderSteps"}

func stepClient(t *testing.T, rq httpapi.Requestor, defaults ...httpapi.RequestOption) *PItem {
	t.Helper()
	p, err := NewPItem(rq, "orderStep", stepPathNames, defaults...)
	require.NoError(t, err)
	return p
}

func stepKey() arbor.ComKey {
	return arbor.ComKey{
		KT: "orderStep",
		PK: "25825",
		Loc: arbor.LocKeyArray{
			{KT: "order", LK: "26513"},
			{KT: "orderPhase", LK: "25826"},
		},
	}
}

func stepLoc() arbor.LocKeyArray {
	return arbor.LocKeyArray{
		{KT: "order", LK: "26513"},
		{KT: "orderPhase", LK: "25826"},
	}
}

func sampleItem(key arbor.Key) arbor.Item {
	when := time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC)
	return arbor.Item{
		Key:    arbor.NewKeyRecord(key),
		Data:   arbor.DataDict{"status": "open"},
		Events: arbor.ItemEvents{Created: arbor.Event{At: &when}},
	}
}

func TestGet(t *testing.T) {
	rq := &fakeRequestor{result: sampleItem(stepKey())}
	p := stepClient(t, rq)

	item, err := p.Get(context.Background(), stepKey())
	require.NoError(t, err)

	got := rq.last(t)
	assert.Equal(t, "GET", got.method)
	assert.Equal(t, "/orders/26513/orderPhases/25826/orderSteps/25825", got.path)
	assert.Empty(t, got.params)
	assert.Equal(t, arbor.NewKeyRecord(stepKey()), item.Key)
	assert.Equal(t, arbor.DataDict{"status": "open"}, item.Data)
}

func TestGetRootKey(t *testing.T) {
	rq := &fakeRequestor{result: sampleItem(arbor.PriKey{KT: "order", PK: "26513"})}
	p, err := NewPItem(rq, "order", []string{"orders"})
	require.NoError(t, err)

	_, err = p.Get(context.Background(), arbor.PriKey{KT: "order", PK: "26513"})
	require.NoError(t, err)
	assert.Equal(t, "/orders/26513", rq.last(t).path)
}

func TestGetOrderingError(t *testing.T) {
	rq := &fakeRequestor{}
	p := stepClient(t, rq)

	// Reversed ancestor chain: child before parent.
	key := stepKey()
	key.Loc[0], key.Loc[1] = key.Loc[1], key.Loc[0]

	_, err := p.Get(context.Background(), key)
	var ordErr keypath.OrderingError
	require.ErrorAs(t, err, &ordErr)
	assert.Equal(t, 0, ordErr.Level)
	assert.Equal(t, []arbor.TypeName{"order", "orderPhase"}, ordErr.Expected)
	assert.Empty(t, rq.calls, "invalid keys must not reach the transport")
}

func TestGetWrongKeyType(t *testing.T) {
	rq := &fakeRequestor{}
	p := stepClient(t, rq)

	_, err := p.Get(context.Background(), arbor.PriKey{KT: "order", PK: "26513"})
	var wrongType keypath.ErrWrongKeyType
	require.ErrorAs(t, err, &wrongType)
	assert.Equal(t, arbor.TypeName("orderStep"), wrongType.Expected)
	assert.Empty(t, rq.calls)
}

func TestAll(t *testing.T) {
	rq := &fakeRequestor{result: itemdata.ItemList{Items: []arbor.Item{sampleItem(stepKey())}}}
	p := stepClient(t, rq)

	items, err := p.All(context.Background(), arbor.ItemQuery{}, stepLoc())
	require.NoError(t, err)
	require.Len(t, items, 1)

	got := rq.last(t)
	assert.Equal(t, "GET", got.method)
	assert.Equal(t, "/orders/26513/orderPhases/25826/orderSteps", got.path)
	assert.Empty(t, got.params)
}

func TestAllQuery(t *testing.T) {
	rq := &fakeRequestor{result: itemdata.ItemList{}}
	p := stepClient(t, rq)

	_, err := p.All(context.Background(), arbor.ItemQuery{Limit: 10, Offset: 20}, stepLoc())
	require.NoError(t, err)

	got := rq.last(t)
	assert.Equal(t, map[string]string{"limit": "10", "offset": "20"}, got.params)
}

func TestAllPartialLocation(t *testing.T) {
	rq := &fakeRequestor{result: itemdata.ItemList{}}
	p := stepClient(t, rq)

	// A root-aligned prefix of the chain scopes to a wider
	// collection.
	_, err := p.All(context.Background(), arbor.ItemQuery{},
		arbor.LocKeyArray{{KT: "order", LK: "26513"}})
	require.NoError(t, err)
	assert.Equal(t, "/orders/26513/orderSteps", rq.last(t).path)

	_, err = p.All(context.Background(), arbor.ItemQuery{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "/orderSteps", rq.last(t).path)
}

func TestAllReorderedLocation(t *testing.T) {
	rq := &fakeRequestor{}
	p := stepClient(t, rq)

	_, err := p.All(context.Background(), arbor.ItemQuery{},
		arbor.LocKeyArray{{KT: "orderPhase", LK: "25826"}})
	var ordErr keypath.OrderingError
	assert.ErrorAs(t, err, &ordErr)
	assert.Empty(t, rq.calls)
}

func TestOne(t *testing.T) {
	first := sampleItem(stepKey())
	rq := &fakeRequestor{result: itemdata.ItemList{Items: []arbor.Item{
		first,
		sampleItem(arbor.ComKey{KT: "orderStep", PK: "25831", Loc: stepLoc()}),
	}}}
	p := stepClient(t, rq)

	item, err := p.One(context.Background(), arbor.ItemQuery{}, stepLoc())
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, first.Key, item.Key)
}

func TestOneEmpty(t *testing.T) {
	rq := &fakeRequestor{result: itemdata.ItemList{}}
	p := stepClient(t, rq)

	item, err := p.One(context.Background(), arbor.ItemQuery{}, stepLoc())
	assert.NoError(t, err)
	assert.Nil(t, item)
}

func TestCreate(t *testing.T) {
	rq := &fakeRequestor{result: sampleItem(stepKey())}
	p := stepClient(t, rq)

	data := arbor.DataDict{"status": "open"}
	item, err := p.Create(context.Background(), data, stepLoc())
	require.NoError(t, err)

	got := rq.last(t)
	assert.Equal(t, "POST", got.method)
	assert.Equal(t, "/orders/26513/orderPhases/25826/orderSteps", got.path)
	assert.Equal(t, data, got.body)
	assert.Equal(t, arbor.Identifier("25825"), item.Key.PK)
	assert.NotNil(t, item.Events.Created.At)
}

func TestUpdate(t *testing.T) {
	rq := &fakeRequestor{result: sampleItem(stepKey())}
	p := stepClient(t, rq)

	data := arbor.DataDict{"status": "held"}
	_, err := p.Update(context.Background(), stepKey(), data)
	require.NoError(t, err)

	got := rq.last(t)
	assert.Equal(t, "PUT", got.method)
	assert.Equal(t, "/orders/26513/orderPhases/25826/orderSteps/25825", got.path)
	assert.Equal(t, data, got.body)
}

func TestRemove(t *testing.T) {
	rq := &fakeRequestor{result: itemdata.Deleted{Deleted: true}}
	p := stepClient(t, rq)

	deleted, err := p.Remove(context.Background(), stepKey())
	require.NoError(t, err)
	assert.True(t, deleted)

	got := rq.last(t)
	assert.Equal(t, "DELETE", got.method)
	assert.Equal(t, "/orders/26513/orderPhases/25826/orderSteps/25825", got.path)

	rq.result = itemdata.Deleted{}
	deleted, err = p.Remove(context.Background(), stepKey())
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestAction(t *testing.T) {
	rq := &fakeRequestor{result: sampleItem(stepKey())}
	p := stepClient(t, rq)

	body := map[string]interface{}{"reason": "inspection"}
	_, err := p.Action(context.Background(), stepKey(), "hold", body)
	require.NoError(t, err)

	got := rq.last(t)
	assert.Equal(t, "POST", got.method)
	assert.Equal(t, "/orders/26513/orderPhases/25826/orderSteps/25825/hold", got.path)
	assert.Equal(t, body, got.body)
}

func TestAllAction(t *testing.T) {
	rq := &fakeRequestor{result: itemdata.ItemList{Items: []arbor.Item{sampleItem(stepKey())}}}
	p := stepClient(t, rq)

	items, err := p.AllAction(context.Background(), "release", nil, stepLoc())
	require.NoError(t, err)
	assert.Len(t, items, 1)

	got := rq.last(t)
	assert.Equal(t, "POST", got.method)
	assert.Equal(t, "/orders/26513/orderPhases/25826/orderSteps/release", got.path)
	assert.Nil(t, got.body)
}

func TestFind(t *testing.T) {
	rq := &fakeRequestor{result: itemdata.ItemList{}}
	p := stepClient(t, rq)

	fp := arbor.FinderParams{"status": "open", "pieces": 42}
	_, err := p.Find(context.Background(), "byStatus", fp, stepLoc())
	require.NoError(t, err)

	got := rq.last(t)
	assert.Equal(t, "GET", got.method)
	assert.Equal(t, "/orders/26513/orderPhases/25826/orderSteps", got.path)
	assert.Equal(t, "byStatus", got.params["finder"])

	// The parameter map rides in a single opaque query value and
	// must survive the trip.
	decoded, err := itemdata.DecodeFinderParams(got.params["finderParams"])
	require.NoError(t, err)
	assert.Equal(t, "open", decoded["status"])
	assert.EqualValues(t, 42, decoded["pieces"])
}

func TestRequestError(t *testing.T) {
	transportErr := errors.New("connection refused")
	rq := &fakeRequestor{err: transportErr}
	p := stepClient(t, rq)

	_, err := p.Get(context.Background(), stepKey())
	assert.ErrorIs(t, err, transportErr)

	_, err = p.All(context.Background(), arbor.ItemQuery{}, stepLoc())
	assert.ErrorIs(t, err, transportErr)

	_, err = p.Create(context.Background(), nil, stepLoc())
	assert.ErrorIs(t, err, transportErr)
}

func TestDefaultOptions(t *testing.T) {
	rq := &fakeRequestor{result: itemdata.ItemList{}}
	p := stepClient(t, rq,
		httpapi.WithParam("tenant", "acme"),
		httpapi.WithHeader("Authorization", "Bearer sekrit"))

	_, err := p.All(context.Background(), arbor.ItemQuery{}, stepLoc(),
		httpapi.WithParam("limit", "5"))
	require.NoError(t, err)

	got := rq.last(t)
	assert.Equal(t, "acme", got.params["tenant"])
	assert.Equal(t, "5", got.params["limit"])
	assert.Equal(t, "Bearer sekrit", got.header.Get("Authorization"))
}

func TestDefaultsOverridden(t *testing.T) {
	rq := &fakeRequestor{result: itemdata.ItemList{}}
	p := stepClient(t, rq, httpapi.WithParam("limit", "100"))

	_, err := p.All(context.Background(), arbor.ItemQuery{Limit: 5}, stepLoc())
	require.NoError(t, err)
	assert.Equal(t, "5", rq.last(t).params["limit"])
}

func TestNewPItemBadConfig(t *testing.T) {
	rq := &fakeRequestor{}
	_, err := NewPItem(rq, "", []string{"orders"})
	assert.Error(t, err)

	_, err = NewPItem(rq, "order", nil)
	assert.Error(t, err)
}

func TestPathNamesIsolated(t *testing.T) {
	rq := &fakeRequestor{}
	p := stepClient(t, rq)

	names := p.PathNames()
	names[0] = "mangled"
	assert.Equal(t, stepPathNames, p.PathNames())
}
