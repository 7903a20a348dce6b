// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package keypath

import (
	"strings"
	"testing"

	"github.com/treeline-io/go-arbor/arbor"
)

var orderStepNames = []string{"orders", "orderPhases", "orderSteps"}

func stepBuilder(t *testing.T) *Builder {
	b, err := New("orderStep", orderStepNames)
	if err != nil {
		t.Fatalf("New(orderStep) => error %v", err)
	}
	return b
}

func TestCollectionPaths(t *testing.T) {
	b := stepBuilder(t)
	tests := []struct {
		name string
		loc  arbor.LocKeyArray
		path string
	}{
		{"empty", nil, "/orderSteps"},
		{"grandparent", arbor.LocKeyArray{
			{KT: "order", LK: "26513"},
		}, "/orders/26513/orderSteps"},
		{"full", arbor.LocKeyArray{
			{KT: "order", LK: "26513"},
			{KT: "orderPhase", LK: "25826"},
		}, "/orders/26513/orderPhases/25826/orderSteps"},
	}
	for _, test := range tests {
		path, err := b.Path(test.loc)
		if err != nil {
			t.Errorf("Path(%s) => error %v", test.name, err)
		} else if path != test.path {
			t.Errorf("Path(%s) => %q, want %q",
				test.name, path, test.path)
		}
	}
}

func TestComKeyPath(t *testing.T) {
	b := stepBuilder(t)
	key := arbor.ComKey{
		KT: "orderStep",
		PK: "25825",
		Loc: arbor.LocKeyArray{
			{KT: "order", LK: "26513"},
			{KT: "orderPhase", LK: "25826"},
		},
	}
	path, err := b.Path(key)
	if err != nil {
		t.Errorf("Path(ComKey) => error %v", err)
	} else if path != "/orders/26513/orderPhases/25826/orderSteps/25825" {
		t.Errorf("Path(ComKey) => %q", path)
	}
}

func TestComKeyPrefixPath(t *testing.T) {
	b := stepBuilder(t)
	key := arbor.ComKey{
		KT: "orderStep",
		PK: "25825",
		Loc: arbor.LocKeyArray{
			{KT: "order", LK: "26513"},
		},
	}
	path, err := b.Path(key)
	if err != nil {
		t.Errorf("Path(prefix ComKey) => error %v", err)
	} else if path != "/orders/26513/orderSteps/25825" {
		t.Errorf("Path(prefix ComKey) => %q", path)
	}
}

func TestPriKeyIgnoresAncestors(t *testing.T) {
	// A root-type key renders the same whether or not the builder
	// knows about ancestor levels.
	b := stepBuilder(t)
	path, err := b.Path(arbor.PriKey{KT: "orderStep", PK: "25825"})
	if err != nil {
		t.Errorf("Path(PriKey) => error %v", err)
	} else if path != "/orderSteps/25825" {
		t.Errorf("Path(PriKey) => %q, want %q",
			path, "/orderSteps/25825")
	}

	root, err := New("order", []string{"orders"})
	if err != nil {
		t.Fatalf("New(order) => error %v", err)
	}
	path, err = root.Path(arbor.PriKey{KT: "order", PK: "26513"})
	if err != nil {
		t.Errorf("Path(PriKey) => error %v", err)
	} else if path != "/orders/26513" {
		t.Errorf("Path(PriKey) => %q, want %q", path, "/orders/26513")
	}
}

func TestOrderingViolations(t *testing.T) {
	b := stepBuilder(t)
	tests := []struct {
		name      string
		loc       arbor.LocKeyArray
		offending arbor.TypeName
		level     int
	}{
		{"reversed", arbor.LocKeyArray{
			{KT: "orderPhase", LK: "25826"},
			{KT: "order", LK: "26513"},
		}, "orderPhase", 0},
		{"child first", arbor.LocKeyArray{
			{KT: "orderPhase", LK: "25826"},
		}, "orderPhase", 0},
		{"skipped root", arbor.LocKeyArray{
			{KT: "order", LK: "26513"},
			{KT: "order", LK: "26513"},
		}, "order", 1},
		{"foreign type", arbor.LocKeyArray{
			{KT: "warehouse", LK: "9"},
		}, "warehouse", 0},
		{"too deep", arbor.LocKeyArray{
			{KT: "order", LK: "1"},
			{KT: "orderPhase", LK: "2"},
			{KT: "orderStep", LK: "3"},
		}, "orderStep", 2},
	}
	for _, test := range tests {
		path, err := b.Path(test.loc)
		if err == nil {
			t.Errorf("Path(%s) => %q, want ordering error",
				test.name, path)
			continue
		}
		oe, ok := err.(OrderingError)
		if !ok {
			t.Errorf("Path(%s) => error %v, want OrderingError",
				test.name, err)
			continue
		}
		if oe.Got[oe.Level] != test.offending {
			t.Errorf("Path(%s) => offending %v, want %v",
				test.name, oe.Got[oe.Level], test.offending)
		}
		if oe.Level != test.level {
			t.Errorf("Path(%s) => level %d, want %d",
				test.name, oe.Level, test.level)
		}
		if !strings.Contains(err.Error(), "parent to child") {
			t.Errorf("Path(%s) => %q, want mention of parent to child",
				test.name, err.Error())
		}
		if !strings.Contains(err.Error(), string(test.offending)) {
			t.Errorf("Path(%s) => %q, want mention of %v",
				test.name, err.Error(), test.offending)
		}
	}
}

func TestOrderingErrorMessage(t *testing.T) {
	b := stepBuilder(t)
	_, err := b.Path(arbor.LocKeyArray{
		{KT: "orderPhase", LK: "25826"},
		{KT: "order", LK: "26513"},
	})
	if err == nil {
		t.Fatal("Path(reversed) => no error")
	}
	want := "Location keys must be ordered parent to child: orderStep expects order at level 0, got orderPhase"
	if err.Error() != want {
		t.Errorf("Path(reversed) => %q, want %q", err.Error(), want)
	}
}

func TestValidationComesFirst(t *testing.T) {
	// A bad chain on a ComKey fails the same way as the bare chain;
	// the item's own identifier never rescues it.
	b := stepBuilder(t)
	_, err := b.Path(arbor.ComKey{
		KT: "orderStep",
		PK: "25825",
		Loc: arbor.LocKeyArray{
			{KT: "orderPhase", LK: "25826"},
			{KT: "order", LK: "26513"},
		},
	})
	if _, ok := err.(OrderingError); !ok {
		t.Errorf("Path(bad ComKey) => %v, want OrderingError", err)
	}
}

func TestWrongKeyType(t *testing.T) {
	b := stepBuilder(t)
	_, err := b.Path(arbor.PriKey{KT: "order", PK: "26513"})
	if _, ok := err.(ErrWrongKeyType); !ok {
		t.Errorf("Path(order key) => %v, want ErrWrongKeyType", err)
	}
}

func TestDeterminism(t *testing.T) {
	b := stepBuilder(t)
	loc := arbor.LocKeyArray{
		{KT: "order", LK: "26513"},
		{KT: "orderPhase", LK: "25826"},
	}
	first, err := b.Path(loc)
	if err != nil {
		t.Fatalf("Path() => error %v", err)
	}
	second, err := b.Path(loc)
	if err != nil {
		t.Fatalf("Path() => error %v", err)
	}
	if first != second {
		t.Errorf("Path() => %q then %q", first, second)
	}
}

func TestFiveLevels(t *testing.T) {
	names := []string{"regions", "sites", "racks", "shelves", "bins", "parts"}
	ancestors := []arbor.TypeName{"region", "site", "rack", "shelf", "bin"}
	b, err := NewWithAncestors("part", names, ancestors)
	if err != nil {
		t.Fatalf("NewWithAncestors(part) => error %v", err)
	}

	full := arbor.LocKeyArray{
		{KT: "region", LK: "eu"},
		{KT: "site", LK: "ams1"},
		{KT: "rack", LK: "12"},
		{KT: "shelf", LK: "3"},
		{KT: "bin", LK: "44"},
	}
	for depth := 0; depth <= len(full); depth++ {
		path, err := b.Path(full[:depth])
		if err != nil {
			t.Errorf("Path(depth %d) => error %v", depth, err)
			continue
		}
		// Each path extends the previous one and ends at the
		// leaf collection.
		if !strings.HasSuffix(path, "/parts") {
			t.Errorf("Path(depth %d) => %q", depth, path)
		}
		if strings.Count(path, "/") != 2*depth+1 {
			t.Errorf("Path(depth %d) => %q, want %d segments",
				depth, path, 2*depth+1)
		}
	}

	key := arbor.ComKey{KT: "part", PK: "p-9", Loc: full}
	path, err := b.Path(key)
	if err != nil {
		t.Fatalf("Path(part key) => error %v", err)
	}
	want := "/regions/eu/sites/ams1/racks/12/shelves/3/bins/44/parts/p-9"
	if path != want {
		t.Errorf("Path(part key) => %q, want %q", path, want)
	}
}

func TestDerivedAncestors(t *testing.T) {
	b, err := New("orderStep", orderStepNames)
	if err != nil {
		t.Fatalf("New() => error %v", err)
	}
	kts := b.AncestorTypes()
	if len(kts) != 2 || kts[0] != "order" || kts[1] != "orderPhase" {
		t.Errorf("AncestorTypes() => %v", kts)
	}
}

func TestNewFromDefinition(t *testing.T) {
	// "inventories" does not singularize by trimming "s", so the
	// definition names its ancestor types explicitly.
	def := arbor.Definition{
		KeyType:       "lot",
		PathNames:     []string{"inventories", "lots"},
		AncestorTypes: []arbor.TypeName{"inventory"},
	}
	b, err := NewFromDefinition(def)
	if err != nil {
		t.Fatalf("NewFromDefinition() => error %v", err)
	}
	path, err := b.Path(arbor.LocKeyArray{{KT: "inventory", LK: "7"}})
	if err != nil {
		t.Errorf("Path() => error %v", err)
	} else if path != "/inventories/7/lots" {
		t.Errorf("Path() => %q", path)
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New("", []string{"orders"}); err != arbor.ErrNoKeyType {
		t.Errorf("New(no key type) => %v", err)
	}
	if _, err := New("order", nil); err != ErrNoPathNames {
		t.Errorf("New(no path names) => %v", err)
	}
	if _, err := New("order", []string{"orders", ""}); err != ErrEmptyPathName {
		t.Errorf("New(empty path name) => %v", err)
	}
	_, err := NewWithAncestors("orderStep", orderStepNames,
		[]arbor.TypeName{"order"})
	if err != ErrAncestorCount {
		t.Errorf("NewWithAncestors(short ancestors) => %v", err)
	}
}

func TestBuilderIsImmutable(t *testing.T) {
	b := stepBuilder(t)
	names := b.PathNames()
	names[0] = "mutated"
	kts := b.AncestorTypes()
	kts[0] = "mutated"
	path, err := b.Path(arbor.LocKeyArray{{KT: "order", LK: "1"}})
	if err != nil {
		t.Fatalf("Path() => error %v", err)
	}
	if path != "/orders/1/orderSteps" {
		t.Errorf("Path() after caller mutation => %q", path)
	}
}
