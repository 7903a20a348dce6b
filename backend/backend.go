// Package backend provides a standard way to construct an arbor
// store based on command-line flags.
package backend

import (
	"errors"
	"strings"

	"github.com/treeline-io/go-arbor/arbor"
	"github.com/treeline-io/go-arbor/memory"
	"github.com/treeline-io/go-arbor/postgres"
)

// Backend describes user-visible parameters to store item data.
// This implements the flag.Value interface, and so a typical use is
//
//	func main() {
//	        backend := backend.Backend{Implementation: "memory"}
//	        flag.Var(&backend, "backend", "impl:address of item storage")
//	        flag.Parse()
//	        store, err := backend.Store(defs)
//	}
type Backend struct {
	// Implementation holds the name of the implementation;
	// "memory" or "postgres".
	Implementation string

	// Address holds some backend-specific address, such as a
	// database connect string.
	Address string
}

// Store creates a new item store for the hierarchy definitions in
// defs.  This generally should be only called once.  If the backend
// has in-process state, such as a database connection pool or an
// in-memory store, calling this multiple times will create multiple
// copies of that state.  In particular, if b.Implementation is
// "memory", multiple calls to this will create multiple independent
// item "worlds".
func (b *Backend) Store(defs []arbor.Definition) (arbor.Store, error) {
	switch b.Implementation {
	case "memory":
		return memory.New(defs)
	case "postgres":
		return postgres.New(b.Address, defs)
	default:
		return nil, errors.New("unknown backend " + b.Implementation)
	}
}

// String renders a backend description as a string.
func (b *Backend) String() string {
	if b.Address == "" {
		return b.Implementation
	}
	return b.Implementation + ":" + b.Address
}

// Set parses a string into an existing backend description.  The
// string should be of the form "implementation:address", where
// address can be any string.
//
// This is part of the flag.Value interface.  Note that Set does not
// attempt to validate the b.Address part of the string or attempt to
// actually make a connection; errors there surface from Store().
func (b *Backend) Set(param string) error {
	parts := strings.SplitN(param, ":", 2)
	b.Implementation = parts[0]
	if len(parts) > 1 {
		b.Address = parts[1]
	} else {
		b.Address = ""
	}
	switch b.Implementation {
	case "memory", "postgres":
		return nil
	default:
		return errors.New("unknown backend " + b.Implementation)
	}
}
