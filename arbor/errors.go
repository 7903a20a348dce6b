package arbor

import (
	"errors"
	"fmt"
)

// ErrNoKeyType is returned from constructors that require an item
// type name but were given an empty one.
var ErrNoKeyType = errors.New("Item type name cannot be empty")

// ErrGone is returned from Store.Update() and similar functions that
// address an item whose key exists but which has been deleted.
var ErrGone = errors.New("Item has been deleted")

// ErrNoSuchItem is returned by Store.Get() and similar functions that
// want to look up a single item, but cannot find it.
type ErrNoSuchItem struct {
	Key KeyRecord
}

func (err ErrNoSuchItem) Error() string {
	return fmt.Sprintf("No such item %v", err.Key)
}

// ErrNoSuchFinder is returned from find calls that name a finder the
// server has not registered for the item type.
type ErrNoSuchFinder struct {
	KeyType TypeName
	Name    string
}

func (err ErrNoSuchFinder) Error() string {
	return fmt.Sprintf("No such finder %q for %v", err.Name, err.KeyType)
}

// ErrNoSuchAction is returned from action calls that name an action
// the server has not registered for the item type.
type ErrNoSuchAction struct {
	KeyType TypeName
	Name    string
}

func (err ErrNoSuchAction) Error() string {
	return fmt.Sprintf("No such action %q for %v", err.Name, err.KeyType)
}

// ErrMissingLocation is returned from Store.Create() when a contained
// type is created without its full ancestor chain.
type ErrMissingLocation struct {
	KeyType TypeName
}

func (err ErrMissingLocation) Error() string {
	return fmt.Sprintf("Creating a %v requires its full ancestor chain", err.KeyType)
}
