// Package guard holds the constructor guard shared by commands and aggregates.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as built by its constructor. Embedding it in a
// struct lets Validate tell a constructed value from a zero value, so a command
// assembled with a struct literal is rejected before a handler touches storage.
//
// Example:
//
//	var ErrCheckLinksCommandIsNotConstructed = errors.New("CheckLinksCommand must be created via NewCheckLinksCommand")
//
//	type CheckLinksCommand struct {
//	    guard guard.ConstructorGuard
//	}
//
//	func NewCheckLinksCommand() CheckLinksCommand {
//	    return CheckLinksCommand{guard: guard.NewConstructorGuard()}
//	}
//
//	func (c CheckLinksCommand) Validate() error {
//	    return c.guard.Validate(ErrCheckLinksCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that reports the owner as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. For a zero value it returns
// validationError, or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
