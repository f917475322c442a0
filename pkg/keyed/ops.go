package keyed

import (
	"github.com/go-drift/keyed/pkg/errors"
)

// Get reads the value stored under k.
//
// A missing entry yields the key's declared default for value-typed keys and
// the zero value for reference-typed keys; neither case is an error. A
// present-but-null entry reads as the container's zero for that type, per
// the locator protocol. Get fails only when the key's type cannot be
// dispatched or the slot holds a different type.
func Get[A any](c Container, k Key[A]) (A, error) {
	var zero A
	acc, err := lookupAccessor(k.typ)
	if err != nil {
		return zero, err
	}
	if !c.Has(k.name) {
		if k.hasDefault {
			return k.def, nil
		}
		return zero, nil
	}
	return read(c, k, acc, "keyed.Get")
}

// Require reads the value stored under k, failing with NotFoundError when
// the name is absent from the container entirely. A present-but-null entry
// is not an error: the read proceeds and yields the zero for reference
// types, answering "was the key declared at all" rather than "is it
// non-null".
func Require[A any](c Container, k Key[A]) (A, error) {
	var zero A
	acc, err := lookupAccessor(k.typ)
	if err != nil {
		return zero, err
	}
	if !c.Has(k.name) {
		return zero, &errors.NotFoundError{Key: k.name}
	}
	return read(c, k, acc, "keyed.Require")
}

// Lookup reads the value stored under k with comma-ok semantics: ok is true
// only when the entry is present and non-null. Absent and present-but-null
// both report false with no error.
func Lookup[A any](c Container, k Key[A]) (A, bool, error) {
	var zero A
	acc, err := lookupAccessor(k.typ)
	if err != nil {
		return zero, false, err
	}
	if !c.Has(k.name) || c.IsNull(k.name) {
		return zero, false, nil
	}
	v, err := read(c, k, acc, "keyed.Lookup")
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// Put writes v under k through the type-specific accessor. No validation is
// performed beyond what the container accessor itself does.
func Put[A any](c Container, k Key[A], v A) error {
	acc, err := lookupAccessor(k.typ)
	if err != nil {
		return err
	}
	return acc.write(c, k.name, v)
}

// PutOptional writes *v under k when v is non-nil and removes the entry when
// v is nil. Writing an absent value means deletion, not no-op, so a single
// call site covers both upsert and delete.
func PutOptional[A any](c Container, k Key[A], v *A) error {
	if v == nil {
		return Delete(c, k)
	}
	return Put(c, k, *v)
}

// Delete removes the entry named by k. Removing an absent entry is not an
// error.
func Delete[A any](c Container, k Key[A]) error {
	return c.Remove(k.name)
}

// Contains reports whether an entry named by k exists, independent of its
// type or nullness.
func Contains[A any](c Container, k Key[A]) bool {
	return c.Has(k.name)
}

func read[A any](c Container, k Key[A], acc accessor, op string) (A, error) {
	var zero A
	raw, err := acc.read(c, k.name)
	if err != nil {
		return zero, err
	}
	if raw == nil {
		// Null or zero-valued raw slot: reference categories read as absent.
		return zero, nil
	}
	return decode(op, k, raw)
}
