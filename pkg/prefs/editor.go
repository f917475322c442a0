package prefs

import (
	"sort"
	"sync"

	"github.com/go-drift/keyed/pkg/errors"
	"github.com/go-drift/keyed/pkg/extras"
	"github.com/go-drift/keyed/pkg/keyed"
)

// Editor stages changes to a Store and sends them in one commit. It
// implements the keyed locator protocol with read-your-writes semantics:
// staged entries shadow the store, staged removals read as absent.
//
// Editors are not safe for concurrent use with themselves; one goroutine
// per editor.
type Editor struct {
	store *Store

	mu       sync.Mutex
	buf      *extras.Bundle
	removed  map[string]bool
	clearAll bool
}

// Edit returns a fresh editor for the store.
func (s *Store) Edit() *Editor {
	return &Editor{
		store:   s,
		buf:     extras.New(),
		removed: make(map[string]bool),
	}
}

// Clear marks every entry existing before this commit for removal. Entries
// staged in this editor survive.
func (e *Editor) Clear() *Editor {
	e.mu.Lock()
	e.clearAll = true
	e.mu.Unlock()
	return e
}

// Commit sends the staged changes to the native side and, on success, folds
// them into the store's snapshot and resets the editor.
func (e *Editor) Commit() error {
	e.mu.Lock()
	removed := make([]string, 0, len(e.removed))
	for name := range e.removed {
		removed = append(removed, name)
	}
	sort.Strings(removed)
	args := map[string]any{
		"store":  e.store.name,
		"clear":  e.clearAll,
		"put":    e.buf.MarshalWire(),
		"remove": removed,
	}
	e.mu.Unlock()

	if _, err := channel.Invoke("commit", args); err != nil {
		return err
	}

	e.mu.Lock()
	e.store.mu.Lock()
	if e.clearAll {
		e.store.snapshot = extras.New()
	}
	for name := range e.removed {
		_ = e.store.snapshot.Remove(name)
	}
	e.store.snapshot.Merge(e.buf)
	e.buf = extras.New()
	e.removed = make(map[string]bool)
	e.clearAll = false
	e.store.mu.Unlock()
	e.mu.Unlock()
	return nil
}

// Apply commits in the background. Failures are reported through the global
// error handler rather than returned.
func (e *Editor) Apply() {
	submitApply(func() error {
		if err := e.Commit(); err != nil {
			errors.Report(&errors.Error{
				Op:   "prefs.Apply",
				Kind: errors.KindBridge,
				Err:  err,
			})
			return err
		}
		return nil
	})
}

// Has reports whether an entry exists, staged changes considered.
func (e *Editor) Has(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.buf.Has(name) {
		return true
	}
	if e.removed[name] || e.clearAll {
		return false
	}
	return e.store.Has(name)
}

// IsNull reports whether an entry holds an explicit null, staged changes
// considered.
func (e *Editor) IsNull(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.buf.Has(name) {
		return e.buf.IsNull(name)
	}
	if e.removed[name] || e.clearAll {
		return false
	}
	return e.store.IsNull(name)
}

// Remove stages a removal.
func (e *Editor) Remove(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_ = e.buf.Remove(name)
	e.removed[name] = true
	return nil
}

// WriteNull stages an explicit null entry.
func (e *Editor) WriteNull(name string) error {
	return e.stage(name, func(b *extras.Bundle) error { return b.WriteNull(name) })
}

func (e *Editor) stage(name string, write func(*extras.Bundle) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.removed, name)
	return write(e.buf)
}

func readEditor[T any](e *Editor, name string, read func(keyed.Container) (T, error)) (T, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.buf.Has(name) {
		return read(e.buf)
	}
	if e.removed[name] || e.clearAll {
		var zero T
		return zero, nil
	}
	return read(e.store)
}

func (e *Editor) ReadBool(name string) (bool, error) {
	return readEditor(e, name, func(c keyed.Container) (bool, error) { return c.ReadBool(name) })
}

func (e *Editor) ReadByte(name string) (byte, error) {
	return readEditor(e, name, func(c keyed.Container) (byte, error) { return c.ReadByte(name) })
}

func (e *Editor) ReadInt16(name string) (int16, error) {
	return readEditor(e, name, func(c keyed.Container) (int16, error) { return c.ReadInt16(name) })
}

func (e *Editor) ReadInt32(name string) (int32, error) {
	return readEditor(e, name, func(c keyed.Container) (int32, error) { return c.ReadInt32(name) })
}

func (e *Editor) ReadInt64(name string) (int64, error) {
	return readEditor(e, name, func(c keyed.Container) (int64, error) { return c.ReadInt64(name) })
}

func (e *Editor) ReadFloat32(name string) (float32, error) {
	return readEditor(e, name, func(c keyed.Container) (float32, error) { return c.ReadFloat32(name) })
}

func (e *Editor) ReadFloat64(name string) (float64, error) {
	return readEditor(e, name, func(c keyed.Container) (float64, error) { return c.ReadFloat64(name) })
}

func (e *Editor) ReadString(name string) (string, error) {
	return readEditor(e, name, func(c keyed.Container) (string, error) { return c.ReadString(name) })
}

func (e *Editor) ReadBytes(name string) ([]byte, error) {
	return readEditor(e, name, func(c keyed.Container) ([]byte, error) { return c.ReadBytes(name) })
}

func (e *Editor) ReadStringSlice(name string) ([]string, error) {
	return readEditor(e, name, func(c keyed.Container) ([]string, error) { return c.ReadStringSlice(name) })
}

func (e *Editor) ReadInt64Slice(name string) ([]int64, error) {
	return readEditor(e, name, func(c keyed.Container) ([]int64, error) { return c.ReadInt64Slice(name) })
}

func (e *Editor) ReadFloat64Slice(name string) ([]float64, error) {
	return readEditor(e, name, func(c keyed.Container) ([]float64, error) { return c.ReadFloat64Slice(name) })
}

func (e *Editor) ReadRaw(name string) (any, error) {
	return readEditor(e, name, func(c keyed.Container) (any, error) { return c.ReadRaw(name) })
}

func (e *Editor) WriteBool(name string, v bool) error {
	return e.stage(name, func(b *extras.Bundle) error { return b.WriteBool(name, v) })
}

func (e *Editor) WriteByte(name string, v byte) error {
	return e.stage(name, func(b *extras.Bundle) error { return b.WriteByte(name, v) })
}

func (e *Editor) WriteInt16(name string, v int16) error {
	return e.stage(name, func(b *extras.Bundle) error { return b.WriteInt16(name, v) })
}

func (e *Editor) WriteInt32(name string, v int32) error {
	return e.stage(name, func(b *extras.Bundle) error { return b.WriteInt32(name, v) })
}

func (e *Editor) WriteInt64(name string, v int64) error {
	return e.stage(name, func(b *extras.Bundle) error { return b.WriteInt64(name, v) })
}

func (e *Editor) WriteFloat32(name string, v float32) error {
	return e.stage(name, func(b *extras.Bundle) error { return b.WriteFloat32(name, v) })
}

func (e *Editor) WriteFloat64(name string, v float64) error {
	return e.stage(name, func(b *extras.Bundle) error { return b.WriteFloat64(name, v) })
}

func (e *Editor) WriteString(name string, v string) error {
	return e.stage(name, func(b *extras.Bundle) error { return b.WriteString(name, v) })
}

func (e *Editor) WriteBytes(name string, v []byte) error {
	return e.stage(name, func(b *extras.Bundle) error { return b.WriteBytes(name, v) })
}

func (e *Editor) WriteStringSlice(name string, v []string) error {
	return e.stage(name, func(b *extras.Bundle) error { return b.WriteStringSlice(name, v) })
}

func (e *Editor) WriteInt64Slice(name string, v []int64) error {
	return e.stage(name, func(b *extras.Bundle) error { return b.WriteInt64Slice(name, v) })
}

func (e *Editor) WriteFloat64Slice(name string, v []float64) error {
	return e.stage(name, func(b *extras.Bundle) error { return b.WriteFloat64Slice(name, v) })
}

func (e *Editor) WriteRaw(name string, t keyed.Type, v any) error {
	return e.stage(name, func(b *extras.Bundle) error { return b.WriteRaw(name, t, v) })
}

var _ keyed.Container = (*Editor)(nil)
