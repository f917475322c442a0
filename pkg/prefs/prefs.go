// Package prefs wraps the platform's persistent key-value settings stores.
//
// A Store keeps an in-memory snapshot loaded from the native side; reads are
// served from the snapshot, and writes go through to native immediately. Use
// an Editor to batch several changes into a single commit, and Watch to
// observe changes made elsewhere.
package prefs

import (
	stderrors "errors"
	"sync"

	"github.com/go-drift/keyed/pkg/bridge"
	"github.com/go-drift/keyed/pkg/errors"
	"github.com/go-drift/keyed/pkg/exec"
	"github.com/go-drift/keyed/pkg/extras"
	"github.com/go-drift/keyed/pkg/keyed"
	"github.com/go-drift/keyed/pkg/sdk"
)

var (
	channel = bridge.NewMethodChannel("keyed/preferences")
	changes = bridge.NewEventChannel("keyed/preferences/changed")
)

// ErrDeviceProtectedUnsupported is returned by OpenDeviceProtected on OS
// versions without device-protected storage.
var ErrDeviceProtectedUnsupported = stderrors.New("prefs: device-protected storage requires OS 7 or newer")

// Store is a named preferences store. It implements the keyed locator
// protocol, so typed keys read and write it directly.
type Store struct {
	name string

	mu       sync.RWMutex
	snapshot *extras.Bundle
}

// Open loads the named store's contents and returns a Store backed by them.
func Open(name string) (*Store, error) {
	return open(name, "load")
}

// OpenDeviceProtected is like Open but uses device-protected storage, which
// is available before the user unlocks the device. It requires OS version 7
// or newer and returns ErrDeviceProtectedUnsupported otherwise.
func OpenDeviceProtected(name string) (*Store, error) {
	if !sdk.AtLeast("7") {
		return nil, ErrDeviceProtectedUnsupported
	}
	return open(name, "loadDeviceProtected")
}

func open(name, method string) (*Store, error) {
	result, err := channel.Invoke(method, map[string]any{"store": name})
	if err != nil {
		return nil, err
	}
	snapshot := extras.New()
	if wire := bridge.Map(bridge.Map(result)["entries"]); wire != nil {
		snapshot, err = extras.UnmarshalWire(wire)
		if err != nil {
			return nil, err
		}
	}
	return &Store{name: name, snapshot: snapshot}, nil
}

// Name returns the store's name.
func (s *Store) Name() string {
	return s.name
}

// Watch subscribes to changes made to this store, including changes
// committed by other components. The callback receives the changed entry
// name; the snapshot is updated before the callback runs.
func (s *Store) Watch(fn func(name string)) *bridge.Subscription {
	return changes.Listen(bridge.EventHandler{
		OnEvent: func(data any) {
			m := bridge.Map(data)
			if m == nil || bridge.String(m["store"]) != s.name {
				return
			}
			name := bridge.String(m["name"])
			if name == "" {
				return
			}
			s.mu.Lock()
			if bridge.Bool(m["removed"]) {
				_ = s.snapshot.Remove(name)
			} else if err := s.snapshot.UnmarshalWireEntry(name, m["entry"]); err != nil {
				s.mu.Unlock()
				errors.Report(&errors.Error{
					Op:      "prefs.Watch",
					Kind:    errors.KindParsing,
					Key:     name,
					Channel: changes.Name(),
					Err:     err,
				})
				return
			}
			s.mu.Unlock()
			fn(name)
		},
	})
}

// Has reports whether an entry exists, null or not.
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Has(name)
}

// IsNull reports whether an entry exists and holds an explicit null.
func (s *Store) IsNull(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.IsNull(name)
}

// Remove deletes an entry on the native side and then locally. A native
// failure leaves the snapshot untouched.
func (s *Store) Remove(name string) error {
	if _, err := channel.Invoke("remove", map[string]any{"store": s.name, "name": name}); err != nil {
		return err
	}
	s.mu.Lock()
	_ = s.snapshot.Remove(name)
	s.mu.Unlock()
	return nil
}

// WriteNull stores an explicit null entry.
func (s *Store) WriteNull(name string) error {
	return s.writeThrough(name, func(b *extras.Bundle) error { return b.WriteNull(name) })
}

// writeThrough stages the write, pushes the single entry to native, and
// folds it into the snapshot only once native accepts it. A native failure
// leaves the snapshot untouched.
func (s *Store) writeThrough(name string, write func(*extras.Bundle) error) error {
	staged := extras.New()
	if err := write(staged); err != nil {
		return err
	}

	_, err := channel.Invoke("put", map[string]any{
		"store": s.name,
		"name":  name,
		"entry": staged.MarshalWireEntry(name),
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshot.Merge(staged)
	s.mu.Unlock()
	return nil
}

func readStore[T any](s *Store, read func(*extras.Bundle) (T, error)) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return read(s.snapshot)
}

func (s *Store) ReadBool(name string) (bool, error) {
	return readStore(s, func(b *extras.Bundle) (bool, error) { return b.ReadBool(name) })
}

func (s *Store) ReadByte(name string) (byte, error) {
	return readStore(s, func(b *extras.Bundle) (byte, error) { return b.ReadByte(name) })
}

func (s *Store) ReadInt16(name string) (int16, error) {
	return readStore(s, func(b *extras.Bundle) (int16, error) { return b.ReadInt16(name) })
}

func (s *Store) ReadInt32(name string) (int32, error) {
	return readStore(s, func(b *extras.Bundle) (int32, error) { return b.ReadInt32(name) })
}

func (s *Store) ReadInt64(name string) (int64, error) {
	return readStore(s, func(b *extras.Bundle) (int64, error) { return b.ReadInt64(name) })
}

func (s *Store) ReadFloat32(name string) (float32, error) {
	return readStore(s, func(b *extras.Bundle) (float32, error) { return b.ReadFloat32(name) })
}

func (s *Store) ReadFloat64(name string) (float64, error) {
	return readStore(s, func(b *extras.Bundle) (float64, error) { return b.ReadFloat64(name) })
}

func (s *Store) ReadString(name string) (string, error) {
	return readStore(s, func(b *extras.Bundle) (string, error) { return b.ReadString(name) })
}

func (s *Store) ReadBytes(name string) ([]byte, error) {
	return readStore(s, func(b *extras.Bundle) ([]byte, error) { return b.ReadBytes(name) })
}

func (s *Store) ReadStringSlice(name string) ([]string, error) {
	return readStore(s, func(b *extras.Bundle) ([]string, error) { return b.ReadStringSlice(name) })
}

func (s *Store) ReadInt64Slice(name string) ([]int64, error) {
	return readStore(s, func(b *extras.Bundle) ([]int64, error) { return b.ReadInt64Slice(name) })
}

func (s *Store) ReadFloat64Slice(name string) ([]float64, error) {
	return readStore(s, func(b *extras.Bundle) ([]float64, error) { return b.ReadFloat64Slice(name) })
}

func (s *Store) ReadRaw(name string) (any, error) {
	return readStore(s, func(b *extras.Bundle) (any, error) { return b.ReadRaw(name) })
}

func (s *Store) WriteBool(name string, v bool) error {
	return s.writeThrough(name, func(b *extras.Bundle) error { return b.WriteBool(name, v) })
}

func (s *Store) WriteByte(name string, v byte) error {
	return s.writeThrough(name, func(b *extras.Bundle) error { return b.WriteByte(name, v) })
}

func (s *Store) WriteInt16(name string, v int16) error {
	return s.writeThrough(name, func(b *extras.Bundle) error { return b.WriteInt16(name, v) })
}

func (s *Store) WriteInt32(name string, v int32) error {
	return s.writeThrough(name, func(b *extras.Bundle) error { return b.WriteInt32(name, v) })
}

func (s *Store) WriteInt64(name string, v int64) error {
	return s.writeThrough(name, func(b *extras.Bundle) error { return b.WriteInt64(name, v) })
}

func (s *Store) WriteFloat32(name string, v float32) error {
	return s.writeThrough(name, func(b *extras.Bundle) error { return b.WriteFloat32(name, v) })
}

func (s *Store) WriteFloat64(name string, v float64) error {
	return s.writeThrough(name, func(b *extras.Bundle) error { return b.WriteFloat64(name, v) })
}

func (s *Store) WriteString(name string, v string) error {
	return s.writeThrough(name, func(b *extras.Bundle) error { return b.WriteString(name, v) })
}

func (s *Store) WriteBytes(name string, v []byte) error {
	return s.writeThrough(name, func(b *extras.Bundle) error { return b.WriteBytes(name, v) })
}

func (s *Store) WriteStringSlice(name string, v []string) error {
	return s.writeThrough(name, func(b *extras.Bundle) error { return b.WriteStringSlice(name, v) })
}

func (s *Store) WriteInt64Slice(name string, v []int64) error {
	return s.writeThrough(name, func(b *extras.Bundle) error { return b.WriteInt64Slice(name, v) })
}

func (s *Store) WriteFloat64Slice(name string, v []float64) error {
	return s.writeThrough(name, func(b *extras.Bundle) error { return b.WriteFloat64Slice(name, v) })
}

func (s *Store) WriteRaw(name string, t keyed.Type, v any) error {
	return s.writeThrough(name, func(b *extras.Bundle) error { return b.WriteRaw(name, t, v) })
}

var _ keyed.Container = (*Store)(nil)

// submitApply is swapped out in tests to make Apply synchronous.
var submitApply = func(fn func() error) {
	exec.Submit(func() (struct{}, error) { return struct{}{}, fn() })
}
