// Package extras provides Bundle, the in-memory typed container attached to
// intents, and Intent itself. A Bundle implements the keyed locator
// protocol, so typed keys read and write it directly.
package extras

import (
	"encoding/base64"
	"encoding/json"
	"sort"

	"github.com/go-drift/keyed/pkg/bridge"
	"github.com/go-drift/keyed/pkg/errors"
	"github.com/go-drift/keyed/pkg/keyed"
)

// slot is one typed entry. A nil val with ok-presence is an explicit null,
// a distinct state from a missing entry.
type slot struct {
	typ keyed.Type
	val any
}

// Bundle is a heterogeneous, string-keyed bag of typed values.
// The zero value is not usable; construct with New or FromMap.
type Bundle struct {
	slots map[string]slot
}

// New returns an empty Bundle.
func New() *Bundle {
	return &Bundle{slots: make(map[string]slot)}
}

// FromMap builds a Bundle from loosely typed values using the bulk dispatch
// path. The first entry that matches no supported category aborts the build.
func FromMap(values map[string]any) (*Bundle, error) {
	b := New()
	if err := keyed.PutAll(b, values); err != nil {
		return nil, err
	}
	return b, nil
}

// Size returns the number of entries, null entries included.
func (b *Bundle) Size() int {
	return len(b.slots)
}

// Names returns the entry names in sorted order.
func (b *Bundle) Names() []string {
	names := make([]string, 0, len(b.slots))
	for name := range b.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether an entry exists, null or not.
func (b *Bundle) Has(name string) bool {
	_, ok := b.slots[name]
	return ok
}

// IsNull reports whether an entry exists and holds an explicit null.
func (b *Bundle) IsNull(name string) bool {
	s, ok := b.slots[name]
	return ok && s.val == nil
}

// Remove deletes an entry. Removing an absent entry is not an error.
func (b *Bundle) Remove(name string) error {
	delete(b.slots, name)
	return nil
}

// WriteNull stores an explicit null entry.
func (b *Bundle) WriteNull(name string) error {
	b.slots[name] = slot{}
	return nil
}

func readSlot[T any](b *Bundle, name string, t keyed.Type) (T, error) {
	var zero T
	s, ok := b.slots[name]
	if !ok || s.val == nil {
		return zero, nil
	}
	if s.typ != t {
		return zero, &errors.InvalidTypeError{Key: name, Want: t.String(), Got: s.val}
	}
	return s.val.(T), nil
}

func (b *Bundle) writeSlot(name string, t keyed.Type, v any) error {
	b.slots[name] = slot{typ: t, val: v}
	return nil
}

func (b *Bundle) ReadBool(name string) (bool, error) {
	return readSlot[bool](b, name, keyed.TypeBool)
}

func (b *Bundle) ReadByte(name string) (byte, error) {
	return readSlot[byte](b, name, keyed.TypeByte)
}

func (b *Bundle) ReadInt16(name string) (int16, error) {
	return readSlot[int16](b, name, keyed.TypeInt16)
}

func (b *Bundle) ReadInt32(name string) (int32, error) {
	return readSlot[int32](b, name, keyed.TypeInt32)
}

func (b *Bundle) ReadInt64(name string) (int64, error) {
	return readSlot[int64](b, name, keyed.TypeInt64)
}

func (b *Bundle) ReadFloat32(name string) (float32, error) {
	return readSlot[float32](b, name, keyed.TypeFloat32)
}

func (b *Bundle) ReadFloat64(name string) (float64, error) {
	return readSlot[float64](b, name, keyed.TypeFloat64)
}

func (b *Bundle) ReadString(name string) (string, error) {
	return readSlot[string](b, name, keyed.TypeString)
}

func (b *Bundle) ReadBytes(name string) ([]byte, error) {
	return readSlot[[]byte](b, name, keyed.TypeBytes)
}

func (b *Bundle) ReadStringSlice(name string) ([]string, error) {
	return readSlot[[]string](b, name, keyed.TypeStringSlice)
}

func (b *Bundle) ReadInt64Slice(name string) ([]int64, error) {
	return readSlot[[]int64](b, name, keyed.TypeInt64Slice)
}

func (b *Bundle) ReadFloat64Slice(name string) ([]float64, error) {
	return readSlot[[]float64](b, name, keyed.TypeFloat64Slice)
}

func (b *Bundle) ReadRaw(name string) (any, error) {
	s, ok := b.slots[name]
	if !ok || s.val == nil {
		return nil, nil
	}
	if s.typ != keyed.TypePacked && s.typ != keyed.TypeJSON {
		return nil, &errors.InvalidTypeError{Key: name, Want: "packed or json", Got: s.val}
	}
	return s.val, nil
}

func (b *Bundle) WriteBool(name string, v bool) error {
	return b.writeSlot(name, keyed.TypeBool, v)
}

func (b *Bundle) WriteByte(name string, v byte) error {
	return b.writeSlot(name, keyed.TypeByte, v)
}

func (b *Bundle) WriteInt16(name string, v int16) error {
	return b.writeSlot(name, keyed.TypeInt16, v)
}

func (b *Bundle) WriteInt32(name string, v int32) error {
	return b.writeSlot(name, keyed.TypeInt32, v)
}

func (b *Bundle) WriteInt64(name string, v int64) error {
	return b.writeSlot(name, keyed.TypeInt64, v)
}

func (b *Bundle) WriteFloat32(name string, v float32) error {
	return b.writeSlot(name, keyed.TypeFloat32, v)
}

func (b *Bundle) WriteFloat64(name string, v float64) error {
	return b.writeSlot(name, keyed.TypeFloat64, v)
}

func (b *Bundle) WriteString(name string, v string) error {
	return b.writeSlot(name, keyed.TypeString, v)
}

func (b *Bundle) WriteBytes(name string, v []byte) error {
	return b.writeSlot(name, keyed.TypeBytes, v)
}

func (b *Bundle) WriteStringSlice(name string, v []string) error {
	return b.writeSlot(name, keyed.TypeStringSlice, v)
}

func (b *Bundle) WriteInt64Slice(name string, v []int64) error {
	return b.writeSlot(name, keyed.TypeInt64Slice, v)
}

func (b *Bundle) WriteFloat64Slice(name string, v []float64) error {
	return b.writeSlot(name, keyed.TypeFloat64Slice, v)
}

func (b *Bundle) WriteRaw(name string, t keyed.Type, v any) error {
	return b.writeSlot(name, t, v)
}

// Merge copies every entry of other into b, overwriting on collision.
func (b *Bundle) Merge(other *Bundle) {
	for name, s := range other.slots {
		b.slots[name] = s
	}
}

// MarshalWire renders the bundle in channel form: each entry becomes a
// {"t": tag, "v": value} object keyed by name. Null entries carry only the
// "null" tag. The result round-trips through the bridge codec.
func (b *Bundle) MarshalWire() map[string]any {
	out := make(map[string]any, len(b.slots))
	for name, s := range b.slots {
		if s.val == nil {
			out[name] = map[string]any{"t": "null"}
			continue
		}
		v := s.val
		if raw, ok := v.(json.RawMessage); ok {
			v = string(raw)
		}
		out[name] = map[string]any{"t": s.typ.Code(), "v": v}
	}
	return out
}

// MarshalWireEntry renders a single entry in channel form, or nil when the
// entry is absent.
func (b *Bundle) MarshalWireEntry(name string) any {
	s, ok := b.slots[name]
	if !ok {
		return nil
	}
	if s.val == nil {
		return map[string]any{"t": "null"}
	}
	v := s.val
	if raw, ok := v.(json.RawMessage); ok {
		v = string(raw)
	}
	return map[string]any{"t": s.typ.Code(), "v": v}
}

// UnmarshalWireEntry decodes a single channel-form entry into the bundle.
func (b *Bundle) UnmarshalWireEntry(name string, entry any) error {
	m := bridge.Map(entry)
	if m == nil {
		return &errors.InvalidTypeError{Key: name, Want: "wire entry", Got: entry}
	}
	tag := bridge.String(m["t"])
	if tag == "null" {
		b.slots[name] = slot{}
		return nil
	}
	t := keyed.TypeFromCode(tag)
	v, err := decodeWireValue(name, t, m["v"])
	if err != nil {
		return err
	}
	b.slots[name] = slot{typ: t, val: v}
	return nil
}

// UnmarshalWire rebuilds a Bundle from its channel form, normalizing the
// untyped values the codec produces back to their tagged widths.
func UnmarshalWire(wire map[string]any) (*Bundle, error) {
	b := New()
	for name, entry := range wire {
		if err := b.UnmarshalWireEntry(name, entry); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func decodeWireValue(name string, t keyed.Type, v any) (any, error) {
	switch t {
	case keyed.TypeBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case keyed.TypeByte:
		if n, ok := bridge.Int64(v); ok {
			return byte(n), nil
		}
	case keyed.TypeInt16:
		if n, ok := bridge.Int64(v); ok {
			return int16(n), nil
		}
	case keyed.TypeInt32:
		if n, ok := bridge.Int64(v); ok {
			return int32(n), nil
		}
	case keyed.TypeInt64:
		if n, ok := bridge.Int64(v); ok {
			return n, nil
		}
	case keyed.TypeFloat32:
		if f, ok := bridge.Float64(v); ok {
			return float32(f), nil
		}
	case keyed.TypeFloat64:
		if f, ok := bridge.Float64(v); ok {
			return f, nil
		}
	case keyed.TypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case keyed.TypeBytes:
		switch d := v.(type) {
		case []byte:
			return d, nil
		case string:
			// The codec transmits blobs base64-encoded.
			decoded, err := base64.StdEncoding.DecodeString(d)
			if err != nil {
				return nil, &errors.Error{Op: "extras.UnmarshalWire", Kind: errors.KindParsing, Key: name, Err: err}
			}
			return decoded, nil
		}
	case keyed.TypeStringSlice:
		switch d := v.(type) {
		case []string:
			return d, nil
		case []any:
			out := make([]string, len(d))
			for i, e := range d {
				s, ok := e.(string)
				if !ok {
					return nil, &errors.InvalidTypeError{Key: name, Want: "[]string", Got: e}
				}
				out[i] = s
			}
			return out, nil
		}
	case keyed.TypeInt64Slice:
		if xs := bridge.Slice(v); xs != nil {
			out := make([]int64, len(xs))
			for i, e := range xs {
				n, ok := bridge.Int64(e)
				if !ok {
					return nil, &errors.InvalidTypeError{Key: name, Want: "[]int64", Got: e}
				}
				out[i] = n
			}
			return out, nil
		}
	case keyed.TypeFloat64Slice:
		if xs := bridge.Slice(v); xs != nil {
			out := make([]float64, len(xs))
			for i, e := range xs {
				f, ok := bridge.Float64(e)
				if !ok {
					return nil, &errors.InvalidTypeError{Key: name, Want: "[]float64", Got: e}
				}
				out[i] = f
			}
			return out, nil
		}
	case keyed.TypePacked:
		return v, nil
	case keyed.TypeJSON:
		if s, ok := v.(string); ok {
			// JSON slots travel as their raw text.
			return json.RawMessage(s), nil
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, &errors.Error{Op: "extras.UnmarshalWire", Kind: errors.KindParsing, Key: name, Err: err}
		}
		return json.RawMessage(data), nil
	}
	return nil, &errors.InvalidTypeError{Key: name, Want: t.String(), Got: v}
}
