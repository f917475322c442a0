package keyed

import (
	"encoding/json"

	"github.com/go-drift/keyed/pkg/errors"
)

// accessor is one dispatch entry: the read/write pair for a single Type.
type accessor struct {
	read  func(c Container, name string) (any, error)
	write func(c Container, name string, v any) error
}

// accessors holds exactly one entry per supported Type. Lookup is exact;
// there is no subtype or widening fallback between entries.
var accessors = map[Type]accessor{
	TypeBool: {
		read:  func(c Container, name string) (any, error) { return c.ReadBool(name) },
		write: func(c Container, name string, v any) error { return c.WriteBool(name, v.(bool)) },
	},
	TypeByte: {
		read:  func(c Container, name string) (any, error) { return c.ReadByte(name) },
		write: func(c Container, name string, v any) error { return c.WriteByte(name, v.(byte)) },
	},
	TypeInt16: {
		read:  func(c Container, name string) (any, error) { return c.ReadInt16(name) },
		write: func(c Container, name string, v any) error { return c.WriteInt16(name, v.(int16)) },
	},
	TypeInt32: {
		read:  func(c Container, name string) (any, error) { return c.ReadInt32(name) },
		write: func(c Container, name string, v any) error { return c.WriteInt32(name, v.(int32)) },
	},
	TypeInt64: {
		read:  func(c Container, name string) (any, error) { return c.ReadInt64(name) },
		write: func(c Container, name string, v any) error { return c.WriteInt64(name, v.(int64)) },
	},
	TypeFloat32: {
		read:  func(c Container, name string) (any, error) { return c.ReadFloat32(name) },
		write: func(c Container, name string, v any) error { return c.WriteFloat32(name, v.(float32)) },
	},
	TypeFloat64: {
		read:  func(c Container, name string) (any, error) { return c.ReadFloat64(name) },
		write: func(c Container, name string, v any) error { return c.WriteFloat64(name, v.(float64)) },
	},
	TypeString: {
		read:  func(c Container, name string) (any, error) { return c.ReadString(name) },
		write: func(c Container, name string, v any) error { return c.WriteString(name, v.(string)) },
	},
	TypeBytes: {
		read:  func(c Container, name string) (any, error) { return c.ReadBytes(name) },
		write: func(c Container, name string, v any) error { return c.WriteBytes(name, v.([]byte)) },
	},
	TypeStringSlice: {
		read:  func(c Container, name string) (any, error) { return c.ReadStringSlice(name) },
		write: func(c Container, name string, v any) error { return c.WriteStringSlice(name, v.([]string)) },
	},
	TypeInt64Slice: {
		read:  func(c Container, name string) (any, error) { return c.ReadInt64Slice(name) },
		write: func(c Container, name string, v any) error { return c.WriteInt64Slice(name, v.([]int64)) },
	},
	TypeFloat64Slice: {
		read:  func(c Container, name string) (any, error) { return c.ReadFloat64Slice(name) },
		write: func(c Container, name string, v any) error { return c.WriteFloat64Slice(name, v.([]float64)) },
	},
	TypePacked: {
		read: func(c Container, name string) (any, error) { return c.ReadRaw(name) },
		write: func(c Container, name string, v any) error {
			raw, err := v.(Packer).Pack()
			if err != nil {
				return err
			}
			return c.WriteRaw(name, TypePacked, raw)
		},
	},
	TypeJSON: {
		read: func(c Container, name string) (any, error) { return c.ReadRaw(name) },
		write: func(c Container, name string, v any) error {
			data, err := json.Marshal(v)
			if err != nil {
				return &errors.InvalidTypeError{Key: name, Want: "json", Got: v}
			}
			return c.WriteRaw(name, TypeJSON, json.RawMessage(data))
		},
	},
}

// lookupAccessor resolves the dispatch entry for t, or fails with
// UnsupportedTypeError. This failure is independent of container contents
// and is never conflated with a missing key.
func lookupAccessor(t Type) (accessor, error) {
	acc, ok := accessors[t]
	if !ok {
		return accessor{}, &errors.UnsupportedTypeError{Type: t.String()}
	}
	return acc, nil
}

// decode converts the raw accessor result to the key's value type.
func decode[A any](op string, k Key[A], raw any) (A, error) {
	var zero A
	switch k.typ {
	case TypePacked:
		out := k.newPacked()
		if err := out.(Packer).Unpack(raw); err != nil {
			return zero, &errors.Error{Op: op, Kind: errors.KindParsing, Key: k.name, Err: err}
		}
		return out.(A), nil
	case TypeJSON:
		data, ok := rawJSON(raw)
		if !ok {
			return zero, &errors.InvalidTypeError{Key: k.name, Want: "json", Got: raw}
		}
		var a A
		if err := json.Unmarshal(data, &a); err != nil {
			return zero, &errors.Error{Op: op, Kind: errors.KindParsing, Key: k.name, Err: err}
		}
		return a, nil
	default:
		a, ok := raw.(A)
		if !ok {
			return zero, &errors.InvalidTypeError{Key: k.name, Want: k.typ.String(), Got: raw}
		}
		return a, nil
	}
}

func rawJSON(raw any) (json.RawMessage, bool) {
	switch d := raw.(type) {
	case json.RawMessage:
		return d, true
	case []byte:
		return d, true
	case string:
		return json.RawMessage(d), true
	default:
		// Containers that decode channel payloads may hand back the parsed
		// object itself rather than its text.
		data, err := json.Marshal(raw)
		if err != nil {
			return nil, false
		}
		return data, true
	}
}
