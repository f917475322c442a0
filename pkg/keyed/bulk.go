package keyed

import (
	"encoding/json"
	"fmt"

	"github.com/go-drift/keyed/pkg/errors"
)

// PutAll writes a bag of dynamically typed values, dispatching each entry on
// its runtime type in the same priority order as the statically typed path:
// concrete scalars, strings, and typed slices first, then []any with element
// dispatch, then Packer, then the JSON fallback. It exists for assembling
// extras from loosely typed data such as parsed configuration.
//
// Entries are processed eagerly; the first failure aborts the whole call.
// Go maps are unordered, so no ordering across entries is guaranteed. A
// value matching no category fails with InvalidTypeError, and an empty
// []any fails with UnsupportedTypeError because the element type cannot be
// recovered from an empty list.
func PutAll(c Container, values map[string]any) error {
	for name, v := range values {
		if err := putDynamic(c, name, v); err != nil {
			return err
		}
	}
	return nil
}

func putDynamic(c Container, name string, v any) error {
	switch x := v.(type) {
	case nil:
		return c.WriteNull(name)
	case bool:
		return c.WriteBool(name, x)
	case byte:
		return c.WriteByte(name, x)
	case int16:
		return c.WriteInt16(name, x)
	case int32:
		return c.WriteInt32(name, x)
	case int64:
		return c.WriteInt64(name, x)
	case int:
		// Untyped Go integer constants arrive as int; they dispatch to the
		// long accessor.
		return c.WriteInt64(name, int64(x))
	case float32:
		return c.WriteFloat32(name, x)
	case float64:
		return c.WriteFloat64(name, x)
	case string:
		return c.WriteString(name, x)
	case []byte:
		return c.WriteBytes(name, x)
	case []string:
		return c.WriteStringSlice(name, x)
	case []int64:
		return c.WriteInt64Slice(name, x)
	case []float64:
		return c.WriteFloat64Slice(name, x)
	case []any:
		return putDynamicSlice(c, name, x)
	}
	if p, ok := v.(Packer); ok {
		raw, err := p.Pack()
		if err != nil {
			return err
		}
		return c.WriteRaw(name, TypePacked, raw)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return &errors.InvalidTypeError{Key: name, Got: v}
	}
	return c.WriteRaw(name, TypeJSON, json.RawMessage(data))
}

// putDynamicSlice performs the secondary dispatch on the element type of a
// heterogeneously typed slice. The element type is read off the first
// element; an empty slice carries no element type at runtime and cannot be
// dispatched exactly.
func putDynamicSlice(c Container, name string, xs []any) error {
	if len(xs) == 0 {
		return &errors.UnsupportedTypeError{
			Type:   "[]any",
			Reason: "element type of an empty list is erased and cannot be dispatched",
		}
	}
	switch xs[0].(type) {
	case string:
		out := make([]string, len(xs))
		for i, e := range xs {
			s, ok := e.(string)
			if !ok {
				return &errors.InvalidTypeError{Key: name, Want: "[]string", Got: e}
			}
			out[i] = s
		}
		return c.WriteStringSlice(name, out)
	case int, int64:
		out := make([]int64, len(xs))
		for i, e := range xs {
			switch n := e.(type) {
			case int:
				out[i] = int64(n)
			case int64:
				out[i] = n
			default:
				return &errors.InvalidTypeError{Key: name, Want: "[]int64", Got: e}
			}
		}
		return c.WriteInt64Slice(name, out)
	case float64:
		out := make([]float64, len(xs))
		for i, e := range xs {
			f, ok := e.(float64)
			if !ok {
				return &errors.InvalidTypeError{Key: name, Want: "[]float64", Got: e}
			}
			out[i] = f
		}
		return c.WriteFloat64Slice(name, out)
	default:
		return &errors.UnsupportedTypeError{Type: fmt.Sprintf("[]%T", xs[0])}
	}
}
