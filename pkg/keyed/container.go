// Package keyed provides typed keys and typed accessors for the untyped,
// string-keyed containers exposed by the native bridge: intent extras,
// shared preferences, and query cursor rows.
//
// Client code declares Key values once, typically as package-level variables,
// and uses them at call sites with Get, Require, Lookup, Put, and friends.
// The key's type tag selects the one correct container accessor through a
// fixed dispatch table; no reflection is involved.
//
//	var KeyAge = keyed.Int32Key("age", 0)
//
//	age, err := keyed.Get(bundle, KeyAge)
//
// Character extras have no Go type of their own; rune is int32, so declare
// them with Int32Key.
package keyed

// Container is the locator protocol every wrapped container implements.
// The locator is the entry name; cursor rows resolve the name to a column
// index once, internally.
//
// Read accessors on a present-but-null slot return the zero value with no
// error; nullness is queried separately through IsNull. Read and write
// accessors on a slot holding a different type fail with InvalidTypeError.
// Read-only containers return an error from every write accessor and from
// Remove.
type Container interface {
	// Has reports whether an entry with the given name exists, null or not.
	Has(name string) bool

	// IsNull reports whether the named entry exists and holds an explicit
	// null. A missing entry is not null.
	IsNull(name string) bool

	// Remove deletes the named entry. Removing an absent entry is not an
	// error.
	Remove(name string) error

	// WriteNull stores an explicit null under the given name.
	WriteNull(name string) error

	ReadBool(name string) (bool, error)
	ReadByte(name string) (byte, error)
	ReadInt16(name string) (int16, error)
	ReadInt32(name string) (int32, error)
	ReadInt64(name string) (int64, error)
	ReadFloat32(name string) (float32, error)
	ReadFloat64(name string) (float64, error)
	ReadString(name string) (string, error)
	ReadBytes(name string) ([]byte, error)
	ReadStringSlice(name string) ([]string, error)
	ReadInt64Slice(name string) ([]int64, error)
	ReadFloat64Slice(name string) ([]float64, error)

	// ReadRaw returns the stored payload of a packed or JSON slot.
	ReadRaw(name string) (any, error)

	WriteBool(name string, v bool) error
	WriteByte(name string, v byte) error
	WriteInt16(name string, v int16) error
	WriteInt32(name string, v int32) error
	WriteInt64(name string, v int64) error
	WriteFloat32(name string, v float32) error
	WriteFloat64(name string, v float64) error
	WriteString(name string, v string) error
	WriteBytes(name string, v []byte) error
	WriteStringSlice(name string, v []string) error
	WriteInt64Slice(name string, v []int64) error
	WriteFloat64Slice(name string, v []float64) error

	// WriteRaw stores the payload of a packed or JSON slot. t records which
	// of the two categories the payload belongs to.
	WriteRaw(name string, t Type, v any) error
}

// Packer is implemented by values that convert themselves to and from the
// bridge's native representation. It is the platform-native structured
// category, dispatched ahead of the generic JSON fallback.
type Packer interface {
	// Pack returns the bridge representation of the value.
	Pack() (any, error)

	// Unpack populates the value from its bridge representation.
	Unpack(raw any) error
}
