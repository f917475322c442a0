package keyed

// Key is a typed name-based key into a Container.
//
// Identity is the (name, type) pair: two keys naming the same entry with
// different declared types are distinct keys. Compare keys through ID;
// Key itself is not comparable for every type parameter.
type Key[A any] struct {
	name       string
	typ        Type
	def        A
	hasDefault bool
	newPacked  func() any
}

// ID is the comparable identity of a Key.
type ID struct {
	Name string
	Type Type
}

// Name returns the lookup name in the underlying container.
func (k Key[A]) Name() string { return k.name }

// Type returns the key's dispatch type.
func (k Key[A]) Type() Type { return k.typ }

// ID returns the key's comparable identity.
func (k Key[A]) ID() ID { return ID{Name: k.name, Type: k.typ} }

// Default returns the declared default and whether one exists.
// Only value-typed keys carry defaults.
func (k Key[A]) Default() (A, bool) { return k.def, k.hasDefault }

// Set bundles the key with a value for use with Apply.
func (k Key[A]) Set(v A) Setting {
	return setting[A]{key: k, value: v}
}

// From is the read-as-match helper: it returns the value and true when the
// entry is present and non-null, and the zero value and false otherwise.
// It never returns an error; dispatch failures read as absent.
func (k Key[A]) From(c Container) (A, bool) {
	v, ok, err := Lookup(c, k)
	if err != nil {
		var zero A
		return zero, false
	}
	return v, ok
}

// Setting is a (key, value) pair applied to a container as a single unit.
type Setting interface {
	applyTo(c Container) error
}

type setting[A any] struct {
	key   Key[A]
	value A
}

func (s setting[A]) applyTo(c Container) error {
	return Put(c, s.key, s.value)
}

// Apply writes each setting in order. The first failure aborts and is
// returned.
func Apply(c Container, settings ...Setting) error {
	for _, s := range settings {
		if err := s.applyTo(c); err != nil {
			return err
		}
	}
	return nil
}

func mustName(name string) string {
	if name == "" {
		panic("keyed: empty key name")
	}
	return name
}

// BoolKey declares a boolean key with a default returned for missing entries.
func BoolKey(name string, def bool) Key[bool] {
	return Key[bool]{name: mustName(name), typ: TypeBool, def: def, hasDefault: true}
}

// ByteKey declares a byte key with a default returned for missing entries.
func ByteKey(name string, def byte) Key[byte] {
	return Key[byte]{name: mustName(name), typ: TypeByte, def: def, hasDefault: true}
}

// Int16Key declares an int16 key with a default returned for missing entries.
func Int16Key(name string, def int16) Key[int16] {
	return Key[int16]{name: mustName(name), typ: TypeInt16, def: def, hasDefault: true}
}

// Int32Key declares an int32 key with a default returned for missing entries.
func Int32Key(name string, def int32) Key[int32] {
	return Key[int32]{name: mustName(name), typ: TypeInt32, def: def, hasDefault: true}
}

// Int64Key declares an int64 key with a default returned for missing entries.
func Int64Key(name string, def int64) Key[int64] {
	return Key[int64]{name: mustName(name), typ: TypeInt64, def: def, hasDefault: true}
}

// Float32Key declares a float32 key with a default returned for missing entries.
func Float32Key(name string, def float32) Key[float32] {
	return Key[float32]{name: mustName(name), typ: TypeFloat32, def: def, hasDefault: true}
}

// Float64Key declares a float64 key with a default returned for missing entries.
func Float64Key(name string, def float64) Key[float64] {
	return Key[float64]{name: mustName(name), typ: TypeFloat64, def: def, hasDefault: true}
}

// StringKey declares a string key. Missing entries read as "".
func StringKey(name string) Key[string] {
	return Key[string]{name: mustName(name), typ: TypeString}
}

// BytesKey declares a binary blob key. Missing entries read as nil.
func BytesKey(name string) Key[[]byte] {
	return Key[[]byte]{name: mustName(name), typ: TypeBytes}
}

// StringSliceKey declares a string-array key. Missing entries read as nil.
func StringSliceKey(name string) Key[[]string] {
	return Key[[]string]{name: mustName(name), typ: TypeStringSlice}
}

// Int64SliceKey declares a long-array key. Missing entries read as nil.
func Int64SliceKey(name string) Key[[]int64] {
	return Key[[]int64]{name: mustName(name), typ: TypeInt64Slice}
}

// Float64SliceKey declares a double-array key. Missing entries read as nil.
func Float64SliceKey(name string) Key[[]float64] {
	return Key[[]float64]{name: mustName(name), typ: TypeFloat64Slice}
}

// PackedKey declares a key for a platform-native structured value. newValue
// constructs the empty instance reads unpack into; it is typically the type's
// constructor or a func() *T literal.
func PackedKey[A Packer](name string, newValue func() A) Key[A] {
	return Key[A]{
		name:      mustName(name),
		typ:       TypePacked,
		newPacked: func() any { return newValue() },
	}
}

// JSONKey declares a key for a value stored through the bridge codec. It is
// the generic serializable fallback; prefer PackedKey for types that can
// represent themselves natively.
func JSONKey[A any](name string) Key[A] {
	return Key[A]{name: mustName(name), typ: TypeJSON}
}
