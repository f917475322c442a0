package keyed

// Type is the dispatch descriptor for a supported container value type.
// Dispatch is exact: there is one accessor pair per Type and no coercion
// between entries. Int32 and Int64 slots are not interchangeable, matching
// the distinct accessor overloads on the native side.
type Type int

const (
	// TypeInvalid is the zero Type. It has no dispatch entry; operations on
	// a key with this type fail with UnsupportedTypeError.
	TypeInvalid Type = iota
	TypeBool
	TypeByte
	TypeInt16
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeString
	TypeBytes
	TypeStringSlice
	TypeInt64Slice
	TypeFloat64Slice
	// TypePacked is the platform-native structured category: values that
	// convert themselves to and from the bridge representation via Packer.
	TypePacked
	// TypeJSON is the generic serializable fallback, encoded through the
	// bridge codec. Packed is preferred when a value supports both.
	TypeJSON
)

func (t Type) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeByte:
		return "byte"
	case TypeInt16:
		return "int16"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeFloat32:
		return "float32"
	case TypeFloat64:
		return "float64"
	case TypeString:
		return "string"
	case TypeBytes:
		return "[]byte"
	case TypeStringSlice:
		return "[]string"
	case TypeInt64Slice:
		return "[]int64"
	case TypeFloat64Slice:
		return "[]float64"
	case TypePacked:
		return "packed"
	case TypeJSON:
		return "json"
	default:
		return "invalid"
	}
}

// Valid reports whether t has a dispatch entry.
func (t Type) Valid() bool {
	return t > TypeInvalid && t <= TypeJSON
}

// Code returns the short wire tag used when a container slot crosses the
// bridge. The empty string is returned for TypeInvalid.
func (t Type) Code() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeByte:
		return "byte"
	case TypeInt16:
		return "i16"
	case TypeInt32:
		return "i32"
	case TypeInt64:
		return "i64"
	case TypeFloat32:
		return "f32"
	case TypeFloat64:
		return "f64"
	case TypeString:
		return "str"
	case TypeBytes:
		return "blob"
	case TypeStringSlice:
		return "strs"
	case TypeInt64Slice:
		return "i64s"
	case TypeFloat64Slice:
		return "f64s"
	case TypePacked:
		return "packed"
	case TypeJSON:
		return "json"
	default:
		return ""
	}
}

// TypeFromCode resolves a wire tag back to its Type.
// Unknown tags resolve to TypeInvalid.
func TypeFromCode(code string) Type {
	switch code {
	case "bool":
		return TypeBool
	case "byte":
		return TypeByte
	case "i16":
		return TypeInt16
	case "i32":
		return TypeInt32
	case "i64":
		return TypeInt64
	case "f32":
		return TypeFloat32
	case "f64":
		return TypeFloat64
	case "str":
		return TypeString
	case "blob":
		return TypeBytes
	case "strs":
		return TypeStringSlice
	case "i64s":
		return TypeInt64Slice
	case "f64s":
		return TypeFloat64Slice
	case "packed":
		return TypePacked
	case "json":
		return TypeJSON
	default:
		return TypeInvalid
	}
}
