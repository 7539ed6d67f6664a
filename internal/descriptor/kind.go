package descriptor

// Kind identifies a field's declared wire type. It follows protobuf's own
// scalar set plus the three structural kinds (message, enum, group) and
// bytes.
type Kind string

const (
	KindDouble   Kind = "double"
	KindFloat    Kind = "float"
	KindInt64    Kind = "int64"
	KindUint64   Kind = "uint64"
	KindInt32    Kind = "int32"
	KindFixed64  Kind = "fixed64"
	KindFixed32  Kind = "fixed32"
	KindBool     Kind = "bool"
	KindString   Kind = "string"
	KindGroup    Kind = "group"
	KindMessage  Kind = "message"
	KindBytes    Kind = "bytes"
	KindUint32   Kind = "uint32"
	KindEnum     Kind = "enum"
	KindSfixed32 Kind = "sfixed32"
	KindSfixed64 Kind = "sfixed64"
	KindSint32   Kind = "sint32"
	KindSint64   Kind = "sint64"
)

// IsScalar reports whether k is a scalar kind (neither message nor group;
// enum is treated as scalar for storage purposes since its value is stored
// as an int32 number, not a nested message).
func (k Kind) IsScalar() bool {
	switch k {
	case KindMessage, KindGroup:
		return false
	default:
		return true
	}
}

// IsInteger reports whether k is one of the integer wire kinds, used by the
// dynamic message layer to decide which widening/signedness conversions are
// permitted on Set.
func (k Kind) IsInteger() bool {
	switch k {
	case KindInt32, KindInt64, KindUint32, KindUint64,
		KindSint32, KindSint64, KindFixed32, KindFixed64,
		KindSfixed32, KindSfixed64:
		return true
	default:
		return false
	}
}

// IsSigned reports whether k is a signed integer kind.
func (k Kind) IsSigned() bool {
	switch k {
	case KindInt32, KindInt64, KindSint32, KindSint64, KindSfixed32, KindSfixed64:
		return true
	default:
		return false
	}
}

// Is64Bit reports whether k occupies 64 bits when widened.
func (k Kind) Is64Bit() bool {
	switch k {
	case KindInt64, KindUint64, KindFixed64, KindSfixed64, KindSint64, KindDouble:
		return true
	default:
		return false
	}
}
