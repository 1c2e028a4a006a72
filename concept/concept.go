// Package concept defines the graph primitives (types, things, attributes) and their
// fixed-width key encodings.
//
// Every encoding is a concatenation of fields in declared order with multi-byte
// integers written big-endian, so bytewise key order equals field order and any
// leading run of fields can be used as a scan prefix.
package concept

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/tiglabs/graphkv/util/encoding"
)

// Prefix tags the top-level concept category.
type Prefix byte

const (
	PrefixRole      Prefix = 0x11
	PrefixEntity    Prefix = 0x22
	PrefixRelation  Prefix = 0x33
	PrefixAttribute Prefix = 0x44
)

func (p Prefix) Valid() bool {
	switch p {
	case PrefixRole, PrefixEntity, PrefixRelation, PrefixAttribute:
		return true
	}
	return false
}

func (p Prefix) String() string {
	switch p {
	case PrefixRole:
		return "role"
	case PrefixEntity:
		return "entity"
	case PrefixRelation:
		return "relation"
	case PrefixAttribute:
		return "attribute"
	}
	return fmt.Sprintf("prefix(%#02x)", byte(p))
}

// ValueType tags the representation of an attribute value.
type ValueType byte

const (
	ValueTypeLong ValueType = 0x01
)

func (v ValueType) Valid() bool {
	return v == ValueTypeLong
}

// TypeID scopes a type within its category.
type TypeID uint16

// ThingID identifies an instance within its type. Uniqueness is by convention only.
type ThingID uint64

// Encoded lengths of the primitives.
const (
	PrefixEncodedLen        = 1
	TypeEncodedLen          = PrefixEncodedLen + 2
	ThingEncodedLen         = TypeEncodedLen + 8
	AttributeTypeEncodedLen = PrefixEncodedLen + 2 + 1
	AttributeEncodedLen     = AttributeTypeEncodedLen + 8
)

// Type is the type of a thing or role: (prefix, id).
type Type struct {
	Prefix Prefix
	ID     TypeID
}

func (t Type) AppendBytes(dst []byte) []byte {
	dst = encoding.EncodeUint8Ascending(dst, byte(t.Prefix))
	return encoding.EncodeUint16Ascending(dst, uint16(t.ID))
}

func (t Type) Bytes() []byte {
	return t.AppendBytes(make([]byte, 0, TypeEncodedLen))
}

func (t Type) String() string {
	return fmt.Sprintf("%v:%d", t.Prefix, t.ID)
}

func DecodeType(b []byte) (Type, error) {
	if err := checkLen("type", b, TypeEncodedLen); err != nil {
		return Type{}, err
	}
	return decodeType(b)
}

// decodeType reads a type from the head of b, which must hold at least TypeEncodedLen bytes.
func decodeType(b []byte) (Type, error) {
	p := Prefix(b[0])
	if !p.Valid() {
		return Type{}, errors.Wrapf(ErrInvalidPrefix, "type: %#02x", b[0])
	}
	_, id, err := encoding.DecodeUint16Ascending(b[PrefixEncodedLen:])
	if err != nil {
		return Type{}, err
	}
	return Type{Prefix: p, ID: TypeID(id)}, nil
}

// Thing is a concrete entity or relation instance.
type Thing struct {
	Type Type
	ID   ThingID
}

func (t Thing) AppendBytes(dst []byte) []byte {
	dst = t.Type.AppendBytes(dst)
	return encoding.EncodeUint64Ascending(dst, uint64(t.ID))
}

func (t Thing) Bytes() []byte {
	return t.AppendBytes(make([]byte, 0, ThingEncodedLen))
}

func (t Thing) String() string {
	return fmt.Sprintf("%v#%d", t.Type, t.ID)
}

func DecodeThing(b []byte) (Thing, error) {
	if err := checkLen("thing", b, ThingEncodedLen); err != nil {
		return Thing{}, err
	}
	return decodeThing(b)
}

func decodeThing(b []byte) (Thing, error) {
	typ, err := decodeType(b)
	if err != nil {
		return Thing{}, err
	}
	_, id, err := encoding.DecodeUint64Ascending(b[TypeEncodedLen:])
	if err != nil {
		return Thing{}, err
	}
	return Thing{Type: typ, ID: ThingID(id)}, nil
}

// AttributeType is the type of an attribute. Its prefix is always PrefixAttribute.
type AttributeType struct {
	ID        TypeID
	ValueType ValueType
}

func (t AttributeType) AppendBytes(dst []byte) []byte {
	dst = encoding.EncodeUint8Ascending(dst, byte(PrefixAttribute))
	dst = encoding.EncodeUint16Ascending(dst, uint16(t.ID))
	return encoding.EncodeUint8Ascending(dst, byte(t.ValueType))
}

func (t AttributeType) Bytes() []byte {
	return t.AppendBytes(make([]byte, 0, AttributeTypeEncodedLen))
}

func (t AttributeType) String() string {
	return fmt.Sprintf("%v:%d", PrefixAttribute, t.ID)
}

func DecodeAttributeType(b []byte) (AttributeType, error) {
	if err := checkLen("attribute type", b, AttributeTypeEncodedLen); err != nil {
		return AttributeType{}, err
	}
	return decodeAttributeType(b)
}

func decodeAttributeType(b []byte) (AttributeType, error) {
	if Prefix(b[0]) != PrefixAttribute {
		return AttributeType{}, errors.Wrapf(ErrInvalidPrefix, "attribute type: %#02x", b[0])
	}
	rest, id, err := encoding.DecodeUint16Ascending(b[PrefixEncodedLen:])
	if err != nil {
		return AttributeType{}, err
	}
	vt := ValueType(rest[0])
	if !vt.Valid() {
		return AttributeType{}, errors.Wrapf(ErrInvalidValueType, "attribute type: %#02x", rest[0])
	}
	return AttributeType{ID: TypeID(id), ValueType: vt}, nil
}

// Attribute is a content-addressed attribute value: the value bytes are its identity.
type Attribute struct {
	Type  AttributeType
	Value uint64
}

func (a Attribute) AppendBytes(dst []byte) []byte {
	dst = a.Type.AppendBytes(dst)
	return encoding.EncodeUint64Ascending(dst, a.Value)
}

func (a Attribute) Bytes() []byte {
	return a.AppendBytes(make([]byte, 0, AttributeEncodedLen))
}

func (a Attribute) String() string {
	return fmt.Sprintf("%v=%d", a.Type, a.Value)
}

func DecodeAttribute(b []byte) (Attribute, error) {
	if err := checkLen("attribute", b, AttributeEncodedLen); err != nil {
		return Attribute{}, err
	}
	return decodeAttribute(b)
}

func decodeAttribute(b []byte) (Attribute, error) {
	typ, err := decodeAttributeType(b)
	if err != nil {
		return Attribute{}, err
	}
	_, v, err := encoding.DecodeUint64Ascending(b[AttributeTypeEncodedLen:])
	if err != nil {
		return Attribute{}, err
	}
	return Attribute{Type: typ, Value: v}, nil
}
