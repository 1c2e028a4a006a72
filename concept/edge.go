package concept

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/tiglabs/graphkv/util/encoding"
)

// EdgeType is embedded in every edge key right after its leading endpoint, so that a
// scan over "endpoint‖tag" cannot pick up a different record family sharing the endpoint.
type EdgeType byte

const (
	EdgeHas     EdgeType = 0x55
	EdgeSibling EdgeType = 0x5A
	EdgeRelates EdgeType = 0xAA
)

func (e EdgeType) String() string {
	switch e {
	case EdgeHas:
		return "has"
	case EdgeSibling:
		return "sibling"
	case EdgeRelates:
		return "relates"
	}
	return fmt.Sprintf("edge(%#02x)", byte(e))
}

const EdgeTypeEncodedLen = 1

// Encoded lengths of the edge records.
const (
	HasEdgeEncodedLen     = ThingEncodedLen + EdgeTypeEncodedLen + AttributeEncodedLen
	RelatesEdgeEncodedLen = ThingEncodedLen + EdgeTypeEncodedLen + TypeEncodedLen + ThingEncodedLen
	SiblingEdgeEncodedLen = ThingEncodedLen + EdgeTypeEncodedLen + TypeEncodedLen +
		ThingEncodedLen + TypeEncodedLen + ThingEncodedLen
)

func checkEdgeType(what string, got byte, want EdgeType) error {
	if EdgeType(got) != want {
		return errors.Wrapf(ErrInvalidEdgeType, "%s: have %v, want %v", what, EdgeType(got), want)
	}
	return nil
}

// HasEdge is the ownership of an attribute by a thing.
//
//	forward:  owner ‖ has ‖ attribute
//	backward: attribute ‖ has ‖ owner
type HasEdge struct {
	Owner     Thing
	Attribute Attribute
}

func (e HasEdge) ForwardBytes() []byte {
	b := make([]byte, 0, HasEdgeEncodedLen)
	b = HasForwardPrefix(b, e.Owner)
	return e.Attribute.AppendBytes(b)
}

func (e HasEdge) BackwardBytes() []byte {
	b := make([]byte, 0, HasEdgeEncodedLen)
	b = HasBackwardPrefix(b, e.Attribute)
	return e.Owner.AppendBytes(b)
}

func DecodeHasForward(b []byte) (HasEdge, error) {
	if err := checkLen("has forward", b, HasEdgeEncodedLen); err != nil {
		return HasEdge{}, err
	}
	if err := checkEdgeType("has forward", b[ThingEncodedLen], EdgeHas); err != nil {
		return HasEdge{}, err
	}
	owner, err := decodeThing(b)
	if err != nil {
		return HasEdge{}, err
	}
	attr, err := decodeAttribute(b[ThingEncodedLen+EdgeTypeEncodedLen:])
	if err != nil {
		return HasEdge{}, err
	}
	return HasEdge{Owner: owner, Attribute: attr}, nil
}

func DecodeHasBackward(b []byte) (HasEdge, error) {
	if err := checkLen("has backward", b, HasEdgeEncodedLen); err != nil {
		return HasEdge{}, err
	}
	if err := checkEdgeType("has backward", b[AttributeEncodedLen], EdgeHas); err != nil {
		return HasEdge{}, err
	}
	attr, err := decodeAttribute(b)
	if err != nil {
		return HasEdge{}, err
	}
	owner, err := decodeThing(b[AttributeEncodedLen+EdgeTypeEncodedLen:])
	if err != nil {
		return HasEdge{}, err
	}
	return HasEdge{Owner: owner, Attribute: attr}, nil
}

// HasForwardPrefix appends owner ‖ has: the scan prefix for the attributes of owner.
func HasForwardPrefix(dst []byte, owner Thing) []byte {
	dst = owner.AppendBytes(dst)
	return encoding.EncodeUint8Ascending(dst, byte(EdgeHas))
}

// HasBackwardPrefix appends attribute ‖ has: the scan prefix for the owners of attr.
func HasBackwardPrefix(dst []byte, attr Attribute) []byte {
	dst = attr.AppendBytes(dst)
	return encoding.EncodeUint8Ascending(dst, byte(EdgeHas))
}

// RelatesEdge is a role player of a relation.
//
//	forward:  relation ‖ relates ‖ role ‖ player
//	backward: player ‖ relates ‖ role ‖ relation
type RelatesEdge struct {
	Relation Thing
	Role     Type
	Player   Thing
}

func (e RelatesEdge) ForwardBytes() []byte {
	b := make([]byte, 0, RelatesEdgeEncodedLen)
	b = RelatesPrefix(b, e.Relation)
	b = e.Role.AppendBytes(b)
	return e.Player.AppendBytes(b)
}

func (e RelatesEdge) BackwardBytes() []byte {
	b := make([]byte, 0, RelatesEdgeEncodedLen)
	b = RelatesPrefix(b, e.Player)
	b = e.Role.AppendBytes(b)
	return e.Relation.AppendBytes(b)
}

func (e RelatesEdge) String() string {
	return fmt.Sprintf("%v -[%v]-> %v", e.Relation, e.Role, e.Player)
}

// decodeRelates returns the three fields in key order: head, role, tail.
func decodeRelates(what string, b []byte) (Thing, Type, Thing, error) {
	if err := checkLen(what, b, RelatesEdgeEncodedLen); err != nil {
		return Thing{}, Type{}, Thing{}, err
	}
	if err := checkEdgeType(what, b[ThingEncodedLen], EdgeRelates); err != nil {
		return Thing{}, Type{}, Thing{}, err
	}
	head, err := decodeThing(b)
	if err != nil {
		return Thing{}, Type{}, Thing{}, err
	}
	b = b[ThingEncodedLen+EdgeTypeEncodedLen:]
	role, err := decodeType(b)
	if err != nil {
		return Thing{}, Type{}, Thing{}, err
	}
	tail, err := decodeThing(b[TypeEncodedLen:])
	if err != nil {
		return Thing{}, Type{}, Thing{}, err
	}
	return head, role, tail, nil
}

func DecodeRelatesForward(b []byte) (RelatesEdge, error) {
	rel, role, player, err := decodeRelates("relates forward", b)
	if err != nil {
		return RelatesEdge{}, err
	}
	return RelatesEdge{Relation: rel, Role: role, Player: player}, nil
}

func DecodeRelatesBackward(b []byte) (RelatesEdge, error) {
	player, role, rel, err := decodeRelates("relates backward", b)
	if err != nil {
		return RelatesEdge{}, err
	}
	return RelatesEdge{Relation: rel, Role: role, Player: player}, nil
}

// RelatesPrefix appends head ‖ relates. With a relation as head it selects the
// forward records of that relation; with a player it selects the backward records.
func RelatesPrefix(dst []byte, head Thing) []byte {
	dst = head.AppendBytes(dst)
	return encoding.EncodeUint8Ascending(dst, byte(EdgeRelates))
}

// SiblingEdge links two players of the same relation directly.
//
//	left ‖ sibling ‖ left role ‖ relation ‖ right role ‖ right
//
// The backward layout is the forward layout of Reverse().
type SiblingEdge struct {
	LeftPlayer  Thing
	LeftRole    Type
	Relation    Thing
	RightRole   Type
	RightPlayer Thing
}

// Reverse swaps the left and right endpoints.
func (e SiblingEdge) Reverse() SiblingEdge {
	return SiblingEdge{
		LeftPlayer:  e.RightPlayer,
		LeftRole:    e.RightRole,
		Relation:    e.Relation,
		RightRole:   e.LeftRole,
		RightPlayer: e.LeftPlayer,
	}
}

func (e SiblingEdge) ForwardBytes() []byte {
	b := make([]byte, 0, SiblingEdgeEncodedLen)
	b = e.LeftPlayer.AppendBytes(b)
	b = encoding.EncodeUint8Ascending(b, byte(EdgeSibling))
	b = e.LeftRole.AppendBytes(b)
	b = e.Relation.AppendBytes(b)
	b = e.RightRole.AppendBytes(b)
	return e.RightPlayer.AppendBytes(b)
}

func (e SiblingEdge) BackwardBytes() []byte {
	return e.Reverse().ForwardBytes()
}

func (e SiblingEdge) String() string {
	return fmt.Sprintf("%v[%v] ~%v~ %v[%v]", e.LeftPlayer, e.LeftRole, e.Relation, e.RightPlayer, e.RightRole)
}

// DecodeSibling decodes a sibling key. Both stored orientations use the forward
// layout, so the result of decoding a backward key is the reversed edge.
func DecodeSibling(b []byte) (SiblingEdge, error) {
	if err := checkLen("sibling", b, SiblingEdgeEncodedLen); err != nil {
		return SiblingEdge{}, err
	}
	if err := checkEdgeType("sibling", b[ThingEncodedLen], EdgeSibling); err != nil {
		return SiblingEdge{}, err
	}
	var (
		e   SiblingEdge
		err error
	)
	if e.LeftPlayer, err = decodeThing(b); err != nil {
		return SiblingEdge{}, err
	}
	b = b[ThingEncodedLen+EdgeTypeEncodedLen:]
	if e.LeftRole, err = decodeType(b); err != nil {
		return SiblingEdge{}, err
	}
	b = b[TypeEncodedLen:]
	if e.Relation, err = decodeThing(b); err != nil {
		return SiblingEdge{}, err
	}
	b = b[ThingEncodedLen:]
	if e.RightRole, err = decodeType(b); err != nil {
		return SiblingEdge{}, err
	}
	b = b[TypeEncodedLen:]
	if e.RightPlayer, err = decodeThing(b); err != nil {
		return SiblingEdge{}, err
	}
	return e, nil
}

// SiblingPrefix appends start ‖ sibling ‖ role ‖ relation type: the scan prefix for
// every sibling reachable from start through role in relations of relationType.
func SiblingPrefix(dst []byte, start Thing, role Type, relationType Type) []byte {
	dst = start.AppendBytes(dst)
	dst = encoding.EncodeUint8Ascending(dst, byte(EdgeSibling))
	dst = role.AppendBytes(dst)
	return relationType.AppendBytes(dst)
}

// SiblingPrefixEncodedLen is the length of a SiblingPrefix.
const SiblingPrefixEncodedLen = ThingEncodedLen + EdgeTypeEncodedLen + TypeEncodedLen + TypeEncodedLen
