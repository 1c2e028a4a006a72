package storage

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is one of the seven record families the graph is stored as.
type Kind int

const (
	KindThing Kind = iota
	KindAttribute
	KindHasForward
	KindHasBackward
	KindRelatesForward
	KindRelatesBackward
	KindSibling

	numKinds
)

var kindNames = [numKinds]string{
	KindThing:           "thing",
	KindAttribute:       "attribute",
	KindHasForward:      "has_forward",
	KindHasBackward:     "has_backward",
	KindRelatesForward:  "relates_forward",
	KindRelatesBackward: "relates_backward",
	KindSibling:         "relation_sibling",
}

// Kinds lists every record kind in commit order.
func Kinds() []Kind {
	rv := make([]Kind, numKinds)
	for i := range rv {
		rv[i] = Kind(i)
	}
	return rv
}

func (k Kind) String() string {
	if k >= 0 && k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Mode selects the physical topology of a Storage.
type Mode string

const (
	// ModeSingle keeps every kind in one keyspace of one store.
	ModeSingle Mode = "single"
	// ModePartitioned keeps one partition per kind in one store.
	ModePartitioned Mode = "partitioned"
	// ModeMulti opens one store per kind.
	ModeMulti Mode = "multi"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeSingle, ModePartitioned, ModeMulti:
		return m, nil
	}
	return "", errors.Wrapf(ErrUnknownMode, "mode[%v]", s)
}

// Engine selects the key-value engine under a Storage.
type Engine string

const (
	EngineBadger Engine = "badger"
	EngineBolt   Engine = "bolt"
	EngineMemory Engine = "memory"
	// EngineNull discards every write.
	EngineNull Engine = "null"
)

func ParseEngine(s string) (Engine, error) {
	switch e := Engine(s); e {
	case EngineBadger, EngineBolt, EngineMemory, EngineNull:
		return e, nil
	}
	return "", errors.Wrapf(ErrUnknownEngine, "engine[%v]", s)
}

// persistent reports whether the engine keeps data under a path.
func (e Engine) persistent() bool {
	return e == EngineBadger || e == EngineBolt
}
