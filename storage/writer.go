package storage

import (
	"github.com/tiglabs/graphkv/concept"
)

// RolePlayer is one participant of a relation.
type RolePlayer struct {
	Role   concept.Type
	Player concept.Thing
}

// Writer collects the keys of one logical mutation. It never touches a store;
// Storage.Commit applies it. A Writer is not safe for concurrent use: obtain one
// per goroutine from Storage.Writer.
type Writer struct {
	keys [numKinds][][]byte
	n    int
}

func newWriter() *Writer {
	return &Writer{}
}

func (w *Writer) put(kind Kind, key []byte) {
	w.keys[kind] = append(w.keys[kind], key)
	w.n++
}

func (w *Writer) PutEntity(thing concept.Thing) {
	w.put(KindThing, thing.Bytes())
}

func (w *Writer) PutAttribute(attr concept.Attribute) {
	w.put(KindAttribute, attr.Bytes())
}

func (w *Writer) PutOwnership(owner concept.Thing, attr concept.Attribute) {
	e := concept.HasEdge{Owner: owner, Attribute: attr}
	w.put(KindHasForward, e.ForwardBytes())
	w.put(KindHasBackward, e.BackwardBytes())
}

// PutRelation writes the relation, a forward and backward role-player key per
// distinct player, and a sibling key in each direction for every pair of distinct
// players. k players produce k*(k-1) sibling keys.
func (w *Writer) PutRelation(relation concept.Thing, players []RolePlayer) {
	w.put(KindThing, relation.Bytes())

	players = dedupPlayers(players)
	for _, rp := range players {
		e := concept.RelatesEdge{Relation: relation, Role: rp.Role, Player: rp.Player}
		w.put(KindRelatesForward, e.ForwardBytes())
		w.put(KindRelatesBackward, e.BackwardBytes())
	}
	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			e := concept.SiblingEdge{
				LeftPlayer:  players[i].Player,
				LeftRole:    players[i].Role,
				Relation:    relation,
				RightRole:   players[j].Role,
				RightPlayer: players[j].Player,
			}
			w.put(KindSibling, e.ForwardBytes())
			w.put(KindSibling, e.BackwardBytes())
		}
	}
}

func dedupPlayers(players []RolePlayer) []RolePlayer {
	seen := make(map[RolePlayer]struct{}, len(players))
	rv := make([]RolePlayer, 0, len(players))
	for _, rp := range players {
		if _, ok := seen[rp]; ok {
			continue
		}
		seen[rp] = struct{}{}
		rv = append(rv, rp)
	}
	return rv
}

// Len is the number of keys collected so far.
func (w *Writer) Len() int {
	return w.n
}

// Keys returns the keys collected for kind.
func (w *Writer) Keys(kind Kind) [][]byte {
	return w.keys[kind]
}

func (w *Writer) Reset() {
	for i := range w.keys {
		w.keys[i] = w.keys[i][:0]
	}
	w.n = 0
}
