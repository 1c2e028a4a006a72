// Package storage maps graph mutations and lookups onto sorted key-value stores.
//
// The seven record kinds can be laid out in three topologies: one keyspace, one
// partition per kind, or one store per kind. Every topology answers the same
// queries with the same results; they differ only in where each kind lives and in
// how Commit is applied.
package storage

import (
	"github.com/tiglabs/graphkv/concept"
)

// Storage is safe for concurrent use by multiple goroutines. Writers are not; each
// goroutine takes its own from Writer.
type Storage interface {
	Mode() Mode

	// Writer returns an empty write handle.
	Writer() *Writer
	// Commit applies the writer and resets it on success. In single and partitioned
	// mode a failed commit applies nothing; a batch over the engine's transaction
	// limit fails with kvstore.ErrBatchTooLarge.
	Commit(w *Writer) error

	ContainsThing(thing concept.Thing) (bool, error)
	ContainsAttribute(attr concept.Attribute) (bool, error)

	// GetOneOwner returns some owner of attr.
	GetOneOwner(attr concept.Attribute) (concept.Thing, bool, error)
	// GetOneHas returns some attribute owned by owner.
	GetOneHas(owner concept.Thing) (concept.Attribute, bool, error)

	IterateHas(owner concept.Thing) *Iterator[concept.Attribute]
	IterateOwners(attr concept.Attribute) *Iterator[concept.Thing]
	// IterateRolePlayers yields the players of relation. In single mode, when
	// relation is itself a player of another relation, the backward records of that
	// membership share the scanned prefix and come back too, decoded as forward
	// records with the outer relation in Player.
	IterateRolePlayers(relation concept.Thing) *Iterator[concept.RelatesEdge]
	// IterateRelations yields the relations player takes part in. In single mode a
	// player that is itself a relation also yields its own forward records, decoded
	// as backward records with its players in Relation.
	IterateRelations(player concept.Thing) *Iterator[concept.RelatesEdge]

	// IterateSiblings yields every player reachable from start through role in a
	// relation of relationType, ordered by relation id, then by the sibling's role
	// and id. Each call is a fresh scan.
	IterateSiblings(start concept.Thing, role concept.Type, relationType concept.Type) *Iterator[concept.Thing]
	// GetRandomSibling returns one sibling picked by seeking to a random relation id.
	GetRandomSibling(start concept.Thing, role concept.Type, relationType concept.Type) (concept.Thing, bool, error)

	// TotalKeyCount counts every key of every kind.
	TotalKeyCount() (int, error)

	Close() error
}
