package storage

import (
	"math/rand/v2"

	"github.com/pkg/errors"
	"github.com/tiglabs/graphkv/concept"
	"github.com/tiglabs/graphkv/kernel/store/kvstore"
	"github.com/tiglabs/graphkv/util/encoding"
	"github.com/tiglabs/graphkv/util/log"
)

// route is where one kind lives.
type route struct {
	store     kvstore.KVStore
	partition string
}

// base holds the routing table and the queries shared by every topology.
type base struct {
	mode   Mode
	routes [numKinds]route
	stores []kvstore.KVStore
	strict bool
	rand   func() uint64
}

func newBase(mode Mode, strict bool) base {
	return base{mode: mode, strict: strict, rand: rand.Uint64}
}

func (b *base) Mode() Mode {
	return b.mode
}

func (b *base) Writer() *Writer {
	return newWriter()
}

func (b *base) scan(kind Kind, prefix []byte) (kvstore.KVIterator, error) {
	r := b.routes[kind]
	it, err := r.store.PrefixIterator(r.partition, prefix)
	if err != nil {
		return nil, errors.Wrapf(err, "scan %v", kind)
	}
	return it, nil
}

func (b *base) has(kind Kind, key []byte) (bool, error) {
	r := b.routes[kind]
	_, err := r.store.Get(r.partition, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "get %v", kind)
	}
	return true, nil
}

func (b *base) ContainsThing(thing concept.Thing) (bool, error) {
	return b.has(KindThing, thing.Bytes())
}

func (b *base) ContainsAttribute(attr concept.Attribute) (bool, error) {
	return b.has(KindAttribute, attr.Bytes())
}

func iterate[T any](b *base, kind Kind, prefix []byte, decode func([]byte) (T, error)) *Iterator[T] {
	return newIterator(func() (kvstore.KVIterator, error) {
		return b.scan(kind, prefix)
	}, decode, b.strict)
}

// first returns the first record of the iterator.
func first[T any](it *Iterator[T]) (T, bool, error) {
	defer it.Close()
	if it.Next() {
		return it.Item(), true, nil
	}
	var zero T
	return zero, false, it.Err()
}

func (b *base) IterateHas(owner concept.Thing) *Iterator[concept.Attribute] {
	return iterate(b, KindHasForward, concept.HasForwardPrefix(nil, owner), func(k []byte) (concept.Attribute, error) {
		e, err := concept.DecodeHasForward(k)
		return e.Attribute, err
	})
}

func (b *base) IterateOwners(attr concept.Attribute) *Iterator[concept.Thing] {
	return iterate(b, KindHasBackward, concept.HasBackwardPrefix(nil, attr), func(k []byte) (concept.Thing, error) {
		e, err := concept.DecodeHasBackward(k)
		return e.Owner, err
	})
}

func (b *base) GetOneOwner(attr concept.Attribute) (concept.Thing, bool, error) {
	return first(b.IterateOwners(attr))
}

func (b *base) GetOneHas(owner concept.Thing) (concept.Attribute, bool, error) {
	return first(b.IterateHas(owner))
}

func (b *base) IterateRolePlayers(relation concept.Thing) *Iterator[concept.RelatesEdge] {
	return iterate(b, KindRelatesForward, concept.RelatesPrefix(nil, relation), concept.DecodeRelatesForward)
}

func (b *base) IterateRelations(player concept.Thing) *Iterator[concept.RelatesEdge] {
	return iterate(b, KindRelatesBackward, concept.RelatesPrefix(nil, player), concept.DecodeRelatesBackward)
}

func decodeSiblingPlayer(k []byte) (concept.Thing, error) {
	e, err := concept.DecodeSibling(k)
	return e.RightPlayer, err
}

func (b *base) IterateSiblings(start concept.Thing, role concept.Type, relationType concept.Type) *Iterator[concept.Thing] {
	prefix := concept.SiblingPrefix(nil, start, role, relationType)
	return iterate(b, KindSibling, prefix, decodeSiblingPlayer)
}

// GetRandomSibling seeks to prefix‖random relation id and takes the first sibling at
// or after it, wrapping to the start of the prefix range when the seek lands past
// the last relation. Relations with more players, and relations preceded by a wide
// gap in the id space, are picked more often.
func (b *base) GetRandomSibling(start concept.Thing, role concept.Type, relationType concept.Type) (concept.Thing, bool, error) {
	prefix := concept.SiblingPrefix(make([]byte, 0, concept.SiblingPrefixEncodedLen+8), start, role, relationType)
	it, err := b.scan(KindSibling, prefix)
	if err != nil {
		return concept.Thing{}, false, err
	}
	defer it.Close()

	it.Seek(encoding.EncodeUint64Ascending(prefix, b.rand()))
	if thing, ok, err := b.firstSibling(it); ok || err != nil {
		return thing, ok, err
	}
	it.Seek(prefix)
	return b.firstSibling(it)
}

func (b *base) firstSibling(it kvstore.KVIterator) (concept.Thing, bool, error) {
	for ; it.Valid(); it.Next() {
		thing, err := decodeSiblingPlayer(it.Key())
		if err != nil {
			if b.strict {
				return concept.Thing{}, false, errors.Wrapf(ErrCorruptKey, "key[%x]: %v", it.Key(), err)
			}
			log.Debug("skip undecodable key[%x]: %v", it.Key(), err)
			continue
		}
		return thing, true, nil
	}
	return concept.Thing{}, false, nil
}

// TotalKeyCount counts each distinct (store, partition) once, so kinds sharing a
// keyspace are not counted twice.
func (b *base) TotalKeyCount() (int, error) {
	seen := make(map[route]struct{}, numKinds)
	total := 0
	for kind, r := range b.routes {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		n, err := kvstore.CountRange(r.store, r.partition, nil, nil)
		if err != nil {
			return 0, errors.Wrapf(err, "count %v", Kind(kind))
		}
		total += n
	}
	return total, nil
}

// commitBatch applies every kind of w to one store in one batch.
func (b *base) commitBatch(store kvstore.KVStore, w *Writer, kinds []Kind) error {
	batch := store.NewKVBatch()
	defer batch.Close()
	for _, kind := range kinds {
		partition := b.routes[kind].partition
		for _, key := range w.keys[kind] {
			batch.Set(partition, key, nil)
		}
	}
	if batch.Len() == 0 {
		return nil
	}
	return store.ExecuteBatch(batch)
}

func (b *base) Close() error {
	var firstErr error
	for _, s := range b.stores {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
