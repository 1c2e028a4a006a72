package storage

import (
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiglabs/graphkv/concept"
	"github.com/tiglabs/graphkv/kernel/store/kvstore"
	"github.com/tiglabs/graphkv/util/bytes"
)

var allModes = []Mode{ModeSingle, ModePartitioned, ModeMulti}

func openTest(t *testing.T, mode Mode, engine Engine) Storage {
	t.Helper()
	cfg := Config{Mode: mode, Engine: engine}
	if engine.persistent() {
		cfg.Path = filepath.Join(t.TempDir(), "graph")
		cfg.MemTableSize = 16 * bytes.MB
	}
	s, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// populate writes 4 persons with names, a three-way friendship and a two-way one:
// 4 things + 4 attributes + 8 has + (1+6+6) + (1+4+2) = 36 keys.
func populate(t *testing.T, s Storage) {
	w := s.Writer()
	for i := uint64(1); i <= 4; i++ {
		w.PutEntity(person(i))
		w.PutAttribute(name(100 + i))
		w.PutOwnership(person(i), name(100+i))
	}
	require.NoError(t, s.Commit(w))
	assert.Equal(t, 0, w.Len())

	w.PutRelation(friendship(1), friends(person(1), person(2), person(3)))
	require.NoError(t, s.Commit(w))
	w.PutRelation(friendship(2), friends(person(1), person(4)))
	require.NoError(t, s.Commit(w))
}

const populatedKeys = 36

// answers gathers every query result of the populated graph.
type answers struct {
	Total     int
	Owners    map[uint64]concept.Thing
	Has       map[uint64]concept.Attribute
	Siblings  map[uint64][]concept.Thing
	Players   map[uint64][]concept.RelatesEdge
	Relations map[uint64][]concept.RelatesEdge
	Things    map[uint64]bool
}

func gather(t *testing.T, s Storage) answers {
	rv := answers{
		Owners:    map[uint64]concept.Thing{},
		Has:       map[uint64]concept.Attribute{},
		Siblings:  map[uint64][]concept.Thing{},
		Players:   map[uint64][]concept.RelatesEdge{},
		Relations: map[uint64][]concept.RelatesEdge{},
		Things:    map[uint64]bool{},
	}
	var err error
	rv.Total, err = s.TotalKeyCount()
	require.NoError(t, err)
	for i := uint64(1); i <= 5; i++ {
		if owner, ok, err := s.GetOneOwner(name(100 + i)); assert.NoError(t, err) && ok {
			rv.Owners[i] = owner
		}
		if attr, ok, err := s.GetOneHas(person(i)); assert.NoError(t, err) && ok {
			rv.Has[i] = attr
		}
		rv.Siblings[i], err = Collect(s.IterateSiblings(person(i), friendRole, friendshipType))
		require.NoError(t, err)
		rv.Relations[i], err = Collect(s.IterateRelations(person(i)))
		require.NoError(t, err)
		rv.Things[i], err = s.ContainsThing(person(i))
		require.NoError(t, err)
	}
	for r := uint64(1); r <= 2; r++ {
		rv.Players[r], err = Collect(s.IterateRolePlayers(friendship(r)))
		require.NoError(t, err)
	}
	return rv
}

func TestTopologiesAgree(t *testing.T) {
	for _, engine := range []Engine{EngineMemory, EngineBadger, EngineBolt} {
		var want answers
		for i, mode := range allModes {
			t.Run(fmt.Sprintf("%v/%v", engine, mode), func(t *testing.T) {
				s := openTest(t, mode, engine)
				require.Equal(t, mode, s.Mode())
				populate(t, s)
				got := gather(t, s)
				require.Equal(t, populatedKeys, got.Total)
				if i == 0 {
					want = got
					return
				}
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("%v differs from %v (-want +got):\n%s", mode, allModes[0], diff)
				}
			})
		}
	}
}

func TestOwnership(t *testing.T) {
	for _, mode := range allModes {
		t.Run(string(mode), func(t *testing.T) {
			s := openTest(t, mode, EngineMemory)
			w := s.Writer()
			w.PutOwnership(person(1), name(7))
			require.NoError(t, s.Commit(w))

			owner, ok, err := s.GetOneOwner(name(7))
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, person(1), owner)

			attr, ok, err := s.GetOneHas(person(1))
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, name(7), attr)

			_, ok, err = s.GetOneOwner(name(8))
			require.NoError(t, err)
			assert.False(t, ok)

			_, ok, err = s.GetOneHas(person(2))
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSiblings(t *testing.T) {
	for _, mode := range allModes {
		t.Run(string(mode), func(t *testing.T) {
			s := openTest(t, mode, EngineMemory)
			populate(t, s)

			got, err := Collect(s.IterateSiblings(person(1), friendRole, friendshipType))
			require.NoError(t, err)
			assert.Equal(t, []concept.Thing{person(2), person(3), person(4)}, got)

			for _, p := range []uint64{2, 3} {
				got, err = Collect(s.IterateSiblings(person(p), friendRole, friendshipType))
				require.NoError(t, err)
				assert.Len(t, got, 2)
				assert.Contains(t, got, person(1))
			}

			// other role or relation type share the start thing but not the prefix
			otherRole := concept.Type{Prefix: concept.PrefixRole, ID: 99}
			otherRel := concept.Type{Prefix: concept.PrefixRelation, ID: 99}
			got, err = Collect(s.IterateSiblings(person(1), otherRole, friendshipType))
			require.NoError(t, err)
			assert.Empty(t, got)
			got, err = Collect(s.IterateSiblings(person(1), friendRole, otherRel))
			require.NoError(t, err)
			assert.Empty(t, got)

			// restartable
			it := s.IterateSiblings(person(1), friendRole, friendshipType)
			require.True(t, it.Next())
			require.NoError(t, it.Close())
			got, err = Collect(s.IterateSiblings(person(1), friendRole, friendshipType))
			require.NoError(t, err)
			assert.Len(t, got, 3)
		})
	}
}

func TestRandomSibling(t *testing.T) {
	for _, mode := range allModes {
		t.Run(string(mode), func(t *testing.T) {
			s := openTest(t, mode, EngineMemory)
			populate(t, s)

			_, ok, err := s.GetRandomSibling(person(9), friendRole, friendshipType)
			require.NoError(t, err)
			assert.False(t, ok)

			members := map[concept.Thing]bool{person(2): true, person(3): true, person(4): true}
			for i := 0; i < 200; i++ {
				got, ok, err := s.GetRandomSibling(person(1), friendRole, friendshipType)
				require.NoError(t, err)
				require.True(t, ok)
				require.True(t, members[got], "unexpected sibling %v", got)
			}
		})
	}
}

func TestRandomSiblingSeek(t *testing.T) {
	s := openTest(t, ModePartitioned, EngineMemory)
	populate(t, s)
	b := &s.(*PartitionedStorage).base

	cases := []struct {
		seek uint64
		want concept.Thing
	}{
		{0, person(2)},
		{1, person(2)},
		{2, person(4)},
		// past the last relation wraps to the first
		{3, person(2)},
		{math.MaxUint64, person(2)},
	}
	for _, c := range cases {
		seek := c.seek
		b.rand = func() uint64 { return seek }
		got, ok, err := s.GetRandomSibling(person(1), friendRole, friendshipType)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, c.want, got, "seek %d", c.seek)
	}
}

func TestRelatesQueries(t *testing.T) {
	s := openTest(t, ModePartitioned, EngineMemory)
	populate(t, s)

	players, err := Collect(s.IterateRolePlayers(friendship(2)))
	require.NoError(t, err)
	assert.Equal(t, []concept.RelatesEdge{
		{Relation: friendship(2), Role: friendRole, Player: person(1)},
		{Relation: friendship(2), Role: friendRole, Player: person(4)},
	}, players)

	rels, err := Collect(s.IterateRelations(person(1)))
	require.NoError(t, err)
	assert.Equal(t, []concept.RelatesEdge{
		{Relation: friendship(1), Role: friendRole, Player: person(1)},
		{Relation: friendship(2), Role: friendRole, Player: person(1)},
	}, rels)

	ok, err := s.ContainsThing(friendship(1))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.ContainsAttribute(name(101))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.ContainsAttribute(name(999))
	require.NoError(t, err)
	assert.False(t, ok)
}

// friendship(10) plays in friendship(11). The single keyspace mixes both relates
// directions under friendship(10)'s prefix; the other modes keep them apart.
func TestNestedRelationQueries(t *testing.T) {
	inner, outer := friendship(10), friendship(11)
	for _, mode := range []Mode{ModeSingle, ModePartitioned} {
		t.Run(string(mode), func(t *testing.T) {
			s := openTest(t, mode, EngineMemory)
			w := s.Writer()
			w.PutRelation(inner, friends(person(1), person(2)))
			w.PutRelation(outer, friends(inner, person(3)))
			require.NoError(t, s.Commit(w))

			players, err := Collect(s.IterateRolePlayers(inner))
			require.NoError(t, err)
			rels, err := Collect(s.IterateRelations(inner))
			require.NoError(t, err)

			wantPlayers := []concept.RelatesEdge{
				{Relation: inner, Role: friendRole, Player: person(1)},
				{Relation: inner, Role: friendRole, Player: person(2)},
			}
			wantRels := []concept.RelatesEdge{
				{Relation: outer, Role: friendRole, Player: inner},
			}
			if mode == ModeSingle {
				wantPlayers = append(wantPlayers, concept.RelatesEdge{Relation: inner, Role: friendRole, Player: outer})
				wantRels = []concept.RelatesEdge{
					{Relation: person(1), Role: friendRole, Player: inner},
					{Relation: person(2), Role: friendRole, Player: inner},
					{Relation: outer, Role: friendRole, Player: inner},
				}
			}
			assert.Equal(t, wantPlayers, players)
			assert.Equal(t, wantRels, rels)
		})
	}
}

func TestDecodeLenientAndStrict(t *testing.T) {
	for _, strict := range []bool{false, true} {
		t.Run(fmt.Sprintf("strict=%v", strict), func(t *testing.T) {
			s, err := Open(Config{Mode: ModeSingle, Engine: EngineMemory, StrictDecode: strict})
			require.NoError(t, err)
			defer s.Close()
			populate(t, s)

			// a short key under the sibling prefix of person 1
			bad := concept.SiblingPrefix(nil, person(1), friendRole, friendshipType)
			bad = append(bad, 0x00)
			store := s.(*SingleStorage).stores[0]
			batch := store.NewKVBatch()
			batch.Set(kvstore.DefaultPartition, bad, nil)
			require.NoError(t, store.ExecuteBatch(batch))

			got, err := Collect(s.IterateSiblings(person(1), friendRole, friendshipType))
			if strict {
				require.ErrorIs(t, err, ErrCorruptKey)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, 3)
		})
	}
}

type failingStore struct {
	kvstore.KVStore
}

var errInjected = errors.New("injected")

func (s failingStore) ExecuteBatch(kvstore.KVBatch) error {
	return errInjected
}

func TestMultiPartialCommit(t *testing.T) {
	s := openTest(t, ModeMulti, EngineMemory).(*MultiStorage)
	s.routes[KindHasForward].store = failingStore{s.routes[KindHasForward].store}

	w := s.Writer()
	w.PutEntity(person(1))
	w.PutAttribute(name(1))
	w.PutOwnership(person(1), name(1))
	err := s.Commit(w)

	var perr *PartialCommitError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, []Kind{KindThing, KindAttribute}, perr.Applied)
	assert.Equal(t, KindHasForward, perr.Failed)
	assert.ErrorIs(t, err, errInjected)
	assert.Equal(t, 4, w.Len(), "writer kept after a failed commit")

	// the applied kinds are visible, the rest are not
	ok, err := s.ContainsThing(person(1))
	require.NoError(t, err)
	assert.True(t, ok)
	_, ok, err = s.GetOneOwner(name(1))
	require.NoError(t, err)
	assert.False(t, ok)

	// failing on the first kind is a plain error
	s.routes[KindThing].store = failingStore{s.routes[KindThing].store}
	w.Reset()
	w.PutEntity(person(2))
	err = s.Commit(w)
	require.ErrorIs(t, err, errInjected)
	assert.False(t, errors.As(err, &perr))
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(Config{Mode: "ring", Engine: EngineMemory})
	assert.ErrorIs(t, err, ErrUnknownMode)
	_, err = Open(Config{Mode: ModeSingle, Engine: "rocks"})
	assert.ErrorIs(t, err, ErrUnknownEngine)
	_, err = Open(Config{Mode: ModeSingle, Engine: EngineBadger})
	assert.ErrorIs(t, err, ErrNoPath)
	_, err = Open(Config{Path: t.TempDir(), Engine: EngineBadger, MemTableSize: 512 * bytes.KB})
	assert.ErrorIs(t, err, ErrMemTableTooSmall)
}

func TestSmallMemTable(t *testing.T) {
	s, err := Open(Config{Path: filepath.Join(t.TempDir(), "graph"), Engine: EngineBadger, MemTableSize: 4 * bytes.MB})
	require.NoError(t, err)
	defer s.Close()
	populate(t, s)
	n, err := s.TotalKeyCount()
	require.NoError(t, err)
	assert.Equal(t, populatedKeys, n)
}

// A relation with 400 players needs 400*399 sibling keys, more than one badger
// transaction holds. The commit must leave the store as it was.
func TestOversizedRelationCommit(t *testing.T) {
	s := openTest(t, ModePartitioned, EngineBadger)
	populate(t, s)

	players := make([]concept.Thing, 400)
	for i := range players {
		players[i] = person(uint64(1000 + i))
	}
	w := s.Writer()
	w.PutRelation(friendship(3), friends(players...))
	want := w.Len()

	err := s.Commit(w)
	n, cerr := s.TotalKeyCount()
	require.NoError(t, cerr)
	if err == nil {
		assert.Equal(t, populatedKeys+want, n)
		return
	}
	require.ErrorIs(t, err, kvstore.ErrBatchTooLarge)
	assert.Equal(t, populatedKeys, n)
	assert.Equal(t, want, w.Len(), "failed commit keeps the writer")
}

func TestDestroyOnStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph")
	for _, destroy := range []bool{false, true} {
		cfg := Config{Path: path, Mode: ModeMulti, Engine: EngineBolt}
		s, err := Open(cfg)
		require.NoError(t, err)
		w := s.Writer()
		w.PutEntity(person(1))
		require.NoError(t, s.Commit(w))
		require.NoError(t, s.Close())

		cfg.DestroyOnStart = destroy
		s, err = Open(cfg)
		require.NoError(t, err)
		n, err := s.TotalKeyCount()
		require.NoError(t, err)
		if destroy {
			assert.Equal(t, 0, n)
		} else {
			assert.Equal(t, 1, n)
		}
		require.NoError(t, s.Close())
	}
}

func TestNullEngine(t *testing.T) {
	s := openTest(t, ModePartitioned, EngineNull)
	populate(t, s)
	n, err := s.TotalKeyCount()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	_, ok, err := s.GetRandomSibling(person(1), friendRole, friendshipType)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConcurrentWriters(t *testing.T) {
	s := openTest(t, ModePartitioned, EngineBadger)
	const workers, per = 4, 25
	errs := make(chan error, workers)
	for g := 0; g < workers; g++ {
		go func(g int) {
			w := s.Writer()
			for i := 0; i < per; i++ {
				id := uint64(g*per + i + 1)
				w.PutEntity(person(id))
				w.PutRelation(friendship(id), friends(person(id), person(0)))
				if err := s.Commit(w); err != nil {
					errs <- err
					return
				}
			}
			errs <- nil
		}(g)
	}
	for g := 0; g < workers; g++ {
		require.NoError(t, <-errs)
	}
	got, err := Collect(s.IterateSiblings(person(0), friendRole, friendshipType))
	require.NoError(t, err)
	assert.Len(t, got, workers*per)
}
