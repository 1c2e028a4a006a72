package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiglabs/graphkv/concept"
)

var (
	personType     = concept.Type{Prefix: concept.PrefixEntity, ID: 1}
	friendshipType = concept.Type{Prefix: concept.PrefixRelation, ID: 2}
	friendRole     = concept.Type{Prefix: concept.PrefixRole, ID: 3}
	nameType       = concept.AttributeType{ID: 4, ValueType: concept.ValueTypeLong}
)

func person(id uint64) concept.Thing {
	return concept.Thing{Type: personType, ID: concept.ThingID(id)}
}

func friendship(id uint64) concept.Thing {
	return concept.Thing{Type: friendshipType, ID: concept.ThingID(id)}
}

func name(v uint64) concept.Attribute {
	return concept.Attribute{Type: nameType, Value: v}
}

func friends(ps ...concept.Thing) []RolePlayer {
	rv := make([]RolePlayer, len(ps))
	for i, p := range ps {
		rv[i] = RolePlayer{Role: friendRole, Player: p}
	}
	return rv
}

func TestWriterPutRelation(t *testing.T) {
	w := newWriter()
	w.PutRelation(friendship(1), friends(person(1), person(2), person(3)))

	assert.Len(t, w.Keys(KindThing), 1)
	assert.Len(t, w.Keys(KindRelatesForward), 3)
	assert.Len(t, w.Keys(KindRelatesBackward), 3)
	require.Len(t, w.Keys(KindSibling), 6)
	assert.Equal(t, 13, w.Len())

	seen := make(map[[2]concept.ThingID]bool)
	for _, k := range w.Keys(KindSibling) {
		e, err := concept.DecodeSibling(k)
		require.NoError(t, err)
		assert.Equal(t, friendship(1), e.Relation)
		assert.NotEqual(t, e.LeftPlayer, e.RightPlayer)
		seen[[2]concept.ThingID{e.LeftPlayer.ID, e.RightPlayer.ID}] = true
	}
	for i := uint64(1); i <= 3; i++ {
		for j := uint64(1); j <= 3; j++ {
			if i != j {
				assert.True(t, seen[[2]concept.ThingID{concept.ThingID(i), concept.ThingID(j)}], "missing %d->%d", i, j)
			}
		}
	}
}

func TestWriterDedupPlayers(t *testing.T) {
	w := newWriter()
	w.PutRelation(friendship(1), friends(person(1), person(2), person(1)))
	assert.Len(t, w.Keys(KindRelatesForward), 2)
	assert.Len(t, w.Keys(KindSibling), 2)

	// same player in two roles is two participants
	w.Reset()
	other := concept.Type{Prefix: concept.PrefixRole, ID: 9}
	w.PutRelation(friendship(1), []RolePlayer{
		{Role: friendRole, Player: person(1)},
		{Role: other, Player: person(1)},
	})
	assert.Len(t, w.Keys(KindSibling), 2)
}

func TestWriterSinglePlayerRelation(t *testing.T) {
	w := newWriter()
	w.PutRelation(friendship(1), friends(person(1)))
	assert.Len(t, w.Keys(KindThing), 1)
	assert.Len(t, w.Keys(KindRelatesForward), 1)
	assert.Empty(t, w.Keys(KindSibling))

	w.Reset()
	w.PutRelation(friendship(2), nil)
	assert.Equal(t, 1, w.Len())
}

func TestWriterOwnershipAndReset(t *testing.T) {
	w := newWriter()
	w.PutEntity(person(7))
	w.PutAttribute(name(42))
	w.PutOwnership(person(7), name(42))
	assert.Equal(t, 4, w.Len())

	fwd := w.Keys(KindHasForward)[0]
	bwd := w.Keys(KindHasBackward)[0]
	assert.Equal(t, concept.HasEdge{Owner: person(7), Attribute: name(42)}.ForwardBytes(), fwd)
	assert.Equal(t, concept.HasEdge{Owner: person(7), Attribute: name(42)}.BackwardBytes(), bwd)

	w.Reset()
	assert.Equal(t, 0, w.Len())
	for _, k := range Kinds() {
		assert.Empty(t, w.Keys(k))
	}
}
