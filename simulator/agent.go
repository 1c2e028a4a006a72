package simulator

import (
	"context"
	"math/rand/v2"

	"github.com/pkg/errors"
	"github.com/tiglabs/graphkv/concept"
	"github.com/tiglabs/graphkv/storage"
	"go.uber.org/atomic"
)

// randomFriendships is how many friends-of-supernodes an agent tries per person.
const randomFriendships = 5

// Stats are shared by every agent of a run.
type Stats struct {
	Commits   atomic.Uint64
	Keys      atomic.Uint64
	Persons   atomic.Uint64
	Relations atomic.Uint64
	// Misses counts lookups that found no supernode or no sibling.
	Misses atomic.Uint64
}

// Agent is one writer of a run. An Agent is not safe for concurrent use.
type Agent struct {
	id         int
	store      storage.Storage
	supernodes []concept.Attribute
	rng        *rand.Rand
	stats      *Stats
}

func NewAgent(id int, store storage.Storage, supernodes []concept.Attribute, seed uint64, stats *Stats) *Agent {
	if stats == nil {
		stats = new(Stats)
	}
	return &Agent{
		id:         id,
		store:      store,
		supernodes: supernodes,
		rng:        rand.New(rand.NewPCG(seed, uint64(id))),
		stats:      stats,
	}
}

func (a *Agent) newThing(t concept.Type) concept.Thing {
	// collisions are unlikely enough to ignore
	return concept.Thing{Type: t, ID: concept.ThingID(a.rng.Uint64())}
}

func (a *Agent) pickSupernode() concept.Attribute {
	return a.supernodes[a.rng.IntN(len(a.supernodes))]
}

// RegisterPerson writes a new person named name.
func (a *Agent) RegisterPerson(w *storage.Writer, name concept.Attribute) concept.Thing {
	w.PutAttribute(name)
	person := a.newThing(Person)
	w.PutEntity(person)
	w.PutOwnership(person, name)
	a.stats.Persons.Inc()
	return person
}

func (a *Agent) befriend(w *storage.Writer, x, y concept.Thing) {
	w.PutRelation(a.newThing(Friendship), []storage.RolePlayer{
		{Role: Friend, Player: x},
		{Role: Friend, Player: y},
	})
	a.stats.Relations.Inc()
}

// MakeSupernodeFriendship befriends person with a randomly picked supernode.
func (a *Agent) MakeSupernodeFriendship(w *storage.Writer, person concept.Thing) error {
	popular, ok, err := a.store.GetOneOwner(a.pickSupernode())
	if err != nil {
		return err
	}
	if !ok {
		a.stats.Misses.Inc()
		return nil
	}
	a.befriend(w, popular, person)
	return nil
}

// MakeRandomFriendships befriends person with up to five random friends of supernodes.
func (a *Agent) MakeRandomFriendships(w *storage.Writer, person concept.Thing) error {
	for i := 0; i < randomFriendships; i++ {
		popular, ok, err := a.store.GetOneOwner(a.pickSupernode())
		if err != nil {
			return err
		}
		if !ok {
			a.stats.Misses.Inc()
			continue
		}
		rando, ok, err := a.store.GetRandomSibling(popular, Friend, Friendship)
		if err != nil {
			return err
		}
		if !ok {
			a.stats.Misses.Inc()
			continue
		}
		a.befriend(w, rando, person)
	}
	return nil
}

// Step builds and commits one mutation.
func (a *Agent) Step(w *storage.Writer) error {
	person := a.RegisterPerson(w, nameOf(a.rng.Uint64()))
	if err := a.MakeSupernodeFriendship(w, person); err != nil {
		return err
	}
	if err := a.MakeRandomFriendships(w, person); err != nil {
		return err
	}
	n := w.Len()
	if err := a.store.Commit(w); err != nil {
		return err
	}
	a.stats.Commits.Inc()
	a.stats.Keys.Add(uint64(n))
	return nil
}

// Run commits mutations until ctx is done. ctx is checked between mutations only;
// a mutation in flight always completes. Store failures end the run.
func (a *Agent) Run(ctx context.Context) error {
	w := a.store.Writer()
	for ctx.Err() == nil {
		if err := a.Step(w); err != nil {
			return errors.Wrapf(err, "agent[%d]", a.id)
		}
	}
	return nil
}
