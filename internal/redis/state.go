package redis

import (
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/Avik32223/dlinkedlist/pkg/lists"
	"github.com/dchest/siphash"
)

// State is the keyspace. Keys are spread over shards by a keyed siphash;
// every list is only touched while its shard's mutex is held, since
// lists.List does no locking of its own.
type State struct {
	seed   []byte
	shards []*shard
}

type shard struct {
	mu   sync.Mutex
	data map[string]*lists.List[string]
}

var randRead = rand.Read

// NewState creates n shards. A nil seed is replaced by a random one.
func NewState(n int, seed []byte) (*State, error) {
	if n < 1 {
		n = 1
	}
	if len(seed) != 16 {
		seed = make([]byte, 16)
		if _, err := randRead(seed); err != nil {
			return nil, fmt.Errorf("hash seed: %w", err)
		}
	}
	s := &State{
		seed:   seed,
		shards: make([]*shard, n),
	}
	for i := range s.shards {
		s.shards[i] = &shard{data: make(map[string]*lists.List[string])}
	}
	return s, nil
}

func (s *State) shardFor(key string) *shard {
	h := siphash.New(s.seed)
	h.Write([]byte(key))
	return s.shards[h.Sum64()%uint64(len(s.shards))]
}

// update runs fn with the list stored at key (nil if absent) under the
// shard lock. fn may create, replace or terminate the list through the
// handle; a list left empty is terminated and the key removed.
func (s *State) update(key string, fn func(l **lists.List[string]) (any, error)) (any, error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	l := sh.data[key]
	res, err := fn(&l)
	switch {
	case l == nil:
		delete(sh.data, key)
	case l.Len() == 0:
		lists.Terminate(&l)
		delete(sh.data, key)
	default:
		sh.data[key] = l
	}
	return res, err
}

// view runs fn with the list at key under the shard lock. fn must not
// mutate the list.
func (s *State) view(key string, fn func(l *lists.List[string]) (any, error)) (any, error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return fn(sh.data[key])
}

// Keys returns the number of keys held.
func (s *State) Keys() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.data)
		sh.mu.Unlock()
	}
	return n
}
