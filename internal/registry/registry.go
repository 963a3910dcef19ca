// Package registry holds the process-wide table of operation descriptors,
// keyed by call signature and payload type. Entries are created lazily and
// never removed.
package registry

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Key identifies one descriptor. Payload is nil for the empty descriptor of a signature.
type Key struct {
	Signature reflect.Type
	Payload   reflect.Type
}

// String renders k for logs. Use hash for shard selection.
func (k Key) String() string {
	if k.Payload == nil {
		return fmt.Sprintf("%v[empty]", k.Signature)
	}
	return fmt.Sprintf("%v[%v]", k.Signature, k.Payload)
}

// hash mixes the type names of k. reflect.Type.String returns the name
// stored in the type data, so hashing does not allocate.
func (k Key) hash() uint64 {
	h := xxhash.Sum64String(k.Signature.String())
	if k.Payload != nil {
		h = h*31 + xxhash.Sum64String(k.Payload.String())
	}
	return h
}

// Entry is what the registry stores. Entries must be immutable once created.
type Entry interface {
	ID() uuid.UUID
	Class() string
}

// Registry is a sharded, grow-only table of entries. It is safe for concurrent use.
type Registry struct {
	shards []*sync.Map
	logger *zap.Logger
	size   atomic.Int64
}

// New returns an empty registry; zero fields of config take their defaults.
func New(config Config) *Registry {
	config = NewConfig(config.Logger, config.NumShards)
	shards := make([]*sync.Map, config.NumShards)
	for i := range shards {
		shards[i] = &sync.Map{}
	}
	return &Registry{
		shards: shards,
		logger: config.Logger,
	}
}

// Len returns the number of entries created so far.
func (r *Registry) Len() int {
	return int(r.size.Load())
}

// Lookup returns the entry stored under k without creating one.
func (r *Registry) Lookup(k Key) (Entry, bool) {
	raw, ok := r.shardOf(k).Load(k)
	if !ok {
		return nil, false
	}
	e, ok := raw.(Entry)
	return e, ok
}

// LoadOrCreate returns the entry stored under k, creating it with create on
// first use. Concurrent first uses may each call create, but all of them
// observe the single entry that won the store.
func (r *Registry) LoadOrCreate(k Key, create func() Entry) Entry {
	if e, ok := r.Lookup(k); ok {
		return e
	}
	actual, loaded := r.shardOf(k).LoadOrStore(k, create())
	e, ok := actual.(Entry)
	if !ok {
		panic(fmt.Errorf("registry entry for %v has unexpected type: %T", k, actual))
	}
	if !loaded {
		r.size.Add(1)
		r.logger.Sugar().Debugw("registered descriptor",
			"key", k.String(),
			"class", e.Class(),
			"descriptorId", e.ID().String(),
		)
	}
	return e
}

func (r *Registry) shardOf(k Key) *sync.Map {
	return r.shards[shardIndex(k.hash(), len(r.shards))]
}

func shardIndex(hash uint64, numShards int) int {
	switch numShards {
	case 0:
		panic("number of shards cannot be 0")
	case 1:
		return 0
	default:
		return int(hash % uint64(numShards))
	}
}
