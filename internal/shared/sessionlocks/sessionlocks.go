package sessionlocks

import (
	"encoding/binary"
	"hash/fnv"
	"sync"
)

// KeyedLocks provides per-key advisory locking backed by a fixed set of
// mutex stripes. Keys are routed to stripes by FNV hash, so two holders of
// the same key always contend on the same mutex. Distinct keys may share a
// stripe; that costs throughput, never correctness.
type KeyedLocks struct {
	stripes []sync.Mutex
}

const defaultNumStripes = 32

func New() *KeyedLocks {
	return NewWithStripes(defaultNumStripes)
}

func NewWithStripes(n int) *KeyedLocks {
	if n < 1 {
		n = 1
	}
	return &KeyedLocks{stripes: make([]sync.Mutex, n)}
}

// Lock acquires the stripe for key and returns the unlock function.
func (l *KeyedLocks) Lock(key string) func() {
	m := &l.stripes[stripeIndex(key, len(l.stripes))]
	m.Lock()
	return m.Unlock
}

func stripeIndex(key string, n int) int {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(key))
	sum := hash.Sum(nil)
	v := binary.LittleEndian.Uint32(sum)
	return int(v % uint32(n))
}
