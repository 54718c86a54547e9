package usecase

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// stripedLock serializes work per key with a fixed set of mutexes.
type stripedLock struct {
	stripes []sync.Mutex
}

func newStripedLock(n int) *stripedLock {
	if n <= 0 {
		n = 1
	}
	return &stripedLock{stripes: make([]sync.Mutex, n)}
}

func (l *stripedLock) Lock(key string) (unlock func()) {
	m := &l.stripes[xxhash.Sum64String(key)%uint64(len(l.stripes))]
	m.Lock()
	return m.Unlock
}
