package service

import "sync"

// keyMutex provides one mutex per user key, created lazily on first use.
//
// Every mutation operation follows a load-entire-state, mutate-copy,
// persist-entire-state sequence with no finer-grained locking, so two
// concurrent mutations for the same key would race classically (both load
// the same pre-update state, one overwrites the other's change). Holding the
// key's mutex across the whole sequence linearizes mutations per user key
// while leaving different keys fully independent.
//
// Mutexes are never reclaimed; the map grows with the active user
// population, which is bounded and small per process.
type keyMutex struct {
	mu      sync.Mutex
	mutexes map[string]*sync.Mutex
}

func newKeyMutex() *keyMutex {
	return &keyMutex{
		mutexes: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the mutex for the given key and returns its unlock function.
func (k *keyMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.mutexes[key]
	if !ok {
		m = &sync.Mutex{}
		k.mutexes[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
