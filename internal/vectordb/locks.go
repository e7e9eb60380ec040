package vectordb

import "sync"

// subjectLocks hands out one RWMutex per subject. Entries are never
// removed; the set of subjects is small and long-lived.
type subjectLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

func newSubjectLocks() *subjectLocks {
	return &subjectLocks{locks: make(map[string]*sync.RWMutex)}
}

func (l *subjectLocks) get(subject string) *sync.RWMutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[subject]
	if !ok {
		m = &sync.RWMutex{}
		l.locks[subject] = m
	}
	return m
}
