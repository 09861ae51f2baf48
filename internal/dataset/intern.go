package dataset

import "sync"

// StringIntern deduplicates label storage for categorical columns.
// Survey-style files repeat the same sentiment labels on most rows, so
// interning keeps one backing string per distinct label.
type StringIntern struct {
	mu   sync.RWMutex
	pool map[string]string
}

// MaxInternPoolSize caps the pool so files with mostly-unique labels
// cannot grow it without bound. Past the cap, strings pass through.
const MaxInternPoolSize = 100000

// NewStringIntern creates a new interner.
func NewStringIntern() *StringIntern {
	return &StringIntern{pool: make(map[string]string, 256)}
}

// Intern returns the canonical copy of s, storing it on first sight.
func (si *StringIntern) Intern(s string) string {
	si.mu.RLock()
	if pooled, ok := si.pool[s]; ok {
		si.mu.RUnlock()
		return pooled
	}
	if len(si.pool) >= MaxInternPoolSize {
		si.mu.RUnlock()
		return s
	}
	si.mu.RUnlock()

	si.mu.Lock()
	defer si.mu.Unlock()
	if pooled, ok := si.pool[s]; ok {
		return pooled
	}
	if len(si.pool) >= MaxInternPoolSize {
		return s
	}
	si.pool[s] = s
	return s
}

// Len returns the number of unique strings held.
func (si *StringIntern) Len() int {
	si.mu.RLock()
	defer si.mu.RUnlock()
	return len(si.pool)
}
