package builder

import "sync"

// Locked serializes access to a Builder shared between goroutines. Each Do
// call holds the lock for the whole sequence of operations it performs, so
// multi-step edits are never interleaved.
type Locked struct {
	mu sync.Mutex
	b  *Builder
}

// NewLocked wraps b. A nil b is replaced with an empty Builder.
func NewLocked(b *Builder) *Locked {
	if b == nil {
		b = New()
	}
	return &Locked{b: b}
}

// Do runs fn with exclusive access to the builder.
func (l *Locked) Do(fn func(b *Builder)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.b)
}

// Build returns the grid under the lock.
func (l *Locked) Build() Grid {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Build()
}
